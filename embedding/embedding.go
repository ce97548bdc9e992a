// Package embedding defines the Embedding Provider contract: map arbitrary
// text to a fixed-length vector whose pairwise cosine similarity is
// meaningful. All embeddings compared against each other must share a single
// dimensionality for a given deployment.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Provider maps text to a fixed-length numeric vector. Identical text must
// yield directly comparable vectors across calls.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension returns the vector length every Embed call produces.
	Dimension() int
}

// MockProvider is a deterministic, network-free Provider for tests and
// examples. It hashes whitespace-separated tokens into a fixed-size bag of
// buckets and L2-normalizes the result, so identical text embeds to the same
// unit vector and overlapping text scores high cosine similarity.
type MockProvider struct {
	dimension int
}

// NewMockProvider constructs a MockProvider with the given dimension
// (defaults to 64 when dim <= 0).
func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 64
	}
	return &MockProvider{dimension: dim}
}

// Embed implements Provider.
func (m *MockProvider) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, m.dimension)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%m.dimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec, nil
}

// Dimension implements Provider.
func (m *MockProvider) Dimension() int { return m.dimension }
