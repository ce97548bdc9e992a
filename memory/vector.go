package memory

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine of the angle between a and b in
// [-1, 1]: dot product divided by the product of magnitudes. A zero
// magnitude vector yields 0 rather than dividing by zero.
//
// Comparing vectors of different lengths is a programming error (all
// embeddings in a deployment share one dimensionality) and panics.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("memory: embedding dimension mismatch: %d != %d", len(a), len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
