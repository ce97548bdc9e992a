// Package openai implements embedding.Provider using the OpenAI Embeddings
// API.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/questforge/questforge/embedding"
)

// ErrEmptyEmbedding indicates the API returned no embedding data.
var ErrEmptyEmbedding = errors.New("embedding response contained no data")

// Options configure the OpenAI embedding adapter.
type Options struct {
	Model     string
	Dimension int
}

// Provider implements embedding.Provider using OpenAI's API.
type Provider struct {
	client *openai.Client
	opts   Options
}

var _ embedding.Provider = (*Provider)(nil)

// NewProvider creates a new OpenAI embedding provider. Credentials are read
// from the environment (OPENAI_API_KEY).
func NewProvider(optFns ...func(o *Options)) *Provider {
	client := openai.NewClient()
	return NewProviderFromClient(&client, optFns...)
}

// NewProviderFromClient creates a new OpenAI embedding provider from an
// existing client.
func NewProviderFromClient(client *openai.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{
		Model:     "text-embedding-3-small",
		Dimension: 1536,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

// Embed implements embedding.Provider.
func (p *Provider) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
		Model:          p.opts.Model,
		Dimensions:     openai.Int(int64(p.opts.Dimension)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyEmbedding
	}

	vec := make([]float64, len(resp.Data[0].Embedding))
	copy(vec, resp.Data[0].Embedding)
	return vec, nil
}

// Dimension implements embedding.Provider.
func (p *Provider) Dimension() int { return p.opts.Dimension }
