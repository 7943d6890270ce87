package rag

import (
	"context"
	"math"

	"github.com/renohub/core/internal/aiclient"
)

// EmbeddingProvider is the narrow surface HybridSearch needs, letting tests
// substitute a fake without pulling in aiclient's HTTP-backed Client.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// clientEmbedder adapts aiclient.Client to EmbeddingProvider.
type clientEmbedder struct{ client aiclient.Client }

func NewEmbeddingProvider(c aiclient.Client) EmbeddingProvider { return clientEmbedder{client: c} }

func (e clientEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return NormalizeEmbedding(vec), nil
}

// NormalizeEmbedding returns an L2-normalized copy of vec, so cosine
// distance and dot product agree; vec itself is left unmodified, and an
// all-zero vec is returned as is.
func NormalizeEmbedding(vec []float32) []float32 {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
