package rag

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// rrfK is the rank-dampening constant from the reciprocal rank fusion
// formula score(e) = sum(weight_arm / (k + rank_arm(e) + 1)). A higher k
// flattens the influence of rank position; 60 is the standard RRF default.
const rrfK = 60

// ArmWeights controls how much each retrieval arm contributes to the
// fused score. Defaults mirror the spec's vector-leaning hybrid mix.
type ArmWeights struct {
	Vector float64
	FTS    float64
}

// DefaultArmWeights is the 0.6 vector / 0.4 full-text split.
var DefaultArmWeights = ArmWeights{Vector: 0.6, FTS: 0.4}

// Searcher is the subset of EmbeddingRepository the hybrid fusion needs.
type Searcher interface {
	SearchVector(ctx context.Context, projectID uuid.UUID, query []float32, limit int) ([]domain.Embedding, error)
	SearchFTS(ctx context.Context, projectID uuid.UUID, query string, limit int) ([]domain.Embedding, error)
}

var _ Searcher = repository.EmbeddingRepository{}

// HybridSearch runs both retrieval arms and fuses them with reciprocal
// rank fusion rather than a weighted raw-score sum: RRF only needs rank
// order per arm, so it stays stable even when the two arms' score scales
// (cosine distance vs ts_rank) aren't directly comparable.
func HybridSearch(ctx context.Context, s Searcher, embedder EmbeddingProvider, projectID uuid.UUID, query string, topK int, weights ArmWeights) ([]domain.SearchHit, error) {
	armLimit := topK * 4
	if armLimit < 20 {
		armLimit = 20
	}

	vec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	vectorHits, err := s.SearchVector(ctx, projectID, vec, armLimit)
	if err != nil {
		return nil, err
	}
	ftsHits, err := s.SearchFTS(ctx, projectID, query, armLimit)
	if err != nil {
		return nil, err
	}

	type fused struct {
		embedding domain.Embedding
		score     float64
		sources   map[domain.SearchSource]bool
	}
	byID := make(map[uuid.UUID]*fused)

	accumulate := func(hits []domain.Embedding, weight float64, source domain.SearchSource) {
		for rank, e := range hits {
			f, ok := byID[e.ID]
			if !ok {
				f = &fused{embedding: e, sources: make(map[domain.SearchSource]bool)}
				byID[e.ID] = f
			}
			f.score += weight / float64(rrfK+rank+1)
			f.sources[source] = true
		}
	}
	accumulate(vectorHits, weights.Vector, domain.SourceVector)
	accumulate(ftsHits, weights.FTS, domain.SourceFTS)

	out := make([]domain.SearchHit, 0, len(byID))
	for _, f := range byID {
		sources := make([]domain.SearchSource, 0, len(f.sources))
		for src := range f.sources {
			sources = append(sources, src)
		}
		sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
		out = append(out, domain.SearchHit{Embedding: f.embedding, Score: f.score, Sources: sources})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Embedding.ID.String() < out[j].Embedding.ID.String()
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
