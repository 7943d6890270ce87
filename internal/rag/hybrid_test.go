package rag

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renohub/core/internal/domain"
)

type fakeSearcher struct {
	vector []domain.Embedding
	fts    []domain.Embedding
}

func (f fakeSearcher) SearchVector(_ context.Context, _ uuid.UUID, _ []float32, limit int) ([]domain.Embedding, error) {
	return capAt(f.vector, limit), nil
}

func (f fakeSearcher) SearchFTS(_ context.Context, _ uuid.UUID, _ string, limit int) ([]domain.Embedding, error) {
	return capAt(f.fts, limit), nil
}

func capAt(in []domain.Embedding, n int) []domain.Embedding {
	if len(in) > n {
		return in[:n]
	}
	return in
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestHybridSearch_RanksAgreementHigher(t *testing.T) {
	idA, idB, idC := uuid.New(), uuid.New(), uuid.New()
	eA := domain.Embedding{ID: idA, Content: "agrees on both arms"}
	eB := domain.Embedding{ID: idB, Content: "vector only"}
	eC := domain.Embedding{ID: idC, Content: "fts only"}

	searcher := fakeSearcher{
		vector: []domain.Embedding{eA, eB},
		fts:    []domain.Embedding{eA, eC},
	}

	hits, err := HybridSearch(context.Background(), searcher, fakeEmbedder{}, uuid.New(), "question", 3, DefaultArmWeights)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, idA, hits[0].Embedding.ID, "item ranked first on both arms should fuse to the top score")
	assert.ElementsMatch(t, []domain.SearchSource{domain.SourceVector, domain.SourceFTS}, hits[0].Sources)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestHybridSearch_RespectsTopK(t *testing.T) {
	var vec []domain.Embedding
	for i := 0; i < 10; i++ {
		vec = append(vec, domain.Embedding{ID: uuid.New()})
	}
	searcher := fakeSearcher{vector: vec}

	hits, err := HybridSearch(context.Background(), searcher, fakeEmbedder{}, uuid.New(), "q", 3, DefaultArmWeights)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestHybridSearch_EmptyResults(t *testing.T) {
	hits, err := HybridSearch(context.Background(), fakeSearcher{}, fakeEmbedder{}, uuid.New(), "q", 5, DefaultArmWeights)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
