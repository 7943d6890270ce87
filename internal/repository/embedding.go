package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
)

// EmbeddingRepository persists indexed content chunks and runs the two
// retrieval arms the rag package fuses with reciprocal rank fusion: cosine
// similarity over the vector column, and Postgres full-text search over the
// generated tsvector column.
type EmbeddingRepository struct {
	pool Pool
}

func NewEmbeddingRepository(pool Pool) EmbeddingRepository {
	return EmbeddingRepository{pool: pool}
}

func (r EmbeddingRepository) Insert(ctx context.Context, e domain.Embedding) (domain.Embedding, error) {
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return domain.Embedding{}, domain.Unexpected("repository: marshaling embedding metadata", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO embeddings (project_id, content, vector, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, content, vector::text, metadata, created_at
	`, e.ProjectID, e.Content, encodeVector(e.Vector), meta)
	return scanEmbedding(row)
}

// SearchVector returns the top limit embeddings by ascending cosine
// distance to query (the vector arm of hybrid search).
func (r EmbeddingRepository) SearchVector(ctx context.Context, projectID uuid.UUID, query []float32, limit int) ([]domain.Embedding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, content, vector::text, metadata, created_at
		FROM embeddings
		WHERE project_id = $1
		ORDER BY vector <=> $2
		LIMIT $3
	`, projectID, encodeVector(query), limit)
	if err != nil {
		return nil, domain.Unexpected("repository: vector search", err)
	}
	defer rows.Close()
	return scanEmbeddingRows(rows)
}

// SearchFTS returns the top limit embeddings ranked by ts_rank against
// query (the full-text arm of hybrid search).
func (r EmbeddingRepository) SearchFTS(ctx context.Context, projectID uuid.UUID, query string, limit int) ([]domain.Embedding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, content, vector::text, metadata, created_at
		FROM embeddings
		WHERE project_id = $1 AND content_tsv @@ websearch_to_tsquery('russian', $2)
		ORDER BY ts_rank(content_tsv, websearch_to_tsquery('russian', $2)) DESC
		LIMIT $3
	`, projectID, query, limit)
	if err != nil {
		return nil, domain.Unexpected("repository: fts search", err)
	}
	defer rows.Close()
	return scanEmbeddingRows(rows)
}

func scanEmbeddingRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.Embedding, error) {
	var out []domain.Embedding
	for rows.Next() {
		e, err := scanEmbedding(rows)
		if err != nil {
			return nil, domain.Unexpected("repository: scanning embedding", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEmbedding(row rowScanner) (domain.Embedding, error) {
	var e domain.Embedding
	var vecText string
	var meta []byte
	if err := row.Scan(&e.ID, &e.ProjectID, &e.Content, &vecText, &meta, &e.CreatedAt); err != nil {
		return domain.Embedding{}, err
	}
	vec, err := decodeVector(vecText)
	if err != nil {
		return domain.Embedding{}, err
	}
	e.Vector = vec
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &e.Metadata); err != nil {
			return domain.Embedding{}, err
		}
	}
	return e, nil
}
