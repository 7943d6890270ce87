package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmbeddingMetadata is the structured payload stored alongside each vector.
// Embeddings reference Messages only through MessageID here, never a
// foreign key, so the vector store stays decoupled.
type EmbeddingMetadata struct {
	Source    string     `json:"source"`
	MessageID *uuid.UUID `json:"message_id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
}

// Embedding is one chunk of indexed project content.
type Embedding struct {
	ID        uuid.UUID         `json:"id"`
	ProjectID uuid.UUID         `json:"project_id"`
	Content   string            `json:"content"`
	Vector    []float32         `json:"-"`
	Metadata  EmbeddingMetadata `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// SearchSource annotates which retrieval arm(s) surfaced a hybrid result.
type SearchSource string

const (
	SourceVector SearchSource = "vector"
	SourceFTS    SearchSource = "fts"
)

// SearchHit is one fused hybrid-search result.
type SearchHit struct {
	Embedding Embedding      `json:"embedding"`
	Score     float64        `json:"score"`
	Sources   []SearchSource `json:"sources"`
}
