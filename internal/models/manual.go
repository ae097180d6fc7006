package models

import (
	"time"

	"github.com/google/uuid"
)

// ManualMedia names objects in the private media bucket that illustrate a
// manual excerpt. Empty fields mean no media of that kind.
type ManualMedia struct {
	Image string `json:"image,omitempty"`
	Video string `json:"video,omitempty"`
}

// ManualMetadata is the structured metadata stored alongside each excerpt.
type ManualMetadata struct {
	Media ManualMedia `json:"media"`
}

// ManualChunk is one pre-embedded excerpt of the official restaurant manuals.
// Similarity is populated only on retrieval (cosine similarity in [0,1]
// against the query vector); it is not a stored column.
type ManualChunk struct {
	ID         uuid.UUID      `db:"id"`
	Title      string         `db:"title"`
	Content    string         `db:"content"`
	Embedding  []float32      `db:"embedding"`
	Metadata   ManualMetadata `db:"metadata"`
	Similarity float64        `db:"-"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}
