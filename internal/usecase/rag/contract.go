package rag

import (
	"context"

	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/domain/venue"
)

// Retriever defines the venue index contract for both retrieval channels.
type Retriever interface {
	// Nearest runs KNN vector search and returns candidates with vector
	// scores in [0,1], best first.
	Nearest(ctx context.Context, vector []float32, limit int) ([]venue.Candidate, error)

	// Match runs BM25 text search and returns candidates with raw text
	// scores (unbounded, >= 0), best first.
	Match(ctx context.Context, text string, limit int) ([]venue.Candidate, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces a grounded answer from a system instruction and a
// context-bearing user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
