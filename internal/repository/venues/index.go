package venues

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzipcloud/matzip/internal/db"
)

// TEXT field weights mirror the lexical boosts the recommendation
// quality was tuned against: the venue name dominates, the description
// comes second, category and address trail at the default weight.
const (
	nameWeight        = 3
	descriptionWeight = 2
)

// Default HNSW graph parameters.
const (
	defaultHNSWM           = 16
	defaultHNSWEFConstruct = 200
)

// EnsureIndex creates the venue FT index if it does not exist yet.
// Called once at startup; concurrent creation by another replica is
// tolerated.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("probe index %s: %w", IndexName, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(r.embeddingDim, r.hnsw)
	if err != nil {
		return fmt.Errorf("build index %s: %w", IndexName, err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", IndexName, err)
	}
	return nil
}

// buildIndex defines the venue schema: weighted TEXT fields for BM25,
// NUMERIC coordinates and price for the candidate payload, and an HNSW
// cosine vector for KNN.
func buildIndex(embeddingDim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(IndexName).
		OnHash().
		Prefix(KeyPrefix).
		TextWithWeight("name", nameWeight).
		TextWithWeight("description", descriptionWeight).
		Text("category").
		Text("address").
		Text("menu").
		Numeric("lat").
		Numeric("lng").
		Numeric("price").
		Numeric("rating").
		VectorHNSW("embedding", embeddingDim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
