package venues

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzipcloud/matzip/internal/db"
	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/domain/venue"
)

// Venue index naming, rooted at the process key prefix.
const (
	// KeyPrefix is the hash key prefix for venue documents.
	KeyPrefix = domain.KeyPrefix + "venue:"
	// IndexName is the FT index over venue documents.
	IndexName = domain.KeyPrefix + "venues:idx"
)

// returnFields lists the hash fields loaded per hit. The embedding blob
// is deliberately absent: candidates never need it back.
var returnFields = []string{
	"name", "category", "address", "description", "menu",
	"lat", "lng", "price", "rating", "__embedding_score",
}

// store is the consumer interface for venue retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig holds HNSW graph parameters for index bootstrap.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase/rag.Retriever over the FT venue index.
type Repo struct {
	store        store
	embeddingDim int
	hnsw         HNSWConfig
}

// New creates a venue repository. embeddingDim must match the vectorizer
// output dimension and is only used when bootstrapping the index.
func New(s store, embeddingDim int) *Repo {
	return &Repo{
		store:        s,
		embeddingDim: embeddingDim,
		hnsw:         HNSWConfig{M: defaultHNSWM, EFConstruct: defaultHNSWEFConstruct},
	}
}

// WithHNSW overrides the HNSW graph parameters. Zero values keep the
// defaults.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Nearest runs KNN vector search, best match first. Scores are cosine
// similarities in [0,1].
func (r *Repo) Nearest(ctx context.Context, vector []float32, limit int) ([]venue.Candidate, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Vector:       vector,
		K:            limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search knn: %w", domain.ErrIndexUnavailable, err)
	}

	candidates := make([]venue.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		c := candidateFromEntry(entry).WithVectorScore(entry.Score)
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Match runs BM25 text search, best match first. Scores are raw BM25
// values with no fixed upper bound.
func (r *Repo) Match(ctx context.Context, text string, limit int) ([]venue.Candidate, error) {
	sr, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    IndexName,
		Query:        text,
		TopK:         limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search bm25: %w", domain.ErrIndexUnavailable, err)
	}

	candidates := make([]venue.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		c := candidateFromEntry(entry).WithTextScore(entry.Score)
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// candidateFromEntry maps flat hash fields onto a venue candidate.
// Coordinates count only when both are present and parseable; a venue
// with a broken lat or lng is treated as having no location at all.
func candidateFromEntry(entry db.SearchEntry) venue.Candidate {
	f := entry.Fields

	rating, _ := strconv.ParseFloat(f["rating"], 64)

	c := venue.New(strings.TrimPrefix(entry.Key, KeyPrefix), f["name"], f["category"]).
		WithDetails(f["address"], f["description"], f["menu"], rating)

	lat, latErr := strconv.ParseFloat(f["lat"], 64)
	lng, lngErr := strconv.ParseFloat(f["lng"], 64)
	if latErr == nil && lngErr == nil {
		c = c.WithLocation(lat, lng)
	}

	if price, err := strconv.ParseFloat(f["price"], 64); err == nil {
		c = c.WithPrice(price)
	}

	return c
}
