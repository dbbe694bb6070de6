package venues

import (
	"context"
	"testing"

	"github.com/matzipcloud/matzip/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchBM25Fn  func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchBM25Fn != nil {
		return m.searchBM25Fn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, 1024)
	return repo, ms
}

func venueEntry(id string, score float64) db.SearchEntry {
	return db.SearchEntry{
		Key:   KeyPrefix + id,
		Score: score,
		Fields: map[string]string{
			"name":        "원조닭한마리",
			"category":    "한식",
			"address":     "종로구 종로5가",
			"description": "진한 국물의 닭한마리",
			"menu":        "닭한마리, 칼국수 사리",
			"lat":         "37.5703",
			"lng":         "127.0025",
			"price":       "28000",
			"rating":      "4.6",
		},
	}
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}
