package chi

import (
	"context"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/domain/search/filter"
	"github.com/matzipcloud/matzip/internal/domain/venue"
	healthuc "github.com/matzipcloud/matzip/internal/usecase/health"
	raguc "github.com/matzipcloud/matzip/internal/usecase/rag"
)

// mockRetriever serves canned candidates on both retrieval channels.
type mockRetriever struct {
	nearestResults []venue.Candidate
	matchResults   []venue.Candidate
	nearestErr     error
	matchErr       error
}

func (m *mockRetriever) Nearest(_ context.Context, _ []float32, _ int) ([]venue.Candidate, error) {
	if m.nearestErr != nil {
		return nil, m.nearestErr
	}
	return m.nearestResults, nil
}

func (m *mockRetriever) Match(_ context.Context, _ string, _ int) ([]venue.Candidate, error) {
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	return m.matchResults, nil
}

type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

type mockGenerator struct {
	answer string
	err    error
	called bool
}

func (m *mockGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	m.called = true
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// testEnv bundles a wired Server with its mocks.
type testEnv struct {
	handler   http.Handler
	retriever *mockRetriever
	generator *mockGenerator
	pinger    *mockPinger
}

func newTestEnv() *testEnv {
	retriever := &mockRetriever{}
	generator := &mockGenerator{answer: "마포 순두부를 추천합니다."}
	pinger := &mockPinger{}

	rag := raguc.New(retriever, &mockEmbedder{}, generator, filter.New(0, 0), raguc.Config{})
	health := healthuc.New(pinger, nil, nil)

	server := NewServer(rag, health, zap.NewNop())
	r := chirouter.NewRouter()
	server.Routes(r)

	return &testEnv{
		handler:   r,
		retriever: retriever,
		generator: generator,
		pinger:    pinger,
	}
}

// testCandidate builds a fully populated candidate that passes the
// default filter for queries without geo or budget constraints.
func testCandidate(id, name string, vectorScore float64) venue.Candidate {
	return venue.New(id, name, "한식").
		WithDetails("서울 마포구 마포대로 12", "40년 전통의 순두부 전문점", "순두부찌개, 해물파전", 4.5).
		WithLocation(37.5441, 126.9523).
		WithPrice(9000).
		WithVectorScore(vectorScore)
}

var errBackend = errors.New("backend down")
