package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/domain/search/filter"
	"github.com/matzipcloud/matzip/internal/domain/search/mode"
	"github.com/matzipcloud/matzip/internal/domain/search/query"
	"github.com/matzipcloud/matzip/internal/domain/venue"
	"github.com/matzipcloud/matzip/internal/logger"
	"github.com/matzipcloud/matzip/internal/metrics"
)

// overFetchFactor is how many candidates each channel retrieves per
// requested result, so the post-filter has headroom to discard.
const overFetchFactor = 2

// Default per-call timeouts, used when Config leaves them zero.
const (
	defaultVectorTimeout     = 10 * time.Second
	defaultTextTimeout       = 5 * time.Second
	defaultGenerationTimeout = 30 * time.Second
)

// Config carries the tuning knobs for the orchestrator. A zero value is
// usable: it falls back to default weights and timeouts.
type Config struct {
	Weights           Weights
	VectorTimeout     time.Duration
	TextTimeout       time.Duration
	GenerationTimeout time.Duration
}

// Service orchestrates retrieval, filtering, fusion, and generation.
type Service struct {
	retriever Retriever
	embed     Embedder
	gen       Generator
	filter    filter.Filter

	weights           Weights
	vectorTimeout     time.Duration
	textTimeout       time.Duration
	generationTimeout time.Duration
}

// New creates the orchestrator. All collaborators are required except
// gen, which may be nil when only Search is served.
func New(retriever Retriever, embed Embedder, gen Generator, f filter.Filter, cfg Config) *Service {
	if cfg.Weights.Vector == 0 && cfg.Weights.Text == 0 {
		cfg.Weights = DefaultWeights()
	}
	if cfg.VectorTimeout <= 0 {
		cfg.VectorTimeout = defaultVectorTimeout
	}
	if cfg.TextTimeout <= 0 {
		cfg.TextTimeout = defaultTextTimeout
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = defaultGenerationTimeout
	}
	return &Service{
		retriever:         retriever,
		embed:             embed,
		gen:               gen,
		filter:            f,
		weights:           cfg.Weights,
		vectorTimeout:     cfg.VectorTimeout,
		textTimeout:       cfg.TextTimeout,
		generationTimeout: cfg.GenerationTimeout,
	}
}

// Search retrieves, filters, fuses, and ranks venues for the query.
//
// The vector and text channels run concurrently in hybrid mode. Losing
// one channel degrades the request to the survivor; losing every active
// channel yields ErrRetrievalFailed. An empty result set is success.
func (s *Service) Search(ctx context.Context, q *query.Query) (*Result, error) {
	fetch := q.K() * overFetchFactor

	var (
		wg          sync.WaitGroup
		vecResults  []venue.Candidate
		textResults []venue.Candidate
		vecErr      error
		textErr     error
	)

	useVector := q.Mode().UsesVector()
	useText := q.Mode().UsesText()

	if useVector {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vecResults, vecErr = s.searchVector(ctx, q.Text(), fetch)
		}()
	}
	if useText {
		wg.Add(1)
		go func() {
			defer wg.Done()
			textResults, textErr = s.searchText(ctx, q.Text(), fetch)
		}()
	}
	wg.Wait()

	effective := q.Mode()
	switch {
	case useVector && useText:
		if vecErr != nil && textErr != nil {
			return nil, fmt.Errorf("%w: vector: %w; text: %w", domain.ErrRetrievalFailed, vecErr, textErr)
		}
		if vecErr != nil {
			logger.FromContext(ctx).Warn("vector channel lost, degrading to text-only",
				zap.Error(vecErr))
			metrics.RetrievalDegradesTotal.WithLabelValues("vector").Inc()
			effective = mode.Text
		}
		if textErr != nil {
			logger.FromContext(ctx).Warn("text channel lost, degrading to vector-only",
				zap.Error(textErr))
			metrics.RetrievalDegradesTotal.WithLabelValues("text").Inc()
			effective = mode.Vector
		}
	case useVector:
		if vecErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, vecErr)
		}
	default:
		if textErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, textErr)
		}
	}

	fused := fuse(vecResults, textResults, effective, s.weights)

	filtered := make([]venue.Candidate, 0, len(fused))
	for i := range fused {
		if s.filter.Passes(&fused[i], q) {
			filtered = append(filtered, fused[i])
		}
	}

	if len(filtered) > q.K() {
		filtered = filtered[:q.K()]
	}

	return &Result{Candidates: filtered, Mode: effective}, nil
}

// Chat runs the full flow: hybrid retrieval, then one grounded
// generation call. Empty retrieval short-circuits to a canned answer
// without touching the generator; a generator failure is surfaced as
// ErrGenerationFailed, never silently replaced.
func (s *Service) Chat(ctx context.Context, q *query.Query) (*Result, error) {
	hq := q.WithMode(mode.Hybrid)

	res, err := s.Search(ctx, &hq)
	if err != nil {
		return nil, err
	}

	if len(res.Candidates) == 0 {
		res.Answer = emptyResultsAnswer
		return res, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	answer, err := s.gen.Generate(genCtx, systemInstruction, buildPrompt(&hq, res.Candidates))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	res.Answer = answer
	return res, nil
}

func (s *Service) searchVector(ctx context.Context, text string, limit int) ([]venue.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.vectorTimeout)
	defer cancel()

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.retriever.Nearest(ctx, embResult.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return results, nil
}

func (s *Service) searchText(ctx context.Context, text string, limit int) ([]venue.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.textTimeout)
	defer cancel()

	results, err := s.retriever.Match(ctx, text, limit)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}
	return results, nil
}
