package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/domain/search/mode"
	"github.com/matzipcloud/matzip/internal/domain/search/query"
	healthuc "github.com/matzipcloud/matzip/internal/usecase/health"
	raguc "github.com/matzipcloud/matzip/internal/usecase/rag"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the recommendation API over HTTP.
type Server struct {
	rag           *raguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(rag *raguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		rag:      rag,
		health:   health,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, codeGenerationFailed),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusServiceUnavailable, codeRetrievalFailed),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, codeGenerationProviderError),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.Chat)
		r.Get("/search", s.Search)
	})
}

// Chat handles POST /api/v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	q, err := query.New(req.Query, mode.Hybrid, req.Lat, req.Lng, req.Budget, req.K)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.rag.Chat(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := resultItemsFromCandidates(res.Candidates)
	writeJSON(w, http.StatusOK, chatResponse{
		Answer:        res.Answer,
		SearchResults: items,
		Metadata:      metadataFromQuery(&q, len(items), string(res.Mode)),
	})
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	lat, err := floatParam(params.Get("lat"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "lat must be a number")
		return
	}
	lng, err := floatParam(params.Get("lng"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "lng must be a number")
		return
	}
	budget, err := floatParam(params.Get("budget"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "budget must be a number")
		return
	}
	k, err := intParam(params.Get("k"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "k must be an integer")
		return
	}

	q, err := query.New(params.Get("query"), mode.Mode(params.Get("search_type")), lat, lng, budget, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.rag.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := resultItemsFromCandidates(res.Candidates)
	writeJSON(w, http.StatusOK, searchResponse{
		Results:  items,
		Metadata: metadataFromQuery(&q, len(items), string(res.Mode)),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func floatParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrGenerationFailed,
		domain.ErrRetrievalFailed,
		domain.ErrIndexUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
