package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/matzipcloud/matzip/internal/config"
	dbRedis "github.com/matzipcloud/matzip/internal/db/redis"
	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/domain/search/filter"
	logpkg "github.com/matzipcloud/matzip/internal/logger"
	"github.com/matzipcloud/matzip/internal/metrics"
	"github.com/matzipcloud/matzip/internal/repository/embcache"
	"github.com/matzipcloud/matzip/internal/repository/venues"
	anthropicGen "github.com/matzipcloud/matzip/internal/transport/anthropic"
	chiTransport "github.com/matzipcloud/matzip/internal/transport/chi"
	openaiTransport "github.com/matzipcloud/matzip/internal/transport/openai"
	healthuc "github.com/matzipcloud/matzip/internal/usecase/health"
	raguc "github.com/matzipcloud/matzip/internal/usecase/rag"
	"github.com/matzipcloud/matzip/internal/version"
)

func main() {
	// Load .env if present, then configuration based on ENV
	_ = godotenv.Load()
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting matzip API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("generation_provider", cfg.Generation.Provider),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the search index backend to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register LLM metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	queryEmbedder := buildEmbedder(cfg.Embedding, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	venueRepo := venues.New(store, cfg.Embedding.Dimensions).WithHNSW(venues.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := venueRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure venue index", zap.Error(err))
	}

	generator := buildGenerator(cfg.Generation, logger)
	logger.Info("Generator created",
		zap.String("provider", cfg.Generation.Provider),
		zap.String("model", cfg.Generation.Model),
	)

	geoFilter := filter.New(cfg.Search.RadiusKM*1000, cfg.Search.BudgetTolerance)

	ragSvc := raguc.New(venueRepo, queryEmbedder, generator, geoFilter, raguc.Config{
		Weights: raguc.Weights{
			Vector: cfg.Search.VectorWeight,
			Text:   cfg.Search.TextWeight,
		},
		VectorTimeout:     time.Duration(cfg.Search.VectorTimeoutSec) * time.Second,
		TextTimeout:       time.Duration(cfg.Search.TextTimeoutSec) * time.Second,
		GenerationTimeout: time.Duration(cfg.Search.GenerationTimeoutSec) * time.Second,
	})

	// Health checks: the Anthropic generator exposes no probe endpoint,
	// so the generation check is only wired when the provider supports it.
	var genChecker healthuc.GenerationChecker
	if hc, ok := generator.(healthuc.GenerationChecker); ok {
		genChecker = hc
	}
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(queryEmbedder), genChecker)

	server := chiTransport.NewServer(ragSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction
func buildEmbedder(cfg config.EmbeddingConfig, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
	})

	// Cached
	var embedder domain.Embedder = embcache.New(
		base, store,
		time.Duration(cfg.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)

	// Instruction prefix (outermost — cache key includes instruction)
	if cfg.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.QueryInstruction)
	}

	return embedder
}

// buildGenerator selects the answer generation provider.
func buildGenerator(cfg config.GenerationConfig, logger *zap.Logger) raguc.Generator {
	switch cfg.Provider {
	case "anthropic":
		return anthropicGen.NewGenerator(&anthropicGen.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	case "openai":
		return openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Provider:    cfg.Provider,
		})
	default:
		logger.Fatal("Unknown generation provider", zap.String("provider", cfg.Provider))
		return nil
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
