package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chatsearch/internal/config"
	dbRedis "github.com/kailas-cloud/chatsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/chatsearch/internal/logger"
	"github.com/kailas-cloud/chatsearch/internal/metrics"
	"github.com/kailas-cloud/chatsearch/internal/repository/elastic"
	"github.com/kailas-cloud/chatsearch/internal/repository/resultcache"
	chiTransport "github.com/kailas-cloud/chatsearch/internal/transport/chi"
	openaiVec "github.com/kailas-cloud/chatsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/chatsearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/chatsearch/internal/usecase/index"
	searchuc "github.com/kailas-cloud/chatsearch/internal/usecase/search"
	"github.com/kailas-cloud/chatsearch/internal/vectorizer"
	"github.com/kailas-cloud/chatsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting chatsearch API server",
		zap.String("version", version.Short()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("es_addrs", cfg.Elasticsearch.Addrs),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Create cache store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Username: cfg.Cache.Username,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	// Wait for cache store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Search backend
	backend, err := elastic.New(elastic.Config{
		Addrs:    cfg.Elasticsearch.Addrs,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create search backend", zap.Error(err))
	}

	// Vectorizer — composition root
	vec, err := buildVectorizer(cfg.Vectorizer, logger)
	if err != nil {
		logger.Fatal("Failed to create vectorizer", zap.Error(err))
	}

	// Result cache
	cache := resultcache.New(store, metrics.ResultCacheTotal, logger)

	// Use case services.
	// Pass nil interface (not typed nil pointer!) if the vectorizer is not
	// configured. Go gotcha: a nil *TFIDF wrapped in Vectorizer != nil.
	var searchVec searchuc.Vectorizer
	var indexVec indexuc.Vectorizer
	if vec != nil {
		searchVec = vec
		indexVec = vec
	}
	searchSvc := searchuc.New(backend, cache, searchVec).
		WithTTL(time.Duration(cfg.Cache.TTLSec) * time.Second)
	indexSvc := indexuc.New(backend, indexVec, logger)

	var vecChecker healthuc.VectorizerChecker
	if hc, ok := vec.(healthuc.VectorizerChecker); ok {
		vecChecker = hc
	}
	healthSvc := healthuc.New(store, backend, vecChecker)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, indexSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

// buildVectorizer selects the vectorizer implementation by provider.
// Returns nil when semantic search is not configured.
func buildVectorizer(cfg config.VectorizerConfig, logger *zap.Logger) (vectorizer.Vectorizer, error) {
	switch cfg.Provider {
	case "":
		logger.Info("No vectorizer configured, semantic search disabled")
		return nil, nil

	case "tfidf":
		data, err := os.ReadFile(cfg.CorpusPath)
		if err != nil {
			return nil, fmt.Errorf("read tfidf corpus: %w", err)
		}
		corpus := strings.Split(strings.TrimSpace(string(data)), "\n")
		v, err := vectorizer.FitTFIDF(corpus)
		if err != nil {
			return nil, fmt.Errorf("fit tfidf: %w", err)
		}
		logger.Info("TF-IDF vectorizer fitted",
			zap.String("corpus", cfg.CorpusPath),
			zap.Int("dimensions", v.Dimensions()),
		)
		return v, nil

	case "openai":
		v := openaiVec.New(&openaiVec.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   "openai",
			Logger:     logger,
		})
		logger.Info("OpenAI vectorizer created",
			zap.String("model", cfg.Model),
			zap.Int("dimensions", cfg.Dimensions),
		)
		return v, nil

	default:
		return nil, fmt.Errorf("unknown vectorizer provider %q", cfg.Provider)
	}
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
