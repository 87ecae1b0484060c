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
	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/config"
	"github.com/nebulabyte/scout/internal/db"
	dbRedis "github.com/nebulabyte/scout/internal/db/redis"
	"github.com/nebulabyte/scout/internal/domain"
	"github.com/nebulabyte/scout/internal/ingest"
	logpkg "github.com/nebulabyte/scout/internal/logger"
	"github.com/nebulabyte/scout/internal/metrics"
	"github.com/nebulabyte/scout/internal/repository/embcache"
	tracerepo "github.com/nebulabyte/scout/internal/repository/trace"
	arxivTransport "github.com/nebulabyte/scout/internal/transport/arxiv"
	chiTransport "github.com/nebulabyte/scout/internal/transport/chi"
	"github.com/nebulabyte/scout/internal/transport/localembed"
	openaiTransport "github.com/nebulabyte/scout/internal/transport/openai"
	websearchTransport "github.com/nebulabyte/scout/internal/transport/websearch"
	askuc "github.com/nebulabyte/scout/internal/usecase/ask"
	healthuc "github.com/nebulabyte/scout/internal/usecase/health"
	papersuc "github.com/nebulabyte/scout/internal/usecase/papers"
	retrievaluc "github.com/nebulabyte/scout/internal/usecase/retrieval"
	routeruc "github.com/nebulabyte/scout/internal/usecase/router"
	synthesisuc "github.com/nebulabyte/scout/internal/usecase/synthesis"
	websearchuc "github.com/nebulabyte/scout/internal/usecase/websearch"
	"github.com/nebulabyte/scout/internal/vectorstore"
	"github.com/nebulabyte/scout/internal/version"
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

	logger.Info("Starting scout API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("llm_enabled", cfg.LLM.APIKey != ""),
	)

	// Optional embedding cache. Missing addrs means no cache, never a
	// startup failure.
	var cacheStore db.Store
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Warn("Embedding cache unavailable, continuing without it", zap.Error(err))
			cacheStore = nil
		} else {
			defer cacheStore.Close()
			logger.Info("Embedding cache connected", zap.Strings("addrs", cfg.Cache.Addrs))
		}
	}

	metrics.RegisterAgentMetrics()

	embedder, embHealth := buildEmbedder(cfg, cacheStore, logger)

	chat := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		Provider: cfg.LLM.Provider,
		Logger:   logger,
	})
	if !chat.Enabled() {
		logger.Warn("LLM API key not configured, running in mock mode")
	}

	store := vectorstore.New(cfg.Embedding.Dimensions)
	chunkCfg := ingest.ChunkConfig{
		ChunkSize:    cfg.Retrieval.ChunkSize,
		ChunkOverlap: cfg.Retrieval.ChunkOverlap,
		MinChunkSize: cfg.Retrieval.MinChunkSize,
	}

	retrievalSvc := retrievaluc.New(store, embedder, chunkCfg, logger)

	ctx := context.Background()
	if err := retrievalSvc.SeedSampleCorpus(ctx); err != nil {
		logger.Warn("Failed to seed sample corpus", zap.Error(err))
	}

	routerSvc := routeruc.New(chat, logger)
	websearchSvc := websearchuc.New(buildWebProviders(cfg), logger)
	papersSvc := papersuc.New(arxivTransport.NewClient("", logger), chat, logger)
	synthesisSvc := synthesisuc.New(chat, logger)
	recorder := tracerepo.New(cfg.Storage.TracesPath, logger)

	askSvc := askuc.New(askuc.Config{
		Router:    routerSvc,
		Retriever: retrievalSvc,
		Web:       websearchSvc,
		Papers:    papersSvc,
		Synth:     synthesisSvc,
		Recorder:  recorder,
		TopK:      cfg.Retrieval.TopK,
		Logger:    logger,
	})

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(chat, embHealth, cachePinger, retrievalSvc)

	server := chiTransport.NewServer(askSvc, retrievalSvc, recorder, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

// buildEmbedder assembles the embedder chain. With an API key: provider ->
// cache. Without one: the deterministic local embedder, so the whole query
// path stays functional with zero credentials.
func buildEmbedder(cfg config.Config, cacheStore db.Store, logger *zap.Logger) (domain.Embedder, healthuc.EmbeddingChecker) {
	if cfg.Embedding.APIKey == "" {
		logger.Warn("Embedding API key not configured, using deterministic local embedder")
		local := localembed.New(cfg.Embedding.Dimensions)
		return local, local
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cacheStore != nil {
		embedder = embcache.New(base, cacheStore, metrics.EmbeddingCacheTotal, logger)
	}
	return embedder, base
}

// buildWebProviders assembles the web-search fallback chain. SerpAPI leads
// when a key is configured; DuckDuckGo needs none and always terminates the
// chain.
func buildWebProviders(cfg config.Config) []websearchuc.Provider {
	var providers []websearchuc.Provider
	if cfg.Search.SerpAPIKey != "" {
		providers = append(providers, websearchTransport.NewSerpAPI(cfg.Search.SerpAPIKey, ""))
	}
	providers = append(providers, websearchTransport.NewDuckDuckGo(""))
	return providers
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
