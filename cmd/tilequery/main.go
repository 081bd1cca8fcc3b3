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

	"github.com/tilemart/tilequery/internal/config"
	"github.com/tilemart/tilequery/internal/db"
	dbRedis "github.com/tilemart/tilequery/internal/db/redis"
	logpkg "github.com/tilemart/tilequery/internal/logger"
	"github.com/tilemart/tilequery/internal/metrics"
	catalogrepo "github.com/tilemart/tilequery/internal/repository/catalog"
	chiTransport "github.com/tilemart/tilequery/internal/transport/chi"
	oracleTransport "github.com/tilemart/tilequery/internal/transport/openai"
	"github.com/tilemart/tilequery/internal/transport/salesapi"
	answeruc "github.com/tilemart/tilequery/internal/usecase/answer"
	cataloguc "github.com/tilemart/tilequery/internal/usecase/catalog"
	healthuc "github.com/tilemart/tilequery/internal/usecase/health"
	salesuc "github.com/tilemart/tilequery/internal/usecase/sales"
	searchuc "github.com/tilemart/tilequery/internal/usecase/search"
	"github.com/tilemart/tilequery/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting tilequery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.CSVPath),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Cache store for sales data
	var store db.Store
	store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register query metrics explicitly (no init())
	metrics.RegisterQueryMetrics()

	// Catalog: loaded once, held read-only for the process lifetime
	catalogRepo := catalogrepo.New(cfg.Catalog.CSVPath, logger)
	if catalogRepo.Load(ctx).Empty() {
		// Not fatal: the service answers with the unavailable message
		// until the source reappears; Load re-attempts while empty.
		logger.Warn("Catalog is empty at startup")
	}

	// Oracle is optional; without an API key out-of-domain queries get the
	// static redirect message.
	var oracle answeruc.Oracle
	var oracleChecker healthuc.OracleChecker
	if cfg.Oracle.APIKey != "" {
		o := oracleTransport.NewOracle(&oracleTransport.Config{
			APIKey:         cfg.Oracle.APIKey,
			BaseURL:        cfg.Oracle.BaseURL,
			Model:          cfg.Oracle.Model,
			Temperature:    cfg.Oracle.Temperature,
			RequestsPerMin: cfg.Oracle.RequestsPerMin,
			Logger:         logger,
		})
		oracle = o
		oracleChecker = o
		logger.Info("Oracle configured", zap.String("model", cfg.Oracle.Model))
	}

	// Ranking pipeline
	rankSvc := searchuc.New(searchuc.Config{
		MinCandidates:     cfg.Search.MinCandidates,
		MaxResults:        cfg.Search.MaxResults,
		MinScore:          cfg.Search.MinScore,
		FallbackCount:     cfg.Search.FallbackCount,
		DescriptionWeight: cfg.Search.DescriptionWeight,
		VocabLimit:        cfg.Search.VocabLimit,
		NGramMax:          cfg.Search.NGramMax,
	}, logger)

	answerSvc := answeruc.New(catalogRepo, rankSvc, oracle, logger)
	catalogSvc := cataloguc.New(catalogRepo)

	// Sales cache is optional; it needs a remote API base URL.
	var salesSvc *salesuc.Service
	if cfg.Sales.BaseURL != "" {
		salesClient := salesapi.NewClient(&salesapi.Config{
			BaseURL:        cfg.Sales.BaseURL,
			Username:       cfg.Sales.Username,
			Password:       cfg.Sales.Password,
			WindowDays:     cfg.Sales.WindowDays,
			Timeout:        time.Duration(cfg.Sales.TimeoutSec) * time.Second,
			RequestsPerMin: cfg.Sales.RequestsPerMin,
			Logger:         logger,
		})
		salesSvc = salesuc.New(store, salesClient, time.Duration(cfg.Sales.CacheTTLSec)*time.Second, logger)
		salesSvc.StartRefresher(ctx, time.Duration(cfg.Sales.RefreshHours)*time.Hour)
		logger.Info("Sales cache refresher started",
			zap.Int("refresh_hours", cfg.Sales.RefreshHours),
			zap.Int("ttl_sec", cfg.Sales.CacheTTLSec),
		)
	}

	healthSvc := healthuc.New(catalogRepo, store, oracleChecker)

	server := chiTransport.NewServer(answerSvc, catalogSvc, salesSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
	cancel() // stops the sales refresher

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
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

			// Canonical log line, one per request
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
