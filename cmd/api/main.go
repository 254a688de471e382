// cmd/api/main.go
// Main entry point for the discovery API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/database"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/middleware"
	"github.com/imadgeboyega/kiekky-discovery/internal/config"
	"github.com/imadgeboyega/kiekky-discovery/internal/discovery"
)

var startTime = time.Now()

func main() {
	if err := run(); err != nil {
		slog.Error("discovery API stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load and validate configuration
	cfg := config.Load()
	logger.Init(os.Stdout, cfg.LogLevel)

	slog.Info("starting Kiekky discovery API", "environment", cfg.Environment)
	if envErr != nil {
		slog.Warn("no .env file found, using environment variables", "err", envErr)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Connect to PostgreSQL
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.NewPostgresDBFromURL(connectCtx, cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("connected to PostgreSQL")

	// 4. Run database migrations
	if cfg.RunMigrations {
		if err := database.RunMigrations(connectCtx, db.DB); err != nil {
			return err
		}
		slog.Info("database migrations completed")
	}

	// 5. Connect to Redis (optional)
	var feedCache discovery.FeedCache
	if cfg.RedisURL != "" && cfg.Discovery.FeedCacheTTL > 0 {
		redisClient, err := database.NewRedisClientFromURL(connectCtx, cfg.RedisURL, logger.NewRedisHook())
		if err != nil {
			slog.Warn("redis unavailable, serving feeds without cache", "err", err)
		} else {
			defer redisClient.Close()
			feedCache = discovery.NewRedisFeedCache(redisClient, cfg.Discovery.FeedCacheTTL)
			slog.Info("connected to Redis", "feed_cache_ttl", cfg.Discovery.FeedCacheTTL.String())
		}
	} else {
		slog.Info("feed cache disabled")
	}

	// 6. Initialize discovery module
	handler := newDiscoveryHandler(db, feedCache, cfg)
	authMiddleware := auth.NewMiddleware(auth.NewTokenValidator(cfg.JWTSecret))

	// 7. Setup routes
	router := chi.NewRouter()
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(chimiddleware.Recoverer)

	router.Get("/health", healthCheck)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}
	discovery.RegisterRoutes(router, handler, authMiddleware)

	// 8. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server exited gracefully")
	return nil
}

// newDiscoveryHandler wires repository, resolver, ranker and service
func newDiscoveryHandler(db *sqlx.DB, cache discovery.FeedCache, cfg *config.Config) *discovery.Handler {
	repo := discovery.NewPostgresRepository(db)

	scorer := discovery.NewScorer(discovery.Weights{
		SameInstitution:      cfg.Discovery.SameInstitutionPoints,
		PerSharedInterest:    cfg.Discovery.SharedInterestPoints,
		RecentActivity:       cfg.Discovery.RecentActivityPoints,
		RecentActivityWindow: cfg.Discovery.RecentActivityWindow,
	})

	opts := []discovery.Option{discovery.WithLogger(slog.Default().With("module", "discovery"))}
	if cache != nil {
		opts = append(opts, discovery.WithCache(cache))
	}

	service := discovery.NewService(
		repo,
		discovery.NewResolver(repo),
		discovery.NewRanker(scorer),
		discovery.ServiceConfig{
			PoolSize:     cfg.Discovery.PoolSize,
			QueryTimeout: cfg.Discovery.QueryTimeout,
		},
		opts...,
	)

	slog.Info("discovery module initialized",
		"pool_size", cfg.Discovery.PoolSize,
		"cache", cache != nil,
	)
	return discovery.NewHandler(service)
}

// healthCheck reports liveness
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}
