package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onproapp/website-backend/internal/config"
	"github.com/onproapp/website-backend/internal/logging"
	"github.com/onproapp/website-backend/internal/mail"
	"github.com/onproapp/website-backend/internal/notify"
	"github.com/onproapp/website-backend/internal/ratelimit"
	"github.com/onproapp/website-backend/internal/repository"
	"github.com/onproapp/website-backend/internal/server"
	"github.com/onproapp/website-backend/internal/service"
	"github.com/onproapp/website-backend/internal/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	storeClient, err := buildStoreClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create store client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := storeClient.Close(context.Background()); err != nil {
			logger.Warn("closing store client failed", "error", err)
		}
	}()

	repo := repository.New(storeClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure store schema", "error", err)
		os.Exit(1)
	}

	sender := mail.NewLogSender(logger)
	waitlistService := service.NewWaitlistService(repo)
	leadService := service.NewLeadService(repo, sender, logger, cfg.Mail.LeadInbox)
	apiHandlers := server.NewAPIHandlers(logger, waitlistService, leadService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Client: storeClient},
		API:              apiHandlers,
		RateLimit:        buildRateLimiter(ctx, logger, cfg),
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	if cfg.Notify.Enabled {
		dispatcher := notify.New(repo, sender, logger,
			cfg.Notify.Interval, cfg.Notify.BatchSize, cfg.Notify.Workers)
		go dispatcher.Run(ctx)
	}

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildStoreClient(ctx context.Context, cfg config.Config) (store.Client, error) {
	if cfg.Store.URI == "" {
		return nil, store.ErrMissingURI
	}

	opts := store.Options{
		URI:            cfg.Store.URI,
		Database:       cfg.Store.Database,
		Username:       cfg.Store.Username,
		Password:       cfg.Store.Password,
		MaxConnections: cfg.Store.MaxConnections,
	}
	return store.NewNeo4jClient(ctx, opts)
}

func buildRateLimiter(ctx context.Context, logger *slog.Logger, cfg config.Config) func(http.Handler) http.Handler {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	limiterStore := ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiterStore.StartJanitor(ctx, 2*time.Minute)

	var stats ratelimit.StatsRecorder = ratelimit.NewMemoryStats()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		stats = ratelimit.NewRedisStats(rdb)
		logger.Info("rate-limit stats recording to redis", "addr", cfg.Redis.Addr)
	}

	return ratelimit.Middleware(ratelimit.Options{
		Store: limiterStore,
		Stats: stats,
		KeyFn: server.ClientAddress,
	})
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
