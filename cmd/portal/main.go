package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/bank_portal/internal/bankapi"
	"github.com/congo-pay/bank_portal/internal/config"
	"github.com/congo-pay/bank_portal/internal/infra"
	"github.com/congo-pay/bank_portal/internal/logging"
	"github.com/congo-pay/bank_portal/internal/notification"
	"github.com/congo-pay/bank_portal/internal/routes"
	"github.com/congo-pay/bank_portal/internal/server"
	"github.com/congo-pay/bank_portal/internal/session"
	"github.com/congo-pay/bank_portal/internal/tokenstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.AppName, cfg.LogLevel)

	ctx := context.Background()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	storage, err := openStorage(ctx, cfg, db, cache)
	if err != nil {
		logger.Error("open token store", "backend", cfg.TokenStore, "error", err)
		os.Exit(1)
	}
	store := tokenstore.New(storage)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api, err := bankapi.New(bankapi.Config{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.APITimeout,
		Credentials: store,
		Logger:      logger.With(slog.String("component", "bankapi")),
		Metrics:     bankapi.NewMetrics(registry),
	})
	if err != nil {
		logger.Error("build api client", "error", err)
		os.Exit(1)
	}

	inbox := notification.NewInbox(notification.DefaultInboxSize)
	shell := session.NewShell(api, store,
		session.WithNotifier(notification.Fanout{inbox, notification.NewLoggerNotifier(logger)}),
		session.WithLogger(logger.With(slog.String("component", "session"))),
	)
	boot := shell.Bootstrap(ctx)
	logger.Info("portal ready", "state", boot.State, "view", boot.View, "backend", api.BaseURL())

	srv, err := server.New(routes.Deps{
		Cfg:      cfg,
		API:      api,
		Shell:    shell,
		Store:    store,
		Inbox:    inbox,
		Gatherer: registry,
		DB:       db,
		Cache:    cache,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}

func openStorage(ctx context.Context, cfg config.Config, db *pgxpool.Pool, cache *redis.Client) (tokenstore.Storage, error) {
	switch cfg.TokenStore {
	case config.StoreMemory:
		return tokenstore.NewMemoryStorage(), nil
	case config.StoreFile:
		return tokenstore.NewFileStorage(cfg.TokenStorePath, cfg.TokenStoreKey)
	case config.StoreRedis:
		if cache == nil {
			return nil, fmt.Errorf("redis client unavailable")
		}
		return tokenstore.NewRedisStorage(cache, ""), nil
	case config.StorePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres pool unavailable")
		}
		pg := tokenstore.NewPostgresStorage(db, "")
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unsupported token store %q", cfg.TokenStore)
	}
}
