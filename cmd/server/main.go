package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartscholars/accounts/internal/api"
	"github.com/smartscholars/accounts/internal/config"
	"github.com/smartscholars/accounts/internal/factory"
	"github.com/smartscholars/accounts/internal/logger"
	"github.com/smartscholars/accounts/internal/services/delivery"
	"github.com/smartscholars/accounts/internal/services/reset"
	"github.com/smartscholars/accounts/internal/services/session"
	"github.com/smartscholars/accounts/internal/storage"
	redisstorage "github.com/smartscholars/accounts/internal/storage/redis"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	log, flush, err := logger.New(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		slog.Error("failed to create logger", slog.String("error", err.Error()))
		return 1
	}
	defer flush()
	slog.SetDefault(log)

	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:        log,
		StorageType:   cfg.StorageType,
		AccountsFile:  cfg.AccountsFile,
		GuardConfig:   storage.GuardConfig{AcquireTimeout: cfg.StoreAcquireTimeout},
		ResetConfig:   reset.Config{TokenTTL: cfg.ResetTokenTTL, PublicURL: cfg.PublicURL},
		SessionConfig: session.Config{SessionDuration: cfg.SessionDuration},
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Development falls back to logging reset links when no API key is set
	if cfg.ResendAPIKey != "" {
		factoryCfg.Deliverer = delivery.NewResendDeliverer(cfg.ResendAPIKey, cfg.EmailFrom, log)
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		log.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	defer app.Close()

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:            log,
		Clock:             app.Clock,
		CredentialService: app.CredentialService,
		ResetService:      app.ResetService,
		SessionService:    app.SessionService,
		RateLimit:         api.RateLimitConfig{
			Limit:          cfg.RateLimit,
			Window:         cfg.RateLimitWindow,
			TrustedProxies: cfg.TrustedProxies,
		},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, log)
	if err := server.Listen(); err != nil {
		log.Error("failed to bind", slog.String("error", err.Error()))
		return 1
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	log.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("env", cfg.AppEnv),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", slog.String("error", err.Error()))
			return 1
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			log.Error("shutdown error", slog.String("error", err.Error()))
			return 1
		}
	}

	log.Info("server stopped")
	return 0
}
