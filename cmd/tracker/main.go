package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tracker/internal/backend"
	"tracker/internal/cache"
	"tracker/internal/cli"
	"tracker/internal/contact"
	"tracker/internal/grpcserver"
	apphttp "tracker/internal/http"
	"tracker/internal/log"
	"tracker/internal/middleware/ratelimit"
	"tracker/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp, nil)
	cfg := cli.MustConfig(logger)

	amqpClient, publisher := cli.NewPublisher(cfg, logger.WithComponent(log.ComponentAMQP))
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger, backendCfg, publisher)
	if err != nil {
		logger.Error("Failed to create backend factory", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	sessions := session.NewManager(factory, session.Config{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
	}, logger.WithComponent(log.ComponentSession).Logger)
	defer sessions.Close()

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Sessions:         sessions,
		Contact:          contact.NewService(cfg.ContactDelay, logger.WithComponent(log.ComponentContact).Logger),
		Limiter:          limiter,
		Logger:           logger,
		StrictCategories: cfg.StrictCategories,
	})
	if err != nil {
		logger.Error("Failed to create HTTP server", "error", err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	grpcSrv := grpcserver.New(":"+cfg.GRPCPort, logger.WithComponent(log.ComponentGRPC).Logger)

	// Sessions, rendered charts and rate limiter entries share one sweep.
	caches := cache.NewManager(logger.WithComponent("cache").Logger)
	caches.Register("sessions", sessions.Cache())
	caches.Register("charts", srv.ChartCache())
	caches.Register("rate_limiter", limiter)
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tracker server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"strict_categories", cfg.StrictCategories,
			"events", publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return grpcSrv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		grpcSrv.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", "sessions", sessions.Active())
}
