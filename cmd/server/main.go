package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sheetclean/internal/config"
	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/JonMunkholm/sheetclean/internal/store"
	"github.com/JonMunkholm/sheetclean/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"workspace_max_open", cfg.Workspace.MaxOpen,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	sessions, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	service := core.NewService(sessions, cfg)
	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go service.StartEvictionScheduler(jobCtx, core.EvictionConfig{
		IdleTTL:       cfg.Workspace.IdleTTL,
		CheckInterval: cfg.Workspace.CheckInterval,
	})

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for files still being parsed (with timeout)
		if status := service.IngestStatus(); status.Active > 0 {
			slog.Info("waiting for ingests to complete", "active", status.Active)
			if err := service.Shutdown(shutdownCtx); err != nil {
				slog.Warn("ingests did not complete in time", "error", err)
			} else {
				slog.Info("all ingests completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		cancelJobs()
		sessions.Close()
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}

// openStore connects to PostgreSQL when DATABASE_URL is set and falls back
// to an in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if !cfg.Database.Enabled() {
		slog.Warn("DATABASE_URL not set, saved sessions are kept in memory")
		return store.NewMemStore(), nil
	}

	pg, err := store.Open(ctx, store.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pg, nil
}
