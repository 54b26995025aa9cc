package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/docgrid/internal/config"
	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/JonMunkholm/docgrid/internal/ingest"
	"github.com/JonMunkholm/docgrid/internal/logging"
	"github.com/JonMunkholm/docgrid/internal/presetstore"
	"github.com/JonMunkholm/docgrid/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"presets_driver", cfg.Presets.Driver,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"date_order", cfg.View.DateOrder,
	)

	view, err := core.NewViewOptions(cfg.View.DateOrder, cfg.View.Locale)
	if err != nil {
		slog.Error("invalid view settings", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := presetstore.Open(ctx, cfg.Presets)
	if err != nil {
		slog.Error("failed to open preset store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	extractor := ingest.NewExtractClient(cfg.Extract.ServiceURL, cfg.Extract.Timeout)
	uploads, err := ingest.NewService(cfg.Upload, extractor, view)
	if err != nil {
		slog.Error("failed to create upload service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(cfg, uploads, core.NewPresets(store), store.Driver())

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go uploads.Registry().StartJanitor(jobCtx, 0)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		limiter := uploads.Limiter()
		if active := limiter.ActiveCount(); active > 0 {
			slog.Info("waiting for uploads to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		cancelJobs()
		return
	}
	// Close the preset store only after in-flight requests have finished.
	<-stopped
	slog.Info("server stopped")
}
