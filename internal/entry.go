// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/closetlab/wairdrobe/internal/api"
	"github.com/closetlab/wairdrobe/internal/backup"
	"github.com/closetlab/wairdrobe/internal/sse"
	"github.com/closetlab/wairdrobe/internal/store"
	"github.com/closetlab/wairdrobe/internal/stylist"
	"github.com/closetlab/wairdrobe/internal/wardrobe"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.Data.SQLitePath),
		slog.String("backup_dir", cfg.Data.BackupDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Backup directory for export artifacts and restore candidates.
	backups, err := backup.NewDir(cfg.Data.BackupDir)
	if err != nil {
		return fmt.Errorf("init backup dir: %w", err)
	}

	// Open the garment store. Unavailable storage is not fatal: the
	// session runs in-memory and saves are skipped with a warning.
	var garmentStore store.GarmentStore
	db, err := store.Open(cfg.Data.SQLitePath, cfg.Data.LegacyPath, logger)
	if err != nil {
		logger.Warn("storage unavailable, running in-memory only", slog.String("error", err.Error()))
	} else {
		garmentStore = db
		defer db.Close()
	}

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Wardrobe controller wired to the broker.
	ctrl := wardrobe.New(garmentStore, logger,
		wardrobe.WithDebounce(cfg.Wardrobe.Debounce()),
		wardrobe.WithEvents(wardrobe.Events{
			Garment: broker.PublishGarmentEvent,
			Saving:  broker.PublishSaveState,
		}),
	)
	if err := ctrl.Load(); err != nil {
		return fmt.Errorf("load wardrobe: %w", err)
	}

	// AI stylist client.
	apiKey := cfg.AI.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		logger.Warn("no Gemini API key configured, AI styling features will fail per-call")
	}
	aiClient := stylist.NewClient(apiKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.ImageModel, logger)

	// Build handlers and router.
	h := api.NewHandler(ctrl, backups)
	sh := api.NewStylistHandler(ctrl, aiClient)
	apiRouter := api.NewRouter(h, sh, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ctrl.State() != wardrobe.StateReady {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start backup-directory watcher with SSE callback.
	g.Go(func() error {
		if err := backup.Watch(gCtx, backups, logger, broker.PublishBackupEvent); err != nil {
			logger.Warn("backup watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Mutations still inside the debounce window must reach disk.
		ctrl.Flush()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
