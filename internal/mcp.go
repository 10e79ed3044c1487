package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/closetlab/wairdrobe/internal/mcpserver"
	"github.com/closetlab/wairdrobe/internal/store"
	"github.com/closetlab/wairdrobe/internal/wardrobe"
)

// RunMCP starts the MCP stdio server backed by the same garment store as
// the HTTP application. Logs go to stderr because stdout carries the MCP
// transport.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	var garmentStore store.GarmentStore
	db, err := store.Open(cfg.Data.SQLitePath, cfg.Data.LegacyPath, logger)
	if err != nil {
		logger.Warn("storage unavailable, running in-memory only", slog.String("error", err.Error()))
	} else {
		garmentStore = db
		defer db.Close()
	}

	ctrl := wardrobe.New(garmentStore, logger,
		wardrobe.WithDebounce(cfg.Wardrobe.Debounce()),
	)
	if err := ctrl.Load(); err != nil {
		return fmt.Errorf("load wardrobe: %w", err)
	}
	defer ctrl.Flush()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(ctrl).ServeStdio()
}
