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

	"matchtracker/internal/catalog"
	"matchtracker/internal/config"
	"matchtracker/internal/logging"
	"matchtracker/internal/store"
	"matchtracker/internal/web"
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
		"catalog_path", cfg.Catalog.Path,
		"database_configured", cfg.Database.URL != "",
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Load the card catalog
	cards, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("failed to load card catalog", "error", err, "path", cfg.Catalog.Path)
		os.Exit(1)
	}
	slog.Info("card catalog loaded", "cards", cards.Len())

	ctx := context.Background()

	// Pick the store: PostgreSQL when configured, in-memory otherwise
	var st store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database.URL, store.PoolSettings{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		st = pg

		if u, err := url.Parse(cfg.Database.URL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}
	} else {
		st = store.NewMemory()
		slog.Info("no database configured, match data is kept in memory")
	}
	defer st.Close()

	server := web.NewServer(cfg, cards, st)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
