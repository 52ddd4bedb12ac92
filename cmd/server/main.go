package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/dangidongi/internal/auth"
	"github.com/mmynk/dangidongi/internal/config"
	"github.com/mmynk/dangidongi/internal/metrics"
	"github.com/mmynk/dangidongi/internal/storage"
	"github.com/mmynk/dangidongi/internal/storage/postgres"
	"github.com/mmynk/dangidongi/internal/storage/sqlite"
	"github.com/mmynk/dangidongi/pkg/logging"
)

func main() {
	logger := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)

	handler := newRouter(routerDeps{
		store:      store,
		jwtManager: auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		metrics:    metrics.New(),
		logger:     logger,
		staticDir:  staticDir,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := cfg.Addr()
	slog.Info("Connect server starting", "address", addr, "url", "http://localhost"+addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// openStore connects to the backend selected by DB_DRIVER.
func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DBDriver == config.DriverPostgres {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return postgres.New(ctx, cfg.DatabaseURL)
	}

	return sqlite.New(cfg.DBPath)
}
