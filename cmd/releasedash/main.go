package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	csvadapter "github.com/ericfisherdev/releasedash/internal/adapter/driven/csvfile"
	githubadapter "github.com/ericfisherdev/releasedash/internal/adapter/driven/github"
	httphandler "github.com/ericfisherdev/releasedash/internal/adapter/driving/http"
	"github.com/ericfisherdev/releasedash/internal/application"
	"github.com/ericfisherdev/releasedash/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"data_path", cfg.DataPath,
		"refresh_interval", cfg.RefreshInterval,
		"repositories", len(cfg.Repositories),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire driven adapters.
	store := csvadapter.NewStore(cfg.DataPath)
	ghClient := githubadapter.NewClient(cfg.GitHubToken)
	if cfg.GitHubToken == "" {
		slog.Warn("no github token configured, using unauthenticated API with reduced rate limits")
	}

	// 4. Create and start the ingest service.
	ingestSvc := application.NewIngestService(ghClient, store, cfg.Repositories, cfg.RefreshInterval)
	go ingestSvc.Start(ctx)

	// 5. Create the stats service and HTTP handler.
	statsSvc := application.NewStatsService(store)
	apiHandler := httphandler.NewHandler(statsSvc, ingestSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 6. Log startup complete.
	slog.Info("releasedash started",
		"listen_addr", cfg.ListenAddr,
		"refresh_interval", cfg.RefreshInterval,
	)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 8. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
