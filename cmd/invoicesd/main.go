package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/export"
	"github.com/joseph-ayodele/invoice-orders/internal/extract"
	"github.com/joseph-ayodele/invoice-orders/internal/repository"
	"github.com/joseph-ayodele/invoice-orders/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:           cfg.Database.DSN,
		HealthTimeout: cfg.Database.HealthTimeout,
	}, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	if err := repository.HealthCheck(ctx, db, cfg.Database.HealthTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(db, repository.Config{DSN: cfg.Database.DSN}, logger)
	if err := store.Seed(ctx); err != nil {
		logger.Error("seed database", "error", err)
		os.Exit(1)
	}

	// Strategy selection happens once; an unknown provider never serves.
	extractor, err := extract.ForProvider(cfg.Extract, logger)
	if err != nil {
		logger.Error("resolve extraction provider", "provider", cfg.Extract.Provider, "error", err)
		os.Exit(2)
	}

	srv := server.NewServer(extractor, store, export.NewService(store, logger), cfg.Server, logger)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http serve", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
