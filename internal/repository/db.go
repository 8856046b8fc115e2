package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN           string
	HealthTimeout time.Duration
}

// Open connects to the order store. A postgres:// DSN goes through the pgx
// stdlib driver; anything else is treated as a sqlite file path. The sqlite
// schema is created on open; a postgres database is expected to be migrated
// out of band.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		driver = "pgx"
	}
	logger.Info("db.open", "driver", driver, "dsn", cfg.DSN)

	if driver == "sqlite" {
		path := strings.TrimPrefix(cfg.DSN, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("db.open_failed", "error", err)
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			_ = db.Close()
			logger.Error("db.init_schema_failed", "error", err)
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return db, nil
}

// Close closes the database connection gracefully
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("db.close_failed", "error", err)
		return
	}
	logger.Info("db.closed")
}

// HealthCheck pings the database to catch DSN issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("db.ping")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}
