// Command extract runs the extraction pipeline on a single file and prints
// the canonical record as JSON. Useful for trying providers without the
// HTTP server.
//
// Usage: extract [-provider heuristic|delegated] <file>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/content"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
	"github.com/joseph-ayodele/invoice-orders/internal/extract"
	"github.com/joseph-ayodele/invoice-orders/internal/normalize"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	provider := flag.String("provider", "", "extraction provider (overrides LLM_PROVIDER)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: extract [-provider heuristic|delegated] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if *provider != "" {
		cfg.Extract.Provider = *provider
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	filename := filepath.Base(path)
	loaded, err := content.Load(data, filename, "", logger)
	if err != nil {
		logger.Error("load content", "path", path, "error", err)
		os.Exit(1)
	}

	extractor, err := extract.ForProvider(cfg.Extract, logger)
	if err != nil {
		logger.Error("resolve provider", "provider", cfg.Extract.Provider, "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Extract.Timeout)
	defer cancel()

	start := time.Now()
	draft, err := extractor.Extract(ctx, loaded)
	if err != nil {
		logger.Error("extract", "path", path, "error", err)
		os.Exit(1)
	}

	rec := normalize.Normalize(draft, normalize.Source{
		RawText:  loaded.Text,
		Filename: filename,
		MimeType: loaded.MimeType,
	})
	rec.Meta = &entity.Meta{ProcessingMS: time.Since(start).Milliseconds()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}
}
