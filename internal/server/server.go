// Package server provides the HTTP API over the extraction pipeline and the
// order store.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/export"
	"github.com/joseph-ayodele/invoice-orders/internal/llm"
	"github.com/joseph-ayodele/invoice-orders/internal/repository"
)

// Server is the HTTP server for the invoice-orders API.
type Server struct {
	extractor llm.Extractor
	store     *repository.Store
	exporter  *export.Service
	cfg       common.ServerConfig
	logger    *slog.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. The extractor is
// resolved once per process; strategy selection failures belong to startup.
func NewServer(
	extractor llm.Extractor,
	store *repository.Store,
	exporter *export.Service,
	cfg common.ServerConfig,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		extractor: extractor,
		store:     store,
		exporter:  exporter,
		cfg:       cfg,
		logger:    logger,
	}
}

// Router assembles the chi routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Post("/api/extract", s.handleExtract)
	r.Get("/api/orders", s.handleListOrders)
	r.Post("/api/orders", s.handleCreateOrder)
	r.Get("/api/orders/export.xlsx", s.handleExportOrders)
	r.Get("/api/orders/{id}", s.handleGetOrder)
	r.Put("/api/orders/{id}", s.handleUpdateOrder)
	r.Get("/api/db_snapshot", s.handleSnapshot)
	r.Get("/api/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Router(),
	}
	s.logger.Info("server.start", "addr", s.cfg.HTTPAddr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware mirrors the permissive policy the UI expects.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
