package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/content"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
	"github.com/joseph-ayodele/invoice-orders/internal/normalize"
)

const maxUploadBytes = 32 << 20

// handleExtract runs the full pipeline on one uploaded file: load content,
// extract a draft with the configured strategy, normalize, and report
// processing time. The upload is kept on disk but nothing is persisted to
// the order store; that is the caller's decision via POST /api/orders.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer func() { _ = file.Close() }()

	filename := filepath.Base(fh.Filename)
	if filename == "" || filename == "." || filename == "/" {
		s.writeError(w, http.StatusBadRequest, "empty filename")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read upload")
		return
	}

	s.saveUpload(filename, data)

	loaded, err := content.Load(data, filename, fh.Header.Get("Content-Type"), s.logger)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unsupported file type or empty content")
		return
	}

	start := time.Now()
	draft, err := s.extractor.Extract(r.Context(), loaded)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, common.ErrMissingCredential) || errors.Is(err, common.ErrUnsupportedProvider) {
			status = http.StatusInternalServerError
		}
		s.logger.Error("extract.failed", "filename", filename, "error", err)
		s.writeError(w, status, err.Error())
		return
	}

	rec := normalize.Normalize(draft, normalize.Source{
		RawText:  loaded.Text,
		Filename: filename,
		MimeType: loaded.MimeType,
	})
	rec.Meta = &entity.Meta{ProcessingMS: time.Since(start).Milliseconds()}

	s.logger.Info("extract.ok",
		"filename", filename,
		"mime_type", loaded.MimeType,
		"details", len(rec.Details),
		"processing_ms", rec.Meta.ProcessingMS,
	)
	s.writeJSON(w, http.StatusOK, rec)
}

// saveUpload keeps a copy of the original upload; failures are logged and
// do not fail the extraction.
func (s *Server) saveUpload(filename string, data []byte) {
	if s.cfg.UploadDir == "" {
		return
	}
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.logger.Warn("extract.upload_dir_failed", "dir", s.cfg.UploadDir, "error", err)
		return
	}
	path := filepath.Join(s.cfg.UploadDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("extract.upload_save_failed", "path", path, "error", err)
	}
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 15)
	orders, err := s.store.FetchOrders(r.Context(), limit)
	if err != nil {
		s.logger.Error("orders.list_failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "list orders")
		return
	}
	s.writeJSON(w, http.StatusOK, orders)
}

// handleCreateOrder accepts a draft-shaped payload, re-normalizes it, and
// inserts a new order.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeNormalized(w, r)
	if !ok {
		return
	}
	inserted, err := s.store.InsertOrder(r.Context(), rec)
	if err != nil {
		s.logger.Error("orders.insert_failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "insert order")
		return
	}
	s.writeJSON(w, http.StatusCreated, inserted)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.orderID(w, r)
	if !ok {
		return
	}
	rec, err := s.store.FetchOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("orders.get_failed", "sales_order_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "load order")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.orderID(w, r)
	if !ok {
		return
	}
	rec, ok := s.decodeNormalized(w, r)
	if !ok {
		return
	}
	updated, err := s.store.UpdateOrder(r.Context(), id, rec)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("orders.update_failed", "sales_order_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "update order")
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	snap, err := s.store.DBSnapshot(r.Context(), limit)
	if err != nil {
		s.logger.Error("orders.snapshot_failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "snapshot")
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	data, err := s.exporter.ExportOrdersXLSX(r.Context(), limit)
	if err != nil {
		s.logger.Error("orders.export_failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "export orders")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeNormalized reads a draft-shaped body and runs it through the
// normalizer so persisted records are always canonical, whichever client
// produced them.
func (s *Server) decodeNormalized(w http.ResponseWriter, r *http.Request) (entity.Record, bool) {
	var draft entity.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return entity.Record{}, false
	}
	return normalize.Normalize(draft, normalize.Source{}), true
}

func (s *Server) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("server.write_response_failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
