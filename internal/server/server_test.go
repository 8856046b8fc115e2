package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
	"github.com/joseph-ayodele/invoice-orders/internal/export"
	"github.com/joseph-ayodele/invoice-orders/internal/extract"
	"github.com/joseph-ayodele/invoice-orders/internal/repository"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "orders.db")
	db, err := repository.Open(context.Background(), repository.Config{DSN: dsn}, slog.Default())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := repository.NewStore(db, repository.Config{DSN: dsn}, slog.Default())

	extractor, err := extract.ForProvider(common.ExtractConfig{Provider: "heuristic"}, slog.Default())
	if err != nil {
		t.Fatalf("resolve extractor: %v", err)
	}
	cfg := common.ServerConfig{HTTPAddr: ":0", UploadDir: filepath.Join(dir, "uploads")}
	return NewServer(extractor, store, export.NewService(store, slog.Default()), cfg, slog.Default())
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestExtractEndpoint(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	invoice := "Northwind Outfitters\nInvoice\n\nInvoice Number: INV-10045\nInvoice Date: 2026-01-10\nTerms: Net 30\n\nSKU 323 - Crown Race - Qty 15 - Unit $150.00 - Line $2250.00\n"
	body, contentType := multipartUpload(t, "file", "invoice.txt", invoice)

	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var rec entity.Record
	if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := *rec.Document.InvoiceNumber; got != "INV-10045" {
		t.Errorf("InvoiceNumber = %q, want INV-10045", got)
	}
	if got := *rec.Document.DueDate; got != "2026-02-09" {
		t.Errorf("DueDate = %q, want 2026-02-09 (Net 30 from 2026-01-10)", got)
	}
	if len(rec.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(rec.Details))
	}
	if got := *rec.Details[0].LineTotal; got != 2250.00 {
		t.Errorf("LineTotal = %v, want 2250.00", got)
	}
	if rec.Document.Filename == nil || *rec.Document.Filename != "invoice.txt" {
		t.Errorf("Filename = %v, want invoice.txt", rec.Document.Filename)
	}
	if rec.Meta == nil {
		t.Error("response missing meta timing")
	}
}

func TestExtractEndpointRejectsMissingFile(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	body, contentType := multipartUpload(t, "wrong_field", "invoice.txt", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestOrderLifecycle(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	draft := map[string]any{
		"document": map[string]any{
			"VendorName":    "Summit Components",
			"InvoiceNumber": "INV-10046",
			"InvoiceDate":   "2026-01-12",
			"Tax":           "32.44",
			"Freight":       "15.00",
		},
		"details": []map[string]any{
			{"ProductID": "1", "ProductName": "Adjustable Race", "OrderQty": "50", "UnitPrice": "9.98"},
		},
	}
	payload, _ := json.Marshal(draft)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var created entity.Record
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode created order: %v", err)
	}
	if created.Header.SalesOrderID == nil {
		t.Fatal("created order has no SalesOrderID")
	}
	id := *created.Header.SalesOrderID

	// The draft was normalized on the way in.
	if got := *created.Header.SalesOrderNumber; got != "INV-10046" {
		t.Errorf("SalesOrderNumber = %q, want INV-10046", got)
	}
	if created.Header.SubTotal == nil || *created.Header.SubTotal == 0 {
		t.Errorf("SubTotal = %v, want line item sum", created.Header.SubTotal)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var summaries []repository.OrderSummary
	if err := json.NewDecoder(rr.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("orders = %d, want 1", len(summaries))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/"+itoa(id), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	draft["header"] = map[string]any{"PurchaseOrderNumber": "PO-7"}
	payload, _ = json.Marshal(draft)
	req = httptest.NewRequest(http.MethodPut, "/api/orders/"+itoa(id), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var updated entity.Record
	if err := json.NewDecoder(rr.Body).Decode(&updated); err != nil {
		t.Fatalf("decode updated order: %v", err)
	}
	if got := *updated.Header.PurchaseOrderNumber; got != "PO-7" {
		t.Errorf("PurchaseOrderNumber = %q, want PO-7", got)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	srv := newTestServer(t)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/99999", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/export.xlsx", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q, want xlsx", ct)
	}
	// XLSX is a zip container.
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")) {
		t.Error("body is not a zip archive")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/orders", nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
