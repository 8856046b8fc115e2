package repository

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "orders.db")
	db, err := Open(context.Background(), Config{DSN: dsn}, slog.Default())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, Config{DSN: dsn}, slog.Default())
}

func testRecord() entity.Record {
	return entity.Record{
		Document: entity.Document{
			VendorName:    sp("Northwind Outfitters"),
			InvoiceNumber: sp("INV-10045"),
			InvoiceDate:   sp("2026-01-10"),
			DueDate:       sp("2026-02-09"),
			Subtotal:      fp(2325.00),
			Tax:           fp(159.84),
			Freight:       fp(0),
			Total:         fp(2484.84),
		},
		Header: entity.Header{
			RevisionNumber:   ip(0),
			OrderDate:        sp("2026-01-10"),
			DueDate:          sp("2026-02-09"),
			Status:           ip(5),
			OnlineOrderFlag:  ip(1),
			SalesOrderNumber: sp("INV-10045"),
			CustomerID:       ip(11015),
			SubTotal:         fp(2325.00),
			TaxAmt:           fp(159.84),
			Freight:          fp(0),
			TotalDue:         fp(2484.84),
		},
		Details: []entity.Detail{
			{
				OrderQty:          ip(15),
				ProductID:         sp("323"),
				ProductName:       sp("Crown Race"),
				UnitPrice:         fp(150.00),
				UnitPriceDiscount: fp(0),
				LineTotal:         fp(2250.00),
			},
			{
				OrderQty:          ip(1),
				ProductID:         sp("2"),
				ProductName:       sp("Bearing Ball"),
				UnitPrice:         fp(75.00),
				UnitPriceDiscount: fp(0),
				LineTotal:         fp(75.00),
			},
		},
	}
}

func TestInsertAndFetchOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.InsertOrder(ctx, testRecord())
	if err != nil {
		t.Fatalf("InsertOrder: %v", err)
	}
	if inserted.Header.SalesOrderID == nil {
		t.Fatal("inserted order has no SalesOrderID")
	}
	if *inserted.Header.SalesOrderID != 50001 {
		t.Errorf("SalesOrderID = %d, want 50001", *inserted.Header.SalesOrderID)
	}

	rec, err := store.FetchOrder(ctx, *inserted.Header.SalesOrderID)
	if err != nil {
		t.Fatalf("FetchOrder: %v", err)
	}
	if got := *rec.Document.InvoiceNumber; got != "INV-10045" {
		t.Errorf("InvoiceNumber = %q, want INV-10045", got)
	}
	if got := *rec.Header.TotalDue; got != 2484.84 {
		t.Errorf("TotalDue = %v, want 2484.84", got)
	}
	if len(rec.Details) != 2 {
		t.Fatalf("details = %d, want 2", len(rec.Details))
	}
	if got := *rec.Details[0].ProductName; got != "Crown Race" {
		t.Errorf("first detail = %q, want Crown Race (insert order preserved)", got)
	}
	if rec.Document.CreatedAt == nil {
		t.Error("CreatedAt was not defaulted on insert")
	}
}

func TestInsertOrderHonorsExplicitID(t *testing.T) {
	store := newTestStore(t)
	rec := testRecord()
	rec.Header.SalesOrderID = ip(60005)

	inserted, err := store.InsertOrder(context.Background(), rec)
	if err != nil {
		t.Fatalf("InsertOrder: %v", err)
	}
	if *inserted.Header.SalesOrderID != 60005 {
		t.Errorf("SalesOrderID = %d, want 60005", *inserted.Header.SalesOrderID)
	}
}

func TestFetchOrderNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.FetchOrder(context.Background(), 99999)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateOrderReplacesDetails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.InsertOrder(ctx, testRecord())
	if err != nil {
		t.Fatalf("InsertOrder: %v", err)
	}
	id := *inserted.Header.SalesOrderID

	updated := testRecord()
	updated.Header.PurchaseOrderNumber = sp("PO-2002")
	updated.Details = []entity.Detail{
		{
			OrderQty:          ip(3),
			ProductID:         sp("999"),
			ProductName:       sp("Chainring"),
			UnitPrice:         fp(20.00),
			UnitPriceDiscount: fp(0),
			LineTotal:         fp(60.00),
		},
	}

	rec, err := store.UpdateOrder(ctx, id, updated)
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if got := *rec.Header.PurchaseOrderNumber; got != "PO-2002" {
		t.Errorf("PurchaseOrderNumber = %q, want PO-2002", got)
	}
	if len(rec.Details) != 1 {
		t.Fatalf("details = %d, want 1 after replacement", len(rec.Details))
	}
	if got := *rec.Details[0].ProductName; got != "Chainring" {
		t.Errorf("detail = %q, want Chainring", got)
	}
}

func TestFetchOrdersJoinsDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertOrder(ctx, testRecord()); err != nil {
		t.Fatalf("InsertOrder: %v", err)
	}
	second := testRecord()
	second.Document.VendorName = sp("Summit Components")
	second.Document.InvoiceNumber = sp("INV-10046")
	if _, err := store.InsertOrder(ctx, second); err != nil {
		t.Fatalf("InsertOrder: %v", err)
	}

	orders, err := store.FetchOrders(ctx, 10)
	if err != nil {
		t.Fatalf("FetchOrders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	// Newest first.
	if got := *orders[0].InvoiceNumber; got != "INV-10046" {
		t.Errorf("orders[0].InvoiceNumber = %q, want INV-10046", got)
	}
	if got := *orders[0].VendorName; got != "Summit Components" {
		t.Errorf("orders[0].VendorName = %q, want Summit Components", got)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := store.Seed(ctx); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	orders, err := store.FetchOrders(ctx, 10)
	if err != nil {
		t.Fatalf("FetchOrders: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("orders = %d, want 2 after double seed", len(orders))
	}
}

func TestDBSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertOrder(ctx, testRecord()); err != nil {
		t.Fatalf("InsertOrder: %v", err)
	}
	snap, err := store.DBSnapshot(ctx, 5)
	if err != nil {
		t.Fatalf("DBSnapshot: %v", err)
	}
	if len(snap.Headers) != 1 || len(snap.Documents) != 1 || len(snap.Details) != 2 {
		t.Errorf("snapshot = %d headers, %d documents, %d details; want 1/1/2",
			len(snap.Headers), len(snap.Documents), len(snap.Details))
	}
}

func TestImportAndReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	headers := []entity.Header{
		{SalesOrderID: ip(43659), SubTotal: fp(20565.62), TotalDue: fp(23153.23)},
	}
	details := map[int64][]entity.Detail{
		43659: {
			{OrderQty: ip(1), ProductID: sp("776"), UnitPrice: fp(2024.99), LineTotal: fp(2024.99)},
			{OrderQty: ip(3), ProductID: sp("777"), UnitPrice: fp(2024.99), LineTotal: fp(6074.98)},
		},
	}
	nh, nd, err := store.ImportOrders(ctx, headers, details)
	if err != nil {
		t.Fatalf("ImportOrders: %v", err)
	}
	if nh != 1 || nd != 2 {
		t.Errorf("imported %d headers, %d details; want 1, 2", nh, nd)
	}

	rec, err := store.FetchOrder(ctx, 43659)
	if err != nil {
		t.Fatalf("FetchOrder: %v", err)
	}
	if len(rec.Details) != 2 {
		t.Errorf("details = %d, want 2", len(rec.Details))
	}

	if err := store.ResetOrders(ctx); err != nil {
		t.Fatalf("ResetOrders: %v", err)
	}
	if _, err := store.FetchOrder(ctx, 43659); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("error after reset = %v, want ErrNotFound", err)
	}
}
