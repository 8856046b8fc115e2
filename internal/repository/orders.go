package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
)

const (
	headerColumns = `SalesOrderID, RevisionNumber, OrderDate, DueDate, ShipDate, Status,
		OnlineOrderFlag, SalesOrderNumber, PurchaseOrderNumber, AccountNumber, CustomerID,
		SalesPersonID, TerritoryID, BillToAddressID, ShipToAddressID, ShipMethodID,
		CreditCardID, CreditCardApprovalCode, CurrencyRateID, SubTotal, TaxAmt, Freight, TotalDue`

	documentColumns = `SalesOrderID, Filename, MimeType, VendorName, InvoiceNumber,
		InvoiceDate, DueDate, Terms, BillToName, BillToAddress, ShipToName, ShipToAddress,
		Currency, Notes, Subtotal, Tax, Freight, Total, RawText, CreatedAt`

	detailColumns = `SalesOrderID, CarrierTrackingNumber, OrderQty, ProductID, ProductName,
		SpecialOfferID, UnitPrice, UnitPriceDiscount, LineTotal`
)

// Store persists canonical records into the three order tables.
type Store struct {
	db  *sql.DB
	pg  bool
	log *slog.Logger
}

func NewStore(db *sql.DB, cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	pg := strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://")
	return &Store{db: db, pg: pg, log: logger}
}

// OrderSummary is a header row joined with the identifying document fields,
// as returned by the order listing.
type OrderSummary struct {
	entity.Header
	InvoiceNumber *string `json:"InvoiceNumber"`
	VendorName    *string `json:"VendorName"`
}

// Snapshot is a bounded dump of the three tables, newest rows first.
type Snapshot struct {
	Headers   []entity.Header   `json:"headers"`
	Details   []entity.Detail   `json:"details"`
	Documents []entity.Document `json:"documents"`
}

// bind rewrites ? placeholders for the postgres driver.
func (s *Store) bind(q string) string {
	if !s.pg {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nextSalesOrderID hands out header IDs above the imported AdventureWorks
// range; 50000 is the floor for locally created orders.
func (s *Store) nextSalesOrderID(ctx context.Context, tx *sql.Tx) (int64, error) {
	var next int64
	row := tx.QueryRowContext(ctx, s.bind(`SELECT COALESCE(MAX(SalesOrderID), 50000) + 1 FROM SalesOrderHeader`))
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("next sales order id: %w", err)
	}
	return next, nil
}

// InsertOrder writes a canonical record as a new order and returns the
// stored row set.
func (s *Store) InsertOrder(ctx context.Context, rec entity.Record) (entity.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Record{}, common.WrapError(err, "begin insert")
	}
	defer func() { _ = tx.Rollback() }()

	id := int64(0)
	if rec.Header.SalesOrderID != nil {
		id = *rec.Header.SalesOrderID
	} else {
		id, err = s.nextSalesOrderID(ctx, tx)
		if err != nil {
			return entity.Record{}, err
		}
	}
	rec.Header.SalesOrderID = &id

	if err := s.insertHeader(ctx, tx, rec.Header); err != nil {
		return entity.Record{}, err
	}
	if err := s.insertDocument(ctx, tx, id, rec.Document); err != nil {
		return entity.Record{}, err
	}
	for _, it := range rec.Details {
		if err := s.insertDetail(ctx, tx, id, it); err != nil {
			return entity.Record{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return entity.Record{}, common.WrapError(err, "commit insert")
	}

	s.log.Info("orders.insert.ok", "sales_order_id", id, "details", len(rec.Details))
	return s.FetchOrder(ctx, id)
}

// UpdateOrder overwrites the header, upserts the document, and replaces the
// detail lines of an existing order.
func (s *Store) UpdateOrder(ctx context.Context, id int64, rec entity.Record) (entity.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Record{}, common.WrapError(err, "begin update")
	}
	defer func() { _ = tx.Rollback() }()

	h := rec.Header
	_, err = tx.ExecContext(ctx, s.bind(`UPDATE SalesOrderHeader SET
		RevisionNumber = ?, OrderDate = ?, DueDate = ?, ShipDate = ?, Status = ?,
		OnlineOrderFlag = ?, SalesOrderNumber = ?, PurchaseOrderNumber = ?, AccountNumber = ?,
		CustomerID = ?, SalesPersonID = ?, TerritoryID = ?, BillToAddressID = ?,
		ShipToAddressID = ?, ShipMethodID = ?, CreditCardID = ?, CreditCardApprovalCode = ?,
		CurrencyRateID = ?, SubTotal = ?, TaxAmt = ?, Freight = ?, TotalDue = ?
		WHERE SalesOrderID = ?`),
		h.RevisionNumber, h.OrderDate, h.DueDate, h.ShipDate, h.Status,
		h.OnlineOrderFlag, h.SalesOrderNumber, h.PurchaseOrderNumber, h.AccountNumber,
		h.CustomerID, h.SalesPersonID, h.TerritoryID, h.BillToAddressID,
		h.ShipToAddressID, h.ShipMethodID, h.CreditCardID, h.CreditCardApprovalCode,
		h.CurrencyRateID, h.SubTotal, h.TaxAmt, h.Freight, h.TotalDue, id)
	if err != nil {
		return entity.Record{}, common.WrapError(err, "update header")
	}

	var existing int64
	err = tx.QueryRowContext(ctx, s.bind(`SELECT DocumentID FROM Documents WHERE SalesOrderID = ?`), id).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := s.insertDocument(ctx, tx, id, rec.Document); err != nil {
			return entity.Record{}, err
		}
	case err != nil:
		return entity.Record{}, common.WrapError(err, "load document")
	default:
		d := rec.Document
		_, err = tx.ExecContext(ctx, s.bind(`UPDATE Documents SET
			Filename = ?, MimeType = ?, VendorName = ?, InvoiceNumber = ?, InvoiceDate = ?,
			DueDate = ?, Terms = ?, BillToName = ?, BillToAddress = ?, ShipToName = ?,
			ShipToAddress = ?, Currency = ?, Notes = ?, Subtotal = ?, Tax = ?, Freight = ?,
			Total = ?, RawText = ? WHERE SalesOrderID = ?`),
			d.Filename, d.MimeType, d.VendorName, d.InvoiceNumber, d.InvoiceDate,
			d.DueDate, d.Terms, d.BillToName, d.BillToAddress, d.ShipToName,
			d.ShipToAddress, d.Currency, d.Notes, d.Subtotal, d.Tax, d.Freight,
			d.Total, d.RawText, id)
		if err != nil {
			return entity.Record{}, common.WrapError(err, "update document")
		}
	}

	if _, err := tx.ExecContext(ctx, s.bind(`DELETE FROM SalesOrderDetail WHERE SalesOrderID = ?`), id); err != nil {
		return entity.Record{}, common.WrapError(err, "clear details")
	}
	for _, it := range rec.Details {
		if err := s.insertDetail(ctx, tx, id, it); err != nil {
			return entity.Record{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return entity.Record{}, common.WrapError(err, "commit update")
	}

	s.log.Info("orders.update.ok", "sales_order_id", id, "details", len(rec.Details))
	return s.FetchOrder(ctx, id)
}

func (s *Store) insertHeader(ctx context.Context, tx *sql.Tx, h entity.Header) error {
	_, err := tx.ExecContext(ctx, s.bind(`INSERT INTO SalesOrderHeader (`+headerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		h.SalesOrderID, h.RevisionNumber, h.OrderDate, h.DueDate, h.ShipDate, h.Status,
		h.OnlineOrderFlag, h.SalesOrderNumber, h.PurchaseOrderNumber, h.AccountNumber,
		h.CustomerID, h.SalesPersonID, h.TerritoryID, h.BillToAddressID, h.ShipToAddressID,
		h.ShipMethodID, h.CreditCardID, h.CreditCardApprovalCode, h.CurrencyRateID,
		h.SubTotal, h.TaxAmt, h.Freight, h.TotalDue)
	return common.WrapError(err, "insert header")
}

func (s *Store) insertDocument(ctx context.Context, tx *sql.Tx, id int64, d entity.Document) error {
	createdAt := d.CreatedAt
	if createdAt == nil {
		now := time.Now().UTC().Format(time.RFC3339)
		createdAt = &now
	}
	_, err := tx.ExecContext(ctx, s.bind(`INSERT INTO Documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, d.Filename, d.MimeType, d.VendorName, d.InvoiceNumber,
		d.InvoiceDate, d.DueDate, d.Terms, d.BillToName, d.BillToAddress,
		d.ShipToName, d.ShipToAddress, d.Currency, d.Notes, d.Subtotal,
		d.Tax, d.Freight, d.Total, d.RawText, createdAt)
	return common.WrapError(err, "insert document")
}

func (s *Store) insertDetail(ctx context.Context, tx *sql.Tx, id int64, it entity.Detail) error {
	_, err := tx.ExecContext(ctx, s.bind(`INSERT INTO SalesOrderDetail (`+detailColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, it.CarrierTrackingNumber, it.OrderQty, it.ProductID, it.ProductName,
		it.SpecialOfferID, it.UnitPrice, it.UnitPriceDiscount, it.LineTotal)
	return common.WrapError(err, "insert detail")
}

// FetchOrder loads one order as a canonical record.
func (s *Store) FetchOrder(ctx context.Context, id int64) (entity.Record, error) {
	var rec entity.Record

	row := s.db.QueryRowContext(ctx, s.bind(`SELECT `+headerColumns+` FROM SalesOrderHeader WHERE SalesOrderID = ?`), id)
	h, err := scanHeader(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Record{}, common.NewAppError("ORDERS", fmt.Sprintf("order %d", id), common.ErrNotFound)
	}
	if err != nil {
		return entity.Record{}, common.WrapError(err, "load header")
	}
	rec.Header = h

	row = s.db.QueryRowContext(ctx, s.bind(`SELECT `+documentColumns+` FROM Documents WHERE SalesOrderID = ?`), id)
	doc, err := scanDocument(row)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return entity.Record{}, common.WrapError(err, "load document")
	}
	rec.Document = doc

	rows, err := s.db.QueryContext(ctx, s.bind(`SELECT `+detailColumns+` FROM SalesOrderDetail WHERE SalesOrderID = ? ORDER BY SalesOrderDetailID`), id)
	if err != nil {
		return entity.Record{}, common.WrapError(err, "load details")
	}
	defer func() { _ = rows.Close() }()
	rec.Details = []entity.Detail{}
	for rows.Next() {
		it, err := scanDetail(rows)
		if err != nil {
			return entity.Record{}, common.WrapError(err, "scan detail")
		}
		rec.Details = append(rec.Details, it)
	}
	if err := rows.Err(); err != nil {
		return entity.Record{}, common.WrapError(err, "iterate details")
	}
	return rec, nil
}

// FetchOrders lists the most recent orders joined with their invoice identity.
func (s *Store) FetchOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := s.db.QueryContext(ctx, s.bind(`SELECT `+prefixColumns("h", headerColumns)+`,
		d.InvoiceNumber, d.VendorName
		FROM SalesOrderHeader h
		LEFT JOIN Documents d ON d.SalesOrderID = h.SalesOrderID
		ORDER BY h.SalesOrderID DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, common.WrapError(err, "list orders")
	}
	defer func() { _ = rows.Close() }()

	summaries := []OrderSummary{}
	for rows.Next() {
		var sum OrderSummary
		dest := headerDest(&sum.Header)
		dest = append(dest, &sum.InvoiceNumber, &sum.VendorName)
		if err := rows.Scan(dest...); err != nil {
			return nil, common.WrapError(err, "scan order summary")
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// DBSnapshot returns the newest rows of every table for debugging views.
func (s *Store) DBSnapshot(ctx context.Context, limit int) (Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}
	snap := Snapshot{Headers: []entity.Header{}, Details: []entity.Detail{}, Documents: []entity.Document{}}

	rows, err := s.db.QueryContext(ctx, s.bind(`SELECT `+headerColumns+` FROM SalesOrderHeader ORDER BY SalesOrderID DESC LIMIT ?`), limit)
	if err != nil {
		return snap, common.WrapError(err, "snapshot headers")
	}
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			_ = rows.Close()
			return snap, common.WrapError(err, "scan header")
		}
		snap.Headers = append(snap.Headers, h)
	}
	_ = rows.Close()

	rows, err = s.db.QueryContext(ctx, s.bind(`SELECT `+detailColumns+` FROM SalesOrderDetail ORDER BY SalesOrderDetailID DESC LIMIT ?`), limit)
	if err != nil {
		return snap, common.WrapError(err, "snapshot details")
	}
	for rows.Next() {
		it, err := scanDetail(rows)
		if err != nil {
			_ = rows.Close()
			return snap, common.WrapError(err, "scan detail")
		}
		snap.Details = append(snap.Details, it)
	}
	_ = rows.Close()

	rows, err = s.db.QueryContext(ctx, s.bind(`SELECT `+documentColumns+` FROM Documents ORDER BY DocumentID DESC LIMIT ?`), limit)
	if err != nil {
		return snap, common.WrapError(err, "snapshot documents")
	}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			_ = rows.Close()
			return snap, common.WrapError(err, "scan document")
		}
		snap.Documents = append(snap.Documents, d)
	}
	_ = rows.Close()

	return snap, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func headerDest(h *entity.Header) []any {
	return []any{
		&h.SalesOrderID, &h.RevisionNumber, &h.OrderDate, &h.DueDate, &h.ShipDate,
		&h.Status, &h.OnlineOrderFlag, &h.SalesOrderNumber, &h.PurchaseOrderNumber,
		&h.AccountNumber, &h.CustomerID, &h.SalesPersonID, &h.TerritoryID,
		&h.BillToAddressID, &h.ShipToAddressID, &h.ShipMethodID, &h.CreditCardID,
		&h.CreditCardApprovalCode, &h.CurrencyRateID, &h.SubTotal, &h.TaxAmt,
		&h.Freight, &h.TotalDue,
	}
}

func scanHeader(row scanner) (entity.Header, error) {
	var h entity.Header
	err := row.Scan(headerDest(&h)...)
	return h, err
}

func scanDocument(row scanner) (entity.Document, error) {
	var d entity.Document
	var salesOrderID *int64
	err := row.Scan(&salesOrderID, &d.Filename, &d.MimeType, &d.VendorName, &d.InvoiceNumber,
		&d.InvoiceDate, &d.DueDate, &d.Terms, &d.BillToName, &d.BillToAddress,
		&d.ShipToName, &d.ShipToAddress, &d.Currency, &d.Notes, &d.Subtotal,
		&d.Tax, &d.Freight, &d.Total, &d.RawText, &d.CreatedAt)
	return d, err
}

func scanDetail(row scanner) (entity.Detail, error) {
	var it entity.Detail
	var salesOrderID *int64
	err := row.Scan(&salesOrderID, &it.CarrierTrackingNumber, &it.OrderQty, &it.ProductID,
		&it.ProductName, &it.SpecialOfferID, &it.UnitPrice, &it.UnitPriceDiscount, &it.LineTotal)
	return it, err
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
