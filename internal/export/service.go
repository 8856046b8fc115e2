package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-orders/internal/repository"
)

// Service is a tiny façade over the order store that produces XLSX bytes.
type Service struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewService(store *repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportOrdersXLSX returns a workbook with one summary row per order,
// newest first.
func (s *Service) ExportOrdersXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	orders, err := s.store.FetchOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Orders"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Sales Order ID",
		"Sales Order Number",
		"Vendor",
		"Invoice Number",
		"Order Date",
		"Due Date",
		"Subtotal",
		"Tax",
		"Freight",
		"Total Due",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, o := range orders {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, deref(o.SalesOrderID))
		write(2, deref(o.SalesOrderNumber))
		write(3, deref(o.VendorName))
		write(4, deref(o.InvoiceNumber))
		write(5, deref(o.OrderDate))
		write(6, deref(o.DueDate))
		write(7, deref(o.SubTotal))
		write(8, deref(o.TaxAmt))
		write(9, deref(o.Freight))
		write(10, deref(o.TotalDue))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "D", 20)
	_ = f.SetColWidth(sheet, "E", "F", 14)
	_ = f.SetColWidth(sheet, "G", "J", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(orders),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// deref unwraps optional cells; nil writes an empty cell.
func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}
