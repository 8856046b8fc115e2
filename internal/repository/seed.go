package repository

import (
	"context"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
)

// Seed inserts two sample orders so a fresh database has something to show.
// A store with any existing header is left untouched.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM SalesOrderHeader`).Scan(&count); err != nil {
		return common.WrapError(err, "seed count")
	}
	if count > 0 {
		return nil
	}

	for _, rec := range seedOrders() {
		if _, err := s.InsertOrder(ctx, rec); err != nil {
			return common.WrapError(err, "seed insert")
		}
	}
	s.log.Info("orders.seeded", "orders", 2)
	return nil
}

func seedOrders() []entity.Record {
	return []entity.Record{
		{
			Header: entity.Header{
				SalesOrderID:        ip(60001),
				RevisionNumber:      ip(0),
				OrderDate:           sp("2026-01-10"),
				DueDate:             sp("2026-02-09"),
				ShipDate:            sp("2026-01-12"),
				Status:              ip(5),
				OnlineOrderFlag:     ip(1),
				SalesOrderNumber:    sp("SO60001"),
				PurchaseOrderNumber: sp("PO-1001"),
				AccountNumber:       sp("AW00011015"),
				CustomerID:          ip(11015),
				SubTotal:            fp(2325.00),
				TaxAmt:              fp(159.84),
				Freight:             fp(0.00),
				TotalDue:            fp(2484.84),
			},
			Document: entity.Document{
				Filename:      sp("seed-alpha.txt"),
				MimeType:      sp("text/plain"),
				VendorName:    sp("Northwind Outfitters"),
				InvoiceNumber: sp("INV-10045"),
				InvoiceDate:   sp("2026-01-10"),
				DueDate:       sp("2026-02-09"),
				Terms:         sp("Net 30"),
				BillToName:    sp("Engineered Bike Systems"),
				BillToAddress: sp("123 Camelia Avenue, Oxnard, CA 93030"),
				ShipToName:    sp("Engineered Bike Systems Warehouse"),
				ShipToAddress: sp("99 Depot Rd, Oxnard, CA 93030"),
				Currency:      sp("USD"),
				Notes:         sp("Include invoice number on check."),
				Subtotal:      fp(2325.00),
				Tax:           fp(159.84),
				Freight:       fp(0.00),
				Total:         fp(2484.84),
			},
			Details: []entity.Detail{
				{
					CarrierTrackingNumber: sp("1Z999AA10123456784"),
					OrderQty:              ip(15),
					ProductID:             sp("323"),
					ProductName:           sp("Crown Race"),
					UnitPrice:             fp(150.00),
					UnitPriceDiscount:     fp(0.0),
					LineTotal:             fp(2250.00),
				},
				{
					CarrierTrackingNumber: sp("1Z999AA10123456784"),
					OrderQty:              ip(1),
					ProductID:             sp("2"),
					ProductName:           sp("Bearing Ball"),
					UnitPrice:             fp(75.00),
					UnitPriceDiscount:     fp(0.0),
					LineTotal:             fp(75.00),
				},
			},
		},
		{
			Header: entity.Header{
				SalesOrderID:        ip(60002),
				RevisionNumber:      ip(0),
				OrderDate:           sp("2026-01-12"),
				DueDate:             sp("2026-02-11"),
				ShipDate:            sp("2026-01-13"),
				Status:              ip(5),
				OnlineOrderFlag:     ip(1),
				SalesOrderNumber:    sp("SO60002"),
				PurchaseOrderNumber: sp("PO-1002"),
				AccountNumber:       sp("AW00011016"),
				CustomerID:          ip(11016),
				SubTotal:            fp(499.00),
				TaxAmt:              fp(32.44),
				Freight:             fp(15.00),
				TotalDue:            fp(546.44),
			},
			Document: entity.Document{
				Filename:      sp("seed-bravo.txt"),
				MimeType:      sp("text/plain"),
				VendorName:    sp("Summit Components"),
				InvoiceNumber: sp("INV-10046"),
				InvoiceDate:   sp("2026-01-12"),
				DueDate:       sp("2026-02-11"),
				Terms:         sp("Net 30"),
				BillToName:    sp("Mechanical Products Ltd."),
				BillToAddress: sp("22555 Paseo De Las Americas, San Diego, CA 92102"),
				ShipToName:    sp("Mechanical Products Ltd."),
				ShipToAddress: sp("22555 Paseo De Las Americas, San Diego, CA 92102"),
				Currency:      sp("USD"),
				Notes:         sp("Ground shipping."),
				Subtotal:      fp(499.00),
				Tax:           fp(32.44),
				Freight:       fp(15.00),
				Total:         fp(546.44),
			},
			Details: []entity.Detail{
				{
					CarrierTrackingNumber: sp("1Z888BB10123456784"),
					OrderQty:              ip(50),
					ProductID:             sp("1"),
					ProductName:           sp("Adjustable Race"),
					UnitPrice:             fp(9.98),
					UnitPriceDiscount:     fp(0.0),
					LineTotal:             fp(499.00),
				},
			},
		},
	}
}

func sp(s string) *string   { return &s }
func ip(n int64) *int64     { return &n }
func fp(f float64) *float64 { return &f }
