package extract

import (
	"context"
	"testing"

	"github.com/joseph-ayodele/invoice-orders/internal/llm"
)

const sampleInvoice = `Northwind Outfitters
Invoice

Invoice Number: INV-10045
Invoice Date: 2026-01-10
Due Date: 2026-02-09
Terms: Net 30, payable by check
PO Number: PO-1001
Account Number: AW00011015
Customer ID: 11015

Bill To: Engineered Bike Systems
123 Camelia Avenue, Oxnard, CA 93030

SKU 323 - Crown Race - Qty 15 - Unit $150.00 - Line $2250.00
SKU 2 - Bearing Ball - Qty 1 - Unit $75.00 - Line $75.00

Total: $2,484.84
Subtotal: $2,325.00
Tax: $159.84
Freight: $0.00
`

func TestHeuristicExtractDocument(t *testing.T) {
	draft, err := NewHeuristic(nil).Extract(context.Background(), llm.Content{Text: sampleInvoice})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	wantDoc := map[string]string{
		"VendorName":    "Northwind Outfitters",
		"InvoiceNumber": "INV-10045",
		"InvoiceDate":   "2026-01-10",
		"DueDate":       "2026-02-09",
		"Terms":         "Net 30",
		"BillToName":    "Engineered Bike Systems",
		"BillToAddress": "123 Camelia Avenue, Oxnard, CA 93030",
		"Subtotal":      "2,325.00",
		"Tax":           "159.84",
		"Freight":       "0.00",
		"Total":         "2,484.84",
	}
	for field, want := range wantDoc {
		if got, _ := draft.Document[field].(string); got != want {
			t.Errorf("Document[%s] = %q, want %q", field, got, want)
		}
	}
	if v := draft.Document["ShipToName"]; v != nil {
		t.Errorf("ShipToName = %v, want nil", v)
	}

	wantHdr := map[string]string{
		"SalesOrderNumber":    "INV-10045",
		"PurchaseOrderNumber": "PO-1001",
		"AccountNumber":       "AW00011015",
		"CustomerID":          "11015",
	}
	for field, want := range wantHdr {
		if got, _ := draft.Header[field].(string); got != want {
			t.Errorf("Header[%s] = %q, want %q", field, got, want)
		}
	}
}

func TestHeuristicLabeledLineItems(t *testing.T) {
	draft, err := NewHeuristic(nil).Extract(context.Background(), llm.Content{Text: sampleInvoice})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(draft.Details) != 2 {
		t.Fatalf("details = %d, want 2", len(draft.Details))
	}
	want := map[string]string{
		"ProductID":   "323",
		"ProductName": "Crown Race",
		"OrderQty":    "15",
		"UnitPrice":   "150.00",
		"LineTotal":   "2250.00",
	}
	for field, w := range want {
		if got, _ := draft.Details[0][field].(string); got != w {
			t.Errorf("details[0][%s] = %q, want %q", field, got, w)
		}
	}
}

func TestHeuristicTabularLineItems(t *testing.T) {
	text := `Invoice Number: INV-2041
Qty | SKU | Description | Unit Price | Line Total
15 | 323 | Crown Race | 150.00 | 2250.00
1 | 2 | Bearing Ball | 75.00 | 75.00
`
	draft, err := NewHeuristic(nil).Extract(context.Background(), llm.Content{Text: text})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(draft.Details) != 2 {
		t.Fatalf("details = %d, want 2 (column header row must be skipped)", len(draft.Details))
	}
	want := map[string]string{
		"OrderQty":    "15",
		"ProductID":   "323",
		"ProductName": "Crown Race",
		"UnitPrice":   "150.00",
		"LineTotal":   "2250.00",
	}
	for field, w := range want {
		if got, _ := draft.Details[0][field].(string); got != w {
			t.Errorf("details[0][%s] = %q, want %q", field, got, w)
		}
	}
}

func TestHeuristicEmptyText(t *testing.T) {
	draft, err := NewHeuristic(nil).Extract(context.Background(), llm.Content{ImageB64: "aW1n", MimeType: "image/png"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(draft.Details) != 0 {
		t.Errorf("details = %d, want 0", len(draft.Details))
	}
	for field, v := range draft.Document {
		if v != nil {
			t.Errorf("Document[%s] = %v, want nil", field, v)
		}
	}
}
