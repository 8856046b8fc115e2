package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-orders/internal/entity"
	"github.com/joseph-ayodele/invoice-orders/internal/llm"
)

// Ordered single-capture rules. Each is independently optional; captured
// values stay raw strings and coercion is left to the normalizer.
var (
	reInvoiceNumber = regexp.MustCompile(`(?i)Invoice\s*(?:No|#|Number)[:\s]*([A-Za-z0-9-]+)`)
	reInvoiceDate   = regexp.MustCompile(`(?i)Invoice\s*Date[:\s]*([A-Za-z0-9/\-]+)`)
	reDateIssued    = regexp.MustCompile(`(?i)Date\s*Issued[:\s]*([A-Za-z0-9/\-]+)`)
	reDueDate       = regexp.MustCompile(`(?i)Due\s*Date[:\s]*([A-Za-z0-9/\-]+)`)
	reDue           = regexp.MustCompile(`(?i)Due[:\s]*([A-Za-z0-9/\-]+)`)
	reTerms         = regexp.MustCompile(`(?i)Terms[:\s]*([A-Za-z0-9\s-]+)`)
	reVendorName    = regexp.MustCompile(`(?i)^([A-Za-z0-9 &.,-]+)\nInvoice`)
	reBillToName    = regexp.MustCompile(`(?i)Bill To[:\s]*([A-Za-z0-9 &.,-]+)`)
	reShipToName    = regexp.MustCompile(`(?i)Ship To[:\s]*([A-Za-z0-9 &.,-]+)`)
	reBillToAddress = regexp.MustCompile(`(?i)Bill To(?:.*)\n([A-Za-z0-9 ,.-]+)`)
	reShipToAddress = regexp.MustCompile(`(?i)Ship To(?:.*)\n([A-Za-z0-9 ,.-]+)`)
	reSubtotal      = regexp.MustCompile(`(?i)Subtotal[:\s]*\$?([0-9,.]+)`)
	reTax           = regexp.MustCompile(`(?i)Tax[:\s]*\$?([0-9,.]+)`)
	reFreight       = regexp.MustCompile(`(?i)Freight[:\s]*\$?([0-9,.]+)`)
	reTotal         = regexp.MustCompile(`(?i)Total[:\s]*\$?([0-9,.]+)`)

	reSalesOrder    = regexp.MustCompile(`(?i)Sales\s*Order[:\s]*([A-Za-z0-9-]+)`)
	rePONumber      = regexp.MustCompile(`(?i)PO\s*(?:Number)?:\s*([A-Za-z0-9-]+)`)
	reAccountNumber = regexp.MustCompile(`(?i)Account\s*Number[:\s]*([A-Za-z0-9-]+)`)
	reCustomerID    = regexp.MustCompile(`(?i)Customer\s*ID[:\s]*([A-Za-z0-9-]+)`)

	// Labeled line form: SKU <id> - <name> - Qty <n> - Unit $<price> - Line $<total>
	reSKULine = regexp.MustCompile(`(?i)SKU\s*([A-Za-z0-9-]+)\s*-\s*([^-]+)\s*-\s*Qty\s*(\d+)\s*-\s*Unit\s*\$?([0-9.]+)\s*-\s*Line\s*\$?([0-9.]+)`)
	// Tabular form: qty | id | name | price | total
	reTableLine = regexp.MustCompile(`(\d+)\s*\|\s*([A-Za-z0-9-]+)\s*\|\s*([^|]+)\|\s*([0-9.]+)\s*\|\s*([0-9.]+)`)
)

// Heuristic extracts a best-effort draft from raw text with no external
// dependency, using the fixed rule set above.
type Heuristic struct {
	log *slog.Logger
}

func NewHeuristic(logger *slog.Logger) *Heuristic {
	if logger == nil {
		logger = slog.Default()
	}
	return &Heuristic{log: logger}
}

// Extract implements llm.Extractor over content.Text. An image-only payload
// yields an empty draft: this path is regex-over-text only.
func (h *Heuristic) Extract(_ context.Context, content llm.Content) (entity.Draft, error) {
	text := content.Text

	document := map[string]any{
		"InvoiceNumber": find(reInvoiceNumber, text),
		"InvoiceDate":   findFirst(text, reInvoiceDate, reDateIssued),
		"DueDate":       findFirst(text, reDueDate, reDue),
		"Terms":         find(reTerms, text),
		"VendorName":    find(reVendorName, text),
		"BillToName":    find(reBillToName, text),
		"ShipToName":    find(reShipToName, text),
		"BillToAddress": find(reBillToAddress, text),
		"ShipToAddress": find(reShipToAddress, text),
		"Subtotal":      find(reSubtotal, text),
		"Tax":           find(reTax, text),
		"Freight":       find(reFreight, text),
		"Total":         find(reTotal, text),
	}

	header := map[string]any{
		"SalesOrderNumber":    find(reSalesOrder, text),
		"PurchaseOrderNumber": find(rePONumber, text),
		"AccountNumber":       find(reAccountNumber, text),
		"CustomerID":          find(reCustomerID, text),
	}
	if header["SalesOrderNumber"] == nil {
		header["SalesOrderNumber"] = document["InvoiceNumber"]
	}

	details := scanLineItems(text)

	h.log.Debug("extract.heuristic.done",
		"text_len", len(text),
		"details", len(details),
	)
	return entity.Draft{Document: document, Header: header, Details: details}, nil
}

// scanLineItems matches each line against the labeled pattern first, then the
// tabular one. A line matches at most one pattern. Lines carrying "Qty" and
// "Unit" that did not match the labeled form are table column headers and are
// skipped before the tabular pattern runs.
func scanLineItems(text string) []map[string]any {
	var items []map[string]any
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := reSKULine.FindStringSubmatch(line); m != nil {
			items = append(items, map[string]any{
				"ProductID":   m[1],
				"ProductName": strings.TrimSpace(m[2]),
				"OrderQty":    m[3],
				"UnitPrice":   m[4],
				"LineTotal":   m[5],
			})
			continue
		}
		if strings.Contains(line, "Qty") && strings.Contains(line, "Unit") {
			continue
		}
		if m := reTableLine.FindStringSubmatch(line); m != nil {
			items = append(items, map[string]any{
				"OrderQty":    m[1],
				"ProductID":   m[2],
				"ProductName": strings.TrimSpace(m[3]),
				"UnitPrice":   m[4],
				"LineTotal":   m[5],
			})
		}
	}
	return items
}

func find(re *regexp.Regexp, text string) any {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return strings.TrimSpace(m[1])
}

func findFirst(text string, res ...*regexp.Regexp) any {
	for _, re := range res {
		if v := find(re, text); v != nil {
			return v
		}
	}
	return nil
}
