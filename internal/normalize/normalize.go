package normalize

import (
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoice-orders/constants"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
)

// Source carries side inputs used only to backfill document provenance
// fields the extractor did not set.
type Source struct {
	RawText  string
	Filename string
	MimeType string
}

// Raw source text is capped before persistence.
const rawTextLimit = 20000

// Normalize turns any extractor draft into the canonical record. It never
// fails: unrecoverable fields degrade to null and every fallback merge fires
// only when the target field is nil, so a legitimate zero survives.
//
// Resolution order: document coercion, terms-derived due date, header view
// filled from the document view, header defaults, per-item coercion and
// derived line totals, then subtotal/total-due from line items, and finally
// document totals backfilled from the fully-resolved header.
func Normalize(draft entity.Draft, src Source) entity.Record {
	doc := draft.Document
	hdr := draft.Header

	d := entity.Document{
		VendorName:    str(doc["VendorName"]),
		InvoiceNumber: str(doc["InvoiceNumber"]),
		InvoiceDate:   ParseDate(doc["InvoiceDate"]),
		DueDate:       ParseDate(doc["DueDate"]),
		Terms:         str(doc["Terms"]),
		BillToName:    str(doc["BillToName"]),
		BillToAddress: str(doc["BillToAddress"]),
		ShipToName:    str(doc["ShipToName"]),
		ShipToAddress: str(doc["ShipToAddress"]),
		Currency:      str(doc["Currency"]),
		Notes:         str(doc["Notes"]),
		Subtotal:      SafeFloat(doc["Subtotal"]),
		Tax:           SafeFloat(doc["Tax"]),
		Freight:       SafeFloat(doc["Freight"]),
		Total:         SafeFloat(doc["Total"]),
		RawText:       str(doc["RawText"]),
		Filename:      str(doc["Filename"]),
		MimeType:      str(doc["MimeType"]),
		CreatedAt:     str(doc["CreatedAt"]),
	}

	if d.RawText == nil && src.RawText != "" {
		t := src.RawText
		if len(t) > rawTextLimit {
			t = t[:rawTextLimit]
		}
		d.RawText = &t
	}
	if d.Filename == nil && src.Filename != "" {
		f := src.Filename
		d.Filename = &f
	}
	if d.MimeType == nil && src.MimeType != "" {
		m := src.MimeType
		d.MimeType = &m
	}

	if d.DueDate == nil {
		d.DueDate = DueFromTerms(d.InvoiceDate, d.Terms)
	}

	h := entity.Header{
		SalesOrderID:           SafeInt(hdr["SalesOrderID"]),
		RevisionNumber:         SafeInt(hdr["RevisionNumber"]),
		OrderDate:              ParseDate(hdr["OrderDate"]),
		DueDate:                ParseDate(hdr["DueDate"]),
		ShipDate:               ParseDate(hdr["ShipDate"]),
		Status:                 SafeInt(hdr["Status"]),
		OnlineOrderFlag:        SafeInt(hdr["OnlineOrderFlag"]),
		SalesOrderNumber:       str(hdr["SalesOrderNumber"]),
		PurchaseOrderNumber:    str(hdr["PurchaseOrderNumber"]),
		AccountNumber:          str(hdr["AccountNumber"]),
		CustomerID:             SafeInt(hdr["CustomerID"]),
		SalesPersonID:          str(hdr["SalesPersonID"]),
		TerritoryID:            str(hdr["TerritoryID"]),
		BillToAddressID:        str(hdr["BillToAddressID"]),
		ShipToAddressID:        str(hdr["ShipToAddressID"]),
		ShipMethodID:           str(hdr["ShipMethodID"]),
		CreditCardID:           str(hdr["CreditCardID"]),
		CreditCardApprovalCode: str(hdr["CreditCardApprovalCode"]),
		CurrencyRateID:         str(hdr["CurrencyRateID"]),
		SubTotal:               SafeFloat(hdr["SubTotal"]),
		TaxAmt:                 SafeFloat(hdr["TaxAmt"]),
		Freight:                SafeFloat(hdr["Freight"]),
		TotalDue:               SafeFloat(hdr["TotalDue"]),
	}

	// Header dates and identifiers fall back to the document view.
	if h.OrderDate == nil {
		h.OrderDate = d.InvoiceDate
	}
	if h.DueDate == nil {
		h.DueDate = d.DueDate
	}
	if h.SalesOrderNumber == nil {
		h.SalesOrderNumber = d.InvoiceNumber
	}

	// Header totals fall back to the document totals.
	if h.SubTotal == nil {
		h.SubTotal = d.Subtotal
	}
	if h.TaxAmt == nil {
		h.TaxAmt = d.Tax
	}
	if h.Freight == nil {
		h.Freight = d.Freight
	}
	if h.TotalDue == nil {
		h.TotalDue = d.Total
	}

	if h.RevisionNumber == nil {
		h.RevisionNumber = iptr(constants.DefaultRevisionNumber)
	}
	if h.Status == nil {
		h.Status = iptr(constants.DefaultStatus)
	}
	if h.OnlineOrderFlag == nil {
		h.OnlineOrderFlag = iptr(constants.DefaultOnlineOrderFlag)
	}

	details := make([]entity.Detail, 0, len(draft.Details))
	for _, item := range draft.Details {
		it := entity.Detail{
			OrderQty:              SafeInt(item["OrderQty"]),
			ProductID:             str(item["ProductID"]),
			ProductName:           str(item["ProductName"]),
			UnitPrice:             SafeFloat(item["UnitPrice"]),
			UnitPriceDiscount:     SafeFloat(item["UnitPriceDiscount"]),
			LineTotal:             SafeFloat(item["LineTotal"]),
			CarrierTrackingNumber: str(item["CarrierTrackingNumber"]),
			SpecialOfferID:        str(item["SpecialOfferID"]),
		}
		if it.UnitPriceDiscount == nil {
			it.UnitPriceDiscount = fptr(0.0)
		}
		if it.LineTotal == nil && it.OrderQty != nil && it.UnitPrice != nil {
			it.LineTotal = fptr(float64(*it.OrderQty) * *it.UnitPrice)
		}
		details = append(details, it)
	}

	// A subtotal that would come out as exactly zero stays unresolved; the
	// original treats a bare zero sum as "still missing".
	if h.SubTotal == nil {
		sum := 0.0
		for _, it := range details {
			if it.LineTotal != nil {
				sum += *it.LineTotal
			}
		}
		if sum != 0 {
			h.SubTotal = &sum
		}
	}

	if h.TotalDue == nil {
		total := fval(h.SubTotal) + fval(h.TaxAmt) + fval(h.Freight)
		if total != 0 {
			h.TotalDue = &total
		}
	}

	// Close the loop: whichever view arrived empty inherits the resolved one.
	if d.Subtotal == nil {
		d.Subtotal = h.SubTotal
	}
	if d.Tax == nil {
		d.Tax = h.TaxAmt
	}
	if d.Freight == nil {
		d.Freight = h.Freight
	}
	if d.Total == nil {
		d.Total = h.TotalDue
	}

	return entity.Record{Document: d, Header: h, Details: details}
}

// str coerces a draft value to a trimmed string pointer; empty and
// non-scalar values count as absent.
func str(v any) *string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		return &s
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	case int:
		s := strconv.Itoa(t)
		return &s
	case int64:
		s := strconv.FormatInt(t, 10)
		return &s
	default:
		return nil
	}
}

func iptr(n int64) *int64 { return &n }

func fptr(f float64) *float64 { return &f }

func fval(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
