package entity

// Draft is the raw output of an extractor: three loosely-typed groups whose
// fields may be absent, null, or strings that still need coercion. It only
// lives for the duration of one pipeline invocation.
type Draft struct {
	Document map[string]any   `json:"document"`
	Header   map[string]any   `json:"header"`
	Details  []map[string]any `json:"details"`
}

// Document is the invoice-centric view of the extraction. Every optional
// field is a pointer so that "unknown" serializes as an explicit null.
type Document struct {
	VendorName    *string  `json:"VendorName"`
	InvoiceNumber *string  `json:"InvoiceNumber"`
	InvoiceDate   *string  `json:"InvoiceDate"` // YYYY-MM-DD
	DueDate       *string  `json:"DueDate"`     // YYYY-MM-DD
	Terms         *string  `json:"Terms"`
	BillToName    *string  `json:"BillToName"`
	BillToAddress *string  `json:"BillToAddress"`
	ShipToName    *string  `json:"ShipToName"`
	ShipToAddress *string  `json:"ShipToAddress"`
	Currency      *string  `json:"Currency"`
	Notes         *string  `json:"Notes"`
	Subtotal      *float64 `json:"Subtotal"`
	Tax           *float64 `json:"Tax"`
	Freight       *float64 `json:"Freight"`
	Total         *float64 `json:"Total"`
	RawText       *string  `json:"RawText"`
	Filename      *string  `json:"Filename"`
	MimeType      *string  `json:"MimeType"`
	CreatedAt     *string  `json:"CreatedAt"`
}

// Header is the order-centric view mirroring Document. The routing
// identifiers stay strings: they are opaque to the pipeline and only the
// customer ID is coerced.
type Header struct {
	SalesOrderID           *int64   `json:"SalesOrderID"`
	RevisionNumber         *int64   `json:"RevisionNumber"`
	OrderDate              *string  `json:"OrderDate"` // YYYY-MM-DD
	DueDate                *string  `json:"DueDate"`   // YYYY-MM-DD
	ShipDate               *string  `json:"ShipDate"`  // YYYY-MM-DD
	Status                 *int64   `json:"Status"`
	OnlineOrderFlag        *int64   `json:"OnlineOrderFlag"`
	SalesOrderNumber       *string  `json:"SalesOrderNumber"`
	PurchaseOrderNumber    *string  `json:"PurchaseOrderNumber"`
	AccountNumber          *string  `json:"AccountNumber"`
	CustomerID             *int64   `json:"CustomerID"`
	SalesPersonID          *string  `json:"SalesPersonID"`
	TerritoryID            *string  `json:"TerritoryID"`
	BillToAddressID        *string  `json:"BillToAddressID"`
	ShipToAddressID        *string  `json:"ShipToAddressID"`
	ShipMethodID           *string  `json:"ShipMethodID"`
	CreditCardID           *string  `json:"CreditCardID"`
	CreditCardApprovalCode *string  `json:"CreditCardApprovalCode"`
	CurrencyRateID         *string  `json:"CurrencyRateID"`
	SubTotal               *float64 `json:"SubTotal"`
	TaxAmt                 *float64 `json:"TaxAmt"`
	Freight                *float64 `json:"Freight"`
	TotalDue               *float64 `json:"TotalDue"`
}

// Detail is a single order line.
type Detail struct {
	OrderQty              *int64   `json:"OrderQty"`
	ProductID             *string  `json:"ProductID"`
	ProductName           *string  `json:"ProductName"`
	UnitPrice             *float64 `json:"UnitPrice"`
	UnitPriceDiscount     *float64 `json:"UnitPriceDiscount"`
	LineTotal             *float64 `json:"LineTotal"`
	CarrierTrackingNumber *string  `json:"CarrierTrackingNumber"`
	SpecialOfferID        *string  `json:"SpecialOfferID"`
}

// Meta carries request-level bookkeeping added by the calling layer,
// not by the pipeline itself.
type Meta struct {
	ProcessingMS int64 `json:"processing_ms"`
}

// Record is the canonical, schema-conformant extraction result: every field
// of the fixed schema is present with either a typed value or null, dates are
// ISO-8601, and the document/header totals agree.
type Record struct {
	Document Document `json:"document"`
	Header   Header   `json:"header"`
	Details  []Detail `json:"details"`
	Meta     *Meta    `json:"meta,omitempty"`
}
