package llm

// SystemPrompt is the fixed instruction sent to the delegated service. It
// spells out the target schema so the model returns the same three groups the
// normalizer expects from the heuristic path.
const SystemPrompt = `You are an expert data extractor for sales invoices.
Extract structured fields and return ONLY valid JSON matching this schema:
{
  "document": {
    "VendorName": "",
    "InvoiceNumber": "",
    "InvoiceDate": "YYYY-MM-DD",
    "DueDate": "YYYY-MM-DD",
    "Terms": "",
    "BillToName": "",
    "BillToAddress": "",
    "ShipToName": "",
    "ShipToAddress": "",
    "Currency": "",
    "Notes": "",
    "Subtotal": 0,
    "Tax": 0,
    "Freight": 0,
    "Total": 0
  },
  "header": {
    "SalesOrderNumber": "",
    "OrderDate": "YYYY-MM-DD",
    "DueDate": "YYYY-MM-DD",
    "ShipDate": "YYYY-MM-DD",
    "PurchaseOrderNumber": "",
    "AccountNumber": "",
    "CustomerID": "",
    "SalesPersonID": "",
    "TerritoryID": "",
    "BillToAddressID": "",
    "ShipToAddressID": "",
    "ShipMethodID": "",
    "CreditCardID": "",
    "CreditCardApprovalCode": "",
    "CurrencyRateID": "",
    "SubTotal": 0,
    "TaxAmt": 0,
    "Freight": 0,
    "TotalDue": 0
  },
  "details": [
    {
      "OrderQty": 0,
      "ProductID": "",
      "ProductName": "",
      "UnitPrice": 0,
      "UnitPriceDiscount": 0,
      "LineTotal": 0,
      "CarrierTrackingNumber": "",
      "SpecialOfferID": ""
    }
  ]
}
Use null for any unknown value. Provide decimals as numbers, not strings.`

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used to spot obviously off-schema drafts before normalization.
// It is deliberately loose: field-level problems degrade to nulls downstream,
// so everything below the group level is optional.
func BuildInvoiceJSONSchema() map[string]any {
	scalar := map[string]any{
		"type": []string{"string", "number", "null"},
	}
	group := func(fields ...string) map[string]any {
		props := map[string]any{}
		for _, f := range fields {
			props[f] = scalar
		}
		return map[string]any{
			"type":       []string{"object", "null"},
			"properties": props,
		}
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document": group(
				"VendorName", "InvoiceNumber", "InvoiceDate", "DueDate", "Terms",
				"BillToName", "BillToAddress", "ShipToName", "ShipToAddress",
				"Currency", "Notes", "Subtotal", "Tax", "Freight", "Total",
			),
			"header": group(
				"SalesOrderNumber", "OrderDate", "DueDate", "ShipDate",
				"PurchaseOrderNumber", "AccountNumber", "CustomerID",
				"SalesPersonID", "TerritoryID", "BillToAddressID", "ShipToAddressID",
				"ShipMethodID", "CreditCardID", "CreditCardApprovalCode",
				"CurrencyRateID", "SubTotal", "TaxAmt", "Freight", "TotalDue",
			),
			"details": map[string]any{
				"type": []string{"array", "null"},
				"items": group(
					"OrderQty", "ProductID", "ProductName", "UnitPrice",
					"UnitPriceDiscount", "LineTotal", "CarrierTrackingNumber",
					"SpecialOfferID",
				),
			},
		},
	}
}
