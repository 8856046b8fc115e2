package llm

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
)

func TestRecoverJSON(t *testing.T) {
	t.Run("direct object", func(t *testing.T) {
		draft, err := RecoverJSON(`{"document": {"InvoiceNumber": "INV-1"}, "header": {}, "details": [{"ProductID": "323"}]}`)
		if err != nil {
			t.Fatalf("RecoverJSON: %v", err)
		}
		if got, _ := draft.Document["InvoiceNumber"].(string); got != "INV-1" {
			t.Errorf("InvoiceNumber = %q, want INV-1", got)
		}
		if len(draft.Details) != 1 {
			t.Errorf("details = %d, want 1", len(draft.Details))
		}
	})

	t.Run("object wrapped in chatter", func(t *testing.T) {
		draft, err := RecoverJSON("Here is the data:\n```json\n{\"document\": {\"VendorName\": \"Acme\"}}\n```\nLet me know if you need more.")
		if err != nil {
			t.Fatalf("RecoverJSON: %v", err)
		}
		if got, _ := draft.Document["VendorName"].(string); got != "Acme" {
			t.Errorf("VendorName = %q, want Acme", got)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		draft, err := RecoverJSON("   ")
		if err != nil {
			t.Fatalf("RecoverJSON: %v", err)
		}
		if draft.Document != nil || draft.Header != nil || draft.Details != nil {
			t.Errorf("want empty draft, got %+v", draft)
		}
	})

	t.Run("no JSON at all", func(t *testing.T) {
		_, err := RecoverJSON("I could not read the invoice, sorry.")
		if !errors.Is(err, common.ErrMalformedResponse) {
			t.Fatalf("error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("broken braces", func(t *testing.T) {
		_, err := RecoverJSON(`the result is {"document": oops}`)
		if !errors.Is(err, common.ErrMalformedResponse) {
			t.Fatalf("error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("wrong-typed groups dropped", func(t *testing.T) {
		draft, err := RecoverJSON(`{"document": "not an object", "header": {"CustomerID": 7}, "details": "nope"}`)
		if err != nil {
			t.Fatalf("RecoverJSON: %v", err)
		}
		if draft.Document != nil {
			t.Errorf("Document = %v, want nil", draft.Document)
		}
		if got, _ := draft.Header["CustomerID"].(float64); got != 7 {
			t.Errorf("CustomerID = %v, want 7", draft.Header["CustomerID"])
		}
		if draft.Details != nil {
			t.Errorf("Details = %v, want nil", draft.Details)
		}
	})
}
