package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
)

// reJSONSpan grabs the first-to-last brace span, newlines included, so a
// JSON object wrapped in model chatter can still be recovered.
var reJSONSpan = regexp.MustCompile(`(?s)\{.*\}`)

// RecoverJSON parses one JSON object out of a possibly noisy model response.
// It tries a direct parse first and falls back to the widest {...} span.
// Empty input yields an empty draft, not an error.
func RecoverJSON(content string) (entity.Draft, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return entity.Draft{}, nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		span := reJSONSpan.FindString(content)
		if span == "" {
			return entity.Draft{}, common.NewAppError("LLM_RESPONSE", "response contains no JSON object", common.ErrMalformedResponse)
		}
		if err := json.Unmarshal([]byte(span), &obj); err != nil {
			return entity.Draft{}, common.NewAppError("LLM_RESPONSE", "embedded JSON object does not parse", common.ErrMalformedResponse)
		}
	}
	return draftFromObject(obj), nil
}

// draftFromObject picks the three named groups out of a decoded object.
// Wrong-typed groups are dropped rather than rejected; shape problems are
// the normalizer's to absorb.
func draftFromObject(obj map[string]any) entity.Draft {
	var draft entity.Draft
	if doc, ok := obj["document"].(map[string]any); ok {
		draft.Document = doc
	}
	if hdr, ok := obj["header"].(map[string]any); ok {
		draft.Header = hdr
	}
	if items, ok := obj["details"].([]any); ok {
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				draft.Details = append(draft.Details, m)
			}
		}
	}
	return draft
}
