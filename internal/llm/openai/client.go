package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
	"github.com/joseph-ayodele/invoice-orders/internal/llm"
)

const userPrompt = "Extract the invoice data from the document."

// Extract implements llm.Extractor against an OpenAI-compatible
// chat/completions endpoint. Image content goes inline as a base64 data URL;
// text is appended to the user turn. Structured-JSON output is requested when
// enabled; if the service rejects the request with a client error, the call
// is retried exactly once with that constraint removed.
func (c *Client) Extract(ctx context.Context, content llm.Content) (entity.Draft, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(content.Text),
		"has_image", content.ImageB64 != "",
		"mime_type", content.MimeType,
	)

	messages := []map[string]any{
		{"role": "system", "content": llm.SystemPrompt},
	}
	if content.ImageB64 != "" {
		messages = append(messages, map[string]any{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": userPrompt},
				{
					"type": "image_url",
					"image_url": map[string]any{
						"url": fmt.Sprintf("data:%s;base64,%s", content.MimeType, content.ImageB64),
					},
				},
			},
		})
	} else {
		messages = append(messages, map[string]any{
			"role":    "user",
			"content": userPrompt + "\n\n" + content.Text,
		})
	}

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0,
		"messages":    messages,
	}
	jsonMode := !c.cfg.DisableJSONMode
	if jsonMode {
		body["response_format"] = map[string]any{"type": "json_object"}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err == nil && status >= 400 && jsonMode {
		// Some gateways reject response_format outright. One downgrade
		// attempt without the constraint; nothing beyond that.
		c.log.Warn("llm.extract.json_mode_rejected",
			"req_id", rid, "status", status, "body", truncate(string(raw), 512))
		delete(body, "response_format")
		raw, status, err = llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	}
	if err != nil {
		c.log.Error("llm.extract.transport_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return entity.Draft{}, common.NewAppError("LLM_HTTP", "chat completion request failed", common.ErrExtractionService)
	}
	if status >= 400 {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "body", truncate(string(raw), 512),
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.Draft{}, common.NewAppError("LLM_HTTP", fmt.Sprintf("chat completion status %d", status), common.ErrExtractionService)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.Draft{}, common.NewAppError("LLM_RESPONSE", "decode chat completion envelope", common.ErrMalformedResponse)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid, "raw", truncate(string(raw), 512),
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.Draft{}, common.NewAppError("LLM_RESPONSE", "no choices in chat completion", common.ErrMalformedResponse)
	}

	message := strings.TrimSpace(cc.Choices[0].Message.Content)
	draft, err := llm.RecoverJSON(message)
	if err != nil {
		c.log.Error("llm.extract.recover_error",
			"req_id", rid, "error", err, "content", truncate(message, 512),
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.Draft{}, err
	}

	if vErr := llm.ValidateJSONAgainstSchema(llm.BuildInvoiceJSONSchema(), []byte(mustJSON(draft))); vErr != nil {
		// Advisory only: the normalizer absorbs shape problems field by field.
		c.log.Warn("llm.extract.schema_mismatch", "req_id", rid, "error", vErr)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"document_fields", len(draft.Document),
		"header_fields", len(draft.Header),
		"details", len(draft.Details),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return draft, nil
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
