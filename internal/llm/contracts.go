package llm

import (
	"context"

	"github.com/joseph-ayodele/invoice-orders/internal/entity"
)

// Content is the document handed to an extractor: plain text, or a
// base64-encoded image with its declared MIME type. Exactly one of Text and
// ImageB64 is expected to be set; extractors tolerate both being present.
type Content struct {
	Text     string
	ImageB64 string
	MimeType string
}

// Extractor is the capability interface the pipeline depends on. Both the
// heuristic and the delegated implementation produce a best-effort Draft;
// coercion and reconciliation are the normalizer's job.
type Extractor interface {
	Extract(ctx context.Context, content Content) (entity.Draft, error)
}
