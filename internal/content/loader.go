// Package content turns raw uploaded bytes into something an extractor can
// consume: plain text where the format allows it, or a base64 image payload
// for the delegated vision path.
package content

import (
	"encoding/base64"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/llm"
)

var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".csv": true,
}

// Load resolves uploaded bytes to extractor content. The declared MIME type
// wins when usable; otherwise the bytes are sniffed. Returns ErrInvalidInput
// when neither text nor an image can be produced.
func Load(data []byte, filename, declaredMime string, logger *slog.Logger) (llm.Content, error) {
	if logger == nil {
		logger = slog.Default()
	}

	mime := strings.TrimSpace(declaredMime)
	if mime == "" || mime == "application/octet-stream" {
		mime = mimetype.Detect(data).String()
	}
	// Detect() returns parameters for some text types ("text/plain; charset=utf-8").
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	ext := strings.ToLower(filepath.Ext(filename))
	out := llm.Content{MimeType: mime}

	switch {
	case strings.HasPrefix(mime, "text/"), textExtensions[ext]:
		out.Text = decodeText(data)
	case mime == "application/pdf", ext == ".pdf":
		text, err := extractPDF(data)
		if err != nil {
			logger.Warn("content.pdf_extract_failed", "filename", filename, "error", err)
		} else {
			out.Text = strings.TrimSpace(text)
		}
	}

	if strings.HasPrefix(mime, "image/") {
		out.ImageB64 = base64.StdEncoding.EncodeToString(data)
	}

	if out.Text == "" && out.ImageB64 == "" {
		return llm.Content{}, common.NewAppError("CONTENT", "unsupported file type or empty content", common.ErrInvalidInput)
	}

	logger.Debug("content.loaded",
		"filename", filename,
		"mime_type", mime,
		"text_len", len(out.Text),
		"has_image", out.ImageB64 != "",
	)
	return out, nil
}

// decodeText prefers UTF-8 and falls back to a latin-1 reinterpretation for
// legacy exports rather than rejecting the file.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
