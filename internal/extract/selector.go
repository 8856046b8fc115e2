package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/llm"
	"github.com/joseph-ayodele/invoice-orders/internal/llm/openai"
)

// ForProvider resolves the configured provider name to an extractor.
// Names are case-insensitive; anything unrecognized is a hard configuration
// error so no partial draft is ever produced for a misconfigured process.
func ForProvider(cfg common.ExtractConfig, logger *slog.Logger) (llm.Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "heuristic":
		return NewHeuristic(logger), nil
	case "delegated":
		return openai.NewClient(openai.Config{
			APIKey:          cfg.APIKey,
			BaseURL:         cfg.BaseURL,
			Model:           cfg.Model,
			DisableJSONMode: cfg.DisableJSONMode,
			Timeout:         cfg.Timeout,
		}, logger)
	default:
		return nil, common.NewAppError("EXTRACT_CONFIG",
			fmt.Sprintf("unsupported provider %q", cfg.Provider),
			common.ErrUnsupportedProvider)
	}
}
