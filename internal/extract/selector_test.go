package extract

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
)

func TestForProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		cfg     common.ExtractConfig
		wantErr error
	}{
		{"heuristic", common.ExtractConfig{Provider: "heuristic"}, nil},
		{"case insensitive", common.ExtractConfig{Provider: " Heuristic "}, nil},
		{"delegated with key", common.ExtractConfig{Provider: "delegated", APIKey: "sk-test"}, nil},
		{"delegated without key", common.ExtractConfig{Provider: "delegated"}, common.ErrMissingCredential},
		{"unknown", common.ExtractConfig{Provider: "oracle"}, common.ErrUnsupportedProvider},
		{"empty", common.ExtractConfig{}, common.ErrUnsupportedProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := ForProvider(tt.cfg, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ForProvider(%q) error = %v, want %v", tt.cfg.Provider, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForProvider(%q): %v", tt.cfg.Provider, err)
			}
			if ext == nil {
				t.Fatalf("ForProvider(%q) returned nil extractor", tt.cfg.Provider)
			}
		})
	}
}
