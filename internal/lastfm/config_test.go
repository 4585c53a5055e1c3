package lastfm

import (
	"errors"
	"testing"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr error
	}{
		{"valid API key", "abc123def456abc123def456abc12345", nil},
		{"missing API key", "", ErrMissingAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.apiKey)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if cfg != nil {
					t.Error("NewConfig() returned non-nil config with error")
				}
				return
			}
			if cfg.APIKey != tt.apiKey {
				t.Errorf("NewConfig() APIKey = %q, want %q", cfg.APIKey, tt.apiKey)
			}
		})
	}
}
