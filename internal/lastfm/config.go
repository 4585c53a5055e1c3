// Package lastfm provides Last.fm API integration for tag charts and track tags.
package lastfm

import "errors"

// ErrMissingAPIKey is returned when no Last.fm API key is configured.
var ErrMissingAPIKey = errors.New("missing Last.fm API key")

// Config holds Last.fm API configuration.
type Config struct {
	APIKey string
}

// NewConfig validates the API key and returns a Config for NewClient.
func NewConfig(apiKey string) (*Config, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Config{APIKey: apiKey}, nil
}
