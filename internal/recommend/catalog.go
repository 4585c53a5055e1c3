// Package recommend ranks catalog tracks against a normalized mood target.
package recommend

import (
	"context"

	"github.com/justestif/go-mood-journal/internal/mood"
)

// Track is a catalog track with the audio attributes used for ranking.
// Optional fields are nil when the catalog does not provide them.
type Track struct {
	SpotifyTrackID string  `json:"spotifyTrackId"`
	TrackName      string  `json:"trackName"`
	ArtistName     string  `json:"artistName"`
	AlbumImageURL  *string `json:"albumImageUrl,omitempty"`
	PreviewURL     *string `json:"previewUrl,omitempty"`
	Duration       *int    `json:"duration,omitempty"` // seconds
	Energy         float64 `json:"energy"`
	Valence        float64 `json:"valence"`
	Popularity     int     `json:"popularity"`
}

// Query describes what the engine wants from a catalog.
type Query struct {
	Target  mood.Features
	Emotion string
	Genres  []string
	Limit   int // upper bound on candidates, catalogs may return fewer
}

// Catalog supplies candidate tracks. Implementations talk to external
// music services and are expected to fill Energy and Valence.
type Catalog interface {
	Candidates(ctx context.Context, q Query) ([]Track, error)
}

// CatalogFunc adapts a function to the Catalog interface.
type CatalogFunc func(ctx context.Context, q Query) ([]Track, error)

// Candidates calls f.
func (f CatalogFunc) Candidates(ctx context.Context, q Query) ([]Track, error) {
	return f(ctx, q)
}
