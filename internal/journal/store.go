package journal

import (
	"context"

	"github.com/justestif/go-mood-journal/internal/recommend"
)

// Store persists entries and their derived records.
// Lookups of unknown entries return ErrNotFound.
type Store interface {
	// CreateEntry saves the entry, its optional reflection and its initial
	// recommendations in one transaction, assigning IDs in place.
	CreateEntry(ctx context.Context, e *Entry, r *Reflection, recs []recommend.Track) error

	GetEntry(ctx context.Context, id int64) (*Entry, error)

	// GetReflection returns nil without error when the entry has none.
	GetReflection(ctx context.Context, entryID int64) (*Reflection, error)

	// Recommendations returns the entry's current list in rank order.
	Recommendations(ctx context.Context, entryID int64) ([]recommend.Track, error)

	// ReplaceRecommendations swaps the entry's current list atomically.
	ReplaceRecommendations(ctx context.Context, entryID int64, recs []recommend.Track) error

	CreatePlaylist(ctx context.Context, p *SavedPlaylist) error
	Playlists(ctx context.Context, entryID int64) ([]SavedPlaylist, error)

	// RecentEntries returns up to limit entries, newest first.
	RecentEntries(ctx context.Context, limit int) ([]Entry, error)
}
