package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

var _ journal.Store = (*DB)(nil)

// CreateEntry implements journal.Store.
func (db *DB) CreateEntry(ctx context.Context, e *journal.Entry, r *journal.Reflection, recs []recommend.Track) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertEntry(ctx, tx, e); err != nil {
			return err
		}
		if r != nil {
			r.MoodEntryID = e.ID
			if err := insertReflection(ctx, tx, r); err != nil {
				return err
			}
		}
		if err := upsertTracks(ctx, tx, recs); err != nil {
			return err
		}
		return setEntryTracks(ctx, tx, e.ID, recs)
	})
}

// GetEntry implements journal.Store.
func (db *DB) GetEntry(ctx context.Context, id int64) (*journal.Entry, error) {
	return db.Entries().Get(ctx, id)
}

// GetReflection implements journal.Store.
func (db *DB) GetReflection(ctx context.Context, entryID int64) (*journal.Reflection, error) {
	if _, err := db.Entries().Get(ctx, entryID); err != nil {
		return nil, err
	}
	return db.Entries().Reflection(ctx, entryID)
}

// Recommendations implements journal.Store.
func (db *DB) Recommendations(ctx context.Context, entryID int64) ([]recommend.Track, error) {
	if _, err := db.Entries().Get(ctx, entryID); err != nil {
		return nil, err
	}
	return db.Tracks().ForEntry(ctx, entryID)
}

// ReplaceRecommendations implements journal.Store.
func (db *DB) ReplaceRecommendations(ctx context.Context, entryID int64, recs []recommend.Track) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockEntry(ctx, tx, entryID); err != nil {
			return err
		}
		if err := upsertTracks(ctx, tx, recs); err != nil {
			return err
		}
		return setEntryTracks(ctx, tx, entryID, recs)
	})
}

// CreatePlaylist implements journal.Store.
func (db *DB) CreatePlaylist(ctx context.Context, p *journal.SavedPlaylist) error {
	return db.SavedPlaylists().Create(ctx, p)
}

// Playlists implements journal.Store.
func (db *DB) Playlists(ctx context.Context, entryID int64) ([]journal.SavedPlaylist, error) {
	if _, err := db.Entries().Get(ctx, entryID); err != nil {
		return nil, err
	}
	return db.SavedPlaylists().ForEntry(ctx, entryID)
}

// RecentEntries implements journal.Store.
func (db *DB) RecentEntries(ctx context.Context, limit int) ([]journal.Entry, error) {
	return db.Entries().Recent(ctx, limit)
}
