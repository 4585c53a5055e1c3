package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-mood-journal/internal/journal"
)

// PlaylistRepository handles saved playlist operations.
type PlaylistRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a saved playlist. A missing mood entry yields ErrNotFound.
func (r *PlaylistRepository) Create(ctx context.Context, p *journal.SavedPlaylist) error {
	query := `
		INSERT INTO saved_playlists (id, mood_entry_id, spotify_playlist_id, playlist_name, track_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	trackIDs := p.TrackIDs
	if trackIDs == nil {
		trackIDs = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.MoodEntryID,
		p.SpotifyPlaylistID,
		p.PlaylistName,
		trackIDs,
		p.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("inserting playlist: %w", err)
	}
	return nil
}

// ForEntry retrieves the playlists saved from an entry, oldest first.
func (r *PlaylistRepository) ForEntry(ctx context.Context, entryID int64) ([]journal.SavedPlaylist, error) {
	query := `
		SELECT id, mood_entry_id, spotify_playlist_id, playlist_name, track_ids, created_at
		FROM saved_playlists
		WHERE mood_entry_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("querying playlists: %w", err)
	}
	defer rows.Close()

	playlists := []journal.SavedPlaylist{}
	for rows.Next() {
		var p journal.SavedPlaylist
		if err := rows.Scan(
			&p.ID,
			&p.MoodEntryID,
			&p.SpotifyPlaylistID,
			&p.PlaylistName,
			&p.TrackIDs,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating playlists: %w", err)
	}
	return playlists, nil
}
