package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-mood-journal/internal/recommend"
)

// TrackRepository handles catalog track and recommendation list operations.
type TrackRepository struct {
	pool *pgxpool.Pool
}

// ForEntry retrieves an entry's current recommendations in rank order.
func (r *TrackRepository) ForEntry(ctx context.Context, entryID int64) ([]recommend.Track, error) {
	return entryTracks(ctx, r.pool, entryID)
}

// UpsertBatch inserts or updates multiple tracks efficiently. Repeated ids
// keep the first occurrence.
func (r *TrackRepository) UpsertBatch(ctx context.Context, tracks []recommend.Track) error {
	return upsertTracks(ctx, r.pool, tracks)
}

func upsertTracks(ctx context.Context, q querier, tracks []recommend.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	query := `
		INSERT INTO tracks (id, name, artist, album_image_url, preview_url, duration_seconds, energy, valence, popularity, updated_at)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::int[], $7::float8[], $8::float8[], $9::int[], $10::timestamptz[])
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			artist = EXCLUDED.artist,
			album_image_url = EXCLUDED.album_image_url,
			preview_url = EXCLUDED.preview_url,
			duration_seconds = EXCLUDED.duration_seconds,
			energy = EXCLUDED.energy,
			valence = EXCLUDED.valence,
			popularity = EXCLUDED.popularity,
			updated_at = EXCLUDED.updated_at
	`

	seen := make(map[string]struct{}, len(tracks))
	var (
		ids, names, artists []string
		images, previews    []*string
		durations           []*int
		energies, valences  []float64
		popularities        []int
		updatedAts          []time.Time
	)

	now := time.Now()
	for _, t := range tracks {
		if _, dup := seen[t.SpotifyTrackID]; dup {
			continue
		}
		seen[t.SpotifyTrackID] = struct{}{}

		ids = append(ids, t.SpotifyTrackID)
		names = append(names, t.TrackName)
		artists = append(artists, t.ArtistName)
		images = append(images, t.AlbumImageURL)
		previews = append(previews, t.PreviewURL)
		durations = append(durations, t.Duration)
		energies = append(energies, t.Energy)
		valences = append(valences, t.Valence)
		popularities = append(popularities, t.Popularity)
		updatedAts = append(updatedAts, now)
	}

	_, err := q.Exec(ctx, query, ids, names, artists, images, previews, durations, energies, valences, popularities, updatedAts)
	if err != nil {
		return fmt.Errorf("batch upserting tracks: %w", err)
	}
	return nil
}

// setEntryTracks replaces an entry's list with tracks in the given order.
// Tracks must already exist.
func setEntryTracks(ctx context.Context, q querier, entryID int64, tracks []recommend.Track) error {
	if _, err := q.Exec(ctx, `DELETE FROM mood_entry_recommendations WHERE mood_entry_id = $1`, entryID); err != nil {
		return fmt.Errorf("clearing recommendations: %w", err)
	}
	if len(tracks) == 0 {
		return nil
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.SpotifyTrackID
	}

	query := `
		INSERT INTO mood_entry_recommendations (mood_entry_id, position, track_id)
		SELECT $1, t.ord, t.id
		FROM unnest($2::text[]) WITH ORDINALITY AS t(id, ord)
	`
	if _, err := q.Exec(ctx, query, entryID, ids); err != nil {
		return fmt.Errorf("inserting recommendations: %w", err)
	}
	return nil
}

func entryTracks(ctx context.Context, q querier, entryID int64) ([]recommend.Track, error) {
	query := `
		SELECT t.id, t.name, t.artist, t.album_image_url, t.preview_url, t.duration_seconds,
			t.energy, t.valence, t.popularity
		FROM mood_entry_recommendations r
		JOIN tracks t ON t.id = r.track_id
		WHERE r.mood_entry_id = $1
		ORDER BY r.position
	`
	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	tracks := []recommend.Track{}
	for rows.Next() {
		var t recommend.Track
		if err := rows.Scan(
			&t.SpotifyTrackID,
			&t.TrackName,
			&t.ArtistName,
			&t.AlbumImageURL,
			&t.PreviewURL,
			&t.Duration,
			&t.Energy,
			&t.Valence,
			&t.Popularity,
		); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracks: %w", err)
	}
	return tracks, nil
}
