package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/mood"
)

// EntryRepository handles mood entry and reflection operations.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// Get retrieves a mood entry by ID.
func (r *EntryRepository) Get(ctx context.Context, id int64) (*journal.Entry, error) {
	return getEntry(ctx, r.pool, id)
}

// Recent retrieves up to limit entries, newest first.
func (r *EntryRepository) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	query := `
		SELECT id, text, energy, valence, emoji, quick_mood, created_at
		FROM mood_entries
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent entries: %w", err)
	}
	defer rows.Close()

	entries := []journal.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// Reflection retrieves the reflection for an entry, or nil if it has none.
func (r *EntryRepository) Reflection(ctx context.Context, entryID int64) (*journal.Reflection, error) {
	query := `
		SELECT id, mood_entry_id, content, created_at
		FROM ai_reflections
		WHERE mood_entry_id = $1
	`
	var refl journal.Reflection
	err := r.pool.QueryRow(ctx, query, entryID).Scan(
		&refl.ID,
		&refl.MoodEntryID,
		&refl.Content,
		&refl.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying reflection: %w", err)
	}
	return &refl, nil
}

func insertEntry(ctx context.Context, q querier, e *journal.Entry) error {
	query := `
		INSERT INTO mood_entries (text, energy, valence, emoji, quick_mood, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := q.QueryRow(ctx, query,
		e.Text,
		e.Energy,
		e.Valence,
		e.Emoji,
		string(e.QuickMood),
		e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting mood entry: %w", err)
	}
	return nil
}

func insertReflection(ctx context.Context, q querier, refl *journal.Reflection) error {
	query := `
		INSERT INTO ai_reflections (mood_entry_id, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := q.QueryRow(ctx, query, refl.MoodEntryID, refl.Content, refl.CreatedAt).Scan(&refl.ID); err != nil {
		return fmt.Errorf("inserting reflection: %w", err)
	}
	return nil
}

func getEntry(ctx context.Context, q querier, id int64) (*journal.Entry, error) {
	query := `
		SELECT id, text, energy, valence, emoji, quick_mood, created_at
		FROM mood_entries
		WHERE id = $1
	`
	e, err := scanEntry(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// lockEntry verifies the entry exists and locks it for the rest of the
// transaction so concurrent list replacements serialize.
func lockEntry(ctx context.Context, q querier, id int64) error {
	var one int
	err := q.QueryRow(ctx, `SELECT 1 FROM mood_entries WHERE id = $1 FOR UPDATE`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("locking mood entry: %w", err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*journal.Entry, error) {
	var e journal.Entry
	var quick string
	err := row.Scan(
		&e.ID,
		&e.Text,
		&e.Energy,
		&e.Valence,
		&e.Emoji,
		&quick,
		&e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning mood entry: %w", err)
	}
	e.QuickMood = mood.QuickMood(quick)
	return &e, nil
}
