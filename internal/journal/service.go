// Package journal implements the mood entry lifecycle: creating an entry
// with its reflection and recommendations, refreshing recommendations and
// saving them as playlists.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/justestif/go-mood-journal/internal/mood"
	"github.com/justestif/go-mood-journal/internal/recommend"
	"github.com/justestif/go-mood-journal/internal/reflection"
)

// Sentinel errors.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("mood entry not found")
	ErrEmptyPlaylist = errors.New("no recommendations to save")
)

const (
	// DefaultRecentLimit is used when Recent is called without a limit.
	DefaultRecentLimit = 10
	// MaxRecentLimit caps Recent.
	MaxRecentLimit = 50
)

// Recommender produces ranked tracks for a mood target.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]recommend.Track, error)
}

// Service coordinates the store and the two generators.
type Service struct {
	store     Store
	reflector reflection.Generator
	engine    Recommender
	now       func() time.Time

	refreshes singleflight.Group

	mu         sync.Mutex
	refreshing map[int64]int
	lastMillis int64 // last timestamp used for a generated playlist id
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a lifecycle service. A nil reflector disables
// reflections; every create then carries a reflection warning.
func NewService(store Store, reflector reflection.Generator, engine Recommender, opts ...Option) *Service {
	s := &Service{
		store:      store,
		reflector:  reflector,
		engine:     engine,
		now:        time.Now,
		refreshing: make(map[int64]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the input, generates the reflection and recommendations
// concurrently and persists everything together. Generator failures degrade
// the result with warnings instead of failing the call.
func (s *Service) Create(ctx context.Context, in CreateInput) (*EntryWithReflection, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	energy, valence := mood.Clamp(in.Energy), mood.Clamp(in.Valence)
	quick := mood.ParseQuickMood(in.QuickMood)
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = quick.Emoji()
	}
	analysis := mood.Analyze(energy, valence, quick)

	var (
		content    string
		reflectErr error
		recs       []recommend.Track
		recErr     error
	)

	var g errgroup.Group
	g.Go(func() error {
		if s.reflector == nil {
			reflectErr = reflection.ErrReflectionUnavailable
			return nil
		}
		content, reflectErr = s.reflector.Generate(ctx, reflection.Request{
			Text:      text,
			Features:  analysis.Features(),
			QuickMood: quick,
			Category:  analysis.Category,
		})
		return nil
	})
	g.Go(func() error {
		recs, recErr = s.engine.Recommend(ctx, recommend.Request{
			Target:  analysis.Features(),
			Emotion: analysis.DominantEmotion(),
			Genres:  analysis.SuggestedGenres,
		})
		return nil
	})
	_ = g.Wait()

	var warnings []string
	if reflectErr != nil {
		log.Printf("WARN: reflection failed: %v", reflectErr)
		warnings = append(warnings, WarnReflectionUnavailable)
	}
	if recErr != nil {
		log.Printf("WARN: recommendations failed: %v", recErr)
		warnings = append(warnings, WarnRecommendationUnavailable)
		recs = nil
	}
	if recs == nil {
		recs = []recommend.Track{}
	}

	created := s.now().UTC()
	entry := Entry{
		Text:      text,
		Energy:    energy,
		Valence:   valence,
		Emoji:     emoji,
		QuickMood: quick,
		CreatedAt: created,
	}
	var refl *Reflection
	if reflectErr == nil && strings.TrimSpace(content) != "" {
		refl = &Reflection{Content: strings.TrimSpace(content), CreatedAt: created}
		analysis.Reflection = refl.Content
	}

	if err := s.store.CreateEntry(ctx, &entry, refl, recs); err != nil {
		return nil, fmt.Errorf("creating mood entry: %w", err)
	}

	return &EntryWithReflection{
		MoodEntry:       entry,
		AIReflection:    refl,
		Recommendations: recs,
		Analysis:        analysis,
		Warnings:        warnings,
	}, nil
}

// Refresh replaces an entry's recommendations with a new ranking that avoids
// the current tracks where the catalog allows. Concurrent refreshes of the
// same entry share one run, which is detached from any single caller's
// cancellation. On failure the stored list is left as it was.
func (s *Service) Refresh(ctx context.Context, id int64) ([]recommend.Track, error) {
	v, err, _ := s.refreshes.Do(strconv.FormatInt(id, 10), func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), id)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]recommend.Track)), nil
}

func (s *Service) refresh(ctx context.Context, id int64) ([]recommend.Track, error) {
	entry, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading mood entry %d: %w", id, err)
	}
	current, err := s.store.Recommendations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading recommendations: %w", err)
	}

	s.setRefreshing(id, 1)
	defer s.setRefreshing(id, -1)

	analysis := mood.Analyze(entry.Energy, entry.Valence, entry.QuickMood)
	exclude := make([]string, len(current))
	for i, t := range current {
		exclude[i] = t.SpotifyTrackID
	}

	recs, err := s.engine.Recommend(ctx, recommend.Request{
		Target:  analysis.Features(),
		Emotion: analysis.DominantEmotion(),
		Genres:  analysis.SuggestedGenres,
		Exclude: exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("refreshing recommendations: %w", err)
	}
	if recs == nil {
		recs = []recommend.Track{}
	}

	if err := s.store.ReplaceRecommendations(ctx, id, recs); err != nil {
		return nil, fmt.Errorf("storing recommendations: %w", err)
	}
	return recs, nil
}

func (s *Service) setRefreshing(id int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.refreshing[id] + delta; n > 0 {
		s.refreshing[id] = n
	} else {
		delete(s.refreshing, id)
	}
}

// Save snapshots the entry's current recommendations as a new playlist.
// Every call creates a new record.
func (s *Service) Save(ctx context.Context, in SaveInput) (*SavedPlaylist, error) {
	entry, err := s.store.GetEntry(ctx, in.MoodEntryID)
	if err != nil {
		return nil, fmt.Errorf("loading mood entry %d: %w", in.MoodEntryID, err)
	}
	recs, err := s.store.Recommendations(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("loading recommendations: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrEmptyPlaylist
	}

	trackIDs := make([]string, len(recs))
	for i, t := range recs {
		trackIDs[i] = t.SpotifyTrackID
	}

	name := strings.TrimSpace(in.PlaylistName)
	if name == "" {
		name = DefaultPlaylistName(*entry)
	}

	millis := s.nextMillis()
	playlistID := strings.TrimSpace(in.SpotifyPlaylistID)
	if playlistID == "" {
		playlistID = fmt.Sprintf("mood_%d_%d", entry.ID, millis)
	}

	p := &SavedPlaylist{
		ID:                uuid.New(),
		MoodEntryID:       entry.ID,
		SpotifyPlaylistID: playlistID,
		PlaylistName:      name,
		TrackIDs:          trackIDs,
		CreatedAt:         time.UnixMilli(millis).UTC(),
	}
	if err := s.store.CreatePlaylist(ctx, p); err != nil {
		return nil, fmt.Errorf("saving playlist: %w", err)
	}
	return p, nil
}

// nextMillis returns the current unix millisecond, bumped past the last
// value handed out so generated playlist ids never repeat.
func (s *Service) nextMillis() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.lastMillis {
		ms = s.lastMillis + 1
	}
	s.lastMillis = ms
	return ms
}

// DefaultPlaylistName names a playlist after the entry's emoji and quick mood.
func DefaultPlaylistName(e Entry) string {
	emoji := e.Emoji
	if emoji == "" {
		emoji = mood.DefaultEmoji
	}
	label := e.QuickMood.Label()
	if label == "" {
		label = "Mood"
	}
	return fmt.Sprintf("%s %s Playlist", emoji, label)
}

// Get returns an entry with its reflection, current recommendations and analysis.
func (s *Service) Get(ctx context.Context, id int64) (*EntryWithReflection, error) {
	entry, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading mood entry %d: %w", id, err)
	}
	refl, err := s.store.GetReflection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading reflection: %w", err)
	}
	recs, err := s.store.Recommendations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading recommendations: %w", err)
	}
	analysis := mood.Analyze(entry.Energy, entry.Valence, entry.QuickMood)
	if refl != nil {
		analysis.Reflection = refl.Content
	}
	return &EntryWithReflection{
		MoodEntry:       *entry,
		AIReflection:    refl,
		Recommendations: recs,
		Analysis:        analysis,
	}, nil
}

// Recent returns the newest entries first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := s.store.RecentEntries(ctx, NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing recent entries: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// NormalizeLimit applies the default and maximum for Recent.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}

// Playlists lists the playlists saved from an entry, oldest first.
func (s *Service) Playlists(ctx context.Context, id int64) ([]SavedPlaylist, error) {
	playlists, err := s.store.Playlists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing playlists for entry %d: %w", id, err)
	}
	if playlists == nil {
		playlists = []SavedPlaylist{}
	}
	return playlists, nil
}

// State reports where an entry is in its lifecycle. A running refresh takes
// precedence over a previous save.
func (s *Service) State(ctx context.Context, id int64) (State, error) {
	if _, err := s.store.GetEntry(ctx, id); err != nil {
		return "", fmt.Errorf("loading mood entry %d: %w", id, err)
	}

	s.mu.Lock()
	refreshing := s.refreshing[id] > 0
	s.mu.Unlock()
	if refreshing {
		return StateRefreshing, nil
	}

	playlists, err := s.store.Playlists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("listing playlists: %w", err)
	}
	if len(playlists) > 0 {
		return StateSaved, nil
	}
	return StateCreated, nil
}
