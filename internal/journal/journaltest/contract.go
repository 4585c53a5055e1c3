// Package journaltest holds a behavioural test suite shared by every
// journal.Store implementation.
package journaltest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/mood"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// Tracks returns n distinct tracks with every optional field set on even
// positions and left nil on odd ones.
func Tracks(prefix string, n int) []recommend.Track {
	out := make([]recommend.Track, n)
	for i := range out {
		t := recommend.Track{
			SpotifyTrackID: prefix + string(rune('a'+i)),
			TrackName:      "Track " + string(rune('A'+i)),
			ArtistName:     "Artist",
			Energy:         float64(i+1) / float64(n+1),
			Valence:        0.5,
			Popularity:     50 + i,
		}
		if i%2 == 0 {
			t.AlbumImageURL = strPtr("https://img/" + t.SpotifyTrackID)
			t.PreviewURL = strPtr("https://preview/" + t.SpotifyTrackID)
			t.Duration = intPtr(180 + i)
		}
		out[i] = t
	}
	return out
}

// RunStoreTests exercises newStore against the journal.Store contract.
// Each subtest gets a fresh store.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) journal.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	newEntry := func(text string) *journal.Entry {
		return &journal.Entry{
			Text:      text,
			Energy:    7,
			Valence:   3,
			Emoji:     "😰",
			QuickMood: mood.QuickAnxious,
			CreatedAt: now,
		}
	}

	t.Run("create and read back", func(t *testing.T) {
		s := newStore(t)
		e := newEntry("first")
		r := &journal.Reflection{Content: "Breathe.", CreatedAt: now}
		recs := Tracks("c", 4)

		if err := s.CreateEntry(ctx, e, r, recs); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
		if e.ID == 0 || r.ID == 0 || r.MoodEntryID != e.ID {
			t.Fatalf("ids not assigned: entry %d reflection %d/%d", e.ID, r.ID, r.MoodEntryID)
		}

		got, err := s.GetEntry(ctx, e.ID)
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if got.Text != e.Text || got.Energy != 7 || got.Valence != 3 || got.Emoji != e.Emoji || got.QuickMood != e.QuickMood {
			t.Errorf("GetEntry() = %+v, want %+v", got, e)
		}
		if !got.CreatedAt.Equal(now) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
		}

		refl, err := s.GetReflection(ctx, e.ID)
		if err != nil || refl == nil || refl.Content != "Breathe." {
			t.Errorf("GetReflection() = %+v, %v", refl, err)
		}

		stored, err := s.Recommendations(ctx, e.ID)
		if err != nil {
			t.Fatalf("Recommendations() error = %v", err)
		}
		assertTracks(t, stored, recs)
	})

	t.Run("entry without reflection or tracks", func(t *testing.T) {
		s := newStore(t)
		e := newEntry("bare")
		if err := s.CreateEntry(ctx, e, nil, nil); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
		refl, err := s.GetReflection(ctx, e.ID)
		if err != nil || refl != nil {
			t.Errorf("GetReflection() = %+v, %v; want nil, nil", refl, err)
		}
		recs, err := s.Recommendations(ctx, e.ID)
		if err != nil || recs == nil || len(recs) != 0 {
			t.Errorf("Recommendations() = %v, %v; want empty slice", recs, err)
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetEntry(ctx, 424242); !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("GetEntry() error = %v, want ErrNotFound", err)
		}
		if _, err := s.Recommendations(ctx, 424242); !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("Recommendations() error = %v, want ErrNotFound", err)
		}
		if err := s.ReplaceRecommendations(ctx, 424242, Tracks("x", 1)); !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("ReplaceRecommendations() error = %v, want ErrNotFound", err)
		}
		if _, err := s.Playlists(ctx, 424242); !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("Playlists() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("replace recommendations", func(t *testing.T) {
		s := newStore(t)
		e := newEntry("swap")
		if err := s.CreateEntry(ctx, e, nil, Tracks("old", 3)); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}

		// Overlapping ids keep a single catalog row per track.
		next := append(Tracks("new", 2), Tracks("old", 1)...)
		if err := s.ReplaceRecommendations(ctx, e.ID, next); err != nil {
			t.Fatalf("ReplaceRecommendations() error = %v", err)
		}
		got, err := s.Recommendations(ctx, e.ID)
		if err != nil {
			t.Fatalf("Recommendations() error = %v", err)
		}
		assertTracks(t, got, next)
	})

	t.Run("playlists", func(t *testing.T) {
		s := newStore(t)
		e := newEntry("save me")
		if err := s.CreateEntry(ctx, e, nil, Tracks("p", 2)); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}

		for i, name := range []string{"First", "Second"} {
			p := &journal.SavedPlaylist{
				ID:                uuid.New(),
				MoodEntryID:       e.ID,
				SpotifyPlaylistID: "mood_" + name,
				PlaylistName:      name,
				TrackIDs:          []string{"pa", "pb"},
				CreatedAt:         now.Add(time.Duration(i) * time.Second),
			}
			if err := s.CreatePlaylist(ctx, p); err != nil {
				t.Fatalf("CreatePlaylist(%s) error = %v", name, err)
			}
		}

		got, err := s.Playlists(ctx, e.ID)
		if err != nil {
			t.Fatalf("Playlists() error = %v", err)
		}
		if len(got) != 2 || got[0].PlaylistName != "First" || got[1].PlaylistName != "Second" {
			t.Fatalf("Playlists() = %+v", got)
		}
		if len(got[0].TrackIDs) != 2 || got[0].TrackIDs[0] != "pa" || got[0].TrackIDs[1] != "pb" {
			t.Errorf("TrackIDs = %v", got[0].TrackIDs)
		}

		orphan := &journal.SavedPlaylist{ID: uuid.New(), MoodEntryID: 424242, PlaylistName: "x", CreatedAt: now}
		if err := s.CreatePlaylist(ctx, orphan); !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("CreatePlaylist(orphan) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("recent entries", func(t *testing.T) {
		s := newStore(t)
		var ids []int64
		for _, text := range []string{"a", "b", "c"} {
			e := newEntry(text)
			if err := s.CreateEntry(ctx, e, nil, nil); err != nil {
				t.Fatalf("CreateEntry() error = %v", err)
			}
			ids = append(ids, e.ID)
		}
		for i := 1; i < len(ids); i++ {
			if ids[i] <= ids[i-1] {
				t.Errorf("ids not increasing: %v", ids)
			}
		}

		got, err := s.RecentEntries(ctx, 2)
		if err != nil {
			t.Fatalf("RecentEntries() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != ids[2] || got[1].ID != ids[1] {
			t.Errorf("RecentEntries(2) = %+v, want newest first", got)
		}
	})
}

func assertTracks(t *testing.T, got, want []recommend.Track) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tracks, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.SpotifyTrackID != w.SpotifyTrackID || g.TrackName != w.TrackName || g.ArtistName != w.ArtistName {
			t.Errorf("track[%d] = %+v, want %+v", i, g, w)
		}
		if g.Energy != w.Energy || g.Valence != w.Valence || g.Popularity != w.Popularity {
			t.Errorf("track[%d] features = (%v, %v, %d), want (%v, %v, %d)", i, g.Energy, g.Valence, g.Popularity, w.Energy, w.Valence, w.Popularity)
		}
		if !equalStr(g.AlbumImageURL, w.AlbumImageURL) || !equalStr(g.PreviewURL, w.PreviewURL) || !equalInt(g.Duration, w.Duration) {
			t.Errorf("track[%d] optional fields differ: %+v vs %+v", i, g, w)
		}
	}
}

func equalStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
