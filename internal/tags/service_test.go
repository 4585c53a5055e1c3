package tags

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justestif/go-mood-journal/internal/lastfm"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

// mockFetcher implements TagFetcher for testing. Keys are "artist:track".
type mockFetcher struct {
	mu        sync.Mutex
	tags      map[string][]lastfm.Tag
	errors    map[string]error
	callCount atomic.Int32
	delay     time.Duration
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		tags:   make(map[string][]lastfm.Tag),
		errors: make(map[string]error),
	}
}

func (m *mockFetcher) addTags(artist, track string, tags ...lastfm.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[artist+":"+track] = tags
}

func (m *mockFetcher) addError(artist, track string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[artist+":"+track] = err
}

func (m *mockFetcher) GetTags(ctx context.Context, artist, track string) ([]lastfm.Tag, error) {
	m.callCount.Add(1)

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := artist + ":" + track
	if err, ok := m.errors[key]; ok {
		return nil, err
	}
	if tags, ok := m.tags[key]; ok {
		return tags, nil
	}
	return []lastfm.Tag{}, nil
}

func TestFetchTagsForTracks_Empty(t *testing.T) {
	svc := NewService(newMockFetcher())

	results, err := svc.FetchTagsForTracks(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
}

func TestFetchTagsForTracks_EstimatesFromTags(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addTags("Adele", "Someone Like You", lastfm.Tag{Name: "sad", Count: 1})

	svc := NewService(fetcher)
	results, err := svc.FetchTagsForTracks(context.Background(), []Track{
		{ID: "track1", Name: "Someone Like You", Artist: "Adele"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := results[0]
	if r.TrackID != "track1" || r.Source != SourceTags || r.Error != nil {
		t.Fatalf("result = %+v", r)
	}
	want := tagFeatures["sad"]
	if r.Features != want {
		t.Errorf("Features = %+v, want %+v", r.Features, want)
	}
}

func TestFetchTagsForTracks_Fallback(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addTags("Someone", "Obscure", lastfm.Tag{Name: "seen live", Count: 10})
	fetcher.addError("Bad Artist", "Bad Track", errors.New("API error"))

	svc := NewService(fetcher)
	results, err := svc.FetchTagsForTracks(context.Background(), []Track{
		{ID: "t1", Name: "Obscure", Artist: "Someone"},
		{ID: "t2", Name: "Bad Track", Artist: "Bad Artist"},
		{ID: "t3", Name: "Unknown", Artist: "Nobody"},
	})
	if err != nil {
		t.Fatalf("batch should not fail on individual errors: %v", err)
	}

	for _, r := range results {
		if r.Source != SourceFallback {
			t.Errorf("%s: Source = %q, want fallback", r.TrackID, r.Source)
		}
		if want := recommend.DeterministicFeatures(r.TrackID); r.Features != want {
			t.Errorf("%s: Features = %+v, want %+v", r.TrackID, r.Features, want)
		}
	}
	if len(results[0].Tags) != 1 {
		t.Errorf("unrecognized tags should still be returned, got %v", results[0].Tags)
	}
	if results[1].Error == nil || len(results[1].Tags) != 0 {
		t.Errorf("failed track = %+v, want error and empty tags", results[1])
	}
}

func TestFetchTagsForTracks_PreservesOrder(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addTags("Radiohead", "Creep", lastfm.Tag{Name: "rock", Count: 1})
	fetcher.addTags("Daft Punk", "Get Lucky", lastfm.Tag{Name: "electronic", Count: 1})
	fetcher.addTags("Adele", "Hello", lastfm.Tag{Name: "pop", Count: 1})

	svc := NewService(fetcher, WithConcurrency(2))
	results, err := svc.FetchTagsForTracks(context.Background(), []Track{
		{ID: "t1", Name: "Creep", Artist: "Radiohead"},
		{ID: "t2", Name: "Get Lucky", Artist: "Daft Punk"},
		{ID: "t3", Name: "Hello", Artist: "Adele"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, exp := range []struct{ id, tag string }{{"t1", "rock"}, {"t2", "electronic"}, {"t3", "pop"}} {
		if results[i].TrackID != exp.id {
			t.Errorf("result[%d]: ID = %q, want %q", i, results[i].TrackID, exp.id)
		}
		if results[i].Features != tagFeatures[exp.tag] {
			t.Errorf("result[%d]: Features = %+v, want %s anchor", i, results[i].Features, exp.tag)
		}
	}
}

func TestFetchTagsForTracks_ContextCancellation(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.delay = 100 * time.Millisecond
	fetcher.addTags("Artist", "Track", lastfm.Tag{Name: "rock", Count: 1})

	tracks := make([]Track, 10)
	for i := range tracks {
		tracks[i] = Track{ID: "t", Name: "Track", Artist: "Artist"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	results, err := NewService(fetcher, WithConcurrency(2)).FetchTagsForTracks(ctx, tracks)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
	if len(results) != 10 {
		t.Errorf("expected 10 results, got %d", len(results))
	}
}

func TestFetchTagsForTracks_Concurrency(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.delay = 10 * time.Millisecond
	fetcher.addTags("Artist", "Track", lastfm.Tag{Name: "rock", Count: 1})

	tracks := make([]Track, 20)
	for i := range tracks {
		tracks[i] = Track{ID: "t", Name: "Track", Artist: "Artist"}
	}

	start := time.Now()
	if _, err := NewService(fetcher, WithConcurrency(10)).FetchTagsForTracks(context.Background(), tracks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 20 tracks at 10ms with 10 workers is two rounds; sequential is 200ms.
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("expected concurrent execution, took %v", elapsed)
	}
	if n := fetcher.callCount.Load(); n != 20 {
		t.Errorf("expected 20 calls, got %d", n)
	}
}

func TestWithConcurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive value", 10, 10},
		{"zero uses default", 0, DefaultConcurrency},
		{"negative uses default", -1, DefaultConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockFetcher(), WithConcurrency(tt.input))
			if svc.concurrency != tt.expected {
				t.Errorf("expected concurrency %d, got %d", tt.expected, svc.concurrency)
			}
		})
	}
}
