package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/justestif/go-mood-journal/internal/mood"
)

func track(id string, energy, valence float64, popularity int) Track {
	return Track{
		SpotifyTrackID: id,
		TrackName:      "Track " + id,
		ArtistName:     "Artist",
		Energy:         energy,
		Valence:        valence,
		Popularity:     popularity,
	}
}

func ids(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.SpotifyTrackID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRank(t *testing.T) {
	target := mood.Features{Energy: 0.8, Valence: 0.8}

	tests := []struct {
		name       string
		candidates []Track
		exclude    []string
		limit      int
		want       []string
	}{
		{
			name: "closest first",
			candidates: []Track{
				track("far", 0.1, 0.1, 50),
				track("near", 0.8, 0.7, 50),
				track("exact", 0.8, 0.8, 50),
			},
			want: []string{"exact", "near", "far"},
		},
		{
			name: "ties broken by popularity",
			candidates: []Track{
				track("a", 0.7, 0.8, 10),
				track("b", 0.7, 0.8, 90),
			},
			want: []string{"b", "a"},
		},
		{
			name: "full ties keep catalog order",
			candidates: []Track{
				track("first", 0.5, 0.5, 40),
				track("second", 0.5, 0.5, 40),
				track("third", 0.5, 0.5, 40),
			},
			want: []string{"first", "second", "third"},
		},
		{
			name: "duplicates and empty ids dropped",
			candidates: []Track{
				track("a", 0.8, 0.8, 10),
				track("", 0.8, 0.8, 99),
				track("a", 0.1, 0.1, 10),
				track("b", 0.6, 0.6, 10),
			},
			want: []string{"a", "b"},
		},
		{
			name: "excluded ids removed",
			candidates: []Track{
				track("a", 0.8, 0.8, 10),
				track("b", 0.7, 0.7, 10),
				track("c", 0.6, 0.6, 10),
			},
			exclude: []string{"a"},
			want:    []string{"b", "c"},
		},
		{
			name: "limit truncates",
			candidates: []Track{
				track("a", 0.8, 0.8, 10),
				track("b", 0.7, 0.7, 10),
				track("c", 0.6, 0.6, 10),
			},
			limit: 2,
			want:  []string{"a", "b"},
		},
		{
			name: "empty input",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Rank(target, tt.candidates, tt.exclude, tt.limit))
			if !equalIDs(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_PageBound(t *testing.T) {
	var candidates []Track
	for i := 0; i < 100; i++ {
		candidates = append(candidates, track(fmt.Sprintf("t%03d", i), float64(i%10)/10, float64(i%7)/7, i))
	}
	catalog := NewStaticCatalog(candidates...)

	e := NewEngine(catalog)
	got, err := e.Recommend(context.Background(), Request{Target: mood.Map(5, 5)})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != DefaultPageSize {
		t.Errorf("Recommend() returned %d tracks, want %d", len(got), DefaultPageSize)
	}

	small := NewEngine(catalog, WithPageSize(5))
	got, _ = small.Recommend(context.Background(), Request{Target: mood.Map(5, 5)})
	if len(got) != 5 {
		t.Errorf("Recommend() with page size 5 returned %d", len(got))
	}
}

func TestEngine_PassesQuery(t *testing.T) {
	var got Query
	catalog := CatalogFunc(func(_ context.Context, q Query) ([]Track, error) {
		got = q
		return nil, nil
	})

	e := NewEngine(catalog, WithPageSize(10), WithPoolSize(30))
	target := mood.Map(9, 2)
	_, err := e.Recommend(context.Background(), Request{
		Target:  target,
		Emotion: "angry",
		Genres:  []string{"metal"},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got.Target != target || got.Emotion != "angry" || got.Limit != 30 || len(got.Genres) != 1 {
		t.Errorf("catalog got query %+v", got)
	}
}

func TestEngine_ExcludeForRefresh(t *testing.T) {
	candidates := []Track{
		track("a", 0.9, 0.9, 10),
		track("b", 0.8, 0.8, 10),
		track("c", 0.7, 0.7, 10),
		track("d", 0.6, 0.6, 10),
	}
	e := NewEngine(NewStaticCatalog(candidates...), WithPageSize(2))
	target := mood.Map(9, 9)

	first, _ := e.Recommend(context.Background(), Request{Target: target})
	second, _ := e.Recommend(context.Background(), Request{Target: target, Exclude: ids(first)})

	for _, id := range ids(second) {
		for _, prev := range ids(first) {
			if id == prev {
				t.Errorf("refresh returned previously recommended %q", id)
			}
		}
	}
	if len(second) != 2 {
		t.Errorf("refresh returned %d tracks, want 2", len(second))
	}
}

func TestEngine_ExcludeEverythingFallsBack(t *testing.T) {
	candidates := []Track{track("a", 0.9, 0.9, 10), track("b", 0.1, 0.1, 10)}
	e := NewEngine(NewStaticCatalog(candidates...))

	got, err := e.Recommend(context.Background(), Request{
		Target:  mood.Map(9, 9),
		Exclude: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Recommend() = %v, want full pool re-ranked", ids(got))
	}
}

func TestEngine_CatalogFailure(t *testing.T) {
	boom := errors.New("connection refused")
	e := NewEngine(CatalogFunc(func(context.Context, Query) ([]Track, error) {
		return nil, boom
	}))

	_, err := e.Recommend(context.Background(), Request{Target: mood.Map(5, 5)})
	if !errors.Is(err, ErrRecommendationUnavailable) {
		t.Errorf("error = %v, want ErrRecommendationUnavailable", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped cause", err)
	}
}

func TestDeterministicFeatures(t *testing.T) {
	a := DeterministicFeatures("4uLU6hMCjMI75M1A2tKUQC")
	b := DeterministicFeatures("4uLU6hMCjMI75M1A2tKUQC")
	if a != b {
		t.Errorf("features differ for same id: %+v vs %+v", a, b)
	}
	for _, id := range []string{"x", "y", "z", "4uLU6hMCjMI75M1A2tKUQC"} {
		f := DeterministicFeatures(id)
		if f.Energy < 0.1 || f.Energy > 0.9 || f.Valence < 0.1 || f.Valence > 0.9 {
			t.Errorf("DeterministicFeatures(%q) = %+v, out of [0.1, 0.9]", id, f)
		}
	}
}

func TestStaticCatalog_Builtin(t *testing.T) {
	c := NewStaticCatalog()
	got, err := c.Candidates(context.Background(), Query{Target: mood.Map(2, 2), Limit: 10})
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("Candidates() returned %d, want 10", len(got))
	}
	for _, tr := range got {
		if tr.Duration == nil || *tr.Duration <= 0 {
			t.Errorf("track %s missing duration", tr.SpotifyTrackID)
		}
		if tr.PreviewURL != nil {
			t.Errorf("track %s has unexpected preview", tr.SpotifyTrackID)
		}
	}
}
