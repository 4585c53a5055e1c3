package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/muesli/clusters"

	"github.com/justestif/go-mood-journal/internal/mood"
)

// ErrRecommendationUnavailable is returned when the catalog cannot be reached.
var ErrRecommendationUnavailable = errors.New("recommendation unavailable")

const (
	// DefaultPageSize bounds the number of tracks returned per call.
	DefaultPageSize = 20

	// DefaultPoolSize is how many candidates are requested from the catalog.
	DefaultPoolSize = 50
)

// Request is the input to Recommend.
type Request struct {
	Target  mood.Features
	Emotion string
	Genres  []string
	Exclude []string // track ids to avoid, typically the previous page
}

// Engine selects and orders catalog tracks by closeness to a mood target.
type Engine struct {
	catalog  Catalog
	pageSize int
	poolSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize sets the maximum number of tracks returned.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithPoolSize sets how many candidates are requested from the catalog.
func WithPoolSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// NewEngine creates an engine over the given catalog.
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		pageSize: DefaultPageSize,
		poolSize: DefaultPoolSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.poolSize < e.pageSize {
		e.poolSize = e.pageSize
	}
	return e
}

// PageSize returns the maximum result length.
func (e *Engine) PageSize() int {
	return e.pageSize
}

// Recommend fetches candidates and returns at most PageSize tracks, best
// match first. Catalog failures are reported as ErrRecommendationUnavailable.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]Track, error) {
	candidates, err := e.catalog.Candidates(ctx, Query{
		Target:  req.Target,
		Emotion: req.Emotion,
		Genres:  req.Genres,
		Limit:   e.poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecommendationUnavailable, err)
	}

	ranked := Rank(req.Target, candidates, req.Exclude, e.pageSize)
	if len(ranked) == 0 && len(req.Exclude) > 0 {
		// Everything was excluded; re-rank the full pool instead of going empty.
		ranked = Rank(req.Target, candidates, nil, e.pageSize)
	}
	return ranked, nil
}

type scoredTrack struct {
	track    Track
	distance float64
}

// Rank orders candidates by distance between target and each track's
// (energy, valence), breaking ties by higher popularity and then by input
// order. Duplicate and excluded ids are dropped. At most limit tracks are
// returned; limit <= 0 means no bound.
func Rank(target mood.Features, candidates []Track, exclude []string, limit int) []Track {
	skip := make(map[string]struct{}, len(exclude)+len(candidates))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	origin := clusters.Coordinates{target.Energy, target.Valence}
	scored := make([]scoredTrack, 0, len(candidates))
	for _, t := range candidates {
		if t.SpotifyTrackID == "" {
			continue
		}
		if _, ok := skip[t.SpotifyTrackID]; ok {
			continue
		}
		skip[t.SpotifyTrackID] = struct{}{}

		scored = append(scored, scoredTrack{
			track:    t,
			distance: origin.Distance(clusters.Coordinates{t.Energy, t.Valence}),
		})
	}

	slices.SortStableFunc(scored, func(a, b scoredTrack) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		return cmp.Compare(b.track.Popularity, a.track.Popularity)
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]Track, len(scored))
	for i, s := range scored {
		out[i] = s.track
	}
	return out
}
