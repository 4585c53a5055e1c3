// Package tags turns Last.fm tag data into mood features and exposes the
// Last.fm tag charts as a recommendation catalog.
package tags

import (
	"context"
	"sync"

	"github.com/justestif/go-mood-journal/internal/lastfm"
	"github.com/justestif/go-mood-journal/internal/mood"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

// FeatureSource indicates how a track's features were derived.
type FeatureSource string

const (
	// SourceTags means features were estimated from the track's tags.
	SourceTags FeatureSource = "tags"
	// SourceFallback means no usable tags were found and features were
	// derived from the track id.
	SourceFallback FeatureSource = "fallback"
)

// Default concurrency for batch processing.
const DefaultConcurrency = 5

// Track represents the minimal track info needed for tag lookup.
type Track struct {
	ID     string
	Name   string
	Artist string
}

// TrackTags holds the tags and estimated features for a track.
type TrackTags struct {
	TrackID  string
	Tags     []lastfm.Tag
	Features mood.Features
	Source   FeatureSource
	Error    error // Non-nil if fetching failed
}

// TagFetcher abstracts the Last.fm client for testing.
type TagFetcher interface {
	GetTags(ctx context.Context, artist, track string) ([]lastfm.Tag, error)
}

// Service fetches tags with a bounded worker pool and estimates features.
type Service struct {
	fetcher     TagFetcher
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets the number of concurrent tag fetch operations.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a new tag service.
func NewService(fetcher TagFetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchTagsForTracks fetches tags for multiple tracks concurrently.
// Results are returned in the same order as input tracks and always carry
// features. Individual fetch errors are captured in TrackTags.Error rather
// than failing the batch.
func (s *Service) FetchTagsForTracks(ctx context.Context, tracks []Track) ([]TrackTags, error) {
	if len(tracks) == 0 {
		return []TrackTags{}, nil
	}

	results := make([]TrackTags, len(tracks))

	type workItem struct {
		index int
		track Track
	}
	workCh := make(chan workItem, len(tracks))
	for i, t := range tracks {
		workCh <- workItem{index: i, track: t}
	}
	close(workCh)

	var wg sync.WaitGroup
	for i := 0; i < min(s.concurrency, len(tracks)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workCh {
				if err := ctx.Err(); err != nil {
					results[work.index] = fallback(work.track.ID, err)
					continue
				}

				tags, err := s.fetcher.GetTags(ctx, work.track.Artist, work.track.Name)
				if err != nil {
					results[work.index] = fallback(work.track.ID, err)
					continue
				}

				result := TrackTags{TrackID: work.track.ID, Tags: tags}
				if f, ok := Estimate(tags); ok {
					result.Features = f
					result.Source = SourceTags
				} else {
					result.Features = recommend.DeterministicFeatures(work.track.ID)
					result.Source = SourceFallback
				}
				results[work.index] = result
			}
		}()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return results, ctx.Err()
	}
	return results, nil
}

func fallback(trackID string, err error) TrackTags {
	return TrackTags{
		TrackID:  trackID,
		Tags:     []lastfm.Tag{},
		Features: recommend.DeterministicFeatures(trackID),
		Source:   SourceFallback,
		Error:    err,
	}
}
