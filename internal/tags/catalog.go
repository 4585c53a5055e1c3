package tags

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-mood-journal/internal/lastfm"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

// idPrefix marks track ids synthesized for tracks without a MusicBrainz id.
const idPrefix = "lastfm:"

// ChartFetcher abstracts tag.getTopTracks for testing.
type ChartFetcher interface {
	GetTopTracks(ctx context.Context, tag string, limit int) ([]lastfm.TopTrack, error)
}

// Catalog draws candidates from Last.fm tag charts and estimates their
// features from each track's own tags. It implements recommend.Catalog.
type Catalog struct {
	charts  ChartFetcher
	service *Service
}

// NewCatalog creates a Catalog from a chart source and a tag service.
func NewCatalog(charts ChartFetcher, service *Service) *Catalog {
	return &Catalog{charts: charts, service: service}
}

// Candidates fetches the top tracks for the emotion and each genre, merges
// them in chart order and attaches estimated features.
func (c *Catalog) Candidates(ctx context.Context, q recommend.Query) ([]recommend.Track, error) {
	chartTags := chartTags(q)
	if len(chartTags) == 0 {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = recommend.DefaultPoolSize
	}
	perTag := max(1, (limit+len(chartTags)-1)/len(chartTags))

	charts := make([][]lastfm.TopTrack, len(chartTags))
	errs := make([]error, len(chartTags))

	var g errgroup.Group
	for i, tag := range chartTags {
		i, tag := i, tag
		g.Go(func() error {
			charts[i], errs[i] = c.charts.GetTopTracks(ctx, tag, perTag)
			if errs[i] != nil {
				log.Printf("WARN: lastfm chart %q failed: %v", tag, errs[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) == len(chartTags) {
		return nil, fmt.Errorf("fetching tag charts: %w", errors.Join(failed...))
	}

	seen := make(map[string]struct{})
	var tracks []recommend.Track
	for _, chart := range charts {
		for _, tt := range chart {
			t := convertTopTrack(tt)
			if t.SpotifyTrackID == "" {
				continue
			}
			if _, dup := seen[t.SpotifyTrackID]; dup {
				continue
			}
			seen[t.SpotifyTrackID] = struct{}{}
			tracks = append(tracks, t)
		}
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	lookups := make([]Track, len(tracks))
	for i, t := range tracks {
		lookups[i] = Track{ID: t.SpotifyTrackID, Name: t.TrackName, Artist: t.ArtistName}
	}
	estimated, err := c.service.FetchTagsForTracks(ctx, lookups)
	if err != nil {
		return nil, fmt.Errorf("estimating features: %w", err)
	}
	for i := range tracks {
		tracks[i].Energy = estimated[i].Features.Energy
		tracks[i].Valence = estimated[i].Features.Valence
	}
	return tracks, nil
}

// chartTags lists the emotion first, then genres, without blanks or repeats.
func chartTags(q recommend.Query) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tag := range append([]string{q.Emotion}, q.Genres...) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// convertTopTrack maps a chart entry to a recommendation track. Popularity
// is derived from chart rank since Last.fm exposes no 0-100 score.
func convertTopTrack(tt lastfm.TopTrack) recommend.Track {
	t := recommend.Track{
		SpotifyTrackID: trackID(tt),
		TrackName:      tt.Name,
		ArtistName:     tt.Artist.Name,
	}
	if rank := tt.Rank(); rank > 0 {
		t.Popularity = max(0, 100-rank)
	}
	if url := tt.LargestImage(); url != "" {
		t.AlbumImageURL = &url
	}
	if secs := tt.Seconds(); secs > 0 {
		t.Duration = &secs
	}
	return t
}

func trackID(tt lastfm.TopTrack) string {
	if tt.MBID != "" {
		return tt.MBID
	}
	if tt.Name == "" || tt.Artist.Name == "" {
		return ""
	}
	return idPrefix + tt.Artist.Name + "/" + tt.Name
}
