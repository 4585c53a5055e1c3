package spotify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-journal/internal/recommend"
)

// Candidates searches the catalog by genre and mood keyword, then attaches
// audio features to every result. It implements recommend.Catalog.
func (c *Client) Candidates(ctx context.Context, q recommend.Query) ([]recommend.Track, error) {
	queries := searchQueries(q)
	if len(queries) == 0 {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = recommend.DefaultPoolSize
	}
	perQuery := min(maxSearchLimit, max(1, (limit+len(queries)-1)/len(queries)))

	var results [][]recommend.Track
	var errs []error

	for _, query := range queries {
		found, err := c.SearchTracks(ctx, query, perQuery)
		if err != nil {
			log.Printf("WARN: spotify search %q failed: %v", query, err)
			errs = append(errs, err)
			continue
		}
		results = append(results, found)
	}

	if len(errs) == len(queries) {
		return nil, fmt.Errorf("searching tracks: %w", errors.Join(errs...))
	}

	tracks := interleave(results, limit)

	c.FetchAudioFeatures(ctx, tracks)
	return tracks, nil
}

// SearchTracks runs a single track search.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]recommend.Track, error) {
	opts := []spotify.RequestOption{spotify.Limit(min(limit, maxSearchLimit))}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}

	res, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, opts...)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	if res.Tracks == nil {
		return nil, nil
	}

	tracks := make([]recommend.Track, 0, len(res.Tracks.Tracks))
	for _, ft := range res.Tracks.Tracks {
		if ft.ID == "" {
			continue
		}
		tracks = append(tracks, convertTrack(ft))
	}
	return tracks, nil
}

// interleave merges per-query results round-robin, dropping duplicate ids,
// so truncating to limit trims every query evenly.
func interleave(results [][]recommend.Track, limit int) []recommend.Track {
	seen := make(map[string]struct{})
	var tracks []recommend.Track

	for i := 0; len(tracks) < limit; i++ {
		progressed := false
		for _, found := range results {
			if i >= len(found) {
				continue
			}
			progressed = true
			t := found[i]
			if _, dup := seen[t.SpotifyTrackID]; dup {
				continue
			}
			seen[t.SpotifyTrackID] = struct{}{}
			tracks = append(tracks, t)
			if len(tracks) == limit {
				break
			}
		}
		if !progressed {
			break
		}
	}
	return tracks
}

// searchQueries builds one query per suggested genre plus one for the
// dominant emotion.
func searchQueries(q recommend.Query) []string {
	var queries []string
	for _, g := range q.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		queries = append(queries, fmt.Sprintf("genre:%q", g))
	}
	if e := strings.TrimSpace(q.Emotion); e != "" {
		queries = append(queries, e)
	}
	return queries
}
