package tags

import (
	"context"
	"strings"
	"time"

	"github.com/justestif/go-mood-journal/internal/cache"
	"github.com/justestif/go-mood-journal/internal/lastfm"
)

// CacheTTL is the duration after which cached tags are considered stale.
const CacheTTL = 30 * 24 * time.Hour // 30 days

// CachedTagFetcher implements TagFetcher on top of a shared cache so tags
// survive restarts when the cache is Redis-backed.
type CachedTagFetcher struct {
	next TagFetcher
	rt   *cache.ReadThrough
	ttl  time.Duration
}

// NewCachedTagFetcher wraps next with read-through caching.
func NewCachedTagFetcher(c cache.Cache, next TagFetcher) *CachedTagFetcher {
	return &CachedTagFetcher{
		next: next,
		rt:   cache.NewReadThrough(c),
		ttl:  CacheTTL,
	}
}

// GetTags returns cached tags for the track or fetches and stores them.
// Failures are not cached.
func (c *CachedTagFetcher) GetTags(ctx context.Context, artist, track string) ([]lastfm.Tag, error) {
	return cache.Load(ctx, c.rt, tagKey(artist, track), c.ttl, func(ctx context.Context) ([]lastfm.Tag, error) {
		return c.next.GetTags(ctx, artist, track)
	})
}

func tagKey(artist, track string) string {
	return "tags:" + strings.ToLower(strings.TrimSpace(artist)) + "/" + strings.ToLower(strings.TrimSpace(track))
}
