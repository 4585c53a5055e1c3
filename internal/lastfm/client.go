package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	baseURL   = "http://ws.audioscrobbler.com/2.0/"
	userAgent = "mood-journal/1.0"
)

// Last.fm API error codes.
const (
	errCodeInvalidParams = 6
	errCodeInvalidAPIKey = 10
	errCodeRateLimited   = 29
)

// Sentinel errors.
var (
	// ErrRateLimited is returned when the API rate limit is exceeded after retries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidAPIKey is returned when the API key is invalid.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrInvalidParams is returned for unknown tags, tracks or artists.
	ErrInvalidParams = errors.New("invalid parameters")
)

// Client is a Last.fm API client with response caching and rate-limit retries.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	retryDelay []time.Duration

	// Raw response bodies keyed by method and arguments.
	cache   map[string][]byte
	cacheMu sync.RWMutex
}

// NewClient creates a new Last.fm API client from the provided configuration.
func NewClient(cfg *Config) *Client {
	return &Client{
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    baseURL,
		retryDelay: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		cache:      make(map[string][]byte),
	}
}

// GetTags fetches tags for a track, falling back to artist tags if track has none.
// Returns an empty slice (not nil) if no tags are found.
func (c *Client) GetTags(ctx context.Context, artist, track string) ([]Tag, error) {
	tags, err := c.getTrackTags(ctx, artist, track)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		return tags, nil
	}
	return c.getArtistTags(ctx, artist)
}

// GetTopTracks returns the most popular tracks for a tag such as "sad" or "jazz".
func (c *Client) GetTopTracks(ctx context.Context, tag string, limit int) ([]TopTrack, error) {
	params := url.Values{
		"method": {"tag.getTopTracks"},
		"tag":    {tag},
		"limit":  {strconv.Itoa(limit)},
	}

	body, err := c.cachedGet(ctx, fmt.Sprintf("toptracks:%s:%d", tag, limit), params)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks for %q: %w", tag, err)
	}

	var resp topTracksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing top tracks response: %w", err)
	}
	if resp.Tracks.Track == nil {
		return []TopTrack{}, nil
	}
	return resp.Tracks.Track, nil
}

func (c *Client) getTrackTags(ctx context.Context, artist, track string) ([]Tag, error) {
	params := url.Values{
		"method":      {"track.getTopTags"},
		"artist":      {artist},
		"track":       {track},
		"autocorrect": {"1"},
	}

	body, err := c.cachedGet(ctx, fmt.Sprintf("track:%s:%s", artist, track), params)
	if err != nil {
		return nil, fmt.Errorf("fetching track tags: %w", err)
	}

	var resp trackTagsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing track tags response: %w", err)
	}
	if resp.TopTags.Tag == nil {
		return []Tag{}, nil
	}
	return resp.TopTags.Tag, nil
}

func (c *Client) getArtistTags(ctx context.Context, artist string) ([]Tag, error) {
	params := url.Values{
		"method":      {"artist.getTopTags"},
		"artist":      {artist},
		"autocorrect": {"1"},
	}

	body, err := c.cachedGet(ctx, "artist:"+artist, params)
	if err != nil {
		return nil, fmt.Errorf("fetching artist tags: %w", err)
	}

	var resp artistTagsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing artist tags response: %w", err)
	}
	if resp.TopTags.Tag == nil {
		return []Tag{}, nil
	}
	return resp.TopTags.Tag, nil
}

// cachedGet returns the cached body for key or performs the request and
// caches a successful response.
func (c *Client) cachedGet(ctx context.Context, key string, params url.Values) ([]byte, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	params.Set("format", "json")
	params.Set("api_key", c.apiKey)

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[key] = body
	c.cacheMu.Unlock()

	return body, nil
}

// doRequest performs an HTTP GET request, retrying with backoff while rate limited.
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()
	var lastErr error

	for attempt := 0; attempt <= len(c.retryDelay); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay[attempt-1]):
			}
		}

		body, err := c.doSingleRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) doSingleRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		switch apiErr.Error {
		case errCodeRateLimited:
			return nil, ErrRateLimited
		case errCodeInvalidAPIKey:
			return nil, ErrInvalidAPIKey
		case errCodeInvalidParams:
			return nil, fmt.Errorf("%w: %s", ErrInvalidParams, apiErr.Message)
		default:
			return nil, fmt.Errorf("API error %d: %s", apiErr.Error, apiErr.Message)
		}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
