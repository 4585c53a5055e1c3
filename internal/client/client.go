// Package client is a typed HTTP client for the mood journal API and an
// orchestrator that tracks the status of in-flight operations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

// Sentinel errors. Server error codes map back to the same values the
// server-side packages use.
var (
	ErrValidation                = journal.ErrValidation
	ErrNotFound                  = journal.ErrNotFound
	ErrEmptyPlaylist             = journal.ErrEmptyPlaylist
	ErrRecommendationUnavailable = recommend.ErrRecommendationUnavailable

	// ErrRequest covers transport failures and unexpected responses.
	ErrRequest = errors.New("request failed")
)

// API is the set of server calls the orchestrator depends on.
type API interface {
	CreateEntry(ctx context.Context, in journal.CreateInput) (*journal.EntryWithReflection, error)
	RefreshRecommendations(ctx context.Context, id int64) ([]recommend.Track, error)
	SavePlaylist(ctx context.Context, in journal.SaveInput) (*journal.SavedPlaylist, error)
	RecentEntries(ctx context.Context, limit int) ([]journal.Entry, error)
	Affirmation(ctx context.Context) (string, error)
}

// Client calls the JSON API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateEntry posts a new mood entry.
func (c *Client) CreateEntry(ctx context.Context, in journal.CreateInput) (*journal.EntryWithReflection, error) {
	var out journal.EntryWithReflection
	if err := c.do(ctx, http.MethodPost, "/api/mood-entries", in, &out); err != nil {
		return nil, fmt.Errorf("creating mood entry: %w", err)
	}
	return &out, nil
}

// RefreshRecommendations asks for a new ranking for an entry.
func (c *Client) RefreshRecommendations(ctx context.Context, id int64) ([]recommend.Track, error) {
	var out []recommend.Track
	path := "/api/mood-entries/" + strconv.FormatInt(id, 10) + "/refresh-recommendations"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, fmt.Errorf("refreshing recommendations for %d: %w", id, err)
	}
	return out, nil
}

// SavePlaylist snapshots an entry's recommendations.
func (c *Client) SavePlaylist(ctx context.Context, in journal.SaveInput) (*journal.SavedPlaylist, error) {
	var out journal.SavedPlaylist
	if err := c.do(ctx, http.MethodPost, "/api/playlists/save", in, &out); err != nil {
		return nil, fmt.Errorf("saving playlist: %w", err)
	}
	return &out, nil
}

// RecentEntries lists the newest entries.
func (c *Client) RecentEntries(ctx context.Context, limit int) ([]journal.Entry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/mood-entries/recent"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []journal.Entry
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("listing recent entries: %w", err)
	}
	return out, nil
}

// Affirmation fetches the daily affirmation.
func (c *Client) Affirmation(ctx context.Context) (string, error) {
	var out struct {
		Affirmation string `json:"affirmation"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/affirmation", nil, &out); err != nil {
		return "", fmt.Errorf("fetching affirmation: %w", err)
	}
	return out.Affirmation, nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var codeErrors = map[string]error{
	"validation_error":           ErrValidation,
	"not_found":                  ErrNotFound,
	"empty_playlist":             ErrEmptyPlaylist,
	"recommendation_unavailable": ErrRecommendationUnavailable,
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", ErrRequest, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRequest, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Code == "" {
		return fmt.Errorf("%w: unexpected status %d", ErrRequest, resp.StatusCode)
	}
	if sentinel, ok := codeErrors[e.Code]; ok {
		return fmt.Errorf("%w: %s", sentinel, e.Error)
	}
	return fmt.Errorf("%w: status %d: %s", ErrRequest, resp.StatusCode, e.Error)
}

var _ API = (*Client)(nil)
