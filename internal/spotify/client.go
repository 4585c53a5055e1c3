// Package spotify provides a recommendation catalog backed by the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// Default limits per Spotify API constraints.
const (
	maxTracksPerRequest = 100
	maxSearchLimit      = 50
)

// ErrMissingCredentials is returned when the client id or secret is empty.
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET")

// Client wraps the Spotify API client with catalog queries.
type Client struct {
	api    *spotify.Client
	market string
}

// Option configures a Client.
type Option func(*Client)

// WithMarket restricts searches to an ISO 3166-1 market code.
func WithMarket(market string) Option {
	return func(c *Client) {
		c.market = market
	}
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client, opts ...Option) *Client {
	c := &Client{api: api}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithCredentials authenticates with the client-credentials flow, which
// grants catalog access without a user login.
func NewWithCredentials(ctx context.Context, clientID, clientSecret string, opts ...Option) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	if _, err := cfg.Token(ctx); err != nil {
		return nil, fmt.Errorf("fetching app token: %w", err)
	}

	// The token source outlives ctx and refreshes on its own.
	httpClient := cfg.Client(context.WithoutCancel(ctx))
	httpClient.Timeout = 15 * time.Second

	api := spotify.New(httpClient, spotify.WithRetry(true))
	return New(api, opts...), nil
}
