package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/recommend"
	"github.com/justestif/go-mood-journal/internal/reflection"
	"github.com/justestif/go-mood-journal/internal/web"
)

type unavailableEngine struct{}

func (unavailableEngine) Recommend(context.Context, recommend.Request) ([]recommend.Track, error) {
	return nil, recommend.ErrRecommendationUnavailable
}

func newAPIServer(t *testing.T, engine journal.Recommender) *Client {
	t.Helper()
	if engine == nil {
		engine = recommend.NewEngine(recommend.NewStaticCatalog())
	}
	svc := journal.NewService(journal.NewMemoryStore(), reflection.NewTemplateGenerator(), engine)
	s, err := web.NewServer(web.ServerConfig{Journal: svc})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func TestClient_RoundTrip(t *testing.T) {
	c := newAPIServer(t, nil)
	ctx := context.Background()

	created, err := c.CreateEntry(ctx, journal.CreateInput{Text: "Bright morning", Energy: 8, Valence: 8, QuickMood: "energetic"})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.MoodEntry.ID == 0 || len(created.Recommendations) == 0 {
		t.Fatalf("CreateEntry() = %+v", created)
	}

	tracks, err := c.RefreshRecommendations(ctx, created.MoodEntry.ID)
	if err != nil {
		t.Fatalf("RefreshRecommendations() error = %v", err)
	}

	saved, err := c.SavePlaylist(ctx, journal.SaveInput{MoodEntryID: created.MoodEntry.ID})
	if err != nil {
		t.Fatalf("SavePlaylist() error = %v", err)
	}
	if len(saved.TrackIDs) != len(tracks) || saved.TrackIDs[0] != tracks[0].SpotifyTrackID {
		t.Errorf("saved TrackIDs = %v, want refreshed ids", saved.TrackIDs)
	}

	recent, err := c.RecentEntries(ctx, 5)
	if err != nil {
		t.Fatalf("RecentEntries() error = %v", err)
	}
	if len(recent) != 1 || recent[0].ID != created.MoodEntry.ID {
		t.Errorf("RecentEntries() = %+v", recent)
	}

	text, err := c.Affirmation(ctx)
	if err != nil || text == "" {
		t.Errorf("Affirmation() = %q, %v", text, err)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	c := newAPIServer(t, nil)
	if _, err := c.CreateEntry(ctx, journal.CreateInput{Text: " "}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank create error = %v, want ErrValidation", err)
	}
	if _, err := c.RefreshRecommendations(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown refresh error = %v, want ErrNotFound", err)
	}

	degraded := newAPIServer(t, unavailableEngine{})
	created, err := degraded.CreateEntry(ctx, journal.CreateInput{Text: "flat", Energy: 5, Valence: 5})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if _, err := degraded.SavePlaylist(ctx, journal.SaveInput{MoodEntryID: created.MoodEntry.ID}); !errors.Is(err, ErrEmptyPlaylist) {
		t.Errorf("empty save error = %v, want ErrEmptyPlaylist", err)
	}
	if _, err := degraded.RefreshRecommendations(ctx, created.MoodEntry.ID); !errors.Is(err, ErrRecommendationUnavailable) {
		t.Errorf("refresh error = %v, want ErrRecommendationUnavailable", err)
	}
}

func TestClient_UnexpectedResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"plain text 502", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}},
		{"unknown code", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte(`{"error":"short and stout","code":"teapot"}`))
		}},
		{"malformed success body", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := New(srv.URL).RecentEntries(context.Background(), 3)
			if !errors.Is(err, ErrRequest) {
				t.Errorf("error = %v, want ErrRequest", err)
			}
		})
	}

	c := New("http://127.0.0.1:1", WithHTTPClient(&http.Client{Timeout: time.Second}))
	if _, err := c.Affirmation(context.Background()); !errors.Is(err, ErrRequest) {
		t.Errorf("unreachable server error = %v, want ErrRequest", err)
	}
}
