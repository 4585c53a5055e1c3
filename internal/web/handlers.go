package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-mood-journal/internal/affirmation"
	"github.com/justestif/go-mood-journal/internal/cache"
	"github.com/justestif/go-mood-journal/internal/clustering"
	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

const (
	// RecentCacheKey holds the newest MaxRecentLimit entries.
	RecentCacheKey = "recent-entries"
	recentCacheTTL = 5 * time.Minute

	// affirmationWindow is how many recent entries tone the affirmation.
	affirmationWindow = 5

	maxBodyBytes = 64 << 10
)

// Error codes returned in JSON error bodies.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeEmptyPlaylist     = "empty_playlist"
	CodeRecommendationOff = "recommendation_unavailable"
	CodeInternal          = "internal"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	journal      *journal.Service
	affirmations *affirmation.Service
	reads        *cache.ReadThrough
	sessions     *SessionStore
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(j *journal.Service, a *affirmation.Service, reads *cache.ReadThrough, sessions *SessionStore) *Handlers {
	return &Handlers{
		journal:      j,
		affirmations: a,
		reads:        reads,
		sessions:     sessions,
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateEntry handles POST /api/mood-entries.
func (h *Handlers) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var in journal.CreateInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}

	// The pipeline finishes even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	result, err := h.journal.Create(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateRecent(ctx)

	respond(w, http.StatusCreated, result)
}

// GetEntry handles GET /api/mood-entries/{id}.
func (h *Handlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.journal.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

// EntryState handles GET /api/mood-entries/{id}/state.
func (h *Handlers) EntryState(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := h.journal.State(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]journal.State{"state": state})
}

// EntryPlaylists handles GET /api/mood-entries/{id}/playlists.
func (h *Handlers) EntryPlaylists(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	playlists, err := h.journal.Playlists(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, playlists)
}

// RefreshRecommendations handles POST /api/mood-entries/{id}/refresh-recommendations.
func (h *Handlers) RefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	tracks, err := h.journal.Refresh(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateRecent(ctx)

	respond(w, http.StatusOK, tracks)
}

// SavePlaylist handles POST /api/playlists/save.
func (h *Handlers) SavePlaylist(w http.ResponseWriter, r *http.Request) {
	var in journal.SaveInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	playlist, err := h.journal.Save(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateRecent(ctx)

	respond(w, http.StatusCreated, playlist)
}

// RecentEntries handles GET /api/mood-entries/recent?limit=N.
func (h *Handlers) RecentEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, journal.DefaultRecentLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.recent(r.Context(), journal.NormalizeLimit(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

// Affirmation handles GET /api/affirmation.
func (h *Handlers) Affirmation(w http.ResponseWriter, r *http.Request) {
	recent, err := h.recent(r.Context(), affirmationWindow)
	if err != nil {
		log.Printf("WARN: loading recent entries for affirmation: %v", err)
		recent = nil
	}
	respond(w, http.StatusOK, map[string]string{
		"affirmation": h.affirmations.Today(r.Context(), recent),
	})
}

// Insights handles GET /api/insights?limit=N.
func (h *Handlers) Insights(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, journal.MaxRecentLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.recent(r.Context(), journal.NormalizeLimit(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, clustering.Summarize(entries, clustering.DefaultConfig()))
}

// Likes handles GET /api/likes.
func (h *Handlers) Likes(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	ids := []string{}
	if session != nil {
		ids = session.Likes.IDs()
	}
	respond(w, http.StatusOK, map[string][]string{"trackIds": ids})
}

// Like handles POST /api/likes/{trackId}.
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	h.updateLikes(w, r, true)
}

// Unlike handles DELETE /api/likes/{trackId}.
func (h *Handlers) Unlike(w http.ResponseWriter, r *http.Request) {
	h.updateLikes(w, r, false)
}

func (h *Handlers) updateLikes(w http.ResponseWriter, r *http.Request, liked bool) {
	trackID := strings.TrimSpace(chi.URLParam(r, "trackId"))
	if trackID == "" {
		writeError(w, fmt.Errorf("%w: track id is required", journal.ErrValidation))
		return
	}

	session, err := h.sessions.GetOrCreate(w, r)
	if err != nil {
		writeError(w, fmt.Errorf("creating session: %w", err))
		return
	}
	if liked {
		session.Likes.Add(trackID)
	} else {
		session.Likes.Remove(trackID)
	}
	respond(w, http.StatusOK, map[string][]string{"trackIds": session.Likes.IDs()})
}

// recent serves the newest entries from the read cache, which always holds
// the MaxRecentLimit newest so every limit is a prefix of it.
func (h *Handlers) recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	entries, err := cache.Load(ctx, h.reads, RecentCacheKey, recentCacheTTL, func(ctx context.Context) ([]journal.Entry, error) {
		return h.journal.Recent(ctx, journal.MaxRecentLimit)
	})
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (h *Handlers) invalidateRecent(ctx context.Context) {
	if err := h.reads.Invalidate(ctx, RecentCacheKey); err != nil {
		log.Printf("WARN: invalidating %s: %v", RecentCacheKey, err)
	}
}

func entryID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid mood entry id %q", journal.ErrValidation, raw)
	}
	return id, nil
}

func queryLimit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid limit %q", journal.ErrValidation, raw)
	}
	return n, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", journal.ErrValidation, err)
	}
	return nil
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN: encoding response: %v", err)
	}
}

// writeError maps sentinel errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status, code, msg := http.StatusInternalServerError, CodeInternal, "internal server error"

	switch {
	case errors.Is(err, journal.ErrValidation):
		status, code, msg = http.StatusBadRequest, CodeValidation, err.Error()
	case errors.Is(err, journal.ErrNotFound):
		status, code, msg = http.StatusNotFound, CodeNotFound, journal.ErrNotFound.Error()
	case errors.Is(err, journal.ErrEmptyPlaylist):
		status, code, msg = http.StatusUnprocessableEntity, CodeEmptyPlaylist, journal.ErrEmptyPlaylist.Error()
	case errors.Is(err, recommend.ErrRecommendationUnavailable):
		status, code, msg = http.StatusServiceUnavailable, CodeRecommendationOff, recommend.ErrRecommendationUnavailable.Error()
	default:
		log.Printf("ERROR: %v", err)
	}

	respond(w, status, ErrorResponse{Error: msg, Code: code})
}
