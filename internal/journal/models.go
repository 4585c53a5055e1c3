package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-mood-journal/internal/mood"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

// Entry is a recorded mood. Energy and valence are stored on the 1-10 scale
// and never change after creation.
type Entry struct {
	ID        int64          `json:"id"`
	Text      string         `json:"text"`
	Energy    int            `json:"energy"`
	Valence   int            `json:"valence"`
	Emoji     string         `json:"emoji"`
	QuickMood mood.QuickMood `json:"quickMood,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Reflection is the generated text attached to an entry at creation.
type Reflection struct {
	ID          int64     `json:"id"`
	MoodEntryID int64     `json:"moodEntryId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SavedPlaylist is a snapshot of an entry's recommendations.
type SavedPlaylist struct {
	ID                uuid.UUID `json:"id"`
	MoodEntryID       int64     `json:"moodEntryId"`
	SpotifyPlaylistID string    `json:"spotifyPlaylistId"`
	PlaylistName      string    `json:"playlistName"`
	TrackIDs          []string  `json:"trackIds"`
	CreatedAt         time.Time `json:"createdAt"`
}

// EntryWithReflection is the composite returned by Create and Get.
type EntryWithReflection struct {
	MoodEntry       Entry             `json:"moodEntry"`
	AIReflection    *Reflection       `json:"aiReflection,omitempty"`
	Recommendations []recommend.Track `json:"recommendations"`
	Analysis        mood.Analysis     `json:"analysis"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// CreateInput is the user's mood submission.
type CreateInput struct {
	Text      string `json:"text"`
	Energy    int    `json:"energy"`
	Valence   int    `json:"valence"`
	Emoji     string `json:"emoji"`
	QuickMood string `json:"quickMood"`
}

// SaveInput requests a playlist snapshot. Empty fields are generated.
type SaveInput struct {
	MoodEntryID       int64  `json:"moodEntryId"`
	SpotifyPlaylistID string `json:"spotifyPlaylistId,omitempty"`
	PlaylistName      string `json:"playlistName"`
}

// State is the lifecycle position of an entry.
type State string

const (
	StateCreated    State = "created"
	StateRefreshing State = "refreshing"
	StateSaved      State = "saved"
)

// Warning codes attached to degraded creates.
const (
	WarnReflectionUnavailable     = "reflection_unavailable"
	WarnRecommendationUnavailable = "recommendation_unavailable"
)
