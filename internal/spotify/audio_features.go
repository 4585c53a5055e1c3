package spotify

import (
	"context"
	"log"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-journal/internal/recommend"
)

// FetchAudioFeatures fills Energy and Valence for the given tracks in place.
// Batches requests to max 100 tracks per request per Spotify API limits.
// Tracks the API has no analysis for, including whole batches the API
// refuses, get deterministic features derived from their id.
func (c *Client) FetchAudioFeatures(ctx context.Context, tracks []recommend.Track) {
	if len(tracks) == 0 {
		return
	}

	ids := make([]spotify.ID, len(tracks))
	indexByID := make(map[string]int, len(tracks))
	for i, t := range tracks {
		ids[i] = spotify.ID(t.SpotifyTrackID)
		indexByID[t.SpotifyTrackID] = i
	}

	applied := make([]bool, len(tracks))
	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))

		features, err := c.api.GetAudioFeatures(ctx, ids[i:end]...)
		if err != nil {
			log.Printf("WARN: audio features %d-%d unavailable, using fallback: %v", i+1, end, err)
			continue
		}

		for _, f := range features {
			if f == nil || allFeaturesZero(f) {
				continue
			}
			idx, ok := indexByID[f.ID.String()]
			if !ok {
				continue
			}
			applyAudioFeatures(&tracks[idx], f)
			applied[idx] = true
		}
	}

	for i := range tracks {
		if !applied[i] {
			f := recommend.DeterministicFeatures(tracks[i].SpotifyTrackID)
			tracks[i].Energy = f.Energy
			tracks[i].Valence = f.Valence
		}
	}
}

// applyAudioFeatures copies the ranking features to a track.
func applyAudioFeatures(t *recommend.Track, f *spotify.AudioFeatures) {
	t.Energy = float64(f.Energy)
	t.Valence = float64(f.Valence)
}

func allFeaturesZero(f *spotify.AudioFeatures) bool {
	return f.Energy == 0 &&
		f.Valence == 0 &&
		f.Danceability == 0 &&
		f.Acousticness == 0 &&
		f.Tempo == 0
}
