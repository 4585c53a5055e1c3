package spotify

import (
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-journal/internal/recommend"
)

// convertTrack converts a Spotify FullTrack to a recommendation track.
// Artists are joined by ", ". Missing artwork and previews stay nil.
func convertTrack(ft spotify.FullTrack) recommend.Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}

	t := recommend.Track{
		SpotifyTrackID: ft.ID.String(),
		TrackName:      ft.Name,
		ArtistName:     strings.Join(artists, ", "),
		Popularity:     int(ft.Popularity),
	}

	if len(ft.Album.Images) > 0 && ft.Album.Images[0].URL != "" {
		url := ft.Album.Images[0].URL
		t.AlbumImageURL = &url
	}
	if ft.PreviewURL != "" {
		preview := ft.PreviewURL
		t.PreviewURL = &preview
	}
	if ms := int(ft.Duration); ms > 0 {
		seconds := ms / 1000
		t.Duration = &seconds
	}
	return t
}
