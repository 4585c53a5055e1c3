package lastfm

import "strconv"

// Tag represents a Last.fm tag with popularity count.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"` // Present in track.getTopTags, absent in artist.getTopTags
	URL   string `json:"url"`
}

// Image is an artwork link at one of Last.fm's fixed sizes.
type Image struct {
	URL  string `json:"#text"`
	Size string `json:"size"` // small, medium, large, extralarge
}

// ArtistRef is the artist block embedded in track listings.
type ArtistRef struct {
	Name string `json:"name"`
	MBID string `json:"mbid"`
	URL  string `json:"url"`
}

// TopTrack is one entry of tag.getTopTracks.
type TopTrack struct {
	Name     string    `json:"name"`
	Duration string    `json:"duration"` // seconds, "0" when unknown
	MBID     string    `json:"mbid"`
	URL      string    `json:"url"`
	Artist   ArtistRef `json:"artist"`
	Image    []Image   `json:"image"`
	Attr     struct {
		Rank string `json:"rank"`
	} `json:"@attr"`
}

// Seconds returns the parsed duration, or 0 if unknown.
func (t TopTrack) Seconds() int {
	n, err := strconv.Atoi(t.Duration)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Rank returns the 1-based chart position, or 0 if absent.
func (t TopTrack) Rank() int {
	n, _ := strconv.Atoi(t.Attr.Rank)
	return n
}

// LargestImage returns the URL of the biggest non-empty image.
func (t TopTrack) LargestImage() string {
	for i := len(t.Image) - 1; i >= 0; i-- {
		if t.Image[i].URL != "" {
			return t.Image[i].URL
		}
	}
	return ""
}

// trackTagsResponse is the JSON response for track.getTopTags.
type trackTagsResponse struct {
	TopTags struct {
		Tag  []Tag `json:"tag"`
		Attr struct {
			Artist string `json:"artist"`
			Track  string `json:"track"`
		} `json:"@attr"`
	} `json:"toptags"`
}

// artistTagsResponse is the JSON response for artist.getTopTags.
type artistTagsResponse struct {
	TopTags struct {
		Tag  []Tag `json:"tag"`
		Attr struct {
			Artist string `json:"artist"`
		} `json:"@attr"`
	} `json:"toptags"`
}

// topTracksResponse is the JSON response for tag.getTopTracks.
type topTracksResponse struct {
	Tracks struct {
		Track []TopTrack `json:"track"`
	} `json:"tracks"`
}

// apiError represents a Last.fm API error response.
type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}
