package recommend

import "context"

// StaticCatalog serves a fixed in-memory track list. It is used when no
// external catalog is configured and in tests.
type StaticCatalog struct {
	tracks []Track
}

// NewStaticCatalog creates a catalog over tracks. With no tracks it serves
// the built-in library.
func NewStaticCatalog(tracks ...Track) *StaticCatalog {
	if len(tracks) == 0 {
		tracks = builtinLibrary()
	}
	return &StaticCatalog{tracks: tracks}
}

// Candidates returns up to q.Limit tracks nearest to the target.
func (s *StaticCatalog) Candidates(_ context.Context, q Query) ([]Track, error) {
	return Rank(q.Target, s.tracks, nil, q.Limit), nil
}

type libraryEntry struct {
	id, name, artist string
	seconds          int
	energy, valence  float64
	popularity       int
}

var library = []libraryEntry{
	{"static-01", "Walking on Sunshine", "Katrina and the Waves", 239, 0.90, 0.95, 78},
	{"static-02", "Happy", "Pharrell Williams", 233, 0.82, 0.96, 85},
	{"static-03", "Uptown Funk", "Mark Ronson, Bruno Mars", 270, 0.61, 0.93, 88},
	{"static-04", "September", "Earth, Wind & Fire", 215, 0.83, 0.98, 83},
	{"static-05", "Good as Hell", "Lizzo", 159, 0.89, 0.47, 76},
	{"static-06", "Dancing Queen", "ABBA", 231, 0.87, 0.75, 84},
	{"static-07", "Here Comes the Sun", "The Beatles", 185, 0.54, 0.39, 86},
	{"static-08", "Banana Pancakes", "Jack Johnson", 191, 0.30, 0.72, 70},
	{"static-09", "Three Little Birds", "Bob Marley & The Wailers", 180, 0.50, 0.88, 79},
	{"static-10", "Sunday Morning", "Maroon 5", 245, 0.47, 0.75, 74},
	{"static-11", "Weightless", "Marconi Union", 480, 0.08, 0.15, 60},
	{"static-12", "Clair de Lune", "Claude Debussy", 300, 0.03, 0.10, 68},
	{"static-13", "Holocene", "Bon Iver", 337, 0.28, 0.15, 69},
	{"static-14", "River Flows in You", "Yiruma", 190, 0.12, 0.25, 72},
	{"static-15", "Someone Like You", "Adele", 285, 0.32, 0.29, 83},
	{"static-16", "Hurt", "Johnny Cash", 218, 0.21, 0.18, 75},
	{"static-17", "Mad World", "Gary Jules", 189, 0.06, 0.30, 73},
	{"static-18", "Fix You", "Coldplay", 295, 0.42, 0.12, 82},
	{"static-19", "Everybody Hurts", "R.E.M.", 320, 0.36, 0.16, 71},
	{"static-20", "Killing in the Name", "Rage Against the Machine", 314, 0.95, 0.30, 77},
	{"static-21", "Break Stuff", "Limp Bizkit", 167, 0.97, 0.36, 70},
	{"static-22", "Bodies", "Drowning Pool", 202, 0.98, 0.25, 69},
	{"static-23", "Smells Like Teen Spirit", "Nirvana", 301, 0.91, 0.72, 86},
	{"static-24", "Enter Sandman", "Metallica", 331, 0.83, 0.56, 80},
	{"static-25", "Breathe Me", "Sia", 273, 0.47, 0.11, 66},
	{"static-26", "Teardrop", "Massive Attack", 330, 0.48, 0.13, 71},
	{"static-27", "Paranoid Android", "Radiohead", 387, 0.56, 0.20, 74},
	{"static-28", "Stressed Out", "Twenty One Pilots", 202, 0.64, 0.65, 82},
	{"static-29", "Lovely Day", "Bill Withers", 254, 0.65, 0.70, 77},
	{"static-30", "Take Five", "The Dave Brubeck Quartet", 324, 0.26, 0.59, 72},
	{"static-31", "Redbone", "Childish Gambino", 327, 0.36, 0.57, 81},
	{"static-32", "Electric Feel", "MGMT", 229, 0.81, 0.56, 79},
	{"static-33", "Midnight City", "M83", 244, 0.71, 0.32, 78},
	{"static-34", "Intro", "The xx", 128, 0.69, 0.18, 73},
	{"static-35", "Nights", "Frank Ocean", 307, 0.55, 0.43, 80},
	{"static-36", "Dreams", "Fleetwood Mac", 257, 0.49, 0.79, 85},
	{"static-37", "Pink + White", "Frank Ocean", 184, 0.54, 0.55, 80},
	{"static-38", "Bloom", "The Paper Kites", 207, 0.19, 0.36, 68},
	{"static-39", "Experience", "Ludovico Einaudi", 315, 0.36, 0.05, 74},
	{"static-40", "Lose Yourself", "Eminem", 326, 0.74, 0.06, 84},
}

func builtinLibrary() []Track {
	tracks := make([]Track, len(library))
	for i, e := range library {
		seconds := e.seconds
		tracks[i] = Track{
			SpotifyTrackID: e.id,
			TrackName:      e.name,
			ArtistName:     e.artist,
			Duration:       &seconds,
			Energy:         e.energy,
			Valence:        e.valence,
			Popularity:     e.popularity,
		}
	}
	return tracks
}
