// Package clustering groups mood entries into phases using k-means over
// their normalized energy and valence.
package clustering

import (
	"time"

	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/mood"
)

// Point is one mood entry in normalized feature space.
type Point struct {
	EntryID int64
	Energy  float64
	Valence float64
	At      time.Time
}

// PointsFromEntries maps entries onto the unit square.
func PointsFromEntries(entries []journal.Entry) []Point {
	points := make([]Point, len(entries))
	for i, e := range entries {
		f := mood.Map(e.Energy, e.Valence)
		points[i] = Point{
			EntryID: e.ID,
			Energy:  f.Energy,
			Valence: f.Valence,
			At:      e.CreatedAt,
		}
	}
	return points
}
