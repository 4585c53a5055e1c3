package clustering

import (
	"log"
	"slices"
	"time"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Config holds phase clustering parameters.
type Config struct {
	NumClusters    int // Number of clusters to create (default: 3)
	MinClusterSize int // Minimum entries per phase (smaller clusters become outliers)
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		NumClusters:    3,
		MinClusterSize: 2,
	}
}

// Phase is a cluster of entries with a similar mood.
type Phase struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Energy      float64   `json:"energy"`  // centroid
	Valence     float64   `json:"valence"` // centroid
	EntryIDs    []int64   `json:"entryIds"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// pointObservation wraps a Point to implement clusters.Observation.
type pointObservation struct {
	point  Point
	coords clusters.Coordinates
}

func (o pointObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o pointObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// DetectPhases groups points by mood similarity using k-means clustering.
// Returns phases ordered by most recent activity and the points that did
// not fall into a large enough cluster.
func DetectPhases(points []Point, cfg Config) ([]Phase, []Point) {
	if len(points) == 0 {
		return nil, nil
	}

	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultConfig().NumClusters
	}
	if cfg.MinClusterSize <= 0 {
		cfg.MinClusterSize = 1
	}

	// Fewer points than clusters: nothing to group.
	if len(points) < cfg.NumClusters {
		return nil, slices.Clone(points)
	}

	var obs clusters.Observations
	for _, p := range points {
		obs = append(obs, pointObservation{
			point:  p,
			coords: clusters.Coordinates{p.Energy, p.Valence},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		log.Printf("WARN: k-means clustering failed: %v", err)
		return nil, slices.Clone(points)
	}

	var phases []Phase
	var outliers []Point

	for _, cluster := range result {
		var members []Point
		for _, o := range cluster.Observations {
			if po, ok := o.(pointObservation); ok {
				members = append(members, po.point)
			}
		}
		if len(members) == 0 {
			continue
		}
		if len(members) < cfg.MinClusterSize {
			outliers = append(outliers, members...)
			continue
		}

		slices.SortFunc(members, func(a, b Point) int {
			return a.At.Compare(b.At)
		})

		ids := make([]int64, len(members))
		for i, m := range members {
			ids[i] = m.EntryID
		}

		energy, valence := cluster.Center[0], cluster.Center[1]
		name, description := describePhase(energy, valence)
		phases = append(phases, Phase{
			Name:        name,
			Description: description,
			Energy:      energy,
			Valence:     valence,
			EntryIDs:    ids,
			Start:       members[0].At,
			End:         members[len(members)-1].At,
		})
	}

	// Most recent phase first
	slices.SortFunc(phases, func(a, b Phase) int {
		return b.End.Compare(a.End)
	})

	return phases, outliers
}
