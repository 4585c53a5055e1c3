package clustering

import (
	"math"

	"github.com/justestif/go-mood-journal/internal/journal"
)

// Insights summarizes a window of recent entries.
type Insights struct {
	EntryCount     int     `json:"entryCount"`
	AverageEnergy  float64 `json:"averageEnergy"`  // 1-10 scale
	AverageValence float64 `json:"averageValence"` // 1-10 scale
	Phases         []Phase `json:"phases"`
	Summary        string  `json:"summary"`
}

// Summarize computes slider averages and mood phases for entries.
func Summarize(entries []journal.Entry, cfg Config) Insights {
	ins := Insights{
		EntryCount: len(entries),
		Phases:     []Phase{},
	}
	if len(entries) == 0 {
		ins.Summary = FormatPhaseSummary(nil, nil)
		return ins
	}

	var energy, valence int
	for _, e := range entries {
		energy += e.Energy
		valence += e.Valence
	}
	ins.AverageEnergy = roundTenth(float64(energy) / float64(len(entries)))
	ins.AverageValence = roundTenth(float64(valence) / float64(len(entries)))

	phases, outliers := DetectPhases(PointsFromEntries(entries), cfg)
	if phases != nil {
		ins.Phases = phases
	}
	ins.Summary = FormatPhaseSummary(phases, outliers)
	return ins
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
