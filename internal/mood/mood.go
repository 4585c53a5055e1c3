// Package mood maps raw mood input onto normalized audio-feature targets
// and discrete mood categories.
package mood

const (
	// MinLevel and MaxLevel bound the energy and valence sliders.
	MinLevel = 1
	MaxLevel = 10
)

// Features is a normalized (energy, valence) target on the catalog's 0-1 scale.
type Features struct {
	Energy  float64 `json:"energy"`
	Valence float64 `json:"valence"`
}

// Clamp bounds a slider value to [MinLevel, MaxLevel].
func Clamp(v int) int {
	return max(MinLevel, min(MaxLevel, v))
}

// Map scales slider values onto [0,1] by dividing by ten.
// Out-of-range input is clamped rather than rejected.
func Map(energy, valence int) Features {
	return Features{
		Energy:  normalize(energy),
		Valence: normalize(valence),
	}
}

func normalize(v int) float64 {
	return max(0, min(1, float64(v)/10))
}
