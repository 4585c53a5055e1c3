package clustering

// Quadrant thresholds in normalized space.
const (
	highEnergyThreshold  = 0.6
	highValenceThreshold = 0.5
)

// describePhase names a centroid using a 2x2 energy/valence quadrant system.
//
// Quadrants:
//   - High Energy + High Valence = "Upbeat & Bright"
//   - High Energy + Low Valence  = "Intense & Restless"
//   - Low Energy  + High Valence = "Calm & Content"
//   - Low Energy  + Low Valence  = "Reflective & Low"
func describePhase(energy, valence float64) (name, description string) {
	highEnergy := energy > highEnergyThreshold
	highValence := valence > highValenceThreshold

	switch {
	case highEnergy && highValence:
		return "Upbeat & Bright", "Energetic and positive stretches"
	case highEnergy && !highValence:
		return "Intense & Restless", "Driven but heavy, often stress or frustration"
	case !highEnergy && highValence:
		return "Calm & Content", "Relaxed and settled days"
	default: // low energy, low valence
		return "Reflective & Low", "Quiet, inward and lower in mood"
	}
}
