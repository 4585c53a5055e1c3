package mood

// Analysis is the quantified view of a mood entry.
type Analysis struct {
	Energy           float64  `json:"energy"`
	Valence          float64  `json:"valence"`
	Category         Category `json:"category"`
	DominantEmotions []string `json:"dominantEmotions"`
	SuggestedGenres  []string `json:"suggestedGenres"`
	EnergyLabel      string   `json:"energyLabel"`
	Reflection       string   `json:"reflection,omitempty"` // set once a reflection exists
}

// Features returns the normalized target of the analysis.
func (a Analysis) Features() Features {
	return Features{Energy: a.Energy, Valence: a.Valence}
}

// DominantEmotion returns the emotion used to seed catalog queries.
func (a Analysis) DominantEmotion() string {
	if len(a.DominantEmotions) == 0 {
		return string(a.Category)
	}
	return a.DominantEmotions[0]
}

var categoryGenres = map[Category][]string{
	Excited:  {"dance", "pop", "edm"},
	Peaceful: {"ambient", "acoustic", "chill"},
	Happy:    {"pop", "indie-pop", "funk"},
	Angry:    {"metal", "rock", "punk"},
	Sad:      {"blues", "acoustic", "singer-songwriter"},
	Anxious:  {"ambient", "classical", "piano"},
	Tired:    {"chill", "jazz", "sleep"},
	Neutral:  {"indie", "alternative", "pop"},
}

// Genres returns the catalog genres associated with a category.
func Genres(c Category) []string {
	g, ok := categoryGenres[c]
	if !ok {
		g = categoryGenres[Neutral]
	}
	return append([]string(nil), g...)
}

// Analyze clamps the sliders, normalizes them and derives categorical tags.
// The classified category comes first among the dominant emotions, followed
// by the user's quick mood when it names something different.
func Analyze(energy, valence int, quick QuickMood) Analysis {
	energy, valence = Clamp(energy), Clamp(valence)
	f := Map(energy, valence)
	c := Classify(valence, energy)

	emotions := []string{string(c)}
	if quick != QuickMoodNone && string(quick) != string(c) {
		emotions = append(emotions, string(quick))
	}

	return Analysis{
		Energy:           f.Energy,
		Valence:          f.Valence,
		Category:         c,
		DominantEmotions: emotions,
		SuggestedGenres:  Genres(c),
		EnergyLabel:      EnergyLabel(f.Energy),
	}
}

// EnergyLabel buckets a normalized energy value for display.
func EnergyLabel(energy float64) string {
	switch {
	case energy <= 0:
		return "Unknown"
	case energy > 0.7:
		return "High Energy"
	case energy > 0.4:
		return "Medium Energy"
	default:
		return "Low Energy"
	}
}
