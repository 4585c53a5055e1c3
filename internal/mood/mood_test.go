package mood

import (
	"testing"
	"time"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name        string
		energy      int
		valence     int
		wantEnergy  float64
		wantValence float64
	}{
		{"minimum", 1, 1, 0.1, 0.1},
		{"midpoint", 5, 5, 0.5, 0.5},
		{"maximum", 10, 10, 1.0, 1.0},
		{"mixed", 9, 2, 0.9, 0.2},
		{"above range clamps to one", 15, 12, 1.0, 1.0},
		{"below range clamps to zero", -3, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.energy, tt.valence)
			if got.Energy != tt.wantEnergy {
				t.Errorf("Map(%d, %d).Energy = %v, want %v", tt.energy, tt.valence, got.Energy, tt.wantEnergy)
			}
			if got.Valence != tt.wantValence {
				t.Errorf("Map(%d, %d).Valence = %v, want %v", tt.energy, tt.valence, got.Valence, tt.wantValence)
			}
		})
	}
}

func TestMapRangeAndMonotonic(t *testing.T) {
	prev := Map(MinLevel, MinLevel)
	for v := MinLevel; v <= MaxLevel; v++ {
		f := Map(v, v)
		if f.Energy < 0 || f.Energy > 1 || f.Valence < 0 || f.Valence > 1 {
			t.Fatalf("Map(%d, %d) = %+v, out of [0,1]", v, v, f)
		}
		if f.Energy < prev.Energy || f.Valence < prev.Valence {
			t.Fatalf("Map not monotonic at %d: %+v < %+v", v, f, prev)
		}
		prev = f
	}

	// Each axis depends only on its own input.
	for e := MinLevel; e <= MaxLevel; e++ {
		base := Map(e, MinLevel)
		for v := MinLevel; v <= MaxLevel; v++ {
			if got := Map(e, v).Energy; got != base.Energy {
				t.Fatalf("energy changed with valence: Map(%d, %d).Energy = %v, want %v", e, v, got, base.Energy)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1}, {0, 1}, {1, 1}, {5, 5}, {10, 10}, {11, 10}, {100, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		valence int
		energy  int
		want    Category
	}{
		{"excited corner", 10, 10, Excited},
		{"excited boundary", 7, 7, Excited},
		{"peaceful", 8, 2, Peaceful},
		{"peaceful boundary", 7, 4, Peaceful},
		{"happy middle energy", 7, 5, Happy},
		{"happy energy six", 9, 6, Happy},
		{"angry", 2, 9, Angry},
		{"angry boundary", 3, 7, Angry},
		{"sad", 1, 1, Sad},
		{"sad boundary", 3, 4, Sad},
		{"anxious", 3, 5, Anxious},
		{"anxious energy six", 1, 6, Anxious},
		{"tired", 5, 2, Tired},
		{"tired boundary", 6, 4, Tired},
		{"neutral", 5, 5, Neutral},
		{"neutral high energy", 4, 10, Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.valence, tt.energy); got != tt.want {
				t.Errorf("Classify(%d, %d) = %s, want %s", tt.valence, tt.energy, got, tt.want)
			}
		})
	}
}

// band predicates restate each category's region without precedence, so the
// grid check below catches overlaps and gaps independently of Classify.
var bands = map[Category]func(v, e int) bool{
	Excited:  func(v, e int) bool { return v >= 7 && e >= 7 },
	Peaceful: func(v, e int) bool { return v >= 7 && e < 5 },
	Happy:    func(v, e int) bool { return v >= 7 && e >= 5 && e < 7 },
	Angry:    func(v, e int) bool { return v <= 3 && e >= 7 },
	Sad:      func(v, e int) bool { return v <= 3 && e < 5 },
	Anxious:  func(v, e int) bool { return v <= 3 && e >= 5 && e < 7 },
	Tired:    func(v, e int) bool { return v > 3 && v < 7 && e < 5 },
	Neutral:  func(v, e int) bool { return v > 3 && v < 7 && e >= 5 },
}

func TestClassifyPartitionsGrid(t *testing.T) {
	seen := make(map[Category]int)
	for v := MinLevel; v <= MaxLevel; v++ {
		for e := MinLevel; e <= MaxLevel; e++ {
			var matches []Category
			for _, c := range Categories {
				if bands[c](v, e) {
					matches = append(matches, c)
				}
			}
			if len(matches) != 1 {
				t.Fatalf("point (%d, %d) matches %v, want exactly one band", v, e, matches)
			}
			if got := Classify(v, e); got != matches[0] {
				t.Fatalf("Classify(%d, %d) = %s, band says %s", v, e, got, matches[0])
			}
			seen[matches[0]]++
		}
	}

	total := 0
	for _, c := range Categories {
		if seen[c] == 0 {
			t.Errorf("category %s never reached", c)
		}
		total += seen[c]
	}
	if total != 100 {
		t.Errorf("classified %d points, want 100", total)
	}
}

func TestCategoryEmoji(t *testing.T) {
	want := map[Category]string{
		Excited:  "🤗",
		Peaceful: "😌",
		Happy:    "😊",
		Angry:    "😠",
		Sad:      "😢",
		Anxious:  "😰",
		Tired:    "😴",
		Neutral:  "😐",
	}
	for c, e := range want {
		if got := c.Emoji(); got != e {
			t.Errorf("%s.Emoji() = %q, want %q", c, got, e)
		}
	}
	if got := Category("bogus").Emoji(); got != "😐" {
		t.Errorf("unknown category emoji = %q, want neutral", got)
	}
}

func TestParseQuickMood(t *testing.T) {
	tests := []struct {
		in   string
		want QuickMood
	}{
		{"happy", QuickHappy},
		{"  Calm ", QuickCalm},
		{"PEACEFUL", QuickPeaceful},
		{"", QuickMoodNone},
		{"elated", QuickMoodNone},
	}
	for _, tt := range tests {
		if got := ParseQuickMood(tt.in); got != tt.want {
			t.Errorf("ParseQuickMood(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := QuickConfused.Emoji(); got != "😕" {
		t.Errorf("QuickConfused.Emoji() = %q", got)
	}
	if got := QuickMoodNone.Emoji(); got != DefaultEmoji {
		t.Errorf("QuickMoodNone.Emoji() = %q, want default", got)
	}
	if got := QuickCalm.Label(); got != "Calm" {
		t.Errorf("QuickCalm.Label() = %q, want Calm", got)
	}
}

func TestAnalyze(t *testing.T) {
	a := Analyze(9, 9, QuickExcited)
	if a.Category != Excited {
		t.Errorf("Category = %s, want excited", a.Category)
	}
	if a.Energy != 0.9 || a.Valence != 0.9 {
		t.Errorf("features = (%v, %v), want (0.9, 0.9)", a.Energy, a.Valence)
	}
	if len(a.DominantEmotions) != 1 || a.DominantEmotions[0] != "excited" {
		t.Errorf("DominantEmotions = %v, want [excited]", a.DominantEmotions)
	}
	if a.EnergyLabel != "High Energy" {
		t.Errorf("EnergyLabel = %q", a.EnergyLabel)
	}
	if len(a.SuggestedGenres) == 0 {
		t.Error("SuggestedGenres is empty")
	}

	// Disagreeing quick mood is kept alongside the classified category.
	b := Analyze(10, 10, QuickCalm)
	if len(b.DominantEmotions) != 2 || b.DominantEmotions[1] != "calm" {
		t.Errorf("DominantEmotions = %v, want [excited calm]", b.DominantEmotions)
	}
	if b.DominantEmotion() != "excited" {
		t.Errorf("DominantEmotion() = %q, want excited", b.DominantEmotion())
	}

	// Out-of-range sliders are clamped before classification.
	c := Analyze(0, 42, QuickMoodNone)
	if c.Energy != 0.1 || c.Valence != 1.0 || c.Category != Peaceful {
		t.Errorf("Analyze(0, 42) = %+v", c)
	}
}

func TestGenresReturnsCopy(t *testing.T) {
	g := Genres(Sad)
	g[0] = "mutated"
	if Genres(Sad)[0] == "mutated" {
		t.Error("Genres returned shared slice")
	}
}

func TestEnergyLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Unknown"},
		{0.1, "Low Energy"},
		{0.4, "Low Energy"},
		{0.5, "Medium Energy"},
		{0.7, "Medium Energy"},
		{0.8, "High Energy"},
	}
	for _, tt := range tests {
		if got := EnergyLabel(tt.in); got != tt.want {
			t.Errorf("EnergyLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{213, "3:33"},
		{-4, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d ago"},
		{"older", time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), "Jan 15, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeAgo(tt.t, now); got != tt.want {
				t.Errorf("FormatTimeAgo() = %q, want %q", got, tt.want)
			}
		})
	}
}
