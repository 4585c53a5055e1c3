package mood

// Category is one of eight discrete moods derived from the (valence, energy) plane.
type Category string

const (
	Excited  Category = "excited"
	Peaceful Category = "peaceful"
	Happy    Category = "happy"
	Angry    Category = "angry"
	Sad      Category = "sad"
	Anxious  Category = "anxious"
	Tired    Category = "tired"
	Neutral  Category = "neutral"
)

// Categories lists every category in classification precedence order.
var Categories = []Category{Excited, Peaceful, Happy, Angry, Sad, Anxious, Tired, Neutral}

var categoryEmoji = map[Category]string{
	Excited:  "🤗",
	Peaceful: "😌",
	Happy:    "😊",
	Angry:    "😠",
	Sad:      "😢",
	Anxious:  "😰",
	Tired:    "😴",
	Neutral:  "😐",
}

// Classify maps slider values to a category. Rules are checked in order:
//
//   - valence >= 7: excited (energy >= 7), peaceful (energy < 5), else happy
//   - valence <= 3: angry (energy >= 7), sad (energy < 5), else anxious
//   - otherwise: tired (energy < 5), else neutral
//
// Every point of the [1,10]x[1,10] grid lands in exactly one category.
func Classify(valence, energy int) Category {
	switch {
	case valence >= 7 && energy >= 7:
		return Excited
	case valence >= 7 && energy < 5:
		return Peaceful
	case valence >= 7:
		return Happy
	case valence <= 3 && energy >= 7:
		return Angry
	case valence <= 3 && energy < 5:
		return Sad
	case valence <= 3:
		return Anxious
	case energy < 5:
		return Tired
	default:
		return Neutral
	}
}

// Emoji returns the display glyph for the category.
func (c Category) Emoji() string {
	if e, ok := categoryEmoji[c]; ok {
		return e
	}
	return categoryEmoji[Neutral]
}
