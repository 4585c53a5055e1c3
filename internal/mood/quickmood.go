package mood

import "strings"

// QuickMood is the optional tag a user picks alongside the sliders.
type QuickMood string

// QuickMoodNone means no tag was selected.
const QuickMoodNone QuickMood = ""

const (
	QuickHappy    QuickMood = "happy"
	QuickExcited  QuickMood = "excited"
	QuickAnxious  QuickMood = "anxious"
	QuickCalm     QuickMood = "calm"
	QuickSad      QuickMood = "sad"
	QuickAngry    QuickMood = "angry"
	QuickConfused QuickMood = "confused"
	QuickPeaceful QuickMood = "peaceful"
)

// DefaultEmoji is used when the caller supplies no emoji.
const DefaultEmoji = "😊"

var quickMoodEmoji = map[QuickMood]string{
	QuickHappy:    "😊",
	QuickExcited:  "🤗",
	QuickAnxious:  "😰",
	QuickCalm:     "😌",
	QuickSad:      "😢",
	QuickAngry:    "😠",
	QuickConfused: "😕",
	QuickPeaceful: "🧘",
}

// QuickMoods lists the selectable tags in display order.
var QuickMoods = []QuickMood{
	QuickHappy, QuickExcited, QuickAnxious, QuickCalm,
	QuickSad, QuickAngry, QuickConfused, QuickPeaceful,
}

// ParseQuickMood normalizes a tag. Unknown values map to QuickMoodNone.
func ParseQuickMood(s string) QuickMood {
	q := QuickMood(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := quickMoodEmoji[q]; ok {
		return q
	}
	return QuickMoodNone
}

// Emoji returns the glyph the picker shows for this tag, or DefaultEmoji.
func (q QuickMood) Emoji() string {
	if e, ok := quickMoodEmoji[q]; ok {
		return e
	}
	return DefaultEmoji
}

// Label returns the tag with its first letter upper-cased.
func (q QuickMood) Label() string {
	if q == QuickMoodNone {
		return ""
	}
	s := string(q)
	return strings.ToUpper(s[:1]) + s[1:]
}
