package reflection

import (
	"context"
	"fmt"

	"github.com/justestif/go-mood-journal/internal/mood"
)

var templates = map[mood.Category]string{
	mood.Excited:  "There's a bright, buzzing energy in what you wrote. Ride that momentum, and take a moment to notice what sparked it so you can find your way back here.",
	mood.Peaceful: "You sound settled and at ease right now. Moments like this are worth savoring slowly, so let yourself stay in it a little longer.",
	mood.Happy:    "It's good to hear things feel light today. Whatever is lifting you up, it might be worth sharing with someone who'd enjoy it too.",
	mood.Angry:    "That's a lot of heat to carry. Your frustration makes sense, and giving it somewhere to go, like a walk or loud music, can help it pass through.",
	mood.Sad:      "It sounds like today feels heavy. Be gentle with yourself, and remember that low moments are real but they are not permanent.",
	mood.Anxious:  "There's some unease running underneath your words. Try slowing your breathing for a minute and naming one thing that is within your control right now.",
	mood.Tired:    "You sound worn down. Rest is not something you have to earn, so give yourself permission to slow down where you can.",
	mood.Neutral:  "Things feel fairly even right now. Steady days are a good time to check in with yourself and notice what you need next.",
}

// TemplateGenerator writes reflections from built-in text keyed by mood
// category. It never fails and needs no network access.
type TemplateGenerator struct{}

// NewTemplateGenerator creates a template-backed Generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate returns the template for the request's category.
func (TemplateGenerator) Generate(_ context.Context, req Request) (string, error) {
	c := req.Category
	if c == "" {
		c = mood.Classify(int(req.Features.Valence*10+0.5), int(req.Features.Energy*10+0.5))
	}
	text, ok := templates[c]
	if !ok {
		text = templates[mood.Neutral]
	}
	if req.QuickMood != mood.QuickMoodNone && string(req.QuickMood) != string(c) {
		text = fmt.Sprintf("You named this feeling %q. %s", string(req.QuickMood), text)
	}
	return text, nil
}
