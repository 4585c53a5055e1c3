// Package affirmation picks or generates the daily affirmation shown next
// to the journal, toned by the user's recent moods.
package affirmation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/justestif/go-mood-journal/internal/cache"
	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/reflection"
)

// Tone groups affirmations by the recent mood they respond to.
type Tone string

const (
	ToneGentle Tone = "gentle" // recent valence is low
	ToneSteady Tone = "steady"
	ToneBright Tone = "bright" // recent valence is high
)

const cacheTTL = 24 * time.Hour

var affirmations = map[Tone][]string{
	ToneGentle: {
		"It is okay to move slowly today. Small steps still count.",
		"Your feelings are valid, and they will not last forever.",
		"You have made it through hard days before, and you can rest through this one.",
		"Be as kind to yourself today as you would be to a friend.",
		"Asking for support is a strength, not a weakness.",
	},
	ToneSteady: {
		"You are allowed to take up space and take your time.",
		"Noticing how you feel is already an act of care.",
		"Today does not need to be perfect to be good.",
		"You are learning what you need, one entry at a time.",
		"Balance is built from ordinary days like this one.",
	},
	ToneBright: {
		"Your energy is a gift. Share it and save a little for yourself.",
		"Remember this feeling. You helped create it.",
		"Let today's good moments remind you what matters to you.",
		"You are growing, and it shows.",
		"Celebrate the wins, even the small ones.",
	},
}

// Service returns the affirmation of the day.
type Service struct {
	llm   reflection.TextGenerator
	cache *cache.ReadThrough
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator enables model-written affirmations. The curated list is
// used whenever generation fails.
func WithGenerator(llm reflection.TextGenerator) Option {
	return func(s *Service) {
		s.llm = llm
	}
}

// WithCache stores generated affirmations for the rest of the day.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = cache.NewReadThrough(c)
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an affirmation service.
func New(opts ...Option) *Service {
	s := &Service{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewReadThrough(cache.NewMemory())
	}
	return s
}

// Today returns the affirmation for the current UTC day and the tone of
// recent entries. It never fails; generation errors fall back to the list.
func (s *Service) Today(ctx context.Context, recent []journal.Entry) string {
	day := s.now().UTC()
	tone := ToneFor(recent)

	if s.llm == nil {
		return Pick(tone, day)
	}

	key := fmt.Sprintf("affirmation:%s:%s", day.Format(time.DateOnly), tone)
	text, err := cache.Load(ctx, s.cache, key, cacheTTL, func(ctx context.Context) (string, error) {
		return s.generate(ctx, tone)
	})
	if err != nil {
		log.Printf("WARN: affirmation generation failed: %v", err)
		return Pick(tone, day)
	}
	return text
}

func (s *Service) generate(ctx context.Context, tone Tone) (string, error) {
	prompt := fmt.Sprintf(
		"Write one short, warm daily affirmation of at most 25 words for someone keeping a mood journal. "+
			"Their recent mood has been %s. Reply with the affirmation only, without quotes.",
		toneDescription(tone))

	text, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating affirmation: %w", err)
	}
	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" {
		return "", fmt.Errorf("generating affirmation: %w", reflection.ErrReflectionUnavailable)
	}
	return text, nil
}

// ToneFor derives the tone from the average valence of recent entries.
func ToneFor(recent []journal.Entry) Tone {
	if len(recent) == 0 {
		return ToneSteady
	}
	var sum int
	for _, e := range recent {
		sum += e.Valence
	}
	avg := float64(sum) / float64(len(recent))
	switch {
	case avg <= 4:
		return ToneGentle
	case avg >= 7:
		return ToneBright
	default:
		return ToneSteady
	}
}

// Pick returns the curated affirmation for a tone on a given day. The same
// day always yields the same text.
func Pick(tone Tone, day time.Time) string {
	list, ok := affirmations[tone]
	if !ok {
		list = affirmations[ToneSteady]
	}
	days := day.UTC().Unix() / int64(24*time.Hour/time.Second)
	return list[int(days%int64(len(list)))]
}

func toneDescription(tone Tone) string {
	switch tone {
	case ToneGentle:
		return "low and heavy, so be gentle and reassuring"
	case ToneBright:
		return "bright and energetic, so be celebratory"
	default:
		return "mixed, so be grounding and steady"
	}
}
