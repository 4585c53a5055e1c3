// Package reflection produces short supportive reflections on a mood entry,
// backed by a language model or by built-in templates.
package reflection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/justestif/go-mood-journal/internal/mood"
)

// ErrReflectionUnavailable is returned when no reflection could be produced.
var ErrReflectionUnavailable = errors.New("reflection unavailable")

// maxTextRunes caps how much of the user's text is sent to a model.
const maxTextRunes = 2000

// Request carries the mood input a reflection is written for.
type Request struct {
	Text      string
	Features  mood.Features
	QuickMood mood.QuickMood
	Category  mood.Category
}

// Generator writes a reflection for a mood entry.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// TextGenerator is a prompt-in, text-out language model.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// LLMGenerator writes reflections by prompting a TextGenerator.
type LLMGenerator struct {
	llm TextGenerator
}

// NewLLMGenerator creates a Generator over a language model.
func NewLLMGenerator(llm TextGenerator) *LLMGenerator {
	return &LLMGenerator{llm: llm}
}

// Generate prompts the model and returns its trimmed answer.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	text, err := g.llm.GenerateContent(ctx, BuildPrompt(req))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReflectionUnavailable, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty model response", ErrReflectionUnavailable)
	}
	return text, nil
}

// BuildPrompt renders the reflection prompt for a request.
func BuildPrompt(req Request) string {
	text := strings.TrimSpace(req.Text)
	if r := []rune(text); len(r) > maxTextRunes {
		text = string(r[:maxTextRunes])
	}

	var sb strings.Builder
	sb.WriteString("You are a warm, thoughtful journaling companion. ")
	sb.WriteString("Write a short reflection (two or three sentences) on the mood entry below. ")
	sb.WriteString("Acknowledge the feeling without judgement and offer one gentle, practical thought. ")
	sb.WriteString("Do not give medical advice. Reply with the reflection text only.\n\n")
	fmt.Fprintf(&sb, "Entry: %q\n", text)
	fmt.Fprintf(&sb, "Energy: %.1f of 1.0 (%s)\n", req.Features.Energy, mood.EnergyLabel(req.Features.Energy))
	fmt.Fprintf(&sb, "Positivity: %.1f of 1.0\n", req.Features.Valence)
	if req.Category != "" {
		fmt.Fprintf(&sb, "Overall mood: %s\n", req.Category)
	}
	if req.QuickMood != mood.QuickMoodNone {
		fmt.Fprintf(&sb, "They described themselves as: %s\n", req.QuickMood)
	}
	return sb.String()
}

// Fallback tries each generator in order and returns the first success.
type Fallback struct {
	generators []Generator
}

// NewFallback creates a chain of generators.
func NewFallback(generators ...Generator) *Fallback {
	return &Fallback{generators: generators}
}

// Generate returns the first successful reflection in the chain.
func (f *Fallback) Generate(ctx context.Context, req Request) (string, error) {
	var errs []error
	for _, g := range f.generators {
		text, err := g.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		log.Printf("WARN: reflection generator failed: %v", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrReflectionUnavailable
	}
	return "", fmt.Errorf("%w: %w", ErrReflectionUnavailable, errors.Join(errs...))
}
