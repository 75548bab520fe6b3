// Package generator produces single quiz questions by prompting an LLM
// and validating the structured response, retrying the full round trip
// on parse or validation failure.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asklet/asklet/internal/llm"
	"github.com/asklet/asklet/internal/model"
)

// maxAttempts is the total number of LLM round trips per question before
// giving up.
const maxAttempts = 3

// GenerationError indicates that no valid question could be produced
// within the retry bound. It wraps the last attempt's failure.
type GenerationError struct {
	Kind     model.QuestionKind
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate valid %s question after %d attempts: %v", e.Kind, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator wraps a Completer with prompt construction, response
// validation, and a bounded retry loop.
type Generator struct {
	llm     llm.Completer
	timeout time.Duration
}

// New creates a Generator. timeout bounds each individual LLM call; a
// timed-out call counts as a failed attempt and is retried.
func New(c llm.Completer, timeout time.Duration) *Generator {
	return &Generator{llm: c, timeout: timeout}
}

// Generate produces one validated question of the given kind. Each
// attempt is a fresh LLM round trip; after maxAttempts failures the last
// error is returned wrapped in a GenerationError. Cancellation of ctx
// stops the loop immediately.
func (g *Generator) Generate(ctx context.Context, kind model.QuestionKind, topic, level, difficulty string) (model.Question, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		q, err := g.attempt(ctx, kind, topic, level, difficulty)
		if err == nil {
			return q, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return model.Question{}, ctx.Err()
		}
		slog.Debug("question attempt failed", "kind", kind, "attempt", attempt, "error", err)
	}

	return model.Question{}, &GenerationError{Kind: kind, Attempts: maxAttempts, Err: lastErr}
}

func (g *Generator) attempt(ctx context.Context, kind model.QuestionKind, topic, level, difficulty string) (model.Question, error) {
	var prompt string
	switch kind {
	case model.KindMultipleChoice:
		prompt = mcqPrompt(topic, level, difficulty)
	default:
		prompt = fillBlankPrompt(topic, level, difficulty)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.llm.Complete(callCtx, prompt)
	if err != nil {
		return model.Question{}, err
	}

	if kind == model.KindMultipleChoice {
		return parseMCQ(raw)
	}
	return parseFillBlank(raw)
}

// mcqOutput is the raw LLM response for a multiple-choice question.
type mcqOutput struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	CorrectAns string   `json:"correct_ans"`
}

// fillBlankOutput is the raw LLM response for a fill-in-the-blank question.
type fillBlankOutput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func parseMCQ(raw string) (model.Question, error) {
	var out mcqOutput
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return model.Question{}, fmt.Errorf("parse MCQ response: %w", err)
	}

	q := model.Question{
		Kind:       model.KindMultipleChoice,
		Text:       out.Question,
		Options:    out.Options,
		CorrectAns: out.CorrectAns,
	}
	if err := validateMCQ(q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func parseFillBlank(raw string) (model.Question, error) {
	var out fillBlankOutput
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return model.Question{}, fmt.Errorf("parse fill-in-the-blank response: %w", err)
	}

	q := model.Question{
		Kind:       model.KindFillBlank,
		Text:       out.Question,
		CorrectAns: out.Answer,
	}
	q, err := normalizeFillBlank(q)
	if err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// stripFences removes a surrounding markdown code fence, which some
// models emit despite the JSON-only instruction.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
