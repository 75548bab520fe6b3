package generator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/asklet/asklet/internal/model"
)

// validateMCQ checks the semantic invariants of a multiple-choice
// question: non-empty text, exactly four options, and a non-empty
// correct answer that is one of the options.
func validateMCQ(q model.Question) error {
	if q.Text == "" || q.CorrectAns == "" {
		return fmt.Errorf("invalid question format: empty question or answer")
	}
	if len(q.Options) != model.MCQOptionCount {
		return fmt.Errorf("invalid question format: expected %d options, got %d", model.MCQOptionCount, len(q.Options))
	}
	if !slices.Contains(q.Options, q.CorrectAns) {
		return fmt.Errorf("correct answer %q is not in options", q.CorrectAns)
	}
	return nil
}

// normalizeFillBlank checks a fill-in-the-blank question, upgrading a
// three-underscore blank to the canonical marker before rejecting.
func normalizeFillBlank(q model.Question) (model.Question, error) {
	if q.Text == "" || q.CorrectAns == "" {
		return model.Question{}, fmt.Errorf("invalid question format: empty question or answer")
	}
	if !strings.Contains(q.Text, model.BlankMarker) {
		q.Text = strings.ReplaceAll(q.Text, "___", model.BlankMarker)
		if !strings.Contains(q.Text, model.BlankMarker) {
			return model.Question{}, fmt.Errorf("question missing blank marker %q", model.BlankMarker)
		}
	}
	return q, nil
}
