// Package report renders an evaluation as a paginated PDF document.
// Rendering is pure: the same evaluation always produces the same layout.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/asklet/asklet/internal/model"
)

// Page geometry, in points on a Letter page.
const (
	leftMargin   = 40.0
	topMargin    = 40.0
	bottomMargin = 60.0
	lineStep     = 15.0
	maxLineChars = 100
)

// Render produces the PDF bytes for an evaluation: a header with the
// score summary, then a block of lines per question result. A new page
// starts whenever the cursor would cross the bottom margin.
func Render(ev model.Evaluation) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	y := topMargin
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(leftMargin, y, "Quiz Results Report")
	y += 30

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(leftMargin, y, fmt.Sprintf("Score: %d/%d (%.1f%%)", ev.Score, ev.TotalQuestions, ev.Percentage))
	y += 30

	for _, result := range ev.Results {
		for _, line := range resultLines(result) {
			if line != "" {
				pdf.Text(leftMargin, y, truncate(line, maxLineChars))
				y += lineStep
			}
			if y > pageH-bottomMargin {
				pdf.AddPage()
				pdf.SetFont("Helvetica", "", 12)
				y = topMargin
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the attachment name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("quiz_result_%s.pdf", t.Format("20060102_150405"))
}

// resultLines builds the block of lines for one question result. Empty
// lines (no options) are skipped by the caller.
func resultLines(r model.QuizResult) []string {
	options := ""
	if len(r.Options) > 0 {
		options = "Options: " + strings.Join(r.Options, ", ")
	}
	verdict := "Incorrect"
	if r.IsCorrect {
		verdict = "Correct"
	}
	return []string{
		fmt.Sprintf("Question %d: %s", r.QuestionNo, r.Question),
		options,
		"Your Answer: " + r.UserAnswer,
		"Correct Answer: " + r.CorrectAnswer,
		"Result: " + verdict,
		strings.Repeat("-", 80),
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
