package model

import "time"

// QuestionKind identifies the shape of a generated question.
// The values are the wire strings clients see in the `type` field.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "MCQ"
	KindFillBlank      QuestionKind = "Fill in the blank"
)

// MCQOptionCount is the required number of options for a multiple-choice question.
const MCQOptionCount = 4

// BlankMarker is the literal token marking the fill-in position in a
// fill-in-the-blank question. Generated questions that use the shorter
// "___" form are normalized to this marker before validation.
const BlankMarker = "_____"

// Question is a single generated quiz question.
// Invariants: for KindMultipleChoice, Options has exactly MCQOptionCount
// entries and CorrectAns is one of them; for KindFillBlank, Text contains
// BlankMarker and Options is empty.
type Question struct {
	Kind       QuestionKind `json:"type"`
	Text       string       `json:"question"`
	Options    []string     `json:"options,omitempty"`
	CorrectAns string       `json:"correct_ans,omitempty"`
}

// Quiz is an ordered set of questions identified by an opaque id.
// Question order is presentation order; answer indices refer into it.
type Quiz struct {
	ID        string     `json:"quiz_id"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}

// Answer is a single submitted answer referencing a question by its
// zero-based index in the quiz.
type Answer struct {
	QuestionIndex int    `json:"question_index"`
	UserAnswer    string `json:"user_answer"`
}

// QuizResult is the scored outcome for one question.
type QuizResult struct {
	QuestionNo    int          `json:"question_no"`
	Question      string       `json:"question"`
	QuestionType  QuestionKind `json:"question_type"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	IsCorrect     bool         `json:"is_correct"`
	Options       []string     `json:"options,omitempty"`
}

// Evaluation is the scored comparison of a submitted answer set against
// a quiz. It is derived per request and never stored.
type Evaluation struct {
	Results        []QuizResult `json:"results"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	Percentage     float64      `json:"percentage"`
}
