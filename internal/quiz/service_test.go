package quiz

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/asklet/asklet/internal/llm"
	"github.com/asklet/asklet/internal/model"
	"github.com/asklet/asklet/internal/store"
)

const (
	validMCQ       = `{"question": "What is the capital of France?", "options": ["London", "Berlin", "Paris", "Madrid"], "correct_ans": "Paris"}`
	validFillBlank = `{"question": "The capital of France is _____.", "answer": "Paris"}`
)

var testCreds = Credentials{"GROQ1": "test-key"}

func newTestService(t *testing.T, responses ...llm.MockResponse) (*Service, *store.Memory, *llm.MockCompleter) {
	t.Helper()
	mem := store.NewMemory()
	mock := llm.NewMockCompleter(responses...)
	svc := NewService(mem, testCreds, Config{Timeout: time.Second}, func(string) llm.Completer {
		return mock
	})
	return svc, mem, mock
}

func mcqRequest(n int) model.QuizRequest {
	return model.QuizRequest{
		Topic:        "geometry",
		Level:        "high school",
		Difficulty:   "Easy",
		QuestionType: "Multiple choice",
		NumQuestions: n,
		APIKey:       "GROQ1",
	}
}

func TestCreateQuiz(t *testing.T) {
	svc, mem, _ := newTestService(t,
		llm.MockResponse{Content: validMCQ},
		llm.MockResponse{Content: validMCQ},
	)

	quiz, err := svc.CreateQuiz(context.Background(), mcqRequest(2))
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if quiz.ID == "" {
		t.Error("expected non-empty quiz id")
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	if quiz.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}

	stored, err := mem.GetQuiz(quiz.ID)
	if err != nil {
		t.Fatalf("GetQuiz after create: %v", err)
	}
	if !reflect.DeepEqual(stored.Questions, quiz.Questions) {
		t.Error("stored questions differ from returned questions")
	}
}

func TestCreateQuizUnknownSlot(t *testing.T) {
	svc, mem, mock := newTestService(t, llm.MockResponse{Content: validMCQ})

	req := mcqRequest(1)
	req.APIKey = "GROQ9"
	_, err := svc.CreateQuiz(context.Background(), req)

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Slot != "GROQ9" {
		t.Errorf("expected slot GROQ9 in error, got %q", cfgErr.Slot)
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no LLM calls, got %d", mock.CallCount())
	}
	if count, _ := mem.QuizCount(); count != 0 {
		t.Errorf("expected empty store, got %d quizzes", count)
	}
}

func TestCreateQuizAbortsOnGenerationFailure(t *testing.T) {
	// First question succeeds, second exhausts all three attempts.
	svc, mem, _ := newTestService(t,
		llm.MockResponse{Content: validMCQ},
		llm.MockResponse{Content: `bad`},
		llm.MockResponse{Content: `bad`},
		llm.MockResponse{Content: `bad`},
	)

	_, err := svc.CreateQuiz(context.Background(), mcqRequest(2))
	if err == nil {
		t.Fatal("expected error when a question fails to generate")
	}
	if count, _ := mem.QuizCount(); count != 0 {
		t.Errorf("no partial quiz may be stored, found %d", count)
	}
}

func TestCreateQuizLowercasesDifficulty(t *testing.T) {
	svc, _, mock := newTestService(t, llm.MockResponse{Content: validMCQ})

	if _, err := svc.CreateQuiz(context.Background(), mcqRequest(1)); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if !strings.Contains(mock.Prompts[0], "Generate a easy") {
		t.Errorf("expected lowercased difficulty in prompt, got %q", mock.Prompts[0][:40])
	}
}

func TestCreateQuizFillBlankKind(t *testing.T) {
	svc, _, _ := newTestService(t, llm.MockResponse{Content: validFillBlank})

	req := mcqRequest(1)
	req.QuestionType = "Fill in the blank"
	quiz, err := svc.CreateQuiz(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if quiz.Questions[0].Kind != model.KindFillBlank {
		t.Errorf("expected fill-in-the-blank kind, got %q", quiz.Questions[0].Kind)
	}
}

func seedQuiz(t *testing.T, mem *store.Memory, id string, questions ...model.Question) {
	t.Helper()
	err := mem.InsertQuiz(model.Quiz{ID: id, Questions: questions, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("seedQuiz: %v", err)
	}
}

var (
	parisMCQ = model.Question{
		Kind:       model.KindMultipleChoice,
		Text:       "What is the capital of France?",
		Options:    []string{"London", "Berlin", "Paris", "Madrid"},
		CorrectAns: "Paris",
	}
	parisBlank = model.Question{
		Kind:       model.KindFillBlank,
		Text:       "The capital of France is _____.",
		CorrectAns: "Paris",
	}
)

func TestEvaluateEqualityRules(t *testing.T) {
	tests := []struct {
		name       string
		question   model.Question
		userAnswer string
		want       bool
	}{
		{"mcq exact match", parisMCQ, "Paris", true},
		{"mcq is case-sensitive", parisMCQ, "paris", false},
		{"mcq no trimming", parisMCQ, " Paris ", false},
		{"mcq wrong answer", parisMCQ, "London", false},
		{"blank exact match", parisBlank, "Paris", true},
		{"blank case-insensitive", parisBlank, "paris", true},
		{"blank trims whitespace", parisBlank, " paris ", true},
		{"blank wrong answer", parisBlank, "London", false},
		{"blank empty answer", parisBlank, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mem, _ := newTestService(t)
			seedQuiz(t, mem, "q1", tt.question)

			ev, err := svc.Evaluate("q1", []model.Answer{{QuestionIndex: 0, UserAnswer: tt.userAnswer}})
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if got := ev.Results[0].IsCorrect; got != tt.want {
				t.Errorf("is_correct = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateMissingAnswerDefaultsEmpty(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seedQuiz(t, mem, "q1", parisMCQ, parisBlank)

	ev, err := svc.Evaluate("q1", []model.Answer{{QuestionIndex: 1, UserAnswer: "Paris"}})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Results[0].UserAnswer != "" {
		t.Errorf("expected empty answer for question 0, got %q", ev.Results[0].UserAnswer)
	}
	if ev.Results[0].IsCorrect {
		t.Error("missing answer must score incorrect")
	}
	if !ev.Results[1].IsCorrect {
		t.Error("answered question must score correct")
	}
	if ev.Score != 1 || ev.TotalQuestions != 2 || ev.Percentage != 50.0 {
		t.Errorf("got score=%d total=%d pct=%v", ev.Score, ev.TotalQuestions, ev.Percentage)
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seedQuiz(t, mem, "q1", parisMCQ)

	ev, err := svc.Evaluate("q1", []model.Answer{
		{QuestionIndex: 0, UserAnswer: "London"},
		{QuestionIndex: 0, UserAnswer: "Paris"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Results[0].UserAnswer != "London" {
		t.Errorf("expected first submitted answer to win, got %q", ev.Results[0].UserAnswer)
	}
	if ev.Results[0].IsCorrect {
		t.Error("first answer was wrong, result must be incorrect")
	}
}

func TestEvaluateToleratesOutOfRangeIndex(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seedQuiz(t, mem, "q1", parisMCQ)

	ev, err := svc.Evaluate("q1", []model.Answer{
		{QuestionIndex: 5, UserAnswer: "Paris"},
		{QuestionIndex: -1, UserAnswer: "Paris"},
		{QuestionIndex: 0, UserAnswer: "Paris"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(ev.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ev.Results))
	}
	if !ev.Results[0].IsCorrect {
		t.Error("valid index must still be scored")
	}
}

func TestEvaluateUnknownQuiz(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Evaluate("missing", nil)
	if !errors.Is(err, store.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seedQuiz(t, mem, "q1", parisMCQ, parisBlank)
	answers := []model.Answer{
		{QuestionIndex: 0, UserAnswer: "Paris"},
		{QuestionIndex: 1, UserAnswer: " PARIS "},
	}

	first, err := svc.Evaluate("q1", answers)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := svc.Evaluate("q1", answers)
	if err != nil {
		t.Fatalf("Evaluate (again): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated evaluation produced different results")
	}
	if first.Score != 2 || first.Percentage != 100.0 {
		t.Errorf("got score=%d pct=%v, want 2 and 100", first.Score, first.Percentage)
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY_1", "key-one")
	t.Setenv("GROQ_API_KEY_2", "")
	t.Setenv("GROQ_API_KEY_3", "key-three")
	t.Setenv("GROQ_API_KEY_4", "")

	creds := CredentialsFromEnv()
	if len(creds) != 2 {
		t.Fatalf("expected 2 configured slots, got %d", len(creds))
	}

	key, err := creds.Resolve("GROQ1")
	if err != nil || key != "key-one" {
		t.Errorf("Resolve(GROQ1) = %q, %v", key, err)
	}
	if _, err := creds.Resolve("GROQ2"); err == nil {
		t.Error("expected error for unconfigured slot")
	}
	if _, err := creds.Resolve("nonsense"); err == nil {
		t.Error("expected error for unknown slot")
	}
}
