// Package quiz orchestrates question generation and answer evaluation.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asklet/asklet/internal/generator"
	"github.com/asklet/asklet/internal/llm"
	"github.com/asklet/asklet/internal/model"
	"github.com/asklet/asklet/internal/store"
)

// Config holds the LLM connection parameters shared by all generation
// requests. The API key itself comes from the per-request credential slot.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration // per LLM call
}

// CompleterFactory builds a Completer bound to one API key. Each create
// request gets its own client session.
type CompleterFactory func(apiKey string) llm.Completer

// Service is the quiz orchestrator. It generates questions through the
// generator, assigns quiz ids, persists quizzes, and scores submissions.
type Service struct {
	store        store.Store
	creds        Credentials
	cfg          Config
	newCompleter CompleterFactory
}

// NewService creates a Service. A nil factory wires the real LLM client.
func NewService(st store.Store, creds Credentials, cfg Config, factory CompleterFactory) *Service {
	if factory == nil {
		factory = func(apiKey string) llm.Completer {
			return llm.New(cfg.BaseURL, apiKey, cfg.Model, cfg.Temperature)
		}
	}
	return &Service{store: st, creds: creds, cfg: cfg, newCompleter: factory}
}

// CreateQuiz generates req.NumQuestions questions and stores them under a
// fresh quiz id. Any single generation failure aborts the whole request;
// no partial quiz is ever stored.
func (s *Service) CreateQuiz(ctx context.Context, req model.QuizRequest) (*model.Quiz, error) {
	key, err := s.creds.Resolve(req.APIKey)
	if err != nil {
		return nil, err
	}

	kind := model.KindFillBlank
	if req.QuestionType == "Multiple choice" {
		kind = model.KindMultipleChoice
	}

	gen := generator.New(s.newCompleter(key), s.cfg.Timeout)
	difficulty := strings.ToLower(req.Difficulty)

	questions := make([]model.Question, 0, req.NumQuestions)
	for i := 0; i < req.NumQuestions; i++ {
		q, err := gen.Generate(ctx, kind, req.Topic, req.Level, difficulty)
		if err != nil {
			return nil, fmt.Errorf("generate question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}

	quiz := &model.Quiz{
		ID:        uuid.NewString(),
		Questions: questions,
		CreatedAt: time.Now(),
	}
	if err := s.store.InsertQuiz(*quiz); err != nil {
		return nil, fmt.Errorf("store quiz: %w", err)
	}

	slog.Info("quiz created", "quiz_id", quiz.ID, "kind", kind, "questions", len(questions), "topic", req.Topic)
	return quiz, nil
}

// Evaluate scores a submitted answer set against the stored quiz.
// For each question the first answer referencing its index wins; a
// question with no matching answer scores as an empty, incorrect answer.
func (s *Service) Evaluate(quizID string, answers []model.Answer) (*model.Evaluation, error) {
	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	results := make([]model.QuizResult, 0, len(quiz.Questions))
	score := 0

	for i, q := range quiz.Questions {
		userAnswer := ""
		for _, a := range answers {
			if a.QuestionIndex == i {
				userAnswer = a.UserAnswer
				break
			}
		}

		isCorrect := answerMatches(q, userAnswer)
		if isCorrect {
			score++
		}

		results = append(results, model.QuizResult{
			QuestionNo:    i + 1,
			Question:      q.Text,
			QuestionType:  q.Kind,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAns,
			IsCorrect:     isCorrect,
			Options:       q.Options,
		})
	}

	total := len(quiz.Questions)
	percentage := 0.0
	if total > 0 {
		percentage = float64(score) / float64(total) * 100
	}

	return &model.Evaluation{
		Results:        results,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
	}, nil
}

// GetQuiz returns a stored quiz by id.
func (s *Service) GetQuiz(quizID string) (model.Quiz, error) {
	return s.store.GetQuiz(quizID)
}

// answerMatches applies the per-kind equality rule: multiple choice is an
// exact, case-sensitive match; fill-in-the-blank trims surrounding
// whitespace and lowercases both sides.
func answerMatches(q model.Question, userAnswer string) bool {
	if q.Kind == model.KindMultipleChoice {
		return userAnswer == q.CorrectAns
	}
	return strings.ToLower(strings.TrimSpace(userAnswer)) == strings.ToLower(strings.TrimSpace(q.CorrectAns))
}
