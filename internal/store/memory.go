package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/asklet/asklet/internal/model"
)

// Memory is a Store backed by a plain map. It is the fake store used in
// tests and is selectable at runtime with --db memory.
type Memory struct {
	mu      sync.RWMutex
	quizzes map[string]model.Quiz
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{quizzes: make(map[string]model.Quiz)}
}

// InsertQuiz stores a copy of the quiz, failing if the id already exists.
func (m *Memory) InsertQuiz(quiz model.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.quizzes[quiz.ID]; ok {
		return fmt.Errorf("insert quiz %s: id already exists", quiz.ID)
	}
	quiz.Questions = slices.Clone(quiz.Questions)
	m.quizzes[quiz.ID] = quiz
	return nil
}

// GetQuiz returns a copy of the quiz with the given id.
func (m *Memory) GetQuiz(id string) (model.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	quiz, ok := m.quizzes[id]
	if !ok {
		return model.Quiz{}, ErrQuizNotFound
	}
	quiz.Questions = slices.Clone(quiz.Questions)
	return quiz, nil
}

// QuizCount returns the number of stored quizzes.
func (m *Memory) QuizCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.quizzes), nil
}

func (m *Memory) Close() error { return nil }
