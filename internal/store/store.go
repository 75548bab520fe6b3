// Package store owns quiz records for the lifetime of the process.
//
// Stores are insert-only: a quiz is written once under a freshly
// generated id and never mutated, so concurrent readers observe either
// "absent" or a fully populated quiz, never a partial one.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/asklet/asklet/internal/model"

	_ "modernc.org/sqlite"
)

// ErrQuizNotFound is returned when a quiz id is not in the store.
var ErrQuizNotFound = errors.New("quiz not found")

// Store is the quiz persistence abstraction the orchestrator depends on.
type Store interface {
	// InsertQuiz stores a quiz under its id. Inserting an id that
	// already exists is an error; records are never updated in place.
	InsertQuiz(quiz model.Quiz) error

	// GetQuiz returns the quiz with the given id, or ErrQuizNotFound.
	GetQuiz(id string) (model.Quiz, error)

	Close() error
}

// SQLite is a Store backed by a SQLite database. The default DSN
// ":memory:" keeps quizzes for the process lifetime only.
type SQLite struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and prepares the schema.
func New(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quizzes (
		id TEXT PRIMARY KEY,
		questions TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertQuiz stores a quiz. The questions are serialized as a single
// JSON document so the row becomes visible to readers atomically.
func (s *SQLite) InsertQuiz(quiz model.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO quizzes (id, questions, created_at) VALUES (?, ?, ?)`,
		quiz.ID, string(questions), quiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// GetQuiz returns a quiz by id.
func (s *SQLite) GetQuiz(id string) (model.Quiz, error) {
	var (
		quiz      model.Quiz
		questions string
		createdAt time.Time
	)
	err := s.db.QueryRow(
		`SELECT id, questions, created_at FROM quizzes WHERE id = ?`, id,
	).Scan(&quiz.ID, &questions, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quiz{}, ErrQuizNotFound
	}
	if err != nil {
		return model.Quiz{}, err
	}
	if err := json.Unmarshal([]byte(questions), &quiz.Questions); err != nil {
		return model.Quiz{}, fmt.Errorf("unmarshal questions for quiz %s: %w", id, err)
	}
	quiz.CreatedAt = createdAt
	return quiz, nil
}

// QuizCount returns the number of stored quizzes.
func (s *SQLite) QuizCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM quizzes`).Scan(&count)
	return count, err
}
