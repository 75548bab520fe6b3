// Package handler exposes the quiz service as a JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/asklet/asklet/internal/model"
	"github.com/asklet/asklet/internal/quiz"
	"github.com/asklet/asklet/internal/report"
	"github.com/asklet/asklet/internal/store"
)

const serviceName = "Asklet Quiz API"

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	service *quiz.Service

	// includeAnswers controls whether correct answers are serialized in
	// the generate response. On by default: the original product shipped
	// answers to the client, and the results page depends on them.
	includeAnswers bool
}

// New creates a new Handler.
func New(s *quiz.Service, includeAnswers bool) *Handler {
	return &Handler{service: s, includeAnswers: includeAnswers}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/api/health", h.handleHealth)
	r.Post("/api/quiz/generate", h.handleGenerate)
	r.Post("/api/quiz/submit", h.handleSubmit)
	r.Get("/api/quiz/{quizID}/download", h.handleDownload)
	r.Post("/api/quiz/{quizID}/pdf", h.handlePDF)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": serviceName + " is running"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": serviceName})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.NumQuestions < 1 {
		writeError(w, http.StatusBadRequest, "num_questions must be at least 1")
		return
	}

	result, err := h.service.CreateQuiz(r.Context(), req)
	if err != nil {
		slog.Error("quiz generation failed", "topic", req.Topic, "error", err)
		writeError(w, http.StatusInternalServerError, "Error generating quiz: "+err.Error())
		return
	}

	questions := result.Questions
	if !h.includeAnswers {
		questions = stripAnswers(questions)
	}
	writeJSON(w, http.StatusOK, model.QuizResponse{QuizID: result.ID, Questions: questions})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub model.QuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	evaluation, err := h.service.Evaluate(sub.QuizID, sub.Answers)
	if errors.Is(err, store.ErrQuizNotFound) {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, evaluation)
}

// handleDownload would serve the stored evaluation for a quiz, but
// evaluations are derived per submission and never retained, so a known
// quiz id answers 501 until the client resubmits via the pdf endpoint.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")

	if _, err := h.service.GetQuiz(quizID); err != nil {
		if errors.Is(err, store.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeError(w, http.StatusNotImplemented, "Download feature requires quiz submission first")
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	var evaluation model.Evaluation
	if err := json.NewDecoder(r.Body).Decode(&evaluation); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	pdf, err := report.Render(evaluation)
	if err != nil {
		slog.Error("PDF rendering failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := report.Filename(time.Now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename=`+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Error("write PDF response", "error", err)
	}
}

// stripAnswers returns copies of the questions with the correct answers
// removed, leaving the stored quiz untouched.
func stripAnswers(questions []model.Question) []model.Question {
	stripped := make([]model.Question, len(questions))
	for i, q := range questions {
		q.CorrectAns = ""
		stripped[i] = q
	}
	return stripped
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError sends the FastAPI-style {"detail": ...} error body the
// original frontend expects.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
