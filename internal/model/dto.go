package model

// QuizRequest is the body of POST /api/quiz/generate.
// QuestionType "Multiple choice" selects MCQ generation; any other value
// selects fill-in-the-blank. APIKey names a credential slot, not a secret.
type QuizRequest struct {
	Topic        string `json:"topic"`
	Level        string `json:"level"`
	Difficulty   string `json:"difficulty"`
	QuestionType string `json:"question_type"`
	NumQuestions int    `json:"num_questions"`
	APIKey       string `json:"api_key"`
}

// QuizResponse is the body of a successful generate call.
type QuizResponse struct {
	QuizID    string     `json:"quiz_id"`
	Questions []Question `json:"questions"`
}

// QuizSubmission is the body of POST /api/quiz/submit.
type QuizSubmission struct {
	QuizID  string   `json:"quiz_id"`
	Answers []Answer `json:"answers"`
}
