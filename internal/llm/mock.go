package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockResponse is a canned response for the MockCompleter.
type MockResponse struct {
	Content string
	Err     error
}

// MockCompleter is a deterministic Completer for testing.
// It returns canned responses in FIFO order and records all prompts.
type MockCompleter struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

// NewMockCompleter creates a MockCompleter with the given canned responses.
func NewMockCompleter(responses ...MockResponse) *MockCompleter {
	return &MockCompleter{responses: responses}
}

// Complete returns the next canned response, or an error if the queue is
// empty.
func (m *MockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock completer: no responses left")
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

// CallCount returns the number of Complete calls made.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
