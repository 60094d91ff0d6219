package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

// MockLLM is a scripted domain.ChatClient for dev mode and tests. It replays
// the queued responses in order and records every request it received, so
// tests can assert how the conversation was assembled.
type MockLLM struct {
	mu        sync.Mutex
	responses []*domain.ChatResponse
	Requests  []domain.ChatRequest
	Err       error
}

func NewMockLLM(responses ...*domain.ChatResponse) *MockLLM {
	return &MockLLM{responses: responses}
}

func (m *MockLLM) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.responses) == 0 {
		// Default behavior: echo, so local mode still answers something.
		last := ""
		for _, msg := range req.Messages {
			if msg.Role == domain.RoleUser {
				last = msg.Text
			}
		}
		return &domain.ChatResponse{
			Text: fmt.Sprintf("You said: %q. (mock reply)", last),
		}, nil
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	return next, nil
}
