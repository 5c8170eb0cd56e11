package llm

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for
// testing. It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	GetActionFunc func(ctx context.Context, prompt string) (Action, error)

	GetActionCalls []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GetAction(ctx context.Context, prompt string) (Action, error) {
	m.mu.Lock()
	m.GetActionCalls = append(m.GetActionCalls, prompt)
	fn := m.GetActionFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, prompt)
	}
	return Action{Kind: ActionMove, Value: "1"}, nil
}
