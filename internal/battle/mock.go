package battle

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for
// testing. It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	InitiateChallengeFunc func(ctx context.Context, challenger, opponent, format string) error
	AcceptChallengeFunc   func(ctx context.Context, opponent, challenger, format string) error
	EnterLadderFunc       func(ctx context.Context, participant string, n int) error
	CountersFunc          func(ctx context.Context, participant string) (Counters, error)

	// Call records
	InitiateChallengeCalls [][3]string
	AcceptChallengeCalls   [][3]string
	EnterLadderCalls       []string
	CountersCalls          []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitiateChallengeCalls = nil
	m.AcceptChallengeCalls = nil
	m.EnterLadderCalls = nil
	m.CountersCalls = nil
}

func (m *MockClient) InitiateChallenge(ctx context.Context, challenger, opponent, format string) error {
	m.mu.Lock()
	m.InitiateChallengeCalls = append(m.InitiateChallengeCalls, [3]string{challenger, opponent, format})
	fn := m.InitiateChallengeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, challenger, opponent, format)
	}
	return nil
}

func (m *MockClient) AcceptChallenge(ctx context.Context, opponent, challenger, format string) error {
	m.mu.Lock()
	m.AcceptChallengeCalls = append(m.AcceptChallengeCalls, [3]string{opponent, challenger, format})
	fn := m.AcceptChallengeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, opponent, challenger, format)
	}
	return nil
}

func (m *MockClient) EnterLadder(ctx context.Context, participant string, n int) error {
	m.mu.Lock()
	m.EnterLadderCalls = append(m.EnterLadderCalls, participant)
	fn := m.EnterLadderFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, participant, n)
	}
	return nil
}

func (m *MockClient) Counters(ctx context.Context, participant string) (Counters, error) {
	m.mu.Lock()
	m.CountersCalls = append(m.CountersCalls, participant)
	fn := m.CountersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, participant)
	}
	return Counters{}, nil
}
