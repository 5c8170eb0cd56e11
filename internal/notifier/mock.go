package notifier

import (
	"sync"

	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/leaderboard"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchResultFunc func(result *battle.MatchResult, dryRun bool) error
	SendLeaderboardFunc func(entries []leaderboard.Entry, dryRun bool) error

	// Call records
	SendMatchResultCalls []*battle.MatchResult
	SendLeaderboardCalls [][]leaderboard.Entry
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendMatchResult(result *battle.MatchResult, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, result)
	fn := m.SendMatchResultFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(result, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(entries []leaderboard.Entry, dryRun bool) error {
	m.mu.Lock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	fn := m.SendLeaderboardFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(entries, dryRun)
	}
	return nil
}
