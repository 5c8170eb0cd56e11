package leaderboard

import (
	"sync"

	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/rating"
)

// MockStore is a mock implementation of the LeaderboardStore
// interface for testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	RecordMatchFunc     func(result battle.MatchResult) (bool, error)
	UpsertRatingFunc    func(stats *rating.BotStats) error
	StatsFunc           func(id string) (*rating.BotStats, bool)
	RecentOpponentsFunc func(id string, n int) []string
	QueryFunc           func(opts QueryOptions) ([]Entry, error)
	BattleStatsFunc     func(format string) (*BattleStats, error)
	SnapshotFunc        func() (*Snapshot, error)
	RestoreFunc         func(snap *Snapshot) error
	SaveSnapshotFunc    func(path string) error
	LoadSnapshotFunc    func(path string) error

	// Call records
	RecordMatchCalls  []battle.MatchResult
	UpsertRatingCalls []*rating.BotStats
	QueryCalls        []QueryOptions
	SaveSnapshotCalls []string
}

var _ LeaderboardStore = (*MockStore)(nil)

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) RecordMatch(result battle.MatchResult) (bool, error) {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, result)
	fn := m.RecordMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(result)
	}
	return true, nil
}

func (m *MockStore) UpsertRating(stats *rating.BotStats) error {
	m.mu.Lock()
	m.UpsertRatingCalls = append(m.UpsertRatingCalls, stats)
	fn := m.UpsertRatingFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(stats)
	}
	return nil
}

func (m *MockStore) Stats(id string) (*rating.BotStats, bool) {
	m.mu.Lock()
	fn := m.StatsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(id)
	}
	return nil, false
}

func (m *MockStore) RecentOpponents(id string, n int) []string {
	m.mu.Lock()
	fn := m.RecentOpponentsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(id, n)
	}
	return nil
}

func (m *MockStore) Query(opts QueryOptions) ([]Entry, error) {
	m.mu.Lock()
	m.QueryCalls = append(m.QueryCalls, opts)
	fn := m.QueryFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(opts)
	}
	return nil, nil
}

func (m *MockStore) BattleStats(format string) (*BattleStats, error) {
	m.mu.Lock()
	fn := m.BattleStatsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(format)
	}
	return &BattleStats{FormatCounts: map[string]int{}}, nil
}

func (m *MockStore) Snapshot() (*Snapshot, error) {
	m.mu.Lock()
	fn := m.SnapshotFunc
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return &Snapshot{}, nil
}

func (m *MockStore) Restore(snap *Snapshot) error {
	m.mu.Lock()
	fn := m.RestoreFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(snap)
	}
	return nil
}

func (m *MockStore) SaveSnapshot(path string) error {
	m.mu.Lock()
	m.SaveSnapshotCalls = append(m.SaveSnapshotCalls, path)
	fn := m.SaveSnapshotFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(path)
	}
	return nil
}

func (m *MockStore) LoadSnapshot(path string) error {
	m.mu.Lock()
	fn := m.LoadSnapshotFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(path)
	}
	return nil
}
