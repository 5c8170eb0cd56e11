package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	matchesStarted   int
	matchesCompleted int
	matchesFailed    int
	pairingsCreated  map[string]int
	requestsExpired  int
	matchDurations   []float64
	queueSize        float64
	matchesInFlight  float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		pairingsCreated: make(map[string]int),
		matchDurations:  make([]float64, 0),
	}
}

func (m *Mock) IncMatchesStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesStarted++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncMatchesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFailed++
}

func (m *Mock) IncPairingsCreated(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairingsCreated[strategy]++
}

func (m *Mock) IncRequestsExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsExpired++
}

func (m *Mock) ObserveMatchDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchDurations = append(m.matchDurations, seconds)
}

func (m *Mock) SetQueueSize(size float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueSize = size
}

func (m *Mock) SetMatchesInFlight(count float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesInFlight = count
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesStarted returns the number of times IncMatchesStarted was called.
func (m *Mock) MatchesStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesStarted
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// MatchesFailed returns the number of times IncMatchesFailed was called.
func (m *Mock) MatchesFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFailed
}

// PairingsCreated returns the number of pairings recorded for a strategy.
func (m *Mock) PairingsCreated(strategy string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pairingsCreated[strategy]
}

// RequestsExpired returns the number of times IncRequestsExpired was called.
func (m *Mock) RequestsExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestsExpired
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// MockStore is an in-memory MetricsStore for testing.
type MockStore struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMockStore creates a new mock store instance.
func NewMockStore() *MockStore {
	return &MockStore{counters: make(map[string]int)}
}

func (m *MockStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

func (m *MockStore) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}
