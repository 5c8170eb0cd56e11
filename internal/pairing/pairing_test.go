package pairing_test

import (
	"testing"
	"time"

	"github.com/llm-showdown/arena/internal/pairing"
	"github.com/llm-showdown/arena/internal/queue"
	"github.com/llm-showdown/arena/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStats struct {
	ratings   map[string]float64
	records   map[string]*rating.BotStats
	opponents map[string][]string
}

func (s *stubStats) Stats(id string) (*rating.BotStats, bool) {
	if rec, ok := s.records[id]; ok {
		return rec, true
	}
	if r, ok := s.ratings[id]; ok {
		rec := rating.NewBotStats(id)
		rec.Rating = r
		return rec, true
	}
	return nil, false
}

func (s *stubStats) RecentOpponents(id string, n int) []string {
	opps := s.opponents[id]
	if len(opps) > n {
		opps = opps[:n]
	}
	return opps
}

type stubActive struct {
	inactive map[string]bool
}

func (s *stubActive) IsActive(id string) bool { return !s.inactive[id] }

func request(id string) queue.MatchRequest {
	return queue.MatchRequest{
		ParticipantID: id,
		Format:        "gen9randombattle",
		MaxWaitTime:   5 * time.Minute,
		CreatedTime:   time.Now(),
	}
}

func TestEloProximityPairing(t *testing.T) {
	stats := &stubStats{ratings: map[string]float64{"low": 1000, "mid": 1190, "high": 1400}}
	p, err := pairing.New("elo", pairing.Options{Stats: stats, EloThreshold: 200})
	require.NoError(t, err)

	reqs := []queue.MatchRequest{request("low"), request("mid"), request("high")}
	pairings := p.CreatePairings(reqs, "gen9randombattle")

	// low and mid are 190 apart, high is 210 from mid and stays queued.
	require.Len(t, pairings, 1)
	got := map[string]bool{pairings[0].ParticipantA: true, pairings[0].ParticipantB: true}
	assert.True(t, got["low"])
	assert.True(t, got["mid"])
	assert.Equal(t, 1000-190, pairings[0].Priority)
}

func TestEloThresholdBoundary(t *testing.T) {
	stats := &stubStats{ratings: map[string]float64{"a": 1000, "b": 1200}}
	p, err := pairing.New("elo", pairing.Options{Stats: stats, EloThreshold: 200})
	require.NoError(t, err)

	// A gap of exactly the threshold still pairs.
	pairings := p.CreatePairings([]queue.MatchRequest{request("a"), request("b")}, "f")
	assert.Len(t, pairings, 1)
}

func TestEloUnknownParticipantsGetDefaultRating(t *testing.T) {
	p, err := pairing.New("elo", pairing.Options{Stats: &stubStats{}})
	require.NoError(t, err)

	pairings := p.CreatePairings([]queue.MatchRequest{request("a"), request("b")}, "f")
	require.Len(t, pairings, 1)
	assert.Equal(t, 1000, pairings[0].Priority)
}

func TestExclusionRespectedBothDirections(t *testing.T) {
	p, err := pairing.New("roundrobin", pairing.Options{})
	require.NoError(t, err)

	a := request("a")
	b := request("b")
	b.ExcludedOpponents = []string{"a"}

	// b excludes a: no pairing either way around.
	assert.Empty(t, p.CreatePairings([]queue.MatchRequest{a, b}, "f"))
	assert.Empty(t, p.CreatePairings([]queue.MatchRequest{b, a}, "f"))
}

func TestNoSelfPairing(t *testing.T) {
	p, err := pairing.New("roundrobin", pairing.Options{})
	require.NoError(t, err)

	pairings := p.CreatePairings([]queue.MatchRequest{request("a"), request("a")}, "f")
	assert.Empty(t, pairings)
}

func TestInactiveParticipantsNeverPaired(t *testing.T) {
	active := &stubActive{inactive: map[string]bool{"b": true}}
	p, err := pairing.New("random", pairing.Options{Active: active, Seed: 1})
	require.NoError(t, err)

	pairings := p.CreatePairings([]queue.MatchRequest{request("a"), request("b"), request("c")}, "f")
	require.Len(t, pairings, 1)
	got := map[string]bool{pairings[0].ParticipantA: true, pairings[0].ParticipantB: true}
	assert.False(t, got["b"])
}

func TestRandomPairingCoversAllParticipants(t *testing.T) {
	p, err := pairing.New("random", pairing.Options{Seed: 42})
	require.NoError(t, err)

	reqs := []queue.MatchRequest{request("a"), request("b"), request("c"), request("d")}
	pairings := p.CreatePairings(reqs, "f")

	require.Len(t, pairings, 2)
	seen := make(map[string]int)
	for _, pr := range pairings {
		assert.NotEqual(t, pr.ParticipantA, pr.ParticipantB)
		seen[pr.ParticipantA]++
		seen[pr.ParticipantB]++
		assert.Equal(t, 100, pr.Priority)
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, 1, seen[id], "participant %s should appear exactly once", id)
	}
}

func TestSwissSkipsRecentOpponents(t *testing.T) {
	rec := func(id string, wins, losses int) *rating.BotStats {
		s := rating.NewBotStats(id)
		s.Wins = wins
		s.Losses = losses
		return s
	}
	stats := &stubStats{
		records: map[string]*rating.BotStats{
			"a": rec("a", 4, 0),
			"b": rec("b", 3, 1),
			"c": rec("c", 1, 3),
		},
		opponents: map[string][]string{"a": {"b"}},
	}
	p, err := pairing.New("swiss", pairing.Options{Stats: stats})
	require.NoError(t, err)

	pairings := p.CreatePairings([]queue.MatchRequest{request("a"), request("b"), request("c")}, "f")

	// a would prefer b on standings but faced it recently, so a-c pairs.
	require.Len(t, pairings, 1)
	got := map[string]bool{pairings[0].ParticipantA: true, pairings[0].ParticipantB: true}
	assert.True(t, got["a"])
	assert.True(t, got["c"])
	assert.Equal(t, 200, pairings[0].Priority)
}

func TestRoundRobinAllUniquePairs(t *testing.T) {
	p, err := pairing.New("roundrobin", pairing.Options{})
	require.NoError(t, err)

	reqs := []queue.MatchRequest{request("a"), request("b"), request("c"), request("d")}
	pairings := p.CreatePairings(reqs, "f")

	require.Len(t, pairings, 6)
	unique := make(map[string]bool)
	for _, pr := range pairings {
		key := pr.ParticipantA + "|" + pr.ParticipantB
		assert.False(t, unique[key], "pair %s emitted twice", key)
		unique[key] = true
	}
}

func TestRegistryUnknownStrategy(t *testing.T) {
	_, err := pairing.New("bogus", pairing.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestRegistryListsStrategies(t *testing.T) {
	assert.Equal(t, []string{"elo", "random", "roundrobin", "swiss"}, pairing.Strategies())
}
