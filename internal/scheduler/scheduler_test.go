package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/metrics"
	"github.com/llm-showdown/arena/internal/notifier"
	"github.com/llm-showdown/arena/internal/pairing"
	"github.com/llm-showdown/arena/internal/pubsub"
	"github.com/llm-showdown/arena/internal/queue"
	"github.com/llm-showdown/arena/internal/rating"
	"github.com/llm-showdown/arena/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner is a MatchRunner that resolves matches instantly.
type stubRunner struct {
	mu      sync.Mutex
	active  map[string]bool
	runFunc func(ctx context.Context, p pairing.Pairing) (*battle.MatchResult, error)
	calls   []pairing.Pairing
}

func newStubRunner() *stubRunner {
	return &stubRunner{active: make(map[string]bool)}
}

func (r *stubRunner) RunMatch(ctx context.Context, p pairing.Pairing) (*battle.MatchResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, p)
	fn := r.runFunc
	r.mu.Unlock()
	if fn != nil {
		return fn(ctx, p)
	}
	return &battle.MatchResult{
		MatchID:      uuid.New().String(),
		ParticipantA: p.ParticipantA,
		ParticipantB: p.ParticipantB,
		Winner:       p.ParticipantA,
		Outcome:      battle.OutcomeWin,
		Format:       p.Format,
		Duration:     time.Minute,
		Timestamp:    time.Now(),
	}, nil
}

func (r *stubRunner) IsActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[id]
}

func (r *stubRunner) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.active {
		if a {
			n++
		}
	}
	return n
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fixture struct {
	sched  *scheduler.Scheduler
	runner *stubRunner
	store  *leaderboard.MockStore
	notes  *notifier.Mock
	events *pubsub.MockPubSubClient
	q      queue.MatchQueue
}

func newFixture(t *testing.T, bots []string, maxConcurrent int) *fixture {
	return newStrategyFixture(t, "random", bots, maxConcurrent)
}

func newStrategyFixture(t *testing.T, strategy string, bots []string, maxConcurrent int) *fixture {
	t.Helper()
	pairer, err := pairing.New(strategy, pairing.Options{Seed: 7})
	require.NoError(t, err)

	f := &fixture{
		runner: newStubRunner(),
		store:  leaderboard.NewMockStore(),
		notes:  notifier.NewMock(),
		events: pubsub.NewMock(),
		q:      queue.NewQueue(100),
	}
	f.sched = scheduler.New(
		f.q, pairer, f.store, f.runner,
		metrics.NewMock(), metrics.NewMockStore(), f.notes, f.events,
		scheduler.Config{
			Bots:                 bots,
			Format:               "gen9randombattle",
			Interval:             time.Hour,
			MaxConcurrentMatches: maxConcurrent,
			MaxWaitTime:          5 * time.Minute,
		},
	)
	return f
}

func TestRunCycleAppliesResults(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)

	f.sched.RunCycle(context.Background(), "")

	require.Equal(t, 1, f.runner.callCount())
	require.Len(t, f.store.RecordMatchCalls, 1)
	require.Len(t, f.store.UpsertRatingCalls, 2)

	byID := map[string]*rating.BotStats{}
	for _, delta := range f.store.UpsertRatingCalls {
		byID[delta.ID] = delta
	}
	winner := f.store.RecordMatchCalls[0].Winner
	loser := "alpha"
	if winner == "alpha" {
		loser = "beta"
	}

	assert.Equal(t, 1, byID[winner].Wins)
	assert.Greater(t, byID[winner].Rating, rating.DefaultRating)
	assert.Equal(t, 1, byID[winner].CurrentStreak)
	assert.Equal(t, 1, byID[loser].Losses)
	assert.Less(t, byID[loser].Rating, rating.DefaultRating)

	require.Len(t, f.notes.SendMatchResultCalls, 1)
	require.NotEmpty(t, f.events.SendMessageCalls)
	assert.Equal(t, string(pubsub.EventMatchCompleted), f.events.SendMessageCalls[0].Topic)
}

func TestRunCycleReplayedMatchChangesNothing(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)
	f.store.RecordMatchFunc = func(result battle.MatchResult) (bool, error) {
		return false, nil
	}

	f.sched.RunCycle(context.Background(), "")

	assert.Empty(t, f.store.UpsertRatingCalls)
	assert.Empty(t, f.notes.SendMatchResultCalls)
}

func TestRunCycleInconclusiveLeavesRatingAlone(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)
	f.runner.runFunc = func(_ context.Context, p pairing.Pairing) (*battle.MatchResult, error) {
		return &battle.MatchResult{
			MatchID:      uuid.New().String(),
			ParticipantA: p.ParticipantA,
			ParticipantB: p.ParticipantB,
			Outcome:      battle.OutcomeInconclusive,
			Format:       p.Format,
			Timestamp:    time.Now(),
		}, battle.ErrUnknownOutcome
	}

	f.sched.RunCycle(context.Background(), "")

	require.Len(t, f.store.UpsertRatingCalls, 2)
	for _, delta := range f.store.UpsertRatingCalls {
		assert.Equal(t, rating.DefaultRating, delta.Rating)
		assert.Equal(t, 1, delta.Draws)
		assert.Equal(t, 0, delta.Wins)
	}
}

func TestRunCycleRespectsConcurrencyBudget(t *testing.T) {
	bots := []string{"a", "b", "c", "d", "e", "f"}
	f := newFixture(t, bots, 2)

	f.sched.RunCycle(context.Background(), "")

	// Three pairings were possible but only two matches may start.
	assert.Equal(t, 2, f.runner.callCount())
}

func TestRunCycleKeepsUnstartedPairingsQueued(t *testing.T) {
	// Rating ties keep the elo pairing order deterministic: a-b then
	// c-d.
	f := newStrategyFixture(t, "elo", []string{"a", "b", "c", "d"}, 1)

	f.sched.RunCycle(context.Background(), "")

	// One pairing started and consumed its requests; the other pair
	// stays queued instead of being dropped.
	assert.Equal(t, 1, f.runner.callCount())
	assert.Equal(t, 2, f.q.Len())

	f.sched.RunCycle(context.Background(), "")
	assert.Equal(t, 2, f.runner.callCount())
}

func TestRefillKeepsQueuedRequestAge(t *testing.T) {
	f := newFixture(t, []string{"solo"}, 3)

	f.sched.RunCycle(context.Background(), "")
	reqs := f.q.GroupByFormat()["gen9randombattle"]
	require.Len(t, reqs, 1)
	created := reqs[0].CreatedTime

	time.Sleep(5 * time.Millisecond)
	f.sched.RunCycle(context.Background(), "")

	// The unpaired request was not re-enqueued, so its wait budget
	// keeps aging from the original submission time.
	reqs = f.q.GroupByFormat()["gen9randombattle"]
	require.Len(t, reqs, 1)
	assert.Equal(t, created, reqs[0].CreatedTime)
}

func TestRunCycleSkipsBusyParticipants(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)
	f.runner.active["alpha"] = true

	f.sched.RunCycle(context.Background(), "")

	// alpha is mid-match, leaving beta alone in the queue.
	assert.Equal(t, 0, f.runner.callCount())
}

func TestStartMatchNowRejectsSecondPending(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)

	require.NoError(t, f.sched.StartMatchNow("gen9ou"))
	assert.Error(t, f.sched.StartMatchNow("gen9ou"))
}

func TestAutoScheduleToggleAndStatus(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)

	assert.True(t, f.sched.AutoSchedule())
	assert.False(t, f.sched.SetAutoSchedule(false))

	status := f.sched.Status()
	assert.Equal(t, scheduler.StateIdle, status.State)
	assert.False(t, status.AutoSchedule)
	assert.Equal(t, "random", status.Strategy)
	assert.Equal(t, "gen9randombattle", status.Format)
	assert.Zero(t, status.InFlight)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.sched.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	assert.Equal(t, scheduler.StateStopping, f.sched.Status().State)
}

func TestManualCycleThroughRunLoop(t *testing.T) {
	f := newFixture(t, []string{"alpha", "beta"}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = f.sched.Run(ctx) }()

	require.NoError(t, f.sched.StartMatchNow("gen9ou"))

	require.Eventually(t, func() bool { return f.runner.callCount() == 1 }, time.Second, 5*time.Millisecond)
	f.runner.mu.Lock()
	format := f.runner.calls[0].Format
	f.runner.mu.Unlock()
	assert.Equal(t, "gen9ou", format)
}
