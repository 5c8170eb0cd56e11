// Package scheduler drives the continuous battle loop: refill the
// queue from the roster, pair, run matches, and flush results to the
// leaderboard. A single goroutine owns the whole cycle; no two cycles
// ever run concurrently.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/metrics"
	"github.com/llm-showdown/arena/internal/notifier"
	"github.com/llm-showdown/arena/internal/pairing"
	"github.com/llm-showdown/arena/internal/pubsub"
	"github.com/llm-showdown/arena/internal/queue"
	"github.com/llm-showdown/arena/internal/rating"
)

// Scheduler owns the match queue and the cycle state machine.
type Scheduler struct {
	queue    queue.MatchQueue
	pairer   pairing.Pairer
	store    leaderboard.LeaderboardStore
	runner   MatchRunner
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	notifier notifier.Notifier
	events   pubsub.PubSubClient
	cfg      Config

	mu           sync.Mutex
	state        State
	autoSchedule bool
	lastCycle    time.Time

	manual chan string
}

// New assembles a scheduler. The notifier and events client may be
// nil when those integrations are disabled.
func New(q queue.MatchQueue, pairer pairing.Pairer, store leaderboard.LeaderboardStore, runner MatchRunner,
	m metrics.Metrics, counters metrics.MetricsStore, n notifier.Notifier, events pubsub.PubSubClient, cfg Config) *Scheduler {
	if cfg.MaxConcurrentMatches <= 0 {
		cfg.MaxConcurrentMatches = 3
	}
	return &Scheduler{
		queue:        q,
		pairer:       pairer,
		store:        store,
		runner:       runner,
		metrics:      m,
		counters:     counters,
		notifier:     n,
		events:       events,
		cfg:          cfg,
		state:        StateIdle,
		autoSchedule: true,
		manual:       make(chan string, 1),
	}
}

// Run executes cycles until the context is cancelled or the optional
// duration limit elapses. In-flight matches finish and their results
// are applied before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Info("Scheduler started", "interval", s.cfg.Interval, "strategy", s.pairer.Name(), "format", s.cfg.Format, "bots", len(s.cfg.Bots))

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	var stopAt <-chan time.Time
	if s.cfg.MaxDuration > 0 {
		timer := time.NewTimer(s.cfg.MaxDuration)
		defer timer.Stop()
		stopAt = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return s.stop(ctx.Err())
		case <-stopAt:
			return s.stop(nil)
		case format := <-s.manual:
			s.RunCycle(ctx, format)
		case <-ticker.C:
			if s.AutoSchedule() {
				s.RunCycle(ctx, s.cfg.Format)
			}
		}
	}
}

// RunCycle executes one full cycle for the given format: refill,
// evict, pair, run, flush. It blocks until every match it started has
// completed and had its result applied.
func (s *Scheduler) RunCycle(ctx context.Context, format string) {
	if format == "" {
		format = s.cfg.Format
	}

	s.setState(StateFillingQueue)
	s.refillQueue(format)

	expired := s.queue.EvictExpired(time.Now())
	for range expired {
		s.metrics.IncRequestsExpired()
	}
	s.metrics.SetQueueSize(float64(s.queue.Len()))

	s.setState(StatePairing)
	pairings := s.createPairings()

	s.setState(StateRunningMatches)
	s.runMatches(ctx, pairings)

	s.flush()

	s.mu.Lock()
	s.lastCycle = time.Now()
	s.mu.Unlock()
	if s.counters != nil {
		s.counters.Increment("scheduler_cycles")
	}
	s.setState(StateIdle)
}

// StartMatchNow requests an immediate cycle for the given format. It
// fails when a manual cycle is already pending.
func (s *Scheduler) StartMatchNow(format string) error {
	select {
	case s.manual <- format:
		return nil
	default:
		return errors.New("a manual cycle is already pending")
	}
}

// ScheduleMatch requests a cycle after the given delay.
func (s *Scheduler) ScheduleMatch(format string, delay time.Duration) {
	log.Info("Scheduled battle cycle", "format", format, "delay", delay)
	time.AfterFunc(delay, func() {
		if err := s.StartMatchNow(format); err != nil {
			log.Warn("Dropped scheduled cycle", "format", format, "err", err)
		}
	})
}

// SetAutoSchedule toggles the automatic interval cycles and reports
// the new value.
func (s *Scheduler) SetAutoSchedule(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSchedule = enabled
	log.Info("Auto-schedule toggled", "enabled", enabled)
	return s.autoSchedule
}

// AutoSchedule reports whether automatic cycles are enabled.
func (s *Scheduler) AutoSchedule() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoSchedule
}

// Status returns a point-in-time view of the scheduler.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:        s.state,
		AutoSchedule: s.autoSchedule,
		QueueSize:    s.queue.Len(),
		InFlight:     s.runner.InFlight(),
		LastCycle:    s.lastCycle,
		Strategy:     s.pairer.Name(),
		Format:       s.cfg.Format,
	}
}

func (s *Scheduler) stop(cause error) error {
	s.setState(StateStopping)
	log.Info("Scheduler stopping", "cause", cause)
	if s.cfg.SnapshotFile != "" {
		if err := s.store.SaveSnapshot(s.cfg.SnapshotFile); err != nil {
			log.Error("Failed to save final snapshot", "error", err)
		}
	}
	return nil
}

// refillQueue enqueues a fresh request for every registered bot that
// is neither queued already nor mid-match. Already queued bots are
// skipped, not re-enqueued, so their wait budget keeps aging.
func (s *Scheduler) refillQueue(format string) {
	queued := make(map[string]bool)
	for _, req := range s.queue.GroupByFormat()[format] {
		queued[req.ParticipantID] = true
	}
	now := time.Now()
	for _, bot := range s.cfg.Bots {
		if queued[bot] || s.runner.IsActive(bot) {
			continue
		}
		err := s.queue.Enqueue(queue.MatchRequest{
			ParticipantID: bot,
			Format:        format,
			MaxWaitTime:   s.cfg.MaxWaitTime,
			CreatedTime:   now,
		})
		if errors.Is(err, queue.ErrQueueFull) {
			log.Warn("Match queue full, skipping refill", "participant", bot)
			return
		}
	}
}

func (s *Scheduler) createPairings() []pairing.Pairing {
	var all []pairing.Pairing
	for format, requests := range s.queue.GroupByFormat() {
		pairings := s.pairer.CreatePairings(requests, format)
		for range pairings {
			s.metrics.IncPairingsCreated(s.pairer.Name())
		}
		all = append(all, pairings...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Priority > all[j].Priority })
	return all
}

// runMatches starts up to the concurrency budget of pairings and
// applies results in the order matches complete. Only started
// pairings consume their queued requests; the rest stay queued with
// their original wait budget and are re-paired next cycle.
func (s *Scheduler) runMatches(ctx context.Context, pairings []pairing.Pairing) {
	budget := s.cfg.MaxConcurrentMatches
	claimed := make(map[string]bool)
	var toRun []pairing.Pairing
	for _, p := range pairings {
		if len(toRun) >= budget {
			break
		}
		if claimed[p.ParticipantA] || claimed[p.ParticipantB] {
			continue
		}
		if s.runner.IsActive(p.ParticipantA) || s.runner.IsActive(p.ParticipantB) {
			continue
		}
		claimed[p.ParticipantA] = true
		claimed[p.ParticipantB] = true
		toRun = append(toRun, p)
	}
	if len(toRun) < len(pairings) {
		log.Debug("Deferred pairings to next cycle", "deferred", len(pairings)-len(toRun))
	}

	matched := make(map[string][]string)
	for _, p := range toRun {
		matched[p.Format] = append(matched[p.Format], p.ParticipantA, p.ParticipantB)
	}
	for format, ids := range matched {
		s.queue.RemoveParticipants(ids, format)
	}
	s.metrics.SetQueueSize(float64(s.queue.Len()))

	results := make(chan *battle.MatchResult, len(toRun))
	var wg sync.WaitGroup
	for _, p := range toRun {
		wg.Add(1)
		go func(p pairing.Pairing) {
			defer wg.Done()
			result, err := s.runner.RunMatch(ctx, p)
			if err != nil {
				log.Warn("Match ended with error", "participantA", p.ParticipantA, "participantB", p.ParticipantB, "err", err)
			}
			if result != nil {
				results <- result
			}
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	for result := range results {
		s.applyResult(result)
	}
}

// applyResult records a match and folds the rating movement into both
// participants. Replayed match IDs change nothing.
func (s *Scheduler) applyResult(result *battle.MatchResult) {
	applied, err := s.store.RecordMatch(*result)
	if err != nil {
		log.Error("Failed to record match", "matchID", result.MatchID, "error", err)
		return
	}
	if !applied {
		return
	}

	statsA := s.participantStats(result.ParticipantA)
	statsB := s.participantStats(result.ParticipantB)

	deltaA := ratingDelta(statsA, statsB.Rating, perParticipantResult(result, result.ParticipantA), result)
	deltaB := ratingDelta(statsB, statsA.Rating, perParticipantResult(result, result.ParticipantB), result)

	for _, delta := range []*rating.BotStats{deltaA, deltaB} {
		if err := s.store.UpsertRating(delta); err != nil {
			log.Error("Failed to upsert rating", "participant", delta.ID, "error", err)
		}
	}
	if s.counters != nil {
		s.counters.Increment("matches_completed")
	}

	s.publish(result, deltaA, deltaB)
	if s.notifier != nil {
		if err := s.notifier.SendMatchResult(result, s.cfg.DryRun); err != nil {
			log.Error("Failed to send match result notification", "matchID", result.MatchID, "error", err)
		}
	}
}

// flush persists a snapshot after the cycle's results are applied.
func (s *Scheduler) flush() {
	if s.cfg.SnapshotFile == "" {
		return
	}
	if err := s.store.SaveSnapshot(s.cfg.SnapshotFile); err != nil {
		log.Error("Failed to save leaderboard snapshot", "error", err)
	}
}

func (s *Scheduler) publish(result *battle.MatchResult, deltas ...*rating.BotStats) {
	if s.events == nil {
		return
	}
	event := pubsub.MatchCompletedEvent{
		MatchID:      result.MatchID,
		ParticipantA: result.ParticipantA,
		ParticipantB: result.ParticipantB,
		Winner:       result.Winner,
		Outcome:      string(result.Outcome),
		Format:       result.Format,
		Duration:     result.Duration,
		Timestamp:    result.Timestamp,
	}
	if err := s.events.SendMessage(pubsub.EventMatchCompleted, event); err != nil {
		log.Warn("Failed to publish match-completed event", "matchID", result.MatchID, "err", err)
	}
	for _, delta := range deltas {
		stats, ok := s.store.Stats(delta.ID)
		if !ok {
			continue
		}
		update := pubsub.StatsUpdatedEvent{
			ParticipantID: stats.ID,
			Rating:        stats.Rating,
			Wins:          stats.Wins,
			Losses:        stats.Losses,
			Draws:         stats.Draws,
			UpdatedAt:     time.Now(),
		}
		if err := s.events.SendMessage(pubsub.EventStatsUpdated, update); err != nil {
			log.Warn("Failed to publish stats-updated event", "participant", stats.ID, "err", err)
		}
	}
}

func (s *Scheduler) participantStats(id string) *rating.BotStats {
	if stats, ok := s.store.Stats(id); ok {
		return stats
	}
	return rating.NewBotStats(id)
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	log.Debug("Scheduler state", "state", state)
}

func perParticipantResult(result *battle.MatchResult, id string) rating.Result {
	switch result.Outcome {
	case battle.OutcomeWin:
		if result.Winner == id {
			return rating.ResultWin
		}
		return rating.ResultLoss
	case battle.OutcomeDraw:
		return rating.ResultDraw
	default:
		return rating.ResultInconclusive
	}
}

// ratingDelta applies one match to a copy of the current stats and
// returns the per-match delta record the store's summing upsert
// expects.
func ratingDelta(current *rating.BotStats, opponentRating float64, res rating.Result, match *battle.MatchResult) *rating.BotStats {
	after := *current
	after.FormatCounts = nil
	rating.ApplyResult(&after, opponentRating, res, match.Format, match.Timestamp)

	return &rating.BotStats{
		ID:               current.ID,
		Rating:           after.Rating,
		Wins:             after.Wins - current.Wins,
		Losses:           after.Losses - current.Losses,
		Draws:            after.Draws - current.Draws,
		CurrentStreak:    after.CurrentStreak,
		LongestWinStreak: after.LongestWinStreak,
		LastMatchTime:    after.LastMatchTime,
		FormatCounts:     map[string]int{match.Format: 1},
	}
}
