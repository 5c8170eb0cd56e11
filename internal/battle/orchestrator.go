// Package battle runs matches against the external relay and turns
// counter movement into durable match results.
package battle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/llm-showdown/arena/internal/metrics"
	"github.com/llm-showdown/arena/internal/pairing"
	"github.com/llm-showdown/arena/internal/queue"
)

const defaultPollInterval = 2 * time.Second

// Orchestrator runs individual matches. It enforces at most one
// in-flight match per participant.
type Orchestrator struct {
	client       Client
	observer     *OutcomeObserver
	metrics      metrics.Metrics
	mode         Mode
	timeout      time.Duration
	pollInterval time.Duration

	mu     sync.Mutex
	active map[string]bool
}

// NewOrchestrator builds an orchestrator with the given start mode and
// match timeout. An empty mode defaults to challenge/accept.
func NewOrchestrator(client Client, m metrics.Metrics, mode Mode, timeout time.Duration) *Orchestrator {
	if mode == "" {
		mode = ModeChallenge
	}
	return &Orchestrator{
		client:       client,
		observer:     NewOutcomeObserver(client),
		metrics:      m,
		mode:         mode,
		timeout:      timeout,
		pollInterval: defaultPollInterval,
		active:       make(map[string]bool),
	}
}

// IsActive reports whether a participant currently has a match in
// flight.
func (o *Orchestrator) IsActive(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active[id]
}

// InFlight returns the number of participants currently battling.
func (o *Orchestrator) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.active)
}

// RunMatch executes one pairing end to end: reserve both participants,
// snapshot counters, start the match per the configured mode, then
// poll until the counters settle or the timeout elapses. A timeout or
// ambiguous counter movement yields an inconclusive result alongside
// the sentinel error; start failures yield no result at all. Context
// cancellation stops new matches from starting but never a running
// one: a match already on the relay keeps its full time budget.
func (o *Orchestrator) RunMatch(ctx context.Context, p pairing.Pairing) (*MatchResult, error) {
	if err := o.reserve(p.ParticipantA, p.ParticipantB); err != nil {
		return nil, err
	}
	defer o.release(p.ParticipantA, p.ParticipantB)

	matchID := uuid.New().String()
	start := time.Now()
	log.Info("Starting match", "matchID", matchID, "participantA", p.ParticipantA, "participantB", p.ParticipantB, "format", p.Format)
	o.metrics.IncMatchesStarted()
	o.metrics.SetMatchesInFlight(float64(o.InFlight()))

	snap, err := o.observer.Snapshot(ctx, p.ParticipantA, p.ParticipantB)
	if err != nil {
		o.metrics.IncMatchesFailed()
		return nil, fmt.Errorf("%w: %v", ErrMatchStart, err)
	}

	if err := o.start(ctx, p); err != nil {
		o.metrics.IncMatchesFailed()
		return nil, fmt.Errorf("%w: %v", ErrMatchStart, err)
	}

	winner, outcome, err := o.await(ctx, snap)
	duration := time.Since(start)

	result := &MatchResult{
		MatchID:      matchID,
		ParticipantA: p.ParticipantA,
		ParticipantB: p.ParticipantB,
		Winner:       winner,
		Outcome:      outcome,
		Format:       p.Format,
		Duration:     duration,
		Timestamp:    time.Now(),
	}

	if err != nil {
		o.metrics.IncMatchesFailed()
		log.Warn("Match did not settle cleanly", "matchID", matchID, "outcome", outcome, "err", err)
		return result, err
	}

	o.metrics.IncMatchesCompleted()
	o.metrics.ObserveMatchDuration(duration.Seconds())
	log.Info("Match completed", "matchID", matchID, "winner", winner, "outcome", outcome, "duration", duration)
	return result, nil
}

// start kicks off the match on the relay: a challenge/accept handshake
// in challenge mode, or putting both participants on the public ladder
// for one game each in ladder mode.
func (o *Orchestrator) start(ctx context.Context, p pairing.Pairing) error {
	if o.mode == ModeLadder {
		if err := o.client.EnterLadder(ctx, p.ParticipantA, 1); err != nil {
			return err
		}
		return o.client.EnterLadder(ctx, p.ParticipantB, 1)
	}
	if err := o.client.InitiateChallenge(ctx, p.ParticipantA, p.ParticipantB, p.Format); err != nil {
		return err
	}
	return o.client.AcceptChallenge(ctx, p.ParticipantB, p.ParticipantA, p.Format)
}

// EnterLadder forwards a ladder session request to the relay.
func (o *Orchestrator) EnterLadder(ctx context.Context, participant string, games int) error {
	if err := o.client.EnterLadder(ctx, participant, games); err != nil {
		return fmt.Errorf("failed to enter ladder for %s: %w", participant, err)
	}
	return nil
}

// RunTournament plays every unique pair among participants exactly
// once, scheduled through the round-robin pairer, and returns the
// results that settled. Individual match failures are logged and
// skipped.
func (o *Orchestrator) RunTournament(ctx context.Context, participants []string, format string) ([]*MatchResult, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("tournament needs at least 2 participants, got %d", len(participants))
	}

	pairer, err := pairing.New("roundrobin", pairing.Options{})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	requests := make([]queue.MatchRequest, 0, len(participants))
	for _, id := range participants {
		requests = append(requests, queue.MatchRequest{ParticipantID: id, Format: format, CreatedTime: now})
	}

	var results []*MatchResult
	for _, p := range pairer.CreatePairings(requests, format) {
		result, err := o.RunMatch(ctx, p)
		if err != nil && result == nil {
			log.Error("Tournament match failed to start", "participantA", p.ParticipantA, "participantB", p.ParticipantB, "err", err)
			continue
		}
		results = append(results, result)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}
	return results, nil
}

func (o *Orchestrator) await(ctx context.Context, snap CounterSnapshot) (string, Outcome, error) {
	deadline := time.NewTimer(o.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	// Cancellation only stops new matches from starting; this one is
	// already running on the relay, so keep polling on a detached
	// context until the real result lands or the timeout elapses.
	cancelled := ctx.Done()
	pollCtx := ctx

	for {
		select {
		case <-cancelled:
			log.Info("Context cancelled, draining running match", "timeout", o.timeout)
			cancelled = nil
			pollCtx = context.Background()
		case <-deadline.C:
			return "", OutcomeInconclusive, ErrMatchTimeout
		case <-ticker.C:
			winner, outcome, settled, err := o.observer.Observe(pollCtx, snap)
			if err != nil {
				log.Warn("Failed to poll counters, retrying", "err", err)
				continue
			}
			if !settled {
				continue
			}
			if outcome == OutcomeInconclusive {
				return "", OutcomeInconclusive, ErrUnknownOutcome
			}
			return winner, outcome, nil
		}
	}
}

func (o *Orchestrator) reserve(a, b string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active[a] {
		return fmt.Errorf("%w: %s", ErrParticipantBusy, a)
	}
	if o.active[b] {
		return fmt.Errorf("%w: %s", ErrParticipantBusy, b)
	}
	o.active[a] = true
	o.active[b] = true
	return nil
}

func (o *Orchestrator) release(a, b string) {
	o.mu.Lock()
	delete(o.active, a)
	delete(o.active, b)
	o.mu.Unlock()
	o.metrics.SetMatchesInFlight(float64(o.InFlight()))
}
