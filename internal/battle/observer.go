package battle

import (
	"context"
	"fmt"
)

// OutcomeObserver derives a match outcome from relay counter movement:
// it snapshots both participants' counters before the match and
// classifies the deltas afterwards. Timing and the collaborator itself
// stay outside; the derivation is pure.
type OutcomeObserver struct {
	client Client
}

// NewOutcomeObserver wraps a relay client.
func NewOutcomeObserver(client Client) *OutcomeObserver {
	return &OutcomeObserver{client: client}
}

// CounterSnapshot holds the pre-match counters for both participants.
type CounterSnapshot struct {
	ParticipantA string
	ParticipantB string
	BeforeA      Counters
	BeforeB      Counters
}

// Snapshot captures both participants' counters before the match.
func (o *OutcomeObserver) Snapshot(ctx context.Context, a, b string) (CounterSnapshot, error) {
	beforeA, err := o.client.Counters(ctx, a)
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("failed to snapshot counters for %s: %w", a, err)
	}
	beforeB, err := o.client.Counters(ctx, b)
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("failed to snapshot counters for %s: %w", b, err)
	}
	return CounterSnapshot{ParticipantA: a, ParticipantB: b, BeforeA: beforeA, BeforeB: beforeB}, nil
}

// Observe re-reads both participants' counters and classifies the
// deltas. settled is false while neither side has moved yet.
func (o *OutcomeObserver) Observe(ctx context.Context, snap CounterSnapshot) (winner string, outcome Outcome, settled bool, err error) {
	afterA, err := o.client.Counters(ctx, snap.ParticipantA)
	if err != nil {
		return "", OutcomeInconclusive, false, fmt.Errorf("failed to read counters for %s: %w", snap.ParticipantA, err)
	}
	afterB, err := o.client.Counters(ctx, snap.ParticipantB)
	if err != nil {
		return "", OutcomeInconclusive, false, fmt.Errorf("failed to read counters for %s: %w", snap.ParticipantB, err)
	}
	winner, outcome, settled = Classify(snap, afterA, afterB)
	return winner, outcome, settled, nil
}

// Classify maps counter deltas to an outcome. Only an unambiguous
// win/loss pair names a winner; every other movement is a draw or
// inconclusive. No movement at all means the match is still running.
func Classify(snap CounterSnapshot, afterA, afterB Counters) (winner string, outcome Outcome, settled bool) {
	deltaA := diff(snap.BeforeA, afterA)
	deltaB := diff(snap.BeforeB, afterB)

	if deltaA == (Counters{}) && deltaB == (Counters{}) {
		return "", OutcomeInconclusive, false
	}
	switch {
	case deltaA.Wins > 0 && deltaB.Losses > 0 && deltaA.Losses == 0 && deltaB.Wins == 0:
		return snap.ParticipantA, OutcomeWin, true
	case deltaB.Wins > 0 && deltaA.Losses > 0 && deltaB.Losses == 0 && deltaA.Wins == 0:
		return snap.ParticipantB, OutcomeWin, true
	case deltaA.Draws > 0 && deltaB.Draws > 0 && deltaA.Wins == 0 && deltaB.Wins == 0:
		return "", OutcomeDraw, true
	default:
		// Counters moved but not in a shape any single match between
		// the two would produce.
		return "", OutcomeInconclusive, true
	}
}

func diff(before, after Counters) Counters {
	return Counters{
		Wins:   after.Wins - before.Wins,
		Losses: after.Losses - before.Losses,
		Draws:  after.Draws - before.Draws,
	}
}
