package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	snap := CounterSnapshot{
		ParticipantA: "a",
		ParticipantB: "b",
		BeforeA:      Counters{Wins: 3, Losses: 1},
		BeforeB:      Counters{Wins: 2, Losses: 2},
	}

	tests := []struct {
		name        string
		afterA      Counters
		afterB      Counters
		wantWinner  string
		wantOutcome Outcome
		wantSettled bool
	}{
		{
			name:        "a wins",
			afterA:      Counters{Wins: 4, Losses: 1},
			afterB:      Counters{Wins: 2, Losses: 3},
			wantWinner:  "a",
			wantOutcome: OutcomeWin,
			wantSettled: true,
		},
		{
			name:        "b wins",
			afterA:      Counters{Wins: 3, Losses: 2},
			afterB:      Counters{Wins: 3, Losses: 2},
			wantWinner:  "b",
			wantOutcome: OutcomeWin,
			wantSettled: true,
		},
		{
			name:        "draw",
			afterA:      Counters{Wins: 3, Losses: 1, Draws: 1},
			afterB:      Counters{Wins: 2, Losses: 2, Draws: 1},
			wantWinner:  "",
			wantOutcome: OutcomeDraw,
			wantSettled: true,
		},
		{
			name:        "no movement yet",
			afterA:      snap.BeforeA,
			afterB:      snap.BeforeB,
			wantWinner:  "",
			wantOutcome: OutcomeInconclusive,
			wantSettled: false,
		},
		{
			name:        "both gained wins",
			afterA:      Counters{Wins: 4, Losses: 1},
			afterB:      Counters{Wins: 3, Losses: 2},
			wantWinner:  "",
			wantOutcome: OutcomeInconclusive,
			wantSettled: true,
		},
		{
			name:        "only one side moved",
			afterA:      Counters{Wins: 4, Losses: 1},
			afterB:      snap.BeforeB,
			wantWinner:  "",
			wantOutcome: OutcomeInconclusive,
			wantSettled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, outcome, settled := Classify(snap, tt.afterA, tt.afterB)
			assert.Equal(t, tt.wantWinner, winner)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantSettled, settled)
		})
	}
}
