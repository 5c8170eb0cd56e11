package rating_test

import (
	"testing"
	"time"

	"github.com/llm-showdown/arena/internal/rating"
	"github.com/stretchr/testify/assert"
)

func TestExpectedSymmetry(t *testing.T) {
	a := rating.Expected(1200, 1200)
	assert.InDelta(t, 0.5, a, 1e-9)

	// The two expectations always sum to 1.
	e1 := rating.Expected(1500, 1100)
	e2 := rating.Expected(1100, 1500)
	assert.InDelta(t, 1.0, e1+e2, 1e-9)
	assert.Greater(t, e1, e2)
}

func TestUpdateZeroSum(t *testing.T) {
	winner := 1216.0
	loser := 1184.0

	newWinner := rating.Update(winner, loser, 1.0)
	newLoser := rating.Update(loser, winner, 0.0)

	assert.InDelta(t, 1230.53, newWinner, 0.01)
	assert.InDelta(t, 1169.47, newLoser, 0.01)
	// Points gained equal points lost.
	assert.InDelta(t, winner+loser, newWinner+newLoser, 1e-9)
}

func TestUpdateDrawConvergence(t *testing.T) {
	high := 1400.0
	low := 1000.0

	newHigh := rating.Update(high, low, 0.5)
	newLow := rating.Update(low, high, 0.5)

	assert.Less(t, newHigh, high)
	assert.Greater(t, newLow, low)
	assert.InDelta(t, high+low, newHigh+newLow, 1e-9)
}

func TestUpdateBoundedByK(t *testing.T) {
	// Even a maximal upset moves a rating by less than K.
	newRating := rating.Update(1000, 2400, 1.0)
	assert.Less(t, newRating-1000, rating.KFactor)
	assert.Greater(t, newRating, 1000.0)
}

func TestApplyResultWin(t *testing.T) {
	s := rating.NewBotStats("alpha")
	now := time.Now()

	rating.ApplyResult(s, 1200, rating.ResultWin, "gen9randombattle", now)

	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestWinStreak)
	assert.Greater(t, s.Rating, rating.DefaultRating)
	assert.Equal(t, 1, s.FormatCounts["gen9randombattle"])
	assert.Equal(t, now, s.LastMatchTime)
}

func TestApplyResultStreaks(t *testing.T) {
	s := rating.NewBotStats("alpha")
	now := time.Now()

	rating.ApplyResult(s, 1200, rating.ResultWin, "f", now)
	rating.ApplyResult(s, 1200, rating.ResultWin, "f", now)
	rating.ApplyResult(s, 1200, rating.ResultWin, "f", now)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestWinStreak)

	rating.ApplyResult(s, 1200, rating.ResultLoss, "f", now)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestWinStreak)

	rating.ApplyResult(s, 1200, rating.ResultWin, "f", now)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestWinStreak)
}

func TestApplyResultInconclusiveKeepsRating(t *testing.T) {
	s := rating.NewBotStats("alpha")
	before := s.Rating

	rating.ApplyResult(s, 1500, rating.ResultInconclusive, "f", time.Now())

	assert.Equal(t, before, s.Rating)
	assert.Equal(t, 1, s.Draws)
	assert.Equal(t, 1, s.TotalMatches())
	assert.Equal(t, 0, s.CurrentStreak)
}

func TestWinRate(t *testing.T) {
	s := rating.NewBotStats("alpha")
	assert.Equal(t, 0.0, s.WinRate())

	s.Wins = 3
	s.Losses = 1
	assert.InDelta(t, 0.75, s.WinRate(), 1e-9)
}
