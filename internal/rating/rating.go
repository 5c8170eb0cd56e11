// Package rating implements the Elo model used to rank battle bots.
// All functions are pure; persistence lives in the leaderboard store.
package rating

import (
	"math"
	"time"
)

const (
	// DefaultRating is assigned to participants with no recorded
	// matches.
	DefaultRating = 1200.0
	// KFactor controls the maximum rating movement per match.
	KFactor = 32.0
)

// Expected returns the probability of self beating opponent under the
// logistic Elo curve.
func Expected(self, opponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponent-self)/400.0))
}

// Update returns the new rating for self after a match against
// opponent. score is 1 for a win, 0.5 for a draw and 0 for a loss.
func Update(self, opponent, score float64) float64 {
	return self + KFactor*(score-Expected(self, opponent))
}

// ApplyResult folds one finished match into a participant's record.
// Inconclusive results move the draw counter but leave the rating
// untouched, so a stalled match can never manufacture rating points.
func ApplyResult(s *BotStats, opponentRating float64, result Result, format string, when time.Time) {
	switch result {
	case ResultWin:
		s.Rating = Update(s.Rating, opponentRating, 1.0)
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStreak {
			s.LongestWinStreak = s.CurrentStreak
		}
	case ResultLoss:
		s.Rating = Update(s.Rating, opponentRating, 0.0)
		s.Losses++
		s.CurrentStreak = 0
	case ResultDraw:
		s.Rating = Update(s.Rating, opponentRating, 0.5)
		s.Draws++
		s.CurrentStreak = 0
	case ResultInconclusive:
		s.Draws++
		s.CurrentStreak = 0
	}
	if s.FormatCounts == nil {
		s.FormatCounts = make(map[string]int)
	}
	s.FormatCounts[format]++
	s.LastMatchTime = when
}
