package rating

import "time"

// Result is the outcome of a match from a single participant's
// perspective.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
	// ResultInconclusive marks a match that finished without a
	// determinable outcome (timeout, ambiguous counters). Counters
	// still move but the rating does not.
	ResultInconclusive Result = "inconclusive"
)

// BotStats is the persistent rating record for one participant.
type BotStats struct {
	ID               string         `json:"id"`
	Rating           float64        `json:"rating"`
	Wins             int            `json:"wins"`
	Losses           int            `json:"losses"`
	Draws            int            `json:"draws"`
	CurrentStreak    int            `json:"current_streak"`
	LongestWinStreak int            `json:"longest_win_streak"`
	LastMatchTime    time.Time      `json:"last_match_time"`
	FormatCounts     map[string]int `json:"format_counts"`
}

// NewBotStats returns a fresh record at the default rating.
func NewBotStats(id string) *BotStats {
	return &BotStats{
		ID:           id,
		Rating:       DefaultRating,
		FormatCounts: make(map[string]int),
	}
}

// TotalMatches is the number of matches that have moved the counters.
func (s *BotStats) TotalMatches() int {
	return s.Wins + s.Losses + s.Draws
}

// WinRate is wins over total matches, 0 for an unplayed record.
func (s *BotStats) WinRate() float64 {
	total := s.TotalMatches()
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total)
}
