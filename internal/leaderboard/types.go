package leaderboard

import (
	"database/sql"
	"sync"
	"time"

	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/rating"
)

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortByRating       SortKey = "rating"
	SortByWins         SortKey = "wins"
	SortByWinRate      SortKey = "win_rate"
	SortByTotalMatches SortKey = "total_matches"
)

// ValidSortKey reports whether key names a supported ordering.
func ValidSortKey(key SortKey) bool {
	switch key {
	case SortByRating, SortByWins, SortByWinRate, SortByTotalMatches:
		return true
	}
	return false
}

// QueryOptions scope a leaderboard query. An empty Format means all
// formats; a non-positive Limit means no limit.
type QueryOptions struct {
	SortKey SortKey
	Limit   int
	Format  string
}

// Entry is one ranked leaderboard row with its derived fields.
type Entry struct {
	Rank             int           `json:"rank"`
	ID               string        `json:"id"`
	Rating           float64       `json:"rating"`
	Wins             int           `json:"wins"`
	Losses           int           `json:"losses"`
	Draws            int           `json:"draws"`
	TotalMatches     int           `json:"total_matches"`
	WinRate          float64       `json:"win_rate"`
	RecentForm       []string      `json:"recent_form"`
	CurrentStreak    int           `json:"current_streak"`
	LongestWinStreak int           `json:"longest_win_streak"`
	LastMatchTime    time.Time     `json:"last_match_time"`
	FavoriteFormat   string        `json:"favorite_format,omitempty"`
	AvgDuration      time.Duration `json:"avg_duration"`
}

// BattleStats are aggregate figures across the recorded history.
type BattleStats struct {
	TotalMatches  int            `json:"total_matches"`
	AvgDuration   time.Duration  `json:"avg_duration"`
	AvgTurnCount  float64        `json:"avg_turn_count"`
	FormatCounts  map[string]int `json:"format_counts"`
	MatchesLast24 int            `json:"matches_last_24h"`
	ActiveBots    int            `json:"active_bots"`
}

// Snapshot is the portable JSON form of the whole leaderboard.
type Snapshot struct {
	BotStats     []*rating.BotStats   `json:"bot_stats"`
	MatchHistory []battle.MatchResult `json:"match_history"`
	LastUpdated  time.Time            `json:"last_updated"`
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
