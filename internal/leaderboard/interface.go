package leaderboard

import (
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/rating"
)

// LeaderboardStore is the durable record of matches and ratings.
type LeaderboardStore interface {
	// RecordMatch appends a match result. It is idempotent on the
	// match ID; the bool reports whether the result was newly applied.
	RecordMatch(result battle.MatchResult) (bool, error)
	// UpsertRating folds a delta record into a participant's row:
	// counts are summed, longest streak is maxed, rating, current
	// streak and last-match time take the incoming value.
	UpsertRating(stats *rating.BotStats) error
	// Stats returns a participant's accumulated record.
	Stats(id string) (*rating.BotStats, bool)
	// RecentOpponents lists the opponents of a participant's last n
	// matches, most recent first.
	RecentOpponents(id string, n int) []string
	// Query returns ranked entries with derived fields.
	Query(opts QueryOptions) ([]Entry, error)
	// BattleStats aggregates the match history, optionally scoped to
	// one format.
	BattleStats(format string) (*BattleStats, error)

	Snapshot() (*Snapshot, error)
	Restore(snap *Snapshot) error
	SaveSnapshot(path string) error
	LoadSnapshot(path string) error
}
