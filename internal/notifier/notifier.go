package notifier

import (
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/leaderboard"
)

// Notifier defines a high-level interface for announcing arena events.
// This decouples the rest of the application from the specific
// notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches
	SendMatchResult(result *battle.MatchResult, dryRun bool) error
	// For standings announcements
	SendLeaderboard(entries []leaderboard.Entry, dryRun bool) error
}
