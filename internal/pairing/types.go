package pairing

import (
	"time"

	"github.com/llm-showdown/arena/internal/queue"
	"github.com/llm-showdown/arena/internal/rating"
)

// Pairing is a concrete decision to run one match. It is immutable and
// consumed exactly once by the orchestrator.
type Pairing struct {
	ParticipantA string    `json:"participant_a"`
	ParticipantB string    `json:"participant_b"`
	Format       string    `json:"format"`
	Priority     int       `json:"priority"`
	CreatedTime  time.Time `json:"created_time"`
}

// StatsSource supplies the rating records strategies pair on.
type StatsSource interface {
	Stats(id string) (*rating.BotStats, bool)
	// RecentOpponents lists the opponents a participant faced in its
	// last n recorded matches, most recent first.
	RecentOpponents(id string, n int) []string
}

// ActiveChecker reports whether a participant is currently able to
// battle. Inactive participants are never paired.
type ActiveChecker interface {
	IsActive(id string) bool
}

// Options carries the collaborators and tunables shared by every
// strategy constructor.
type Options struct {
	Stats        StatsSource
	Active       ActiveChecker
	EloThreshold float64
	// Seed drives the random strategy; zero means time-seeded.
	Seed int64
}

// Pairer turns a format's pending requests into pairings. Requests it
// cannot place stay queued for the next cycle.
type Pairer interface {
	Name() string
	CreatePairings(requests []queue.MatchRequest, format string) []Pairing
}
