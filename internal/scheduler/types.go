package scheduler

import (
	"context"
	"time"

	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/pairing"
)

// State is the scheduler's observable phase.
type State string

const (
	StateIdle           State = "IDLE"
	StateFillingQueue   State = "FILLING_QUEUE"
	StatePairing        State = "PAIRING"
	StateRunningMatches State = "RUNNING_MATCHES"
	StateStopping       State = "STOPPING"
)

// MatchRunner executes individual matches. The battle orchestrator
// implements it; tests substitute a stub.
type MatchRunner interface {
	RunMatch(ctx context.Context, p pairing.Pairing) (*battle.MatchResult, error)
	IsActive(id string) bool
	InFlight() int
}

// Config carries the scheduler tunables.
type Config struct {
	// Bots is the roster of registered participants to keep queued.
	Bots []string
	// Format is the default battle format for automatic cycles.
	Format string
	// Interval between automatic cycles.
	Interval time.Duration
	// MaxConcurrentMatches bounds matches started per cycle.
	MaxConcurrentMatches int
	// MaxWaitTime is the queue expiry budget for generated requests.
	MaxWaitTime time.Duration
	// MaxDuration stops the scheduler after this long; zero runs
	// until cancellation.
	MaxDuration time.Duration
	// SnapshotFile, when set, receives a JSON snapshot after each
	// flush.
	SnapshotFile string
	// DryRun suppresses outbound notifications.
	DryRun bool
}

// Status is a point-in-time view for the operator API.
type Status struct {
	State        State     `json:"state"`
	AutoSchedule bool      `json:"auto_schedule"`
	QueueSize    int       `json:"queue_size"`
	InFlight     int       `json:"in_flight"`
	LastCycle    time.Time `json:"last_cycle,omitempty"`
	Strategy     string    `json:"strategy"`
	Format       string    `json:"format"`
}
