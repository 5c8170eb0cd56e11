package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	SnapshotFile  string
	Turso         TursoConfig
	Slack         SlackConfig
	Battle        BattleConfig
	Matchmaking   MatchmakingConfig
	Scheduler     SchedulerConfig
	ProjectID     string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
	Enabled   bool
}

// BattleConfig controls how matches are run against the battle relay.
type BattleConfig struct {
	RelayURL      string
	DefaultFormat string
	Mode          string // "challenge" or "ladder"
	MatchTimeout  time.Duration
	Bots          []string
}

// MatchmakingConfig holds the pairing engine tunables.
type MatchmakingConfig struct {
	Strategy     string
	EloThreshold float64
	MaxQueueSize int
	MaxWaitTime  time.Duration
}

// SchedulerConfig holds the continuous scheduler tunables.
type SchedulerConfig struct {
	Interval             time.Duration
	MaxConcurrentMatches int
	ShutdownGrace        time.Duration
}
