package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getDurationOr := func(key string, fallback time.Duration) time.Duration {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Warn("Invalid duration value, using default", "key", key, "value", value, "default", fallback)
			return fallback
		}
		return d
	}

	getIntOr := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Warn("Invalid integer value, using default", "key", key, "value", value, "default", fallback)
			return fallback
		}
		return n
	}

	getListOr := func(key string, fallback []string) []string {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			return fallback
		}
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}

	getFloatOr := func(key string, fallback float64) float64 {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Warn("Invalid float value, using default", "key", key, "value", value, "default", fallback)
			return fallback
		}
		return f
	}

	slackEnabled := getEnvOr("SLACK_ENABLED", "false") == "true"
	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvOr("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		SnapshotFile:  getEnvOr("SNAPSHOT_FILE", "leaderboard_data.json"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Enabled: slackEnabled,
		},
		Battle: BattleConfig{
			RelayURL:      getEnvOr("BATTLE_RELAY_URL", "http://localhost:8000"),
			DefaultFormat: getEnvOr("BATTLE_FORMAT", "gen9randombattle"),
			Mode:          getEnvOr("BATTLE_MODE", "challenge"),
			MatchTimeout:  getDurationOr("BATTLE_TIMEOUT", 10*time.Minute),
			Bots:          getListOr("BOT_NAMES", nil),
		},
		Matchmaking: MatchmakingConfig{
			Strategy:     getEnvOr("MATCHMAKING_STRATEGY", "elo"),
			EloThreshold: getFloatOr("ELO_THRESHOLD", 200),
			MaxQueueSize: getIntOr("MAX_QUEUE_SIZE", 100),
			MaxWaitTime:  getDurationOr("MAX_WAIT_TIME", 5*time.Minute),
		},
		Scheduler: SchedulerConfig{
			Interval:             getDurationOr("SCHEDULER_INTERVAL", 15*time.Second),
			MaxConcurrentMatches: getIntOr("MAX_CONCURRENT_MATCHES", 3),
			ShutdownGrace:        getDurationOr("SHUTDOWN_GRACE", 30*time.Second),
		},
		ProjectID: getEnvOr("GCP_PROJECT", ""),
	}
	if slackEnabled {
		cfg.Slack.Token = getEnv("SLACK_BOT_TOKEN")
		cfg.Slack.ChannelID = getEnv("SLACK_CHANNEL_ID")
	}
	return cfg
}
