package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/config"
	"github.com/llm-showdown/arena/internal/database"
	server "github.com/llm-showdown/arena/internal/http"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/metrics"
	"github.com/llm-showdown/arena/internal/notifier"
	"github.com/llm-showdown/arena/internal/notifier/slack"
	"github.com/llm-showdown/arena/internal/pairing"
	"github.com/llm-showdown/arena/internal/pubsub"
	"github.com/llm-showdown/arena/internal/queue"
	"github.com/llm-showdown/arena/internal/scheduler"
)

// rosterChecker marks the configured bots as eligible for pairing.
type rosterChecker map[string]bool

func (r rosterChecker) IsActive(id string) bool { return r[id] }

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	store := leaderboard.New(db)
	if cfg.SnapshotFile != "" {
		if _, statErr := os.Stat(cfg.SnapshotFile); statErr == nil {
			if err := store.LoadSnapshot(cfg.SnapshotFile); err != nil {
				log.Warn("Failed to restore snapshot, continuing with database state", "file", cfg.SnapshotFile, "error", err)
			}
		}
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.NewStore(db)

	relay := battle.NewClient(cfg.Battle.RelayURL)
	orchestrator := battle.NewOrchestrator(relay, metricsSvc, battle.Mode(cfg.Battle.Mode), cfg.Battle.MatchTimeout)

	roster := make(rosterChecker, len(cfg.Battle.Bots))
	for _, bot := range cfg.Battle.Bots {
		roster[bot] = true
	}
	pairer, err := pairing.New(cfg.Matchmaking.Strategy, pairing.Options{
		Stats:        store,
		Active:       roster,
		EloThreshold: cfg.Matchmaking.EloThreshold,
	})
	if err != nil {
		log.Fatalf("Failed to initialize pairing strategy: %s", err)
	}

	var slackNotifier notifier.Notifier
	if cfg.Slack.Enabled {
		slackNotifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	}
	var events pubsub.PubSubClient
	if cfg.ProjectID != "" {
		events = pubsub.New(cfg.ProjectID)
	}

	sched := scheduler.New(
		queue.NewQueue(cfg.Matchmaking.MaxQueueSize),
		pairer,
		store,
		orchestrator,
		metricsSvc,
		counters,
		slackNotifier,
		events,
		scheduler.Config{
			Bots:                 cfg.Battle.Bots,
			Format:               cfg.Battle.DefaultFormat,
			Interval:             cfg.Scheduler.Interval,
			MaxConcurrentMatches: cfg.Scheduler.MaxConcurrentMatches,
			MaxWaitTime:          cfg.Matchmaking.MaxWaitTime,
			SnapshotFile:         cfg.SnapshotFile,
		},
	)

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		if err := sched.Run(schedCtx); err != nil {
			log.Error("Scheduler exited with error", "error", err)
		}
	}()

	s := server.NewServer(
		store,
		metricsSvc,
		metricsHandler,
		counters,
		cfg,
		sched,
		slackNotifier,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.ShutdownGrace)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}

		// Stop the scheduler and wait for in-flight matches to settle.
		stopScheduler()
		select {
		case <-schedDone:
			log.Info("Scheduler gracefully stopped")
		case <-time.After(cfg.Scheduler.ShutdownGrace):
			log.Warn("Scheduler did not stop within grace period")
		}
	}

	log.Info("Server process shutting down")
}
