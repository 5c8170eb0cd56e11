package http

import (
	"net/http"

	"github.com/llm-showdown/arena/internal/config"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/metrics"
	"github.com/llm-showdown/arena/internal/notifier"
)

func NewServer(store leaderboard.LeaderboardStore, metricsSvc metrics.Metrics, metricsHandler http.Handler,
	counters metrics.MetricsStore, cfg config.Config, sched SchedulerControls, notifier notifier.Notifier) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Scheduler:      sched,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an
	// authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/api/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/api/stats", Chain(s.BattleStatsHandler(), paramsMiddleware))
	s.Router.Handle("/api/update", Chain(s.UpdateHandler(), paramsMiddleware))
	s.Router.Handle("/api/battle-status", Chain(s.BattleStatusHandler(), paramsMiddleware))
	s.Router.Handle("/api/start-battle", Chain(s.StartBattleHandler(), paramsMiddleware))
	s.Router.Handle("/api/schedule-battle", Chain(s.ScheduleBattleHandler(), paramsMiddleware))
	s.Router.Handle("/api/toggle-auto-schedule", Chain(s.ToggleAutoScheduleHandler(), paramsMiddleware))
	s.Router.Handle("/api/counters", Chain(s.CountersHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
