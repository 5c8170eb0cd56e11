package http

import (
	"net/http"
	"time"

	"github.com/llm-showdown/arena/internal/config"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/metrics"
	"github.com/llm-showdown/arena/internal/notifier"
	"github.com/llm-showdown/arena/internal/scheduler"
)

// SchedulerControls is the slice of the scheduler the operator API
// needs. The scheduler itself implements it; tests substitute a stub.
type SchedulerControls interface {
	StartMatchNow(format string) error
	ScheduleMatch(format string, delay time.Duration)
	SetAutoSchedule(enabled bool) bool
	AutoSchedule() bool
	Status() scheduler.Status
}

type Server struct {
	Store          leaderboard.LeaderboardStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Scheduler      SchedulerControls
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
