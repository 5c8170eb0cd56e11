package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_matches_started_total",
			Help: "The total number of matches started by the orchestrator.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_matches_completed_total",
			Help: "The total number of matches that reached a terminal outcome.",
		}),
		MatchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_matches_failed_total",
			Help: "The total number of matches that failed to start or complete.",
		}),
		PairingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_pairings_created_total",
			Help: "The total number of pairings created, by strategy.",
		}, []string{"strategy"}),
		RequestsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_match_requests_expired_total",
			Help: "The total number of match requests evicted after exceeding their max wait time.",
		}),
		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_match_duration_seconds",
			Help:    "The duration of individual matches.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		QueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_match_queue_size",
			Help: "The current number of pending match requests.",
		}),
		MatchesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_matches_in_flight",
			Help: "The current number of matches being played.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesStarted,
		s.MatchesCompleted,
		s.MatchesFailed,
		s.PairingsCreated,
		s.RequestsExpired,
		s.MatchDuration,
		s.QueueSize,
		s.MatchesInFlight,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupSeconds,
	)

	return s
}

func (s *Service) IncMatchesStarted() {
	s.MatchesStarted.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncMatchesFailed() {
	s.MatchesFailed.Inc()
}

func (s *Service) IncPairingsCreated(strategy string) {
	s.PairingsCreated.WithLabelValues(strategy).Inc()
}

func (s *Service) IncRequestsExpired() {
	s.RequestsExpired.Inc()
}

func (s *Service) ObserveMatchDuration(seconds float64) {
	s.MatchDuration.Observe(seconds)
}

func (s *Service) SetQueueSize(size float64) {
	s.QueueSize.Set(size)
}

func (s *Service) SetMatchesInFlight(count float64) {
	s.MatchesInFlight.Set(count)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupSeconds.Set(duration)
}
