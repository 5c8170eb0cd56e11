package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed implementation of Metrics.
type Service struct {
	MatchesStarted   prometheus.Counter
	MatchesCompleted prometheus.Counter
	MatchesFailed    prometheus.Counter
	PairingsCreated  *prometheus.CounterVec
	RequestsExpired  prometheus.Counter
	MatchDuration    prometheus.Histogram
	QueueSize        prometheus.Gauge
	MatchesInFlight  prometheus.Gauge
	SlackNotifSent   prometheus.Counter
	SlackNotifFailed prometheus.Counter
	StartupSeconds   prometheus.Gauge
}
