package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesStarted()
	IncMatchesCompleted()
	IncMatchesFailed()
	IncPairingsCreated(strategy string)
	IncRequestsExpired()
	ObserveMatchDuration(seconds float64)
	SetQueueSize(size float64)
	SetMatchesInFlight(count float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists lifetime counters in the database, surviving
// restarts where the in-process collectors reset.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
