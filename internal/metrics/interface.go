package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the fixture engine from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncDraftsCreated()
	IncRoundsCreated()
	IncVersionsPublished()
	IncPublishFailures()
	ObservePublishDuration(duration float64)
	IncConflictChecks()
	AddConflictsFound(n int)
	IncNotificationsSent()
	IncNotificationsFailed()
	IncEventsSent()
	IncEventsFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps durable counters that survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
