package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	DraftsCreated       prometheus.Counter
	RoundsCreated       prometheus.Counter
	VersionsPublished   prometheus.Counter
	PublishFailures     prometheus.Counter
	PublishDuration     prometheus.Histogram
	ConflictChecks      prometheus.Counter
	ConflictsFound      prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	EventsSent          prometheus.Counter
	EventsFailed        prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
