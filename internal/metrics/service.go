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
		DraftsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_fixture_drafts_created_total",
			Help: "The total number of fixture drafts created.",
		}),
		RoundsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_fixture_rounds_created_total",
			Help: "The total number of fixture rounds created.",
		}),
		VersionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_fixture_versions_published_total",
			Help: "The total number of fixture versions published.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_fixture_publish_failures_total",
			Help: "The total number of publish attempts that were rejected or rolled back.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wicketkeeper_fixture_publish_duration_seconds",
			Help:    "The duration of the publish transaction.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ConflictChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_fixture_conflict_checks_total",
			Help: "The total number of scheduling conflict checks run.",
		}),
		ConflictsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_fixture_conflicts_found_total",
			Help: "The total number of team or venue conflicts reported.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		EventsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_pubsub_events_sent_total",
			Help: "The total number of fixture events published to Pub/Sub.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wicketkeeper_pubsub_events_failed_total",
			Help: "The total number of fixture events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wicketkeeper_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.DraftsCreated,
		s.RoundsCreated,
		s.VersionsPublished,
		s.PublishFailures,
		s.PublishDuration,
		s.ConflictChecks,
		s.ConflictsFound,
		s.NotificationsSent,
		s.NotificationsFailed,
		s.EventsSent,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncDraftsCreated()       { s.DraftsCreated.Inc() }
func (s *Service) IncRoundsCreated()       { s.RoundsCreated.Inc() }
func (s *Service) IncVersionsPublished()   { s.VersionsPublished.Inc() }
func (s *Service) IncPublishFailures()     { s.PublishFailures.Inc() }
func (s *Service) IncConflictChecks()      { s.ConflictChecks.Inc() }
func (s *Service) IncNotificationsSent()   { s.NotificationsSent.Inc() }
func (s *Service) IncNotificationsFailed() { s.NotificationsFailed.Inc() }
func (s *Service) IncEventsSent()          { s.EventsSent.Inc() }
func (s *Service) IncEventsFailed()        { s.EventsFailed.Inc() }

func (s *Service) ObservePublishDuration(duration float64) {
	s.PublishDuration.Observe(duration)
}

func (s *Service) AddConflictsFound(n int) {
	s.ConflictsFound.Add(float64(n))
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
