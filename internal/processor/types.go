package processor

import (
	"time"

	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/pubsub"
)

// Processor fans committed fixture changes out to Pub/Sub and Slack.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	now      func() time.Time
}

// Durable counter keys.
const (
	CounterDraftsCreated     = "fixture_drafts_created"
	CounterRoundsCreated     = "fixture_rounds_created"
	CounterVersionsPublished = "fixture_versions_published"
)
