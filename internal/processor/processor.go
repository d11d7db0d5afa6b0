package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/notifier"
	"github.com/mauv0809/wicketkeeper/internal/pubsub"
	"golang.org/x/sync/errgroup"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, counters metrics.MetricsStore) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		counters: counters,
		now:      time.Now,
	}
}

// DraftCreated announces a committed draft. Failures are logged and counted only.
func (p *Processor) DraftCreated(ctx context.Context, res *fixture.DraftResult, dryRun bool) {
	p.counters.Increment(CounterDraftsCreated)
	event := pubsub.FixtureEvent{
		TournamentID:  res.Version.TournamentID,
		VersionID:     res.Version.ID,
		VersionNumber: res.Version.VersionNumber,
		MatchCount:    res.SeededMatchCount,
		OccurredAt:    p.now().UTC(),
	}
	if res.Version.StageID != nil {
		event.StageID = *res.Version.StageID
	}
	_ = p.sendEvent(ctx, pubsub.EventDraftCreated, event, dryRun)
}

// RoundCreated announces a committed round. Failures are logged and counted only.
func (p *Processor) RoundCreated(ctx context.Context, round *fixture.FixtureRound, dryRun bool) {
	p.counters.Increment(CounterRoundsCreated)
	event := pubsub.FixtureEvent{
		TournamentID: round.TournamentID,
		StageID:      round.StageID,
		RoundID:      round.ID,
		RoundNumber:  round.RoundNumber,
		OccurredAt:   p.now().UTC(),
	}
	if round.FixtureVersionID != nil {
		event.VersionID = *round.FixtureVersionID
	}
	_ = p.sendEvent(ctx, pubsub.EventRoundCreated, event, dryRun)
}

// VersionPublished sends the publish event and the Slack announcement concurrently.
// The publish is already committed; nothing here can undo it.
func (p *Processor) VersionPublished(ctx context.Context, res *fixture.PublishResult, dryRun bool) error {
	p.counters.Increment(CounterVersionsPublished)

	var g errgroup.Group
	g.Go(func() error {
		return p.sendEvent(ctx, pubsub.EventVersionPublished, pubsub.FixtureEvent{
			TournamentID:       res.TournamentID,
			VersionID:          res.VersionID,
			VersionNumber:      res.VersionNumber,
			MatchCount:         res.PublishedMatchCount,
			ArchivedVersionIDs: res.ArchivedVersionIDs,
			OccurredAt:         res.PublishedAt,
		}, dryRun)
	})
	g.Go(func() error {
		name := res.TournamentID
		if t, err := p.store.GetTournament(ctx, res.TournamentID); err != nil {
			log.Warn("Could not load tournament for announcement", "error", err, "tournament_id", res.TournamentID)
		} else {
			name = t.Name
		}
		if err := p.notifier.SendFixturePublished(ctx, notifier.PublishedFixture{TournamentName: name, Result: *res}, dryRun); err != nil {
			log.Error("Failed to announce published fixture", "error", err, "tournament_id", res.TournamentID)
			return fmt.Errorf("slack announcement: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Post-publish fan-out incomplete", "error", err, "tournament_id", res.TournamentID, "version", res.VersionNumber)
		return err
	}
	log.Info("Post-publish fan-out finished", "tournament_id", res.TournamentID, "version", res.VersionNumber)
	return nil
}

func (p *Processor) sendEvent(ctx context.Context, topic pubsub.EventType, event pubsub.FixtureEvent, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would publish event", "topic", topic, "tournament_id", event.TournamentID)
		return nil
	}
	if err := p.pubsub.SendMessage(ctx, topic, event); err != nil {
		p.metrics.IncEventsFailed()
		log.Error("Failed to publish fixture event", "error", err, "topic", topic)
		return fmt.Errorf("pubsub %s: %w", topic, err)
	}
	p.metrics.IncEventsSent()
	return nil
}
