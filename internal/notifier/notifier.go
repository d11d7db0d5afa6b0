package notifier

import (
	"context"

	"github.com/mauv0809/wicketkeeper/internal/fixture"
)

// Notifier defines a high-level interface for announcing fixture events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// After a fixture version has been committed as published
	SendFixturePublished(ctx context.Context, published PublishedFixture, dryRun bool) error

	// For slash commands
	FormatActiveFixtureResponse(tournamentName string, version *fixture.FixtureVersion, matches []fixture.FixtureVersionMatch) (any, error)
	FormatNoActiveFixtureResponse(tournamentID string) (any, error)
}

// PublishedFixture is what a publish announcement needs to know.
type PublishedFixture struct {
	TournamentName string
	Result         fixture.PublishResult
}
