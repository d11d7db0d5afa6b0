package processor

import (
	"context"

	"github.com/mauv0809/wicketkeeper/internal/notifier"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

// Store defines the tournament lookups required by the processor.
type Store interface {
	GetTournament(ctx context.Context, tournamentID string) (*tournament.Tournament, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
