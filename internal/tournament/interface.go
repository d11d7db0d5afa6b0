package tournament

import "context"

// Store defines the interface for the tournament data the fixture engine reads and cascades into.
type Store interface {
	CreateTournament(ctx context.Context, t *Tournament) error
	GetTournament(ctx context.Context, tournamentID string) (*Tournament, error)
	CreateStage(ctx context.Context, stage *Stage) error
	GetStage(ctx context.Context, stageID string) (*Stage, error)
	ListStages(ctx context.Context, tournamentID string) ([]Stage, error)
	CreateStageGroup(ctx context.Context, group *StageGroup) error
	CreateTeam(ctx context.Context, team *Team) error
	CreateVenue(ctx context.Context, venue *Venue) error
	CreateMatch(ctx context.Context, match *Match) error
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	ListMatches(ctx context.Context, tournamentID string) ([]Match, error)
	UpdateMatchSchedule(ctx context.Context, matchID string, schedule MatchSchedule) error
	SetParticipantSource(ctx context.Context, source ParticipantSource) error
	ListParticipantSources(ctx context.Context, matchID string) ([]ParticipantSource, error)
}
