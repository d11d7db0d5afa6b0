package fixture

import "context"

// Service is the fixture versioning and scheduling-conflict engine.
// Every mutating operation runs in a single transaction and either fully applies or leaves no trace.
type Service interface {
	CreateDraft(ctx context.Context, in CreateDraftInput) (*DraftResult, error)
	CreateRound(ctx context.Context, in CreateRoundInput) (*FixtureRound, error)
	ValidateConflicts(ctx context.Context, in ValidateConflictsInput) (*ConflictReport, error)
	Publish(ctx context.Context, tournamentID, versionID string, note *string) (*PublishResult, error)
	AttachMatch(ctx context.Context, tournamentID, versionID, matchID string) (*FixtureVersionMatch, error)

	GetVersion(ctx context.Context, versionID string) (*FixtureVersion, error)
	ListVersions(ctx context.Context, tournamentID string) ([]FixtureVersion, error)
	ActiveVersion(ctx context.Context, tournamentID string) (*FixtureVersion, error)
	ListVersionMatches(ctx context.Context, versionID string) ([]FixtureVersionMatch, error)
	ListRounds(ctx context.Context, tournamentID string, stageID *string) ([]FixtureRound, error)
	ListChangeLog(ctx context.Context, tournamentID string) ([]ChangeLogEntry, error)
}
