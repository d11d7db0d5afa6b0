package fixture

import (
	"context"
	"sync"
)

// MockService is a mock implementation of the Service interface for testing.
// It is safe for concurrent use.
type MockService struct {
	mu sync.Mutex

	// Spies for method calls
	CreateDraftFunc        func(in CreateDraftInput) (*DraftResult, error)
	CreateRoundFunc        func(in CreateRoundInput) (*FixtureRound, error)
	ValidateConflictsFunc  func(in ValidateConflictsInput) (*ConflictReport, error)
	PublishFunc            func(tournamentID, versionID string, note *string) (*PublishResult, error)
	AttachMatchFunc        func(tournamentID, versionID, matchID string) (*FixtureVersionMatch, error)
	GetVersionFunc         func(versionID string) (*FixtureVersion, error)
	ListVersionsFunc       func(tournamentID string) ([]FixtureVersion, error)
	ActiveVersionFunc      func(tournamentID string) (*FixtureVersion, error)
	ListVersionMatchesFunc func(versionID string) ([]FixtureVersionMatch, error)
	ListRoundsFunc         func(tournamentID string, stageID *string) ([]FixtureRound, error)
	ListChangeLogFunc      func(tournamentID string) ([]ChangeLogEntry, error)

	// Call records
	CreateDraftCalls       []CreateDraftInput
	CreateRoundCalls       []CreateRoundInput
	ValidateConflictsCalls []ValidateConflictsInput
	PublishCalls           []struct {
		TournamentID string
		VersionID    string
		Note         *string
	}
	AttachMatchCalls []struct {
		TournamentID string
		VersionID    string
		MatchID      string
	}
}

var _ Service = (*MockService)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockService {
	return &MockService{}
}

// Reset clears all call records.
func (m *MockService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateDraftCalls = nil
	m.CreateRoundCalls = nil
	m.ValidateConflictsCalls = nil
	m.PublishCalls = nil
	m.AttachMatchCalls = nil
}

func (m *MockService) CreateDraft(ctx context.Context, in CreateDraftInput) (*DraftResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateDraftCalls = append(m.CreateDraftCalls, in)
	if m.CreateDraftFunc != nil {
		return m.CreateDraftFunc(in)
	}
	return &DraftResult{Version: FixtureVersion{TournamentID: in.TournamentID, VersionNumber: 1, Status: VersionStatusDraft}}, nil
}

func (m *MockService) CreateRound(ctx context.Context, in CreateRoundInput) (*FixtureRound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateRoundCalls = append(m.CreateRoundCalls, in)
	if m.CreateRoundFunc != nil {
		return m.CreateRoundFunc(in)
	}
	return &FixtureRound{TournamentID: in.TournamentID, StageID: in.StageID, RoundNumber: in.RoundNumber, Status: RoundStatusDraft}, nil
}

func (m *MockService) ValidateConflicts(ctx context.Context, in ValidateConflictsInput) (*ConflictReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidateConflictsCalls = append(m.ValidateConflictsCalls, in)
	if m.ValidateConflictsFunc != nil {
		return m.ValidateConflictsFunc(in)
	}
	return &ConflictReport{Conflicts: []ConflictItem{}}, nil
}

func (m *MockService) Publish(ctx context.Context, tournamentID, versionID string, note *string) (*PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = append(m.PublishCalls, struct {
		TournamentID string
		VersionID    string
		Note         *string
	}{tournamentID, versionID, note})
	if m.PublishFunc != nil {
		return m.PublishFunc(tournamentID, versionID, note)
	}
	return &PublishResult{TournamentID: tournamentID, VersionID: versionID, ArchivedVersionIDs: []string{}}, nil
}

func (m *MockService) AttachMatch(ctx context.Context, tournamentID, versionID, matchID string) (*FixtureVersionMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AttachMatchCalls = append(m.AttachMatchCalls, struct {
		TournamentID string
		VersionID    string
		MatchID      string
	}{tournamentID, versionID, matchID})
	if m.AttachMatchFunc != nil {
		return m.AttachMatchFunc(tournamentID, versionID, matchID)
	}
	return &FixtureVersionMatch{FixtureVersionID: versionID, MatchID: matchID}, nil
}

func (m *MockService) GetVersion(ctx context.Context, versionID string) (*FixtureVersion, error) {
	if m.GetVersionFunc != nil {
		return m.GetVersionFunc(versionID)
	}
	return nil, newError(KindVersionNotFound, "fixture version %s not found", versionID)
}

func (m *MockService) ListVersions(ctx context.Context, tournamentID string) ([]FixtureVersion, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(tournamentID)
	}
	return []FixtureVersion{}, nil
}

func (m *MockService) ActiveVersion(ctx context.Context, tournamentID string) (*FixtureVersion, error) {
	if m.ActiveVersionFunc != nil {
		return m.ActiveVersionFunc(tournamentID)
	}
	return nil, newError(KindVersionNotFound, "tournament %s has no published fixture version", tournamentID)
}

func (m *MockService) ListVersionMatches(ctx context.Context, versionID string) ([]FixtureVersionMatch, error) {
	if m.ListVersionMatchesFunc != nil {
		return m.ListVersionMatchesFunc(versionID)
	}
	return []FixtureVersionMatch{}, nil
}

func (m *MockService) ListRounds(ctx context.Context, tournamentID string, stageID *string) ([]FixtureRound, error) {
	if m.ListRoundsFunc != nil {
		return m.ListRoundsFunc(tournamentID, stageID)
	}
	return []FixtureRound{}, nil
}

func (m *MockService) ListChangeLog(ctx context.Context, tournamentID string) ([]ChangeLogEntry, error) {
	if m.ListChangeLogFunc != nil {
		return m.ListChangeLogFunc(tournamentID)
	}
	return []ChangeLogEntry{}, nil
}
