package tournament

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// Methods without a Func return zero values. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetTournamentFunc       func(tournamentID string) (*Tournament, error)
	GetMatchFunc            func(matchID string) (*Match, error)
	ListMatchesFunc         func(tournamentID string) ([]Match, error)
	UpdateMatchScheduleFunc func(matchID string, schedule MatchSchedule) error

	// Call records
	GetTournamentCalls       []string
	UpdateMatchScheduleCalls []struct {
		MatchID  string
		Schedule MatchSchedule
	}
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTournamentCalls = nil
	m.UpdateMatchScheduleCalls = nil
}

func (m *MockStore) CreateTournament(ctx context.Context, t *Tournament) error { return nil }

func (m *MockStore) GetTournament(ctx context.Context, tournamentID string) (*Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTournamentCalls = append(m.GetTournamentCalls, tournamentID)
	if m.GetTournamentFunc != nil {
		return m.GetTournamentFunc(tournamentID)
	}
	return nil, ErrTournamentNotFound
}

func (m *MockStore) CreateStage(ctx context.Context, stage *Stage) error { return nil }

func (m *MockStore) GetStage(ctx context.Context, stageID string) (*Stage, error) {
	return nil, ErrStageNotFound
}

func (m *MockStore) ListStages(ctx context.Context, tournamentID string) ([]Stage, error) {
	return []Stage{}, nil
}

func (m *MockStore) CreateStageGroup(ctx context.Context, group *StageGroup) error { return nil }
func (m *MockStore) CreateTeam(ctx context.Context, team *Team) error              { return nil }
func (m *MockStore) CreateVenue(ctx context.Context, venue *Venue) error           { return nil }
func (m *MockStore) CreateMatch(ctx context.Context, match *Match) error           { return nil }

func (m *MockStore) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) ListMatches(ctx context.Context, tournamentID string) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(tournamentID)
	}
	return []Match{}, nil
}

func (m *MockStore) UpdateMatchSchedule(ctx context.Context, matchID string, schedule MatchSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchScheduleCalls = append(m.UpdateMatchScheduleCalls, struct {
		MatchID  string
		Schedule MatchSchedule
	}{matchID, schedule})
	if m.UpdateMatchScheduleFunc != nil {
		return m.UpdateMatchScheduleFunc(matchID, schedule)
	}
	return nil
}

func (m *MockStore) SetParticipantSource(ctx context.Context, source ParticipantSource) error {
	return nil
}

func (m *MockStore) ListParticipantSources(ctx context.Context, matchID string) ([]ParticipantSource, error) {
	return []ParticipantSource{}, nil
}
