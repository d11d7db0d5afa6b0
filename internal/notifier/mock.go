package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/wicketkeeper/internal/fixture"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendFixturePublishedFunc func(published PublishedFixture, dryRun bool) error

	// Call records
	SendFixturePublishedCalls []struct {
		Published PublishedFixture
		DryRun    bool
	}
	FormatActiveFixtureCalls []struct {
		TournamentName string
		Version        *fixture.FixtureVersion
		Matches        []fixture.FixtureVersionMatch
	}
	FormatNoActiveFixtureCalls []string
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFixturePublishedCalls = nil
	m.FormatActiveFixtureCalls = nil
	m.FormatNoActiveFixtureCalls = nil
}

func (m *Mock) SendFixturePublished(ctx context.Context, published PublishedFixture, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFixturePublishedCalls = append(m.SendFixturePublishedCalls, struct {
		Published PublishedFixture
		DryRun    bool
	}{published, dryRun})
	if m.SendFixturePublishedFunc != nil {
		return m.SendFixturePublishedFunc(published, dryRun)
	}
	return nil
}

func (m *Mock) FormatActiveFixtureResponse(tournamentName string, version *fixture.FixtureVersion, matches []fixture.FixtureVersionMatch) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatActiveFixtureCalls = append(m.FormatActiveFixtureCalls, struct {
		TournamentName string
		Version        *fixture.FixtureVersion
		Matches        []fixture.FixtureVersionMatch
	}{tournamentName, version, matches})
	return map[string]any{"text": tournamentName}, nil
}

func (m *Mock) FormatNoActiveFixtureResponse(tournamentID string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatNoActiveFixtureCalls = append(m.FormatNoActiveFixtureCalls, tournamentID)
	return map[string]any{"text": "no fixture"}, nil
}

// PublishedCalls returns a copy of the recorded SendFixturePublished calls.
func (m *Mock) PublishedCalls() []PublishedFixture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedFixture, 0, len(m.SendFixturePublishedCalls))
	for _, c := range m.SendFixturePublishedCalls {
		out = append(out, c.Published)
	}
	return out
}
