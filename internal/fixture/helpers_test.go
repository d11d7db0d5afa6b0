package fixture_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	svc     fixture.Service
	store   tournament.Store
	db      *sql.DB
	metrics *metrics.Mock
}

// setupTestService creates an in-memory database with the real migrations and a fixture service on top.
func setupTestService(t *testing.T) (*testEnv, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	m := metrics.NewMock()
	env := &testEnv{
		svc:     fixture.New(db, m, fixture.WithClock(func() time.Time { return testNow })),
		store:   tournament.New(db),
		db:      db,
		metrics: m,
	}
	return env, teardown
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) tournament(t *testing.T, name string) string {
	t.Helper()
	cup := &tournament.Tournament{Name: name}
	require.NoError(t, e.store.CreateTournament(context.Background(), cup))
	return cup.ID
}

func (e *testEnv) stage(t *testing.T, tournamentID, name string) string {
	t.Helper()
	stage := &tournament.Stage{TournamentID: tournamentID, Name: name}
	require.NoError(t, e.store.CreateStage(context.Background(), stage))
	return stage.ID
}

func (e *testEnv) group(t *testing.T, stageID, name string) string {
	t.Helper()
	group := &tournament.StageGroup{StageID: stageID, Name: name}
	require.NoError(t, e.store.CreateStageGroup(context.Background(), group))
	return group.ID
}

func (e *testEnv) team(t *testing.T, name string) string {
	t.Helper()
	team := &tournament.Team{Name: name}
	require.NoError(t, e.store.CreateTeam(context.Background(), team))
	return team.ID
}

func (e *testEnv) venue(t *testing.T, name string) string {
	t.Helper()
	venue := &tournament.Venue{Name: name}
	require.NoError(t, e.store.CreateVenue(context.Background(), venue))
	return venue.ID
}

// match inserts a match. A zero start leaves it unscheduled.
func (e *testEnv) match(t *testing.T, m tournament.Match) string {
	t.Helper()
	require.NoError(t, e.store.CreateMatch(context.Background(), &m))
	return m.ID
}

// window builds the start and end of a match on the test day.
func window(startHour, startMinute, endHour, endMinute int) (*time.Time, *time.Time) {
	start := time.Date(2026, 11, 7, startHour, startMinute, 0, 0, time.UTC)
	end := time.Date(2026, 11, 7, endHour, endMinute, 0, 0, time.UTC)
	return &start, &end
}

func draft(t *testing.T, env *testEnv, in fixture.CreateDraftInput) *fixture.DraftResult {
	t.Helper()
	res, err := env.svc.CreateDraft(context.Background(), in)
	require.NoError(t, err)
	return res
}
