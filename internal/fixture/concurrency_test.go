package fixture_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSharedFile opens two independent handles on one database file, each with its own service,
// so the in-process lock of one service cannot serialize the other.
func setupSharedFile(t *testing.T) (*testEnv, *testEnv) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shared.db")

	open := func() *testEnv {
		db, teardown, err := database.InitDB(path, "", "")
		require.NoError(t, err)
		t.Cleanup(teardown)
		m := metrics.NewMock()
		return &testEnv{
			svc:     fixture.New(db, m, fixture.WithClock(func() time.Time { return testNow })),
			store:   tournament.New(db),
			db:      db,
			metrics: m,
		}
	}
	return open(), open()
}

func TestCreateRound_ConcurrentSameIdentity(t *testing.T) {
	left, right := setupSharedFile(t)
	ctx := context.Background()

	cup := left.tournament(t, "Ranji Trophy")
	stage := left.stage(t, cup, "Elite Group")

	const attempts = 20
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		env := left
		if i%2 == 1 {
			env = right
		}
		wg.Add(1)
		go func(i int, env *testEnv) {
			defer wg.Done()
			_, errs[i] = env.svc.CreateRound(ctx, fixture.CreateRoundInput{TournamentID: cup, StageID: stage, RoundNumber: 1})
		}(i, env)
	}
	wg.Wait()

	created, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case fixture.IsKind(err, fixture.KindRoundAlreadyExists):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, rejected)

	rounds, err := right.svc.ListRounds(ctx, cup, &stage)
	require.NoError(t, err)
	assert.Len(t, rounds, 1)
}

func TestPublish_ConcurrentDrafts(t *testing.T) {
	left, right := setupSharedFile(t)
	ctx := context.Background()

	cup := left.tournament(t, "Duleep Trophy")
	left.match(t, tournament.Match{TournamentID: cup})

	const drafts = 10
	versions := make([]fixture.FixtureVersion, drafts)
	for i := range versions {
		versions[i] = draft(t, left, fixture.CreateDraftInput{TournamentID: cup}).Version
	}

	results := make([]*fixture.PublishResult, drafts)
	errs := make([]error, drafts)
	var wg sync.WaitGroup
	for i := range versions {
		env := left
		if i%2 == 1 {
			env = right
		}
		wg.Add(1)
		go func(i int, env *testEnv) {
			defer wg.Done()
			results[i], errs[i] = env.svc.Publish(ctx, cup, versions[i].ID, nil)
		}(i, env)
	}
	wg.Wait()

	archived := 0
	for i, err := range errs {
		require.NoError(t, err, "publish of version %d", versions[i].VersionNumber)
		archived += len(results[i].ArchivedVersionIDs)
	}
	assert.Equal(t, 1, countPublished(t, left, cup))
	assert.Equal(t, drafts-1, archived, "every publish but the first archives exactly one predecessor")

	active, err := right.svc.ActiveVersion(ctx, cup)
	require.NoError(t, err)
	tour, err := right.store.GetTournament(ctx, cup)
	require.NoError(t, err)
	assert.Equal(t, active.VersionNumber, *tour.ActiveFixtureVersion)
}
