package fixture_test

import (
	"context"
	"testing"

	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPublished(t *testing.T, env *testEnv, tournamentID string) int {
	t.Helper()
	var n int
	err := env.db.QueryRow(`SELECT COUNT(*) FROM fixture_versions WHERE tournament_id = ? AND status = 'published'`, tournamentID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestPublish_SinglePublishedVersion(t *testing.T) {
	env, teardown := setupTestService(t)
	defer teardown()
	ctx := context.Background()

	cup := env.tournament(t, "World Test Championship")
	env.match(t, tournament.Match{TournamentID: cup})

	first := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(true)}).Version
	second := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(true)}).Version

	res, err := env.svc.Publish(ctx, cup, first.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, res.ArchivedVersionIDs)
	assert.Equal(t, 1, countPublished(t, env, cup))

	res, err = env.svc.Publish(ctx, cup, second.ID, ptr("Rain reschedule"))
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, res.ArchivedVersionIDs)
	assert.Equal(t, 2, res.VersionNumber)
	assert.Equal(t, testNow, res.PublishedAt)
	assert.Equal(t, 1, countPublished(t, env, cup))

	archived, err := env.svc.GetVersion(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, fixture.VersionStatusArchived, archived.Status)
	require.NotNil(t, archived.ArchivedAt)

	active, err := env.svc.ActiveVersion(ctx, cup)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	t.Run("publishing twice is rejected", func(t *testing.T) {
		_, err := env.svc.Publish(ctx, cup, second.ID, nil)
		assert.True(t, fixture.IsKind(err, fixture.KindVersionNotDraft))
	})

	t.Run("archived versions cannot be republished", func(t *testing.T) {
		_, err := env.svc.Publish(ctx, cup, first.ID, nil)
		assert.True(t, fixture.IsKind(err, fixture.KindVersionNotDraft))
	})

	assert.Equal(t, 2, env.metrics.VersionsPublished())
	assert.Equal(t, 2, env.metrics.PublishFailures())
	assert.Len(t, env.metrics.PublishDurations(), 2)
}

func TestPublish_Preconditions(t *testing.T) {
	env, teardown := setupTestService(t)
	defer teardown()
	ctx := context.Background()

	cup := env.tournament(t, "Caribbean Premier League")
	other := env.tournament(t, "Pakistan Super League")
	env.match(t, tournament.Match{TournamentID: other})
	empty := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(true), Label: ptr("Final schedule")}).Version
	foreign := draft(t, env, fixture.CreateDraftInput{TournamentID: other, IncludeCurrentMatches: ptr(true)}).Version

	testCases := []struct {
		name         string
		tournamentID string
		versionID    string
		expectedKind fixture.Kind
	}{
		{"unknown tournament", "missing", empty.ID, fixture.KindTournamentNotFound},
		{"unknown version", cup, "missing", fixture.KindVersionNotFound},
		{"version of another tournament", cup, foreign.ID, fixture.KindVersionNotFound},
		{"version without matches", cup, empty.ID, fixture.KindVersionEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Publish(ctx, tc.tournamentID, tc.versionID, nil)
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, fixture.KindOf(err))
		})
	}

	_, err := env.svc.ActiveVersion(ctx, cup)
	assert.True(t, fixture.IsKind(err, fixture.KindVersionNotFound))
}

func TestPublish_Cascade(t *testing.T) {
	env, teardown := setupTestService(t)
	defer teardown()
	ctx := context.Background()

	cup := env.tournament(t, "Indian Premier League")
	league := env.stage(t, cup, "League")
	playoffs := env.stage(t, cup, "Playoffs")
	untouched := env.stage(t, cup, "Exhibition")

	matches := []string{
		env.match(t, tournament.Match{TournamentID: cup, StageID: &league}),
		env.match(t, tournament.Match{TournamentID: cup, StageID: &league}),
		env.match(t, tournament.Match{TournamentID: cup, StageID: &playoffs}),
		env.match(t, tournament.Match{TournamentID: cup}),
	}
	version := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(true)}).Version
	later := env.match(t, tournament.Match{TournamentID: cup, StageID: &untouched})
	otherDraft := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(false)}).Version

	owned, err := env.svc.CreateRound(ctx, fixture.CreateRoundInput{TournamentID: cup, StageID: league, RoundNumber: 1, FixtureVersionID: &version.ID})
	require.NoError(t, err)
	foreign, err := env.svc.CreateRound(ctx, fixture.CreateRoundInput{TournamentID: cup, StageID: league, RoundNumber: 2, FixtureVersionID: &otherDraft.ID})
	require.NoError(t, err)
	loose, err := env.svc.CreateRound(ctx, fixture.CreateRoundInput{TournamentID: cup, StageID: playoffs, RoundNumber: 1})
	require.NoError(t, err)

	res, err := env.svc.Publish(ctx, cup, version.ID, ptr("Season opener"))
	require.NoError(t, err)
	assert.Equal(t, len(matches), res.PublishedMatchCount)
	assert.Equal(t, 1, res.PublishedRoundCount)
	assert.Equal(t, 2, res.StageCount)

	t.Run("matches", func(t *testing.T) {
		for _, id := range matches {
			m, err := env.store.GetMatch(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tournament.FixtureStatusPublished, m.FixtureStatus)
			assert.Equal(t, version.VersionNumber, *m.FixtureVersion)
			assert.Equal(t, testNow, *m.FixturePublishedAt)
		}
		m, err := env.store.GetMatch(ctx, later)
		require.NoError(t, err)
		assert.Equal(t, tournament.FixtureStatusDraft, m.FixtureStatus)
		assert.Nil(t, m.FixtureVersion)
	})

	t.Run("stages", func(t *testing.T) {
		stages, err := env.store.ListStages(ctx, cup)
		require.NoError(t, err)
		published := 0
		for _, s := range stages {
			if s.ID == untouched {
				assert.Equal(t, tournament.FixtureStatusDraft, s.FixtureStatus)
				assert.Nil(t, s.FixtureVersion)
				continue
			}
			published++
			assert.Equal(t, tournament.FixtureStatusPublished, s.FixtureStatus)
			assert.Equal(t, version.VersionNumber, *s.FixtureVersion)
		}
		assert.Equal(t, 2, published)
	})

	t.Run("rounds", func(t *testing.T) {
		rounds, err := env.svc.ListRounds(ctx, cup, nil)
		require.NoError(t, err)
		status := map[string]fixture.RoundStatus{}
		for _, r := range rounds {
			status[r.ID] = r.Status
		}
		assert.Equal(t, fixture.RoundStatusPublished, status[owned.ID])
		assert.Equal(t, fixture.RoundStatusDraft, status[foreign.ID])
		assert.Equal(t, fixture.RoundStatusDraft, status[loose.ID])
	})

	t.Run("tournament", func(t *testing.T) {
		got, err := env.store.GetTournament(ctx, cup)
		require.NoError(t, err)
		assert.Equal(t, version.VersionNumber, *got.ActiveFixtureVersion)
		assert.Equal(t, testNow, *got.FixturePublishedAt)
	})

	t.Run("change log", func(t *testing.T) {
		entries, err := env.svc.ListChangeLog(ctx, cup)
		require.NoError(t, err)
		last := entries[len(entries)-1]
		assert.Equal(t, fixture.ActionVersionPublished, last.Action)
		assert.Equal(t, "Season opener", *last.Reason)

		payload, err := last.DecodePayload()
		require.NoError(t, err)
		published := payload.(*fixture.VersionPublishedPayload)
		assert.Equal(t, 4, published.PublishedMatchCount)
		assert.ElementsMatch(t, []string{league, playoffs}, published.StageIDs)
	})
}

func TestPublish_RollsBackOnCascadeFailure(t *testing.T) {
	env, teardown := setupTestService(t)
	defer teardown()
	ctx := context.Background()

	cup := env.tournament(t, "The Hundred")
	env.match(t, tournament.Match{TournamentID: cup})
	current := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(true)}).Version
	_, err := env.svc.Publish(ctx, cup, current.ID, nil)
	require.NoError(t, err)

	next := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(true)}).Version
	_, err = env.db.Exec(`
		CREATE TRIGGER block_match_publish BEFORE UPDATE OF fixture_status ON matches
		BEGIN
			SELECT RAISE(ABORT, 'match cascade blocked');
		END`)
	require.NoError(t, err)

	_, err = env.svc.Publish(ctx, cup, next.ID, ptr("should not land"))
	require.Error(t, err)
	assert.Empty(t, fixture.KindOf(err), "storage failures are not business errors")

	got, err := env.svc.GetVersion(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, fixture.VersionStatusDraft, got.Status)
	assert.Nil(t, got.PublishedAt)

	previous, err := env.svc.GetVersion(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, fixture.VersionStatusPublished, previous.Status, "archiving is rolled back too")

	tour, err := env.store.GetTournament(ctx, cup)
	require.NoError(t, err)
	assert.Equal(t, 1, *tour.ActiveFixtureVersion)

	entries, err := env.svc.ListChangeLog(ctx, cup)
	require.NoError(t, err)
	published := 0
	for _, e := range entries {
		if e.Action == fixture.ActionVersionPublished {
			published++
		}
	}
	assert.Equal(t, 1, published, "no audit entry for the failed publish")
}
