package fixture_test

import (
	"context"
	"testing"

	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachMatch(t *testing.T) {
	env, teardown := setupTestService(t)
	defer teardown()
	ctx := context.Background()

	cup := env.tournament(t, "Vitality Blast")
	south := env.stage(t, cup, "South Group")
	north := env.stage(t, cup, "North Group")
	other := env.tournament(t, "Royal London Cup")

	seeded := env.match(t, tournament.Match{TournamentID: cup, StageID: &south})
	version := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, IncludeCurrentMatches: ptr(true)}).Version
	southOnly := draft(t, env, fixture.CreateDraftInput{TournamentID: cup, StageID: &south}).Version

	added := env.match(t, tournament.Match{TournamentID: cup, StageID: &north})
	foreignMatch := env.match(t, tournament.Match{TournamentID: other})

	link, err := env.svc.AttachMatch(ctx, cup, version.ID, added)
	require.NoError(t, err)
	assert.Equal(t, 2, link.Sequence, "attached after the seeded match")
	assert.Equal(t, added, link.Snapshot.MatchID)

	links, err := env.svc.ListVersionMatches(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, seeded, links[0].MatchID)

	testCases := []struct {
		name         string
		tournamentID string
		versionID    string
		matchID      string
		expectedKind fixture.Kind
	}{
		{"unknown tournament", "missing", version.ID, added, fixture.KindTournamentNotFound},
		{"unknown version", cup, "missing", added, fixture.KindVersionNotFound},
		{"unknown match", cup, version.ID, "missing", fixture.KindMatchNotFound},
		{"match of another tournament", cup, version.ID, foreignMatch, fixture.KindMatchTournamentMismatch},
		{"match outside the version's stage", cup, southOnly.ID, added, fixture.KindMatchTournamentMismatch},
		{"already attached", cup, version.ID, added, fixture.KindMatchAlreadyAttached},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.AttachMatch(ctx, tc.tournamentID, tc.versionID, tc.matchID)
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, fixture.KindOf(err))
		})
	}

	t.Run("published versions are frozen", func(t *testing.T) {
		_, err := env.svc.Publish(ctx, cup, version.ID, nil)
		require.NoError(t, err)
		late := env.match(t, tournament.Match{TournamentID: cup})
		_, err = env.svc.AttachMatch(ctx, cup, version.ID, late)
		assert.True(t, fixture.IsKind(err, fixture.KindVersionNotDraft))
	})

	entries, err := env.svc.ListChangeLog(ctx, cup)
	require.NoError(t, err)
	attached := 0
	for _, e := range entries {
		if e.Action == fixture.ActionMatchAttached {
			attached++
			payload, err := e.DecodePayload()
			require.NoError(t, err)
			assert.Equal(t, added, payload.(*fixture.MatchAttachedPayload).MatchID)
		}
	}
	assert.Equal(t, 1, attached)
}
