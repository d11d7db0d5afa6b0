package tournament_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (tournament.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return tournament.New(db), db, dbTeardown
}

func ptr[T any](v T) *T { return &v }

func TestCreateAndGetTournament(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	cup := &tournament.Tournament{Name: "Sheffield Shield", OrganizationID: ptr("org-1"), StartDate: &start}
	require.NoError(t, store.CreateTournament(ctx, cup))
	require.NotEmpty(t, cup.ID)

	got, err := store.GetTournament(ctx, cup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sheffield Shield", got.Name)
	assert.Equal(t, "org-1", *got.OrganizationID)
	assert.True(t, start.Equal(*got.StartDate))
	assert.Nil(t, got.ActiveFixtureVersion)
	assert.Nil(t, got.FixturePublishedAt)

	_, err = store.GetTournament(ctx, "missing")
	assert.ErrorIs(t, err, tournament.ErrTournamentNotFound)
}

func TestStagesAndGroups(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	cup := &tournament.Tournament{Name: "World Cup"}
	require.NoError(t, store.CreateTournament(ctx, cup))

	knockout := &tournament.Stage{TournamentID: cup.ID, Name: "Knockouts", StageType: tournament.StageTypeKnockout, Sequence: 2}
	groups := &tournament.Stage{TournamentID: cup.ID, Name: "Group stage", Sequence: 1}
	require.NoError(t, store.CreateStage(ctx, knockout))
	require.NoError(t, store.CreateStage(ctx, groups))
	require.NoError(t, store.CreateStageGroup(ctx, &tournament.StageGroup{StageID: groups.ID, Name: "Group A"}))

	stages, err := store.ListStages(ctx, cup.ID)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "Group stage", stages[0].Name)
	assert.Equal(t, tournament.StageTypeLeague, stages[0].StageType)
	assert.Equal(t, tournament.FixtureStatusDraft, stages[1].FixtureStatus)

	_, err = store.GetStage(ctx, "missing")
	assert.ErrorIs(t, err, tournament.ErrStageNotFound)
}

func TestMatches(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	cup := &tournament.Tournament{Name: "Big Bash"}
	require.NoError(t, store.CreateTournament(ctx, cup))
	home := &tournament.Team{Name: "Perth Scorchers", ShortName: "SCO"}
	away := &tournament.Team{Name: "Sydney Sixers", ShortName: "SIX"}
	require.NoError(t, store.CreateTeam(ctx, home))
	require.NoError(t, store.CreateTeam(ctx, away))
	waca := &tournament.Venue{Name: "WACA", City: "Perth"}
	require.NoError(t, store.CreateVenue(ctx, waca))

	late := time.Date(2026, 12, 20, 18, 0, 0, 0, time.UTC)
	early := time.Date(2026, 12, 19, 18, 0, 0, 0, time.UTC)
	unscheduled := &tournament.Match{TournamentID: cup.ID}
	second := &tournament.Match{TournamentID: cup.ID, ScheduledStartAt: &late, HomeTeamID: &home.ID, AwayTeamID: &away.ID}
	first := &tournament.Match{TournamentID: cup.ID, ScheduledStartAt: &early, VenueID: &waca.ID, HomeTeamID: &home.ID}
	for _, m := range []*tournament.Match{unscheduled, second, first} {
		require.NoError(t, store.CreateMatch(ctx, m))
	}

	matches, err := store.ListMatches(ctx, cup.ID)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, first.ID, matches[0].ID)
	assert.Equal(t, second.ID, matches[1].ID)
	assert.Equal(t, unscheduled.ID, matches[2].ID, "unscheduled matches sort last")
	assert.Equal(t, []string{home.ID, away.ID}, matches[1].TeamIDs())
	assert.Equal(t, []string{home.ID}, matches[0].TeamIDs())
	assert.Equal(t, tournament.FixtureStatusDraft, matches[0].FixtureStatus)

	t.Run("reschedule sets match date from start", func(t *testing.T) {
		newStart := time.Date(2026, 12, 27, 14, 30, 0, 0, time.UTC)
		end := newStart.Add(4 * time.Hour)
		err := store.UpdateMatchSchedule(ctx, unscheduled.ID, tournament.MatchSchedule{
			ScheduledStartAt: newStart,
			ScheduledEndAt:   &end,
			VenueID:          &waca.ID,
		})
		require.NoError(t, err)

		got, err := store.GetMatch(ctx, unscheduled.ID)
		require.NoError(t, err)
		assert.True(t, newStart.Equal(*got.ScheduledStartAt))
		assert.True(t, end.Equal(*got.ScheduledEndAt))
		assert.True(t, time.Date(2026, 12, 27, 0, 0, 0, 0, time.UTC).Equal(*got.MatchDate))
		assert.Equal(t, waca.ID, *got.VenueID)
	})

	t.Run("reschedule of unknown match", func(t *testing.T) {
		err := store.UpdateMatchSchedule(ctx, "missing", tournament.MatchSchedule{ScheduledStartAt: early})
		assert.ErrorIs(t, err, tournament.ErrMatchNotFound)
	})
}

func TestParticipantSources(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	cup := &tournament.Tournament{Name: "Champions Trophy"}
	require.NoError(t, store.CreateTournament(ctx, cup))
	stage := &tournament.Stage{TournamentID: cup.ID, Name: "Groups"}
	require.NoError(t, store.CreateStage(ctx, stage))
	final := &tournament.Match{TournamentID: cup.ID}
	require.NoError(t, store.CreateMatch(ctx, final))

	require.NoError(t, store.SetParticipantSource(ctx, tournament.ParticipantSource{
		MatchID: final.ID, Slot: tournament.SlotAway, SourceType: tournament.SourceTypeGroupPosition,
		SourceStageID: &stage.ID, SourcePosition: ptr(2),
	}))
	require.NoError(t, store.SetParticipantSource(ctx, tournament.ParticipantSource{
		MatchID: final.ID, Slot: tournament.SlotHome, SourceType: tournament.SourceTypeGroupPosition,
		SourceStageID: &stage.ID, SourcePosition: ptr(2),
	}))
	// Replacing the home rule keeps one row per slot.
	require.NoError(t, store.SetParticipantSource(ctx, tournament.ParticipantSource{
		MatchID: final.ID, Slot: tournament.SlotHome, SourceType: tournament.SourceTypeGroupPosition,
		SourceStageID: &stage.ID, SourcePosition: ptr(1),
	}))

	sources, err := store.ListParticipantSources(ctx, final.ID)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, tournament.SlotHome, sources[0].Slot)
	assert.Equal(t, 1, *sources[0].SourcePosition)
	assert.Equal(t, tournament.SlotAway, sources[1].Slot)
	assert.Nil(t, sources[1].SourceGroupID)
}
