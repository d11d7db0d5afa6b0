package fixture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mauv0809/wicketkeeper/internal/tournament"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCanPublish(t *testing.T) {
	draft := &FixtureVersion{ID: "v1", TournamentID: "t1", VersionNumber: 1, Status: VersionStatusDraft}
	published := &FixtureVersion{ID: "v2", TournamentID: "t1", VersionNumber: 2, Status: VersionStatusPublished}

	testCases := []struct {
		name         string
		check        PublishCheck
		expectedKind Kind
	}{
		{"publishable", PublishCheck{TournamentID: "t1", VersionID: "v1", Version: draft, LinkedMatches: 3}, ""},
		{"missing", PublishCheck{TournamentID: "t1", VersionID: "v9"}, KindVersionNotFound},
		{"other tournament", PublishCheck{TournamentID: "t2", VersionID: "v1", Version: draft, LinkedMatches: 3}, KindVersionNotFound},
		{"not a draft", PublishCheck{TournamentID: "t1", VersionID: "v2", Version: published, LinkedMatches: 3}, KindVersionNotDraft},
		{"not a draft wins over empty", PublishCheck{TournamentID: "t1", VersionID: "v2", Version: published}, KindVersionNotDraft},
		{"empty", PublishCheck{TournamentID: "t1", VersionID: "v1", Version: draft}, KindVersionEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanPublish(tc.check)
			if tc.expectedKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.expectedKind, KindOf(err))
		})
	}
}

func TestCheckWindow(t *testing.T) {
	nine, ten := at(9, 0), at(10, 0)
	assert.NoError(t, checkWindow(nil, nil))
	assert.NoError(t, checkWindow(&nine, nil))
	assert.NoError(t, checkWindow(&nine, &ten))
	assert.True(t, IsKind(checkWindow(&ten, &nine), KindInvalidScheduleWindow))
	assert.True(t, IsKind(checkWindow(&nine, &nine), KindInvalidScheduleWindow))
}

func TestDetectConflicts(t *testing.T) {
	start, end := at(10, 0), at(12, 0)
	clash := at(11, 0)
	venue := "lords"

	candidates := []tournament.Match{
		{ID: "unscheduled", HomeTeamID: strPtr("a"), VenueID: &venue},
		{ID: "both", ScheduledStartAt: &clash, HomeTeamID: strPtr("b"), AwayTeamID: strPtr("a"), VenueID: &venue},
	}

	got := DetectConflicts(start, end, []string{"a", "", "a", "c"}, &venue, candidates)
	if assert.Len(t, got, 2) {
		assert.Equal(t, ConflictItem{
			Kind: ConflictKindTeam, MatchID: "both", VenueID: &venue, TeamIDs: []string{"a"},
			ScheduledStartAt: clash, ScheduledEndAt: clash.Add(DefaultMatchDuration),
		}, got[0])
		assert.Equal(t, ConflictKindVenue, got[1].Kind)
		assert.Empty(t, got[1].TeamIDs)
	}

	assert.Empty(t, DetectConflicts(start, end, nil, nil, candidates), "no teams and no venue requested")
	assert.NotNil(t, DetectConflicts(start, end, nil, nil, nil))
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("publish: %w", newError(KindVersionEmpty, "no matches"))
	assert.Equal(t, KindVersionEmpty, KindOf(err))
	assert.True(t, IsKind(err, KindVersionEmpty))
	assert.Equal(t, "FIXTURE_VERSION_EMPTY: no matches", newError(KindVersionEmpty, "no matches").Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("disk I/O error")))
	assert.False(t, IsKind(nil, KindVersionEmpty))
}

func TestDecodePayloadUnknownAction(t *testing.T) {
	_, err := ChangeLogEntry{Action: "fixture_version_deleted", Payload: []byte(`{}`)}.DecodePayload()
	assert.Error(t, err)
}
