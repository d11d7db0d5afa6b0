package tournament

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for tournaments and their matches.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// FixtureStatus is the denormalized publication state carried by matches and stages.
type FixtureStatus string

const (
	FixtureStatusDraft     FixtureStatus = "draft"
	FixtureStatusPublished FixtureStatus = "published"
)

// StageType distinguishes league-style stages from knockout brackets.
type StageType string

const (
	StageTypeLeague   StageType = "league"
	StageTypeKnockout StageType = "knockout"
)

type Tournament struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	OrganizationID       *string    `json:"organization_id,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	FixturePublishedAt   *time.Time `json:"fixture_published_at,omitempty"`
	ActiveFixtureVersion *int       `json:"active_fixture_version,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type Stage struct {
	ID                 string        `json:"id"`
	TournamentID       string        `json:"tournament_id"`
	Name               string        `json:"name"`
	StageType          StageType     `json:"stage_type"`
	Sequence           int           `json:"sequence"`
	FixtureStatus      FixtureStatus `json:"fixture_status"`
	FixturePublishedAt *time.Time    `json:"fixture_published_at,omitempty"`
	FixtureVersion     *int          `json:"fixture_version,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

type StageGroup struct {
	ID       string `json:"id"`
	StageID  string `json:"stage_id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
}

type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
}

type Venue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Match carries the scheduling and placement fields of a fixture. Scoring lives elsewhere.
type Match struct {
	ID                 string        `json:"id"`
	TournamentID       string        `json:"tournament_id"`
	StageID            *string       `json:"stage_id,omitempty"`
	StageGroupID       *string       `json:"stage_group_id,omitempty"`
	FixtureRoundID     *string       `json:"fixture_round_id,omitempty"`
	StageRound         *int          `json:"stage_round,omitempty"`
	StageSequence      *int          `json:"stage_sequence,omitempty"`
	MatchDate          *time.Time    `json:"match_date,omitempty"`
	ScheduledStartAt   *time.Time    `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt     *time.Time    `json:"scheduled_end_at,omitempty"`
	VenueID            *string       `json:"venue_id,omitempty"`
	HomeTeamID         *string       `json:"home_team_id,omitempty"`
	AwayTeamID         *string       `json:"away_team_id,omitempty"`
	Status             string        `json:"status"`
	FixtureStatus      FixtureStatus `json:"fixture_status"`
	FixtureVersion     *int          `json:"fixture_version,omitempty"`
	FixturePublishedAt *time.Time    `json:"fixture_published_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

// TeamIDs returns the concrete team ids playing in the match. Unresolved slots are omitted.
func (m Match) TeamIDs() []string {
	ids := make([]string, 0, 2)
	if m.HomeTeamID != nil {
		ids = append(ids, *m.HomeTeamID)
	}
	if m.AwayTeamID != nil {
		ids = append(ids, *m.AwayTeamID)
	}
	return ids
}

// Slot identifies one side of a match.
type Slot string

const (
	SlotHome Slot = "home"
	SlotAway Slot = "away"
)

// SourceType describes how a participant slot is filled.
type SourceType string

const (
	SourceTypeTeam          SourceType = "team"
	SourceTypeGroupPosition SourceType = "group_position"
	SourceTypeMatchWinner   SourceType = "match_winner"
	SourceTypeMatchLoser    SourceType = "match_loser"
)

// ParticipantSource records an advancement rule for a knockout slot, e.g. "2nd in Group B".
// Nothing in this module resolves it into a team.
type ParticipantSource struct {
	MatchID        string     `json:"match_id"`
	Slot           Slot       `json:"slot"`
	SourceType     SourceType `json:"source_type"`
	SourceStageID  *string    `json:"source_stage_id,omitempty"`
	SourceGroupID  *string    `json:"source_group_id,omitempty"`
	SourcePosition *int       `json:"source_position,omitempty"`
}

// MatchSchedule is the set of fields rewritten when a match is (re)scheduled.
type MatchSchedule struct {
	MatchDate        *time.Time
	ScheduledStartAt time.Time
	ScheduledEndAt   *time.Time
	VenueID          *string
}
