package tournament

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mauv0809/wicketkeeper/internal/database"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrStageGroupNotFound = errors.New("stage group not found")
	ErrMatchNotFound      = errors.New("match not found")
)

// MatchColumns is the column list understood by ScanMatch, qualified with the "m" alias.
const MatchColumns = `m.id, m.tournament_id, m.stage_id, m.stage_group_id, m.fixture_round_id, m.stage_round,
	m.stage_sequence, m.match_date, m.scheduled_start_at, m.scheduled_end_at, m.venue_id, m.home_team_id,
	m.away_team_id, m.status, m.fixture_status, m.fixture_version, m.fixture_published_at, m.created_at`

// ScanMatch scans a single row selected with MatchColumns.
func ScanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var (
		match                            Match
		matchDate, startAt, endAt, pubAt sql.NullInt64
		createdAt                        int64
		fixtureStatus                    string
	)
	err := scanner.Scan(
		&match.ID, &match.TournamentID, &match.StageID, &match.StageGroupID, &match.FixtureRoundID, &match.StageRound,
		&match.StageSequence, &matchDate, &startAt, &endAt, &match.VenueID, &match.HomeTeamID,
		&match.AwayTeamID, &match.Status, &fixtureStatus, &match.FixtureVersion, &pubAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	match.MatchDate = database.TimePtr(matchDate)
	match.ScheduledStartAt = database.TimePtr(startAt)
	match.ScheduledEndAt = database.TimePtr(endAt)
	match.FixturePublishedAt = database.TimePtr(pubAt)
	match.FixtureStatus = FixtureStatus(fixtureStatus)
	match.CreatedAt = unixUTC(createdAt)
	return &match, nil
}

// LookupTournament loads a tournament through exec, which may be a transaction.
func LookupTournament(ctx context.Context, exec database.Executor, tournamentID string) (*Tournament, error) {
	var (
		t                         Tournament
		startDate, endDate, pubAt sql.NullInt64
		createdAt                 int64
	)
	err := exec.QueryRowContext(ctx, `
		SELECT id, name, organization_id, start_date, end_date, fixture_published_at, active_fixture_version, created_at
		FROM tournaments WHERE id = ?`, tournamentID,
	).Scan(&t.ID, &t.Name, &t.OrganizationID, &startDate, &endDate, &pubAt, &t.ActiveFixtureVersion, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	t.StartDate = database.TimePtr(startDate)
	t.EndDate = database.TimePtr(endDate)
	t.FixturePublishedAt = database.TimePtr(pubAt)
	t.CreatedAt = unixUTC(createdAt)
	return &t, nil
}

// LookupStage loads a stage through exec, which may be a transaction.
func LookupStage(ctx context.Context, exec database.Executor, stageID string) (*Stage, error) {
	row := exec.QueryRowContext(ctx, `
		SELECT id, tournament_id, name, stage_type, sequence, fixture_status, fixture_published_at, fixture_version, created_at
		FROM stages WHERE id = ?`, stageID)
	stage, err := scanStage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	return stage, nil
}

// LookupStageGroup loads a stage group through exec, which may be a transaction.
func LookupStageGroup(ctx context.Context, exec database.Executor, groupID string) (*StageGroup, error) {
	var group StageGroup
	err := exec.QueryRowContext(ctx, `SELECT id, stage_id, name, sequence FROM stage_groups WHERE id = ?`, groupID).
		Scan(&group.ID, &group.StageID, &group.Name, &group.Sequence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStageGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage group: %w", err)
	}
	return &group, nil
}

// LookupMatch loads a match through exec, which may be a transaction.
func LookupMatch(ctx context.Context, exec database.Executor, matchID string) (*Match, error) {
	row := exec.QueryRowContext(ctx, `SELECT `+MatchColumns+` FROM matches m WHERE m.id = ?`, matchID)
	match, err := ScanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

func scanStage(scanner interface{ Scan(...any) error }) (*Stage, error) {
	var (
		stage             Stage
		stageType, status string
		pubAt             sql.NullInt64
		createdAt         int64
	)
	err := scanner.Scan(&stage.ID, &stage.TournamentID, &stage.Name, &stageType, &stage.Sequence, &status, &pubAt,
		&stage.FixtureVersion, &createdAt)
	if err != nil {
		return nil, err
	}
	stage.StageType = StageType(stageType)
	stage.FixtureStatus = FixtureStatus(status)
	stage.FixturePublishedAt = database.TimePtr(pubAt)
	stage.CreatedAt = unixUTC(createdAt)
	return &stage, nil
}
