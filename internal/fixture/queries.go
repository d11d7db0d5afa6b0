package fixture

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

const versionColumns = `id, tournament_id, stage_id, version_number, status, label, metadata_json, created_at,
	published_at, archived_at`

const roundColumns = `id, tournament_id, stage_id, stage_group_id, fixture_version_id, round_number, name,
	pairing_method, status, scheduled_start_at, scheduled_end_at, locked_at, published_at, metadata_json, created_at`

type scanner interface {
	Scan(dest ...any) error
}

// requireTournament maps a missing tournament to TOURNAMENT_NOT_FOUND.
func requireTournament(ctx context.Context, exec database.Executor, tournamentID string) (*tournament.Tournament, error) {
	t, err := tournament.LookupTournament(ctx, exec, tournamentID)
	if errors.Is(err, tournament.ErrTournamentNotFound) {
		return nil, newError(KindTournamentNotFound, "tournament %s not found", tournamentID)
	}
	return t, err
}

// requireStage maps a missing stage, or one belonging to another tournament, to STAGE_NOT_FOUND.
func requireStage(ctx context.Context, exec database.Executor, tournamentID, stageID string) (*tournament.Stage, error) {
	stage, err := tournament.LookupStage(ctx, exec, stageID)
	if errors.Is(err, tournament.ErrStageNotFound) || (err == nil && stage.TournamentID != tournamentID) {
		return nil, newError(KindStageNotFound, "stage %s not found in tournament %s", stageID, tournamentID)
	}
	return stage, err
}

// requireVersion maps a missing version to FIXTURE_VERSION_NOT_FOUND.
func requireVersion(ctx context.Context, exec database.Executor, versionID string) (*FixtureVersion, error) {
	row := exec.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM fixture_versions WHERE id = ?`, versionID)
	version, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newError(KindVersionNotFound, "fixture version %s not found", versionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture version: %w", err)
	}
	return version, nil
}

func scanVersion(row scanner) (*FixtureVersion, error) {
	var (
		v                   FixtureVersion
		status              string
		metadata            sql.NullString
		createdAt           int64
		publishedAt, archAt sql.NullInt64
	)
	err := row.Scan(&v.ID, &v.TournamentID, &v.StageID, &v.VersionNumber, &status, &v.Label, &metadata, &createdAt,
		&publishedAt, &archAt)
	if err != nil {
		return nil, err
	}
	v.Status = VersionStatus(status)
	v.CreatedAt = unixUTC(createdAt)
	v.PublishedAt = database.TimePtr(publishedAt)
	v.ArchivedAt = database.TimePtr(archAt)
	if v.Metadata, err = decodeMetadata(metadata); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanRound(row scanner) (*FixtureRound, error) {
	var (
		r                                   FixtureRound
		status                              string
		startAt, endAt, lockedAt, publishAt sql.NullInt64
		metadata                            sql.NullString
		createdAt                           int64
	)
	err := row.Scan(&r.ID, &r.TournamentID, &r.StageID, &r.StageGroupID, &r.FixtureVersionID, &r.RoundNumber, &r.Name,
		&r.PairingMethod, &status, &startAt, &endAt, &lockedAt, &publishAt, &metadata, &createdAt)
	if err != nil {
		return nil, err
	}
	r.Status = RoundStatus(status)
	r.ScheduledStartAt = database.TimePtr(startAt)
	r.ScheduledEndAt = database.TimePtr(endAt)
	r.LockedAt = database.TimePtr(lockedAt)
	r.PublishedAt = database.TimePtr(publishAt)
	r.CreatedAt = unixUTC(createdAt)
	if r.Metadata, err = decodeMetadata(metadata); err != nil {
		return nil, err
	}
	return &r, nil
}

// encodeMetadata serializes a copy of m stamped with the current schema version and returns that copy.
// m itself is left untouched. A nil m is stored as NULL.
func encodeMetadata(m *Metadata) (*Metadata, sql.NullString, error) {
	if m == nil {
		return nil, sql.NullString{}, nil
	}
	stamped := *m
	if stamped.SchemaVersion == 0 {
		stamped.SchemaVersion = MetadataSchemaVersion
	}
	body, err := json.Marshal(stamped)
	if err != nil {
		return nil, sql.NullString{}, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return &stamped, sql.NullString{String: string(body), Valid: true}, nil
}

func decodeMetadata(v sql.NullString) (*Metadata, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(v.String), &m); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &m, nil
}

// snapshotOf freezes the scheduling fields of m.
func snapshotOf(m tournament.Match) MatchSnapshot {
	return MatchSnapshot{
		SchemaVersion:    SnapshotSchemaVersion,
		MatchID:          m.ID,
		StageID:          m.StageID,
		StageGroupID:     m.StageGroupID,
		FixtureRoundID:   m.FixtureRoundID,
		StageRound:       m.StageRound,
		StageSequence:    m.StageSequence,
		MatchDate:        m.MatchDate,
		ScheduledStartAt: m.ScheduledStartAt,
		ScheduledEndAt:   m.ScheduledEndAt,
		VenueID:          m.VenueID,
		HomeTeamID:       m.HomeTeamID,
		AwayTeamID:       m.AwayTeamID,
		Status:           m.Status,
	}
}

// insertVersionMatch links match to version at sequence with a snapshot taken now.
func insertVersionMatch(ctx context.Context, exec database.Executor, versionID string, match tournament.Match, sequence int, createdAt int64) (*FixtureVersionMatch, error) {
	snapshot := snapshotOf(match)
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode match snapshot: %w", err)
	}
	link := FixtureVersionMatch{
		ID:               newID(),
		FixtureVersionID: versionID,
		MatchID:          match.ID,
		Sequence:         sequence,
		Snapshot:         snapshot,
		CreatedAt:        unixUTC(createdAt),
	}
	_, err = exec.ExecContext(ctx, `
		INSERT INTO fixture_version_matches (id, fixture_version_id, match_id, sequence, snapshot_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		link.ID, link.FixtureVersionID, link.MatchID, link.Sequence, string(body), createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to link match %s to fixture version: %w", match.ID, err)
	}
	return &link, nil
}
