package fixture

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

func (s *service) GetVersion(ctx context.Context, versionID string) (*FixtureVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return requireVersion(ctx, s.db, versionID)
}

// ListVersions returns every version of a tournament, newest first.
func (s *service) ListVersions(ctx context.Context, tournamentID string) ([]FixtureVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := requireTournament(ctx, s.db, tournamentID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+` FROM fixture_versions
		WHERE tournament_id = ? ORDER BY version_number DESC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixture versions: %w", err)
	}
	defer rows.Close()

	versions := []FixtureVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture version row: %w", err)
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// ActiveVersion returns the tournament's published version, or FIXTURE_VERSION_NOT_FOUND if none is published.
func (s *service) ActiveVersion(ctx context.Context, tournamentID string) (*FixtureVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := requireTournament(ctx, s.db, tournamentID); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+versionColumns+` FROM fixture_versions
		WHERE tournament_id = ? AND status = 'published'`, tournamentID)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newError(KindVersionNotFound, "tournament %s has no published fixture version", tournamentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active fixture version: %w", err)
	}
	return v, nil
}

// ListVersionMatches returns the matches linked to a version in sequence order, with their snapshots.
func (s *service) ListVersionMatches(ctx context.Context, versionID string) ([]FixtureVersionMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := requireVersion(ctx, s.db, versionID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fixture_version_id, match_id, sequence, snapshot_json, created_at
		FROM fixture_version_matches WHERE fixture_version_id = ? ORDER BY sequence`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixture version matches: %w", err)
	}
	defer rows.Close()

	links := []FixtureVersionMatch{}
	for rows.Next() {
		var (
			link      FixtureVersionMatch
			snapshot  string
			createdAt int64
		)
		if err := rows.Scan(&link.ID, &link.FixtureVersionID, &link.MatchID, &link.Sequence, &snapshot, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan fixture version match row: %w", err)
		}
		if err := json.Unmarshal([]byte(snapshot), &link.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode match snapshot: %w", err)
		}
		link.CreatedAt = unixUTC(createdAt)
		links = append(links, link)
	}
	return links, rows.Err()
}

// ListRounds returns a tournament's rounds, optionally for one stage, by stage, group and number.
func (s *service) ListRounds(ctx context.Context, tournamentID string, stageID *string) ([]FixtureRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + roundColumns + ` FROM fixture_rounds WHERE tournament_id = ?`
	args := []any{tournamentID}
	if stageID != nil {
		query += ` AND stage_id = ?`
		args = append(args, *stageID)
	}
	query += ` ORDER BY stage_id, stage_group_id IS NOT NULL, stage_group_id, round_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixture rounds: %w", err)
	}
	defer rows.Close()

	rounds := []FixtureRound{}
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture round row: %w", err)
		}
		rounds = append(rounds, *r)
	}
	return rounds, rows.Err()
}

// ListChangeLog returns a tournament's audit trail, oldest first.
func (s *service) ListChangeLog(ctx context.Context, tournamentID string) ([]ChangeLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tournament_id, stage_id, fixture_version_id, fixture_round_id, action, reason, payload_json, created_at
		FROM fixture_change_logs WHERE tournament_id = ? ORDER BY created_at, rowid`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixture change log: %w", err)
	}
	defer rows.Close()

	entries := []ChangeLogEntry{}
	for rows.Next() {
		var (
			e         ChangeLogEntry
			action    string
			payload   string
			createdAt int64
		)
		err := rows.Scan(&e.ID, &e.TournamentID, &e.StageID, &e.FixtureVersionID, &e.FixtureRoundID, &action, &e.Reason,
			&payload, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log row: %w", err)
		}
		e.Action = Action(action)
		e.Payload = json.RawMessage(payload)
		e.CreatedAt = unixUTC(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
