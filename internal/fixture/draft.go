package fixture

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

// CreateDraft opens the next fixture version of a tournament at status draft, optionally seeded
// with a snapshot of every match currently in scope.
func (s *service) CreateDraft(ctx context.Context, in CreateDraftInput) (*DraftResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	includeCurrent := in.seedsCurrentMatches()
	var result DraftResult
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireTournament(ctx, tx, in.TournamentID); err != nil {
			return err
		}
		if in.StageID != nil {
			if _, err := requireStage(ctx, tx, in.TournamentID, *in.StageID); err != nil {
				return err
			}
		}

		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version_number), 0) + 1 FROM fixture_versions WHERE tournament_id = ?`,
			in.TournamentID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to compute next version number: %w", err)
		}

		stamped, metadata, err := encodeMetadata(in.Metadata)
		if err != nil {
			return err
		}
		now := s.timestamp()
		version := FixtureVersion{
			ID:            newID(),
			TournamentID:  in.TournamentID,
			StageID:       in.StageID,
			VersionNumber: next,
			Status:        VersionStatusDraft,
			Label:         in.Label,
			Metadata:      stamped,
			CreatedAt:     now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO fixture_versions (id, tournament_id, stage_id, version_number, status, label, metadata_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			version.ID, version.TournamentID, version.StageID, version.VersionNumber, string(version.Status),
			version.Label, metadata, now.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to create fixture version: %w", err)
		}

		seeded := 0
		if includeCurrent {
			if seeded, err = seedVersion(ctx, tx, version, now.Unix()); err != nil {
				return err
			}
		}

		entry := ChangeLogEntry{
			TournamentID:     in.TournamentID,
			StageID:          in.StageID,
			FixtureVersionID: &version.ID,
			CreatedAt:        now,
		}
		err = writeChangeLog(ctx, tx, &entry, DraftCreatedPayload{
			SchemaVersion:         PayloadSchemaVersion,
			VersionNumber:         version.VersionNumber,
			StageID:               in.StageID,
			Label:                 in.Label,
			IncludeCurrentMatches: includeCurrent,
			SeededMatchCount:      seeded,
		})
		if err != nil {
			return err
		}

		result = DraftResult{Version: version, SeededMatchCount: seeded}
		return nil
	})
	if err != nil {
		logRejection("Failed to create fixture draft", err, "tournament_id", in.TournamentID)
		return nil, err
	}

	s.metrics.IncDraftsCreated()
	log.Info("Created fixture draft", "tournament_id", in.TournamentID, "version", result.Version.VersionNumber,
		"seeded_matches", result.SeededMatchCount, "include_current", includeCurrent)
	return &result, nil
}

// seedVersion links every match of the version's scope, in schedule order, and returns how many were linked.
// Unscheduled values sort after scheduled ones.
func seedVersion(ctx context.Context, tx *sql.Tx, version FixtureVersion, createdAt int64) (int, error) {
	query := `SELECT ` + tournament.MatchColumns + ` FROM matches m WHERE m.tournament_id = ?`
	args := []any{version.TournamentID}
	if version.StageID != nil {
		query += ` AND m.stage_id = ?`
		args = append(args, *version.StageID)
	}
	query += ` ORDER BY m.match_date IS NULL, m.match_date, m.stage_round IS NULL, m.stage_round,
		m.stage_sequence IS NULL, m.stage_sequence, m.id`

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to query matches for seeding: %w", err)
	}
	var matches []tournament.Match
	for rows.Next() {
		match, err := tournament.ScanMatch(rows)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *match)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate matches: %w", err)
	}

	for i, match := range matches {
		if _, err := insertVersionMatch(ctx, tx, version.ID, match, i+1, createdAt); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

// logRejection logs business-rule rejections at warn and anything else at error.
func logRejection(msg string, err error, keyvals ...any) {
	keyvals = append(keyvals, "error", err)
	if kind := KindOf(err); kind != "" {
		log.Warn(msg, append(keyvals, "kind", string(kind))...)
		return
	}
	log.Error(msg, keyvals...)
}
