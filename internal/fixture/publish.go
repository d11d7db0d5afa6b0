package fixture

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/database"
)

// Publish promotes a draft to the tournament's single published version and cascades the
// publication onto its matches, rounds, stages and the tournament itself. All of it commits
// together or not at all.
func (s *service) Publish(ctx context.Context, tournamentID, versionID string, note *string) (*PublishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	var result PublishResult
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		version, err := requireVersion(ctx, tx, versionID)
		if err != nil && KindOf(err) != KindVersionNotFound {
			return err
		}
		var linked int
		if version != nil {
			err = tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM fixture_version_matches WHERE fixture_version_id = ?`, versionID,
			).Scan(&linked)
			if err != nil {
				return fmt.Errorf("failed to count linked matches: %w", err)
			}
		}
		if err := CanPublish(PublishCheck{
			TournamentID:  tournamentID,
			VersionID:     versionID,
			Version:       version,
			LinkedMatches: linked,
		}); err != nil {
			return err
		}

		now := s.timestamp()
		res, err := cascadePublish(ctx, tx, *version, now)
		if err != nil {
			return err
		}
		res.Note = note

		entry := ChangeLogEntry{
			TournamentID:     tournamentID,
			StageID:          version.StageID,
			FixtureVersionID: &version.ID,
			Reason:           note,
			CreatedAt:        now,
		}
		err = writeChangeLog(ctx, tx, &entry, VersionPublishedPayload{
			SchemaVersion:       PayloadSchemaVersion,
			VersionNumber:       version.VersionNumber,
			PublishedMatchCount: res.PublishedMatchCount,
			PublishedRoundCount: res.PublishedRoundCount,
			StageIDs:            res.stageIDs,
			ArchivedVersionIDs:  res.ArchivedVersionIDs,
		})
		if err != nil {
			return err
		}
		result = res.PublishResult
		return nil
	})
	if err != nil {
		s.metrics.IncPublishFailures()
		logRejection("Failed to publish fixture version", err, "tournament_id", tournamentID, "version_id", versionID)
		return nil, err
	}

	s.metrics.IncVersionsPublished()
	s.metrics.ObservePublishDuration(time.Since(started).Seconds())
	log.Info("Published fixture version", "tournament_id", tournamentID, "version", result.VersionNumber,
		"matches", result.PublishedMatchCount, "rounds", result.PublishedRoundCount, "stages", result.StageCount,
		"archived", len(result.ArchivedVersionIDs))
	return &result, nil
}

type cascadeResult struct {
	PublishResult
	stageIDs []string
}

// cascadePublish applies the publish steps in order inside tx. Archiving runs before the target is
// marked published so the partial unique index never sees two published versions.
func cascadePublish(ctx context.Context, tx *sql.Tx, version FixtureVersion, now time.Time) (*cascadeResult, error) {
	at := now.Unix()
	res := &cascadeResult{PublishResult: PublishResult{
		TournamentID:       version.TournamentID,
		VersionID:          version.ID,
		VersionNumber:      version.VersionNumber,
		PublishedAt:        now,
		ArchivedVersionIDs: []string{},
	}}

	// 1. Archive whatever is currently published.
	archived, err := queryStrings(ctx, tx, `
		SELECT id FROM fixture_versions
		WHERE tournament_id = ? AND status = 'published' AND id <> ?
		ORDER BY version_number`, version.TournamentID, version.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find published versions: %w", err)
	}
	if len(archived) > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE fixture_versions SET status = 'archived', archived_at = ?
			WHERE tournament_id = ? AND status = 'published' AND id <> ?`,
			at, version.TournamentID, version.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to archive previous versions: %w", err)
		}
		res.ArchivedVersionIDs = archived
	}

	// 2. Publish the target. The status predicate guards against a concurrent publish of the same draft.
	updated, err := execCount(ctx, tx, `
		UPDATE fixture_versions SET status = 'published', published_at = ?
		WHERE id = ? AND status = 'draft'`, at, version.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to publish fixture version: %w", err)
	}
	if updated == 0 {
		return nil, newError(KindVersionNotDraft, "fixture version %d is no longer a draft", version.VersionNumber)
	}

	// 3. Point the tournament at the new version.
	if _, err := tx.ExecContext(ctx, `
		UPDATE tournaments SET fixture_published_at = ?, active_fixture_version = ? WHERE id = ?`,
		at, version.VersionNumber, version.TournamentID); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}

	// 4. Matches.
	if res.PublishedMatchCount, err = execCount(ctx, tx, `
		UPDATE matches SET fixture_status = 'published', fixture_published_at = ?, fixture_version = ?
		WHERE id IN (SELECT match_id FROM fixture_version_matches WHERE fixture_version_id = ?)`,
		at, version.VersionNumber, version.ID); err != nil {
		return nil, fmt.Errorf("failed to publish matches: %w", err)
	}

	// 5. Rounds owned by this version only.
	if res.PublishedRoundCount, err = execCount(ctx, tx, `
		UPDATE fixture_rounds SET status = 'published', published_at = ? WHERE fixture_version_id = ?`,
		at, version.ID); err != nil {
		return nil, fmt.Errorf("failed to publish rounds: %w", err)
	}

	// 6. Stages touched by the linked matches.
	res.stageIDs, err = queryStrings(ctx, tx, `
		SELECT DISTINCT m.stage_id FROM matches m
		JOIN fixture_version_matches fvm ON fvm.match_id = m.id
		WHERE fvm.fixture_version_id = ? AND m.stage_id IS NOT NULL
		ORDER BY m.stage_id`, version.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find touched stages: %w", err)
	}
	for _, stageID := range res.stageIDs {
		if _, err := tx.ExecContext(ctx, `
			UPDATE stages SET fixture_status = 'published', fixture_published_at = ?, fixture_version = ? WHERE id = ?`,
			at, version.VersionNumber, stageID); err != nil {
			return nil, fmt.Errorf("failed to publish stage %s: %w", stageID, err)
		}
	}
	res.StageCount = len(res.stageIDs)
	if res.stageIDs == nil {
		res.stageIDs = []string{}
	}
	return res, nil
}

func execCount(ctx context.Context, tx *sql.Tx, query string, args ...any) (int, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
