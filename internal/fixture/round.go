package fixture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-sqlite3"
	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

// CreateRound adds a round to a stage (and optionally a stage group) at status draft.
// The position (stage, group-or-none, round number) must be free; a missing group is its own bucket.
func (s *service) CreateRound(ctx context.Context, in CreateRoundInput) (*FixtureRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var round FixtureRound
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireTournament(ctx, tx, in.TournamentID); err != nil {
			return err
		}
		if _, err := requireStage(ctx, tx, in.TournamentID, in.StageID); err != nil {
			return err
		}
		if err := checkWindow(in.ScheduledStartAt, in.ScheduledEndAt); err != nil {
			return err
		}
		if in.StageGroupID != nil {
			group, err := tournament.LookupStageGroup(ctx, tx, *in.StageGroupID)
			if errors.Is(err, tournament.ErrStageGroupNotFound) || (err == nil && group.StageID != in.StageID) {
				return newError(KindStageGroupNotFound, "stage group %s not found in stage %s", *in.StageGroupID, in.StageID)
			}
			if err != nil {
				return err
			}
		}
		if in.FixtureVersionID != nil {
			version, err := requireVersion(ctx, tx, *in.FixtureVersionID)
			if err != nil {
				return err
			}
			if err := CanOwnRound(*version, in.TournamentID, in.StageID); err != nil {
				return err
			}
		}

		// "IS" compares NULL equal to NULL, so an ungrouped round only collides with ungrouped rounds.
		var existing int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM fixture_rounds
			WHERE stage_id = ? AND stage_group_id IS ? AND round_number = ?`,
			in.StageID, in.StageGroupID, in.RoundNumber,
		).Scan(&existing)
		if err != nil {
			return fmt.Errorf("failed to check round identity: %w", err)
		}
		if existing > 0 {
			return roundExists(in)
		}

		stamped, metadata, err := encodeMetadata(in.Metadata)
		if err != nil {
			return err
		}
		now := s.timestamp()
		round = FixtureRound{
			ID:               newID(),
			TournamentID:     in.TournamentID,
			StageID:          in.StageID,
			StageGroupID:     in.StageGroupID,
			FixtureVersionID: in.FixtureVersionID,
			RoundNumber:      in.RoundNumber,
			Name:             fmt.Sprintf("Round %d", in.RoundNumber),
			PairingMethod:    DefaultPairingMethod,
			Status:           RoundStatusDraft,
			ScheduledStartAt: in.ScheduledStartAt,
			ScheduledEndAt:   in.ScheduledEndAt,
			Metadata:         stamped,
			CreatedAt:        now,
		}
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			round.Name = strings.TrimSpace(*in.Name)
		}
		if in.PairingMethod != "" {
			round.PairingMethod = in.PairingMethod
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO fixture_rounds (
				id, tournament_id, stage_id, stage_group_id, fixture_version_id, round_number, name, pairing_method,
				status, scheduled_start_at, scheduled_end_at, metadata_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			round.ID, round.TournamentID, round.StageID, round.StageGroupID, round.FixtureVersionID, round.RoundNumber,
			round.Name, round.PairingMethod, string(round.Status), database.NullTime(round.ScheduledStartAt),
			database.NullTime(round.ScheduledEndAt), metadata, now.Unix(),
		)
		if isUniqueViolation(err) {
			return roundExists(in)
		}
		if err != nil {
			return fmt.Errorf("failed to create fixture round: %w", err)
		}

		entry := ChangeLogEntry{
			TournamentID:     in.TournamentID,
			StageID:          &round.StageID,
			FixtureVersionID: round.FixtureVersionID,
			FixtureRoundID:   &round.ID,
			CreatedAt:        now,
		}
		return writeChangeLog(ctx, tx, &entry, RoundCreatedPayload{
			SchemaVersion:    PayloadSchemaVersion,
			RoundNumber:      round.RoundNumber,
			Name:             round.Name,
			PairingMethod:    round.PairingMethod,
			StageGroupID:     round.StageGroupID,
			FixtureVersionID: round.FixtureVersionID,
		})
	})
	if err != nil {
		logRejection("Failed to create fixture round", err, "tournament_id", in.TournamentID, "stage_id", in.StageID,
			"round", in.RoundNumber)
		return nil, err
	}

	s.metrics.IncRoundsCreated()
	log.Info("Created fixture round", "id", round.ID, "stage_id", round.StageID, "round", round.RoundNumber)
	return &round, nil
}

func roundExists(in CreateRoundInput) error {
	group := "no group"
	if in.StageGroupID != nil {
		group = "group " + *in.StageGroupID
	}
	return newError(KindRoundAlreadyExists, "round %d already exists in stage %s (%s)", in.RoundNumber, in.StageID, group)
}

// isUniqueViolation detects a lost race against a concurrent insert of the same round identity.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	// libsql reports constraint failures as plain text.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
