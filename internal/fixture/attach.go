package fixture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

// AttachMatch links an existing match to a draft version, after any seeded matches.
func (s *service) AttachMatch(ctx context.Context, tournamentID, versionID, matchID string) (*FixtureVersionMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var link *FixtureVersionMatch
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		version, err := requireVersion(ctx, tx, versionID)
		if err != nil {
			return err
		}
		match, err := tournament.LookupMatch(ctx, tx, matchID)
		if errors.Is(err, tournament.ErrMatchNotFound) {
			return newError(KindMatchNotFound, "match %s not found", matchID)
		}
		if err != nil {
			return err
		}

		var attached, nextSequence int
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(match_id = ?), 0), COALESCE(MAX(sequence), 0) + 1
			FROM fixture_version_matches WHERE fixture_version_id = ?`, matchID, versionID,
		).Scan(&attached, &nextSequence)
		if err != nil {
			return fmt.Errorf("failed to inspect fixture version matches: %w", err)
		}
		if err := CanAttach(AttachCheck{
			TournamentID:    tournamentID,
			Version:         *version,
			MatchID:         matchID,
			MatchTournament: match.TournamentID,
			MatchStageID:    match.StageID,
			AlreadyAttached: attached > 0,
		}); err != nil {
			return err
		}

		now := s.timestamp()
		if link, err = insertVersionMatch(ctx, tx, versionID, *match, nextSequence, now.Unix()); err != nil {
			return err
		}
		entry := ChangeLogEntry{
			TournamentID:     tournamentID,
			StageID:          match.StageID,
			FixtureVersionID: &version.ID,
			CreatedAt:        now,
		}
		return writeChangeLog(ctx, tx, &entry, MatchAttachedPayload{
			SchemaVersion: PayloadSchemaVersion,
			VersionNumber: version.VersionNumber,
			MatchID:       matchID,
			Sequence:      nextSequence,
		})
	})
	if err != nil {
		logRejection("Failed to attach match", err, "tournament_id", tournamentID, "version_id", versionID, "match_id", matchID)
		return nil, err
	}

	log.Info("Attached match to fixture version", "version_id", versionID, "match_id", matchID, "sequence", link.Sequence)
	return link, nil
}
