package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

// ValidateConflicts reports existing matches whose windows overlap the proposed one and that share
// a requested team or the requested venue. Conflicts are a normal result; only bad input or a
// missing tournament produce an error.
func (s *service) ValidateConflicts(ctx context.Context, in ValidateConflictsInput) (*ConflictReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := requireTournament(ctx, s.db, in.TournamentID); err != nil {
		return nil, err
	}
	end := EffectiveEnd(in.ScheduledStartAt, in.ScheduledEndAt)
	if !in.ScheduledStartAt.Before(end) {
		return nil, newError(KindInvalidScheduleWindow, "start %s must be before end %s",
			in.ScheduledStartAt.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	query := `SELECT ` + tournament.MatchColumns + ` FROM matches m WHERE m.tournament_id = ?`
	args := []any{in.TournamentID}
	if in.StageID != nil {
		query += ` AND m.stage_id = ?`
		args = append(args, *in.StageID)
	}
	if in.ExcludeMatchID != nil {
		query += ` AND m.id <> ?`
		args = append(args, *in.ExcludeMatchID)
	}
	query += ` ORDER BY m.scheduled_start_at, m.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate matches: %w", err)
	}
	defer rows.Close()

	var candidates []tournament.Match
	for rows.Next() {
		match, err := tournament.ScanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		candidates = append(candidates, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	conflicts := DetectConflicts(in.ScheduledStartAt, end, in.TeamIDs, in.VenueID, candidates)
	s.metrics.IncConflictChecks()
	s.metrics.AddConflictsFound(len(conflicts))
	if len(conflicts) > 0 {
		log.Debug("Scheduling conflicts found", "tournament_id", in.TournamentID, "count", len(conflicts))
	}
	return &ConflictReport{Conflicts: conflicts, HasConflicts: len(conflicts) > 0}, nil
}

// DetectConflicts checks the window [start, end) against candidates. A candidate may yield both a
// team and a venue item. Candidates without a start time are skipped.
func DetectConflicts(start, end time.Time, teamIDs []string, venueID *string, candidates []tournament.Match) []ConflictItem {
	requested := dedupe(teamIDs)
	conflicts := []ConflictItem{}

	for _, c := range candidates {
		if c.ScheduledStartAt == nil {
			continue
		}
		cStart := *c.ScheduledStartAt
		cEnd := EffectiveEnd(cStart, c.ScheduledEndAt)
		if !Overlaps(start, end, cStart, cEnd) {
			continue
		}

		if shared := intersect(requested, c.TeamIDs()); len(shared) > 0 {
			conflicts = append(conflicts, ConflictItem{
				Kind:             ConflictKindTeam,
				MatchID:          c.ID,
				StageID:          c.StageID,
				VenueID:          c.VenueID,
				TeamIDs:          shared,
				ScheduledStartAt: cStart,
				ScheduledEndAt:   cEnd,
			})
		}
		if venueID != nil && c.VenueID != nil && *venueID == *c.VenueID {
			conflicts = append(conflicts, ConflictItem{
				Kind:             ConflictKindVenue,
				MatchID:          c.ID,
				StageID:          c.StageID,
				VenueID:          c.VenueID,
				ScheduledStartAt: cStart,
				ScheduledEndAt:   cEnd,
			})
		}
	}
	return conflicts
}

// dedupe drops blanks and repeats, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// intersect returns the members of requested that also appear in other, in requested order.
func intersect(requested, other []string) []string {
	var shared []string
	for _, id := range requested {
		for _, o := range other {
			if id == o {
				shared = append(shared, id)
				break
			}
		}
	}
	return shared
}
