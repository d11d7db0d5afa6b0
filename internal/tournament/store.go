package tournament

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/wicketkeeper/internal/database"
)

// New creates a new tournament Store.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

func unixUTC(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// CreateTournament inserts a tournament. The id is generated when empty.
func (s *store) CreateTournament(ctx context.Context, t *Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = newID(t.ID)
	t.CreatedAt = s.now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, organization_id, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.OrganizationID, database.NullTime(t.StartDate), database.NullTime(t.EndDate), t.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	log.Info("Created tournament", "id", t.ID, "name", t.Name)
	return nil
}

// GetTournament retrieves a tournament by ID.
func (s *store) GetTournament(ctx context.Context, tournamentID string) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LookupTournament(ctx, s.db, tournamentID)
}

// CreateStage inserts a stage. Its fixture status always starts as draft.
func (s *store) CreateStage(ctx context.Context, stage *Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stage.ID = newID(stage.ID)
	if stage.StageType == "" {
		stage.StageType = StageTypeLeague
	}
	stage.FixtureStatus = FixtureStatusDraft
	stage.CreatedAt = s.now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stages (id, tournament_id, name, stage_type, sequence, fixture_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stage.ID, stage.TournamentID, stage.Name, string(stage.StageType), stage.Sequence, string(stage.FixtureStatus),
		stage.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create stage: %w", err)
	}
	log.Info("Created stage", "id", stage.ID, "tournament_id", stage.TournamentID, "name", stage.Name)
	return nil
}

// GetStage retrieves a stage by ID.
func (s *store) GetStage(ctx context.Context, stageID string) (*Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LookupStage(ctx, s.db, stageID)
}

// ListStages returns a tournament's stages in sequence order.
func (s *store) ListStages(ctx context.Context, tournamentID string) ([]Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tournament_id, name, stage_type, sequence, fixture_status, fixture_published_at, fixture_version, created_at
		FROM stages WHERE tournament_id = ? ORDER BY sequence, id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}
	defer rows.Close()

	stages := []Stage{}
	for rows.Next() {
		stage, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stage row: %w", err)
		}
		stages = append(stages, *stage)
	}
	return stages, rows.Err()
}

func (s *store) CreateStageGroup(ctx context.Context, group *StageGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group.ID = newID(group.ID)
	_, err := s.db.ExecContext(ctx, `INSERT INTO stage_groups (id, stage_id, name, sequence) VALUES (?, ?, ?, ?)`,
		group.ID, group.StageID, group.Name, group.Sequence)
	if err != nil {
		return fmt.Errorf("failed to create stage group: %w", err)
	}
	log.Info("Created stage group", "id", group.ID, "stage_id", group.StageID, "name", group.Name)
	return nil
}

func (s *store) CreateTeam(ctx context.Context, team *Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team.ID = newID(team.ID)
	_, err := s.db.ExecContext(ctx, `INSERT INTO teams (id, name, short_name) VALUES (?, ?, ?)`,
		team.ID, team.Name, team.ShortName)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (s *store) CreateVenue(ctx context.Context, venue *Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	venue.ID = newID(venue.ID)
	_, err := s.db.ExecContext(ctx, `INSERT INTO venues (id, name, city) VALUES (?, ?, ?)`,
		venue.ID, venue.Name, venue.City)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

// CreateMatch inserts a match in draft fixture status.
func (s *store) CreateMatch(ctx context.Context, match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match.ID = newID(match.ID)
	if match.Status == "" {
		match.Status = "scheduled"
	}
	match.FixtureStatus = FixtureStatusDraft
	match.CreatedAt = s.now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (
			id, tournament_id, stage_id, stage_group_id, fixture_round_id, stage_round, stage_sequence, match_date,
			scheduled_start_at, scheduled_end_at, venue_id, home_team_id, away_team_id, status, fixture_status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.TournamentID, match.StageID, match.StageGroupID, match.FixtureRoundID, match.StageRound,
		match.StageSequence, database.NullTime(match.MatchDate), database.NullTime(match.ScheduledStartAt),
		database.NullTime(match.ScheduledEndAt), match.VenueID, match.HomeTeamID, match.AwayTeamID, match.Status,
		string(match.FixtureStatus), match.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	log.Debug("Created match", "id", match.ID, "tournament_id", match.TournamentID)
	return nil
}

// GetMatch retrieves a match by ID.
func (s *store) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LookupMatch(ctx, s.db, matchID)
}

// ListMatches returns every match of a tournament ordered by start time.
func (s *store) ListMatches(ctx context.Context, tournamentID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+MatchColumns+`
		FROM matches m
		WHERE m.tournament_id = ?
		ORDER BY m.scheduled_start_at IS NULL, m.scheduled_start_at, m.id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		match, err := ScanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

// UpdateMatchSchedule rewrites the time window and venue of a match.
// Callers are expected to have checked the new window for conflicts first.
func (s *store) UpdateMatchSchedule(ctx context.Context, matchID string, schedule MatchSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matchDate := schedule.MatchDate
	if matchDate == nil {
		day := schedule.ScheduledStartAt.UTC().Truncate(24 * time.Hour)
		matchDate = &day
	}
	start := schedule.ScheduledStartAt
	result, err := s.db.ExecContext(ctx, `
		UPDATE matches SET match_date = ?, scheduled_start_at = ?, scheduled_end_at = ?, venue_id = ?
		WHERE id = ?`,
		database.NullTime(matchDate), database.NullTime(&start), database.NullTime(schedule.ScheduledEndAt),
		schedule.VenueID, matchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	log.Info("Rescheduled match", "id", matchID, "start", start)
	return nil
}

// SetParticipantSource stores (or replaces) the advancement rule for one side of a match.
func (s *store) SetParticipantSource(ctx context.Context, source ParticipantSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO match_participant_sources (match_id, slot, source_type, source_stage_id, source_group_id, source_position)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, slot) DO UPDATE SET
			source_type = excluded.source_type,
			source_stage_id = excluded.source_stage_id,
			source_group_id = excluded.source_group_id,
			source_position = excluded.source_position`,
		source.MatchID, string(source.Slot), string(source.SourceType), source.SourceStageID, source.SourceGroupID,
		source.SourcePosition,
	)
	if err != nil {
		return fmt.Errorf("failed to set participant source: %w", err)
	}
	return nil
}

func (s *store) ListParticipantSources(ctx context.Context, matchID string) ([]ParticipantSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT match_id, slot, source_type, source_stage_id, source_group_id, source_position
		FROM match_participant_sources WHERE match_id = ? ORDER BY slot DESC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant sources: %w", err)
	}
	defer rows.Close()

	sources := []ParticipantSource{}
	for rows.Next() {
		var source ParticipantSource
		var slot, sourceType string
		if err := rows.Scan(&source.MatchID, &slot, &sourceType, &source.SourceStageID, &source.SourceGroupID, &source.SourcePosition); err != nil {
			return nil, fmt.Errorf("failed to scan participant source row: %w", err)
		}
		source.Slot = Slot(slot)
		source.SourceType = SourceType(sourceType)
		sources = append(sources, source)
	}
	return sources, rows.Err()
}
