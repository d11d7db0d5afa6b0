package fixture

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/wicketkeeper/internal/metrics"
)

// service runs the fixture engine against the relational store.
type service struct {
	db      *sql.DB
	mu      sync.RWMutex
	metrics metrics.Metrics
	now     func() time.Time
}

// VersionStatus is the lifecycle state of a fixture version.
type VersionStatus string

const (
	VersionStatusDraft     VersionStatus = "draft"
	VersionStatusPublished VersionStatus = "published"
	VersionStatusArchived  VersionStatus = "archived"
)

// RoundStatus is the lifecycle state of a fixture round.
type RoundStatus string

const (
	RoundStatusDraft     RoundStatus = "draft"
	RoundStatusPublished RoundStatus = "published"
)

// DefaultPairingMethod is used when a round is created without one.
const DefaultPairingMethod = "manual"

// MetadataSchemaVersion is the current schema of Metadata.
const MetadataSchemaVersion = 1

// Metadata is the free-form annotation attached to versions and rounds.
type Metadata struct {
	SchemaVersion int               `json:"schema_version"`
	Source        string            `json:"source,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// FixtureVersion is a numbered schedule plan for a tournament, optionally scoped to one stage.
type FixtureVersion struct {
	ID            string        `json:"id"`
	TournamentID  string        `json:"tournament_id"`
	StageID       *string       `json:"stage_id,omitempty"`
	VersionNumber int           `json:"version_number"`
	Status        VersionStatus `json:"status"`
	Label         *string       `json:"label,omitempty"`
	Metadata      *Metadata     `json:"metadata,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
	ArchivedAt    *time.Time    `json:"archived_at,omitempty"`
}

// FixtureRound is a named subdivision of a stage's schedule.
type FixtureRound struct {
	ID               string      `json:"id"`
	TournamentID     string      `json:"tournament_id"`
	StageID          string      `json:"stage_id"`
	StageGroupID     *string     `json:"stage_group_id,omitempty"`
	FixtureVersionID *string     `json:"fixture_version_id,omitempty"`
	RoundNumber      int         `json:"round_number"`
	Name             string      `json:"name"`
	PairingMethod    string      `json:"pairing_method"`
	Status           RoundStatus `json:"status"`
	ScheduledStartAt *time.Time  `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt   *time.Time  `json:"scheduled_end_at,omitempty"`
	LockedAt         *time.Time  `json:"locked_at,omitempty"`
	PublishedAt      *time.Time  `json:"published_at,omitempty"`
	Metadata         *Metadata   `json:"metadata,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// SnapshotSchemaVersion is the current schema of MatchSnapshot.
const SnapshotSchemaVersion = 1

// MatchSnapshot freezes the scheduling fields of a match at the moment it joined a version.
type MatchSnapshot struct {
	SchemaVersion    int        `json:"schema_version"`
	MatchID          string     `json:"match_id"`
	StageID          *string    `json:"stage_id,omitempty"`
	StageGroupID     *string    `json:"stage_group_id,omitempty"`
	FixtureRoundID   *string    `json:"fixture_round_id,omitempty"`
	StageRound       *int       `json:"stage_round,omitempty"`
	StageSequence    *int       `json:"stage_sequence,omitempty"`
	MatchDate        *time.Time `json:"match_date,omitempty"`
	ScheduledStartAt *time.Time `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt   *time.Time `json:"scheduled_end_at,omitempty"`
	VenueID          *string    `json:"venue_id,omitempty"`
	HomeTeamID       *string    `json:"home_team_id,omitempty"`
	AwayTeamID       *string    `json:"away_team_id,omitempty"`
	Status           string     `json:"status"`
}

// FixtureVersionMatch links a match to a version together with its frozen snapshot.
type FixtureVersionMatch struct {
	ID               string        `json:"id"`
	FixtureVersionID string        `json:"fixture_version_id"`
	MatchID          string        `json:"match_id"`
	Sequence         int           `json:"sequence"`
	Snapshot         MatchSnapshot `json:"snapshot"`
	CreatedAt        time.Time     `json:"created_at"`
}

// ConflictKind tells whether a conflict involves a team or a venue.
type ConflictKind string

const (
	ConflictKindTeam  ConflictKind = "team"
	ConflictKindVenue ConflictKind = "venue"
)

// ConflictItem describes one existing match that collides with a proposed window.
type ConflictItem struct {
	Kind             ConflictKind `json:"kind"`
	MatchID          string       `json:"match_id"`
	StageID          *string      `json:"stage_id,omitempty"`
	VenueID          *string      `json:"venue_id,omitempty"`
	TeamIDs          []string     `json:"team_ids,omitempty"`
	ScheduledStartAt time.Time    `json:"scheduled_start_at"`
	ScheduledEndAt   time.Time    `json:"scheduled_end_at"`
}

// ConflictReport is the result of a conflict check. Conflicts are data, not errors.
type ConflictReport struct {
	Conflicts    []ConflictItem `json:"conflicts"`
	HasConflicts bool           `json:"has_conflicts"`
}

type CreateDraftInput struct {
	TournamentID string
	StageID      *string
	Label        *string
	Metadata     *Metadata
	// IncludeCurrentMatches seeds the draft with the matches currently in scope. Nil means true.
	IncludeCurrentMatches *bool
}

func (in CreateDraftInput) seedsCurrentMatches() bool {
	return in.IncludeCurrentMatches == nil || *in.IncludeCurrentMatches
}

// DraftResult is returned by CreateDraft.
type DraftResult struct {
	Version          FixtureVersion `json:"version"`
	SeededMatchCount int            `json:"seeded_match_count"`
}

type CreateRoundInput struct {
	TournamentID     string
	StageID          string
	RoundNumber      int
	StageGroupID     *string
	FixtureVersionID *string
	ScheduledStartAt *time.Time
	ScheduledEndAt   *time.Time
	Name             *string
	PairingMethod    string
	Metadata         *Metadata
}

type ValidateConflictsInput struct {
	TournamentID     string
	ScheduledStartAt time.Time
	ScheduledEndAt   *time.Time
	TeamIDs          []string
	VenueID          *string
	StageID          *string
	ExcludeMatchID   *string
}

// PublishResult summarises a committed publish.
type PublishResult struct {
	TournamentID        string    `json:"tournament_id"`
	VersionID           string    `json:"version_id"`
	VersionNumber       int       `json:"version_number"`
	PublishedAt         time.Time `json:"published_at"`
	PublishedMatchCount int       `json:"published_match_count"`
	PublishedRoundCount int       `json:"published_round_count"`
	StageCount          int       `json:"stage_count"`
	ArchivedVersionIDs  []string  `json:"archived_version_ids"`
	Note                *string   `json:"note,omitempty"`
}
