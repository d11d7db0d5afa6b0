package fixture

import (
	"encoding/json"
	"fmt"
)

// Action tags a change-log entry.
type Action string

const (
	ActionVersionCreated   Action = "fixture_version_created"
	ActionRoundCreated     Action = "fixture_round_created"
	ActionMatchAttached    Action = "fixture_version_match_attached"
	ActionVersionPublished Action = "fixture_version_published"
)

// PayloadSchemaVersion is the current schema of every change-log payload.
const PayloadSchemaVersion = 1

// Payload is the typed body of a change-log entry. Each action has exactly one payload type.
type Payload interface {
	Action() Action
}

type DraftCreatedPayload struct {
	SchemaVersion         int     `json:"schema_version"`
	VersionNumber         int     `json:"version_number"`
	StageID               *string `json:"stage_id,omitempty"`
	Label                 *string `json:"label,omitempty"`
	IncludeCurrentMatches bool    `json:"include_current_matches"`
	SeededMatchCount      int     `json:"seeded_match_count"`
}

func (DraftCreatedPayload) Action() Action { return ActionVersionCreated }

type RoundCreatedPayload struct {
	SchemaVersion    int     `json:"schema_version"`
	RoundNumber      int     `json:"round_number"`
	Name             string  `json:"name"`
	PairingMethod    string  `json:"pairing_method"`
	StageGroupID     *string `json:"stage_group_id,omitempty"`
	FixtureVersionID *string `json:"fixture_version_id,omitempty"`
}

func (RoundCreatedPayload) Action() Action { return ActionRoundCreated }

type MatchAttachedPayload struct {
	SchemaVersion int    `json:"schema_version"`
	VersionNumber int    `json:"version_number"`
	MatchID       string `json:"match_id"`
	Sequence      int    `json:"sequence"`
}

func (MatchAttachedPayload) Action() Action { return ActionMatchAttached }

type VersionPublishedPayload struct {
	SchemaVersion       int      `json:"schema_version"`
	VersionNumber       int      `json:"version_number"`
	PublishedMatchCount int      `json:"published_match_count"`
	PublishedRoundCount int      `json:"published_round_count"`
	StageIDs            []string `json:"stage_ids"`
	ArchivedVersionIDs  []string `json:"archived_version_ids"`
}

func (VersionPublishedPayload) Action() Action { return ActionVersionPublished }

// DecodePayload returns the typed payload matching the entry's action.
func (e ChangeLogEntry) DecodePayload() (Payload, error) {
	var p Payload
	switch e.Action {
	case ActionVersionCreated:
		p = &DraftCreatedPayload{}
	case ActionRoundCreated:
		p = &RoundCreatedPayload{}
	case ActionMatchAttached:
		p = &MatchAttachedPayload{}
	case ActionVersionPublished:
		p = &VersionPublishedPayload{}
	default:
		return nil, fmt.Errorf("unknown change log action %q", e.Action)
	}
	if err := json.Unmarshal(e.Payload, p); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", e.Action, err)
	}
	return p, nil
}
