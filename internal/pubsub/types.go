package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles as the topic name.
type EventType string

const (
	EventDraftCreated     EventType = "fixture-draft-created"
	EventRoundCreated     EventType = "fixture-round-created"
	EventVersionPublished EventType = "fixture-version-published"
)

// FixtureEvent is the msgpack body of every fixture event. Fields that do not apply to an event are left empty.
type FixtureEvent struct {
	TournamentID       string    `msgpack:"tournament_id"`
	StageID            string    `msgpack:"stage_id,omitempty"`
	VersionID          string    `msgpack:"version_id,omitempty"`
	VersionNumber      int       `msgpack:"version_number,omitempty"`
	RoundID            string    `msgpack:"round_id,omitempty"`
	RoundNumber        int       `msgpack:"round_number,omitempty"`
	MatchCount         int       `msgpack:"match_count"`
	ArchivedVersionIDs []string  `msgpack:"archived_version_ids,omitempty"`
	OccurredAt         time.Time `msgpack:"occurred_at"`
}
