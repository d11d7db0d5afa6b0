package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFixtureEvent(t *testing.T) {
	event := FixtureEvent{
		TournamentID:       "t1",
		VersionID:          "v2",
		VersionNumber:      2,
		MatchCount:         12,
		ArchivedVersionIDs: []string{"v1"},
		OccurredAt:         time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC),
	}

	data, err := Encode(event)
	require.NoError(t, err)

	var decoded FixtureEvent
	require.NoError(t, NewDisabled().ProcessMessage(data, &decoded))
	assert.Equal(t, event.VersionID, decoded.VersionID)
	assert.Equal(t, event.ArchivedVersionIDs, decoded.ArchivedVersionIDs)
	assert.True(t, event.OccurredAt.Equal(decoded.OccurredAt))
}

func TestDisabledClientDropsEvents(t *testing.T) {
	assert.NoError(t, NewDisabled().SendMessage(context.Background(), EventVersionPublished, FixtureEvent{}))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var decoded FixtureEvent
	assert.Error(t, Decode([]byte{0xc1}, &decoded))
}
