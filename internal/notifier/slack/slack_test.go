package slack

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/notifier"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func strPtr(s string) *string { return &s }

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(context.Background(), message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.NotificationsSent())
}

func TestLogOnlyNotifier(t *testing.T) {
	metrics := metrics.NewMock()
	n := NewLogOnlyNotifier(metrics)

	err := n.SendFixturePublished(context.Background(), notifier.PublishedFixture{
		TournamentName: "Coastal Cup",
		Result:         fixture.PublishResult{VersionNumber: 1, PublishedMatchCount: 3},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.NotificationsSent())
	assert.Equal(t, 0, metrics.NotificationsFailed())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline, "Slack calls are bounded by a timeout")
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.NotificationsSent())
	assert.Equal(t, 0, metrics.NotificationsFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.NotificationsSent())
	assert.Equal(t, 1, metrics.NotificationsFailed())
}

func TestSendFixturePublished_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	n := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := n.SendFixturePublished(context.Background(), notifier.PublishedFixture{
		TournamentName: "The Ashes",
		Result:         fixture.PublishResult{VersionNumber: 2, PublishedMatchCount: 5},
	}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendFixturePublished")
}

func TestFormatFixturePublished(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("with note and archived versions", func(t *testing.T) {
		msg := client.formatFixturePublished(notifier.PublishedFixture{
			TournamentName: "The Ashes",
			Result: fixture.PublishResult{
				VersionNumber:       3,
				PublishedMatchCount: 5,
				PublishedRoundCount: 2,
				StageCount:          1,
				ArchivedVersionIDs:  []string{"v2"},
				Note:                strPtr("Rain moved the Sydney test"),
			},
		})
		require.Len(t, msg.Blocks.BlockSet, 3, "Expected 3 blocks")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏏 Fixture v3 published", header.Text.Text)

		details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Tournament: The Ashes\nMatches: 5\nRounds: 2\nStages: 1", details.Text.Text)

		ctxBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
		require.True(t, ok)
		require.Len(t, ctxBlock.ContextElements.Elements, 2)
		note := ctxBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
		assert.Equal(t, "📝 Rain moved the Sydney test", note.Text)
	})

	t.Run("first publish has no context", func(t *testing.T) {
		msg := client.formatFixturePublished(notifier.PublishedFixture{
			Result: fixture.PublishResult{TournamentID: "t1", VersionNumber: 1, PublishedMatchCount: 1},
		})
		require.Len(t, msg.Blocks.BlockSet, 2)
		details := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Contains(t, details.Text.Text, "Tournament: t1")
	})
}

func TestFormatActiveFixture(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	published := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
	version := &fixture.FixtureVersion{VersionNumber: 4, PublishedAt: &published, Label: strPtr("Final schedule")}

	var matches []fixture.FixtureVersionMatch
	for i := 1; i <= 12; i++ {
		start := published.Add(time.Duration(i) * 24 * time.Hour)
		link := fixture.FixtureVersionMatch{Sequence: i, MatchID: fmt.Sprintf("m%d", i)}
		if i != 2 {
			link.Snapshot.ScheduledStartAt = &start
		}
		matches = append(matches, link)
	}

	resp, err := client.FormatActiveFixtureResponse("Big Bash League", version, matches)
	require.NoError(t, err)
	msg := resp.(slackapi.Message)
	require.Len(t, msg.Blocks.BlockSet, 4)

	header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Equal(t, "🏏 Big Bash League: fixture v4", header.Text.Text)

	summary := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Equal(t, "Final schedule\nPublished: Sun 01 Nov, 08:00 UTC\nMatches: 12", summary.Text.Text)

	list := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	assert.Contains(t, list.Text.Text, "• #1  Mon 02 Nov, 08:00 UTC")
	assert.Contains(t, list.Text.Text, "• #2  time TBC")
	assert.NotContains(t, list.Text.Text, "#11")

	more := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	assert.Equal(t, "…and 2 more", more.ContextElements.Elements[0].(*slackapi.TextBlockObject).Text)

	_, err = client.FormatActiveFixtureResponse("Big Bash League", nil, nil)
	assert.Error(t, err)
}

func TestFormatNoActiveFixture(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	resp, err := client.FormatNoActiveFixtureResponse("t9")
	require.NoError(t, err)
	msg := resp.(slackapi.Message)
	require.Len(t, msg.Blocks.BlockSet, 1)
	section := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	assert.Equal(t, "No fixture has been published for tournament t9 yet.", section.Text.Text)
}
