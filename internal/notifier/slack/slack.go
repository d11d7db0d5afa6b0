package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/notifier"
	"github.com/slack-go/slack"
)

// maxListedMatches caps the match list in slash command responses.
const maxListedMatches = 10

const timeLayout = "Mon 02 Jan, 15:04 MST"

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewLogOnlyNotifier formats messages like Notifier but only logs them.
// It stands in when no bot token or channel is configured.
func NewLogOnlyNotifier(metrics metrics.Metrics) *Notifier {
	return &Notifier{metrics: metrics}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotificationsFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotificationsSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendFixturePublished(ctx context.Context, published notifier.PublishedFixture, dryRun bool) error {
	msg := s.formatFixturePublished(published)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// FormatActiveFixtureResponse formats the active fixture summary for a slash command response.
func (s *Notifier) FormatActiveFixtureResponse(tournamentName string, version *fixture.FixtureVersion, matches []fixture.FixtureVersionMatch) (any, error) {
	if version == nil {
		return nil, fmt.Errorf("no fixture version to format")
	}
	return s.formatActiveFixture(tournamentName, version, matches), nil
}

// FormatNoActiveFixtureResponse formats the reply for a tournament without a published fixture.
func (s *Notifier) FormatNoActiveFixtureResponse(tournamentID string) (any, error) {
	text := fmt.Sprintf("No fixture has been published for tournament %s yet.", tournamentID)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, false, false), nil, nil),
	), nil
}

// formatFixturePublished creates the Slack announcement for a newly published fixture using Block Kit.
func (s *Notifier) formatFixturePublished(published notifier.PublishedFixture) slack.Message {
	res := published.Result
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏏 Fixture v%d published", res.VersionNumber), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	name := published.TournamentName
	if name == "" {
		name = res.TournamentID
	}
	detailsText := fmt.Sprintf("Tournament: %s\nMatches: %d\nRounds: %d\nStages: %d",
		name, res.PublishedMatchCount, res.PublishedRoundCount, res.StageCount)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var contextElements []slack.MixedElement
	if res.Note != nil && strings.TrimSpace(*res.Note) != "" {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "📝 "+strings.TrimSpace(*res.Note), true, false))
	}
	if n := len(res.ArchivedVersionIDs); n > 0 {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("Replaces %d earlier version(s)", n), true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatActiveFixture lists the first matches of the active version in sequence order.
func (s *Notifier) formatActiveFixture(tournamentName string, version *fixture.FixtureVersion, matches []fixture.FixtureVersionMatch) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏏 %s: fixture v%d", tournamentName, version.VersionNumber), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	summary := fmt.Sprintf("Matches: %d", len(matches))
	if version.PublishedAt != nil {
		summary = fmt.Sprintf("Published: %s\n%s", version.PublishedAt.UTC().Format(timeLayout), summary)
	}
	if version.Label != nil {
		summary = fmt.Sprintf("%s\n%s", *version.Label, summary)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", summary, true, false), nil, nil))

	if len(matches) > 0 {
		lines := make([]string, 0, maxListedMatches)
		for i, m := range matches {
			if i == maxListedMatches {
				break
			}
			when := "time TBC"
			if m.Snapshot.ScheduledStartAt != nil {
				when = m.Snapshot.ScheduledStartAt.UTC().Format(timeLayout)
			}
			lines = append(lines, fmt.Sprintf("• #%d  %s", m.Sequence, when))
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	if extra := len(matches) - maxListedMatches; extra > 0 {
		more := slack.NewTextBlockObject("plain_text", fmt.Sprintf("…and %d more", extra), true, false)
		blocks = append(blocks, slack.NewContextBlock("", more))
	}

	return slack.NewBlockMessage(blocks...)
}
