// Package slack announces arena events to a Slack channel using
// Block Kit messages.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/metrics"
	"github.com/llm-showdown/arena/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the
// slack.Client that we use. This allows for easy mocking in tests.
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
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific client
// instance. Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchResult announces one finished match.
func (s *Notifier) SendMatchResult(result *battle.MatchResult, dryRun bool) error {
	msg := s.formatMatchResult(result)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboard announces the current standings.
func (s *Notifier) SendLeaderboard(entries []leaderboard.Entry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatMatchResult creates the Slack message for a finished match
// using Block Kit.
func (s *Notifier) formatMatchResult(result *battle.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚔️ Battle finished! ⚔️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var verdict string
	switch result.Outcome {
	case battle.OutcomeWin:
		loser := result.ParticipantB
		if result.Winner == result.ParticipantB {
			loser = result.ParticipantA
		}
		verdict = fmt.Sprintf("%s defeated %s", result.Winner, loser)
	case battle.OutcomeDraw:
		verdict = fmt.Sprintf("%s and %s fought to a draw", result.ParticipantA, result.ParticipantB)
	default:
		verdict = fmt.Sprintf("%s vs %s ended without a verdict", result.ParticipantA, result.ParticipantB)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", verdict, true, false), nil, nil))

	contextText := fmt.Sprintf("Format: %s • Duration: %s", result.Format, result.Duration.Round(time.Second))
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the standings.
func (s *Notifier) formatLeaderboard(entries []leaderboard.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Arena Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("plain_text", "No matches recorded yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, entry := range entries {
		medal := ""
		switch entry.Rank {
		case 1:
			medal = "🥇 "
		case 2:
			medal = "🥈 "
		case 3:
			medal = "🥉 "
		}
		line := fmt.Sprintf("%s%d. %s — %.0f (%d-%d-%d)",
			medal, entry.Rank, entry.ID, entry.Rating, entry.Wins, entry.Losses, entry.Draws)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("plain_text", line, true, false), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}
