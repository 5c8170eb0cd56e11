package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/llm-showdown/arena/internal/battle"
	"github.com/llm-showdown/arena/internal/leaderboard"
	"github.com/llm-showdown/arena/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the
// slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func sampleResult() *battle.MatchResult {
	return &battle.MatchResult{
		MatchID:      "m-1",
		ParticipantA: "bot-alpha",
		ParticipantB: "bot-beta",
		Winner:       "bot-alpha",
		Outcome:      battle.OutcomeWin,
		Format:       "gen9randombattle",
		Duration:     95 * time.Second,
		Timestamp:    time.Now(),
	}
}

func TestSendMatchResult_DryRun(t *testing.T) {
	m := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	n := NewNotifierWithAPI(nil, "C123", m)

	err := n.SendMatchResult(sampleResult(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, m.SlackNotifSent())
}

func TestSendMatchResult_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	m := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", m)

	err := n.SendMatchResult(sampleResult(), false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, m.SlackNotifSent())
	assert.Equal(t, 0, m.SlackNotifFailed())
}

func TestSendLeaderboard_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	m := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", m)

	err := n.SendLeaderboard([]leaderboard.Entry{{Rank: 1, ID: "bot-alpha", Rating: 1230}}, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, m.SlackNotifSent())
	assert.Equal(t, 1, m.SlackNotifFailed())
}

func TestFormatMatchResultVerdicts(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	win := n.formatMatchResult(sampleResult())
	assert.NotEmpty(t, win.Blocks.BlockSet)

	draw := sampleResult()
	draw.Winner = ""
	draw.Outcome = battle.OutcomeDraw
	assert.NotEmpty(t, n.formatMatchResult(draw).Blocks.BlockSet)

	inconclusive := sampleResult()
	inconclusive.Winner = ""
	inconclusive.Outcome = battle.OutcomeInconclusive
	assert.NotEmpty(t, n.formatMatchResult(inconclusive).Blocks.BlockSet)
}

func TestFormatLeaderboardEmpty(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())
	msg := n.formatLeaderboard(nil)
	// Header plus the empty-state section.
	assert.Len(t, msg.Blocks.BlockSet, 2)
}
