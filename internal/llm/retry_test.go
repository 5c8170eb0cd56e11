package llm_test

import (
	"context"
	"testing"

	"github.com/llm-showdown/arena/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideFirstAttemptSucceeds(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GetActionFunc = func(_ context.Context, _ string) (llm.Action, error) {
		return llm.Action{Kind: llm.ActionSwitch, Value: "3"}, nil
	}
	client := llm.NewRetryingClient(mock, 3)

	decision, err := client.Decide(context.Background(), "your move")

	require.NoError(t, err)
	assert.Equal(t, llm.Action{Kind: llm.ActionSwitch, Value: "3"}, decision.Action)
	assert.Equal(t, 1, decision.Attempts)
	assert.False(t, decision.UsedFallback)
}

func TestDecideRetriesThenSucceeds(t *testing.T) {
	mock := llm.NewMockClient()
	calls := 0
	mock.GetActionFunc = func(_ context.Context, _ string) (llm.Action, error) {
		calls++
		if calls < 3 {
			return llm.Action{Kind: "dance", Value: ""}, nil
		}
		return llm.Action{Kind: llm.ActionMove, Value: "2"}, nil
	}
	client := llm.NewRetryingClient(mock, 3)

	decision, err := client.Decide(context.Background(), "your move")

	require.NoError(t, err)
	assert.Equal(t, "2", decision.Action.Value)
	assert.Equal(t, 3, decision.Attempts)
	assert.False(t, decision.UsedFallback)
}

func TestDecideFallsBackAfterBudget(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GetActionFunc = func(_ context.Context, _ string) (llm.Action, error) {
		return llm.Action{}, assert.AnError
	}
	client := llm.NewRetryingClient(mock, 2)

	decision, err := client.Decide(context.Background(), "your move")

	require.NoError(t, err)
	assert.True(t, decision.UsedFallback)
	assert.Equal(t, llm.DefaultFallback, decision.Action)
	// Initial ask plus two retries.
	assert.Equal(t, 3, decision.Attempts)
	assert.Len(t, mock.GetActionCalls, 3)
}

func TestDecideCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := llm.NewRetryingClient(llm.NewMockClient(), 3)
	_, err := client.Decide(ctx, "your move")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateAction(t *testing.T) {
	assert.NoError(t, llm.ValidateAction(llm.Action{Kind: llm.ActionMove, Value: "1"}))
	assert.NoError(t, llm.ValidateAction(llm.Action{Kind: llm.ActionSwitch, Value: "5"}))
	assert.Error(t, llm.ValidateAction(llm.Action{Kind: "item", Value: "1"}))
	assert.Error(t, llm.ValidateAction(llm.Action{Kind: llm.ActionMove, Value: ""}))
}
