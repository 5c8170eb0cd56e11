// Package llm wraps the language-model boundary of a battle bot. The
// model's answers are untrusted: the retrying client validates each
// one and falls back to a safe default after a bounded number of
// attempts, so a misbehaving model can never wedge a match.
package llm

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// DefaultMaxRetries bounds how many invalid model responses are
// tolerated before falling back.
const DefaultMaxRetries = 3

// DefaultFallback is the deterministic safe action used when the
// model keeps producing invalid output.
var DefaultFallback = Action{Kind: ActionMove, Value: "1"}

// Decision reports how an action was obtained.
type Decision struct {
	Action       Action
	Attempts     int
	UsedFallback bool
}

// RetryingClient wraps a Client with validation and bounded retries.
type RetryingClient struct {
	client     Client
	maxRetries int
	fallback   Action
	validate   func(Action) error
}

var _ Client = (*RetryingClient)(nil)

// NewRetryingClient wraps client with up to maxRetries re-asks. A
// non-positive maxRetries falls back to DefaultMaxRetries.
func NewRetryingClient(client Client, maxRetries int) *RetryingClient {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &RetryingClient{
		client:     client,
		maxRetries: maxRetries,
		fallback:   DefaultFallback,
		validate:   ValidateAction,
	}
}

// ValidateAction checks that an action is well-formed.
func ValidateAction(a Action) error {
	if a.Kind != ActionMove && a.Kind != ActionSwitch {
		return fmt.Errorf("invalid action kind %q", a.Kind)
	}
	if a.Value == "" {
		return fmt.Errorf("action has no value")
	}
	return nil
}

// Decide asks the model for an action, re-asking on invalid responses
// up to the retry budget and then returning the fallback.
func (c *RetryingClient) Decide(ctx context.Context, prompt string) (Decision, error) {
	attempts := 0
	for attempts <= c.maxRetries {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		attempts++
		action, err := c.client.GetAction(ctx, prompt)
		if err == nil {
			err = c.validate(action)
		}
		if err == nil {
			return Decision{Action: action, Attempts: attempts}, nil
		}
		log.Warn("Model produced an unusable action", "attempt", attempts, "maxRetries", c.maxRetries, "err", err)
	}
	log.Info("Falling back to default action", "attempts", attempts, "fallback", c.fallback)
	return Decision{Action: c.fallback, Attempts: attempts, UsedFallback: true}, nil
}

// GetAction implements Client.
func (c *RetryingClient) GetAction(ctx context.Context, prompt string) (Action, error) {
	decision, err := c.Decide(ctx, prompt)
	if err != nil {
		return Action{}, err
	}
	return decision.Action, nil
}
