// Package llm defines the decision boundary for model-driven bots:
// action validation and the retry-with-fallback policy around a
// model client. The bot processes that battle on the relay are the
// consumers; the server side only publishes the contract.
package llm

import "context"

// ActionKind is the category of a battle decision.
type ActionKind string

const (
	ActionMove   ActionKind = "move"
	ActionSwitch ActionKind = "switch"
)

// Action is a single battle decision produced by a language model.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Value string     `json:"value"`
}

// Client produces a battle action for a prompt. Implementations talk
// to a language model; correctness of the choice is the model's
// problem, well-formedness is enforced by the caller.
type Client interface {
	GetAction(ctx context.Context, prompt string) (Action, error)
}
