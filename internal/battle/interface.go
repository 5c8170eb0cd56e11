package battle

import "context"

// Client is the boundary to the external battle relay. The relay owns
// the simulation; this side only issues challenges and reads counters.
type Client interface {
	// InitiateChallenge asks challenger to challenge opponent.
	InitiateChallenge(ctx context.Context, challenger, opponent, format string) error
	// AcceptChallenge asks opponent to accept challenger's pending
	// challenge.
	AcceptChallenge(ctx context.Context, opponent, challenger, format string) error
	// EnterLadder puts a participant on the public ladder for n games.
	EnterLadder(ctx context.Context, participant string, n int) error
	// Counters reads a participant's lifetime battle counters.
	Counters(ctx context.Context, participant string) (Counters, error)
}
