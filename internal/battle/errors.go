package battle

import "errors"

var (
	// ErrMatchStart means the challenge could not be issued or
	// accepted. No result is recorded and no ratings move.
	ErrMatchStart = errors.New("failed to start match")
	// ErrMatchTimeout means the match exceeded its time budget. The
	// result is recorded as inconclusive.
	ErrMatchTimeout = errors.New("match timed out")
	// ErrUnknownOutcome means the relay counters moved in a way that
	// identifies no winner. Recorded as inconclusive, never as a
	// fabricated winner.
	ErrUnknownOutcome = errors.New("match outcome could not be determined")
	// ErrParticipantBusy means a participant already has a match in
	// flight. The pairing stays unconsumed.
	ErrParticipantBusy = errors.New("participant already in a match")
)
