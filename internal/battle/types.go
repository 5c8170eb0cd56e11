package battle

import "time"

// Mode selects how the orchestrator starts matches on the relay:
// a direct challenge/accept handshake, or ladder entry for both
// participants.
type Mode string

const (
	ModeChallenge Mode = "challenge"
	ModeLadder    Mode = "ladder"
)

// Outcome classifies a finished match. Inconclusive covers timeouts
// and ambiguous counter movement; it is distinct from a genuine draw.
type Outcome string

const (
	OutcomeWin          Outcome = "win"
	OutcomeDraw         Outcome = "draw"
	OutcomeInconclusive Outcome = "inconclusive"
)

// Counters are a participant's lifetime win/loss/draw tallies as
// reported by the battle relay.
type Counters struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// MatchResult is the immutable record of one completed match. Winner
// is empty for draws and inconclusive outcomes.
type MatchResult struct {
	MatchID      string        `json:"match_id"`
	ParticipantA string        `json:"participant_a"`
	ParticipantB string        `json:"participant_b"`
	Winner       string        `json:"winner,omitempty"`
	Outcome      Outcome       `json:"outcome"`
	Format       string        `json:"format"`
	Duration     time.Duration `json:"duration"`
	// TurnCount is only populated by external reporters via the
	// update API; the relay counters carry no turn data.
	TurnCount int `json:"turn_count"`
	Timestamp    time.Time     `json:"timestamp"`
}
