package pairing

import (
	"time"

	"github.com/llm-showdown/arena/internal/queue"
	"github.com/llm-showdown/arena/internal/rating"
)

// canPair is the eligibility predicate every strategy shares: no
// self-pairs, exclusion sets honored in both directions, and both
// participants active.
func canPair(a, b queue.MatchRequest, active ActiveChecker) bool {
	if a.ParticipantID == b.ParticipantID {
		return false
	}
	if a.Excludes(b.ParticipantID) || b.Excludes(a.ParticipantID) {
		return false
	}
	if active != nil && (!active.IsActive(a.ParticipantID) || !active.IsActive(b.ParticipantID)) {
		return false
	}
	return true
}

// statsOrDefault resolves a participant's record, falling back to a
// fresh default for first-time entrants.
func statsOrDefault(source StatsSource, id string) *rating.BotStats {
	if source != nil {
		if s, ok := source.Stats(id); ok {
			return s
		}
	}
	return rating.NewBotStats(id)
}

func newPairing(a, b queue.MatchRequest, format string, priority int) Pairing {
	return Pairing{
		ParticipantA: a.ParticipantID,
		ParticipantB: b.ParticipantID,
		Format:       format,
		Priority:     priority,
		CreatedTime:  time.Now(),
	}
}
