package queue

import "time"

// MatchQueue holds pending requests until the pairing engine consumes
// them.
type MatchQueue interface {
	Enqueue(req MatchRequest) error
	EvictExpired(now time.Time) []MatchRequest
	GroupByFormat() map[string][]MatchRequest
	RemoveParticipants(ids []string, format string)
	Len() int
}
