package queue

import "time"

// MatchRequest is one participant's ask to be paired.
type MatchRequest struct {
	ParticipantID      string        `json:"participant_id"`
	Format             string        `json:"format"`
	PreferredOpponents []string      `json:"preferred_opponents,omitempty"`
	ExcludedOpponents  []string      `json:"excluded_opponents,omitempty"`
	MaxWaitTime        time.Duration `json:"max_wait_time"`
	CreatedTime        time.Time     `json:"created_time"`
}

// Expired reports whether the request has outlived its wait budget.
func (r MatchRequest) Expired(now time.Time) bool {
	return now.Sub(r.CreatedTime) >= r.MaxWaitTime
}

// Excludes reports whether id appears in the request's exclusion set.
func (r MatchRequest) Excludes(id string) bool {
	for _, ex := range r.ExcludedOpponents {
		if ex == id {
			return true
		}
	}
	return false
}
