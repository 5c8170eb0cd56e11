// Package queue implements the in-memory match request queue. Each
// scheduler owns its own instance; there is no process-wide queue.
package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultMaxSize caps the queue unless configured otherwise.
const DefaultMaxSize = 100

// ErrQueueFull is returned by Enqueue when the queue is at capacity
// and the request is not replacing an existing entry.
var ErrQueueFull = errors.New("match queue is full")

type matchQueue struct {
	mu       sync.Mutex
	requests []MatchRequest
	maxSize  int
}

// NewQueue creates a queue bounded at maxSize requests. A non-positive
// maxSize falls back to DefaultMaxSize.
func NewQueue(maxSize int) MatchQueue {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &matchQueue{
		requests: make([]MatchRequest, 0, maxSize),
		maxSize:  maxSize,
	}
}

// Enqueue adds a request. A duplicate (participant, format) submission
// replaces the existing entry in place, keeping its queue position.
func (q *matchQueue) Enqueue(req MatchRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, existing := range q.requests {
		if existing.ParticipantID == req.ParticipantID && existing.Format == req.Format {
			q.requests[i] = req
			log.Debug("Replaced queued match request", "participant", req.ParticipantID, "format", req.Format)
			return nil
		}
	}
	if len(q.requests) >= q.maxSize {
		return ErrQueueFull
	}
	q.requests = append(q.requests, req)
	return nil
}

// EvictExpired drops and returns every request whose wait budget has
// elapsed. The pairing engine never sees an expired request.
func (q *matchQueue) EvictExpired(now time.Time) []MatchRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	var expired []MatchRequest
	kept := q.requests[:0]
	for _, req := range q.requests {
		if req.Expired(now) {
			expired = append(expired, req)
			continue
		}
		kept = append(kept, req)
	}
	q.requests = kept
	if len(expired) > 0 {
		log.Info("Evicted expired match requests", "count", len(expired))
	}
	return expired
}

// GroupByFormat returns pending requests bucketed by format, each
// bucket in arrival order.
func (q *matchQueue) GroupByFormat() map[string][]MatchRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	groups := make(map[string][]MatchRequest)
	for _, req := range q.requests {
		groups[req.Format] = append(groups[req.Format], req)
	}
	return groups
}

// RemoveParticipants clears the requests of the given participants for
// one format, typically after they have been paired.
func (q *matchQueue) RemoveParticipants(ids []string, format string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	kept := q.requests[:0]
	for _, req := range q.requests {
		if req.Format == format && remove[req.ParticipantID] {
			continue
		}
		kept = append(kept, req)
	}
	q.requests = kept
}

func (q *matchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}
