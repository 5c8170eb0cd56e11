package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchCompleted EventType = "match-completed"
	EventStatsUpdated   EventType = "stats-updated"
)

// MatchCompletedEvent is published after each recorded match.
type MatchCompletedEvent struct {
	MatchID      string        `msgpack:"match_id"`
	ParticipantA string        `msgpack:"participant_a"`
	ParticipantB string        `msgpack:"participant_b"`
	Winner       string        `msgpack:"winner"`
	Outcome      string        `msgpack:"outcome"`
	Format       string        `msgpack:"format"`
	Duration     time.Duration `msgpack:"duration"`
	Timestamp    time.Time     `msgpack:"timestamp"`
}

// StatsUpdatedEvent is published after ratings are flushed to the
// leaderboard store.
type StatsUpdatedEvent struct {
	ParticipantID string    `msgpack:"participant_id"`
	Rating        float64   `msgpack:"rating"`
	Wins          int       `msgpack:"wins"`
	Losses        int       `msgpack:"losses"`
	Draws         int       `msgpack:"draws"`
	UpdatedAt     time.Time `msgpack:"updated_at"`
}
