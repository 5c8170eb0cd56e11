package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestProcessMessageDecodesMatchCompleted(t *testing.T) {
	event := MatchCompletedEvent{
		MatchID:      "m-1",
		ParticipantA: "alpha",
		ParticipantB: "beta",
		Winner:       "alpha",
		Outcome:      "win",
		Format:       "gen9randombattle",
		Duration:     90 * time.Second,
		Timestamp:    time.Now().UTC().Truncate(time.Second),
	}
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)

	c := &client{}
	var decoded MatchCompletedEvent
	require.NoError(t, c.ProcessMessage(data, &decoded))
	assert.Equal(t, event, decoded)
}

func TestProcessMessageRejectsGarbage(t *testing.T) {
	c := &client{}
	var decoded StatsUpdatedEvent
	assert.Error(t, c.ProcessMessage([]byte("not msgpack at all"), &decoded))
}
