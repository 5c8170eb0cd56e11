package metrics

import (
	"testing"

	"github.com/llm-showdown/arena/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) MetricsStore {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return NewStore(db)
}

func TestIncrementAndGetAll(t *testing.T) {
	store := setupTestDB(t)

	// Initially, there should be no counters.
	counters, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, counters)

	store.Increment("scheduler_cycles")
	counters, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"scheduler_cycles": 1}, counters)

	store.Increment("scheduler_cycles")
	counters, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"scheduler_cycles": 2}, counters)

	store.Increment("matches_completed")
	counters, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"scheduler_cycles":  2,
		"matches_completed": 1,
	}, counters)
}
