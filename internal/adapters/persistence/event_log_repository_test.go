package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/test/helpers"
)

func TestEventLogRepository_LogAndList(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewSimulationClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormEventLogRepository(db, clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, common.EventLogEntry{
		RunID:    "run-1",
		PlayerID: 1,
		Tick:     3,
		Level:    shared.LevelInfo,
		Message:  "barracks finished footman",
		Metadata: map[string]interface{}{"producer": "barracks-1"},
	}))
	clock.Advance(1)
	require.NoError(t, repo.Log(ctx, common.EventLogEntry{RunID: "run-1", PlayerID: 2, Level: shared.LevelWarning, Message: "peon has no depot"}))
	require.NoError(t, repo.Log(ctx, common.EventLogEntry{RunID: "run-2", PlayerID: 1, Level: shared.LevelInfo, Message: "other run"}))

	entries, err := repo.List(ctx, common.EventLogFilter{RunID: "run-1"})

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "peon has no depot", entries[0].Message, "newest first")
	assert.Equal(t, "barracks finished footman", entries[1].Message)
	assert.Equal(t, int64(3), entries[1].Tick)
	assert.Equal(t, "barracks-1", entries[1].Metadata["producer"])
	assert.Nil(t, entries[0].Metadata)
}

func TestEventLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewSimulationClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormEventLogRepository(db, clock)
	repo.SetDedupWindow(10 * time.Second)
	ctx := context.Background()
	entry := common.EventLogEntry{RunID: "run-1", Level: shared.LevelWarning, Message: "peon has no depot"}

	// Act
	require.NoError(t, repo.Log(ctx, entry))
	clock.Advance(5)
	require.NoError(t, repo.Log(ctx, entry))
	clock.Advance(6)
	require.NoError(t, repo.Log(ctx, entry))
	require.NoError(t, repo.Log(ctx, common.EventLogEntry{RunID: "run-2", Level: shared.LevelWarning, Message: "peon has no depot"}))

	// Assert
	run1, err := repo.List(ctx, common.EventLogFilter{RunID: "run-1"})
	require.NoError(t, err)
	assert.Len(t, run1, 2, "the repeat inside the window is dropped")
	run2, err := repo.List(ctx, common.EventLogFilter{RunID: "run-2"})
	require.NoError(t, err)
	assert.Len(t, run2, 1, "runs deduplicate separately")
}

func TestEventLogRepository_Filters(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewSimulationClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormEventLogRepository(db, clock)
	repo.SetDedupWindow(0)
	ctx := context.Background()
	start := clock.Now()
	for i, level := range []string{shared.LevelInfo, shared.LevelWarning, shared.LevelInfo, shared.LevelError} {
		clock.Advance(1)
		require.NoError(t, repo.Log(ctx, common.EventLogEntry{RunID: "run-1", PlayerID: i%2 + 1, Level: level, Message: "event"}))
	}
	player1 := 1
	warning := shared.LevelWarning
	since := start.Add(2 * time.Second)

	tests := []struct {
		name   string
		filter common.EventLogFilter
		want   int
	}{
		{name: "all", filter: common.EventLogFilter{}, want: 4},
		{name: "by player", filter: common.EventLogFilter{PlayerID: &player1}, want: 2},
		{name: "by level", filter: common.EventLogFilter{Level: &warning}, want: 1},
		{name: "since", filter: common.EventLogFilter{Since: &since}, want: 2},
		{name: "limit", filter: common.EventLogFilter{Limit: 3}, want: 3},
		{name: "offset", filter: common.EventLogFilter{Limit: 10, Offset: 3}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			entries, err := repo.List(ctx, tt.filter)

			// Assert
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}
