package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/logging"
)

type memoryEventLog struct {
	entries []common.EventLogEntry
	err     error
}

func (m *memoryEventLog) Log(_ context.Context, entry common.EventLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryEventLog) List(context.Context, common.EventLogFilter) ([]common.EventLogEntry, error) {
	return m.entries, nil
}

func TestSlogLogger_WritesLevelAndMetadata(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Act
	logger.Log(shared.LevelWarning, "no depot", map[string]interface{}{"unit_id": "peon-1", "player_id": 1})

	// Assert
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="no depot"`)
	assert.Contains(t, out, "player_id=1 unit_id=peon-1")
}

func TestPersistingLogger_TagsEntriesWithRunAndTick(t *testing.T) {
	// Arrange
	repo := &memoryEventLog{}
	clock := shared.NewSimulationClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	clock.Advance(0.5)
	clock.Advance(0.5)
	logger := logging.NewPersistingLogger(nil, repo, "run-1", clock)

	// Act
	logger.Log(shared.LevelInfo, "footman finished", map[string]interface{}{"player_id": 2})

	// Assert
	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "run-1", entry.RunID)
	assert.Equal(t, 2, entry.PlayerID)
	assert.Equal(t, int64(2), entry.Tick)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC), entry.Timestamp)
	assert.Zero(t, logger.Failures())
}

func TestPersistingLogger_CountsFailures(t *testing.T) {
	repo := &memoryEventLog{err: errors.New("disk full")}
	logger := logging.NewPersistingLogger(nil, repo, "run-1", nil)

	logger.Log(shared.LevelError, "boom", nil)

	assert.Equal(t, 1, logger.Failures())
}
