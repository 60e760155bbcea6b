package logging

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// PersistingLogger forwards every entry to an inner logger and writes it to
// the event log, tagged with the run ID and current tick. Repository writes
// happen synchronously so a finished run has its whole log on disk.
type PersistingLogger struct {
	inner   shared.Logger
	repo    common.EventLogRepository
	runID   string
	clock   *shared.SimulationClock
	timeout time.Duration

	mu       sync.Mutex
	failures int
}

// NewPersistingLogger creates a persisting decorator. clock may be nil, in
// which case entries carry tick 0.
func NewPersistingLogger(inner shared.Logger, repo common.EventLogRepository, runID string, clock *shared.SimulationClock) *PersistingLogger {
	return &PersistingLogger{
		inner:   shared.LoggerOrNoOp(inner),
		repo:    repo,
		runID:   runID,
		clock:   clock,
		timeout: 5 * time.Second,
	}
}

// Log implements shared.Logger
func (l *PersistingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.inner.Log(level, message, metadata)

	entry := common.EventLogEntry{
		RunID:    l.runID,
		PlayerID: playerIDOf(metadata),
		Level:    level,
		Message:  message,
		Metadata: metadata,
	}
	if l.clock != nil {
		entry.Tick = l.clock.Ticks()
		entry.Timestamp = l.clock.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := l.repo.Log(ctx, entry); err != nil {
		l.mu.Lock()
		l.failures++
		l.mu.Unlock()
		// The inner logger may be the one failing, so report on stderr
		fmt.Fprintf(os.Stderr, "[%s] ERROR: failed to persist log: %v\n", time.Now().Format(time.RFC3339), err)
	}
}

// Failures counts entries that could not be persisted
func (l *PersistingLogger) Failures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures
}

func playerIDOf(metadata map[string]interface{}) int {
	if id, ok := metadata["player_id"].(int); ok {
		return id
	}
	return 0
}
