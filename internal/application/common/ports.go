package common

import (
	"context"
	"time"

	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// World owns every unit on the map and the collaborators tasks need to
// navigate it. Implemented by adapters/world.
type World interface {
	AddUnit(u *unit.Unit) error
	Unit(id string) (*unit.Unit, bool)
	Units() []*unit.Unit

	// Update advances movement for every unit
	Update(deltaTime float64)

	Combat() task.CombatModule
	Collection(owner shared.PlayerID) task.CollectionModule
	Factory() production.UnitFactory
}

// EventLogRepository persists the simulation event log
type EventLogRepository interface {
	// Log writes an entry; identical messages inside the dedup window are dropped
	Log(ctx context.Context, entry EventLogEntry) error

	// List returns entries newest first
	List(ctx context.Context, filter EventLogFilter) ([]EventLogEntry, error)
}

// EventLogEntry represents one persisted event
type EventLogEntry struct {
	ID        int
	RunID     string
	PlayerID  int
	Tick      int64
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// EventLogFilter narrows List results. Zero values mean no filter.
type EventLogFilter struct {
	RunID    string
	PlayerID *int
	Level    *string
	Since    *time.Time
	Limit    int
	Offset   int
}

// MetricsRecorder receives gameplay counters. Implemented by adapters/metrics.
type MetricsRecorder interface {
	RecordProductionFinished(playerID int, producibleID string, kind string)
	RecordProductionCancelled(playerID int, orders int)
	RecordResourcesDeposited(playerID int, resource string, quantity int)
	RecordAttack(playerID int, damage int)
	RecordUnitDestroyed(playerID int, unitName string)
	RecordTick(duration time.Duration, runningTasks int)
}

// NoOpMetrics discards every metric
type NoOpMetrics struct{}

func (NoOpMetrics) RecordProductionFinished(int, string, string) {}
func (NoOpMetrics) RecordProductionCancelled(int, int)           {}
func (NoOpMetrics) RecordResourcesDeposited(int, string, int)    {}
func (NoOpMetrics) RecordAttack(int, int)                        {}
func (NoOpMetrics) RecordUnitDestroyed(int, string)              {}
func (NoOpMetrics) RecordTick(time.Duration, int)                {}
