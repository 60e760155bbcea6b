package player

import (
	"context"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// SnapshotRepository persists player state at simulation checkpoints
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot Snapshot) error
	FindLatest(ctx context.Context, playerID int) (*Snapshot, error)
	ListByPlayer(ctx context.Context, playerID int) ([]Snapshot, error)
}

// DTOs for player operations

type Snapshot struct {
	PlayerID      int
	Name          string
	Tick          int64
	Resources     []shared.ResourceQuantity
	Population    int
	MaxPopulation int
	Researched    []string
	UnitCounts    map[string]int
}
