package production

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Owner is the player a producer works for
type Owner interface {
	unit.ResourceAccount

	ID() shared.PlayerID

	// Spend deducts cost atomically or returns *shared.InsufficientResourcesError
	Spend(producibleID string, cost []shared.ResourceQuantity) error
	Refund(resources []shared.ResourceQuantity)

	// MissingRequirements returns the requirements the owner has not met
	MissingRequirements(requirements []string) []string
	HasResearched(id string) bool
	CompleteResearch(id string)

	HasPopulationFor(population int) bool
	RegisterUnit(u *unit.Unit)
	UnregisterUnit(u *unit.Unit)
}

// UnitFactory creates units for finished unit producibles
type UnitFactory interface {
	CreateUnit(template unit.Template, owner shared.PlayerID, position shared.Vector3) (*unit.Unit, error)
}

// SpawnPoint decides where produced units appear
type SpawnPoint interface {
	SpawnPosition(producer *unit.Unit) shared.Vector3
}

// OffsetSpawnPoint spawns units at a fixed offset from the producer
type OffsetSpawnPoint struct {
	Offset shared.Vector3
}

func (s OffsetSpawnPoint) SpawnPosition(producer *unit.Unit) shared.Vector3 {
	return producer.Position().Add(s.Offset)
}
