package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// CombatModule answers nearest-enemy queries for attack handlers
type CombatModule interface {
	FindNearestEnemy(attacker *unit.Unit, searchRange float64) (bool, *unit.Unit)
}

// CollectionModule answers node and depot queries for collectors.
// Implementations only return targets that are usable right now: nodes that
// are active, not depleted and below their collector limit, depots that are
// active and accept the resource.
type CollectionModule interface {
	FindNearbyNode(position shared.Vector3, resource shared.ResourceType) (bool, *unit.Unit)
	FindNearestDepot(position shared.Vector3, resource shared.ResourceType) (bool, *unit.Unit)
}
