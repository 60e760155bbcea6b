package world

import (
	"math"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// CombatFinder answers nearest-enemy queries with a linear scan
type CombatFinder struct {
	registry *Registry
}

// FindNearestEnemy returns the closest living enemy within searchRange.
// Garrisoned units are skipped, as are targets whose attacker slots are full
// unless attacker already holds one of them.
func (f *CombatFinder) FindNearestEnemy(attacker *unit.Unit, searchRange float64) (bool, *unit.Unit) {
	if attacker == nil {
		return false, nil
	}
	return nearest(f.registry.Units(), attacker.Position(), searchRange, func(u *unit.Unit) bool {
		if u == attacker || !attacker.IsEnemy(u) || !u.IsActive() || u.GarrisonedIn() != nil {
			return false
		}
		h := u.Health()
		if h == nil || h.IsDepleted() {
			return false
		}
		if limit, ok := h.AttackerLimit(); ok && limit.HasReachedLimit() {
			assigned, ok := limit.(interface{ IsAssigned(*unit.Unit) bool })
			return ok && assigned.IsAssigned(attacker)
		}
		return true
	})
}

// CollectionFinder answers node and depot queries for one player
type CollectionFinder struct {
	registry     *Registry
	owner        shared.PlayerID
	searchRadius float64
}

// FindNearbyNode returns the closest available node of resource within the
// search radius (0 means unlimited)
func (f *CollectionFinder) FindNearbyNode(position shared.Vector3, resource shared.ResourceType) (bool, *unit.Unit) {
	return nearest(f.registry.Units(), position, f.searchRadius, func(u *unit.Unit) bool {
		n := u.Node()
		return n != nil && n.Resource() == resource && n.IsAvailable()
	})
}

// FindNearestDepot returns the owner's closest operational depot accepting
// resource, at any distance
func (f *CollectionFinder) FindNearestDepot(position shared.Vector3, resource shared.ResourceType) (bool, *unit.Unit) {
	return nearest(f.registry.Units(), position, 0, func(u *unit.Unit) bool {
		d := u.Depot()
		return d != nil && u.Owner().Equals(f.owner) && u.IsOperational() && d.Accepts(resource)
	})
}

// nearest returns the closest unit passing keep. maxRange 0 means unlimited.
// Ties go to the unit added first.
func nearest(units []*unit.Unit, from shared.Vector3, maxRange float64, keep func(*unit.Unit) bool) (bool, *unit.Unit) {
	var best *unit.Unit
	bestDistance := math.Inf(1)
	for _, u := range units {
		if !keep(u) {
			continue
		}
		d := from.DistanceTo(u.Position())
		if maxRange > 0 && d > maxRange {
			continue
		}
		if d < bestDistance {
			best = u
			bestDistance = d
		}
	}
	return best != nil, best
}
