package world

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// updatable is implemented by movers that need ticking
type updatable interface {
	Update(deltaTime float64)
}

// Registry is the in-memory world: every unit in insertion order plus the
// finders that scan it
type Registry struct {
	units        map[string]*unit.Unit
	order        []*unit.Unit
	combat       *CombatFinder
	collections  map[shared.PlayerID]*CollectionFinder
	factory      *Factory
	searchRadius float64
}

// NewRegistry creates an empty world. nodeSearchRadius bounds automatic node
// searches; 0 means unlimited.
func NewRegistry(nodeSearchRadius float64) *Registry {
	r := &Registry{
		units:        make(map[string]*unit.Unit),
		collections:  make(map[shared.PlayerID]*CollectionFinder),
		factory:      &Factory{},
		searchRadius: nodeSearchRadius,
	}
	r.combat = &CombatFinder{registry: r}
	return r
}

func (r *Registry) AddUnit(u *unit.Unit) error {
	if u == nil {
		return shared.NewArgumentNilError("unit")
	}
	if _, exists := r.units[u.ID()]; exists {
		return shared.NewInvalidArgumentError("unit", fmt.Sprintf("unit %s already exists", u.ID()))
	}
	r.units[u.ID()] = u
	r.order = append(r.order, u)
	return nil
}

func (r *Registry) Unit(id string) (*unit.Unit, bool) {
	u, ok := r.units[id]
	return u, ok
}

// Units returns every unit, destroyed ones included, in insertion order
func (r *Registry) Units() []*unit.Unit {
	out := make([]*unit.Unit, len(r.order))
	copy(out, r.order)
	return out
}

// Prune drops destroyed units and returns how many were removed
func (r *Registry) Prune() int {
	kept := r.order[:0]
	removed := 0
	for _, u := range r.order {
		if u.IsActive() {
			kept = append(kept, u)
			continue
		}
		delete(r.units, u.ID())
		removed++
	}
	r.order = kept
	return removed
}

// Update advances every unit's mover
func (r *Registry) Update(deltaTime float64) {
	for _, u := range r.order {
		if m, ok := u.Movement().(updatable); ok {
			m.Update(deltaTime)
		}
	}
}

func (r *Registry) Combat() task.CombatModule { return r.combat }

// Collection returns the finder for owner's collectors
func (r *Registry) Collection(owner shared.PlayerID) task.CollectionModule {
	f, ok := r.collections[owner]
	if !ok {
		f = &CollectionFinder{registry: r, owner: owner, searchRadius: r.searchRadius}
		r.collections[owner] = f
	}
	return f
}

func (r *Registry) Factory() production.UnitFactory { return r.factory }

// UnitFactory exposes the concrete factory for callers that choose IDs
func (r *Registry) UnitFactory() *Factory { return r.factory }
