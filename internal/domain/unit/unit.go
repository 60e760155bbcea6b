package unit

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Template describes a unit kind. Nil capability stats mean the unit lacks
// that capability. Templates are shared by scenarios and producibles.
// Speed is read by world movers; 0 means the unit never moves.
type Template struct {
	Name       string
	Population int
	Speed      float64
	Health     *HealthStats
	Attack     *AttackStats
	Collector  *CollectorStats
	Node       *NodeStats
	Depot      *DepotStats
	Garrison   *GarrisonStats
}

// Unit is any entity on the map: soldiers, workers, buildings, resource nodes.
// Capabilities are resolved once in NewUnit and stored as typed fields.
type Unit struct {
	id          string
	name        string
	owner       shared.PlayerID
	position    shared.Vector3
	population  int
	active      bool
	operational bool

	movement   Movement
	account    ResourceAccount
	garrisonIn *Garrison

	health    *Health
	attack    *Attack
	collector *ResourceCollector
	node      *ResourceNode
	depot     *ResourceDepot
	garrison  *Garrison

	// Destroyed fires once when the unit is removed from play
	Destroyed shared.Event[*Unit]
}

// NewUnit creates an active, operational unit from a template
func NewUnit(id string, owner shared.PlayerID, position shared.Vector3, template Template) (*Unit, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "unit id cannot be empty")
	}
	if template.Name == "" {
		return nil, shared.NewValidationError("name", "unit name cannot be empty")
	}

	u := &Unit{
		id:          id,
		name:        template.Name,
		owner:       owner,
		position:    position,
		population:  template.Population,
		active:      true,
		operational: true,
	}

	if template.Health != nil {
		h, err := newHealth(u, *template.Health)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", id, err)
		}
		u.health = h
	}
	if template.Attack != nil {
		u.attack = newAttack(u, *template.Attack)
	}
	if template.Collector != nil {
		c, err := newResourceCollector(u, *template.Collector)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", id, err)
		}
		u.collector = c
	}
	if template.Node != nil {
		u.node = newResourceNode(u, *template.Node)
	}
	if template.Depot != nil {
		u.depot = newResourceDepot(u, *template.Depot)
	}
	if template.Garrison != nil {
		u.garrison = newGarrison(u, *template.Garrison)
	}

	return u, nil
}

// Getters

func (u *Unit) ID() string                      { return u.id }
func (u *Unit) Name() string                    { return u.name }
func (u *Unit) Owner() shared.PlayerID          { return u.owner }
func (u *Unit) Position() shared.Vector3        { return u.position }
func (u *Unit) Population() int                 { return u.population }
func (u *Unit) Movement() Movement              { return u.movement }
func (u *Unit) Account() ResourceAccount        { return u.account }
func (u *Unit) Health() *Health                 { return u.health }
func (u *Unit) Attack() *Attack                 { return u.attack }
func (u *Unit) Collector() *ResourceCollector   { return u.collector }
func (u *Unit) Node() *ResourceNode             { return u.node }
func (u *Unit) Depot() *ResourceDepot           { return u.depot }
func (u *Unit) Garrison() *Garrison             { return u.garrison }
func (u *Unit) GarrisonedIn() *Garrison         { return u.garrisonIn }
func (u *Unit) SetPosition(pos shared.Vector3)  { u.position = pos }
func (u *Unit) SetMovement(m Movement)          { u.movement = m }
func (u *Unit) SetAccount(a ResourceAccount)    { u.account = a }
func (u *Unit) SetOperational(operational bool) { u.operational = operational }

// IsActive is false once the unit has been destroyed or deactivated
func (u *Unit) IsActive() bool {
	return u != nil && u.active
}

// IsOperational is false while e.g. under construction or garrisoned
func (u *Unit) IsOperational() bool {
	return u.IsActive() && u.operational && u.garrisonIn == nil
}

// Relationships

// IsAlly reports whether both units belong to the same non-neutral owner
func (u *Unit) IsAlly(other *Unit) bool {
	if other == nil || u.owner.IsNeutral() {
		return false
	}
	return u.owner.Equals(other.owner)
}

// IsEnemy reports whether both units have different non-neutral owners
func (u *Unit) IsEnemy(other *Unit) bool {
	if other == nil || u.owner.IsNeutral() || other.owner.IsNeutral() {
		return false
	}
	return !u.owner.Equals(other.owner)
}

// Deactivate removes the unit from play without destroying it (e.g. a depot
// being upgraded). Running tasks see IsActive()==false.
func (u *Unit) Deactivate() {
	u.active = false
}

// Activate returns a deactivated unit to play
func (u *Unit) Activate() {
	u.active = true
}

// Destroy marks the unit inactive and notifies listeners once
func (u *Unit) Destroy() {
	if !u.active {
		return
	}
	u.active = false
	if u.movement != nil {
		u.movement.StopInCurrentPosition()
	}
	if u.garrisonIn != nil {
		u.garrisonIn.Exit(u)
	}
	u.Destroyed.Invoke(u)
}

// Update advances time-based capability state (regeneration)
func (u *Unit) Update(deltaTime float64) {
	if !u.IsActive() {
		return
	}
	if u.health != nil {
		u.health.Update(deltaTime)
	}
}

func (u *Unit) String() string {
	return fmt.Sprintf("Unit[%s %s owner=%s at %s]", u.id, u.name, u.owner, u.position)
}
