package unit

// GarrisonStats configures a garrison
type GarrisonStats struct {
	Capacity int
}

// Garrison holds units instead of releasing them into the world.
// It is a limited interaction target bounded by Capacity.
type Garrison struct {
	unit  *Unit
	slots *Slots
}

func newGarrison(u *Unit, stats GarrisonStats) *Garrison {
	return &Garrison{unit: u, slots: NewSlots(stats.Capacity)}
}

func (g *Garrison) Unit() *Unit               { return g.unit }
func (g *Garrison) Units() []*Unit            { return g.slots.Assigned() }
func (g *Garrison) Count() int                { return g.slots.Count() }
func (g *Garrison) Assign(actor *Unit) bool   { return g.slots.Assign(actor) }
func (g *Garrison) Unassign(actor *Unit) bool { return g.slots.Unassign(actor) }
func (g *Garrison) HasReachedLimit() bool     { return g.slots.HasReachedLimit() }

// Enter places u inside the garrison. Garrisoned units are not operational.
func (g *Garrison) Enter(u *Unit) bool {
	if !g.unit.IsActive() || u == nil || !u.IsActive() || u.garrisonIn != nil {
		return false
	}
	if !g.slots.Assign(u) {
		return false
	}
	u.garrisonIn = g
	if u.movement != nil {
		u.movement.StopInCurrentPosition()
	}
	u.position = g.unit.position
	return true
}

// Exit releases u back into the world at the garrison's position
func (g *Garrison) Exit(u *Unit) bool {
	if !g.slots.Unassign(u) {
		return false
	}
	u.garrisonIn = nil
	u.position = g.unit.position
	return true
}

// ExitAll releases every garrisoned unit
func (g *Garrison) ExitAll() []*Unit {
	released := g.slots.Assigned()
	for _, u := range released {
		g.Exit(u)
	}
	return released
}
