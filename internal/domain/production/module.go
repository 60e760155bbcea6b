package production

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Module tracks every producer one player owns. It acts as the queue
// delegate for them, holding back units the player has no population for,
// and registers spawned units with the owner.
type Module struct {
	owner     Owner
	logger    shared.Logger
	producers []*ActiveProduction
	byUnit    map[string]*ActiveProduction
	unitSubs  map[string]shared.Subscription
	spawnSubs map[*ActiveProduction]shared.Subscription
}

func NewModule(owner Owner, logger shared.Logger) (*Module, error) {
	if owner == nil {
		return nil, shared.NewArgumentNilError("owner")
	}
	return &Module{
		owner:     owner,
		logger:    shared.LoggerOrNoOp(logger),
		byUnit:    make(map[string]*ActiveProduction),
		unitSubs:  make(map[string]shared.Subscription),
		spawnSubs: make(map[*ActiveProduction]shared.Subscription),
	}, nil
}

func (m *Module) Owner() Owner { return m.owner }

// Producers returns the registered producers in registration order
func (m *Module) Producers() []*ActiveProduction {
	out := make([]*ActiveProduction, len(m.producers))
	copy(out, m.producers)
	return out
}

// Producer finds the production attached to a unit
func (m *Module) Producer(unitID string) (*ActiveProduction, bool) {
	ap, ok := m.byUnit[unitID]
	return ap, ok
}

// ShouldFinishProductionFor holds back units that would exceed the owner's
// population limit
func (m *Module) ShouldFinishProductionFor(p *Producible) bool {
	if p == nil || p.Kind != KindUnit {
		return true
	}
	return m.owner.HasPopulationFor(p.UnitPopulation())
}

// AddProducer registers a producer and makes the module its delegate
func (m *Module) AddProducer(ap *ActiveProduction) error {
	if ap == nil {
		return shared.NewArgumentNilError("production")
	}
	id := ap.Producer().ID()
	if _, exists := m.byUnit[id]; exists {
		return shared.NewInvalidArgumentError("production", "producer "+id+" already registered")
	}

	ap.SetDelegate(m)
	ap.pendingResearch = m.IsResearchPending
	m.producers = append(m.producers, ap)
	m.byUnit[id] = ap
	m.spawnSubs[ap] = ap.UnitSpawned.Subscribe(m.onUnitSpawned)
	ap.Producer().Destroyed.Subscribe(func(u *unit.Unit) { m.RemoveProducer(u.ID()) })

	m.logger.Log(shared.LevelDebug, "producer registered", map[string]interface{}{
		"player":   m.owner.ID().String(),
		"producer": id,
	})
	return nil
}

// RemoveProducer detaches a producer. The delegate is only cleared when it
// still points at this module.
func (m *Module) RemoveProducer(unitID string) {
	ap, ok := m.byUnit[unitID]
	if !ok {
		return
	}
	delete(m.byUnit, unitID)
	for i, p := range m.producers {
		if p == ap {
			m.producers = append(m.producers[:i:i], m.producers[i+1:]...)
			break
		}
	}
	if sub, ok := m.spawnSubs[ap]; ok {
		ap.UnitSpawned.Unsubscribe(sub)
		delete(m.spawnSubs, ap)
	}
	if d, ok := ap.Delegate().(*Module); ok && d == m {
		ap.SetDelegate(nil)
	}
	ap.pendingResearch = nil
}

// IsResearchPending reports whether any producer of this player has
// researchID queued or stashed
func (m *Module) IsResearchPending(researchID string) bool {
	for _, ap := range m.producers {
		if ap.HasPending(researchID) {
			return true
		}
	}
	return false
}

// Update advances every operational producer
func (m *Module) Update(deltaTime float64) {
	for _, ap := range m.Producers() {
		ap.Update(deltaTime)
	}
}

// AdvanceTurns advances production by whole turns in one step, so the
// leftover of a finished item carries into the next as it would in real time
func (m *Module) AdvanceTurns(turns int, turnLength float64) {
	if turns <= 0 || turnLength <= 0 {
		return
	}
	m.Update(float64(turns) * turnLength)
}

func (m *Module) onUnitSpawned(u *unit.Unit) {
	m.owner.RegisterUnit(u)
	m.unitSubs[u.ID()] = u.Destroyed.Subscribe(m.onUnitDestroyed)
}

func (m *Module) onUnitDestroyed(u *unit.Unit) {
	if sub, ok := m.unitSubs[u.ID()]; ok {
		u.Destroyed.Unsubscribe(sub)
		delete(m.unitSubs, u.ID())
	}
	m.owner.UnregisterUnit(u)
}
