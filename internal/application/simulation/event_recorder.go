package simulation

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// EventRecorder turns domain events into log entries and metrics. It attaches
// to every unit, producer and player the simulation knows about, including
// ones added later.
type EventRecorder struct {
	sim     *Simulation
	logger  shared.Logger
	metrics common.MetricsRecorder
	counts  map[string]int
}

// NewEventRecorder subscribes to sim and everything already in it
func NewEventRecorder(sim *Simulation) *EventRecorder {
	r := &EventRecorder{
		sim:     sim,
		logger:  sim.Logger(),
		metrics: sim.Metrics(),
		counts:  make(map[string]int),
	}
	sim.UnitAdded.Subscribe(r.watchUnit)
	sim.ProducerAdded.Subscribe(r.watchProducer)
	sim.PlayerAdded.Subscribe(r.watchPlayer)
	sim.Scheduler().JobFinished.Subscribe(r.onJobFinished)

	for _, p := range sim.Players() {
		r.watchPlayer(p)
		if m, err := sim.Module(p.ID().Value()); err == nil {
			for _, ap := range m.Producers() {
				r.watchProducer(ap)
			}
		}
	}
	for _, u := range sim.World().Units() {
		r.watchUnit(u)
	}
	return r
}

// Counts returns how many events of each kind were recorded
func (r *EventRecorder) Counts() map[string]int {
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

func (r *EventRecorder) record(kind, level, message string, metadata map[string]interface{}) {
	r.counts[kind]++
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	metadata["event"] = kind
	metadata["tick"] = r.sim.Clock().Ticks()
	r.logger.Log(level, message, metadata)
}

func (r *EventRecorder) watchPlayer(p *player.Player) {
	p.ResearchComplete.Subscribe(func(id string) {
		r.record("research_complete", shared.LevelInfo, fmt.Sprintf("player %s completed %s", p.ID(), id), map[string]interface{}{
			"player_id": p.ID().Value(),
		})
	})
}

func (r *EventRecorder) watchUnit(u *unit.Unit) {
	u.Destroyed.Subscribe(func(u *unit.Unit) {
		r.record("unit_destroyed", shared.LevelInfo, fmt.Sprintf("%s destroyed", u.Name()), map[string]interface{}{
			"player_id": u.Owner().Value(),
			"unit_id":   u.ID(),
		})
		r.metrics.RecordUnitDestroyed(u.Owner().Value(), u.Name())
	})

	if a := u.Attack(); a != nil {
		a.AttackPerformed.Subscribe(func(e unit.AttackEvent) {
			r.counts["attack"]++
			r.metrics.RecordAttack(e.Attacker.Owner().Value(), e.Damage)
		})
	}

	if c := u.Collector(); c != nil {
		c.ResourceDeposited.Subscribe(func(e unit.DepositEvent) {
			metadata := map[string]interface{}{
				"player_id": e.Collector.Owner().Value(),
				"unit_id":   e.Collector.ID(),
				"resource":  string(e.Resource.Type),
				"quantity":  e.Resource.Quantity,
			}
			if e.Depot != nil {
				metadata["depot_id"] = e.Depot.ID()
			}
			r.record("resource_deposited", shared.LevelDebug, fmt.Sprintf("%s deposited %s", e.Collector.Name(), e.Resource), metadata)
			r.metrics.RecordResourcesDeposited(e.Collector.Owner().Value(), string(e.Resource.Type), e.Resource.Quantity)
		})
		c.MissingDepot.Subscribe(func(collector *unit.Unit) {
			r.record("missing_depot", shared.LevelWarning, fmt.Sprintf("%s has no depot to return to", collector.Name()), map[string]interface{}{
				"player_id": collector.Owner().Value(),
				"unit_id":   collector.ID(),
			})
		})
	}

	if n := u.Node(); n != nil {
		n.Depleted.Subscribe(func(node *unit.Unit) {
			r.record("node_depleted", shared.LevelInfo, fmt.Sprintf("%s depleted", node.Name()), map[string]interface{}{
				"unit_id": node.ID(),
			})
		})
	}
}

func (r *EventRecorder) watchProducer(ap *production.ActiveProduction) {
	playerID := ap.Owner().ID().Value()
	producerID := ap.Producer().ID()

	ap.ProductionFinished.Subscribe(func(o production.ProductionOrder) {
		r.record("production_finished", shared.LevelInfo, fmt.Sprintf("%s finished %s", producerID, o.Producible), map[string]interface{}{
			"player_id":  playerID,
			"producer":   producerID,
			"producible": o.Producible.ID,
		})
		r.metrics.RecordProductionFinished(playerID, o.Producible.ID, string(o.Producible.Kind))
	})
	ap.ProductionCancelled.Subscribe(func(c production.CancelledOrder) {
		r.record("production_cancelled", shared.LevelInfo, fmt.Sprintf("%s cancelled %d orders", producerID, len(c.Orders)), map[string]interface{}{
			"player_id": playerID,
			"producer":  producerID,
			"refund":    fmt.Sprint(c.Refund),
		})
		r.metrics.RecordProductionCancelled(playerID, len(c.Orders))
	})
	ap.ItemStashed.Subscribe(func(o production.ProductionOrder) {
		r.record("item_stashed", shared.LevelDebug, fmt.Sprintf("%s stashed %s", producerID, o.Producible), map[string]interface{}{
			"player_id": playerID,
			"producer":  producerID,
			"quantity":  o.Quantity,
		})
	})
}

func (r *EventRecorder) onJobFinished(job *Job) {
	level := shared.LevelDebug
	if job.Status() == shared.LifecycleStatusFailed {
		level = shared.LevelWarning
	}
	r.record("job_finished", level, fmt.Sprintf("%s on %s %s", job.Name(), job.Unit().ID(), job.Status()), map[string]interface{}{
		"player_id": job.Unit().Owner().Value(),
		"unit_id":   job.Unit().ID(),
		"job_id":    job.ID(),
		"ticks":     job.Ticks(),
	})
}
