package production

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Options configures an ActiveProduction
type Options struct {
	// Producibles lists what this producer can make; empty allows anything
	Producibles []*Producible

	// MaxOrders caps queue entries; 0 means unlimited
	MaxOrders int

	// UseStash holds finished non-unit items until claimed instead of
	// registering them to the owner right away
	UseStash bool
	// GroupStash merges stash entries of the same producible
	GroupStash bool

	// GarrisonUnits puts produced units into the producer's garrison
	GarrisonUnits bool
}

// CancelledOrder is raised when queue entries are cancelled
type CancelledOrder struct {
	Orders []ProductionOrder
	Refund []shared.ResourceQuantity
}

// ActiveProduction owns a producer's queue and handles what finished items
// turn into: spawned (and maybe garrisoned) units, stashed items, or resources
// and research registered to the owner
type ActiveProduction struct {
	producer *unit.Unit
	owner    Owner
	queue    *Queue
	options  Options
	allowed  map[string]*Producible

	factory UnitFactory
	spawn   SpawnPoint
	logger  shared.Logger

	stash []ProductionOrder

	// pendingResearch reports research queued or stashed by the owner's
	// other producers; set by the Module
	pendingResearch func(id string) bool

	ProductionScheduled shared.Event[ProductionOrder]
	ProductionCancelled shared.Event[CancelledOrder]
	ProductionFinished  shared.Event[ProductionOrder]
	UnitSpawned         shared.Event[*unit.Unit]
	ItemStashed         shared.Event[ProductionOrder]
	StashClaimed        shared.Event[ProductionOrder]
}

// NewActiveProduction wires a producer to its owner. factory and spawn may be
// nil; producing a unit without them is logged and skipped.
func NewActiveProduction(producer *unit.Unit, owner Owner, factory UnitFactory, spawn SpawnPoint, options Options, logger shared.Logger) (*ActiveProduction, error) {
	if producer == nil {
		return nil, shared.NewArgumentNilError("producer")
	}
	if owner == nil {
		return nil, shared.NewArgumentNilError("owner")
	}
	if options.MaxOrders < 0 {
		return nil, shared.NewValidationError("max_orders", "cannot be negative")
	}

	ap := &ActiveProduction{
		producer: producer,
		owner:    owner,
		queue:    NewQueue(),
		options:  options,
		factory:  factory,
		spawn:    spawn,
		logger:   shared.LoggerOrNoOp(logger),
	}
	if len(options.Producibles) > 0 {
		ap.allowed = make(map[string]*Producible, len(options.Producibles))
		for _, p := range options.Producibles {
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("producer %s: %w", producer.ID(), err)
			}
			ap.allowed[p.ID] = p
		}
	}
	ap.queue.ProductionFinished.Subscribe(ap.onItemFinished)
	return ap, nil
}

func (ap *ActiveProduction) Producer() *unit.Unit        { return ap.producer }
func (ap *ActiveProduction) Owner() Owner                { return ap.owner }
func (ap *ActiveProduction) Queue() *Queue               { return ap.queue }
func (ap *ActiveProduction) Options() Options            { return ap.options }
func (ap *ActiveProduction) Delegate() QueueDelegate     { return ap.queue.Delegate() }
func (ap *ActiveProduction) SetDelegate(d QueueDelegate) { ap.queue.SetDelegate(d) }
func (ap *ActiveProduction) Progress() float64           { return ap.queue.CurrentProductionProgress() }
func (ap *ActiveProduction) Orders() []ProductionOrder   { return ap.queue.Orders() }

// Producible looks up an allowed producible by ID
func (ap *ActiveProduction) Producible(id string) (*Producible, bool) {
	p, ok := ap.allowed[id]
	return p, ok
}

// Producibles lists what this producer can make
func (ap *ActiveProduction) Producibles() []*Producible {
	return ap.options.Producibles
}

// CanProduce reports why p cannot be queued right now, or nil
func (ap *ActiveProduction) CanProduce(p *Producible, quantity int) error {
	if p == nil {
		return shared.NewArgumentNilError("producible")
	}
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	if ap.allowed != nil {
		if _, ok := ap.allowed[p.ID]; !ok {
			return shared.NewProductionError(p.ID, fmt.Sprintf("%s cannot produce %s", ap.producer.Name(), p.ID))
		}
	}
	if !ap.producer.IsOperational() {
		return shared.NewProductionError(p.ID, fmt.Sprintf("%s is not operational", ap.producer.ID()))
	}
	if ap.options.MaxOrders > 0 && ap.queue.Len() >= ap.options.MaxOrders {
		return shared.NewQueueFullError(p.ID, ap.options.MaxOrders)
	}
	if missing := ap.owner.MissingRequirements(p.Requirements); len(missing) > 0 {
		return shared.NewRequirementsNotMetError(p.ID, missing)
	}
	if p.Kind == KindResearch {
		if ap.owner.HasResearched(p.ID) || quantity > 1 {
			return shared.NewProductionError(p.ID, fmt.Sprintf("%s can only be researched once", p.ID))
		}
		if ap.HasPending(p.ID) || (ap.pendingResearch != nil && ap.pendingResearch(p.ID)) {
			return shared.NewProductionError(p.ID, fmt.Sprintf("%s is already being researched", p.ID))
		}
	}
	return nil
}

// HasPending reports whether producibleID is queued or waiting in the stash
func (ap *ActiveProduction) HasPending(producibleID string) bool {
	for _, o := range ap.queue.Orders() {
		if o.Producible.ID == producibleID {
			return true
		}
	}
	for _, o := range ap.stash {
		if o.Producible.ID == producibleID {
			return true
		}
	}
	return false
}

// QueueProduction charges the owner for quantity items and queues them
func (ap *ActiveProduction) QueueProduction(p *Producible, quantity int) error {
	if err := ap.CanProduce(p, quantity); err != nil {
		return err
	}
	if err := ap.owner.Spend(p.ID, shared.MultiplyCost(p.Cost, quantity)); err != nil {
		return err
	}
	ap.queue.AddProductionOrder(p, quantity)

	order := ProductionOrder{Producible: p, Quantity: quantity}
	ap.ProductionScheduled.Invoke(order)
	ap.logger.Log(shared.LevelDebug, "production scheduled", map[string]interface{}{
		"producer":   ap.producer.ID(),
		"producible": p.ID,
		"quantity":   quantity,
	})
	return nil
}

// Update advances the queue. Producers that are not operational stall.
func (ap *ActiveProduction) Update(deltaTime float64) {
	if !ap.producer.IsOperational() {
		return
	}
	ap.queue.Produce(deltaTime)
}

// CancelProduction cancels every queued order and refunds the owner. The
// refund holds one entry per resource.
func (ap *ActiveProduction) CancelProduction() []shared.ResourceQuantity {
	return ap.refund(ap.queue.CancelProduction())
}

// CancelProductionOrder cancels the order at index and refunds the owner
func (ap *ActiveProduction) CancelProductionOrder(index int) ([]shared.ResourceQuantity, error) {
	order, ok := ap.queue.CancelProductionOrder(index)
	if !ok {
		return nil, shared.NewInvalidArgumentError("index", fmt.Sprintf("no order at position %d", index))
	}
	return ap.refund([]ProductionOrder{order}), nil
}

func (ap *ActiveProduction) refund(orders []ProductionOrder) []shared.ResourceQuantity {
	if len(orders) == 0 {
		return nil
	}
	costs := make([][]shared.ResourceQuantity, 0, len(orders))
	for _, o := range orders {
		costs = append(costs, shared.MultiplyCost(o.Producible.Cost, o.Quantity))
	}
	refund := shared.SumResources(costs...)
	ap.owner.Refund(refund)
	ap.ProductionCancelled.Invoke(CancelledOrder{Orders: orders, Refund: refund})
	return refund
}

func (ap *ActiveProduction) onItemFinished(order ProductionOrder) {
	p := order.Producible
	ap.ProductionFinished.Invoke(order)

	switch p.Kind {
	case KindUnit:
		for i := 0; i < order.Quantity; i++ {
			ap.spawnUnit(p)
		}
	default:
		if ap.options.UseStash {
			ap.addToStash(order)
			return
		}
		ap.register(order)
	}
}

func (ap *ActiveProduction) spawnUnit(p *Producible) {
	if ap.factory == nil || ap.spawn == nil {
		ap.logger.Log(shared.LevelWarning, "producer has no unit factory or spawn point, unit not spawned", map[string]interface{}{
			"producer":   ap.producer.ID(),
			"producible": p.ID,
		})
		return
	}

	template := *p.Unit
	if p.Population > 0 {
		template.Population = p.Population
	}
	spawned, err := ap.factory.CreateUnit(template, ap.owner.ID(), ap.spawn.SpawnPosition(ap.producer))
	if err != nil {
		ap.logger.Log(shared.LevelError, fmt.Sprintf("failed to spawn %s: %v", p.ID, err), map[string]interface{}{
			"producer": ap.producer.ID(),
		})
		return
	}

	if ap.options.GarrisonUnits {
		if g := ap.producer.Garrison(); g != nil {
			if !g.Enter(spawned) {
				ap.logger.Log(shared.LevelDebug, "garrison full, unit released", map[string]interface{}{
					"producer": ap.producer.ID(),
					"unit_id":  spawned.ID(),
				})
			}
		} else {
			ap.logger.Log(shared.LevelWarning, "garrisoning requested but producer has no garrison", map[string]interface{}{
				"producer": ap.producer.ID(),
			})
		}
	}

	ap.UnitSpawned.Invoke(spawned)
}

func (ap *ActiveProduction) register(order ProductionOrder) {
	p := order.Producible
	switch p.Kind {
	case KindResource:
		for _, r := range shared.MultiplyCost(p.Produces, order.Quantity) {
			ap.owner.AddResource(r)
		}
	case KindResearch:
		ap.owner.CompleteResearch(p.ID)
	}
}

func (ap *ActiveProduction) addToStash(order ProductionOrder) {
	if ap.options.GroupStash {
		for i := range ap.stash {
			if ap.stash[i].Producible.ID == order.Producible.ID {
				ap.stash[i].Quantity += order.Quantity
				ap.ItemStashed.Invoke(ap.stash[i])
				return
			}
		}
	}
	ap.stash = append(ap.stash, order)
	ap.ItemStashed.Invoke(order)
}

// Stash returns a copy of the items awaiting collection
func (ap *ActiveProduction) Stash() []ProductionOrder {
	out := make([]ProductionOrder, len(ap.stash))
	copy(out, ap.stash)
	return out
}

// ClaimStash registers the stash entry at index to the owner
func (ap *ActiveProduction) ClaimStash(index int) (ProductionOrder, error) {
	if index < 0 || index >= len(ap.stash) {
		return ProductionOrder{}, shared.NewInvalidArgumentError("index", fmt.Sprintf("no stash entry at position %d", index))
	}
	entry := ap.stash[index]
	ap.stash = append(ap.stash[:index:index], ap.stash[index+1:]...)
	ap.register(entry)
	ap.StashClaimed.Invoke(entry)
	return entry, nil
}

// ClaimAll registers every stash entry to the owner
func (ap *ActiveProduction) ClaimAll() []ProductionOrder {
	claimed := ap.stash
	ap.stash = nil
	for _, entry := range claimed {
		ap.register(entry)
		ap.StashClaimed.Invoke(entry)
	}
	return claimed
}
