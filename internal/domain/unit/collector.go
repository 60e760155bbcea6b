package unit

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// CollectType selects what a collector does after each collected unit
type CollectType string

const (
	// GatherAndDeposit stops collecting once capacity is full so the
	// resource can be carried to a depot
	GatherAndDeposit CollectType = "GATHER_AND_DEPOSIT"

	// RealtimeCollect credits the owner every interval; nothing is stockpiled
	RealtimeCollect CollectType = "REALTIME_COLLECT"

	// StackAndCollect credits the owner only when capacity is reached,
	// otherwise keeps stacking
	StackAndCollect CollectType = "STACK_AND_COLLECT"
)

// ParseCollectType converts a config string into a CollectType
func ParseCollectType(s string) (CollectType, error) {
	switch CollectType(s) {
	case GatherAndDeposit, RealtimeCollect, StackAndCollect:
		return CollectType(s), nil
	case "":
		return GatherAndDeposit, nil
	default:
		return "", fmt.Errorf("unknown collect type: %s", s)
	}
}

// CollectorStats configures the collector capability
type CollectorStats struct {
	Capacity        int
	CollectInterval float64
	CollectType     CollectType
}

// CollectionEvent describes collector activity at a node
type CollectionEvent struct {
	Collector *Unit
	Node      *Unit
	Resource  shared.ResourceQuantity
}

// DepositEvent describes resources handed to an owner
type DepositEvent struct {
	Collector *Unit
	Depot     *Unit // nil for direct (realtime/stack) deposits
	Resource  shared.ResourceQuantity
}

// ResourceCollector carries one resource type up to Capacity
type ResourceCollector struct {
	unit      *Unit
	stats     CollectorStats
	collected shared.ResourceQuantity

	CollectingStarted  shared.Event[CollectionEvent]
	CollectingFinished shared.Event[CollectionEvent]
	ResourceCollected  shared.Event[CollectionEvent]
	ResourceDeposited  shared.Event[DepositEvent]
	MissingDepot       shared.Event[*Unit]
}

func newResourceCollector(u *Unit, stats CollectorStats) (*ResourceCollector, error) {
	if stats.Capacity <= 0 {
		return nil, shared.NewValidationError("collector.capacity", "must be positive")
	}
	if stats.CollectInterval <= 0 {
		return nil, shared.NewValidationError("collector.collect_interval", "must be positive")
	}
	if stats.CollectType == "" {
		stats.CollectType = GatherAndDeposit
	}
	return &ResourceCollector{unit: u, stats: stats}, nil
}

func (c *ResourceCollector) Unit() *Unit                                { return c.unit }
func (c *ResourceCollector) Stats() CollectorStats                      { return c.stats }
func (c *ResourceCollector) Capacity() int                              { return c.stats.Capacity }
func (c *ResourceCollector) CollectInterval() float64                   { return c.stats.CollectInterval }
func (c *ResourceCollector) CollectType() CollectType                   { return c.stats.CollectType }
func (c *ResourceCollector) CollectedResource() shared.ResourceQuantity { return c.collected }

func (c *ResourceCollector) IsEmpty() bool { return c.collected.Quantity <= 0 }
func (c *ResourceCollector) IsFull() bool  { return c.collected.Quantity >= c.stats.Capacity }

// Holds reports whether the collector carries resource
func (c *ResourceCollector) Holds(resource shared.ResourceType) bool {
	return !c.IsEmpty() && c.collected.Type == resource
}

// Clear drops whatever the collector carries
func (c *ResourceCollector) Clear() {
	c.collected = shared.ResourceQuantity{}
}

// CollectFrom takes one unit from node. Fails when full, when carrying a
// different resource, or when the node gives nothing.
func (c *ResourceCollector) CollectFrom(node *Unit) bool {
	if node == nil || node.Node() == nil || c.IsFull() {
		return false
	}
	res := node.Node()
	if !c.IsEmpty() && c.collected.Type != res.Resource() {
		return false
	}
	if res.Take(1) == 0 {
		return false
	}
	c.collected.Type = res.Resource()
	c.collected.Quantity++
	c.ResourceCollected.Invoke(CollectionEvent{
		Collector: c.unit,
		Node:      node,
		Resource:  shared.NewResourceQuantity(res.Resource(), 1),
	})
	return true
}

// DepositTo hands the carried resource to depot. The collector is cleared
// only if the depot accepted it.
func (c *ResourceCollector) DepositTo(depot *Unit) bool {
	if c.IsEmpty() {
		return true
	}
	if depot == nil || depot.Depot() == nil {
		return false
	}
	carried := c.collected
	if !depot.Depot().Deposit(carried) {
		return false
	}
	c.Clear()
	c.ResourceDeposited.Invoke(DepositEvent{Collector: c.unit, Depot: depot, Resource: carried})
	return true
}

// DepositToOwner credits the carried resource straight to the owner's account
func (c *ResourceCollector) DepositToOwner() bool {
	if c.IsEmpty() {
		return true
	}
	account := c.unit.Account()
	if account == nil {
		return false
	}
	carried := c.collected
	account.AddResource(carried)
	c.Clear()
	c.ResourceDeposited.Invoke(DepositEvent{Collector: c.unit, Resource: carried})
	return true
}
