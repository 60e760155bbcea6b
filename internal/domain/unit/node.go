package unit

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// NodeStats configures a resource node
type NodeStats struct {
	Resource      shared.ResourceType
	Quantity      int
	Infinite      bool
	MaxCollectors int // 0 means unlimited
}

// ResourceNode is a limited interaction target holding a finite (or infinite)
// amount of one resource
type ResourceNode struct {
	unit      *Unit
	resource  shared.ResourceType
	remaining int
	infinite  bool
	slots     *Slots

	Depleted shared.Event[*Unit]
}

func newResourceNode(u *Unit, stats NodeStats) *ResourceNode {
	return &ResourceNode{
		unit:      u,
		resource:  stats.Resource,
		remaining: stats.Quantity,
		infinite:  stats.Infinite,
		slots:     NewSlots(stats.MaxCollectors),
	}
}

func (n *ResourceNode) Unit() *Unit                   { return n.unit }
func (n *ResourceNode) Resource() shared.ResourceType { return n.resource }
func (n *ResourceNode) Remaining() int                { return n.remaining }
func (n *ResourceNode) Collectors() []*Unit           { return n.slots.Assigned() }

func (n *ResourceNode) IsDepleted() bool {
	return !n.infinite && n.remaining <= 0
}

// IsAvailable reports whether a collector could start on this node
func (n *ResourceNode) IsAvailable() bool {
	return n.unit.IsActive() && !n.IsDepleted() && !n.HasReachedLimit()
}

// Take removes up to amount and returns what was removed
func (n *ResourceNode) Take(amount int) int {
	if amount <= 0 || n.IsDepleted() {
		return 0
	}
	if n.infinite {
		return amount
	}
	if amount > n.remaining {
		amount = n.remaining
	}
	n.remaining -= amount
	if n.remaining == 0 {
		n.Depleted.Invoke(n.unit)
	}
	return amount
}

func (n *ResourceNode) Assign(actor *Unit) bool   { return n.slots.Assign(actor) }
func (n *ResourceNode) Unassign(actor *Unit) bool { return n.slots.Unassign(actor) }
func (n *ResourceNode) HasReachedLimit() bool     { return n.slots.HasReachedLimit() }
func (n *ResourceNode) IsAssigned(actor *Unit) bool {
	return n.slots.IsAssigned(actor)
}
