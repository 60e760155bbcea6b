package unit

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// Movement is the path-following collaborator attached to mobile units.
// Implementations must tolerate repeated identical SetDestination calls.
type Movement interface {
	SetDestination(position shared.Vector3)
	HasReachedDestination() bool
	StopInCurrentPosition()
}

// ResourceAccount receives resources on behalf of a unit's owner
// (deposits, realtime collection, produced resources).
type ResourceAccount interface {
	AddResource(resource shared.ResourceQuantity)
}

// LimitedInteractionTarget caps how many actors may interact with an entity
// at the same time. Assign rejects actors that are already assigned.
type LimitedInteractionTarget interface {
	Assign(actor *Unit) bool
	Unassign(actor *Unit) bool
	HasReachedLimit() bool
}
