package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Context describes what a task targets
type Context interface {
	isTaskContext()
}

// PositionContext targets a point on the map
type PositionContext struct {
	Position shared.Vector3
}

// UnitInteractionContext targets another unit. IsHostile is set for attacks.
type UnitInteractionContext struct {
	Target    *unit.Unit
	IsHostile bool
}

func (PositionContext) isTaskContext()        {}
func (UnitInteractionContext) isTaskContext() {}

// Input describes which capability performs a task
type Input interface {
	isTaskInput()
}

// MoveInput drives a unit's movement
type MoveInput struct {
	Unit *unit.Unit
}

// AttackInput drives a unit's attack capability. Combat may be nil, in which
// case handlers never look for replacement targets.
type AttackInput struct {
	Attacker *unit.Unit
	Combat   CombatModule
}

// CollectorInput drives a unit's collector capability
type CollectorInput struct {
	Collector  *unit.Unit
	Collection CollectionModule
}

func (MoveInput) isTaskInput()      {}
func (AttackInput) isTaskInput()    {}
func (CollectorInput) isTaskInput() {}

// targetOf extracts the interaction context when it names a target
func targetOf(ctx Context) (UnitInteractionContext, bool) {
	uc, ok := ctx.(UnitInteractionContext)
	if !ok || uc.Target == nil {
		return UnitInteractionContext{}, false
	}
	return uc, true
}

func startArgs[I Input](ctx Context, input Input, actor func(I) *unit.Unit, name string) (I, error) {
	var zero I
	if input == nil {
		return zero, shared.NewArgumentNilError("input")
	}
	in, ok := input.(I)
	if !ok {
		return zero, shared.NewInvalidArgumentError("input", "unexpected task input variant")
	}
	if actor(in) == nil {
		return zero, shared.NewArgumentNilError(name)
	}
	if ctx == nil {
		return zero, shared.NewArgumentNilError("context")
	}
	return in, nil
}
