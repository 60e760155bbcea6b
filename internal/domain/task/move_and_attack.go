package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// MoveAndAttackState is the phase of a MoveAndAttackHandler
type MoveAndAttackState string

const (
	MoveAndAttackIdle      MoveAndAttackState = "IDLE"
	MoveAndAttackMoving    MoveAndAttackState = "MOVING"
	MoveAndAttackAttacking MoveAndAttackState = "ATTACKING"
	MoveAndAttackFinished  MoveAndAttackState = "FINISHED"
)

// MoveAndAttackTask moves toward a position and fights any enemy met on the
// way, then resumes toward the original destination
type MoveAndAttackTask struct {
	attackTask Task
}

func NewMoveAndAttackTask() *MoveAndAttackTask {
	return &MoveAndAttackTask{attackTask: NewAttackTargetTask()}
}

func (t *MoveAndAttackTask) CanExecuteTask(ctx Context, input Input) bool {
	if _, ok := ctx.(PositionContext); !ok {
		return false
	}
	in, ok := input.(AttackInput)
	if !ok || !in.Attacker.IsOperational() {
		return false
	}
	return in.Attacker.Movement() != nil && in.Attacker.Attack() != nil
}

func (t *MoveAndAttackTask) CreateHandler() Handler {
	return &MoveAndAttackHandler{attackTask: t.attackTask, state: MoveAndAttackIdle}
}

// MoveAndAttackHandler runs a MoveAndAttackTask
type MoveAndAttackHandler struct {
	attackTask Task

	input            AttackInput
	attacker         *unit.Unit
	finalDestination shared.Vector3
	state            MoveAndAttackState
	sub              Handler
	searchRemaining  float64
	ended            bool
}

func (h *MoveAndAttackHandler) StartTask(ctx Context, input Input) error {
	in, err := startArgs(ctx, input, func(in AttackInput) *unit.Unit { return in.Attacker }, "attacker")
	if err != nil {
		return err
	}
	pc, ok := ctx.(PositionContext)
	if !ok {
		return shared.NewInvalidArgumentError("context", "move and attack requires a position")
	}
	if in.Attacker.Movement() == nil || in.Attacker.Attack() == nil {
		return shared.NewInvalidArgumentError("attacker", "unit needs movement and attack")
	}

	h.input = in
	h.attacker = in.Attacker
	h.finalDestination = pc.Position
	h.evaluate()
	return nil
}

// evaluate engages the nearest enemy in line of sight, otherwise heads for
// the final destination
func (h *MoveAndAttackHandler) evaluate() {
	h.searchRemaining = h.attacker.Attack().Stats().RangeCheckInterval
	if h.engageNearestEnemy() {
		return
	}
	h.attacker.Movement().SetDestination(h.finalDestination)
	h.state = MoveAndAttackMoving
}

func (h *MoveAndAttackHandler) engageNearestEnemy() bool {
	if h.input.Combat == nil {
		return false
	}
	found, enemy := h.input.Combat.FindNearestEnemy(h.attacker, h.attacker.Attack().Stats().LineOfSight)
	if !found {
		return false
	}
	ctx := UnitInteractionContext{Target: enemy, IsHostile: true}
	if !h.attackTask.CanExecuteTask(ctx, h.input) {
		return false
	}
	sub := h.attackTask.CreateHandler()
	if err := sub.StartTask(ctx, h.input); err != nil || sub.IsFinished() {
		sub.EndTask()
		return false
	}
	h.attacker.Movement().StopInCurrentPosition()
	h.sub = sub
	h.state = MoveAndAttackAttacking
	return true
}

func (h *MoveAndAttackHandler) UpdateTask(deltaTime float64) {
	if h.state == MoveAndAttackFinished {
		return
	}
	if !h.attacker.IsOperational() {
		h.state = MoveAndAttackFinished
		return
	}

	switch h.state {
	case MoveAndAttackIdle:
		h.evaluate()

	case MoveAndAttackMoving:
		h.searchRemaining -= deltaTime
		if h.searchRemaining <= 0 {
			h.searchRemaining = h.attacker.Attack().Stats().RangeCheckInterval
			if h.engageNearestEnemy() {
				return
			}
		}
		if h.attacker.Movement().HasReachedDestination() {
			h.state = MoveAndAttackFinished
		}

	case MoveAndAttackAttacking:
		h.sub.UpdateTask(deltaTime)
		if h.sub.IsFinished() {
			h.sub.EndTask()
			h.sub = nil
			h.state = MoveAndAttackIdle
			h.evaluate()
		}
	}
}

func (h *MoveAndAttackHandler) IsFinished() bool                 { return h.state == MoveAndAttackFinished }
func (h *MoveAndAttackHandler) State() MoveAndAttackState        { return h.state }
func (h *MoveAndAttackHandler) FinalDestination() shared.Vector3 { return h.finalDestination }

// CurrentTarget is the enemy being fought, nil unless attacking
func (h *MoveAndAttackHandler) CurrentTarget() *unit.Unit {
	if a, ok := h.sub.(*AttackTargetHandler); ok {
		return a.Target()
	}
	return nil
}

func (h *MoveAndAttackHandler) EndTask() {
	if h.ended {
		return
	}
	h.ended = true
	if h.sub != nil {
		h.sub.EndTask()
		h.sub = nil
	}
	if h.attacker != nil && h.state != MoveAndAttackFinished && h.attacker.Movement() != nil {
		h.attacker.Movement().StopInCurrentPosition()
	}
}
