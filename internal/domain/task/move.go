package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// MoveTask sends a unit to a position and finishes on arrival
type MoveTask struct{}

func NewMoveTask() *MoveTask {
	return &MoveTask{}
}

func (t *MoveTask) CanExecuteTask(ctx Context, input Input) bool {
	if _, ok := ctx.(PositionContext); !ok {
		return false
	}
	in, ok := input.(MoveInput)
	if !ok || !in.Unit.IsOperational() {
		return false
	}
	return in.Unit.Movement() != nil
}

func (t *MoveTask) CreateHandler() Handler {
	return &MoveHandler{}
}

// MoveHandler runs a MoveTask
type MoveHandler struct {
	unit        *unit.Unit
	destination shared.Vector3
	finished    bool
	ended       bool
}

func (h *MoveHandler) StartTask(ctx Context, input Input) error {
	in, err := startArgs(ctx, input, func(in MoveInput) *unit.Unit { return in.Unit }, "unit")
	if err != nil {
		return err
	}
	pc, ok := ctx.(PositionContext)
	if !ok {
		return shared.NewInvalidArgumentError("context", "move requires a position")
	}

	h.unit = in.Unit
	h.destination = pc.Position
	if h.unit.Movement() == nil {
		h.finished = true
		return nil
	}
	h.unit.Movement().SetDestination(h.destination)
	return nil
}

func (h *MoveHandler) UpdateTask(deltaTime float64) {
	if h.finished {
		return
	}
	if !h.unit.IsActive() || h.unit.Movement().HasReachedDestination() {
		h.finished = true
	}
}

func (h *MoveHandler) IsFinished() bool { return h.finished }

func (h *MoveHandler) Destination() shared.Vector3 { return h.destination }

func (h *MoveHandler) EndTask() {
	if h.ended {
		return
	}
	h.ended = true
	if !h.finished && h.unit != nil && h.unit.Movement() != nil {
		h.unit.Movement().StopInCurrentPosition()
	}
}
