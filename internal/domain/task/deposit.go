package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// DepositResourceTask carries a collector's load to a depot
type DepositResourceTask struct{}

func NewDepositResourceTask() *DepositResourceTask {
	return &DepositResourceTask{}
}

func (t *DepositResourceTask) CanExecuteTask(ctx Context, input Input) bool {
	uc, ok := targetOf(ctx)
	if !ok || uc.IsHostile || !uc.Target.IsActive() || uc.Target.Depot() == nil {
		return false
	}
	in, ok := input.(CollectorInput)
	if !ok || !in.Collector.IsOperational() || in.Collector.Collector() == nil || in.Collector.Movement() == nil {
		return false
	}
	rc := in.Collector.Collector()
	return !rc.IsEmpty() && uc.Target.Depot().Accepts(rc.CollectedResource().Type)
}

func (t *DepositResourceTask) CreateHandler() Handler {
	return &DepositResourceHandler{}
}

// DepositResourceHandler runs a DepositResourceTask. Succeeded tells the
// owner whether the load actually reached the depot.
type DepositResourceHandler struct {
	collector *unit.Unit
	depot     *unit.Unit
	succeeded bool
	finished  bool
	ended     bool
}

func (h *DepositResourceHandler) StartTask(ctx Context, input Input) error {
	in, err := startArgs(ctx, input, func(in CollectorInput) *unit.Unit { return in.Collector }, "collector")
	if err != nil {
		return err
	}
	uc, ok := targetOf(ctx)
	if !ok || uc.Target.Depot() == nil {
		return shared.NewInvalidArgumentError("context", "deposit requires a depot")
	}
	if in.Collector.Collector() == nil {
		return shared.NewInvalidArgumentError("collector", "unit has no collector capability")
	}

	h.collector = in.Collector
	h.depot = uc.Target
	if in.Collector.Collector().IsEmpty() {
		h.succeeded = true
		h.finished = true
		return nil
	}
	if in.Collector.Movement() == nil {
		h.finished = true
		return nil
	}
	in.Collector.Movement().SetDestination(h.depot.Position())
	return nil
}

func (h *DepositResourceHandler) UpdateTask(deltaTime float64) {
	if h.finished {
		return
	}
	if !h.collector.IsOperational() || !h.depot.IsActive() {
		h.finished = true
		return
	}
	if !h.collector.Movement().HasReachedDestination() {
		return
	}
	h.succeeded = h.collector.Collector().DepositTo(h.depot)
	h.finished = true
}

func (h *DepositResourceHandler) IsFinished() bool  { return h.finished }
func (h *DepositResourceHandler) Succeeded() bool   { return h.succeeded }
func (h *DepositResourceHandler) Depot() *unit.Unit { return h.depot }

func (h *DepositResourceHandler) EndTask() {
	h.ended = true
}
