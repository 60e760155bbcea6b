package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// canCollect holds the checks shared by the collection tasks
func canCollect(ctx Context, input Input) bool {
	uc, ok := targetOf(ctx)
	if !ok || uc.IsHostile {
		return false
	}
	in, ok := input.(CollectorInput)
	if !ok || !in.Collector.IsOperational() {
		return false
	}
	if in.Collector.Collector() == nil || in.Collector.Movement() == nil {
		return false
	}
	node := uc.Target.Node()
	if node == nil || !node.IsAvailable() {
		return false
	}
	return true
}

// CollectNodeResourceTask sends a collector to one node and gathers from it
type CollectNodeResourceTask struct {
	logger shared.Logger
}

func NewCollectNodeResourceTask(logger shared.Logger) *CollectNodeResourceTask {
	return &CollectNodeResourceTask{logger: shared.LoggerOrNoOp(logger)}
}

func (t *CollectNodeResourceTask) CanExecuteTask(ctx Context, input Input) bool {
	return canCollect(ctx, input)
}

func (t *CollectNodeResourceTask) CreateHandler() Handler {
	return &CollectNodeResourceHandler{logger: t.logger}
}

// CollectNodeResourceHandler runs a CollectNodeResourceTask.
//
// Resources are integral: progress accumulates by deltaTime and one unit is
// collected every time it crosses CollectInterval.
type CollectNodeResourceHandler struct {
	logger shared.Logger

	collector *unit.Unit
	rc        *unit.ResourceCollector
	node      *unit.Unit

	assigned   bool
	collecting bool
	progress   float64
	finished   bool
	ended      bool
}

func (h *CollectNodeResourceHandler) StartTask(ctx Context, input Input) error {
	in, err := startArgs(ctx, input, func(in CollectorInput) *unit.Unit { return in.Collector }, "collector")
	if err != nil {
		return err
	}
	uc, ok := targetOf(ctx)
	if !ok || uc.Target.Node() == nil {
		return shared.NewInvalidArgumentError("context", "collection requires a resource node")
	}
	if in.Collector.Collector() == nil {
		return shared.NewInvalidArgumentError("collector", "unit has no collector capability")
	}

	h.collector = in.Collector
	h.rc = in.Collector.Collector()
	h.node = uc.Target
	h.goCollect()
	return nil
}

// goCollect decides whether the trip is needed at all
func (h *CollectNodeResourceHandler) goCollect() {
	resource := h.node.Node().Resource()
	if !h.rc.IsEmpty() && !h.rc.Holds(resource) {
		h.rc.Clear()
	}
	if h.rc.IsFull() {
		h.finished = true
		return
	}
	h.moveToNode()
}

// moveToNode claims a slot before any movement is issued
func (h *CollectNodeResourceHandler) moveToNode() {
	node := h.node.Node()
	if !node.IsAssigned(h.collector) {
		if !node.Assign(h.collector) {
			h.finished = true
			return
		}
		h.assigned = true
	}
	if h.collector.Movement() == nil {
		h.logger.Log(shared.LevelWarning, "collector has no movement", map[string]interface{}{
			"unit_id": h.collector.ID(),
		})
		h.finished = true
		return
	}
	h.collector.Movement().SetDestination(h.node.Position())
}

func (h *CollectNodeResourceHandler) nodeValid() bool {
	return h.node.IsActive() && !h.node.Node().IsDepleted()
}

func (h *CollectNodeResourceHandler) UpdateTask(deltaTime float64) {
	if h.finished {
		return
	}
	if !h.collector.IsOperational() {
		h.finished = true
		return
	}
	if !h.nodeValid() {
		h.finishOnInvalidNode()
		return
	}

	if !h.collecting {
		if h.collector.Movement().HasReachedDestination() {
			h.collecting = true
			h.progress = 0
			h.rc.CollectingStarted.Invoke(h.collectionEvent())
		}
		return
	}

	interval := h.rc.CollectInterval()
	h.progress += deltaTime
	for !h.finished && h.progress+shared.TimeEpsilon >= interval {
		h.progress -= interval
		h.collectOnce()
	}
}

func (h *CollectNodeResourceHandler) collectOnce() {
	if !h.rc.CollectFrom(h.node) {
		if !h.nodeValid() {
			h.finishOnInvalidNode()
		} else {
			h.finishCollecting()
		}
		return
	}

	switch h.rc.CollectType() {
	case unit.GatherAndDeposit:
		if h.rc.IsFull() {
			h.finishCollecting()
		}
	case unit.RealtimeCollect:
		h.depositToOwner()
	case unit.StackAndCollect:
		if h.rc.IsFull() {
			h.depositToOwner()
		}
	}
}

func (h *CollectNodeResourceHandler) depositToOwner() {
	if !h.rc.DepositToOwner() {
		h.logger.Log(shared.LevelWarning, "collector owner has no resource account", map[string]interface{}{
			"unit_id": h.collector.ID(),
			"owner":   h.collector.Owner().String(),
		})
	}
}

func (h *CollectNodeResourceHandler) finishCollecting() {
	if h.collecting {
		h.collecting = false
		h.rc.CollectingFinished.Invoke(h.collectionEvent())
	}
	h.finished = true
}

// finishOnInvalidNode ends the run after the node went away. A collector with
// nothing to carry (or one that never stockpiles) stops where it is; a loaded
// collector just reports completion so its owner can send it to a depot.
func (h *CollectNodeResourceHandler) finishOnInvalidNode() {
	h.finishCollecting()
	if h.rc.IsEmpty() || h.rc.CollectType() == unit.RealtimeCollect {
		h.collector.Movement().StopInCurrentPosition()
	}
}

func (h *CollectNodeResourceHandler) collectionEvent() unit.CollectionEvent {
	return unit.CollectionEvent{
		Collector: h.collector,
		Node:      h.node,
		Resource:  h.rc.CollectedResource(),
	}
}

func (h *CollectNodeResourceHandler) IsFinished() bool   { return h.finished }
func (h *CollectNodeResourceHandler) IsCollecting() bool { return h.collecting }
func (h *CollectNodeResourceHandler) Node() *unit.Unit   { return h.node }
func (h *CollectNodeResourceHandler) Progress() float64  { return h.progress }

func (h *CollectNodeResourceHandler) EndTask() {
	if h.ended {
		return
	}
	h.ended = true
	if h.collector == nil {
		return
	}
	if h.collecting {
		h.finishCollecting()
	}
	if h.assigned {
		h.node.Node().Unassign(h.collector)
		h.assigned = false
	}
}
