package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// CollectingState is the phase of a ResourceCollectingHandler
type CollectingState string

const (
	CollectingIdle       CollectingState = "IDLE"
	CollectingCollecting CollectingState = "COLLECTING"
	CollectingDepositing CollectingState = "DEPOSITING"
	CollectingFinished   CollectingState = "FINISHED"
)

// ResourceCollectingTask alternates between gathering at nodes and unloading
// at depots until no node is left
type ResourceCollectingTask struct {
	collectTask Task
	depositTask Task
}

func NewResourceCollectingTask(logger shared.Logger) *ResourceCollectingTask {
	return &ResourceCollectingTask{
		collectTask: NewCollectNodeResourceTask(logger),
		depositTask: NewDepositResourceTask(),
	}
}

func (t *ResourceCollectingTask) CanExecuteTask(ctx Context, input Input) bool {
	if !canCollect(ctx, input) {
		return false
	}
	return input.(CollectorInput).Collection != nil
}

func (t *ResourceCollectingTask) CreateHandler() Handler {
	return &ResourceCollectingHandler{
		collectTask: t.collectTask,
		depositTask: t.depositTask,
		state:       CollectingIdle,
	}
}

// ResourceCollectingHandler runs a ResourceCollectingTask.
//
// It owns one sub-handler at a time. lastNodePosition remembers where the
// previous node was so that, after unloading, the next node is searched for
// around the old gathering spot instead of around the depot.
type ResourceCollectingHandler struct {
	collectTask Task
	depositTask Task

	input      CollectorInput
	collector  *unit.Unit
	rc         *unit.ResourceCollector
	collection CollectionModule

	state            CollectingState
	sub              Handler
	node             *unit.Unit
	lastNodePosition shared.Vector3

	// awaitingDepot is set while stuck with a load and no depot
	awaitingDepot bool
	// rejectedDepots refused a deposit this trip and are skipped until a
	// deposit lands somewhere
	rejectedDepots map[*unit.Unit]bool
	ended          bool
}

func (h *ResourceCollectingHandler) StartTask(ctx Context, input Input) error {
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

	h.input = in
	h.collector = in.Collector
	h.rc = in.Collector.Collector()
	h.collection = in.Collection
	h.startCollecting(uc.Target)
	return nil
}

func (h *ResourceCollectingHandler) startCollecting(node *unit.Unit) {
	h.node = node
	h.lastNodePosition = node.Position()
	h.awaitingDepot = false

	sub := h.collectTask.CreateHandler()
	if err := sub.StartTask(UnitInteractionContext{Target: node}, h.input); err != nil {
		h.finish()
		return
	}
	h.sub = sub
	h.state = CollectingCollecting
}

func (h *ResourceCollectingHandler) UpdateTask(deltaTime float64) {
	if h.state == CollectingFinished {
		return
	}
	if !h.collector.IsOperational() {
		h.endSub()
		h.finish()
		return
	}
	if h.awaitingDepot {
		h.tryDeposit()
		return
	}

	switch h.state {
	case CollectingCollecting:
		h.sub.UpdateTask(deltaTime)
		if h.sub.IsFinished() {
			h.endSub()
			h.afterCollecting()
		}

	case CollectingDepositing:
		h.sub.UpdateTask(deltaTime)
		if h.sub.IsFinished() {
			deposit := h.sub.(*DepositResourceHandler)
			succeeded := deposit.Succeeded()
			h.endSub()
			if !succeeded {
				h.rejectDepot(deposit.Depot())
			}
			h.afterDepositing(succeeded)
		}
	}
}

func (h *ResourceCollectingHandler) afterCollecting() {
	if !h.rc.IsFull() {
		if found, node := h.findNode(); found {
			h.startCollecting(node)
			return
		}
	}
	if h.rc.IsEmpty() {
		h.finish()
		return
	}
	h.tryDeposit()
}

func (h *ResourceCollectingHandler) afterDepositing(succeeded bool) {
	if !succeeded {
		// load still held or the depot went away: look for another one
		h.tryDeposit()
		return
	}
	h.rejectedDepots = nil
	if h.nodeStillValid() {
		h.startCollecting(h.node)
		return
	}
	if found, node := h.findNode(); found {
		h.startCollecting(node)
		return
	}
	h.finish()
}

// tryDeposit heads for the nearest depot or raises MissingDepot once per
// stuck episode and waits
func (h *ResourceCollectingHandler) tryDeposit() {
	var found bool
	var depot *unit.Unit
	if h.collection != nil {
		found, depot = h.collection.FindNearestDepot(h.collector.Position(), h.rc.CollectedResource().Type)
	}
	if found && depot != nil && !h.rejectedDepots[depot] {
		ctx := UnitInteractionContext{Target: depot}
		if h.depositTask.CanExecuteTask(ctx, h.input) {
			sub := h.depositTask.CreateHandler()
			if err := sub.StartTask(ctx, h.input); err == nil {
				h.sub = sub
				h.state = CollectingDepositing
				h.awaitingDepot = false
				return
			}
		}
	}
	if !h.awaitingDepot {
		h.awaitingDepot = true
		h.rc.MissingDepot.Invoke(h.collector)
	}
}

func (h *ResourceCollectingHandler) rejectDepot(depot *unit.Unit) {
	if depot == nil || !depot.IsActive() {
		return
	}
	if h.rejectedDepots == nil {
		h.rejectedDepots = map[*unit.Unit]bool{}
	}
	h.rejectedDepots[depot] = true
}

// findNode searches around the last node first, then around the collector
func (h *ResourceCollectingHandler) findNode() (bool, *unit.Unit) {
	if h.collection == nil {
		return false, nil
	}
	resource := h.resource()
	if found, node := h.collection.FindNearbyNode(h.lastNodePosition, resource); found && node != nil {
		return true, node
	}
	if found, node := h.collection.FindNearbyNode(h.collector.Position(), resource); found && node != nil {
		return true, node
	}
	return false, nil
}

func (h *ResourceCollectingHandler) resource() shared.ResourceType {
	if h.node != nil && h.node.Node() != nil {
		return h.node.Node().Resource()
	}
	return h.rc.CollectedResource().Type
}

func (h *ResourceCollectingHandler) nodeStillValid() bool {
	return h.node != nil && h.node.Node().IsAvailable()
}

func (h *ResourceCollectingHandler) endSub() {
	if h.sub != nil {
		h.sub.EndTask()
		h.sub = nil
	}
}

func (h *ResourceCollectingHandler) finish() {
	h.awaitingDepot = false
	h.state = CollectingFinished
}

func (h *ResourceCollectingHandler) IsFinished() bool      { return h.state == CollectingFinished }
func (h *ResourceCollectingHandler) State() CollectingState { return h.state }
func (h *ResourceCollectingHandler) IsAwaitingDepot() bool  { return h.awaitingDepot }
func (h *ResourceCollectingHandler) Node() *unit.Unit       { return h.node }

func (h *ResourceCollectingHandler) LastNodePosition() shared.Vector3 {
	return h.lastNodePosition
}

func (h *ResourceCollectingHandler) EndTask() {
	if h.ended {
		return
	}
	h.ended = true
	h.endSub()
}
