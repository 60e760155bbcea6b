package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
)

// IssueCollectCommand sends collectors to a resource node. By default they
// keep cycling between nodes and depots; Once collects a single load.
type IssueCollectCommand struct {
	UnitIDs []string
	NodeID  string
	Once    bool
}

// IssueCollectHandler handles the IssueCollect command
type IssueCollectHandler struct {
	sim     *simulation.Simulation
	cycle   task.Task
	oneLoad task.Task
}

// NewIssueCollectHandler creates a new IssueCollectHandler
func NewIssueCollectHandler(sim *simulation.Simulation) *IssueCollectHandler {
	return &IssueCollectHandler{
		sim:     sim,
		cycle:   task.NewResourceCollectingTask(sim.Logger()),
		oneLoad: task.NewCollectNodeResourceTask(sim.Logger()),
	}
}

// Handle executes the IssueCollect command
func (h *IssueCollectHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*IssueCollectCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *IssueCollectCommand")
	}

	node, err := h.sim.Unit(cmd.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find resource node: %w", err)
	}
	if node.Node() == nil {
		return nil, shared.NewInvalidArgumentError("node_id", fmt.Sprintf("%s is not a resource node", node.ID()))
	}

	t, name := h.cycle, "collect"
	if cmd.Once {
		t, name = h.oneLoad, "collect-once"
	}

	response := newOrderResponse()
	taskCtx := task.UnitInteractionContext{Target: node}
	for _, u := range resolveUnits(h.sim, cmd.UnitIDs, response) {
		input := task.CollectorInput{Collector: u, Collection: h.sim.World().Collection(u.Owner())}
		job, err := h.sim.Scheduler().Assign(u, name, t, taskCtx, input)
		response.add(u, job, err)
	}

	common.LoggerFromContext(ctx).Log(shared.LevelInfo, "collect issued", map[string]interface{}{
		"node_id":  node.ID(),
		"assigned": len(response.Assigned),
		"rejected": len(response.Rejected),
	})
	return response, nil
}
