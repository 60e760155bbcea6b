package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// IssueAttackCommand orders units to attack one target. Mobile units chase
// it; immobile ones attack only while it is in range.
type IssueAttackCommand struct {
	UnitIDs  []string
	TargetID string
}

// IssueAttackHandler handles the IssueAttack command
type IssueAttackHandler struct {
	sim        *simulation.Simulation
	chase      task.Task
	stationary task.Task
}

// NewIssueAttackHandler creates a new IssueAttackHandler
func NewIssueAttackHandler(sim *simulation.Simulation) *IssueAttackHandler {
	return &IssueAttackHandler{
		sim:        sim,
		chase:      task.NewAttackTargetTask(),
		stationary: task.NewStationaryAttackTargetTask(),
	}
}

// Handle executes the IssueAttack command
func (h *IssueAttackHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*IssueAttackCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *IssueAttackCommand")
	}

	target, err := h.sim.Unit(cmd.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find target: %w", err)
	}

	response := newOrderResponse()
	taskCtx := task.UnitInteractionContext{Target: target, IsHostile: true}
	for _, u := range resolveUnits(h.sim, cmd.UnitIDs, response) {
		input := task.AttackInput{Attacker: u, Combat: h.sim.World().Combat()}
		t, name := h.taskFor(u)
		job, err := h.sim.Scheduler().Assign(u, name, t, taskCtx, input)
		response.add(u, job, err)
	}

	common.LoggerFromContext(ctx).Log(shared.LevelInfo, "attack issued", map[string]interface{}{
		"target_id": target.ID(),
		"assigned":  len(response.Assigned),
		"rejected":  len(response.Rejected),
	})
	return response, nil
}

func (h *IssueAttackHandler) taskFor(u *unit.Unit) (task.Task, string) {
	if u.Movement() != nil {
		return h.chase, "attack"
	}
	return h.stationary, "stationary-attack"
}
