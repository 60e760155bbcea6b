package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
)

// DefaultFormationSpacing is used when a move command leaves Spacing at 0
const DefaultFormationSpacing = 1.5

// IssueMoveCommand moves units in formation. With AttackMove set, units
// engage enemies they meet on the way and resume the move afterwards.
type IssueMoveCommand struct {
	UnitIDs     []string
	Destination shared.Vector3
	Spacing     float64
	AttackMove  bool
}

// IssueMoveHandler handles the IssueMove command
type IssueMoveHandler struct {
	sim            *simulation.Simulation
	moveTask       task.Task
	attackMoveTask task.Task
}

// NewIssueMoveHandler creates a new IssueMoveHandler
func NewIssueMoveHandler(sim *simulation.Simulation) *IssueMoveHandler {
	return &IssueMoveHandler{
		sim:            sim,
		moveTask:       task.NewMoveTask(),
		attackMoveTask: task.NewMoveAndAttackTask(),
	}
}

// Handle executes the IssueMove command
func (h *IssueMoveHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*IssueMoveCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *IssueMoveCommand")
	}
	if len(cmd.UnitIDs) == 0 {
		return nil, fmt.Errorf("at least one unit must be selected")
	}

	spacing := cmd.Spacing
	if spacing <= 0 {
		spacing = DefaultFormationSpacing
	}

	response := newOrderResponse()
	units := resolveUnits(h.sim, cmd.UnitIDs, response)
	positions := task.FormationPositions(cmd.Destination, len(units), spacing)

	for i, u := range units {
		taskCtx := task.PositionContext{Position: positions[i]}
		var job *simulation.Job
		var err error
		if cmd.AttackMove {
			job, err = h.sim.Scheduler().Assign(u, "attack-move", h.attackMoveTask, taskCtx, task.AttackInput{Attacker: u, Combat: h.sim.World().Combat()})
		} else {
			job, err = h.sim.Scheduler().Assign(u, "move", h.moveTask, taskCtx, task.MoveInput{Unit: u})
		}
		response.add(u, job, err)
	}

	common.LoggerFromContext(ctx).Log(shared.LevelInfo, "move issued", map[string]interface{}{
		"destination": cmd.Destination.String(),
		"assigned":    len(response.Assigned),
		"rejected":    len(response.Rejected),
		"attack_move": cmd.AttackMove,
	})
	return response, nil
}
