package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// AdvanceSimulationCommand runs Ticks fixed steps of DeltaTime seconds.
//
// ProductionTurns advances only production by that many turns of DeltaTime,
// in one step per player, leaving units and tasks where they are.
type AdvanceSimulationCommand struct {
	Ticks           int
	DeltaTime       float64
	ProductionTurns int
}

// AdvanceSimulationResponse reports the clock after advancing
type AdvanceSimulationResponse struct {
	Tick        int64
	Elapsed     float64
	RunningJobs int
}

// AdvanceSimulationHandler handles the AdvanceSimulation command
type AdvanceSimulationHandler struct {
	sim *simulation.Simulation
}

// NewAdvanceSimulationHandler creates a new AdvanceSimulationHandler
func NewAdvanceSimulationHandler(sim *simulation.Simulation) *AdvanceSimulationHandler {
	return &AdvanceSimulationHandler{sim: sim}
}

// Handle executes the AdvanceSimulation command
func (h *AdvanceSimulationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AdvanceSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AdvanceSimulationCommand")
	}
	if cmd.DeltaTime <= 0 {
		return nil, shared.NewValidationError("delta_time", "must be positive")
	}
	if cmd.Ticks < 0 || cmd.ProductionTurns < 0 {
		return nil, shared.NewValidationError("ticks", "cannot be negative")
	}

	for _, p := range h.sim.Players() {
		if cmd.ProductionTurns == 0 {
			break
		}
		module, err := h.sim.Module(p.ID().Value())
		if err != nil {
			return nil, err
		}
		module.AdvanceTurns(cmd.ProductionTurns, cmd.DeltaTime)
	}

	h.sim.Run(cmd.Ticks, cmd.DeltaTime)

	return &AdvanceSimulationResponse{
		Tick:        h.sim.Clock().Ticks(),
		Elapsed:     h.sim.Clock().Elapsed(),
		RunningJobs: h.sim.Scheduler().Running(),
	}, nil
}
