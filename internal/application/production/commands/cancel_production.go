package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// CancelProductionCommand cancels one queue entry, or the whole queue when
// Index is nil
type CancelProductionCommand struct {
	ProducerID string
	Index      *int
}

// CancelProductionResponse holds the refund, one entry per resource
type CancelProductionResponse struct {
	Refund []shared.ResourceQuantity
}

// CancelProductionHandler handles the CancelProduction command
type CancelProductionHandler struct {
	sim *simulation.Simulation
}

// NewCancelProductionHandler creates a new CancelProductionHandler
func NewCancelProductionHandler(sim *simulation.Simulation) *CancelProductionHandler {
	return &CancelProductionHandler{sim: sim}
}

// Handle executes the CancelProduction command
func (h *CancelProductionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelProductionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelProductionCommand")
	}

	ap, err := h.sim.Production(cmd.ProducerID)
	if err != nil {
		return nil, err
	}

	if cmd.Index == nil {
		return &CancelProductionResponse{Refund: ap.CancelProduction()}, nil
	}

	refund, err := ap.CancelProductionOrder(*cmd.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	return &CancelProductionResponse{Refund: refund}, nil
}
