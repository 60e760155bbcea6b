package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/production"
)

// ClaimStashCommand hands stashed items to the owner. A nil Index claims
// everything.
type ClaimStashCommand struct {
	ProducerID string
	Index      *int
}

// ClaimStashResponse lists what was claimed
type ClaimStashResponse struct {
	Claimed []production.ProductionOrder
}

// ClaimStashHandler handles the ClaimStash command
type ClaimStashHandler struct {
	sim *simulation.Simulation
}

// NewClaimStashHandler creates a new ClaimStashHandler
func NewClaimStashHandler(sim *simulation.Simulation) *ClaimStashHandler {
	return &ClaimStashHandler{sim: sim}
}

// Handle executes the ClaimStash command
func (h *ClaimStashHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ClaimStashCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ClaimStashCommand")
	}

	ap, err := h.sim.Production(cmd.ProducerID)
	if err != nil {
		return nil, err
	}

	if cmd.Index == nil {
		return &ClaimStashResponse{Claimed: ap.ClaimAll()}, nil
	}

	claimed, err := ap.ClaimStash(*cmd.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to claim stash: %w", err)
	}
	return &ClaimStashResponse{Claimed: []production.ProductionOrder{claimed}}, nil
}
