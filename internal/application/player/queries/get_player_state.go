package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
)

// GetPlayerStateQuery fetches a player's stockpile, population and research
type GetPlayerStateQuery struct {
	PlayerID int
}

// GetPlayerStateResponse represents a player's current state
type GetPlayerStateResponse struct {
	Snapshot    player.Snapshot
	Producers   int
	RunningJobs int
}

// GetPlayerStateHandler handles the GetPlayerState query
type GetPlayerStateHandler struct {
	sim *simulation.Simulation
}

// NewGetPlayerStateHandler creates a new GetPlayerStateHandler
func NewGetPlayerStateHandler(sim *simulation.Simulation) *GetPlayerStateHandler {
	return &GetPlayerStateHandler{sim: sim}
}

// Handle executes the GetPlayerState query
func (h *GetPlayerStateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetPlayerStateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPlayerStateQuery")
	}

	p, err := h.sim.Player(query.PlayerID)
	if err != nil {
		return nil, err
	}
	module, err := h.sim.Module(query.PlayerID)
	if err != nil {
		return nil, err
	}

	running := 0
	for _, job := range h.sim.Scheduler().Jobs() {
		if job.Unit().Owner().Equals(p.ID()) {
			running++
		}
	}

	return &GetPlayerStateResponse{
		Snapshot:    p.Snapshot(h.sim.Clock().Ticks()),
		Producers:   len(module.Producers()),
		RunningJobs: running,
	}, nil
}
