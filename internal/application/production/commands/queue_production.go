package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// QueueProductionCommand queues Quantity items on a producer, charging the
// owner up front
type QueueProductionCommand struct {
	ProducerID   string
	ProducibleID string
	Quantity     int
}

// QueueProductionResponse represents the result of queueing production
type QueueProductionResponse struct {
	QueueLength int
	Charged     []shared.ResourceQuantity
}

// QueueProductionHandler handles the QueueProduction command
type QueueProductionHandler struct {
	sim *simulation.Simulation
}

// NewQueueProductionHandler creates a new QueueProductionHandler
func NewQueueProductionHandler(sim *simulation.Simulation) *QueueProductionHandler {
	return &QueueProductionHandler{sim: sim}
}

// Handle executes the QueueProduction command
func (h *QueueProductionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*QueueProductionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *QueueProductionCommand")
	}

	ap, err := h.sim.Production(cmd.ProducerID)
	if err != nil {
		return nil, err
	}
	producible, ok := ap.Producible(cmd.ProducibleID)
	if !ok {
		return nil, shared.NewEntityNotFoundError("producible", cmd.ProducibleID)
	}

	quantity := cmd.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if err := ap.QueueProduction(producible, quantity); err != nil {
		return nil, fmt.Errorf("failed to queue %s: %w", producible.ID, err)
	}

	common.LoggerFromContext(ctx).Log(shared.LevelInfo, fmt.Sprintf("queued %d x %s", quantity, producible), map[string]interface{}{
		"producer":  cmd.ProducerID,
		"player_id": ap.Owner().ID().Value(),
	})
	return &QueueProductionResponse{
		QueueLength: ap.Queue().Len(),
		Charged:     shared.MultiplyCost(producible.Cost, quantity),
	}, nil
}
