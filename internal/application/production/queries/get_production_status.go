package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/production"
)

// GetProductionStatusQuery reports a producer's queue and stash
type GetProductionStatusQuery struct {
	ProducerID string
}

// OrderDTO is one queue or stash entry
type OrderDTO struct {
	ProducibleID string
	Kind         string
	Quantity     int
}

// GetProductionStatusResponse represents a producer's production state.
// Progress is -1 when the queue is empty.
type GetProductionStatusResponse struct {
	ProducerID    string
	PlayerID      int
	Orders        []OrderDTO
	Progress      float64
	RemainingTime float64
	Stash         []OrderDTO
}

// GetProductionStatusHandler handles the GetProductionStatus query
type GetProductionStatusHandler struct {
	sim *simulation.Simulation
}

// NewGetProductionStatusHandler creates a new GetProductionStatusHandler
func NewGetProductionStatusHandler(sim *simulation.Simulation) *GetProductionStatusHandler {
	return &GetProductionStatusHandler{sim: sim}
}

// Handle executes the GetProductionStatus query
func (h *GetProductionStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetProductionStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetProductionStatusQuery")
	}

	ap, err := h.sim.Production(query.ProducerID)
	if err != nil {
		return nil, err
	}

	return &GetProductionStatusResponse{
		ProducerID:    query.ProducerID,
		PlayerID:      ap.Owner().ID().Value(),
		Orders:        toDTOs(ap.Orders()),
		Progress:      ap.Progress(),
		RemainingTime: ap.Queue().RemainingTime(),
		Stash:         toDTOs(ap.Stash()),
	}, nil
}

func toDTOs(orders []production.ProductionOrder) []OrderDTO {
	dtos := make([]OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = OrderDTO{
			ProducibleID: o.Producible.ID,
			Kind:         string(o.Producible.Kind),
			Quantity:     o.Quantity,
		}
	}
	return dtos
}
