package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/selection"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// SelectUnitsQuery selects active units with a filter expression, e.g.
// "Owner == 1 && IsCollector && Carrying == 0"
type SelectUnitsQuery struct {
	Expression string
	// IncludeInactive also returns destroyed or deactivated units
	IncludeInactive bool
}

// SelectUnitsResponse lists the matching units
type SelectUnitsResponse struct {
	Units []selection.UnitView
}

// IDs returns the IDs of the selected units in order
func (r *SelectUnitsResponse) IDs() []string {
	ids := make([]string, len(r.Units))
	for i, u := range r.Units {
		ids[i] = u.ID
	}
	return ids
}

// SelectUnitsHandler handles the SelectUnits query
type SelectUnitsHandler struct {
	sim *simulation.Simulation
}

// NewSelectUnitsHandler creates a new SelectUnitsHandler
func NewSelectUnitsHandler(sim *simulation.Simulation) *SelectUnitsHandler {
	return &SelectUnitsHandler{sim: sim}
}

// Handle executes the SelectUnits query
func (h *SelectUnitsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*SelectUnitsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SelectUnitsQuery")
	}

	var filter selection.Filter = selection.And()
	if query.Expression != "" {
		compiled, err := selection.Compile(query.Expression)
		if err != nil {
			return nil, err
		}
		filter = compiled
	}
	if !query.IncludeInactive {
		filter = selection.And(selection.FilterFunc((*unit.Unit).IsActive), filter)
	}

	selected, err := selection.Select(h.sim.World().Units(), filter)
	if err != nil {
		return nil, err
	}

	views := make([]selection.UnitView, len(selected))
	for i, u := range selected {
		views[i] = selection.ViewOf(u)
	}
	return &SelectUnitsResponse{Units: views}, nil
}
