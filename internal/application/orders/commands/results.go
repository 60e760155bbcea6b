package commands

import (
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// OrderResponse reports which units accepted an order
type OrderResponse struct {
	Assigned []string
	// Finished lists units whose task completed during StartTask
	Finished []string
	Rejected map[string]string
}

func newOrderResponse() *OrderResponse {
	return &OrderResponse{Rejected: make(map[string]string)}
}

func (r *OrderResponse) add(u *unit.Unit, job *simulation.Job, err error) {
	switch {
	case err != nil:
		r.Rejected[u.ID()] = err.Error()
	case job.Handler().IsFinished():
		r.Finished = append(r.Finished, u.ID())
	default:
		r.Assigned = append(r.Assigned, u.ID())
	}
}

// resolveUnits looks every ID up, rejecting unknown ones
func resolveUnits(sim *simulation.Simulation, ids []string, response *OrderResponse) []*unit.Unit {
	units := make([]*unit.Unit, 0, len(ids))
	for _, id := range ids {
		u, err := sim.Unit(id)
		if err != nil {
			response.Rejected[id] = err.Error()
			continue
		}
		units = append(units, u)
	}
	return units
}
