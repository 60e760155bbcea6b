package scenario

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	orderCommands "github.com/andrescamacho/skirmish-go/internal/application/orders/commands"
	productionCommands "github.com/andrescamacho/skirmish-go/internal/application/production/commands"
	selectionQueries "github.com/andrescamacho/skirmish-go/internal/application/selection/queries"
)

// ScheduledRequest is a mediator request due before a given tick
type ScheduledRequest struct {
	AtTick  int64
	Type    string
	Select  string
	Request common.Request
}

// Timeline converts the orders into mediator requests, stable-sorted by tick
func (s *Scenario) Timeline() ([]ScheduledRequest, error) {
	timeline := make([]ScheduledRequest, 0, len(s.Orders))
	for i, o := range s.Orders {
		req, err := o.Request()
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		timeline = append(timeline, ScheduledRequest{AtTick: o.AtTick, Type: o.Type, Select: o.Select, Request: req})
	}
	sort.SliceStable(timeline, func(i, j int) bool { return timeline[i].AtTick < timeline[j].AtTick })
	return timeline, nil
}

// Request builds the command for one order
func (o OrderSpec) Request() (common.Request, error) {
	switch o.Type {
	case OrderMove, OrderAttackMove:
		if !o.hasUnits() {
			return nil, fmt.Errorf("%s needs units", o.Type)
		}
		return &orderCommands.IssueMoveCommand{
			UnitIDs:     o.Units,
			Destination: o.Position.Vector(),
			Spacing:     o.Spacing,
			AttackMove:  o.Type == OrderAttackMove,
		}, nil
	case OrderAttack:
		if !o.hasUnits() || o.Target == "" {
			return nil, fmt.Errorf("attack needs units and a target")
		}
		return &orderCommands.IssueAttackCommand{UnitIDs: o.Units, TargetID: o.Target}, nil
	case OrderCollect, OrderCollectOne:
		if !o.hasUnits() || o.Target == "" {
			return nil, fmt.Errorf("%s needs units and a target node", o.Type)
		}
		return &orderCommands.IssueCollectCommand{
			UnitIDs: o.Units,
			NodeID:  o.Target,
			Once:    o.Type == OrderCollectOne,
		}, nil
	case OrderQueue:
		if o.Producer == "" || o.Producible == "" {
			return nil, fmt.Errorf("queue needs a producer and a producible")
		}
		quantity := o.Quantity
		if quantity == 0 {
			quantity = 1
		}
		return &productionCommands.QueueProductionCommand{
			ProducerID:   o.Producer,
			ProducibleID: o.Producible,
			Quantity:     quantity,
		}, nil
	case OrderCancel:
		if o.Producer == "" {
			return nil, fmt.Errorf("cancel needs a producer")
		}
		return &productionCommands.CancelProductionCommand{ProducerID: o.Producer, Index: o.Index}, nil
	case OrderClaim:
		if o.Producer == "" {
			return nil, fmt.Errorf("claim needs a producer")
		}
		return &productionCommands.ClaimStashCommand{ProducerID: o.Producer, Index: o.Index}, nil
	default:
		return nil, fmt.Errorf("unknown order type: %s", o.Type)
	}
}

func (o OrderSpec) hasUnits() bool {
	return len(o.Units) > 0 || o.Select != ""
}

// Dispatch resolves the selection, if any, and sends the request
func (r ScheduledRequest) Dispatch(ctx context.Context, m common.Mediator) (common.Response, error) {
	req := r.Request
	if r.Select != "" {
		resp, err := m.Send(ctx, &selectionQueries.SelectUnitsQuery{Expression: r.Select})
		if err != nil {
			return nil, fmt.Errorf("failed to select units: %w", err)
		}
		selected, ok := resp.(*selectionQueries.SelectUnitsResponse)
		if !ok {
			return nil, fmt.Errorf("invalid response type: expected *SelectUnitsResponse")
		}
		req = withUnits(req, selected.IDs())
	}
	return m.Send(ctx, req)
}

// withUnits returns a copy of req with ids appended to its unit list
func withUnits(req common.Request, ids []string) common.Request {
	switch cmd := req.(type) {
	case *orderCommands.IssueMoveCommand:
		c := *cmd
		c.UnitIDs = appendUnique(c.UnitIDs, ids)
		return &c
	case *orderCommands.IssueAttackCommand:
		c := *cmd
		c.UnitIDs = appendUnique(c.UnitIDs, ids)
		return &c
	case *orderCommands.IssueCollectCommand:
		c := *cmd
		c.UnitIDs = appendUnique(c.UnitIDs, ids)
		return &c
	default:
		return req
	}
}

func appendUnique(base, extra []string) []string {
	out := append([]string(nil), base...)
	seen := make(map[string]bool, len(base))
	for _, id := range base {
		seen[id] = true
	}
	for _, id := range extra {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
