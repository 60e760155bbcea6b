package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/skirmish-go/internal/adapters/world"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	orderCommands "github.com/andrescamacho/skirmish-go/internal/application/orders/commands"
	"github.com/andrescamacho/skirmish-go/internal/application/setup"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	simulationCommands "github.com/andrescamacho/skirmish-go/internal/application/simulation/commands"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/cucumber/godog"
)

type attackMoveContext struct {
	registry  *world.Registry
	sim       *simulation.Simulation
	mediator  common.Mediator
	ctx       context.Context
	lastOrder *orderCommands.OrderResponse
}

func (ac *attackMoveContext) reset() {
	ac.registry = nil
	ac.sim = nil
	ac.mediator = nil
	ac.ctx = context.Background()
	ac.lastOrder = nil
}

func soldierTemplate(speed float64) unit.Template {
	return unit.Template{
		Name:       "soldier",
		Population: 1,
		Speed:      speed,
		Health:     &unit.HealthStats{Max: 100},
		Attack: &unit.AttackStats{
			Damage:             12,
			MaxRange:           5,
			LineOfSight:        8,
			ReloadTime:         1,
			RangeCheckInterval: 0.5,
		},
	}
}

func (ac *attackMoveContext) place(id string, owner int, position shared.Vector3, template unit.Template) error {
	u, err := ac.registry.UnitFactory().CreateUnitWithID(id, template, shared.MustNewPlayerID(owner), position)
	if err != nil {
		return err
	}
	return ac.sim.AddUnit(u)
}

func (ac *attackMoveContext) unit(id string) (*unit.Unit, error) {
	return ac.sim.Unit(id)
}

func (ac *attackMoveContext) handler(id string) (*task.MoveAndAttackHandler, error) {
	job, ok := ac.sim.Scheduler().Job(id)
	if !ok {
		return nil, fmt.Errorf("%s has no running task", id)
	}
	h, ok := job.Handler().(*task.MoveAndAttackHandler)
	if !ok {
		return nil, fmt.Errorf("%s runs %s, not an attack-move", id, job.Name())
	}
	return h, nil
}

// Given steps

func (ac *attackMoveContext) aMatchBetweenPlayerAndPlayer(first, second int) error {
	ac.registry = world.NewRegistry(0)
	sim, err := simulation.NewSimulation(ac.registry, shared.NewSimulationClock(time.Time{}), nil, nil)
	if err != nil {
		return err
	}
	for _, id := range []int{first, second} {
		p, err := player.NewPlayer(shared.MustNewPlayerID(id), fmt.Sprintf("player-%d", id), 0)
		if err != nil {
			return err
		}
		if err := sim.AddPlayer(p); err != nil {
			return err
		}
	}
	mediator, err := setup.NewHandlerRegistry(sim).CreateConfiguredMediator()
	if err != nil {
		return err
	}
	ac.sim = sim
	ac.mediator = mediator
	return nil
}

func (ac *attackMoveContext) aSoldierOfPlayerAtWithSpeed(id string, owner int, x, y, z float64, speed float64) error {
	return ac.place(id, owner, shared.NewVector3(x, y, z), soldierTemplate(speed))
}

func (ac *attackMoveContext) aStationarySoldierOfPlayerIsPlacedAt(id string, owner int, x, y, z float64) error {
	return ac.place(id, owner, shared.NewVector3(x, y, z), soldierTemplate(0))
}

func (ac *attackMoveContext) aWorkerOfPlayerAt(id string, owner int, x, y, z float64) error {
	return ac.place(id, owner, shared.NewVector3(x, y, z), unit.Template{
		Name:       "worker",
		Population: 1,
		Speed:      1,
		Health:     &unit.HealthStats{Max: 20},
		Collector:  &unit.CollectorStats{Capacity: 5, CollectInterval: 1},
	})
}

func (ac *attackMoveContext) isOrderedToAttackMoveTo(id string, x, y, z float64) error {
	resp, err := ac.mediator.Send(ac.ctx, &orderCommands.IssueMoveCommand{
		UnitIDs:     []string{id},
		Destination: shared.NewVector3(x, y, z),
		AttackMove:  true,
	})
	if err != nil {
		return err
	}
	order, ok := resp.(*orderCommands.OrderResponse)
	if !ok {
		return fmt.Errorf("invalid response type: expected *OrderResponse")
	}
	ac.lastOrder = order
	return nil
}

// When steps

func (ac *attackMoveContext) ticksPass(ticks int) error {
	_, err := ac.mediator.Send(ac.ctx, &simulationCommands.AdvanceSimulationCommand{Ticks: ticks, DeltaTime: 1})
	return err
}

func (ac *attackMoveContext) isDestroyed(id string) error {
	u, err := ac.unit(id)
	if err != nil {
		return err
	}
	u.Destroy()
	return nil
}

// Then steps

func (ac *attackMoveContext) shouldBeInState(id, state string) error {
	h, err := ac.handler(id)
	if err != nil {
		return err
	}
	if string(h.State()) != state {
		return fmt.Errorf("expected %s to be %s, got %s", id, state, h.State())
	}
	return nil
}

func (ac *attackMoveContext) shouldBeTargeting(id, targetID string) error {
	h, err := ac.handler(id)
	if err != nil {
		return err
	}
	target := h.CurrentTarget()
	if target == nil || target.ID() != targetID {
		return fmt.Errorf("expected %s to target %s, got %v", id, targetID, target)
	}
	return nil
}

func (ac *attackMoveContext) shouldHaveLessThanHealth(id string, limit int) error {
	u, err := ac.unit(id)
	if err != nil {
		return err
	}
	if current := u.Health().Current(); current >= limit {
		return fmt.Errorf("expected %s below %d health, got %d", id, limit, current)
	}
	return nil
}

func (ac *attackMoveContext) shouldHaveHealth(id string, expected int) error {
	u, err := ac.unit(id)
	if err != nil {
		return err
	}
	if current := u.Health().Current(); current != expected {
		return fmt.Errorf("expected %s to have %d health, got %d", id, expected, current)
	}
	return nil
}

func (ac *attackMoveContext) shouldBeHeadingTo(id string, x, y, z float64) error {
	u, err := ac.unit(id)
	if err != nil {
		return err
	}
	mover, ok := u.Movement().(*world.LinearMover)
	if !ok {
		return fmt.Errorf("%s has no linear mover", id)
	}
	want := shared.NewVector3(x, y, z)
	if !mover.IsMoving() || mover.Destination() != want {
		return fmt.Errorf("expected %s heading to %s, got %s (moving=%t)", id, want, mover.Destination(), mover.IsMoving())
	}
	return nil
}

func (ac *attackMoveContext) shouldHaveNoTask(id string) error {
	if job, ok := ac.sim.Scheduler().Job(id); ok {
		return fmt.Errorf("expected %s to be idle, still running %s", id, job.Name())
	}
	return nil
}

func (ac *attackMoveContext) shouldBeAt(id string, x, y, z float64) error {
	u, err := ac.unit(id)
	if err != nil {
		return err
	}
	if want := shared.NewVector3(x, y, z); u.Position().DistanceTo(want) > 1e-6 {
		return fmt.Errorf("expected %s at %s, got %s", id, want, u.Position())
	}
	return nil
}

func (ac *attackMoveContext) theOrderForShouldBeRejected(id string) error {
	if ac.lastOrder == nil {
		return fmt.Errorf("no order was issued")
	}
	if _, ok := ac.lastOrder.Rejected[id]; !ok {
		return fmt.Errorf("expected the order for %s to be rejected, assigned=%v", id, ac.lastOrder.Assigned)
	}
	return nil
}

// InitializeAttackMoveScenario registers attack-move steps
func InitializeAttackMoveScenario(sc *godog.ScenarioContext) {
	ac := &attackMoveContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ac.reset()
		return ctx, nil
	})

	sc.Step(`^a match between player (\d+) and player (\d+)$`, ac.aMatchBetweenPlayerAndPlayer)
	sc.Step(`^a soldier "([^"]*)" of player (\d+) at (-?\d+),(-?\d+),(-?\d+) with speed (\d+(?:\.\d+)?)$`, ac.aSoldierOfPlayerAtWithSpeed)
	sc.Step(`^a stationary soldier "([^"]*)" of player (\d+) is placed at (-?\d+),(-?\d+),(-?\d+)$`, ac.aStationarySoldierOfPlayerIsPlacedAt)
	sc.Step(`^a worker "([^"]*)" of player (\d+) at (-?\d+),(-?\d+),(-?\d+)$`, ac.aWorkerOfPlayerAt)
	sc.Step(`^"([^"]*)" is ordered to attack-move to (-?\d+),(-?\d+),(-?\d+)$`, ac.isOrderedToAttackMoveTo)

	sc.Step(`^(\d+) ticks? pass(?:es)?$`, ac.ticksPass)
	sc.Step(`^"([^"]*)" is destroyed$`, ac.isDestroyed)

	sc.Step(`^"([^"]*)" should be (IDLE|MOVING|ATTACKING|FINISHED)$`, ac.shouldBeInState)
	sc.Step(`^"([^"]*)" should be targeting "([^"]*)"$`, ac.shouldBeTargeting)
	sc.Step(`^"([^"]*)" should have less than (\d+) health$`, ac.shouldHaveLessThanHealth)
	sc.Step(`^"([^"]*)" should have (\d+) health$`, ac.shouldHaveHealth)
	sc.Step(`^"([^"]*)" should be heading to (-?\d+),(-?\d+),(-?\d+)$`, ac.shouldBeHeadingTo)
	sc.Step(`^"([^"]*)" should have no task$`, ac.shouldHaveNoTask)
	sc.Step(`^"([^"]*)" should be at (-?\d+),(-?\d+),(-?\d+)$`, ac.shouldBeAt)
	sc.Step(`^the order for "([^"]*)" should be rejected$`, ac.theOrderForShouldBeRejected)
}
