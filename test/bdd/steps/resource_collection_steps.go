package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andrescamacho/skirmish-go/internal/adapters/world"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/cucumber/godog"
)

type resourceCollectionContext struct {
	registry  *world.Registry
	owner     *player.Player
	node      *unit.Unit
	collector *unit.Unit
	start     shared.Vector3
	handler   task.Handler
}

func (rc *resourceCollectionContext) reset() error {
	rc.registry = world.NewRegistry(0)
	owner, err := player.NewPlayer(shared.MustNewPlayerID(1), "red", 0)
	if err != nil {
		return err
	}
	rc.owner = owner
	rc.node = nil
	rc.collector = nil
	rc.handler = nil
	return nil
}

func (rc *resourceCollectionContext) place(id string, owner shared.PlayerID, position shared.Vector3, template unit.Template) (*unit.Unit, error) {
	u, err := rc.registry.UnitFactory().CreateUnitWithID(id, template, owner, position)
	if err != nil {
		return nil, err
	}
	if err := rc.registry.AddUnit(u); err != nil {
		return nil, err
	}
	if !owner.IsNeutral() {
		rc.owner.RegisterUnit(u)
	}
	return u, nil
}

func collectorTemplate(collectType unit.CollectType, capacity int, interval float64) unit.Template {
	return unit.Template{
		Name:       "worker",
		Population: 1,
		Speed:      1,
		Health:     &unit.HealthStats{Max: 20},
		Collector:  &unit.CollectorStats{Capacity: capacity, CollectInterval: interval, CollectType: collectType},
	}
}

// Given steps

func (rc *resourceCollectionContext) aNodeWithUnitsAtAllowingCollectors(resource string, quantity int, x, y, z float64, maxCollectors int) error {
	node, err := rc.place("node", shared.NeutralPlayer, shared.NewVector3(x, y, z), unit.Template{
		Name: "node",
		Node: &unit.NodeStats{Resource: shared.ResourceType(resource), Quantity: quantity, MaxCollectors: maxCollectors},
	})
	if err != nil {
		return err
	}
	rc.node = node
	return nil
}

func (rc *resourceCollectionContext) anotherCollectorAlreadyOccupiesTheNode() error {
	other, err := rc.place("other", rc.owner.ID(), rc.node.Position(), collectorTemplate(unit.GatherAndDeposit, 5, 1))
	if err != nil {
		return err
	}
	if !rc.node.Node().Assign(other) {
		return fmt.Errorf("node refused the first collector")
	}
	return nil
}

func (rc *resourceCollectionContext) aCollectorWithCapacityAndIntervalAt(collectType string, capacity int, interval string, x, y, z float64) error {
	ct, err := unit.ParseCollectType(collectType)
	if err != nil {
		return err
	}
	seconds, err := strconv.ParseFloat(interval, 64)
	if err != nil {
		return err
	}
	rc.start = shared.NewVector3(x, y, z)
	collector, err := rc.place("collector", rc.owner.ID(), rc.start, collectorTemplate(ct, capacity, seconds))
	if err != nil {
		return err
	}
	rc.collector = collector
	return nil
}

// When steps

func (rc *resourceCollectionContext) theCollectorStartsCollectingFromTheNode() error {
	collect := task.NewCollectNodeResourceTask(nil)
	ctx := task.UnitInteractionContext{Target: rc.node}
	input := task.CollectorInput{Collector: rc.collector, Collection: rc.registry.Collection(rc.owner.ID())}
	rc.handler = collect.CreateHandler()
	return rc.handler.StartTask(ctx, input)
}

func (rc *resourceCollectionContext) secondsOfCollectionPass(seconds string) error {
	delta, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return err
	}
	rc.registry.Update(delta)
	rc.handler.UpdateTask(delta)
	return nil
}

// Then steps

func (rc *resourceCollectionContext) theOwnerShouldHave(quantity int, resource string) error {
	if got := rc.owner.Resource(shared.ResourceType(resource)); got != quantity {
		return fmt.Errorf("expected owner to have %d %s, got %d", quantity, resource, got)
	}
	return nil
}

func (rc *resourceCollectionContext) theCollectorShouldCarryNothing() error {
	if carried := rc.collector.Collector().CollectedResource(); carried.Quantity != 0 {
		return fmt.Errorf("expected an empty collector, carrying %s", carried)
	}
	return nil
}

func (rc *resourceCollectionContext) theCollectorShouldCarry(quantity int, resource string) error {
	carried := rc.collector.Collector().CollectedResource()
	if carried.Quantity != quantity || carried.Type != shared.ResourceType(resource) {
		return fmt.Errorf("expected collector to carry %d %s, got %s", quantity, resource, carried)
	}
	return nil
}

func (rc *resourceCollectionContext) theNodeShouldHaveUnitsLeft(quantity int) error {
	if got := rc.node.Node().Remaining(); got != quantity {
		return fmt.Errorf("expected %d units left, got %d", quantity, got)
	}
	return nil
}

func (rc *resourceCollectionContext) theCollectionTaskShouldBeFinished() error {
	if !rc.handler.IsFinished() {
		return fmt.Errorf("expected the collection task to be finished")
	}
	return nil
}

func (rc *resourceCollectionContext) theCollectionTaskShouldNotBeFinished() error {
	if rc.handler.IsFinished() {
		return fmt.Errorf("expected the collection task to still run")
	}
	return nil
}

func (rc *resourceCollectionContext) theCollectorShouldNotHaveBeenSentAnywhere() error {
	mover, ok := rc.collector.Movement().(*world.LinearMover)
	if !ok {
		return fmt.Errorf("collector has no linear mover")
	}
	if mover.IsMoving() || mover.Destination() != rc.start {
		return fmt.Errorf("expected no movement order, collector is headed to %s", mover.Destination())
	}
	return nil
}

// InitializeResourceCollectionScenario registers resource collection steps
func InitializeResourceCollectionScenario(sc *godog.ScenarioContext) {
	rc := &resourceCollectionContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, rc.reset()
	})

	sc.Step(`^a "([^"]*)" node with (\d+) units at (-?\d+),(-?\d+),(-?\d+) allowing (\d+) collectors?$`, rc.aNodeWithUnitsAtAllowingCollectors)
	sc.Step(`^another collector already occupies the node$`, rc.anotherCollectorAlreadyOccupiesTheNode)
	sc.Step(`^a (GATHER_AND_DEPOSIT|REALTIME_COLLECT|STACK_AND_COLLECT) collector with capacity (\d+) and interval (\d+(?:\.\d+)?) at (-?\d+),(-?\d+),(-?\d+)$`, rc.aCollectorWithCapacityAndIntervalAt)

	sc.Step(`^the collector starts collecting from the node$`, rc.theCollectorStartsCollectingFromTheNode)
	sc.Step(`^(\d+(?:\.\d+)?) seconds? of collection pass(?:es)?$`, rc.secondsOfCollectionPass)

	sc.Step(`^the owner should have (\d+) "([^"]*)"$`, rc.theOwnerShouldHave)
	sc.Step(`^the collector should carry nothing$`, rc.theCollectorShouldCarryNothing)
	sc.Step(`^the collector should carry (\d+) "([^"]*)"$`, rc.theCollectorShouldCarry)
	sc.Step(`^the node should have (\d+) units left$`, rc.theNodeShouldHaveUnitsLeft)
	sc.Step(`^the collection task should be finished$`, rc.theCollectionTaskShouldBeFinished)
	sc.Step(`^the collection task should not be finished$`, rc.theCollectionTaskShouldNotBeFinished)
	sc.Step(`^the collector should not have been sent anywhere$`, rc.theCollectorShouldNotHaveBeenSentAnywhere)
}
