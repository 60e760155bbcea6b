package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/cucumber/godog"
)

const progressTolerance = 1e-9

type productionQueueContext struct {
	producibles map[string]*production.Producible
	queue       *production.Queue
	finished    []production.ProductionOrder
	holdBack    bool
}

func (pc *productionQueueContext) reset() {
	pc.producibles = make(map[string]*production.Producible)
	pc.queue = nil
	pc.finished = nil
	pc.holdBack = false
}

// ShouldFinishProductionFor implements production.QueueDelegate
func (pc *productionQueueContext) ShouldFinishProductionFor(*production.Producible) bool {
	return !pc.holdBack
}

// Given steps

func (pc *productionQueueContext) aProducibleOfKindTakingSeconds(id, kind, seconds string) error {
	k, err := production.ParseKind(kind)
	if err != nil {
		return err
	}
	duration, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return err
	}
	p := &production.Producible{ID: id, Name: id, Kind: k, Duration: duration}
	switch k {
	case production.KindUnit:
		p.Unit = &unit.Template{Name: id, Population: 1}
	case production.KindResource:
		p.Produces = []shared.ResourceQuantity{shared.NewResourceQuantity(shared.ResourceType(id), 1)}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	pc.producibles[id] = p
	return nil
}

func (pc *productionQueueContext) anEmptyProductionQueue() error {
	pc.queue = production.NewQueue()
	pc.queue.SetDelegate(pc)
	pc.queue.ProductionFinished.Subscribe(func(o production.ProductionOrder) {
		pc.finished = append(pc.finished, o)
	})
	return nil
}

func (pc *productionQueueContext) areQueued(quantity int, id string) error {
	p, ok := pc.producibles[id]
	if !ok {
		return fmt.Errorf("unknown producible %q", id)
	}
	if !pc.queue.AddProductionOrder(p, quantity) {
		return fmt.Errorf("queue rejected %d %s", quantity, id)
	}
	return nil
}

func (pc *productionQueueContext) theDelegateHoldsProductionBack() error {
	pc.holdBack = true
	return nil
}

// When steps

func (pc *productionQueueContext) theDelegateReleasesProduction() error {
	pc.holdBack = false
	return nil
}

func (pc *productionQueueContext) theQueueProducesForSeconds(seconds string) error {
	delta, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return err
	}
	pc.queue.Produce(delta)
	return nil
}

func (pc *productionQueueContext) theOrderAtPositionIsCancelled(index int) error {
	if _, ok := pc.queue.CancelProductionOrder(index); !ok {
		return fmt.Errorf("no order at position %d", index)
	}
	return nil
}

// Then steps

func (pc *productionQueueContext) theProductionProgressShouldBe(expected string) error {
	want, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return err
	}
	got := pc.queue.CurrentProductionProgress()
	if math.Abs(got-want) > progressTolerance {
		return fmt.Errorf("expected progress %v, got %v", want, got)
	}
	return nil
}

func (pc *productionQueueContext) noProductionShouldHaveFinished() error {
	if len(pc.finished) != 0 {
		return fmt.Errorf("expected nothing finished, got %d items", len(pc.finished))
	}
	return nil
}

func (pc *productionQueueContext) shouldHaveFinished(count int, id string) error {
	finished := 0
	for _, o := range pc.finished {
		if o.Quantity != 1 {
			return fmt.Errorf("finished orders must carry quantity 1, got %d", o.Quantity)
		}
		if o.Producible.ID == id {
			finished++
		}
	}
	if finished != count {
		return fmt.Errorf("expected %d %s finished, got %d", count, id, finished)
	}
	return nil
}

func (pc *productionQueueContext) theProductionQueueShouldBeEmpty() error {
	if !pc.queue.IsEmpty() {
		return fmt.Errorf("expected empty queue, got %d orders", pc.queue.Len())
	}
	return nil
}

func (pc *productionQueueContext) theProductionQueueShouldHoldOrders(count int) error {
	if pc.queue.Len() != count {
		return fmt.Errorf("expected %d orders, got %d", count, pc.queue.Len())
	}
	return nil
}

func (pc *productionQueueContext) theFinishedProductionShouldBe(table *godog.Table) error {
	counts := make(map[string]int)
	for _, o := range pc.finished {
		counts[o.Producible.ID]++
	}
	for _, row := range table.Rows[1:] {
		id := getCellValueFromTable(table, row, "producible")
		expected, err := strconv.Atoi(getCellValueFromTable(table, row, "finished"))
		if err != nil {
			return fmt.Errorf("invalid finished count for %s: %w", id, err)
		}
		if counts[id] != expected {
			return fmt.Errorf("expected %d %s to have finished, got %d", expected, id, counts[id])
		}
	}
	return nil
}

// InitializeProductionQueueScenario registers production queue steps
func InitializeProductionQueueScenario(sc *godog.ScenarioContext) {
	pc := &productionQueueContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	sc.Step(`^a producible "([^"]*)" of kind (UNIT|RESOURCE|RESEARCH) taking (\d+(?:\.\d+)?) seconds?$`, pc.aProducibleOfKindTakingSeconds)
	sc.Step(`^an empty production queue$`, pc.anEmptyProductionQueue)
	sc.Step(`^(\d+) "([^"]*)" (?:is|are) queued$`, pc.areQueued)
	sc.Step(`^the delegate holds production back$`, pc.theDelegateHoldsProductionBack)

	sc.Step(`^the delegate releases production$`, pc.theDelegateReleasesProduction)
	sc.Step(`^the queue produces for (\d+(?:\.\d+)?) seconds?$`, pc.theQueueProducesForSeconds)
	sc.Step(`^the order at position (\d+) is cancelled$`, pc.theOrderAtPositionIsCancelled)

	sc.Step(`^the production progress should be (-?\d+(?:\.\d+)?)$`, pc.theProductionProgressShouldBe)
	sc.Step(`^no production should have finished$`, pc.noProductionShouldHaveFinished)
	sc.Step(`^(\d+) "([^"]*)" should have finished$`, pc.shouldHaveFinished)
	sc.Step(`^the finished production should be:$`, pc.theFinishedProductionShouldBe)
	sc.Step(`^the production queue should be empty$`, pc.theProductionQueueShouldBeEmpty)
	sc.Step(`^the production queue should hold (\d+) orders?$`, pc.theProductionQueueShouldHoldOrders)
}
