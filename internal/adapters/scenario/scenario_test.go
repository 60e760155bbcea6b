package scenario_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/adapters/scenario"
	"github.com/andrescamacho/skirmish-go/internal/adapters/world"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	orderCommands "github.com/andrescamacho/skirmish-go/internal/application/orders/commands"
	productionCommands "github.com/andrescamacho/skirmish-go/internal/application/production/commands"
	"github.com/andrescamacho/skirmish-go/internal/application/setup"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

const smallScenario = `
name: test
players:
  - {id: 1, name: red, max_population: 10, resources: {GOLD: 100}, research: [masonry]}
  - {id: 2, name: blue}
templates:
  hall:
    health: {max: 500}
    depot: {accepts: [GOLD]}
  worker:
    population: 1
    speed: 2
    health: {max: 20}
    collector: {capacity: 5, collect_interval: 1}
  mine:
    node: {resource: GOLD, quantity: 50, max_collectors: 2}
producibles:
  - {id: worker, kind: UNIT, duration: 2, cost: {GOLD: 40}, unit: worker}
  - {id: tithe, kind: RESOURCE, duration: 1, produces: {GOLD: 5}}
units:
  - id: hall
    template: hall
    owner: 1
    position: [0, 0, 0]
    production: {producibles: [worker, tithe], spawn_offset: [2, 0, 0]}
  - {id: w1, template: worker, owner: 1, position: [1, 0, 0]}
  - {id: gold, template: mine, position: [8, 0, 0]}
orders:
  - {at_tick: 5, type: attack, units: [w1], target: gold}
  - {at_tick: 0, type: queue, producer: hall, producible: worker, quantity: 2}
  - {at_tick: 5, type: collect_once, select: "Owner == 1 && IsCollector", target: gold}
`

func newSimulation(t *testing.T) (*simulation.Simulation, *world.Registry) {
	t.Helper()
	registry := world.NewRegistry(0)
	sim, err := simulation.NewSimulation(registry, shared.NewSimulationClock(time.Time{}), nil, nil)
	require.NoError(t, err)
	return sim, registry
}

func TestParse_ValidScenario(t *testing.T) {
	// Act
	sc, err := scenario.Parse([]byte(smallScenario))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "test", sc.Name)
	assert.Len(t, sc.Players, 2)
	assert.Len(t, sc.Templates, 3)
	assert.Equal(t, scenario.Position{8, 0, 0}, sc.Units[2].Position)
}

func TestParse_RejectsInvalidScenarios(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{
			name:     "unknown key",
			yaml:     "name: x\nplayers: [{id: 1, name: a}]\nspeed: 3\n",
			contains: "speed",
		},
		{
			name:     "missing name",
			yaml:     "players: [{id: 1, name: a}]\n",
			contains: "Name",
		},
		{
			name:     "no players",
			yaml:     "name: x\n",
			contains: "Players",
		},
		{
			name:     "bad producible kind",
			yaml:     "name: x\nplayers: [{id: 1, name: a}]\nproducibles: [{id: p, kind: MAGIC}]\n",
			contains: "Kind",
		},
		{
			name:     "unit with unknown template",
			yaml:     "name: x\nplayers: [{id: 1, name: a}]\nunits: [{id: u, template: ghost}]\n",
			contains: "unknown template ghost",
		},
		{
			name:     "unit with unknown owner",
			yaml:     "name: x\nplayers: [{id: 1, name: a}]\ntemplates: {t: {}}\nunits: [{id: u, template: t, owner: 3}]\n",
			contains: "unknown owner 3",
		},
		{
			name:     "duplicate player",
			yaml:     "name: x\nplayers: [{id: 1, name: a}, {id: 1, name: b}]\n",
			contains: "duplicate player 1",
		},
		{
			name:     "neutral producer",
			yaml:     "name: x\nplayers: [{id: 1, name: a}]\ntemplates: {t: {}}\nproducibles: [{id: r, kind: RESEARCH}]\nunits: [{id: u, template: t, production: {producibles: [r]}}]\n",
			contains: "neutral units cannot produce",
		},
		{
			name:     "bad order type",
			yaml:     "name: x\nplayers: [{id: 1, name: a}]\norders: [{type: dance}]\n",
			contains: "Type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := scenario.Parse([]byte(tt.yaml))

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallScenario), 0o644))

	// Act
	sc, err := scenario.Load(path)
	_, missingErr := scenario.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "test", sc.Name)
	assert.Error(t, missingErr)
}

func TestCatalog_ConvertsTemplatesAndProducibles(t *testing.T) {
	// Arrange
	sc, err := scenario.Parse([]byte(smallScenario))
	require.NoError(t, err)

	// Act
	catalog, err := sc.Catalog()

	// Assert
	require.NoError(t, err)
	worker := catalog.Templates["worker"]
	assert.Equal(t, "worker", worker.Name)
	require.NotNil(t, worker.Health)
	assert.Equal(t, 20, worker.Health.Initial, "initial health defaults to max")
	require.NotNil(t, worker.Collector)
	assert.Equal(t, unit.GatherAndDeposit, worker.Collector.CollectType)
	assert.Nil(t, worker.Attack)

	workerProducible := catalog.Producibles["worker"]
	assert.Equal(t, production.KindUnit, workerProducible.Kind)
	require.NotNil(t, workerProducible.Unit)
	assert.Equal(t, "worker", workerProducible.Unit.Name)
	assert.Equal(t, []shared.ResourceQuantity{{Type: "GOLD", Quantity: 40}}, workerProducible.Cost)
	assert.Equal(t, "tithe", catalog.Producibles["tithe"].Name, "name defaults to the id")
}

func TestBuild_SeedsSimulation(t *testing.T) {
	// Arrange
	sc, err := scenario.Parse([]byte(smallScenario))
	require.NoError(t, err)
	sim, registry := newSimulation(t)

	// Act
	err = sc.Build(sim, registry.UnitFactory(), 4)

	// Assert
	require.NoError(t, err)
	red, err := sim.Player(1)
	require.NoError(t, err)
	assert.Equal(t, 100, red.Resource("GOLD"))
	assert.True(t, red.HasResearched("masonry"))
	assert.Equal(t, 1, red.Population())

	mine, err := sim.Unit("gold")
	require.NoError(t, err)
	assert.True(t, mine.Owner().IsNeutral())
	require.NotNil(t, mine.Node())

	ap, err := sim.Production("hall")
	require.NoError(t, err)
	assert.Equal(t, 4, ap.Options().MaxOrders, "producer falls back to the default queue size")
}

func TestTimeline_SortsOrdersByTick(t *testing.T) {
	// Arrange
	sc, err := scenario.Parse([]byte(smallScenario))
	require.NoError(t, err)

	// Act
	timeline, err := sc.Timeline()

	// Assert
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, int64(0), timeline[0].AtTick)
	queue, ok := timeline[0].Request.(*productionCommands.QueueProductionCommand)
	require.True(t, ok)
	assert.Equal(t, 2, queue.Quantity)

	_, ok = timeline[1].Request.(*orderCommands.IssueAttackCommand)
	assert.True(t, ok, "orders on the same tick keep file order")
	collect, ok := timeline[2].Request.(*orderCommands.IssueCollectCommand)
	require.True(t, ok)
	assert.True(t, collect.Once)
	assert.Equal(t, "Owner == 1 && IsCollector", timeline[2].Select)
}

func TestOrderSpec_RequestRequiresFields(t *testing.T) {
	tests := []scenario.OrderSpec{
		{Type: scenario.OrderMove},
		{Type: scenario.OrderAttack, Units: []string{"a"}},
		{Type: scenario.OrderCollect, Units: []string{"a"}},
		{Type: scenario.OrderQueue, Producer: "hall"},
		{Type: scenario.OrderCancel},
		{Type: scenario.OrderClaim},
		{Type: "dance"},
	}

	for _, order := range tests {
		t.Run(order.Type, func(t *testing.T) {
			// Act
			_, err := order.Request()

			// Assert
			assert.Error(t, err)
		})
	}
}

func TestDispatch_ResolvesSelection(t *testing.T) {
	// Arrange
	sc, err := scenario.Parse([]byte(smallScenario))
	require.NoError(t, err)
	sim, registry := newSimulation(t)
	require.NoError(t, sc.Build(sim, registry.UnitFactory(), 0))
	mediator, err := setup.NewHandlerRegistry(sim).CreateConfiguredMediator()
	require.NoError(t, err)
	timeline, err := sc.Timeline()
	require.NoError(t, err)

	// Act
	resp, err := timeline[2].Dispatch(context.Background(), mediator)

	// Assert
	require.NoError(t, err)
	order, ok := resp.(*orderCommands.OrderResponse)
	require.True(t, ok)
	assert.Equal(t, []string{"w1"}, order.Assigned)
	_, running := sim.Scheduler().Job("w1")
	assert.True(t, running)
}

func TestRunner_IssuesOrdersOnTheirTick(t *testing.T) {
	// Arrange
	sc, err := scenario.Parse([]byte(smallScenario))
	require.NoError(t, err)
	sim, registry := newSimulation(t)
	require.NoError(t, sc.Build(sim, registry.UnitFactory(), 0))
	mediator, err := setup.NewHandlerRegistry(sim).CreateConfiguredMediator()
	require.NoError(t, err)
	timeline, err := sc.Timeline()
	require.NoError(t, err)
	runner, err := scenario.NewRunner(mediator, timeline, 0.5)
	require.NoError(t, err)

	// Act
	first, err := runner.Run(context.Background(), 3)
	require.NoError(t, err)
	pendingAfterFirst := runner.Pending()
	second, err := runner.Run(context.Background(), 5)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(3), first.Ticks)
	assert.Equal(t, 1, first.OrdersIssued, "only the tick 0 order is due")
	assert.Equal(t, 2, pendingAfterFirst)
	assert.Equal(t, int64(8), second.Ticks)
	assert.Equal(t, 4.0, second.Elapsed)
	assert.Equal(t, 2, second.OrdersIssued)
	assert.Equal(t, 0, runner.Pending())

	red, err := sim.Player(1)
	require.NoError(t, err)
	assert.Equal(t, 20, red.Resource("GOLD"), "two workers were charged at queue time")
}

func TestRunner_RejectsInvalidArguments(t *testing.T) {
	// Act
	_, nilErr := scenario.NewRunner(nil, nil, 0.1)
	_, dtErr := scenario.NewRunner(struct{ common.Mediator }{}, nil, 0)

	// Assert
	assert.Error(t, nilErr)
	assert.Error(t, dtErr)
}

func TestRunner_StopsWhenContextCancelled(t *testing.T) {
	// Arrange
	sim, _ := newSimulation(t)
	mediator, err := setup.NewHandlerRegistry(sim).CreateConfiguredMediator()
	require.NoError(t, err)
	runner, err := scenario.NewRunner(mediator, nil, 0.1)
	require.NoError(t, err)
	runner.Pace(1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	result, err := runner.Run(ctx, 10)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), result.Ticks)
}
