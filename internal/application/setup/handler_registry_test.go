package setup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/adapters/world"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	orderCommands "github.com/andrescamacho/skirmish-go/internal/application/orders/commands"
	playerQueries "github.com/andrescamacho/skirmish-go/internal/application/player/queries"
	productionCommands "github.com/andrescamacho/skirmish-go/internal/application/production/commands"
	productionQueries "github.com/andrescamacho/skirmish-go/internal/application/production/queries"
	selectionQueries "github.com/andrescamacho/skirmish-go/internal/application/selection/queries"
	"github.com/andrescamacho/skirmish-go/internal/application/setup"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	simulationCommands "github.com/andrescamacho/skirmish-go/internal/application/simulation/commands"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

const gold shared.ResourceType = "GOLD"

var (
	peonTemplate = unit.Template{
		Name:       "peon",
		Population: 1,
		Speed:      1,
		Health:     &unit.HealthStats{Max: 20},
		Collector:  &unit.CollectorStats{Capacity: 5, CollectInterval: 1, CollectType: unit.GatherAndDeposit},
	}
	knightTemplate = unit.Template{
		Name:       "knight",
		Population: 2,
		Speed:      2,
		Health:     &unit.HealthStats{Max: 50},
		Attack:     &unit.AttackStats{Damage: 10, MaxRange: 1, LineOfSight: 8, ReloadTime: 1},
	}
)

type fixture struct {
	ctx      context.Context
	sim      *simulation.Simulation
	registry *world.Registry
	mediator common.Mediator
	red      *player.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := world.NewRegistry(0)
	sim, err := simulation.NewSimulation(registry, shared.NewSimulationClock(time.Time{}), nil, nil)
	require.NoError(t, err)

	red, err := player.NewPlayer(shared.MustNewPlayerID(1), "red", 10)
	require.NoError(t, err)
	blue, err := player.NewPlayer(shared.MustNewPlayerID(2), "blue", 10)
	require.NoError(t, err)
	require.NoError(t, sim.AddPlayer(red))
	require.NoError(t, sim.AddPlayer(blue))
	red.Refund([]shared.ResourceQuantity{shared.NewResourceQuantity(gold, 100)})

	m, err := setup.NewHandlerRegistry(sim).CreateConfiguredMediator()
	require.NoError(t, err)
	return &fixture{ctx: context.Background(), sim: sim, registry: registry, mediator: m, red: red}
}

func (f *fixture) place(t *testing.T, id string, owner int, pos shared.Vector3, template unit.Template) *unit.Unit {
	t.Helper()
	var playerID shared.PlayerID
	if owner > 0 {
		playerID = shared.MustNewPlayerID(owner)
	}
	u, err := f.registry.UnitFactory().CreateUnitWithID(id, template, playerID, pos)
	require.NoError(t, err)
	require.NoError(t, f.sim.AddUnit(u))
	return u
}

func (f *fixture) advance(t *testing.T, ticks int) *simulationCommands.AdvanceSimulationResponse {
	t.Helper()
	resp, err := f.mediator.Send(f.ctx, &simulationCommands.AdvanceSimulationCommand{Ticks: ticks, DeltaTime: 1})
	require.NoError(t, err)
	return resp.(*simulationCommands.AdvanceSimulationResponse)
}

func TestMediator_QueueAdvanceAndCancelProduction(t *testing.T) {
	// Arrange
	f := newFixture(t)
	hall := f.place(t, "hall", 1, shared.Vector3{}, unit.Template{Name: "town-hall"})
	peon := &production.Producible{
		ID:       "peon",
		Kind:     production.KindUnit,
		Duration: 2,
		Cost:     []shared.ResourceQuantity{shared.NewResourceQuantity(gold, 30)},
		Unit:     &peonTemplate,
	}
	_, err := f.sim.AddProducer(hall, production.Options{Producibles: []*production.Producible{peon}}, production.OffsetSpawnPoint{Offset: shared.NewVector3(1, 0, 0)})
	require.NoError(t, err)

	// Act
	resp, err := f.mediator.Send(f.ctx, &productionCommands.QueueProductionCommand{ProducerID: "hall", ProducibleID: "peon", Quantity: 3})
	require.NoError(t, err)
	queued := resp.(*productionCommands.QueueProductionResponse)
	f.advance(t, 3)
	statusResp, err := f.mediator.Send(f.ctx, &productionQueries.GetProductionStatusQuery{ProducerID: "hall"})
	require.NoError(t, err)
	status := statusResp.(*productionQueries.GetProductionStatusResponse)
	cancelResp, err := f.mediator.Send(f.ctx, &productionCommands.CancelProductionCommand{ProducerID: "hall"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []shared.ResourceQuantity{shared.NewResourceQuantity(gold, 90)}, queued.Charged)
	require.Len(t, status.Orders, 1)
	assert.Equal(t, 2, status.Orders[0].Quantity, "one peon has left the queue")
	assert.InDelta(t, 0.5, status.Progress, 1e-9)
	assert.Equal(t, []shared.ResourceQuantity{shared.NewResourceQuantity(gold, 60)}, cancelResp.(*productionCommands.CancelProductionResponse).Refund)
	assert.Equal(t, 70, f.red.Resource(gold))
	assert.Equal(t, 1, f.red.UnitCount("peon"))
}

func TestMediator_QueueRejectsUnaffordableOrders(t *testing.T) {
	f := newFixture(t)
	hall := f.place(t, "hall", 1, shared.Vector3{}, unit.Template{Name: "town-hall"})
	peon := &production.Producible{ID: "peon", Kind: production.KindUnit, Duration: 1, Cost: []shared.ResourceQuantity{shared.NewResourceQuantity(gold, 60)}, Unit: &peonTemplate}
	_, err := f.sim.AddProducer(hall, production.Options{Producibles: []*production.Producible{peon}}, nil)
	require.NoError(t, err)

	_, err = f.mediator.Send(f.ctx, &productionCommands.QueueProductionCommand{ProducerID: "hall", ProducibleID: "peon", Quantity: 2})
	_, missing := f.mediator.Send(f.ctx, &productionCommands.QueueProductionCommand{ProducerID: "hall", ProducibleID: "catapult"})

	var insufficient *shared.InsufficientResourcesError
	assert.ErrorAs(t, err, &insufficient)
	assert.Error(t, missing)
	assert.Equal(t, 100, f.red.Resource(gold), "nothing was charged")
}

func TestMediator_MoveOrderInFormation(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.place(t, "k1", 1, shared.Vector3{}, knightTemplate)
	f.place(t, "k2", 1, shared.NewVector3(0, 0, 1), knightTemplate)
	f.place(t, "hall", 1, shared.Vector3{}, unit.Template{Name: "town-hall"})

	// Act
	resp, err := f.mediator.Send(f.ctx, &orderCommands.IssueMoveCommand{UnitIDs: []string{"k1", "k2", "hall", "ghost"}, Destination: shared.NewVector3(10, 0, 0)})
	require.NoError(t, err)
	order := resp.(*orderCommands.OrderResponse)
	advanced := f.advance(t, 10)

	// Assert
	assert.ElementsMatch(t, []string{"k1", "k2"}, order.Assigned)
	assert.Contains(t, order.Rejected, "hall", "buildings cannot move")
	assert.Contains(t, order.Rejected, "ghost")
	assert.Zero(t, advanced.RunningJobs)
	k1, _ := f.registry.Unit("k1")
	k2, _ := f.registry.Unit("k2")
	assert.NotEqual(t, k1.Position(), k2.Position(), "formation slots differ")
	assert.InDelta(t, 10.0, k1.Position().X, 2)
}

func TestMediator_AttackOrderDestroysTarget(t *testing.T) {
	f := newFixture(t)
	f.place(t, "k1", 1, shared.Vector3{}, knightTemplate)
	grunt := f.place(t, "g1", 2, shared.NewVector3(4, 0, 0), unit.Template{Name: "grunt", Health: &unit.HealthStats{Max: 20}})

	resp, err := f.mediator.Send(f.ctx, &orderCommands.IssueAttackCommand{UnitIDs: []string{"k1"}, TargetID: "g1"})
	require.NoError(t, err)
	f.advance(t, 10)

	assert.Equal(t, []string{"k1"}, resp.(*orderCommands.OrderResponse).Assigned)
	assert.False(t, grunt.IsActive())
	assert.Zero(t, f.sim.Scheduler().Running())
}

func TestMediator_CollectOrderFillsStockpile(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.place(t, "hall", 1, shared.Vector3{}, unit.Template{Name: "town-hall", Depot: &unit.DepotStats{Accepts: []shared.ResourceType{gold}}})
	f.place(t, "mine", 0, shared.NewVector3(2, 0, 0), unit.Template{Name: "gold-mine", Node: &unit.NodeStats{Resource: gold, Quantity: 500}})
	f.place(t, "p1", 1, shared.NewVector3(0, 0, 1), peonTemplate)

	// Act
	resp, err := f.mediator.Send(f.ctx, &orderCommands.IssueCollectCommand{UnitIDs: []string{"p1"}, NodeID: "mine"})
	require.NoError(t, err)
	_, notNode := f.mediator.Send(f.ctx, &orderCommands.IssueCollectCommand{UnitIDs: []string{"p1"}, NodeID: "hall"})
	f.advance(t, 30)

	// Assert
	assert.Equal(t, []string{"p1"}, resp.(*orderCommands.OrderResponse).Assigned)
	assert.Error(t, notNode)
	assert.Greater(t, f.red.Resource(gold), 100)
	assert.Equal(t, 1, f.sim.Scheduler().Running(), "collectors keep cycling")
}

func TestMediator_SelectUnitsAndPlayerState(t *testing.T) {
	f := newFixture(t)
	f.place(t, "p1", 1, shared.Vector3{}, peonTemplate)
	f.place(t, "k1", 1, shared.Vector3{}, knightTemplate)
	f.place(t, "k2", 2, shared.Vector3{}, knightTemplate)

	selResp, err := f.mediator.Send(f.ctx, &selectionQueries.SelectUnitsQuery{Expression: "Owner == 1 && HasAttack"})
	require.NoError(t, err)
	_, badExpr := f.mediator.Send(f.ctx, &selectionQueries.SelectUnitsQuery{Expression: "Owner +"})
	stateResp, err := f.mediator.Send(f.ctx, &playerQueries.GetPlayerStateQuery{PlayerID: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"k1"}, selResp.(*selectionQueries.SelectUnitsResponse).IDs())
	assert.Error(t, badExpr)
	state := stateResp.(*playerQueries.GetPlayerStateResponse)
	assert.Equal(t, 3, state.Snapshot.Population)
	assert.Equal(t, map[string]int{"peon": 1, "knight": 1}, state.Snapshot.UnitCounts)
}

func TestMediator_RejectsUnknownRequests(t *testing.T) {
	f := newFixture(t)

	_, err := f.mediator.Send(f.ctx, &struct{ Name string }{Name: "dance"})

	assert.Error(t, err)
}
