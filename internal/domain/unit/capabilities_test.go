package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

type account struct {
	total map[shared.ResourceType]int
}

func (a *account) AddResource(r shared.ResourceQuantity) {
	if a.total == nil {
		a.total = make(map[shared.ResourceType]int)
	}
	a.total[r.Type] += r.Quantity
}

func TestResourceNode_TakeAndDeplete(t *testing.T) {
	node := newUnit(t, "mine", 0, unit.Template{Node: &unit.NodeStats{Resource: "GOLD", Quantity: 3}})
	depleted := 0
	node.Node().Depleted.Subscribe(func(*unit.Unit) { depleted++ })

	assert.Equal(t, 2, node.Node().Take(2))
	assert.Equal(t, 1, node.Node().Take(5))
	assert.Equal(t, 0, node.Node().Take(1))
	assert.True(t, node.Node().IsDepleted())
	assert.False(t, node.Node().IsAvailable())
	assert.Equal(t, 1, depleted)
}

func TestResourceNode_Infinite(t *testing.T) {
	node := newUnit(t, "farm", 0, unit.Template{Node: &unit.NodeStats{Resource: "FOOD", Infinite: true}})

	assert.Equal(t, 50, node.Node().Take(50))
	assert.False(t, node.Node().IsDepleted())
}

func TestResourceCollector_DepositToDepot(t *testing.T) {
	// Arrange
	acc := &account{}
	worker := newUnit(t, "worker", 1, unit.Template{Collector: &unit.CollectorStats{Capacity: 2, CollectInterval: 1}})
	node := newUnit(t, "tree", 0, unit.Template{Node: &unit.NodeStats{Resource: "WOOD", Quantity: 10}})
	goldOnly := newUnit(t, "bank", 1, unit.Template{Depot: &unit.DepotStats{Accepts: []shared.ResourceType{"GOLD"}}})
	goldOnly.SetAccount(acc)
	hall := newUnit(t, "hall", 1, unit.Template{Depot: &unit.DepotStats{}})
	hall.SetAccount(acc)
	var deposits []unit.DepositEvent
	worker.Collector().ResourceDeposited.Subscribe(func(e unit.DepositEvent) { deposits = append(deposits, e) })

	require.True(t, worker.Collector().CollectFrom(node))
	require.True(t, worker.Collector().CollectFrom(node))
	require.False(t, worker.Collector().CollectFrom(node), "full")

	// Act & Assert
	assert.False(t, worker.Collector().DepositTo(goldOnly))
	assert.Equal(t, 2, worker.Collector().CollectedResource().Quantity)

	assert.True(t, worker.Collector().DepositTo(hall))
	assert.True(t, worker.Collector().IsEmpty())
	assert.Equal(t, 2, acc.total["WOOD"])
	require.Len(t, deposits, 1)
	assert.Same(t, hall, deposits[0].Depot)
}

func TestResourceCollector_DepositToOwnerNeedsAccount(t *testing.T) {
	worker := newUnit(t, "worker", 1, unit.Template{Collector: &unit.CollectorStats{Capacity: 2, CollectInterval: 1}})
	node := newUnit(t, "tree", 0, unit.Template{Node: &unit.NodeStats{Resource: "WOOD", Quantity: 10}})
	require.True(t, worker.Collector().CollectFrom(node))

	assert.False(t, worker.Collector().DepositToOwner())

	acc := &account{}
	worker.SetAccount(acc)
	assert.True(t, worker.Collector().DepositToOwner())
	assert.Equal(t, 1, acc.total["WOOD"])
}

func TestGarrison_EnterAndExit(t *testing.T) {
	// Arrange
	barracks := newUnit(t, "barracks", 1, unit.Template{Garrison: &unit.GarrisonStats{Capacity: 1}})
	barracks.SetPosition(shared.NewVector3(5, 0, 5))
	first := newUnit(t, "first", 1, unit.Template{})
	second := newUnit(t, "second", 1, unit.Template{})

	// Act & Assert
	require.True(t, barracks.Garrison().Enter(first))
	assert.False(t, first.IsOperational())
	assert.Equal(t, barracks.Position(), first.Position())
	assert.False(t, barracks.Garrison().Enter(first))
	assert.False(t, barracks.Garrison().Enter(second), "capacity reached")

	released := barracks.Garrison().ExitAll()
	assert.Equal(t, []*unit.Unit{first}, released)
	assert.True(t, first.IsOperational())
	assert.Nil(t, first.GarrisonedIn())
}

func TestGarrison_DestroyedUnitLeaves(t *testing.T) {
	barracks := newUnit(t, "barracks", 1, unit.Template{Garrison: &unit.GarrisonStats{Capacity: 2}})
	inside := newUnit(t, "inside", 1, unit.Template{})
	require.True(t, barracks.Garrison().Enter(inside))

	inside.Destroy()

	assert.Equal(t, 0, barracks.Garrison().Count())
}

func TestParseCollectType(t *testing.T) {
	ct, err := unit.ParseCollectType("REALTIME_COLLECT")
	require.NoError(t, err)
	assert.Equal(t, unit.RealtimeCollect, ct)

	ct, err = unit.ParseCollectType("")
	require.NoError(t, err)
	assert.Equal(t, unit.GatherAndDeposit, ct)

	_, err = unit.ParseCollectType("TELEPORT")
	assert.Error(t, err)
}
