package production_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

type vetoDelegate struct {
	allow bool
	asked int
}

func (d *vetoDelegate) ShouldFinishProductionFor(*production.Producible) bool {
	d.asked++
	return d.allow
}

func woodItem(duration float64) *production.Producible {
	return &production.Producible{
		ID:       "wood",
		Kind:     production.KindResource,
		Duration: duration,
		Cost:     []shared.ResourceQuantity{shared.NewResourceQuantity("GOLD", 10)},
		Produces: []shared.ResourceQuantity{shared.NewResourceQuantity("WOOD", 5)},
	}
}

func collectFinished(q *production.Queue) *[]production.ProductionOrder {
	var finished []production.ProductionOrder
	q.ProductionFinished.Subscribe(func(o production.ProductionOrder) { finished = append(finished, o) })
	return &finished
}

func TestQueue_ProduceFinishesAfterDuration(t *testing.T) {
	// Arrange
	wood := woodItem(5)
	q := production.NewQueue()
	finished := collectFinished(q)
	require.True(t, q.AddProductionOrder(wood, 1))

	// Act
	q.Produce(3)

	// Assert
	assert.InDelta(t, 0.6, q.CurrentProductionProgress(), 1e-9)
	assert.Empty(t, *finished)

	q.Produce(2)
	require.Len(t, *finished, 1)
	assert.Same(t, wood, (*finished)[0].Producible)
	assert.Equal(t, 1, (*finished)[0].Quantity)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, -1.0, q.CurrentProductionProgress())
}

func TestQueue_SplitProduceMatchesSingleCall(t *testing.T) {
	cases := []struct {
		name   string
		d1, d2 float64
	}{
		{"halves", 1.25, 1.25},
		{"uneven", 0.1, 3.3},
		{"zero first", 0, 2},
		{"tiny steps", 0.001, 0.002},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split := production.NewQueue()
			split.AddProductionOrder(woodItem(10), 1)
			split.Produce(tc.d1)
			split.Produce(tc.d2)

			single := production.NewQueue()
			single.AddProductionOrder(woodItem(10), 1)
			single.Produce(tc.d1 + tc.d2)

			assert.InDelta(t, single.RemainingTime(), split.RemainingTime(), 1e-9)
			assert.InDelta(t, single.CurrentProductionProgress(), split.CurrentProductionProgress(), 1e-9)
		})
	}
}

func TestQueue_LeftoverCarriesIntoNextItem(t *testing.T) {
	// Arrange
	q := production.NewQueue()
	finished := collectFinished(q)
	q.AddProductionOrder(woodItem(2), 3)

	// Act
	q.Produce(5)

	// Assert
	assert.Len(t, *finished, 2)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, 1, q.Orders()[0].Quantity)
	assert.InDelta(t, 0.5, q.CurrentProductionProgress(), 1e-9)
}

func TestQueue_VetoStallsWithoutReset(t *testing.T) {
	// Arrange
	q := production.NewQueue()
	finished := collectFinished(q)
	delegate := &vetoDelegate{allow: false}
	q.SetDelegate(delegate)
	q.AddProductionOrder(woodItem(4), 1)

	// Act & Assert
	for i := 0; i < 20; i++ {
		q.Produce(1.5)
		progress := q.CurrentProductionProgress()
		assert.LessOrEqual(t, progress, 1.0)
		if i >= 3 {
			assert.Equal(t, 1.0, progress)
		}
	}
	assert.Empty(t, *finished)
	assert.Greater(t, delegate.asked, 1, "delegate is asked again on every produce once time ran out")

	delegate.allow = true
	q.Produce(0)
	assert.Len(t, *finished, 1)
}

func TestQueue_CancelHeadRestartsNext(t *testing.T) {
	q := production.NewQueue()
	first := woodItem(4)
	second := woodItem(6)
	second.ID = "planks"
	q.AddProductionOrder(first, 1)
	q.AddProductionOrder(second, 1)
	q.Produce(3)

	removed, ok := q.CancelProductionOrder(0)

	require.True(t, ok)
	assert.Same(t, first, removed.Producible)
	assert.Equal(t, 6.0, q.RemainingTime())
	assert.Equal(t, 0.0, q.CurrentProductionProgress())

	_, ok = q.CancelProductionOrder(5)
	assert.False(t, ok)
}

func TestQueue_CancelPendingKeepsProgress(t *testing.T) {
	q := production.NewQueue()
	q.AddProductionOrder(woodItem(4), 1)
	q.AddProductionOrder(woodItem(4), 2)
	q.Produce(1)

	_, ok := q.CancelProductionOrder(1)

	require.True(t, ok)
	assert.Equal(t, 3.0, q.RemainingTime())
}

func TestQueue_IgnoresInvalidOrders(t *testing.T) {
	q := production.NewQueue()

	assert.False(t, q.AddProductionOrder(nil, 1))
	assert.False(t, q.AddProductionOrder(woodItem(1), 0))
	assert.True(t, q.IsEmpty())

	q.Produce(10)
	assert.Equal(t, -1.0, q.CurrentProductionProgress())
}

func TestQueue_ZeroDurationFinishesOnNextProduce(t *testing.T) {
	q := production.NewQueue()
	finished := collectFinished(q)
	q.AddProductionOrder(woodItem(0), 1)

	q.Produce(0)

	assert.Len(t, *finished, 1)
}

func TestQueue_FixedStepsFinishOnTheLastStep(t *testing.T) {
	// Arrange
	wood := woodItem(0.7)
	split := production.NewQueue()
	splitFinished := collectFinished(split)
	require.True(t, split.AddProductionOrder(wood, 2))
	whole := production.NewQueue()
	wholeFinished := collectFinished(whole)
	require.True(t, whole.AddProductionOrder(wood, 2))

	// Act
	for i := 0; i < 7; i++ {
		split.Produce(0.1)
	}
	whole.Produce(0.7)

	// Assert
	assert.Len(t, *splitFinished, 1)
	assert.Len(t, *wholeFinished, 1)
	assert.InDelta(t, 0, split.CurrentProductionProgress(), 1e-9)
	assert.InDelta(t, whole.RemainingTime(), split.RemainingTime(), 1e-9)
}
