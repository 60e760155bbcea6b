package task_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

func startCollectNode(t *testing.T, worker, node *unit.Unit) *task.CollectNodeResourceHandler {
	t.Helper()
	collect := task.NewCollectNodeResourceTask(nil)
	h := collect.CreateHandler()
	require.NoError(t, h.StartTask(task.UnitInteractionContext{Target: node}, task.CollectorInput{Collector: worker}))
	return h.(*task.CollectNodeResourceHandler)
}

func TestCollectNodeResource_NodeAtLimitFinishesWithoutMoving(t *testing.T) {
	// Arrange
	worker, movement, _ := newWorker(t, 1, 5, 1, unit.GatherAndDeposit)
	node := newNode(t, "tree", shared.NewVector3(4, 0, 0), wood, 100, 1)
	other, _, _ := newWorker(t, 1, 5, 1, unit.GatherAndDeposit)
	require.True(t, node.Node().Assign(other))
	require.True(t, node.Node().HasReachedLimit())

	// Act
	h := startCollectNode(t, worker, node)

	// Assert
	assert.True(t, h.IsFinished())
	assert.Empty(t, movement.destinations, "no movement should be issued when the node is full")
	assert.False(t, node.Node().IsAssigned(worker))

	h.EndTask()
	assert.True(t, node.Node().IsAssigned(other), "ending must not release another collector's slot")
}

func TestCollectNodeResource_RealtimeCollectDepositsEveryInterval(t *testing.T) {
	// Arrange
	worker, _, account := newWorker(t, 1, 5, 1, unit.RealtimeCollect)
	node := newNode(t, "tree", shared.NewVector3(4, 0, 0), wood, 100, 0)
	h := startCollectNode(t, worker, node)
	h.UpdateTask(0.1) // arrival
	require.True(t, h.IsCollecting())

	// Act
	h.UpdateTask(1.0)

	// Assert
	assert.Equal(t, 1, account.resources[wood])
	assert.Equal(t, 0, worker.Collector().CollectedResource().Quantity)
	assert.Equal(t, 99, node.Node().Remaining())
	assert.False(t, h.IsFinished())
}

func TestCollectNodeResource_IntervalDiscretization(t *testing.T) {
	tests := []struct {
		name     string
		interval float64
		deltas   []float64
		expected int
	}{
		{name: "exact multiple in one step", interval: 1, deltas: []float64{3}, expected: 3},
		{name: "exact multiple in small steps", interval: 1, deltas: repeat(0.1, 30), expected: 3},
		{name: "fractional interval", interval: 0.3, deltas: repeat(0.1, 12), expected: 4},
		{name: "just short of a multiple", interval: 1, deltas: []float64{1, 1, 0.99}, expected: 2},
		{name: "just short in small steps", interval: 0.5, deltas: append(repeat(0.25, 7), 0.2), expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			worker, _, _ := newWorker(t, 1, 1000, tt.interval, unit.GatherAndDeposit)
			node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 1000, 0)
			collected := 0
			worker.Collector().ResourceCollected.Subscribe(func(unit.CollectionEvent) { collected++ })
			h := startCollectNode(t, worker, node)
			h.UpdateTask(0) // arrival

			// Act
			for _, d := range tt.deltas {
				h.UpdateTask(d)
			}

			// Assert
			assert.Equal(t, tt.expected, collected)
			assert.Equal(t, tt.expected, worker.Collector().CollectedResource().Quantity)
		})
	}
}

func TestCollectNodeResource_ArrivalStepIsNotCounted(t *testing.T) {
	// Arrange
	worker, _, _ := newWorker(t, 1, 10, 1, unit.GatherAndDeposit)
	node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 100, 0)
	h := startCollectNode(t, worker, node)

	// Act
	h.UpdateTask(5)

	// Assert
	require.True(t, h.IsCollecting())
	assert.Equal(t, 0, worker.Collector().CollectedResource().Quantity)

	// Act
	h.UpdateTask(1)

	// Assert
	assert.Equal(t, 1, worker.Collector().CollectedResource().Quantity)
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCollectNodeResource_GatherAndDepositStopsWhenFull(t *testing.T) {
	// Arrange
	worker, _, account := newWorker(t, 1, 3, 1, unit.GatherAndDeposit)
	node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 100, 0)
	finished := 0
	worker.Collector().CollectingFinished.Subscribe(func(unit.CollectionEvent) { finished++ })
	h := startCollectNode(t, worker, node)
	h.UpdateTask(0)

	// Act
	h.UpdateTask(10)

	// Assert
	assert.True(t, h.IsFinished())
	assert.True(t, worker.Collector().IsFull())
	assert.Equal(t, 3, worker.Collector().CollectedResource().Quantity)
	assert.Equal(t, 0, account.resources[wood])
	assert.Equal(t, 1, finished)
}

func TestCollectNodeResource_StackAndCollectDepositsOnlyWhenFull(t *testing.T) {
	// Arrange
	worker, _, account := newWorker(t, 1, 3, 1, unit.StackAndCollect)
	node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 100, 0)
	h := startCollectNode(t, worker, node)
	h.UpdateTask(0)

	// Act
	h.UpdateTask(2)

	// Assert - stacking
	assert.Equal(t, 2, worker.Collector().CollectedResource().Quantity)
	assert.Equal(t, 0, account.resources[wood])

	// Act
	h.UpdateTask(1)

	// Assert - capacity reached, delivered to owner
	assert.Equal(t, 0, worker.Collector().CollectedResource().Quantity)
	assert.Equal(t, 3, account.resources[wood])
	assert.False(t, h.IsFinished())
}

func TestCollectNodeResource_ClearsDifferentResourceBeforeTrip(t *testing.T) {
	// Arrange
	worker, movement, _ := newWorker(t, 1, 3, 1, unit.GatherAndDeposit)
	mine := newNode(t, "mine", shared.NewVector3(2, 0, 0), gold, 10, 0)
	require.True(t, worker.Collector().CollectFrom(mine))
	tree := newNode(t, "tree", shared.NewVector3(5, 0, 0), wood, 10, 0)

	// Act
	h := startCollectNode(t, worker, tree)

	// Assert
	assert.True(t, worker.Collector().IsEmpty())
	assert.False(t, h.IsFinished())
	assert.Equal(t, tree.Position(), movement.lastDestination())
}

func TestCollectNodeResource_AlreadyFullOfSameResourceFinishes(t *testing.T) {
	// Arrange
	worker, movement, _ := newWorker(t, 1, 2, 1, unit.GatherAndDeposit)
	tree := newNode(t, "tree", shared.NewVector3(5, 0, 0), wood, 10, 0)
	require.True(t, worker.Collector().CollectFrom(tree))
	require.True(t, worker.Collector().CollectFrom(tree))

	// Act
	h := startCollectNode(t, worker, tree)

	// Assert
	assert.True(t, h.IsFinished())
	assert.Empty(t, movement.destinations)
	assert.Empty(t, tree.Node().Collectors())
}

func TestCollectNodeResource_NodeDepletedWhileCollecting(t *testing.T) {
	t.Run("empty collector stops in place", func(t *testing.T) {
		// Arrange
		worker, movement, _ := newWorker(t, 1, 5, 1, unit.RealtimeCollect)
		node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 2, 0)
		finished := 0
		worker.Collector().CollectingFinished.Subscribe(func(unit.CollectionEvent) { finished++ })
		h := startCollectNode(t, worker, node)
		h.UpdateTask(0)

		// Act
		h.UpdateTask(2)
		h.UpdateTask(0.1)

		// Assert
		assert.True(t, node.Node().IsDepleted())
		assert.True(t, h.IsFinished())
		assert.Equal(t, 1, finished)
		assert.Equal(t, 1, movement.stops)
	})

	t.Run("loaded collector reports completion", func(t *testing.T) {
		// Arrange
		worker, movement, _ := newWorker(t, 1, 5, 1, unit.GatherAndDeposit)
		node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 2, 0)
		h := startCollectNode(t, worker, node)
		h.UpdateTask(0)

		// Act
		h.UpdateTask(2)
		h.UpdateTask(0.1)

		// Assert
		assert.True(t, h.IsFinished())
		assert.Equal(t, 2, worker.Collector().CollectedResource().Quantity)
		assert.Equal(t, 0, movement.stops)
	})

	t.Run("node destroyed before arrival", func(t *testing.T) {
		// Arrange
		worker, movement, _ := newWorker(t, 1, 5, 1, unit.GatherAndDeposit)
		movement.instant = false
		node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 2, 0)
		finishedEvents := 0
		worker.Collector().CollectingFinished.Subscribe(func(unit.CollectionEvent) { finishedEvents++ })
		h := startCollectNode(t, worker, node)

		// Act
		node.Destroy()
		h.UpdateTask(0.1)

		// Assert
		assert.True(t, h.IsFinished())
		assert.Equal(t, 0, finishedEvents, "no finished notification without collecting")
	})
}

func TestCollectNodeResource_EndTaskReleasesSlotOnce(t *testing.T) {
	tests := []struct {
		name  string
		steps []float64
	}{
		{name: "forced early end", steps: []float64{0}},
		{name: "normal completion", steps: []float64{0, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			worker, _, _ := newWorker(t, 1, 2, 1, unit.GatherAndDeposit)
			node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 100, 1)
			h := startCollectNode(t, worker, node)
			require.True(t, node.Node().IsAssigned(worker))
			for _, d := range tt.steps {
				h.UpdateTask(d)
			}

			// Act
			h.EndTask()
			h.EndTask()

			// Assert
			assert.False(t, node.Node().IsAssigned(worker))
			assert.False(t, node.Node().HasReachedLimit())
			assert.Empty(t, node.Node().Collectors())
		})
	}
}

func TestCollectNodeResource_NilCollectorIsArgumentError(t *testing.T) {
	// Arrange
	node := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 100, 0)
	h := task.NewCollectNodeResourceTask(nil).CreateHandler()

	// Act
	err := h.StartTask(task.UnitInteractionContext{Target: node}, task.CollectorInput{})

	// Assert
	var nilErr *shared.ArgumentNilError
	require.True(t, errors.As(err, &nilErr))
	assert.Equal(t, "collector", nilErr.Argument)
	h.EndTask()
}

func TestCollectNodeResource_CanExecuteTask(t *testing.T) {
	worker, _, _ := newWorker(t, 1, 2, 1, unit.GatherAndDeposit)
	collect := task.NewCollectNodeResourceTask(nil)

	depleted := newNode(t, "stump", shared.NewVector3(1, 0, 0), wood, 0, 0)
	full := newNode(t, "busy", shared.NewVector3(1, 0, 0), wood, 10, 1)
	other, _, _ := newWorker(t, 1, 2, 1, unit.GatherAndDeposit)
	full.Node().Assign(other)
	ok := newNode(t, "tree", shared.NewVector3(1, 0, 0), wood, 10, 1)

	input := task.CollectorInput{Collector: worker}
	assert.False(t, collect.CanExecuteTask(task.UnitInteractionContext{Target: depleted}, input))
	assert.False(t, collect.CanExecuteTask(task.UnitInteractionContext{Target: full}, input))
	assert.False(t, collect.CanExecuteTask(task.UnitInteractionContext{Target: ok, IsHostile: true}, input))
	assert.False(t, collect.CanExecuteTask(task.PositionContext{}, input))
	assert.True(t, collect.CanExecuteTask(task.UnitInteractionContext{Target: ok}, input))
	assert.Empty(t, ok.Node().Collectors(), "probing must not claim a slot")
}
