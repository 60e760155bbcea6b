package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

func newUnit(t *testing.T, id string, owner int, template unit.Template) *unit.Unit {
	t.Helper()
	if template.Name == "" {
		template.Name = id
	}
	var player shared.PlayerID
	if owner > 0 {
		player = shared.MustNewPlayerID(owner)
	}
	u, err := unit.NewUnit(id, player, shared.Vector3{}, template)
	require.NoError(t, err)
	return u
}

func TestNewUnit_Validation(t *testing.T) {
	_, err := unit.NewUnit("", shared.MustNewPlayerID(1), shared.Vector3{}, unit.Template{Name: "x"})
	assert.Error(t, err)

	_, err = unit.NewUnit("u1", shared.MustNewPlayerID(1), shared.Vector3{}, unit.Template{Name: "x", Health: &unit.HealthStats{Max: 0}})
	assert.Error(t, err)

	_, err = unit.NewUnit("u1", shared.MustNewPlayerID(1), shared.Vector3{}, unit.Template{Name: "x", Collector: &unit.CollectorStats{Capacity: 1}})
	assert.Error(t, err, "collect interval is required")
}

func TestHealth_DamageDepletesAndDestroys(t *testing.T) {
	// Arrange
	u := newUnit(t, "footman", 1, unit.Template{Health: &unit.HealthStats{Max: 20}})
	var damaged []unit.HealthChange
	depleted, destroyed := 0, 0
	u.Health().Damaged.Subscribe(func(c unit.HealthChange) { damaged = append(damaged, c) })
	u.Health().Depleted.Subscribe(func(*unit.Unit) { depleted++ })
	u.Destroyed.Subscribe(func(*unit.Unit) { destroyed++ })

	// Act
	first := u.Health().Damage(15, nil)
	second := u.Health().Damage(15, nil)
	third := u.Health().Damage(15, nil)

	// Assert
	assert.Equal(t, 15, first)
	assert.Equal(t, 5, second, "damage is clamped to remaining health")
	assert.Equal(t, 0, third)
	require.Len(t, damaged, 2)
	assert.Equal(t, 0, damaged[1].Current)
	assert.Equal(t, 1, depleted)
	assert.Equal(t, 1, destroyed)
	assert.False(t, u.IsActive())
}

func TestHealth_HealIsClampedAndIgnoredWhenDepleted(t *testing.T) {
	u := newUnit(t, "footman", 1, unit.Template{Health: &unit.HealthStats{Max: 20, Initial: 10}})

	assert.Equal(t, 10, u.Health().Current())
	assert.Equal(t, 10, u.Health().Heal(50, nil))
	assert.True(t, u.Health().IsFull())
	assert.Equal(t, 0, u.Health().Heal(1, nil))

	u.Health().Damage(20, nil)
	assert.Equal(t, 0, u.Health().Heal(5, nil))
}

func TestHealth_RegenerationWaitsForDelayThenTicks(t *testing.T) {
	// Arrange
	u := newUnit(t, "footman", 1, unit.Template{Health: &unit.HealthStats{
		Max:                  100,
		RegenerationAmount:   5,
		RegenerationInterval: 1,
		RegenerationDelay:    3,
	}})
	u.Health().Damage(30, nil)

	// Act & Assert - still inside the delay
	u.Update(2.5)
	assert.Equal(t, 70, u.Health().Current())

	// 0.5 finishes the delay, the remaining 1.0 is one interval
	u.Update(1.5)
	assert.Equal(t, 75, u.Health().Current())

	u.Update(2)
	assert.Equal(t, 85, u.Health().Current())

	// damage restarts the delay
	u.Health().Damage(10, nil)
	u.Update(2)
	assert.Equal(t, 75, u.Health().Current())

	u.Update(100)
	assert.True(t, u.Health().IsFull())
}

func TestHealth_AttackerLimit(t *testing.T) {
	unlimited := newUnit(t, "a", 1, unit.Template{Health: &unit.HealthStats{Max: 10}})
	_, limited := unlimited.Health().AttackerLimit()
	assert.False(t, limited)

	guarded := newUnit(t, "b", 1, unit.Template{Health: &unit.HealthStats{Max: 10, MaxAttackers: 2}})
	limit, limited := guarded.Health().AttackerLimit()
	require.True(t, limited)

	x := newUnit(t, "x", 2, unit.Template{})
	y := newUnit(t, "y", 2, unit.Template{})
	z := newUnit(t, "z", 2, unit.Template{})
	assert.True(t, limit.Assign(x))
	assert.False(t, limit.Assign(x), "double assign is rejected")
	assert.True(t, limit.Assign(y))
	assert.True(t, limit.HasReachedLimit())
	assert.False(t, limit.Assign(z))
	assert.True(t, limit.Unassign(x))
	assert.False(t, limit.Unassign(x))
	assert.True(t, limit.Assign(z))
}

func TestUnit_Relationships(t *testing.T) {
	a := newUnit(t, "a", 1, unit.Template{})
	b := newUnit(t, "b", 1, unit.Template{})
	c := newUnit(t, "c", 2, unit.Template{})
	n := newUnit(t, "n", 0, unit.Template{})

	assert.True(t, a.IsAlly(b))
	assert.False(t, a.IsEnemy(b))
	assert.True(t, a.IsEnemy(c))
	assert.False(t, a.IsAlly(n))
	assert.False(t, a.IsEnemy(n), "neutral units are nobody's enemy")
	assert.False(t, n.IsAlly(n))
}
