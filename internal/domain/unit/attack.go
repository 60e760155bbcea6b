package unit

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// DefaultRangeCheckInterval is how often attack handlers re-validate range.
// Targets rarely leave range within a fraction of a second.
const DefaultRangeCheckInterval = 0.3

// AttackStats configures the attack capability
type AttackStats struct {
	Damage             int
	MinRange           float64
	MaxRange           float64
	LineOfSight        float64
	ReloadTime         float64
	RangeCheckInterval float64

	// ManuallyTriggerAttack defers damage to whoever handles AttackPerformed
	// (projectiles, animations) instead of applying it immediately.
	ManuallyTriggerAttack bool

	// RequestsNewTarget makes attack handlers look for another enemy when
	// the current target is lost or leaves range.
	RequestsNewTarget bool
}

// AttackEvent describes one fired attack
type AttackEvent struct {
	Attacker *Unit
	Target   *Unit
	Damage   int
}

// Attack holds attack stats and the reload timer
type Attack struct {
	unit            *Unit
	stats           AttackStats
	reloadRemaining float64

	// AttackPerformed fires for every attack; when ManuallyTriggerAttack is
	// set, listeners are responsible for calling ApplyDamage.
	AttackPerformed shared.Event[AttackEvent]
}

func newAttack(u *Unit, stats AttackStats) *Attack {
	if stats.RangeCheckInterval <= 0 {
		stats.RangeCheckInterval = DefaultRangeCheckInterval
	}
	if stats.LineOfSight < stats.MaxRange {
		stats.LineOfSight = stats.MaxRange
	}
	return &Attack{unit: u, stats: stats}
}

func (a *Attack) Stats() AttackStats       { return a.stats }
func (a *Attack) ReloadRemaining() float64 { return a.reloadRemaining }

// IsReady reports whether the reload timer has elapsed
func (a *Attack) IsReady() bool {
	return a.reloadRemaining <= 0
}

// Tick advances the reload timer
func (a *Attack) Tick(deltaTime float64) {
	if a.reloadRemaining > 0 {
		a.reloadRemaining -= deltaTime
	}
}

// StartReload begins the cooldown after an attack
func (a *Attack) StartReload() {
	a.reloadRemaining = a.stats.ReloadTime
}

// ResetCooldown clears any pending reload
func (a *Attack) ResetCooldown() {
	a.reloadRemaining = 0
}

// CalculateDamage returns the damage one attack deals to target
func (a *Attack) CalculateDamage(target *Unit) int {
	if target == nil || target.Health() == nil {
		return 0
	}
	return a.stats.Damage
}

// IsInRange reports whether target lies within [MinRange, MaxRange]
func (a *Attack) IsInRange(target *Unit) bool {
	d := a.unit.Position().DistanceTo(target.Position())
	return d >= a.stats.MinRange && d <= a.stats.MaxRange
}

// ApplyDamage deducts damage from target's health on behalf of the attacker
func (a *Attack) ApplyDamage(target *Unit, damage int) int {
	if target == nil || !target.IsActive() || target.Health() == nil {
		return 0
	}
	return target.Health().Damage(damage, a.unit)
}
