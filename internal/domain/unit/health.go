package unit

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// HealthStats configures the health capability
type HealthStats struct {
	Max     int
	Initial int // 0 means start at Max

	// Regeneration: after RegenerationDelay seconds without damage, heal
	// RegenerationAmount every RegenerationInterval seconds until full.
	RegenerationAmount   int
	RegenerationInterval float64
	RegenerationDelay    float64

	// MaxAttackers > 0 makes the unit a limited attack target
	MaxAttackers int
}

// HealthChange describes one damage or heal application
type HealthChange struct {
	Unit    *Unit
	Source  *Unit
	Amount  int
	Current int
}

// Health tracks hit points. Regeneration is a timed state advanced by Update
// instead of a suspended routine.
type Health struct {
	unit    *Unit
	current int
	max     int

	regenAmount       int
	regenInterval     float64
	regenDelay        float64
	delayRemaining    float64
	intervalRemaining float64

	attackers *Slots

	Damaged  shared.Event[HealthChange]
	Healed   shared.Event[HealthChange]
	Depleted shared.Event[*Unit]
}

func newHealth(u *Unit, stats HealthStats) (*Health, error) {
	if stats.Max <= 0 {
		return nil, shared.NewValidationError("health.max", "must be positive")
	}
	current := stats.Initial
	if current <= 0 || current > stats.Max {
		current = stats.Max
	}

	h := &Health{
		unit:              u,
		current:           current,
		max:               stats.Max,
		regenAmount:       stats.RegenerationAmount,
		regenInterval:     stats.RegenerationInterval,
		regenDelay:        stats.RegenerationDelay,
		intervalRemaining: stats.RegenerationInterval,
	}
	if stats.MaxAttackers > 0 {
		h.attackers = NewSlots(stats.MaxAttackers)
	}
	return h, nil
}

func (h *Health) Current() int { return h.current }
func (h *Health) Max() int     { return h.max }

func (h *Health) IsDepleted() bool { return h.current <= 0 }
func (h *Health) IsFull() bool     { return h.current >= h.max }

// Ratio returns current/max in [0,1]
func (h *Health) Ratio() float64 {
	return float64(h.current) / float64(h.max)
}

// AttackerLimit returns the attacker slots if this unit caps concurrent attackers
func (h *Health) AttackerLimit() (LimitedInteractionTarget, bool) {
	if h.attackers == nil {
		return nil, false
	}
	return h.attackers, true
}

// Damage removes up to amount hit points and returns how many were removed.
// Reaching zero raises Depleted and destroys the unit.
func (h *Health) Damage(amount int, source *Unit) int {
	if amount <= 0 || h.IsDepleted() {
		return 0
	}
	if amount > h.current {
		amount = h.current
	}
	h.current -= amount
	h.delayRemaining = h.regenDelay
	h.intervalRemaining = h.regenInterval

	h.Damaged.Invoke(HealthChange{Unit: h.unit, Source: source, Amount: amount, Current: h.current})

	if h.current == 0 {
		h.Depleted.Invoke(h.unit)
		h.unit.Destroy()
	}
	return amount
}

// Heal restores up to amount hit points and returns how many were restored.
// Depleted units cannot be healed.
func (h *Health) Heal(amount int, source *Unit) int {
	if amount <= 0 || h.IsDepleted() || h.IsFull() {
		return 0
	}
	if h.current+amount > h.max {
		amount = h.max - h.current
	}
	h.current += amount
	h.Healed.Invoke(HealthChange{Unit: h.unit, Source: source, Amount: amount, Current: h.current})
	return amount
}

// Update advances regeneration by deltaTime seconds
func (h *Health) Update(deltaTime float64) {
	if h.regenAmount <= 0 || h.regenInterval <= 0 || h.IsDepleted() || h.IsFull() {
		return
	}

	if h.delayRemaining > 0 {
		h.delayRemaining -= deltaTime
		if h.delayRemaining > 0 {
			return
		}
		deltaTime = -h.delayRemaining
		h.delayRemaining = 0
	}

	h.intervalRemaining -= deltaTime
	for h.intervalRemaining <= 0 && !h.IsFull() {
		h.Heal(h.regenAmount, h.unit)
		h.intervalRemaining += h.regenInterval
	}
	if h.IsFull() {
		h.intervalRemaining = h.regenInterval
	}
}
