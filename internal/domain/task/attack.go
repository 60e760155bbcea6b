package task

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// attackBehavior specializes the shared attack loop
type attackBehavior interface {
	// canEngage filters targets beyond the common hostility checks
	canEngage(h *AttackTargetHandler, target *unit.Unit) bool
	// searchRange bounds replacement target queries
	searchRange(h *AttackTargetHandler) float64
	// inRange runs when a range check finds the target in range
	inRange(h *AttackTargetHandler)
	// outOfRange runs when a range check fails; false drops the target
	outOfRange(h *AttackTargetHandler) bool
	// stop runs once from EndTask
	stop(h *AttackTargetHandler)
}

// canAttack holds the checks shared by every attack task
func canAttack(ctx Context, input Input) (AttackInput, *unit.Unit, bool) {
	uc, ok := targetOf(ctx)
	if !ok || !uc.IsHostile {
		return AttackInput{}, nil, false
	}
	in, ok := input.(AttackInput)
	if !ok || !in.Attacker.IsOperational() || in.Attacker.Attack() == nil {
		return AttackInput{}, nil, false
	}
	if !isAttackable(in.Attacker, uc.Target) {
		return AttackInput{}, nil, false
	}
	if limit, limited := uc.Target.Health().AttackerLimit(); limited && limit.HasReachedLimit() {
		return AttackInput{}, nil, false
	}
	return in, uc.Target, true
}

func isAttackable(attacker, target *unit.Unit) bool {
	if target == attacker || !target.IsActive() || target.Health() == nil || target.Health().IsDepleted() {
		return false
	}
	return !attacker.IsAlly(target)
}

// StationaryAttackTargetTask attacks a target already in range without moving
type StationaryAttackTargetTask struct{}

func NewStationaryAttackTargetTask() *StationaryAttackTargetTask {
	return &StationaryAttackTargetTask{}
}

func (t *StationaryAttackTargetTask) CanExecuteTask(ctx Context, input Input) bool {
	in, target, ok := canAttack(ctx, input)
	return ok && in.Attacker.Attack().IsInRange(target)
}

func (t *StationaryAttackTargetTask) CreateHandler() Handler {
	return newAttackTargetHandler(stationaryBehavior{})
}

// AttackTargetTask chases a target within line of sight and attacks it once
// in range. It requires the attacker to have movement.
type AttackTargetTask struct{}

func NewAttackTargetTask() *AttackTargetTask {
	return &AttackTargetTask{}
}

func (t *AttackTargetTask) CanExecuteTask(ctx Context, input Input) bool {
	in, target, ok := canAttack(ctx, input)
	if !ok || in.Attacker.Movement() == nil {
		return false
	}
	return withinChaseBand(in.Attacker, target)
}

// withinChaseBand reports whether target is in line of sight and not inside
// the attacker's minimum range. Closing in on a target inside MinRange only
// brings it closer, so such targets are never chased.
func withinChaseBand(attacker, target *unit.Unit) bool {
	stats := attacker.Attack().Stats()
	d := attacker.Position().DistanceTo(target.Position())
	return d >= stats.MinRange && d <= stats.LineOfSight
}

func (t *AttackTargetTask) CreateHandler() Handler {
	return newAttackTargetHandler(&chaseBehavior{})
}

// AttackTargetHandler is the attack loop shared by stationary and chasing
// attacks. Range is re-validated every RangeCheckInterval rather than every
// tick.
type AttackTargetHandler struct {
	behavior attackBehavior

	attacker *unit.Unit
	attack   *unit.Attack
	combat   CombatModule

	target  *unit.Unit
	claim   unit.LimitedInteractionTarget
	inRange bool

	rangeCheckRemaining float64
	attacks             int
	finished            bool
	ended               bool
}

func newAttackTargetHandler(b attackBehavior) *AttackTargetHandler {
	return &AttackTargetHandler{behavior: b}
}

func (h *AttackTargetHandler) StartTask(ctx Context, input Input) error {
	in, err := startArgs(ctx, input, func(in AttackInput) *unit.Unit { return in.Attacker }, "attacker")
	if err != nil {
		return err
	}
	uc, ok := targetOf(ctx)
	if !ok {
		return shared.NewInvalidArgumentError("context", "attack requires a target unit")
	}
	if in.Attacker.Attack() == nil {
		return shared.NewInvalidArgumentError("attacker", "unit has no attack capability")
	}

	h.attacker = in.Attacker
	h.attack = in.Attacker.Attack()
	h.combat = in.Combat

	if !h.acquire(uc.Target) {
		h.finished = true
	}
	return nil
}

// acquire claims target if it is capacity limited and makes it current
func (h *AttackTargetHandler) acquire(target *unit.Unit) bool {
	if target == nil || !isAttackable(h.attacker, target) || !h.behavior.canEngage(h, target) {
		return false
	}
	if limit, limited := target.Health().AttackerLimit(); limited {
		if !limit.Assign(h.attacker) {
			return false
		}
		h.claim = limit
	}
	h.target = target
	h.inRange = false
	h.rangeCheckRemaining = 0
	return true
}

func (h *AttackTargetHandler) release() {
	if h.claim != nil {
		h.claim.Unassign(h.attacker)
		h.claim = nil
	}
	h.target = nil
	h.inRange = false
}

func (h *AttackTargetHandler) UpdateTask(deltaTime float64) {
	if h.finished {
		return
	}
	if !h.attacker.IsOperational() {
		h.finished = true
		return
	}

	h.attack.Tick(deltaTime)

	if !isAttackable(h.attacker, h.target) {
		h.retargetOrFinish()
		return
	}

	h.rangeCheckRemaining -= deltaTime
	if h.rangeCheckRemaining <= 0 {
		h.rangeCheckRemaining = h.attack.Stats().RangeCheckInterval
		h.inRange = h.attack.IsInRange(h.target)
		if h.inRange {
			h.behavior.inRange(h)
		} else if !h.behavior.outOfRange(h) {
			h.retargetOrFinish()
			return
		}
	}

	if h.inRange && h.attack.IsReady() {
		h.performAttack()
	}
}

// retargetOrFinish drops the current target and, when the attacker asks for
// new targets, tries the nearest enemy before giving up
func (h *AttackTargetHandler) retargetOrFinish() {
	h.release()
	if h.attack.Stats().RequestsNewTarget && h.combat != nil {
		found, enemy := h.combat.FindNearestEnemy(h.attacker, h.behavior.searchRange(h))
		if found && h.acquire(enemy) {
			return
		}
	}
	h.finished = true
}

// performAttack computes damage once, starts the reload, then either applies
// the damage or leaves it to AttackPerformed listeners
func (h *AttackTargetHandler) performAttack() {
	damage := h.attack.CalculateDamage(h.target)
	h.attack.StartReload()
	h.attacks++

	event := unit.AttackEvent{Attacker: h.attacker, Target: h.target, Damage: damage}
	if !h.attack.Stats().ManuallyTriggerAttack {
		h.attack.ApplyDamage(h.target, damage)
	}
	h.attack.AttackPerformed.Invoke(event)
}

func (h *AttackTargetHandler) IsFinished() bool   { return h.finished }
func (h *AttackTargetHandler) Target() *unit.Unit { return h.target }
func (h *AttackTargetHandler) Attacks() int       { return h.attacks }

func (h *AttackTargetHandler) EndTask() {
	if h.ended {
		return
	}
	h.ended = true
	if h.attacker == nil {
		return
	}
	h.release()
	h.attack.ResetCooldown()
	h.behavior.stop(h)
}

type stationaryBehavior struct{}

func (stationaryBehavior) canEngage(h *AttackTargetHandler, target *unit.Unit) bool {
	return h.attack.IsInRange(target)
}

func (stationaryBehavior) searchRange(h *AttackTargetHandler) float64 {
	return h.attack.Stats().MaxRange
}

func (stationaryBehavior) inRange(*AttackTargetHandler)         {}
func (stationaryBehavior) outOfRange(*AttackTargetHandler) bool { return false }
func (stationaryBehavior) stop(*AttackTargetHandler)            {}

type chaseBehavior struct {
	chasing bool
}

func (b *chaseBehavior) canEngage(h *AttackTargetHandler, target *unit.Unit) bool {
	if h.attacker.Movement() == nil {
		return h.attack.IsInRange(target)
	}
	return withinChaseBand(h.attacker, target)
}

func (b *chaseBehavior) searchRange(h *AttackTargetHandler) float64 {
	return h.attack.Stats().LineOfSight
}

func (b *chaseBehavior) inRange(h *AttackTargetHandler) {
	if b.chasing {
		h.attacker.Movement().StopInCurrentPosition()
		b.chasing = false
	}
}

func (b *chaseBehavior) outOfRange(h *AttackTargetHandler) bool {
	movement := h.attacker.Movement()
	if movement == nil {
		return false
	}
	if !withinChaseBand(h.attacker, h.target) {
		return false
	}
	movement.SetDestination(h.target.Position())
	b.chasing = true
	return true
}

func (b *chaseBehavior) stop(h *AttackTargetHandler) {
	if b.chasing && h.attacker.Movement() != nil {
		h.attacker.Movement().StopInCurrentPosition()
	}
	b.chasing = false
}
