package world

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// arrivalTolerance is how close a mover must get to count as arrived
const arrivalTolerance = 1e-6

// LinearMover moves a unit in a straight line at constant speed. There is no
// pathfinding; obstacles do not exist in this world.
type LinearMover struct {
	unit        *unit.Unit
	speed       float64
	destination shared.Vector3
	moving      bool
	reached     bool
}

// NewLinearMover creates a mover and attaches it to u
func NewLinearMover(u *unit.Unit, speed float64) *LinearMover {
	m := &LinearMover{unit: u, speed: speed, destination: u.Position()}
	u.SetMovement(m)
	return m
}

func (m *LinearMover) Speed() float64              { return m.speed }
func (m *LinearMover) Destination() shared.Vector3 { return m.destination }
func (m *LinearMover) IsMoving() bool              { return m.moving }

// SetDestination starts moving toward position. Repeating the current
// destination does not reset progress.
func (m *LinearMover) SetDestination(position shared.Vector3) {
	if m.moving && m.destination == position {
		return
	}
	m.destination = position
	m.reached = m.unit.Position().DistanceTo(position) <= arrivalTolerance
	m.moving = !m.reached
}

func (m *LinearMover) HasReachedDestination() bool {
	return m.reached
}

// StopInCurrentPosition abandons the current destination
func (m *LinearMover) StopInCurrentPosition() {
	m.moving = false
	m.reached = false
	m.destination = m.unit.Position()
}

// Update steps the unit toward its destination
func (m *LinearMover) Update(deltaTime float64) {
	if !m.moving || deltaTime <= 0 || !m.unit.IsOperational() {
		return
	}
	next := m.unit.Position().MoveTowards(m.destination, m.speed*deltaTime)
	m.unit.SetPosition(next)
	if next.DistanceTo(m.destination) <= arrivalTolerance {
		m.unit.SetPosition(m.destination)
		m.moving = false
		m.reached = true
	}
}
