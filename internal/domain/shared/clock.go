package shared

import "time"

// Clock is an abstraction for time operations, allowing time to be mocked in tests
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// TimeEpsilon absorbs float drift when summed fixed steps should land exactly
// on a duration or interval boundary
const TimeEpsilon = 1e-9

// SimulationClock tracks game time advanced by ticks. Wall time is derived
// from a fixed origin so persisted events can be ordered by timestamp.
type SimulationClock struct {
	origin  time.Time
	elapsed float64
	ticks   int64
}

// NewSimulationClock creates a clock starting at origin.
// If zero time is provided, starts at the current UTC time
func NewSimulationClock(origin time.Time) *SimulationClock {
	if origin.IsZero() {
		origin = time.Now().UTC()
	}
	return &SimulationClock{origin: origin}
}

// Advance moves game time forward by delta seconds and counts one tick
func (c *SimulationClock) Advance(delta float64) {
	if delta < 0 {
		return
	}
	c.elapsed += delta
	c.ticks++
}

// Now returns origin + elapsed game time
func (c *SimulationClock) Now() time.Time {
	return c.origin.Add(time.Duration(c.elapsed * float64(time.Second)))
}

// Elapsed returns total game seconds
func (c *SimulationClock) Elapsed() float64 {
	return c.elapsed
}

// Ticks returns the number of ticks advanced so far
func (c *SimulationClock) Ticks() int64 {
	return c.ticks
}
