// Package sim provides the fixed-timestep simulation clock.
package sim

import "errors"

// DefaultTickMs is the tick duration used by the game session.
const DefaultTickMs = 50

// ErrZeroTick is returned when creating a clock with a zero tick duration.
var ErrZeroTick = errors.New("sim: tick duration must be positive")

// Clock turns variable frame intervals into a deterministic count of fixed ticks.
//
// Elapsed time is accumulated in whole milliseconds; whenever a full tick has
// accumulated it is consumed and the tick counter advances. Leftover time is
// carried forward, so the number of ticks only depends on the total time fed in,
// not on how it was split across calls.
//
// A Clock belongs to a single simulation session and is not safe for concurrent use.
type Clock struct {
	tickMs  uint64
	pending uint64 // always < tickMs
	ticks   uint64
}

// NewClock creates a clock with the given tick duration in milliseconds.
func NewClock(tickMs uint64) (*Clock, error) {
	if tickMs == 0 {
		return nil, ErrZeroTick
	}
	return &Clock{tickMs: tickMs}, nil
}

// Advance adds deltaMs of elapsed time and returns the number of ticks it completed.
func (c *Clock) Advance(deltaMs uint64) uint64 {
	return c.Step(deltaMs, nil)
}

// Step is like Advance but calls onTick once per completed tick, in order, with
// the tick's 1-based number. onTick may be nil.
func (c *Clock) Step(deltaMs uint64, onTick func(tick uint64)) uint64 {
	// Split delta first so pending+delta cannot overflow.
	n := deltaMs / c.tickMs
	c.pending += deltaMs % c.tickMs
	if c.pending >= c.tickMs {
		c.pending -= c.tickMs
		n++
	}

	if onTick == nil {
		c.ticks += n
		return n
	}
	for i := uint64(0); i < n; i++ {
		c.ticks++
		onTick(c.ticks)
	}
	return n
}

// Ticks returns the number of ticks completed since the clock was created.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Pending returns the accumulated time, in milliseconds, not yet consumed by a tick.
func (c *Clock) Pending() uint64 {
	return c.pending
}

// TickMs returns the tick duration in milliseconds.
func (c *Clock) TickMs() uint64 {
	return c.tickMs
}
