package capture

import "time"

// Clock measures the per-iteration frame rate: FPS is the inverse of the
// time since the last Tick.
type Clock struct {
	now  func() time.Time
	tick time.Time
}

// NewClock creates a Clock on the wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockWith creates a Clock reading time from now.
func NewClockWith(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Tick marks the start of an iteration.
func (c *Clock) Tick() {
	c.tick = c.now()
}

// FPS returns the rate implied by the time since the last Tick, or 0 when
// there has been no Tick or no time has passed.
func (c *Clock) FPS() float64 {
	if c.tick.IsZero() {
		return 0
	}
	elapsed := c.now().Sub(c.tick)
	if elapsed <= 0 {
		return 0
	}
	return float64(time.Second) / float64(elapsed)
}

// Reset forgets the last Tick.
func (c *Clock) Reset() {
	c.tick = time.Time{}
}
