package clock

import "time"

// Clock is the time source for everything that stamps or schedules
// profile activity. Tests substitute a mock to drive time by hand.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by the system time.
type RealClock struct{}

// New returns a RealClock.
func New() *RealClock {
	return &RealClock{}
}

// Now reports the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}
