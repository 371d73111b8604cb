package engine

import "time"

// Clock abstracts the monotonic time source so session timing can be driven
// manually in tests. time.Time carries a monotonic component on this path.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a test clock advanced explicitly.
type ManualClock struct {
	Current time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{Current: start}
}

func (c *ManualClock) Now() time.Time { return c.Current }

// Advance moves the clock forward and returns the new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.Current = c.Current.Add(d)
	return c.Current
}
