package conversation

import (
	"sync"
	"time"
)

// Clock supplies persistence timestamps.
type Clock interface {
	Now() time.Time
}

// MonotonicClock returns strictly increasing UTC timestamps at microsecond
// resolution, which is what PostgreSQL timestamptz stores.
type MonotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewMonotonicClock creates a clock backed by time.Now.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// Now returns a timestamp strictly after every previously returned one.
func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

var processClock = NewMonotonicClock()

// ProcessClock returns the clock shared by every service in the process.
func ProcessClock() Clock {
	return processClock
}
