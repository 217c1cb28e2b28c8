package timer

import (
	"sort"
	"sync"
	"time"
)

// Clock schedules callbacks. Production code uses RealClock; tests use
// FakeClock to fire callbacks deterministically.
type Clock interface {
	// AfterFunc calls f once after d. The returned Cancel stops a call
	// that has not fired yet.
	AfterFunc(d time.Duration, f func()) Cancel
}

// Cancel stops a pending AfterFunc call. Stop reports whether the call
// was prevented.
type Cancel interface {
	Stop() bool
}

// RealClock is backed by time.AfterFunc.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Cancel {
	return time.AfterFunc(d, f)
}

// FakeClock fires callbacks only when Advance moves its time past their
// deadline. Callbacks run synchronously inside Advance.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*fakeCall
}

type fakeCall struct {
	clock   *FakeClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
}

func (c *fakeCall) Stop() bool {
	c.clock.mu.Lock()
	defer c.clock.mu.Unlock()
	for i, p := range c.clock.pending {
		if p == c {
			c.clock.pending = append(c.clock.pending[:i], c.clock.pending[i+1:]...)
			c.stopped = true
			return true
		}
	}
	return false
}

// NewFakeClock returns a FakeClock at time zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// AfterFunc implements Clock.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Cancel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	call := &fakeCall{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, call)
	return call
}

// Advance moves the clock forward by d, firing every callback that falls
// due, including ones scheduled by callbacks during the advance.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.Slice(c.pending, func(i, j int) bool {
			if c.pending[i].at != c.pending[j].at {
				return c.pending[i].at < c.pending[j].at
			}
			return c.pending[i].seq < c.pending[j].seq
		})
		if len(c.pending) == 0 || c.pending[0].at > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of callbacks waiting to fire.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
