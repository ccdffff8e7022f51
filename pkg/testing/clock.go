package testing

import (
	"sync"
	"time"
)

// Epoch is where every FakeClock starts.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is an animation.Clock that only moves when told to. It is safe
// for concurrent use, so a test may advance it while a frame loop goroutine
// reads it.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock at Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: Epoch}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Elapsed returns how far the clock has moved from Epoch.
func (c *FakeClock) Elapsed() time.Duration {
	return c.Now().Sub(Epoch)
}

// Advance moves the clock forward by d. Negative values are ignored.
func (c *FakeClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// AdvanceFrames moves the clock forward by the duration of n sprite frames
// played at fps.
func (c *FakeClock) AdvanceFrames(n int, fps float64) {
	if !(fps > 0) {
		return
	}
	c.Advance(time.Duration(float64(n) * float64(time.Second) / fps))
}

// Set jumps the clock to t, which may be in the past.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
