package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/reel/pkg/animation"
)

// DefaultFrameInterval is the clock step used by PumpAndSettle and Record
// when no other interval is given. It matches a 60Hz display.
const DefaultFrameInterval = 16 * time.Millisecond

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: scheduler did not settle")

// Tester drives an isolated animation scheduler with a fake clock. Nothing
// advances unless the test calls Pump, so every frame is reproducible.
type Tester struct {
	clock     *FakeClock
	prevClock animation.Clock
	sched     *animation.Scheduler
	frames    int
}

// NewTester creates a tester with its own scheduler and fake clock. The fake
// clock is also installed as the animation package clock so code that calls
// animation.Now sees the same time. Call Cleanup() when done, or use
// NewTesterWithT() instead.
func NewTester() *Tester {
	clk := NewFakeClock()
	t := &Tester{
		clock: clk,
		sched: animation.NewScheduler(clk),
	}
	t.prevClock = animation.SetClock(clk)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup restores the animation package clock.
func (t *Tester) Cleanup() {
	animation.SetClock(t.prevClock)
}

// Clock returns the fake clock for advancing time in tests.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// Scheduler returns the scheduler pumped by this tester. Pass it to
// sprite.Options.Scheduler.
func (t *Tester) Scheduler() *animation.Scheduler {
	return t.sched
}

// Frames returns how many frames have been pumped.
func (t *Tester) Frames() int {
	return t.frames
}

// Pump runs a single frame: pending dispatches first, then tickers.
func (t *Tester) Pump() {
	t.frames++
	t.sched.StepFrame()
}

// PumpFor advances the clock by d and runs one frame.
func (t *Tester) PumpFor(d time.Duration) {
	t.clock.Advance(d)
	t.Pump()
}

// PumpAndSettle runs frames until no tickers are active and nothing is
// queued, or the timeout is reached. Each frame advances the fake clock by
// DefaultFrameInterval. A looping animation never settles.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(DefaultFrameInterval)
		elapsed += DefaultFrameInterval
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return t.sched.HasActiveTickers() || t.sched.HasPendingDispatches()
}

// Record pumps n frames, advancing the clock by step before each one, and
// samples the frame and status after every pump. The first sample is taken
// after a pump at the current time so a freshly started playback shows its
// first frame.
func (t *Tester) Record(n int, step time.Duration, sample func() (frame int, status string)) *Trace {
	trace := &Trace{}
	start := t.clock.Now()
	for i := 0; i < n; i++ {
		if i > 0 {
			t.clock.Advance(step)
		}
		t.Pump()
		frame, status := sample()
		trace.Add(t.clock.Now().Sub(start), frame, status)
	}
	return trace
}
