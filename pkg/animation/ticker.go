package animation

import "time"

// Ticker fires a callback once per frame of its Scheduler while active.
// Its methods must be called from the goroutine that steps the scheduler.
type Ticker struct {
	sched    *Scheduler
	callback func(elapsed time.Duration)
	isActive bool
	start    time.Time
	ticks    int
}

// NewTicker creates an inactive ticker on the default scheduler.
func NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return DefaultScheduler().CreateTicker(callback)
}

// Start activates the ticker and resets its elapsed time and tick count.
// Its first callback comes on the next frame, with the time since Start.
// Starting an active ticker does nothing.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = t.sched.now()
	t.ticks = 0
	t.sched.register(t)
}

// Stop deactivates the ticker. If it was already collected for the frame
// being stepped, it is skipped.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	t.sched.unregister(t)
}

// fire runs one tick at now. Inactive tickers are skipped.
func (t *Ticker) fire(now time.Time) {
	if !t.isActive || t.callback == nil {
		return
	}
	t.ticks++
	t.callback(now.Sub(t.start))
}

// IsActive reports whether the ticker is started.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// Ticks returns how many callbacks the ticker has received since Start.
func (t *Ticker) Ticks() int {
	return t.ticks
}

// Elapsed returns the scheduler-clock time since Start, or 0 when stopped.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive {
		return 0
	}
	return t.sched.now().Sub(t.start)
}
