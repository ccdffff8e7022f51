package animation

import (
	"errors"
	"fmt"
	"time"
)

// ErrStartInCompletion is returned by [Controller.Start] when called from the
// controller's own completion callback. Post the restart with
// [FrameScheduler.Dispatch] instead.
var ErrStartInCompletion = errors.New("animation: controller restarted from its own completion callback")

// AnimationStatus represents the current state of a controller.
//
//	            Start()            value reaches End
//	Idle ─────────────────► Running ──────────────────► Completed
//	                           │
//	                           │ Stop()
//	                           ▼
//	                        Stopped
type AnimationStatus int

const (
	// AnimationIdle means the controller has never been started.
	AnimationIdle AnimationStatus = iota
	// AnimationRunning means the controller is interpolating toward End.
	AnimationRunning
	// AnimationCompleted means the value reached End naturally.
	AnimationCompleted
	// AnimationStopped means Stop was called before the value reached End.
	AnimationStopped
)

// String returns a human-readable representation of the animation status.
func (s AnimationStatus) String() string {
	switch s {
	case AnimationIdle:
		return "idle"
	case AnimationRunning:
		return "running"
	case AnimationCompleted:
		return "completed"
	case AnimationStopped:
		return "stopped"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

// Controller interpolates Value from Begin to End over Duration, one frame
// at a time, and reports progress through callbacks.
//
// A controller runs once. OnUpdate fires on every frame while running,
// OnComplete fires when the value reaches End, and OnStop fires when Stop
// interrupts a running controller. Exactly one of OnComplete and OnStop
// fires per run.
//
// A non-positive Duration completes on the first frame without moving Value
// away from Begin.
type Controller struct {
	// Begin is the value at the start of the run.
	Begin float64
	// End is the value at the end of the run.
	End float64
	// Duration is the length of the run.
	Duration time.Duration
	// Curve transforms linear progress (optional, linear when nil).
	Curve Curve

	// OnUpdate receives the interpolated value each frame.
	OnUpdate func(value float64)
	// OnComplete fires once when the value reaches End.
	OnComplete func()
	// OnStop fires once when Stop interrupts the run.
	OnStop func()

	// Value is the current interpolated value.
	Value float64

	sched      FrameScheduler
	ticker     *Ticker
	status     AnimationStatus
	completing bool
}

// NewController creates a controller driven by sched. A nil sched uses the
// default scheduler.
func NewController(sched FrameScheduler, begin, end float64, duration time.Duration) *Controller {
	if sched == nil {
		sched = DefaultScheduler()
	}
	return &Controller{
		Begin:    begin,
		End:      end,
		Duration: duration,
		Value:    begin,
		sched:    sched,
	}
}

// Start begins interpolating from Begin. The first OnUpdate arrives on the
// next scheduler frame.
func (c *Controller) Start() error {
	if c.completing {
		return ErrStartInCompletion
	}
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.Value = c.Begin
	c.status = AnimationRunning
	c.ticker = c.sched.CreateTicker(c.tick)
	c.ticker.Start()
	return nil
}

func (c *Controller) tick(elapsed time.Duration) {
	if c.status != AnimationRunning {
		return
	}
	if c.Duration <= 0 {
		c.Value = c.Begin
		c.update()
		c.complete()
		return
	}

	progress := float64(elapsed) / float64(c.Duration)
	switch {
	case progress >= 1:
		c.Value = c.End
	case c.Curve == nil:
		c.Value = c.Begin + (c.End-c.Begin)*float64(elapsed)/float64(c.Duration)
	default:
		c.Value = LerpFloat64(c.Begin, c.End, c.Curve(progress))
	}
	c.update()

	if progress >= 1 {
		c.complete()
	}
}

func (c *Controller) update() {
	if c.OnUpdate != nil {
		c.OnUpdate(c.Value)
	}
}

func (c *Controller) complete() {
	c.release()
	c.status = AnimationCompleted
	if c.OnComplete == nil {
		return
	}
	c.completing = true
	defer func() { c.completing = false }()
	c.OnComplete()
}

// Stop interrupts a running controller at its current value and fires
// OnStop. Stopping a controller that is not running is a no-op.
func (c *Controller) Stop() {
	if c.status != AnimationRunning {
		return
	}
	c.release()
	c.status = AnimationStopped
	if c.OnStop != nil {
		c.OnStop()
	}
}

func (c *Controller) release() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the current animation status.
func (c *Controller) Status() AnimationStatus {
	return c.status
}

// IsAnimating returns true if the controller is running.
func (c *Controller) IsAnimating() bool {
	return c.status == AnimationRunning
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}
