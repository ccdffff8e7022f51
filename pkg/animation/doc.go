// Package animation provides the timing primitives behind sprite playback.
//
// # Core Components
//
//   - [Scheduler]: a cooperative frame loop. Each call to StepFrame runs the
//     callbacks queued with Dispatch, then steps every active [Ticker].
//
//   - [Controller]: interpolates a float from Begin to End over a Duration,
//     firing OnUpdate every frame and exactly one of OnComplete or OnStop.
//
//   - [Curve]: easing functions that reshape linear progress. Use
//     [CurveByName] to resolve names from configuration.
//
// # Basic Usage
//
//	sched := animation.NewScheduler(nil)
//	c := animation.NewController(sched, 0, 7, 875*time.Millisecond)
//	c.OnUpdate = func(v float64) { frame = int(math.Floor(v)) }
//	c.OnComplete = func() {
//	    // Restarting c here returns ErrStartInCompletion; queue it instead.
//	    sched.Dispatch(func() { _ = c.Start() })
//	}
//	_ = c.Start()
//	go sched.Run(ctx, 60)
//
// Tests pass a fake [Clock] to NewScheduler and call StepFrame directly.
package animation
