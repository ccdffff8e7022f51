package animation_test

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/reel/pkg/animation"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

// This example drives a controller frame by frame with a manual clock.
func ExampleController() {
	clk := &stepClock{now: time.Unix(0, 0)}
	sched := animation.NewScheduler(clk)

	c := animation.NewController(sched, 0, 7, 875*time.Millisecond)
	c.OnUpdate = func(v float64) {
		fmt.Printf("frame %d\n", int(math.Floor(v+1e-9)))
	}
	c.OnComplete = func() {
		fmt.Println("complete")
	}
	_ = c.Start()

	for i := 0; i < 5; i++ {
		sched.StepFrame()
		clk.now = clk.now.Add(250 * time.Millisecond)
	}

	// Output:
	// frame 0
	// frame 2
	// frame 4
	// frame 6
	// frame 7
	// complete
}

// This example shows how to loop a controller by restarting it from the
// dispatch queue rather than from inside its completion callback.
func ExampleScheduler_Dispatch() {
	clk := &stepClock{now: time.Unix(0, 0)}
	sched := animation.NewScheduler(clk)

	runs := 0
	c := animation.NewController(sched, 0, 1, 100*time.Millisecond)
	c.OnComplete = func() {
		runs++
		if runs < 3 {
			sched.Dispatch(func() { _ = c.Start() })
		}
	}
	_ = c.Start()

	for i := 0; i < 10; i++ {
		clk.now = clk.now.Add(100 * time.Millisecond)
		sched.StepFrame()
	}
	fmt.Println("runs:", runs)

	// Output:
	// runs: 3
}

// This example resolves an easing curve from configuration.
func ExampleCurveByName() {
	curve, ok := animation.CurveByName("in-out-quad")
	fmt.Println(ok)
	fmt.Printf("%.3f %.3f %.3f\n", curve(0), curve(0.5), curve(1))

	// Output:
	// true
	// 0.000 0.500 1.000
}
