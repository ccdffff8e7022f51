package testing

import (
	"testing"
	"time"

	"github.com/go-drift/reel/pkg/animation"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_AdvanceIgnoresNegative(t *testing.T) {
	clk := NewFakeClock()
	clk.Advance(-time.Second)

	if clk.Elapsed() != 0 {
		t.Errorf("expected clock to stay at epoch, got %v", clk.Elapsed())
	}
}

func TestFakeClock_AdvanceFrames(t *testing.T) {
	tests := []struct {
		frames int
		fps    float64
		want   time.Duration
	}{
		{4, 8, 500 * time.Millisecond},
		{1, 60, 16666666 * time.Nanosecond},
		{3, 0, 0},
		{-2, 10, 0},
	}
	for _, tt := range tests {
		clk := NewFakeClock()
		clk.AdvanceFrames(tt.frames, tt.fps)
		if got := clk.Elapsed(); got != tt.want {
			t.Errorf("AdvanceFrames(%d, %v) = %v, want %v", tt.frames, tt.fps, got, tt.want)
		}
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestTester_Clock(t *testing.T) {
	tester := NewTesterWithT(t)
	clk := tester.Clock()

	if clk == nil {
		t.Fatal("expected non-nil clock")
	}

	start := clk.Now()
	clk.Advance(500 * time.Millisecond)
	if clk.Now().Sub(start) != 500*time.Millisecond {
		t.Error("clock advancement not reflected")
	}
}

func TestTester_InstallsPackageClock(t *testing.T) {
	tester := NewTester()
	if !animation.Now().Equal(tester.Clock().Now()) {
		t.Fatal("expected animation.Now to read the fake clock")
	}
	tester.Clock().Advance(time.Second)
	if !animation.Now().Equal(tester.Clock().Now()) {
		t.Fatal("expected animation.Now to follow the fake clock")
	}

	tester.Cleanup()
	if animation.Now().Equal(tester.Clock().Now()) {
		t.Error("expected cleanup to restore the previous clock")
	}
}

func TestController_ClockAdvance(t *testing.T) {
	tester := NewTesterWithT(t)
	c := animation.NewController(tester.Scheduler(), 50, 200, time.Second)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	tester.Pump()
	initial := c.Value

	tester.PumpFor(500 * time.Millisecond)
	if c.Value == initial {
		t.Errorf("expected value to change after advancing clock, still %v", c.Value)
	}
	if c.Value != 125 {
		t.Errorf("expected value 125 at halfway, got %v", c.Value)
	}

	tester.PumpFor(600 * time.Millisecond)
	if c.Value != 200 {
		t.Errorf("expected final value 200, got %v", c.Value)
	}
	if c.Status() != animation.AnimationCompleted {
		t.Errorf("expected completed, got %v", c.Status())
	}
}
