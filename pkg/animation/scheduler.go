package animation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-drift/reel/pkg/errors"
)

// FrameScheduler is what playback code needs from a frame loop: tickers that
// fire once per frame, and a queue of callbacks that run at the start of the
// next frame.
type FrameScheduler interface {
	CreateTicker(callback func(elapsed time.Duration)) *Ticker
	Dispatch(callback func())
}

// Scheduler owns a set of tickers and a dispatch queue and advances both one
// frame at a time.
//
// Each frame first runs the callbacks dispatched during the previous frame,
// in the order they were posted, then steps every active ticker in the order
// it was started. Work dispatched from inside a ticker callback therefore
// never runs in the same frame. All methods are safe for concurrent use, but
// StepFrame must only be called from one goroutine at a time.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	tickers []*Ticker
	queue   []func()
}

// NewScheduler creates a scheduler that reads time from c. A nil clock uses
// the package clock, so SetClock still applies.
func NewScheduler(c Clock) *Scheduler {
	return &Scheduler{clock: c}
}

var defaultScheduler = NewScheduler(nil)

// DefaultScheduler returns the process-wide scheduler used by NewTicker and
// the package-level StepTickers helpers.
func DefaultScheduler() *Scheduler {
	return defaultScheduler
}

func (s *Scheduler) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return Now()
}

// CreateTicker creates an inactive ticker owned by s.
func (s *Scheduler) CreateTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{sched: s, callback: callback}
}

// Dispatch queues callback to run at the start of the next frame.
func (s *Scheduler) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, callback)
	s.mu.Unlock()
}

func (s *Scheduler) register(t *Ticker) {
	s.mu.Lock()
	s.tickers = append(s.tickers, t)
	s.mu.Unlock()
}

func (s *Scheduler) unregister(t *Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.tickers {
		if other == t {
			s.tickers = append(s.tickers[:i], s.tickers[i+1:]...)
			return
		}
	}
}

// StepFrame runs one frame: pending dispatches, then tickers.
func (s *Scheduler) StepFrame() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, callback := range queue {
		s.invoke("animation.Dispatch", callback)
	}
	s.StepTickers()
}

// StepTickers advances all active tickers without draining the dispatch
// queue.
func (s *Scheduler) StepTickers() {
	s.mu.Lock()
	if len(s.tickers) == 0 {
		s.mu.Unlock()
		return
	}
	// Copy to avoid holding the lock during callbacks.
	tickers := make([]*Ticker, len(s.tickers))
	copy(tickers, s.tickers)
	s.mu.Unlock()

	now := s.now()
	for _, ticker := range tickers {
		// A callback earlier in this frame may have stopped it.
		s.invoke("animation.Ticker", func() { ticker.fire(now) })
	}
}

func (s *Scheduler) invoke(op string, fn func()) {
	errors.Guard(op, fn)
}

// HasActiveTickers returns true if any tickers are active.
func (s *Scheduler) HasActiveTickers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickers) > 0
}

// HasPendingDispatches returns true if callbacks are waiting for the next
// frame.
func (s *Scheduler) HasPendingDispatches() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) > 0
}

// Run steps frames at the given rate until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, fps float64) error {
	if !(fps > 0) {
		return fmt.Errorf("animation: invalid frame rate %v", fps)
	}
	// Rates above 1GHz round to a zero interval.
	interval := max(time.Duration(float64(time.Second)/fps), time.Nanosecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.StepFrame()
		}
	}
}

// StepTickers advances all active tickers on the default scheduler.
func StepTickers() {
	defaultScheduler.StepTickers()
}

// StepFrame runs one frame of the default scheduler.
func StepFrame() {
	defaultScheduler.StepFrame()
}

// HasActiveTickers returns true if the default scheduler has active tickers.
func HasActiveTickers() bool {
	return defaultScheduler.HasActiveTickers()
}

// Dispatch queues callback on the default scheduler.
func Dispatch(callback func()) {
	defaultScheduler.Dispatch(callback)
}
