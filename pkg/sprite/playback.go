package sprite

import (
	"context"
	"sync"
	"sync/atomic"
)

// Result is how a playback session ended.
type Result int32

const (
	// ResultPending means the session has not ended yet.
	ResultPending Result = iota
	// ResultCompleted means the session reached its end frame.
	ResultCompleted
	// ResultStopped means the session was cancelled or replaced.
	ResultStopped
)

func (r Result) String() string {
	switch r {
	case ResultCompleted:
		return "completed"
	case ResultStopped:
		return "stopped"
	default:
		return "pending"
	}
}

// Playback is the pending result of a play call. It resolves exactly once,
// when its session completes or is stopped.
type Playback struct {
	generation uint64
	start, end int

	done   chan struct{}
	once   sync.Once
	result atomic.Int32
}

func newPlayback(generation uint64, start, end int) *Playback {
	return &Playback{
		generation: generation,
		start:      start,
		end:        end,
		done:       make(chan struct{}),
	}
}

func (p *Playback) resolve(r Result) {
	p.once.Do(func() {
		p.result.Store(int32(r))
		close(p.done)
	})
}

// Done returns a channel that is closed when the playback resolves.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Result returns how the playback ended, or ResultPending.
func (p *Playback) Result() Result {
	return Result(p.result.Load())
}

// Completed reports whether the playback reached its end frame.
func (p *Playback) Completed() bool {
	return p.Result() == ResultCompleted
}

// Wait blocks until the playback resolves or ctx is done.
func (p *Playback) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.Result(), nil
	case <-ctx.Done():
		return ResultPending, ctx.Err()
	}
}

// Generation returns the session generation this playback belongs to.
func (p *Playback) Generation() uint64 {
	return p.generation
}

// Range returns the start and end frames of the session.
func (p *Playback) Range() (start, end int) {
	return p.start, p.end
}
