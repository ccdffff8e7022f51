package sprite

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/go-drift/reel/pkg/animation"
	reelerrors "github.com/go-drift/reel/pkg/errors"
	"github.com/go-drift/reel/pkg/geometry"
)

// frameEpsilon absorbs float error when flooring the virtual frame, so a
// value like 3.9999999999999996 displays frame 4.
const frameEpsilon = 1e-9

// session is one run of the playback engine between two frames.
type session struct {
	generation uint64
	start, end int
	controller *animation.Controller
	playback   *Playback
}

// Sprite is a sprite-sheet animation bound to a viewport.
//
// Playback methods (Play, PlayRange, PlayPart, Stop, Mount, Update, Unmount)
// and the scheduler's frame loop must run on the same goroutine. Frame,
// Status, Bounds and View may be read from any goroutine, and resize
// notifications may arrive from any goroutine.
type Sprite struct {
	sheet    Sheet
	parts    map[string]Part
	loop     bool
	autoPlay bool
	debug    bool
	url      string
	curve    animation.Curve
	sched    animation.FrameScheduler
	log      zerolog.Logger

	// Playback state, owned by the frame loop.
	session        *session
	generation     uint64
	restartPending bool
	virtual        float64
	mounted        bool
	frame          atomic.Int64
	status         atomic.Int32

	// Geometry state, independent of playback.
	boundsMu  sync.Mutex
	container Container
	unobserve func()
	bounds    geometry.Bounds

	frameListeners    listenerSet[int]
	boundsListeners   listenerSet[geometry.Bounds]
	statusListeners   listenerSet[Status]
	completeListeners listenerSet[*Playback]
}

// New validates sheet and opts and returns an idle sprite.
func New(sheet Sheet, opts Options) (*Sprite, error) {
	if err := sheet.Validate(); err != nil {
		return nil, reelerrors.New("sprite.New", reelerrors.KindConfig, err)
	}
	parts := make(map[string]Part, len(opts.Parts))
	for name, p := range opts.Parts {
		if err := sheet.checkPart(name, p); err != nil {
			return nil, &reelerrors.ReelError{Op: "sprite.New", Kind: reelerrors.KindConfig, Part: name, Err: err}
		}
		parts[name] = p
	}

	s := &Sprite{
		sheet:    sheet,
		parts:    parts,
		loop:     boolOr(opts.Loop, true),
		autoPlay: boolOr(opts.AutoPlay, true),
		debug:    opts.Debug,
		url:      opts.URL,
		curve:    opts.Curve,
		sched:    opts.Scheduler,
		log:      zerolog.Nop(),
	}
	if s.sched == nil {
		s.sched = animation.DefaultScheduler()
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}
	return s, nil
}

// Sheet returns the sheet the sprite plays.
func (s *Sprite) Sheet() Sheet {
	return s.sheet
}

// Parts returns a copy of the named parts.
func (s *Sprite) Parts() map[string]Part {
	out := make(map[string]Part, len(s.parts))
	for name, p := range s.parts {
		out[name] = p
	}
	return out
}

// Loop reports whether completed sessions restart.
func (s *Sprite) Loop() bool {
	return s.loop
}

// SetLoop enables or disables looping. Disabling it drops a restart that is
// already queued.
func (s *Sprite) SetLoop(loop bool) {
	s.loop = loop
	if !loop && s.restartPending {
		s.restartPending = false
		s.generation++
	}
}

// Play plays the whole sheet, from frame 0 to the last frame.
func (s *Sprite) Play() *Playback {
	return s.play(0, s.sheet.LastFrame())
}

// PlayRange plays from start to end. Both must be valid frame indices.
// An end before start is accepted and completes on the next frame without
// advancing past start.
func (s *Sprite) PlayRange(start, end int) (*Playback, error) {
	for _, f := range [...]int{start, end} {
		if !s.sheet.Contains(f) {
			return nil, reelerrors.New("sprite.PlayRange", reelerrors.KindRange,
				fmt.Errorf("%w: %d not in [0, %d]", ErrFrameOutOfRange, f, s.sheet.LastFrame()))
		}
	}
	return s.play(start, end), nil
}

// PlayPart plays the named part.
func (s *Sprite) PlayPart(name string) (*Playback, error) {
	p, ok := s.parts[name]
	if !ok {
		return nil, &reelerrors.ReelError{Op: "sprite.PlayPart", Kind: reelerrors.KindPart, Part: name, Err: ErrUnknownPart}
	}
	return s.play(p.Start, p.End), nil
}

func (s *Sprite) play(start, end int) *Playback {
	s.Stop()

	s.generation++
	gen := s.generation
	duration := s.sheet.Duration(start, end)

	c := animation.NewController(s.sched, float64(start), float64(end), duration)
	c.Curve = s.curve
	c.OnUpdate = func(v float64) { s.onUpdate(gen, v) }
	c.OnComplete = func() { s.onComplete(gen) }

	sess := &session{
		generation: gen,
		start:      start,
		end:        end,
		controller: c,
		playback:   newPlayback(gen, start, end),
	}
	s.session = sess
	s.virtual = float64(start)
	s.setStatus(StatusPlaying)

	s.log.Debug().
		Uint64("generation", gen).
		Int("start", start).
		Int("end", end).
		Dur("duration", duration).
		Msg("play")

	// A fresh controller is never inside its own completion callback.
	_ = c.Start()
	return sess.playback
}

// Stop cancels the current session, resolving its Playback as stopped, and
// resets the displayed frame to 0. It also drops a pending loop restart.
// Stop is idempotent.
func (s *Sprite) Stop() {
	s.generation++
	stopped := s.restartPending
	s.restartPending = false

	if sess := s.session; sess != nil {
		s.session = nil
		sess.controller.Stop()
		sess.playback.resolve(ResultStopped)
		stopped = true
		s.log.Debug().Uint64("generation", sess.generation).Msg("stop")
	}
	if stopped {
		s.setStatus(StatusStopped)
	}
	s.virtual = 0
	s.setFrame(0)
}

func (s *Sprite) onUpdate(gen uint64, v float64) {
	if gen != s.generation {
		return
	}
	s.virtual = v
	s.setFrame(s.displayFrame(v))
}

func (s *Sprite) onComplete(gen uint64) {
	if gen != s.generation || s.session == nil {
		return
	}
	sess := s.session
	s.session = nil
	s.setStatus(StatusCompleted)
	s.log.Debug().Uint64("generation", gen).Msg("playback completed")

	// Listener panics must not keep the playback pending or stop the loop.
	s.completeListeners.notifyGuarded("sprite.CompleteListener", sess.playback)
	sess.playback.resolve(ResultCompleted)

	// A listener may have started or stopped playback.
	if !s.loop || gen != s.generation {
		return
	}
	// The controller that just finished cannot be restarted from inside its
	// own completion callback; restart on the next frame instead.
	s.restartPending = true
	s.sched.Dispatch(func() {
		if gen != s.generation || !s.restartPending {
			return
		}
		s.restartPending = false
		s.Play()
	})
}

func (s *Sprite) displayFrame(v float64) int {
	f := int(math.Floor(v + frameEpsilon))
	if f < 0 {
		return 0
	}
	if last := s.sheet.LastFrame(); f > last {
		return last
	}
	return f
}

func (s *Sprite) setFrame(f int) {
	if old := s.frame.Swap(int64(f)); old != int64(f) {
		s.frameListeners.notify(f)
	}
}

func (s *Sprite) setStatus(st Status) {
	if old := s.status.Swap(int32(st)); old != int32(st) {
		s.statusListeners.notify(st)
	}
}

// Frame returns the displayed frame index.
func (s *Sprite) Frame() int {
	return int(s.frame.Load())
}

// VirtualFrame returns the unfloored interpolation value. It is only
// meaningful on the frame loop goroutine.
func (s *Sprite) VirtualFrame() float64 {
	return s.virtual
}

// Status returns the playback status.
func (s *Sprite) Status() Status {
	return Status(s.status.Load())
}

// IsPlaying reports whether a session is advancing frames.
func (s *Sprite) IsPlaying() bool {
	return s.Status() == StatusPlaying
}

// Generation returns the current session generation. It changes on every
// play and stop.
func (s *Sprite) Generation() uint64 {
	return s.generation
}

// AddFrameListener registers fn to receive the displayed frame whenever it
// changes. Returns an unsubscribe function.
func (s *Sprite) AddFrameListener(fn func(frame int)) func() {
	return s.frameListeners.add(fn)
}

// AddStatusListener registers fn to receive status changes.
// Returns an unsubscribe function.
func (s *Sprite) AddStatusListener(fn func(Status)) func() {
	return s.statusListeners.add(fn)
}

// AddCompleteListener registers fn to run when a session reaches its end
// frame, before its Playback resolves. Stopped sessions do not notify.
// Returns an unsubscribe function.
func (s *Sprite) AddCompleteListener(fn func(*Playback)) func() {
	return s.completeListeners.add(fn)
}

// AddBoundsListener registers fn to receive newly fitted bounds. It may be
// called from the goroutine that delivered the resize. Returns an
// unsubscribe function.
func (s *Sprite) AddBoundsListener(fn func(geometry.Bounds)) func() {
	return s.boundsListeners.add(fn)
}
