package sprite

import (
	"sync"

	"github.com/go-drift/reel/pkg/geometry"
)

// Container is the host region a sprite is mounted into.
type Container interface {
	// Bounds returns the current container rectangle in pixels.
	Bounds() geometry.Bounds
	// Observe registers fn to be called, with no arguments, whenever the
	// container's size changes. The returned function cancels the
	// registration.
	Observe(fn func()) (cancel func())
}

// Mount attaches the sprite to c: it fits the initial bounds, starts
// observing resizes, and plays the whole sheet when AutoPlay is enabled.
// Mounting an already mounted sprite first unmounts it.
func (s *Sprite) Mount(c Container) {
	if s.mounted {
		s.Unmount()
	}
	s.boundsMu.Lock()
	s.container = c
	s.boundsMu.Unlock()

	s.updateBounds()
	cancel := c.Observe(s.updateBounds)

	s.boundsMu.Lock()
	s.unobserve = cancel
	s.boundsMu.Unlock()

	s.mounted = true
	if s.autoPlay {
		s.Play()
	}
}

// Update is called by the host after it changes the sprite's
// configuration. A sprite that is not playing restarts when both Loop and
// AutoPlay are enabled.
func (s *Sprite) Update() {
	if s.mounted && !s.IsPlaying() && s.loop && s.autoPlay {
		s.Play()
	}
}

// Unmount stops playback and releases the resize registration.
func (s *Sprite) Unmount() {
	s.Stop()

	s.boundsMu.Lock()
	cancel := s.unobserve
	s.unobserve = nil
	s.container = nil
	s.boundsMu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.mounted = false
}

// Mounted reports whether the sprite is attached to a container.
func (s *Sprite) Mounted() bool {
	return s.mounted
}

// updateBounds refits the sprite into its container. It touches only
// geometry state and may run concurrently with playback.
func (s *Sprite) updateBounds() {
	s.boundsMu.Lock()
	c := s.container
	s.boundsMu.Unlock()
	if c == nil {
		return
	}

	next := geometry.FitRatio(c.Bounds(), s.sheet.AspectRatio())

	s.boundsMu.Lock()
	changed := next != s.bounds
	s.bounds = next
	s.boundsMu.Unlock()

	if changed {
		s.boundsListeners.notify(next)
	}
}

// Bounds returns the fitted bounds of one cell inside the container.
func (s *Sprite) Bounds() geometry.Bounds {
	s.boundsMu.Lock()
	defer s.boundsMu.Unlock()
	return s.bounds
}

// Viewport is a Container whose size is set explicitly, for hosts that learn
// about resizes through their own events. It is anchored at the origin.
type Viewport struct {
	mu        sync.Mutex
	width     float64
	height    float64
	observers map[int]func()
	nextID    int
}

// NewViewport creates a viewport of the given size.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		width:     width,
		height:    height,
		observers: make(map[int]func()),
	}
}

// Bounds returns the viewport rectangle.
func (v *Viewport) Bounds() geometry.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	return geometry.BoundsFromSize(v.width, v.height)
}

// SetSize resizes the viewport and notifies observers if the size changed.
// Observers run on the calling goroutine, after the lock is released.
func (v *Viewport) SetSize(width, height float64) {
	v.mu.Lock()
	if v.width == width && v.height == height {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	observers := make([]func(), 0, len(v.observers))
	for id := 0; id < v.nextID; id++ {
		if fn, ok := v.observers[id]; ok {
			observers = append(observers, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// Observe registers fn for resize notifications.
func (v *Viewport) Observe(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.observers[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.observers, id)
	}
}

// Observers returns the number of registered observers.
func (v *Viewport) Observers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}
