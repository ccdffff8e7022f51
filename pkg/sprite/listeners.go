package sprite

import (
	"sync"

	reelerrors "github.com/go-drift/reel/pkg/errors"
)

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// listenerSet holds callbacks in registration order. Notification copies
// the set first, so listeners may unsubscribe themselves.
type listenerSet[T any] struct {
	mu      sync.Mutex
	entries []listenerEntry[T]
	nextID  int
}

func (l *listenerSet[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

func (l *listenerSet[T]) notify(v T) {
	l.mu.Lock()
	entries := l.entries
	l.mu.Unlock()
	for _, e := range entries {
		e.fn(v)
	}
}

// notifyGuarded is notify with each listener run under reelerrors.Guard, so
// a panicking listener is reported and the rest still run.
func (l *listenerSet[T]) notifyGuarded(op string, v T) {
	l.mu.Lock()
	entries := l.entries
	l.mu.Unlock()
	for _, e := range entries {
		reelerrors.Guard(op, func() { e.fn(v) })
	}
}
