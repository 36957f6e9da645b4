package reactive

import (
	"sync"

	"github.com/rs/xid"
)

// Event is a typed triggerable channel. Subscribers run inside the owning
// scope's propagation pass in registration order.
type Event[T any] struct {
	scope *Scope

	mu   sync.Mutex
	subs []watcher[T]
}

// NewEvent creates an event bound to scope.
func NewEvent[T any](scope *Scope) *Event[T] {
	return &Event[T]{scope: scope}
}

// Trigger fires the event with v. Safe to call from any goroutine; the
// subscribers execute within the scope's pass.
func (e *Event[T]) Trigger(v T) {
	e.scope.Dispatch(func() { e.emit(v) })
}

// Receive makes Event usable as a Sample target.
func (e *Event[T]) Receive(v T) { e.Trigger(v) }

// Subscribe registers fn to run on every trigger. The returned cancel
// function removes the subscription.
func (e *Event[T]) Subscribe(fn func(T)) (cancel func()) {
	id := xid.New().String()

	e.mu.Lock()
	e.subs = append(e.subs, watcher[T]{id: id, fn: fn})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Observe implements Source.
func (e *Event[T]) Observe(fn func()) (cancel func()) {
	return e.Subscribe(func(T) { fn() })
}

// emit runs subscribers directly. It must only run inside a scope pass.
func (e *Event[T]) emit(v T) {
	e.mu.Lock()
	snapshot := make([]watcher[T], len(e.subs))
	copy(snapshot, e.subs)
	e.mu.Unlock()

	for _, s := range snapshot {
		s.fn(v)
	}
}

// Sample wires clock to target: every clock trigger reads source's current
// value, passes both through fn and, when fn reports ok, delivers the result
// to target. The returned cancel function disconnects the wiring.
func Sample[C, S, R any](
	clock *Event[C],
	source *Store[S],
	fn func(clk C, src S) (R, bool),
	target Target[R],
) (cancel func()) {
	return clock.Subscribe(func(c C) {
		v, ok := fn(c, source.Get())
		if !ok {
			return
		}
		target.Receive(v)
	})
}
