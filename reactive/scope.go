// Package reactive provides the observable primitives the lingo binding is
// built on: stores (observable cells), events (typed triggerable channels),
// effects (asynchronous tasks whose outcomes surface as events) and the
// combinators that derive one value from others.
//
// All propagation is serialized through a Scope. A trigger fired from outside
// a propagation pass runs the pass inline; a trigger fired from inside a pass
// is queued and runs before the pass completes. Consumers therefore observe a
// single, ordered stream of updates without taking locks of their own.
package reactive

import "sync"

// Scope serializes all store updates and event triggers belonging to one
// reactive graph. Stores, events and effects created against the same scope
// propagate in a single ordered pass.
type Scope struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Dispatch schedules fn on the scope's propagation queue. When no pass is in
// flight the calling goroutine drains the queue inline, so external triggers
// behave synchronously. When a pass is already draining, fn is appended and
// runs before that pass returns.
func (s *Scope) Dispatch(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	if s.draining {
		s.mu.Unlock()
		return
	}

	s.draining = true
	for {
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}

		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		next()

		s.mu.Lock()
	}
}

// Bind wraps fn so it can be invoked from any goroutine, typically an
// asynchronous callback, and still execute inside this scope's propagation
// pass.
func (s *Scope) Bind(fn func()) func() {
	return func() { s.Dispatch(fn) }
}

// Bind is the typed variant of Scope.Bind for callbacks carrying a payload.
func Bind[T any](s *Scope, fn func(T)) func(T) {
	return func(v T) {
		s.Dispatch(func() { fn(v) })
	}
}
