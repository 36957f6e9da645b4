package reactive

import (
	"sync"

	"github.com/rs/xid"
)

// Source is anything that can notify a dependent when it may have changed.
// Both Store and Event satisfy it, which lets Derive treat a mixed set of
// dependencies uniformly.
type Source interface {
	// Observe registers fn to run on every update. The returned cancel
	// function removes the registration.
	Observe(fn func()) (cancel func())
}

// Target is anything that can consume a sampled value: an event, a store or
// an effect trigger.
type Target[T any] interface {
	Receive(v T)
}

type watcher[T any] struct {
	id string
	fn func(T)
}

// Store is an observable cell. Reads are safe from any goroutine; updates
// propagate synchronously to watchers and derived stores within the owning
// scope's pass.
type Store[T any] struct {
	scope *Scope

	mu       sync.RWMutex
	value    T
	watchers []watcher[T]
	updates  *Event[T]
}

// NewStore creates a store holding initial.
func NewStore[T any](scope *Scope, initial T) *Store[T] {
	return &Store[T]{scope: scope, value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the current value and notifies watchers. When called from
// outside a propagation pass the update is applied before Set returns; when
// called from inside one it is queued onto the same pass.
func (s *Store[T]) Set(v T) {
	s.scope.Dispatch(func() { s.apply(v) })
}

// Receive makes Store usable as a Sample target.
func (s *Store[T]) Receive(v T) { s.Set(v) }

// Watch invokes fn immediately with the current value and again after every
// update. The returned cancel function removes the watcher.
func (s *Store[T]) Watch(fn func(T)) (cancel func()) {
	cancel = s.subscribe(fn)
	fn(s.Get())
	return cancel
}

// Observe implements Source.
func (s *Store[T]) Observe(fn func()) (cancel func()) {
	return s.subscribe(func(T) { fn() })
}

// Updates exposes the store's change stream as an event. The event fires
// after watchers have run for the same update.
func (s *Store[T]) Updates() *Event[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updates == nil {
		s.updates = NewEvent[T](s.scope)
	}
	return s.updates
}

// apply mutates the value and notifies dependents. It must only run inside a
// scope pass.
func (s *Store[T]) apply(v T) {
	s.mu.Lock()
	s.value = v
	snapshot := make([]watcher[T], len(s.watchers))
	copy(snapshot, s.watchers)
	updates := s.updates
	s.mu.Unlock()

	for _, w := range snapshot {
		w.fn(v)
	}

	if updates != nil {
		updates.emit(v)
	}
}

func (s *Store[T]) subscribe(fn func(T)) (cancel func()) {
	id := xid.New().String()

	s.mu.Lock()
	s.watchers = append(s.watchers, watcher[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w.id == id {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				return
			}
		}
	}
}

// Map derives a store whose value is fn applied to src. The derived store
// recomputes synchronously within the same pass as its source.
func Map[T, U any](src *Store[T], fn func(T) U) *Store[U] {
	out := NewStore(src.scope, fn(src.Get()))
	src.subscribe(func(v T) { out.apply(fn(v)) })
	return out
}

// Combine2 derives a store from two sources. Either source updating
// recomputes the result with the other source's current value.
func Combine2[A, B, R any](a *Store[A], b *Store[B], fn func(A, B) R) *Store[R] {
	out := NewStore(a.scope, fn(a.Get(), b.Get()))
	a.subscribe(func(av A) { out.apply(fn(av, b.Get())) })
	b.subscribe(func(bv B) { out.apply(fn(a.Get(), bv)) })
	return out
}

// Derive builds a store recomputed by compute whenever any of deps updates.
// compute reads its inputs directly, which keeps the dependency list explicit
// at the call site.
func Derive[T any](scope *Scope, compute func() T, deps ...Source) *Store[T] {
	out := NewStore(scope, compute())
	for _, d := range deps {
		d.Observe(func() { out.apply(compute()) })
	}
	return out
}
