package goi18n

import (
	"sync"

	"github.com/rs/xid"
)

type handlerEntry[T any] struct {
	id string
	fn func(T)
}

// registry holds listener registrations for one notification kind. Handlers
// run in registration order; removal is keyed by the id handed out at add
// time, so the same function can be registered more than once.
type registry[T any] struct {
	mu       sync.Mutex
	handlers []handlerEntry[T]
}

func (r *registry[T]) add(fn func(T)) (remove func()) {
	id := xid.New().String()

	r.mu.Lock()
	r.handlers = append(r.handlers, handlerEntry[T]{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, h := range r.handlers {
			if h.id == id {
				r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
				return
			}
		}
	}
}

func (r *registry[T]) notify(v T) {
	r.mu.Lock()
	snapshot := make([]handlerEntry[T], len(r.handlers))
	copy(snapshot, r.handlers)
	r.mu.Unlock()

	for _, h := range snapshot {
		h.fn(v)
	}
}
