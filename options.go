package lingo

import (
	"context"

	"github.com/pitabwire/lingo/reactive"
)

// Option configures a Binding during New.
type Option func(ctx context.Context, b *Binding)

// WithEngine binds a fixed engine. A constant instance store is synthesized
// around it.
func WithEngine(engine Engine) Option {
	return func(_ context.Context, b *Binding) {
		b.optEngine = engine
	}
}

// WithEngineStore binds a caller-owned store of engines, used as-is so the
// caller can swap engines over time. The store must belong to the scope the
// binding runs in; pass the same scope through WithScope.
func WithEngineStore(store *reactive.Store[Engine]) Option {
	return func(_ context.Context, b *Binding) {
		b.optInstanceStore = store
	}
}

// WithScope runs the binding on a caller-owned scope instead of creating one.
func WithScope(scope *reactive.Scope) Option {
	return func(_ context.Context, b *Binding) {
		b.optScope = scope
	}
}

// WithTeardownEvent uses the supplied event as the binding's teardown signal
// instead of an internally owned one. The binding subscribes to it but never
// triggers it.
func WithTeardownEvent(evt *reactive.Event[struct{}]) Option {
	return func(_ context.Context, b *Binding) {
		b.optTeardown = evt
	}
}

// WithRunner submits asynchronous engine initializations to r, typically a
// workerpool.Pool, instead of spawning goroutines.
func WithRunner(r reactive.Runner) Option {
	return func(_ context.Context, b *Binding) {
		b.runner = r
	}
}
