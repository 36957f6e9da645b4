package reactive

import (
	"context"

	"github.com/pitabwire/util"
)

// Runner executes effect bodies off the propagation pass. The workerpool
// package provides an ants-backed implementation; when no runner is set a
// plain goroutine is used.
type Runner interface {
	Submit(ctx context.Context, task func()) error
}

// EffectDone carries the parameter an effect was run with and its result.
type EffectDone[P, R any] struct {
	Param  P
	Result R
}

// EffectFail carries the parameter an effect was run with and its error.
type EffectFail[P any] struct {
	Param P
	Err   error
}

// Effect wraps an asynchronous function. Run executes the body off the pass
// and surfaces its outcome through the Done and Fail events; Pending reflects
// whether any run is in flight.
type Effect[P, R any] struct {
	scope  *Scope
	fn     func(context.Context, P) (R, error)
	runner Runner

	done    *Event[EffectDone[P, R]]
	fail    *Event[EffectFail[P]]
	pending *Store[bool]

	// active is only mutated inside scope passes.
	active int
}

// NewEffect creates an effect executing fn.
func NewEffect[P, R any](scope *Scope, fn func(context.Context, P) (R, error)) *Effect[P, R] {
	return &Effect[P, R]{
		scope:   scope,
		fn:      fn,
		done:    NewEvent[EffectDone[P, R]](scope),
		fail:    NewEvent[EffectFail[P]](scope),
		pending: NewStore(scope, false),
	}
}

// WithRunner submits effect bodies to r instead of spawning goroutines.
func (e *Effect[P, R]) WithRunner(r Runner) *Effect[P, R] {
	e.runner = r
	return e
}

// Done fires after every successful run.
func (e *Effect[P, R]) Done() *Event[EffectDone[P, R]] { return e.done }

// Fail fires after every failed run.
func (e *Effect[P, R]) Fail() *Event[EffectFail[P]] { return e.fail }

// Pending holds true while at least one run is in flight.
func (e *Effect[P, R]) Pending() *Store[bool] { return e.pending }

// Run starts an execution of the effect body with param. The body runs on the
// configured runner, or a fresh goroutine, and its completion is dispatched
// back into the scope.
func (e *Effect[P, R]) Run(ctx context.Context, param P) {
	e.scope.Dispatch(func() {
		e.active++
		e.pending.apply(e.active > 0)
	})

	task := func() {
		res, err := e.fn(ctx, param)
		e.scope.Dispatch(func() { e.settle(param, res, err) })
	}

	if e.runner == nil {
		go task()
		return
	}

	if err := e.runner.Submit(ctx, task); err != nil {
		util.Log(ctx).WithError(err).Error("could not submit effect body to runner")
		e.scope.Dispatch(func() {
			var zero R
			e.settle(param, zero, err)
		})
	}
}

// Target adapts the effect into a Sample target that runs with ctx.
func (e *Effect[P, R]) Target(ctx context.Context) Target[P] {
	return effectTarget[P, R]{ctx: ctx, effect: e}
}

func (e *Effect[P, R]) settle(param P, res R, err error) {
	e.active--
	e.pending.apply(e.active > 0)
	if err != nil {
		e.fail.emit(EffectFail[P]{Param: param, Err: err})
		return
	}
	e.done.emit(EffectDone[P, R]{Param: param, Result: res})
}

type effectTarget[P, R any] struct {
	ctx    context.Context
	effect *Effect[P, R]
}

func (t effectTarget[P, R]) Receive(v P) {
	t.effect.Run(t.ctx, v)
}
