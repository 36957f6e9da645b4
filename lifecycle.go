package lingo

import (
	"context"
	"fmt"

	"github.com/pitabwire/util"

	"github.com/pitabwire/lingo/reactive"
)

// initRequest carries the engine an initialization attempt targets together
// with the lifecycle generation it was issued under. Completions are checked
// against both, so a stale in-flight initialization can never wire listeners
// onto a superseded engine or resurrect readiness after a teardown.
type initRequest struct {
	engine     Engine
	generation int
}

type initOutcome struct {
	engine       Engine
	generation   int
	unsubMissing func()
	translate    TranslateFunc
}

// initialize is the effect body. It runs off the propagation pass, possibly
// on a worker pool. The missing-key listener attaches before the initialized
// check so notifications emitted during initialization are not lost.
func (b *Binding) initialize(ctx context.Context, req initRequest) (initOutcome, error) {
	if req.engine == nil {
		return initOutcome{generation: req.generation}, nil
	}

	unsub := req.engine.OnMissingKey(func(r MissingKeyReport) {
		// Trigger dispatches into the scope, so delivery is safe from
		// whatever goroutine the engine notifies on.
		b.missingKey.Trigger(r)
	})

	if !req.engine.IsInitialized() {
		if err := req.engine.Init(ctx); err != nil {
			unsub()
			return initOutcome{}, fmt.Errorf("engine initialization: %w", err)
		}
	}

	return initOutcome{
		engine:       req.engine,
		generation:   req.generation,
		unsubMissing: unsub,
		translate:    translateFuncOf(req.engine),
	}, nil
}

func (b *Binding) wireLifecycle(ctx context.Context) {
	log := util.Log(ctx)

	// Swapping engines detaches the listeners recorded for the departing one
	// before anything binds to its replacement. Registered before the sample
	// wiring below so it runs first on every instance update.
	b.instance.Watch(func(cur Engine) {
		if b.prevInstance != nil && b.prevInstance != cur {
			b.detachListeners()
		}
		b.prevInstance = cur
	})

	// Setup and instance updates both start an initialization attempt with
	// the engine and generation sampled at trigger time, unless one is
	// already in flight or bound for this cycle. A nil engine still runs and
	// produces a nil outcome, leaving the lifecycle unbound.
	reactive.Sample(b.setup, b.instance,
		func(_ struct{}, eng Engine) (initRequest, bool) {
			if !b.needsInit(eng) {
				return initRequest{}, false
			}
			return b.markInitRequested(eng), true
		}, b.initFx.Target(ctx))

	reactive.Sample(b.instance.Updates(), b.instance,
		func(_ Engine, eng Engine) (initRequest, bool) {
			if eng == nil || !b.needsInit(eng) {
				return initRequest{}, false
			}
			return b.markInitRequested(eng), true
		}, b.initFx.Target(ctx))

	b.initFx.Done().Subscribe(func(d reactive.EffectDone[initRequest, initOutcome]) {
		b.clearInitRequested(d.Param)

		out := d.Result
		if out.engine == nil {
			return
		}

		if out.generation != b.generation || out.engine != b.instance.Get() {
			// Superseded by a swap or a teardown while in flight; release the
			// listener this attempt attached and discard the rest.
			if out.unsubMissing != nil {
				out.unsubMissing()
			}
			log.Debug("discarding stale engine initialization")
			return
		}

		// Drop any handle still recorded before storing the new one so
		// listeners never accumulate.
		if b.missingUnsub != nil {
			b.missingUnsub()
		}
		b.missingUnsub = out.unsubMissing

		b.standaloneT.Set(out.translate)
		b.ready.Set(true)
		b.attachContextListeners(out.engine)
	})

	b.initFx.Fail().Subscribe(func(f reactive.EffectFail[initRequest]) {
		b.clearInitRequested(f.Param)
		log.WithError(f.Err).Error("engine initialization failed")
		b.initFailed.Trigger(f.Err)
	})

	// A context change, language switched or resources added, rebinds the
	// standalone translate function without waiting for a re-initialization.
	b.ctxChanged.Subscribe(func(eng Engine) {
		if eng == nil || eng != b.instance.Get() {
			return
		}
		b.standaloneT.Set(translateFuncOf(eng))
	})

	b.teardown.Subscribe(func(struct{}) {
		b.detachListeners()
	})
}

// needsInit reports whether a fresh initialization attempt is required for
// eng. It is false while an attempt for the same engine and generation is in
// flight, and false once the current cycle holds a missing-key handle, which
// means the engine is already bound. Runs inside scope passes only.
func (b *Binding) needsInit(eng Engine) bool {
	if b.pendingInit && b.pendingEngine == eng && b.pendingGeneration == b.generation {
		return false
	}
	return b.missingUnsub == nil
}

func (b *Binding) markInitRequested(eng Engine) initRequest {
	b.pendingInit = true
	b.pendingEngine = eng
	b.pendingGeneration = b.generation
	return initRequest{engine: eng, generation: b.generation}
}

// clearInitRequested retires the in-flight marker when the completion matches
// the attempt it was set for. Completions of superseded attempts leave a
// newer marker untouched.
func (b *Binding) clearInitRequested(req initRequest) {
	if b.pendingInit && req.engine == b.pendingEngine && req.generation == b.pendingGeneration {
		b.pendingInit = false
		b.pendingEngine = nil
	}
}

// attachContextListeners subscribes to the engine's language-changed and
// resources-added notifications and records one combined unsubscribe handle.
func (b *Binding) attachContextListeners(eng Engine) {
	if b.ctxUnsub != nil {
		b.ctxUnsub()
	}

	unsubLang := eng.OnLanguageChanged(func(string) {
		b.ctxChanged.Trigger(eng)
	})
	unsubRes := eng.OnResourcesAdded(func(string, string) {
		b.ctxChanged.Trigger(eng)
	})

	b.ctxUnsub = func() {
		unsubLang()
		unsubRes()
	}
}

// detachListeners detaches whatever handles are currently recorded, clears
// the handle cells and readiness, and advances the lifecycle generation so
// any in-flight initialization resolves as stale. A second invocation with
// nothing attached performs no detach calls.
func (b *Binding) detachListeners() {
	if b.ctxUnsub != nil {
		b.ctxUnsub()
	}
	if b.missingUnsub != nil {
		b.missingUnsub()
	}

	b.ctxUnsub = nil
	b.missingUnsub = nil
	b.standaloneT.Set(nil)
	b.ready.Set(false)
	b.generation++
}
