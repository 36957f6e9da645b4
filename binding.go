package lingo

import (
	"context"

	"go.opentelemetry.io/otel/metric"

	"github.com/pitabwire/lingo/reactive"
)

// Binding ties one translation engine, or a store of engines swapped over
// time, to a reactive graph of translation values. All state lives on the
// Binding; independent bindings never share cells.
type Binding struct {
	ctx   context.Context
	scope *reactive.Scope

	instance    *reactive.Store[Engine]
	standaloneT *reactive.Store[TranslateFunc]
	derivedT    *reactive.Store[TranslateFunc]
	publicT     *reactive.Store[TranslateFunc]
	ready       *reactive.Store[bool]

	setup      *reactive.Event[struct{}]
	teardown   *reactive.Event[struct{}]
	missingKey *reactive.Event[MissingKeyReport]
	ctxChanged *reactive.Event[Engine]
	initFailed *reactive.Event[error]

	// Listener handles survive the async gap between attach and detach.
	// They are reset to nil on detachment so a later setup re-attaches
	// cleanly instead of accumulating duplicate listeners. Only touched
	// inside scope passes, where detachment must be immediately visible to
	// the sample guards running later in the same pass.
	missingUnsub func()
	ctxUnsub     func()

	initFx *reactive.Effect[initRequest, initOutcome]

	// generation and prevInstance are only touched inside scope passes.
	generation   int
	prevInstance Engine

	// pending* track the initialization attempt currently in flight, so a
	// re-entrant setup or a re-delivered instance cannot issue a second
	// attempt, which would attach a second missing-key listener and publish
	// duplicate reports. Only touched inside scope passes.
	pendingInit       bool
	pendingEngine     Engine
	pendingGeneration int

	runner         reactive.Runner
	missingCounter metric.Int64Counter

	// option staging, resolved once in New.
	optScope         *reactive.Scope
	optEngine        Engine
	optInstanceStore *reactive.Store[Engine]
	optTeardown      *reactive.Event[struct{}]
}

// New creates a binding. Supply the engine through WithEngine or
// WithEngineStore; fire Setup to start initialization and Teardown to detach.
func New(ctx context.Context, opts ...Option) *Binding {
	b := &Binding{ctx: ctx}

	for _, opt := range opts {
		opt(ctx, b)
	}

	b.scope = b.optScope
	if b.scope == nil {
		b.scope = reactive.NewScope()
	}

	// Instance resolution: a caller supplied store is used as-is so engines
	// can be swapped over time, a fixed engine becomes a constant store and
	// no input at all resolves to a store holding nil.
	b.instance = b.optInstanceStore
	if b.instance == nil {
		b.instance = reactive.NewStore(b.scope, b.optEngine)
	}

	b.teardown = b.optTeardown
	if b.teardown == nil {
		b.teardown = reactive.NewEvent[struct{}](b.scope)
	}

	b.setup = reactive.NewEvent[struct{}](b.scope)
	b.missingKey = reactive.NewEvent[MissingKeyReport](b.scope)
	b.ctxChanged = reactive.NewEvent[Engine](b.scope)
	b.initFailed = reactive.NewEvent[error](b.scope)

	b.standaloneT = reactive.NewStore[TranslateFunc](b.scope, nil)
	b.ready = reactive.NewStore(b.scope, false)

	b.derivedT = reactive.Map(b.instance, func(eng Engine) TranslateFunc {
		if eng == nil {
			return nil
		}
		return translateFuncOf(eng)
	})
	b.publicT = reactive.Combine2(b.standaloneT, b.derivedT,
		func(standalone, derived TranslateFunc) TranslateFunc {
			switch {
			case standalone != nil:
				return standalone
			case derived != nil:
				return derived
			default:
				return identityTranslate
			}
		})

	b.initFx = reactive.NewEffect(b.scope, b.initialize).WithRunner(b.runner)

	b.wireLifecycle(ctx)
	b.wireMissingKeyTelemetry(ctx)

	return b
}

// Scope returns the propagation scope all of the binding's cells belong to.
// Callers that want to pre-create an engine store for WithEngineStore share
// this scope through WithScope.
func (b *Binding) Scope() *reactive.Scope { return b.scope }

// Instance is the resolved store of the current engine, nil when absent.
func (b *Binding) Instance() *reactive.Store[Engine] { return b.instance }

// T is the public translate function store. Its value is never nil: the
// standalone post-initialization function when available, otherwise the
// pre-initialization derived one, otherwise identity.
func (b *Binding) T() *reactive.Store[TranslateFunc] { return b.publicT }

// Ready holds true from the moment initialization completes until teardown.
func (b *Binding) Ready() *reactive.Store[bool] { return b.ready }

// Setup starts the lifecycle when triggered: the current engine is resolved,
// listeners attach and initialization runs if still needed.
func (b *Binding) Setup() *reactive.Event[struct{}] { return b.setup }

// Teardown detaches engine listeners and clears readiness when triggered.
// When supplied via WithTeardownEvent the caller's event is returned here.
// The binding never fires it on its own.
func (b *Binding) Teardown() *reactive.Event[struct{}] { return b.teardown }

// MissingKey republishes every engine missing-key notification verbatim.
func (b *Binding) MissingKey() *reactive.Event[MissingKeyReport] { return b.missingKey }

// InitFailed fires when an engine initialization returns an error. Readiness
// stays false and the binding does not retry.
func (b *Binding) InitFailed() *reactive.Event[error] { return b.initFailed }
