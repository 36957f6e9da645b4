// Package lingo exposes a pluggable, possibly asynchronous translation engine
// as a set of live reactive values: the current translate function, a
// readiness flag, translated strings that recompute when their inputs change,
// and a stream of missing-key diagnostics. Consumers read translated text as
// values; the binding manages engine initialization, listener attachment and
// teardown on their behalf.
package lingo

import "context"

// DefaultNamespace is reported for engines that do not partition their
// resources into namespaces.
const DefaultNamespace = "translation"

// TranslateFunc maps a key and optional template variables to a display
// string. The binding guarantees its public translate function is never nil;
// before any engine exists it degrades to returning the key unchanged.
type TranslateFunc func(key string, vars map[string]any) string

// MissingKeyReport is the diagnostic payload published when the engine has no
// translation for a looked-up key. Reports are ephemeral, never stored, and
// republished verbatim without deduplication.
type MissingKeyReport struct {
	// Languages is the lookup order that was attempted.
	Languages []string
	// Namespace the lookup targeted, DefaultNamespace when the engine has none.
	Namespace string
	// Key is the untranslated lookup key.
	Key string
	// Fallback is the string the engine resolved in place of a translation.
	Fallback string
}

// Engine is the external translation provider consumed by a Binding. The
// binding never constructs or disposes an engine, it only observes one, calls
// its lifecycle methods and attaches listeners.
//
// Listener registrations return unsubscribe functions; the binding records
// these as opaque handles so teardown can detach exactly what was attached.
// Implementations must be comparable (use pointer receivers): the binding
// keys listener detachment and stale-initialization checks on instance
// identity.
type Engine interface {
	// T resolves key with the given variables. Called both before and after
	// initialization; pre-init calls are best effort.
	T(key string, vars map[string]any) string

	// IsInitialized reports whether Init has already completed, letting the
	// binding skip a redundant initialization.
	IsInitialized() bool

	// Init loads the engine's resources. May suspend; the binding runs it off
	// the propagation pass.
	Init(ctx context.Context) error

	// OnMissingKey registers a handler for untranslated lookups.
	OnMissingKey(handler func(MissingKeyReport)) (unsubscribe func())

	// OnLanguageChanged registers a handler fired after the active language
	// switches.
	OnLanguageChanged(handler func(lang string)) (unsubscribe func())

	// OnResourcesAdded registers a handler fired after translation resources
	// are added or replaced.
	OnResourcesAdded(handler func(lang, namespace string)) (unsubscribe func())
}
