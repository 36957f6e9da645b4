package lingo

import (
	"sort"
	"strings"

	"github.com/pitabwire/lingo/reactive"
)

// identityTranslate is the terminal fallback: before any engine exists the
// public translate function returns the key unchanged.
func identityTranslate(key string, _ map[string]any) string {
	return key
}

// translateFuncOf binds a translate function directly to eng.
func translateFuncOf(eng Engine) TranslateFunc {
	return func(key string, vars map[string]any) string {
		return eng.T(key, vars)
	}
}

// Translate returns a reactive string for key, recomputed whenever the public
// translate function or any variable store updates. Variables are resolved to
// their current values on each recomputation; a nil variable store resolves
// to the empty string. The returned store is always defined, degrading to the
// key itself before any engine exists.
func (b *Binding) Translate(key string, vars map[string]*reactive.Store[string]) *reactive.Store[string] {
	deps := make([]reactive.Source, 0, len(vars)+1)
	deps = append(deps, b.publicT)

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if vars[name] != nil {
			deps = append(deps, vars[name])
		}
	}

	compute := func() string {
		t := b.publicT.Get()
		if len(vars) == 0 {
			return t(key, nil)
		}

		resolved := make(map[string]any, len(vars))
		for name, st := range vars {
			if st == nil {
				resolved[name] = ""
				continue
			}
			resolved[name] = st.Get()
		}
		return t(key, resolved)
	}

	return reactive.Derive(b.scope, compute, deps...)
}

// TranslateTemplate returns a reactive string whose lookup key is the
// concatenation of the literal parts with the current value of each
// interpolated store in position. The key itself changes whenever an
// interpolation changes, so interpolated values must be the dynamic key
// fragments, not translated output. A nil or missing interpolation resolves
// to the empty string.
func (b *Binding) TranslateTemplate(parts []string, interp ...*reactive.Store[string]) *reactive.Store[string] {
	deps := make([]reactive.Source, 0, len(interp)+1)
	deps = append(deps, b.publicT)
	for _, st := range interp {
		if st != nil {
			deps = append(deps, st)
		}
	}

	compute := func() string {
		var key strings.Builder
		for i := 0; i < len(parts) || i < len(interp); i++ {
			if i < len(parts) {
				key.WriteString(parts[i])
			}
			if i < len(interp) && interp[i] != nil {
				key.WriteString(interp[i].Get())
			}
		}

		t := b.publicT.Get()
		return t(key.String(), nil)
	}

	return reactive.Derive(b.scope, compute, deps...)
}
