package lingo_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitabwire/lingo"
)

// tCall records one invocation of the engine's translate function.
type tCall struct {
	key  string
	vars map[string]any
}

type missingEntry struct {
	id int
	fn func(lingo.MissingKeyReport)
}

type langEntry struct {
	id int
	fn func(string)
}

type resEntry struct {
	id int
	fn func(string, string)
}

// mockEngine is a controllable lingo.Engine for lifecycle tests. Init can be
// made to block until released or to fail, and every listener attachment and
// detachment is counted. Unsubscribing removes the handler, so delivery
// assertions catch leaked listeners.
type mockEngine struct {
	mu sync.Mutex

	initialized bool
	initCalls   int
	initErr     error
	initRelease chan struct{}

	translations map[string]string
	calls        []tCall

	nextID          int
	missingHandlers []missingEntry
	langHandlers    []langEntry
	resHandlers     []resEntry

	missingAttached, missingDetached int
	langAttached, langDetached       int
	resAttached, resDetached         int
}

func newMockEngine(initialized bool) *mockEngine {
	return &mockEngine{
		initialized:  initialized,
		translations: map[string]string{},
	}
}

func (m *mockEngine) T(key string, vars map[string]any) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var copied map[string]any
	if vars != nil {
		copied = make(map[string]any, len(vars))
		for k, v := range vars {
			copied[k] = v
		}
	}
	m.calls = append(m.calls, tCall{key: key, vars: copied})

	if translated, ok := m.translations[key]; ok {
		return translated
	}
	if name, ok := vars["name"]; ok {
		return fmt.Sprintf("%s:%v", key, name)
	}
	return key
}

func (m *mockEngine) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

func (m *mockEngine) Init(_ context.Context) error {
	m.mu.Lock()
	m.initCalls++
	release := m.initRelease
	err := m.initErr
	m.mu.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	return nil
}

func (m *mockEngine) OnMissingKey(handler func(lingo.MissingKeyReport)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.missingAttached++
	m.missingHandlers = append(m.missingHandlers, missingEntry{id: id, fn: handler})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.missingHandlers {
			if e.id == id {
				m.missingHandlers = append(m.missingHandlers[:i], m.missingHandlers[i+1:]...)
				m.missingDetached++
				return
			}
		}
	}
}

func (m *mockEngine) OnLanguageChanged(handler func(string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.langAttached++
	m.langHandlers = append(m.langHandlers, langEntry{id: id, fn: handler})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.langHandlers {
			if e.id == id {
				m.langHandlers = append(m.langHandlers[:i], m.langHandlers[i+1:]...)
				m.langDetached++
				return
			}
		}
	}
}

func (m *mockEngine) OnResourcesAdded(handler func(string, string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.resAttached++
	m.resHandlers = append(m.resHandlers, resEntry{id: id, fn: handler})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.resHandlers {
			if e.id == id {
				m.resHandlers = append(m.resHandlers[:i], m.resHandlers[i+1:]...)
				m.resDetached++
				return
			}
		}
	}
}

func (m *mockEngine) fireMissingKey(report lingo.MissingKeyReport) {
	m.mu.Lock()
	handlers := append([]missingEntry(nil), m.missingHandlers...)
	m.mu.Unlock()
	for _, e := range handlers {
		e.fn(report)
	}
}

func (m *mockEngine) fireLanguageChanged(lang string) {
	m.mu.Lock()
	handlers := append([]langEntry(nil), m.langHandlers...)
	m.mu.Unlock()
	for _, e := range handlers {
		e.fn(lang)
	}
}

func (m *mockEngine) fireResourcesAdded(lang, namespace string) {
	m.mu.Lock()
	handlers := append([]resEntry(nil), m.resHandlers...)
	m.mu.Unlock()
	for _, e := range handlers {
		e.fn(lang, namespace)
	}
}

func (m *mockEngine) setTranslation(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations[key] = value
}

func (m *mockEngine) snapshotCalls() []tCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tCall(nil), m.calls...)
}

func (m *mockEngine) counters() (missingAttached, missingDetached, langDetached, resDetached, initCalls int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.missingAttached, m.missingDetached, m.langDetached, m.resDetached, m.initCalls
}
