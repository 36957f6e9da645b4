// Package goi18n provides a lingo.Engine backed by nicksnyder/go-i18n. It
// loads TOML message files from a translations folder, resolves lookups
// through a localizer for the active language order and emits the native
// notifications the binding consumes: missing key, language changed and
// resources added.
package goi18n

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"

	"github.com/pitabwire/lingo"
	"github.com/pitabwire/lingo/config"
	"github.com/pitabwire/lingo/workerpool"
)

// Compile-time interface check.
var _ lingo.Engine = (*Engine)(nil)

// ErrNoLanguages is returned when an engine is created without any language.
var ErrNoLanguages = errors.New("goi18n: at least one language is required")

// Engine is a translation engine over a go-i18n bundle.
type Engine struct {
	folder string

	mu          sync.RWMutex
	bundle      *i18n.Bundle
	localizer   *i18n.Localizer
	languages   []string
	initialized bool

	pool workerpool.Pool

	missing    registry[lingo.MissingKeyReport]
	langChange registry[string]
	resAdded   registry[resourceChange]
}

type resourceChange struct {
	lang      string
	namespace string
}

// New creates an engine serving the given languages from translationsFolder,
// expecting one messages.<lang>.toml file per language. The first language is
// the bundle default. Resources are not loaded until Init runs.
func New(translationsFolder string, languages ...string) (*Engine, error) {
	if translationsFolder == "" {
		translationsFolder = "localization"
	}
	if len(languages) == 0 {
		return nil, ErrNoLanguages
	}

	tag, err := language.Parse(languages[0])
	if err != nil {
		return nil, fmt.Errorf("goi18n: default language %q: %w", languages[0], err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &Engine{
		folder:    translationsFolder,
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, languages...),
		languages: append([]string(nil), languages...),
	}, nil
}

// NewFromConfig creates an engine from a translation configuration.
func NewFromConfig(cfg config.ConfigurationTranslation) (*Engine, error) {
	return New(cfg.GetTranslationsFolder(), cfg.GetTranslationLanguages()...)
}

// WithPool loads message files on the supplied pool during Init, one task per
// language.
func (e *Engine) WithPool(pool workerpool.Pool) *Engine {
	e.pool = pool
	return e
}

// IsInitialized reports whether Init has completed.
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// Init loads one message file per configured language. Idempotent: a second
// call returns immediately.
func (e *Engine) Init(ctx context.Context) error {
	if e.IsInitialized() {
		return nil
	}

	log := util.Log(ctx).WithField("folder", e.folder)

	e.mu.RLock()
	languages := append([]string(nil), e.languages...)
	e.mu.RUnlock()

	var err error
	if e.pool != nil {
		err = e.loadConcurrently(ctx, languages)
	} else {
		for _, lang := range languages {
			if loadErr := e.loadLanguage(lang); loadErr != nil {
				err = loadErr
				break
			}
		}
	}
	if err != nil {
		log.WithError(err).Error("could not load translation resources")
		return err
	}

	e.mu.Lock()
	e.initialized = true
	e.mu.Unlock()

	log.WithField("languages", languages).Debug("translation resources loaded")
	return nil
}

func (e *Engine) loadConcurrently(ctx context.Context, languages []string) error {
	var wg sync.WaitGroup
	errs := make([]error, len(languages))

	for i, lang := range languages {
		wg.Add(1)
		submitErr := e.pool.Submit(ctx, func() {
			defer wg.Done()
			errs[i] = e.loadLanguage(lang)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (e *Engine) loadLanguage(lang string) error {
	path := fmt.Sprintf("%s/messages.%v.toml", e.folder, lang)

	e.mu.Lock()
	_, err := e.bundle.LoadMessageFile(path)
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("goi18n: load %s: %w", path, err)
	}
	return nil
}

// T resolves key against the active language order. A lookup without a
// translation notifies missing-key listeners and falls back to the key
// itself. Safe to call before Init and from any goroutine; it resolves
// whatever the bundle holds.
func (e *Engine) T(key string, vars map[string]any) string {
	// Localize reads the bundle's message maps, so the read lock is held for
	// the whole resolution to serialize against AddMessages, LoadMessageFile
	// and Init. Listener notification happens unlocked to keep handlers free
	// to call back into the engine.
	e.mu.RLock()
	msg, err := e.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: vars,
	})
	languages := append([]string(nil), e.languages...)
	e.mu.RUnlock()

	if err != nil {
		e.missing.notify(lingo.MissingKeyReport{
			Languages: languages,
			Namespace: lingo.DefaultNamespace,
			Key:       key,
			Fallback:  key,
		})
		return key
	}

	return msg
}

// SetLanguage switches the active language order and notifies
// language-changed listeners with the new primary language.
func (e *Engine) SetLanguage(languages ...string) {
	if len(languages) == 0 {
		return
	}

	e.mu.Lock()
	e.languages = append([]string(nil), languages...)
	e.localizer = i18n.NewLocalizer(e.bundle, languages...)
	e.mu.Unlock()

	e.langChange.notify(languages[0])
}

// Languages returns the active language order.
func (e *Engine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.languages...)
}

// AddMessages adds messages for lang to the bundle and notifies
// resources-added listeners.
func (e *Engine) AddMessages(lang string, messages ...*i18n.Message) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("goi18n: language %q: %w", lang, err)
	}

	e.mu.Lock()
	err = e.bundle.AddMessages(tag, messages...)
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("goi18n: add messages: %w", err)
	}

	e.resAdded.notify(resourceChange{lang: lang, namespace: lingo.DefaultNamespace})
	return nil
}

// LoadMessageFile loads an additional message file into the bundle and
// notifies resources-added listeners with the file's language.
func (e *Engine) LoadMessageFile(path string) error {
	e.mu.Lock()
	mf, err := e.bundle.LoadMessageFile(path)
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("goi18n: load %s: %w", path, err)
	}

	e.resAdded.notify(resourceChange{lang: mf.Tag.String(), namespace: lingo.DefaultNamespace})
	return nil
}

// OnMissingKey implements lingo.Engine.
func (e *Engine) OnMissingKey(handler func(lingo.MissingKeyReport)) func() {
	return e.missing.add(handler)
}

// OnLanguageChanged implements lingo.Engine.
func (e *Engine) OnLanguageChanged(handler func(lang string)) func() {
	return e.langChange.add(handler)
}

// OnResourcesAdded implements lingo.Engine.
func (e *Engine) OnResourcesAdded(handler func(lang, namespace string)) func() {
	return e.resAdded.add(func(c resourceChange) {
		handler(c.lang, c.namespace)
	})
}
