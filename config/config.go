// Package config carries the environment driven configuration used across
// lingo packages.
package config

import (
	"context"

	"github.com/caarlos0/env/v11"
)

type contextKey string

func (c contextKey) String() string {
	return "lingo/config/" + string(c)
}

const ctxKeyConfiguration = contextKey("configurationKey")

// ToContext adds configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts configuration from the supplied context if any exists.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

// ConfigurationLogLevel is implemented by configurations carrying a log level.
type ConfigurationLogLevel interface {
	LoggingLevel() string
}

// ConfigurationTranslation is implemented by configurations describing where
// translation resources live and which languages to serve.
type ConfigurationTranslation interface {
	GetTranslationsFolder() string
	GetTranslationLanguages() []string
	GetDefaultTranslationLanguage() string
}

// ConfigurationDefault is the stock configuration most consumers embed.
type ConfigurationDefault struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level"`

	TranslationsFolder   string   `env:"TRANSLATIONS_FOLDER"    envDefault:"localization" yaml:"translations_folder"`
	TranslationLanguages []string `env:"TRANSLATION_LANGUAGES"  envDefault:"en"           yaml:"translation_languages" envSeparator:","`
	DefaultLanguage      string   `env:"TRANSLATION_DEFAULT_LANGUAGE" envDefault:"en"     yaml:"translation_default_language"`
}

func (c *ConfigurationDefault) LoggingLevel() string {
	return c.LogLevel
}

func (c *ConfigurationDefault) GetTranslationsFolder() string {
	return c.TranslationsFolder
}

func (c *ConfigurationDefault) GetTranslationLanguages() []string {
	return c.TranslationLanguages
}

func (c *ConfigurationDefault) GetDefaultTranslationLanguage() string {
	return c.DefaultLanguage
}
