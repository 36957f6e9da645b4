package lingo

import "context"

type contextKey string

func (c contextKey) String() string {
	return "lingo/" + string(c)
}

const ctxKeyLanguage = contextKey("languageKey")

// LanguageToContext adds the requested language lookup order to the supplied
// context.
func LanguageToContext(ctx context.Context, lang []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, lang)
}

// LanguageFromContext extracts the language lookup order from the supplied
// context if any exists.
func LanguageFromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}
