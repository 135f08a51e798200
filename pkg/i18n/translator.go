package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Translator renders messages from a catalog of per-language nested maps.
// Keys use dot notation: "validation.min_length" resolves
// catalog[lang]["validation"]["min_length"].
type Translator struct {
	translations   map[string]map[string]any
	defaultLang    string
	fallbackToKey  bool
	missingLogMode bool
	logger         *slog.Logger
	mu             sync.RWMutex
	adapter        TranslationAdapter
}

// NewTranslator loads the catalog from adapter and applies options.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, options ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.DiscardHandler),
		adapter:       adapter,
	}
	for _, option := range options {
		option(t)
	}

	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the catalog with a fresh load from the adapter.
func (t *Translator) Reload(ctx context.Context) error {
	translations, err := t.adapter.Load(ctx)
	if err != nil {
		return err
	}
	if err := validateTranslations(translations); err != nil {
		return err
	}

	t.mu.Lock()
	t.translations = translations
	t.mu.Unlock()

	if len(translations) == 0 {
		t.logger.WarnContext(ctx, "no translations loaded")
		return nil
	}
	t.logger.InfoContext(ctx, "translations loaded", slog.Any("languages", t.SupportedLanguages()))
	return nil
}

func validateTranslations(trans map[string]map[string]any) error {
	for lang, messages := range trans {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if messages == nil {
			return fmt.Errorf("%w: %s", ErrNilCatalog, lang)
		}
	}
	return nil
}

// DefaultLanguage returns the language used when none is negotiated.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// SupportedLanguages returns the sorted language codes present in the catalog.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.translations))
}

// HasTranslation reports whether key resolves to a string for lang.
func (t *Translator) HasTranslation(lang, key string) bool {
	_, ok := t.lookup(lang, key)
	return ok
}

// T translates key for lang. Args are name/value pairs substituted into
// %{name} placeholders; an odd trailing arg is ignored.
//
//	// "validation.min_length": "Minimum length is %{min}"
//	t.T("en", "validation.min_length", "min", "3") // "Minimum length is 3"
//
// A missing translation yields the key itself, or "" when WithFallbackToKey(false).
func (t *Translator) T(lang, key string, args ...string) string {
	tmpl, ok := t.lookup(lang, key)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		if !t.fallbackToKey {
			return ""
		}
		tmpl = key
	}
	return interpolate(tmpl, args)
}

// Td is T with an explicit fallback template instead of the key.
func (t *Translator) Td(lang, key, defaultValue string, args ...string) string {
	tmpl, ok := t.lookup(lang, key)
	if !ok {
		tmpl = defaultValue
	}
	return interpolate(tmpl, args)
}

// Tc translates using the language stored in ctx by Middleware.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	current, ok := t.translations[lang]
	if !ok {
		return "", false
	}

	parts := strings.Split(key, ".")
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			switch v := val.(type) {
			case string:
				return v, true
			case fmt.Stringer:
				return v.String(), true
			}
			return "", false
		}
		if current, ok = asStringMap(val); !ok {
			return "", false
		}
	}
	return "", false
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			if ks, ok := k.(string); ok {
				out[ks] = v
			}
		}
		return out, true
	}
	return nil, false
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// interpolate substitutes %{name} placeholders; unknown names are left as is.
func interpolate(tmpl string, args []string) string {
	if len(args) < 2 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

// Require returns ErrUnsupportedLanguage unless lang is present in the catalog.
func (t *Translator) Require(lang string) error {
	t.mu.RLock()
	_, ok := t.translations[lang]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	return nil
}
