package i18n_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

func newMapTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(context.Background(), &i18n.MapAdapter{Data: map[string]map[string]any{
		"en": {
			"greeting": "Hello, %{name}!",
			"validation": map[string]any{
				"min_length": "Minimum length is %{min}",
			},
		},
		"es": {
			"greeting": "¡Hola, %{name}!",
		},
	}}, opts...)
	require.NoError(t, err)
	return tr
}

func TestNewTranslator(t *testing.T) {
	t.Parallel()

	t.Run("nil adapter", func(t *testing.T) {
		_, err := i18n.NewTranslator(context.Background(), nil)
		assert.ErrorIs(t, err, i18n.ErrNilAdapter)
	})

	t.Run("empty language code", func(t *testing.T) {
		_, err := i18n.NewTranslator(context.Background(), &i18n.MapAdapter{Data: map[string]map[string]any{"": {}}})
		assert.ErrorIs(t, err, i18n.ErrEmptyLanguage)
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := i18n.NewTranslator(context.Background(), &i18n.MapAdapter{Data: map[string]map[string]any{"en": nil}})
		assert.ErrorIs(t, err, i18n.ErrNilCatalog)
	})

	t.Run("supported languages are sorted", func(t *testing.T) {
		tr := newMapTranslator(t)
		assert.Equal(t, []string{"en", "es"}, tr.SupportedLanguages())
		assert.Equal(t, i18n.DefaultLanguage, tr.DefaultLanguage())
	})
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()
	tr := newMapTranslator(t)

	assert.Equal(t, "Hello, Ann!", tr.T("en", "greeting", "name", "Ann"))
	assert.Equal(t, "¡Hola, Ann!", tr.T("es", "greeting", "name", "Ann"))
	assert.Equal(t, "Minimum length is 3", tr.T("en", "validation.min_length", "min", "3"))

	t.Run("unknown placeholders are kept", func(t *testing.T) {
		assert.Equal(t, "Hello, %{name}!", tr.T("en", "greeting", "other", "x"))
	})

	t.Run("missing keys fall back to the key", func(t *testing.T) {
		assert.Equal(t, "missing.key", tr.T("en", "missing.key"))
		assert.Equal(t, "greeting", tr.T("fr", "greeting"))
		assert.Equal(t, "validation", tr.T("en", "validation"), "groups are not messages")
	})

	t.Run("fallback disabled", func(t *testing.T) {
		strict := newMapTranslator(t, i18n.WithFallbackToKey(false))
		assert.Equal(t, "", strict.T("en", "missing.key"))
	})

	t.Run("explicit default", func(t *testing.T) {
		assert.Equal(t, "Bye, Ann", tr.Td("en", "bye", "Bye, %{name}", "name", "Ann"))
	})

	t.Run("context language", func(t *testing.T) {
		ctx := i18n.SetLocale(context.Background(), "es")
		assert.Equal(t, "¡Hola, Bo!", tr.Tc(ctx, "greeting", "name", "Bo"))
	})
}

func TestTranslator_HasTranslation(t *testing.T) {
	t.Parallel()
	tr := newMapTranslator(t)

	assert.True(t, tr.HasTranslation("en", "validation.min_length"))
	assert.False(t, tr.HasTranslation("es", "validation.min_length"))
	assert.False(t, tr.HasTranslation("en", "validation"))
	assert.False(t, tr.HasTranslation("de", "greeting"))

	require.NoError(t, tr.Require("es"))
	assert.ErrorIs(t, tr.Require("de"), i18n.ErrUnsupportedLanguage)
}

func TestTranslator_MissingLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := newMapTranslator(t,
		i18n.WithLogger(logger.New(logger.WithOutput(&buf))),
		i18n.WithMissingTranslationsLogging(true),
	)
	tr.T("en", "nope")
	assert.Contains(t, buf.String(), "translation not found")
	assert.Contains(t, buf.String(), `"key":"nope"`)
}

func TestDefaultCatalog_LocalizesValidationResults(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewTranslator(context.Background(), i18n.DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "es"}, tr.SupportedLanguages())

	registry := validator.NewRegistry().Register("name",
		validator.Required(),
		validator.MinLength(3),
		validator.MinLength(5, validator.WithMessage("custom")),
	)
	res := registry.Validate("name", "ab")

	es := res.Localize(tr, "es")
	assert.Equal(t, []string{"La longitud mínima es 3", "custom"}, es.Errors)

	en := res.Localize(tr, "en")
	assert.Equal(t, res.Errors, en.Errors, "english catalog matches the built-in messages")

	assert.Equal(t, res.Errors, res.Localize(tr, "de").Errors)
}

func TestMergedAdapter(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewTranslator(context.Background(), i18n.MergedAdapter{
		i18n.DefaultCatalog(),
		&i18n.MapAdapter{Data: map[string]map[string]any{
			"en": {"validation": map[string]any{"required": "Please fill this in"}},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Please fill this in", tr.T("en", "validation.required"))
	assert.Equal(t, "Invalid email address", tr.T("en", "validation.email"), "sibling keys survive the merge")
}
