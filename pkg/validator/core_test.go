package validator_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Run("returns default message when no errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("returns formatted message with multiple errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "email", Message: "is required"})
		errs.Add(validator.ValidationError{Field: "password", Message: "too short"})

		assert.Equal(t, "validation failed: email: is required; password: too short", errs.Error())
	})
}

func TestValidationErrors_Accessors(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add(validator.ValidationError{Field: "email", Message: "is required"})
	errs.Add(validator.ValidationError{Field: "email", Message: "invalid format"})
	errs.Add(validator.ValidationError{Field: "zip", Message: "invalid format"})

	assert.True(t, errs.Has("email"))
	assert.False(t, errs.Has("name"))
	assert.Equal(t, []string{"is required", "invalid format"}, errs.Get("email"))
	assert.Empty(t, errs.Get("name"))
	assert.Equal(t, []string{"email", "zip"}, errs.Fields())
	assert.Equal(t, map[string][]string{
		"email": {"is required", "invalid format"},
		"zip":   {"invalid format"},
	}, errs.Map())
	assert.False(t, errs.IsEmpty())
}

func TestExtractValidationErrors(t *testing.T) {
	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.Nil(t, validator.ExtractValidationErrors(nil))
		assert.False(t, validator.IsValidationError(nil))
	})

	t.Run("returns nil for other errors", func(t *testing.T) {
		err := errors.New("boom")
		assert.Nil(t, validator.ExtractValidationErrors(err))
		assert.False(t, validator.IsValidationError(err))
	})

	t.Run("unwraps wrapped validation errors", func(t *testing.T) {
		verrs := validator.ValidationErrors{{Field: "email", Message: "is required"}}
		wrapped := fmt.Errorf("checkout: %w", verrs)

		require.True(t, validator.IsValidationError(wrapped))
		assert.Equal(t, verrs, validator.ExtractValidationErrors(wrapped))
	})
}

func TestRecord_Clone(t *testing.T) {
	t.Run("copies nested values", func(t *testing.T) {
		original := validator.Record{
			"email":   "a@b.com",
			"tags":    []string{"gift"},
			"address": map[string]any{"zip": "12345", "lines": []any{"Main st"}},
		}
		clone := original.Clone()
		require.Equal(t, original, clone)

		clone["tags"].([]string)[0] = "changed"
		clone["address"].(map[string]any)["zip"] = "00000"
		clone["address"].(map[string]any)["lines"].([]any)[0] = "Other st"
		clone["email"] = "x@y.com"

		assert.Equal(t, "gift", original["tags"].([]string)[0])
		assert.Equal(t, "12345", original["address"].(map[string]any)["zip"])
		assert.Equal(t, "Main st", original["address"].(map[string]any)["lines"].([]any)[0])
		assert.Equal(t, "a@b.com", original["email"])
	})

	t.Run("nil record clones to empty record", func(t *testing.T) {
		var r validator.Record
		assert.Equal(t, validator.Record{}, r.Clone())
	})
}

type fakeTranslator map[string]string

func (f fakeTranslator) HasTranslation(lang, key string) bool {
	_, ok := f[lang+":"+key]
	return ok
}

func (f fakeTranslator) T(lang, key string, args ...string) string {
	out := f[lang+":"+key]
	for i := 0; i+1 < len(args); i += 2 {
		out = strings.ReplaceAll(out, "%{"+args[i]+"}", args[i+1])
	}
	return out
}

func TestResult_Localize(t *testing.T) {
	tr := fakeTranslator{
		"es:validation.required":   "Este campo es obligatorio",
		"es:validation.min_length": "La longitud mínima es %{min}",
	}
	registry := validator.NewRegistry().
		Register("name", validator.Required(), validator.MinLength(3)).
		Register("email", validator.Email(validator.WithMessage("Check your email")), validator.MaxLength(3))

	t.Run("renders messages with translation values", func(t *testing.T) {
		res := registry.Validate("name", "a").Localize(tr, "es")
		assert.Equal(t, []string{"La longitud mínima es 3"}, res.Errors)
		assert.False(t, res.Valid)
	})

	t.Run("keeps custom and untranslated messages", func(t *testing.T) {
		res := registry.Validate("email", "nope").Localize(tr, "es")
		assert.Equal(t, []string{"Check your email", "Maximum length is 3"}, res.Errors)
	})

	t.Run("localizes results maps", func(t *testing.T) {
		results := registry.ValidateAll(validator.Record{"name": ""}).Localize(tr, "es")
		assert.Equal(t, []string{"Este campo es obligatorio"}, results["name"].Errors)
	})

	t.Run("nil translator is a no-op", func(t *testing.T) {
		res := registry.Validate("name", "")
		assert.Equal(t, res, res.Localize(nil, "es"))
	})
}
