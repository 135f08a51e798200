package validator

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// Result is the outcome of validating one field.
type Result struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`

	// Violations carries translation metadata for each message in Errors.
	Violations []ValidationError `json:"-"`
}

func newResult(violations []ValidationError) Result {
	errs := make([]string, len(violations))
	for i, v := range violations {
		errs[i] = v.Message
	}
	return Result{
		Valid:      len(errs) == 0,
		Errors:     errs,
		Violations: violations,
	}
}

// Translator localizes messages by key. *i18n.Translator satisfies it.
type Translator interface {
	T(lang, key string, args ...string) string
	HasTranslation(lang, key string) bool
}

// Localize returns a copy of the result with messages rendered for lang.
// Messages without a translation key, or whose key has no translation, are kept.
func (r Result) Localize(t Translator, lang string) Result {
	if t == nil || len(r.Violations) == 0 {
		return r
	}
	violations := make([]ValidationError, len(r.Violations))
	for i, v := range r.Violations {
		if v.TranslationKey != "" && t.HasTranslation(lang, v.TranslationKey) {
			v.Message = t.T(lang, v.TranslationKey, translationArgs(v.TranslationValues)...)
		}
		violations[i] = v
	}
	return newResult(violations)
}

func translationArgs(values map[string]any) []string {
	keys := slices.Sorted(maps.Keys(values))
	args := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fmt.Sprint(values[k]))
	}
	return args
}

// Results maps each validated field to its result.
type Results map[string]Result

// Valid reports whether every field passed.
func (rs Results) Valid() bool {
	for _, r := range rs {
		if !r.Valid {
			return false
		}
	}
	return true
}

// Failed returns the messages of failing fields only.
func (rs Results) Failed() map[string][]string {
	out := make(map[string][]string)
	for field, r := range rs {
		if !r.Valid {
			out[field] = slices.Clone(r.Errors)
		}
	}
	return out
}

// Err returns the failures as ValidationErrors ordered by field name, or nil.
func (rs Results) Err() error {
	fields := make([]string, 0, len(rs))
	for field, r := range rs {
		if !r.Valid {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)

	var errs ValidationErrors
	for _, field := range fields {
		for _, v := range rs[field].Violations {
			errs.Add(v)
		}
	}
	return errs
}

func (rs Results) Localize(t Translator, lang string) Results {
	out := make(Results, len(rs))
	for field, r := range rs {
		out[field] = r.Localize(t, lang)
	}
	return out
}
