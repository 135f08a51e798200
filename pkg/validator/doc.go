// Package validator is a declarative field-validation engine for form input.
//
// A Rule pairs a pure predicate with the message reported when it fails.
// The library constructors (Required, Email, MinLength, MaxLength, Number,
// Min, Max, Pattern) cover the common cases; NewRule builds custom ones.
// Every rule except Required treats empty input (nil, nil pointers and "")
// as passing, so a field can be optional yet format-checked when supplied.
//
// A Registry keeps an ordered list of rules per field and evaluates them:
//
//	registry := validator.NewRegistry().
//	    Register("email", validator.Required(), validator.Email()).
//	    Register("name", validator.Required(), validator.MinLength(3))
//
//	res := registry.Validate("name", "a")
//	// res.Valid == false, res.Errors == []string{"Minimum length is 3"}
//
//	results := registry.ValidateAll(validator.Record{"email": "bad"})
//	if err := results.Err(); err != nil {
//	    // err is ValidationErrors
//	}
//
// Validation never stops at the first failure: all failing messages are
// returned in registration order. A predicate that panics is reported as the
// violation "validation rule failed to evaluate" instead of crashing the
// caller.
//
// # Configuration
//
// Registries can be declared in YAML or JSON through Descriptor values.
// Invalid descriptors are reported by Build; code-level constructors panic on
// invalid parameters since those are programmer errors.
//
// # Localization
//
// Every library rule carries a translation key (validation.required,
// validation.min_length, ...). Result.Localize re-renders messages through a
// Translator such as the one in pkg/i18n.
//
// # Concurrency
//
// Rules are immutable. A Registry is safe for concurrent validation once all
// rules are registered; registering while validating is not.
package validator
