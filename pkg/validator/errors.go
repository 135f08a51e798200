package validator

import "errors"

var (
	// ErrRuleFault is the violation reported when a rule predicate panics.
	ErrRuleFault = errors.New("validation rule failed to evaluate")

	// ErrInvalidRule is returned when a rule is constructed with invalid parameters
	// or without a predicate.
	ErrInvalidRule = errors.New("invalid validation rule")

	// ErrInvalidField is returned when a field name is empty, padded with
	// whitespace or contains control characters.
	ErrInvalidField = errors.New("invalid field name")

	// ErrUnknownRule is returned when a descriptor names a rule outside the library.
	ErrUnknownRule = errors.New("unknown validation rule")

	// ErrMissingParam is returned when a descriptor omits a parameter its rule requires.
	ErrMissingParam = errors.New("missing rule parameter")

	// ErrInvalidParam is returned when a descriptor parameter cannot be used by its rule.
	ErrInvalidParam = errors.New("invalid rule parameter")

	// ErrInvalidConfig is returned when a rule configuration document cannot be parsed.
	ErrInvalidConfig = errors.New("invalid rule configuration")

	// ErrUnsupportedFormat is returned for configuration files that are neither YAML nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)
