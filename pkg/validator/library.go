package validator

import (
	"fmt"
	"math"
	"regexp"
)

// Rule names as used by descriptors and configuration files.
const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleNumber    = "number"
	RuleMin       = "min"
	RuleMax       = "max"
	RulePattern   = "pattern"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required fails for nil, nil pointers and the empty string. It is the only
// library rule that sees empty input.
func Required(opts ...RuleOption) Rule {
	return build(RuleRequired, "This field is required", "validation.required", nil, false,
		func(value any) bool {
			return !IsEmpty(value)
		}, opts)
}

// Email checks the local@domain.tld shape.
func Email(opts ...RuleOption) Rule {
	return build(RuleEmail, "Invalid email address", "validation.email", nil, true,
		func(value any) bool {
			return emailRegex.MatchString(toText(value))
		}, opts)
}

// MinLength counts runes for strings and elements for collections.
func MinLength(min int, opts ...RuleOption) Rule {
	if min < 0 {
		panic(fmt.Errorf("%w: minLength must be >= 0, got %d", ErrInvalidRule, min))
	}
	return build(RuleMinLength, fmt.Sprintf("Minimum length is %d", min), "validation.min_length",
		map[string]any{"min": min}, true,
		func(value any) bool {
			n, ok := lengthOf(value)
			return ok && n >= min
		}, opts)
}

func MaxLength(max int, opts ...RuleOption) Rule {
	if max < 0 {
		panic(fmt.Errorf("%w: maxLength must be >= 0, got %d", ErrInvalidRule, max))
	}
	return build(RuleMaxLength, fmt.Sprintf("Maximum length is %d", max), "validation.max_length",
		map[string]any{"max": max}, true,
		func(value any) bool {
			n, ok := lengthOf(value)
			return ok && n <= max
		}, opts)
}

// Number accepts Go numeric types, json.Number and numeric strings with a finite value.
func Number(opts ...RuleOption) Rule {
	return build(RuleNumber, "Must be a valid number", "validation.number", nil, true,
		func(value any) bool {
			_, ok := toNumber(value)
			return ok
		}, opts)
}

func Min(min float64, opts ...RuleOption) Rule {
	mustBeFinite(RuleMin, min)
	return build(RuleMin, "Minimum value is "+formatNumber(min), "validation.min",
		map[string]any{"min": formatNumber(min)}, true,
		func(value any) bool {
			n, ok := toNumber(value)
			return ok && n >= min
		}, opts)
}

func Max(max float64, opts ...RuleOption) Rule {
	mustBeFinite(RuleMax, max)
	return build(RuleMax, "Maximum value is "+formatNumber(max), "validation.max",
		map[string]any{"max": formatNumber(max)}, true,
		func(value any) bool {
			n, ok := toNumber(value)
			return ok && n <= max
		}, opts)
}

// Pattern matches the string form of the value against re. Anchor the
// expression to require a full match.
func Pattern(re *regexp.Regexp, opts ...RuleOption) Rule {
	if re == nil {
		panic(fmt.Errorf("%w: pattern requires a regular expression", ErrInvalidRule))
	}
	return build(RulePattern, "Invalid format", "validation.pattern",
		map[string]any{"pattern": re.String()}, true,
		func(value any) bool {
			return re.MatchString(toText(value))
		}, opts)
}

func mustBeFinite(name string, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Errorf("%w: %s bound must be finite", ErrInvalidRule, name))
	}
}
