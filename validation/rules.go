package validation

import (
	"regexp"
)

// ExternalFunc a custom check run after the built-in rules. The value is
// a `string` or a `[]string` for list fields.
type ExternalFunc func(value any, args ...any) bool

// Hook an external check with its arguments.
type Hook struct {
	Func ExternalFunc
	Name string
	// Message overrides the "external_validation" message for this hook only.
	Message string
	Args    []any
}

// Rules the validation rules of a field. The zero value validates nothing
// except the type check of the field's kind.
type Rules struct {
	// MatchWith the field whose value this field must equal, such as a
	// password confirmation.
	MatchWith *Field

	// MinValue and MaxValue are inclusive numeric bounds, nil means unbounded.
	MinValue *float64
	MaxValue *float64

	// Pattern replaces the type check of the field's kind.
	Pattern *regexp.Regexp

	// Messages overrides the default message of the given error kinds.
	// Messages support the same placeholders as language lines (":field", ":min", ...).
	Messages map[ErrorKind]string

	// Sanitizers run in order on valid values. The ones allowed as pre-sanitizers
	// ("trim") also run before validation.
	Sanitizers []Sanitizer

	Hooks []Hook

	// MinLength and MaxLength count graphemes for scalar values and
	// items for lists. Zero means no limit.
	MinLength int
	MaxLength int

	Required bool

	// AllowUnlistedItems disables the list membership check of choice fields.
	AllowUnlistedItems bool
}

// Float returns a pointer to the given value, for use with `MinValue` and `MaxValue`.
func Float(value float64) *float64 {
	return &value
}
