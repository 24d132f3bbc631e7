package validation

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

// ErrorKind identifies the rule a value failed.
type ErrorKind string

// Error kinds, checked in this order by the validator.
const (
	RequiredError           ErrorKind = "required"
	HintError               ErrorKind = "hint"
	MinLengthError          ErrorKind = "min_length"
	MaxLengthError          ErrorKind = "max_length"
	MatchWithError          ErrorKind = "match_with"
	TypeError               ErrorKind = "type"
	ListMembershipError     ErrorKind = "list_membership"
	MinValueError           ErrorKind = "min_value"
	MaxValueError           ErrorKind = "max_value"
	ExternalValidationError ErrorKind = "external_validation"
	OverrideError           ErrorKind = "override"
)

var errorKinds = []ErrorKind{
	RequiredError, HintError, MinLengthError, MaxLengthError, MatchWithError, TypeError,
	ListMembershipError, MinValueError, MaxValueError, ExternalValidationError, OverrideError,
}

// ParseErrorKind returns the error kind matching the given name.
func ParseErrorKind(name string) (ErrorKind, error) {
	kind := ErrorKind(name)
	if !lo.Contains(errorKinds, kind) {
		return "", errors.Errorf("unknown error kind %q", name)
	}
	return kind, nil
}

// FieldError describes why the value of a field at a dynamic position is invalid.
type FieldError struct {
	Field    string    `json:"field"`
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
	Position int       `json:"position"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// LogValue implements `slog.LogValuer`.
func (e *FieldError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("field", e.Field),
		slog.Int("position", e.Position),
		slog.String("kind", string(e.Kind)),
		slog.String("message", e.Message),
	)
}

// Errors the validation errors of a form, grouped by field name and sorted by position.
type Errors map[string][]*FieldError

// Add appends an error.
func (e Errors) Add(err *FieldError) {
	e[err.Field] = append(e[err.Field], err)
	sort.SliceStable(e[err.Field], func(i, j int) bool {
		return e[err.Field][i].Position < e[err.Field][j].Position
	})
}

// Len returns the total number of errors.
func (e Errors) Len() int {
	return lo.Sum(lo.Map(lo.Values(e), func(errs []*FieldError, _ int) int {
		return len(errs)
	}))
}

// Messages returns the error messages by positional field name, the
// format expected by clients rendering errors next to inputs.
func (e Errors) Messages(form *Form) map[string]string {
	messages := make(map[string]string, len(e))
	for name, errs := range e {
		field := form.Field(name)
		for _, err := range errs {
			key := name
			if field != nil {
				key = field.PositionalName(err.Position)
			}
			messages[key] = err.Message
		}
	}
	return messages
}

// MarshalJSON marshals the errors as a flat list sorted by field name then position.
func (e Errors) MarshalJSON() ([]byte, error) {
	names := lo.Keys(e)
	sort.Strings(names)
	list := make([]*FieldError, 0, len(names))
	for _, name := range names {
		list = append(list, e[name]...)
	}
	return json.Marshal(list)
}
