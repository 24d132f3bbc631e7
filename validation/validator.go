package validation

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Code-Hex/uniseg"
	"github.com/samber/lo"
	"goyave.dev/formrules/lang"
)

var defaultLanguage = lang.New().GetDefault()

// Validator checks the submitted values of its field, position by position,
// and caches the valid values and the errors.
//
// The effective required state is computed each time a position is validated
// from the declared `Rules.Required` and the conditions of the field and its
// ancestors. It is never written back into the rules.
type Validator struct {
	field          *Field
	validValues    map[int]any
	errors         map[int]*FieldError
	overrideErrors map[int]string
	rules          Rules
}

func newValidator(field *Field, rules Rules) *Validator {
	return &Validator{
		field:          field,
		rules:          rules,
		validValues:    map[int]any{},
		errors:         map[int]*FieldError{},
		overrideErrors: map[int]string{},
	}
}

// Rules returns the declared validation rules.
func (v *Validator) Rules() Rules {
	return v.rules
}

// SetMatchWith sets the field this field must equal. Use it when the
// referenced field is declared after this one.
func (v *Validator) SetMatchWith(other *Field) {
	v.rules.MatchWith = other
}

// DefaultRequired returns the declared required state, before conditions apply.
func (v *Validator) DefaultRequired() bool {
	return v.rules.Required
}

// Required returns the effective required state at the given position:
//   - a "required" condition sets it to its value when met, to the opposite otherwise
//   - a "enabled" or "visible" condition evaluating to false makes it not required
//   - a field inside an inactive area is not required
func (v *Validator) Required(position int) bool {
	required := v.rules.Required
	if c := v.field.Condition(PropertyRequired); c != nil {
		required = c.Effective(position)
	}
	for _, property := range []Property{PropertyEnabled, PropertyVisible} {
		if c := v.field.Condition(property); c != nil && !c.Effective(position) {
			required = false
		}
	}
	if parent := v.field.Parent(); parent != nil && !parent.IsActive(position) {
		required = false
	}
	return required
}

// ValidValue returns the cached valid value at the given position.
func (v *Validator) ValidValue(position int) (any, bool) {
	value, ok := v.validValues[position]
	return value, ok
}

// Error returns the error recorded at the given position, or nil.
func (v *Validator) Error(position int) *FieldError {
	return v.errors[position]
}

// Errors returns all the recorded errors, sorted by position.
func (v *Validator) Errors() []*FieldError {
	errs := lo.Values(v.errors)
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Position < errs[j].Position
	})
	return errs
}

// SetOverrideError forces the field to be invalid at the given position with
// the given message, whatever the outcome of the other rules.
func (v *Validator) SetOverrideError(position int, message string) {
	v.overrideErrors[position] = message
}

// ClearOverrideError removes the override error at the given position.
func (v *Validator) ClearOverrideError(position int) {
	delete(v.overrideErrors, position)
}

// Reset clears the cached valid values, errors and override errors.
func (v *Validator) Reset() {
	clear(v.validValues)
	clear(v.errors)
	clear(v.overrideErrors)
}

// Validate checks the submitted value at the given position. Returns true
// if no error is recorded for this position. Validating the same position
// twice with the same submission gives the same result.
func (v *Validator) Validate(position int) bool {
	delete(v.errors, position)
	v.validate(position)

	if message, ok := v.overrideErrors[position]; ok {
		delete(v.validValues, position)
		v.errors[position] = &FieldError{
			Field:    v.field.Name(),
			Position: position,
			Kind:     OverrideError,
			Message:  message,
		}
	}

	_, failed := v.errors[position]
	return !failed
}

func (v *Validator) validate(position int) {
	value, present := v.field.Submitted(position)
	if !present {
		value = v.field.defaultAsValue()
	}
	value = v.preSanitize(value)

	required := v.Required(position) && (position == 0 || v.field.removable)
	empty := isBlank(toList(value))

	if empty {
		if required {
			v.fail(position, RequiredError, "")
			return
		}
		if v.rules.MatchWith == nil {
			v.validValues[position] = v.emptyValue()
			return
		}
		// Optional and empty: only valid if the other field is empty too.
		// Nothing is stored so the field still reads as absent.
		delete(v.validValues, position)
		if !v.matches(position, value) {
			v.fail(position, MatchWithError, "")
		}
		return
	}

	if v.field.hint != "" && reflect.DeepEqual(value, v.field.hint) {
		if required {
			v.fail(position, HintError, "")
			return
		}
		v.validValues[position] = v.emptyValue()
		return
	}

	if !v.checkLength(position, value) {
		return
	}

	if !v.matches(position, value) {
		v.fail(position, MatchWithError, "")
		return
	}

	if !lo.EveryBy(toList(value), v.checkType) {
		v.fail(position, TypeError, string(v.field.kind))
		return
	}
	value = applySanitizers(value, v.rules.Sanitizers)
	v.store(position, value)

	if v.checkListMembership(position, value) && v.checkBounds(position, value) {
		v.runHooks(position, value)
	}
}

func (v *Validator) store(position int, value any) {
	items, isList := value.([]string)
	if !v.field.spreadRows || !isList {
		v.validValues[position] = value
		return
	}
	clear(v.validValues)
	for i, item := range items {
		v.validValues[i] = item
	}
}

func (v *Validator) emptyValue() any {
	if v.field.multiple {
		return []string{}
	}
	return ""
}

func (v *Validator) preSanitize(value any) any {
	list := lo.Filter(v.rules.Sanitizers, func(s Sanitizer, _ int) bool {
		return lo.Contains(preSanitizers, s.Name)
	})
	if v.trimValues() && !lo.ContainsBy(list, func(s Sanitizer) bool { return s.Name == Trim.Name }) {
		list = append([]Sanitizer{Trim}, list...)
	}
	return applySanitizers(value, list)
}

func (v *Validator) checkLength(position int, value any) bool {
	length := 0
	suffix := ""
	switch val := value.(type) {
	case string:
		length = uniseg.GraphemeClusterCount(val)
	case []string:
		length = len(val)
		suffix = "list"
	}
	if v.rules.MinLength > 0 && length < v.rules.MinLength {
		v.fail(position, MinLengthError, suffix)
		return false
	}
	if v.rules.MaxLength > 0 && length > v.rules.MaxLength {
		v.fail(position, MaxLengthError, suffix)
		return false
	}
	return true
}

// matches returns true if no match-with field is set or if the value equals
// the value of the match-with field at the same position. Empty values are equal.
func (v *Validator) matches(position int, value any) bool {
	other := v.rules.MatchWith
	if other == nil {
		return true
	}
	return reflect.DeepEqual(nullable(value), nullable(other.Value(position)))
}

func (v *Validator) checkType(value string) bool {
	if v.rules.Pattern != nil {
		return v.rules.Pattern.MatchString(value)
	}
	checker, ok := typeCheckers[v.field.kind]
	if !ok {
		return true
	}
	return checker(value)
}

func (v *Validator) checkListMembership(position int, value any) bool {
	if !v.field.kind.IsChoice() || v.rules.AllowUnlistedItems || !v.onlyListItems() {
		return true
	}
	allowed := lo.Map(v.field.Options(), func(o Option, _ int) string {
		return o.Value
	})
	for _, item := range toList(value) {
		if !lo.Contains(allowed, item) {
			v.fail(position, ListMembershipError, "")
			return false
		}
	}
	return true
}

func (v *Validator) checkBounds(position int, value any) bool {
	if v.rules.MinValue == nil && v.rules.MaxValue == nil {
		return true
	}
	for _, item := range toList(value) {
		n, ok := ParseNumber(item)
		if v.rules.MinValue != nil && (!ok || n < *v.rules.MinValue) {
			v.fail(position, MinValueError, "")
			return false
		}
		if v.rules.MaxValue != nil && (!ok || n > *v.rules.MaxValue) {
			v.fail(position, MaxValueError, "")
			return false
		}
	}
	return true
}

func (v *Validator) runHooks(position int, value any) {
	for _, hook := range v.rules.Hooks {
		if !hook.Func(value, hook.Args...) {
			v.failWithMessage(position, ExternalValidationError, hook.Message, "")
			return
		}
	}
}

func (v *Validator) fail(position int, kind ErrorKind, variant string) {
	v.failWithMessage(position, kind, "", variant)
}

func (v *Validator) failWithMessage(position int, kind ErrorKind, message, variant string) {
	if v.field.spreadRows {
		clear(v.validValues)
	} else {
		delete(v.validValues, position)
	}
	if m, ok := v.rules.Messages[kind]; ok {
		message = m
	}
	v.errors[position] = &FieldError{
		Field:    v.field.Name(),
		Position: position,
		Kind:     kind,
		Message:  v.message(position, kind, message, variant),
	}
}

func (v *Validator) message(position int, kind ErrorKind, template, variant string) string {
	placeholders := v.placeholders(position, kind)
	if template != "" {
		return lang.Format(template, placeholders...)
	}
	language := v.field.language()
	if variant != "" {
		entry := "validation.rules." + string(kind) + "." + variant
		if msg := language.Get(entry, placeholders...); msg != entry {
			return msg
		}
	}
	return language.Get("validation.rules."+string(kind), placeholders...)
}

func (v *Validator) placeholders(position int, kind ErrorKind) []string {
	placeholders := []string{":field", v.field.displayName(), ":position", strconv.Itoa(position)}
	switch kind {
	case MinLengthError, MaxLengthError:
		placeholders = append(placeholders,
			":min", strconv.Itoa(v.rules.MinLength),
			":max", strconv.Itoa(v.rules.MaxLength),
		)
	case MinValueError, MaxValueError:
		placeholders = append(placeholders,
			":min", formatFloat(v.rules.MinValue),
			":max", formatFloat(v.rules.MaxValue),
		)
	}
	if other := v.rules.MatchWith; other != nil {
		placeholders = append(placeholders, ":other", other.displayName())
	}
	return placeholders
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func (v *Validator) trimValues() bool {
	if form := v.field.Form(); form != nil {
		return form.Config.GetBool("validation.trimValues")
	}
	return true
}

func (v *Validator) onlyListItems() bool {
	if form := v.field.Form(); form != nil {
		return form.Config.GetBool("validation.onlyListItems")
	}
	return true
}

// nullable normalizes empty values to nil so an absent value equals an empty one.
func nullable(value any) any {
	items := toList(value)
	if isBlank(items) {
		return nil
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return items
}
