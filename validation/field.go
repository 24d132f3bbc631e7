package validation

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/formrules/lang"
)

const (
	defaultPositionSeparator = "_"
	defaultCounterSuffix     = "_dynamic"
	defaultMaxDynamicCount   = 100
)

// Kind the type of input of a field. The kind selects the type check
// applied by the validator.
type Kind string

// Field kinds
const (
	KindString     Kind = "string"
	KindText       Kind = "text"
	KindPassword   Kind = "password"
	KindHidden     Kind = "hidden"
	KindInt        Kind = "int"
	KindFloat      Kind = "float"
	KindEmail      Kind = "email"
	KindURL        Kind = "url"
	KindUUID       Kind = "uuid"
	KindIP         Kind = "ip"
	KindDate       Kind = "date"
	KindAlpha      Kind = "alpha"
	KindDigit      Kind = "digit"
	KindSelect     Kind = "select"
	KindRadio      Kind = "radio"
	KindCheckboxes Kind = "checkboxes"
	KindCheckbox   Kind = "checkbox"
)

// IsChoice returns true for kinds whose values must come from a list of options.
func (k Kind) IsChoice() bool {
	return k == KindSelect || k == KindRadio || k == KindCheckboxes
}

// Option a choice of a select, radio or checkboxes field.
type Option struct {
	Label string `json:"label" yaml:"label" toml:"label"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Field a named input of the form. Each field owns exactly one `Validator`.
type Field struct {
	element
	dynamic
	validator    *Validator
	optionsFunc  func() []Option
	kind         Kind
	label        string
	hint         string
	defaultValue string
	options      []Option
	multiple     bool
	removable    bool
	spreadRows   bool
}

// NewField create a new field with the given kind and validation rules.
//
// A name ending with "[]" declares a list field (multiple values). Fields of
// kind `KindCheckboxes` are always lists.
func NewField(name string, kind Kind, rules Rules) *Field {
	f := &Field{
		kind:     kind,
		multiple: kind == KindCheckboxes || strings.HasSuffix(name, "[]"),
	}
	f.element = element{
		self: f,
		name: strings.TrimSuffix(name, "[]"),
	}
	f.validator = newValidator(f, rules)
	return f
}

// Kind returns the kind of input of the field.
func (f *Field) Kind() Kind {
	return f.kind
}

// Validator returns the validator owned by this field.
func (f *Field) Validator() *Validator {
	return f.validator
}

// IsMultiple returns true if the field submits a list of values.
func (f *Field) IsMultiple() bool {
	return f.multiple
}

// SetMultiple changes whether the field submits a list of values.
func (f *Field) SetMultiple(multiple bool) *Field {
	f.multiple = multiple
	return f
}

// Label returns the human-readable label used in error messages, or an empty string.
func (f *Field) Label() string {
	return f.label
}

// SetLabel sets the human-readable label used in error messages instead of
// the translated field name.
func (f *Field) SetLabel(label string) *Field {
	f.label = label
	return f
}

// Hint returns the placeholder value of the field.
func (f *Field) Hint() string {
	return f.hint
}

// SetHint sets the placeholder value. Submitting the hint is treated as submitting nothing.
func (f *Field) SetHint(hint string) *Field {
	f.hint = hint
	return f
}

// Default returns the default value of the field.
func (f *Field) Default() string {
	return f.defaultValue
}

// SetDefault sets the value used when the field is not submitted.
func (f *Field) SetDefault(value string) *Field {
	f.defaultValue = value
	return f
}

// IsRemovable returns true if dynamic copies of this field can be removed by the user.
// Removable copies are validated as required at every position.
func (f *Field) IsRemovable() bool {
	return f.removable
}

// SetRemovable see `IsRemovable`.
func (f *Field) SetRemovable(removable bool) *Field {
	f.removable = removable
	return f
}

// SetSpreadRows makes a list field store its valid items one per dynamic position
// (item N becomes the valid value at position N) instead of storing the whole list.
func (f *Field) SetSpreadRows(spread bool) *Field {
	f.spreadRows = spread
	return f
}

// SetOptions sets the static list of options of a choice field.
func (f *Field) SetOptions(options ...Option) *Field {
	f.options = options
	return f
}

// SetOptionsFunc sets a function returning the live list of options. It is called
// every time list membership is checked and takes precedence over static options.
func (f *Field) SetOptionsFunc(fn func() []Option) *Field {
	f.optionsFunc = fn
	return f
}

// Options returns the current list of options.
func (f *Field) Options() []Option {
	if f.optionsFunc != nil {
		return f.optionsFunc()
	}
	return f.options
}

// SetDynamic makes the field repeatable on its own, with a counter named after the field.
func (f *Field) SetDynamic(dynamic bool) *Field {
	f.flagged = dynamic
	if dynamic && len(f.counters) == 0 {
		f.counters = append(f.counters, &Counter{name: f.name})
	}
	return f
}

// AddCounter attaches an additional counter input with the given full name.
func (f *Field) AddCounter(name string) *Counter {
	c := &Counter{name: name, explicit: true}
	f.counters = append(f.counters, c)
	return c
}

// IsDynamic returns true if the field is repeatable on its own or
// belongs to a dynamic group.
func (f *Field) IsDynamic() bool {
	return f.flagged || len(f.counters) > 0 || f.dynamicGroup() != nil
}

// DynamicCount returns the number of extra copies submitted for this field.
// If the field belongs to a dynamic group, the count of the closest dynamic
// group is used.
func (f *Field) DynamicCount() int {
	if g := f.dynamicGroup(); g != nil {
		return g.DynamicCount()
	}
	if len(f.counters) == 0 {
		return 0
	}
	return equalize(f.counters, f.source(), f.counterSuffix(), f.maxDynamicCount())
}

// DynamicState returns the current count and the counter names of the field.
func (f *Field) DynamicState() DynamicState {
	if g := f.dynamicGroup(); g != nil {
		return g.DynamicState()
	}
	return DynamicState{
		Count:    f.DynamicCount(),
		Counters: counterNames(f.counters, f.counterSuffix()),
	}
}

// Positions returns all the dynamic positions of the field, from 0 to its count.
func (f *Field) Positions() []int {
	return lo.RangeFrom(0, f.DynamicCount()+1)
}

func (f *Field) dynamicGroup() *Group {
	for g := f.parent; g != nil; g = g.parent {
		if g.IsDynamic() {
			return g
		}
	}
	return nil
}

// PositionalName returns the input name of the field at the given dynamic position:
// the plain name at position 0, the name followed by the position separator and
// the position otherwise. List fields get a trailing "[]".
func (f *Field) PositionalName(position int) string {
	name := f.name
	if position > 0 {
		name += f.positionSeparator() + strconv.Itoa(position)
	}
	if f.multiple {
		name += "[]"
	}
	return name
}

// Submitted returns the raw submitted value at the given position
// (`string`, or `[]string` for list fields) and whether it was present.
func (f *Field) Submitted(position int) (any, bool) {
	src := f.source()
	name := f.PositionalName(position)
	if !src.Has(name) {
		return nil, false
	}
	if f.multiple {
		return src.GetAll(name), true
	}
	return src.Get(name), true
}

// Value returns the current value of the field at the given position. In order:
//   - the cached valid value at this position
//   - the submitted value at this position, after the pre-sanitizers
//   - the value at position 0, if no positional value exists
//   - the default value
func (f *Field) Value(position int) any {
	if v, ok := f.lookup(position); ok {
		return v
	}
	if position > 0 {
		if v, ok := f.lookup(0); ok {
			return v
		}
	}
	return f.defaultAsValue()
}

func (f *Field) lookup(position int) (any, bool) {
	if v, ok := f.validator.ValidValue(position); ok {
		return v, true
	}
	v, ok := f.Submitted(position)
	if !ok {
		return nil, false
	}
	return f.validator.preSanitize(v), true
}

func (f *Field) defaultAsValue() any {
	if f.multiple {
		if f.defaultValue == "" {
			return []string{}
		}
		return []string{f.defaultValue}
	}
	return f.defaultValue
}

// Form returns the form at the root of the tree, or nil if the field is detached.
func (f *Field) Form() *Form {
	if f.parent == nil {
		return nil
	}
	return f.parent.Form()
}

func (f *Field) source() ValueSource {
	if f.parent == nil {
		return Values{}
	}
	return f.parent.source()
}

func (f *Field) counterSuffix() string {
	if f.parent == nil {
		return defaultCounterSuffix
	}
	return f.parent.counterSuffix()
}

func (f *Field) maxDynamicCount() int {
	if f.parent == nil {
		return defaultMaxDynamicCount
	}
	return f.parent.maxDynamicCount()
}

func (f *Field) positionSeparator() string {
	if form := f.Form(); form != nil {
		return form.Config.GetString("validation.positionSeparator")
	}
	return defaultPositionSeparator
}

func (f *Field) language() *lang.Language {
	if form := f.Form(); form != nil && form.Language != nil {
		return form.Language
	}
	return defaultLanguage
}

func (f *Field) displayName() string {
	if f.label != "" {
		return f.label
	}
	return f.language().FieldName(f.name)
}
