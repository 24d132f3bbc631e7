package validation

import (
	"goyave.dev/formrules/config"
	"goyave.dev/formrules/lang"
	"goyave.dev/formrules/slog"
)

// Options the dependencies of a form. Nil fields are replaced by defaults:
// the default configuration, the default language and a logger discarding everything.
type Options struct {
	Config   *config.Config
	Language *lang.Language
	Logger   *slog.Logger
}

// Form the root of a tree of fields and groups, bound to a submission.
//
// A form caches valid values and errors between calls. It is not safe for
// concurrent use: use one form per submission, or call `SetSource` before
// validating a new submission.
type Form struct {
	*Group
	source   ValueSource
	Config   *config.Config
	Language *lang.Language
	Logger   *slog.Logger
	errors   Errors
}

// NewForm create a new empty form.
func NewForm(name string, opts *Options) *Form {
	if opts == nil {
		opts = &Options{}
	}
	f := &Form{
		Group:    NewGroup(name),
		Config:   opts.Config,
		Language: opts.Language,
		Logger:   opts.Logger,
		source:   Values{},
		errors:   Errors{},
	}
	if f.Config == nil {
		f.Config = config.LoadDefault()
	}
	if f.Language == nil {
		f.Language = defaultLanguage
	}
	if f.Logger == nil {
		f.Logger = slog.Discard()
	}
	f.Group.form = f
	return f
}

// Source returns the submission the form reads values from.
func (f *Form) Source() ValueSource {
	return f.source
}

// SetSource binds the form to a new submission and resets every cache.
func (f *Form) SetSource(source ValueSource) {
	f.source = source
	f.Reset()
}

// Reset clears the valid values, errors and override errors of every field,
// and restores the declared counter values.
func (f *Form) Reset() {
	f.errors = Errors{}
	for _, field := range f.Fields() {
		field.Validator().Reset()
	}
	for _, c := range f.collectCounters() {
		c.reset()
	}
}

// Validate validates every field at every dynamic position. Returns true if the
// whole form is valid. Errors are available through `Errors()`.
func (f *Form) Validate() bool {
	f.errors = Errors{}
	for _, field := range f.Fields() {
		for _, position := range field.Positions() {
			if field.Validator().Validate(position) {
				continue
			}
			err := field.Validator().Error(position)
			f.errors.Add(err)
			f.Logger.Debug("invalid field", "form", f.Name(), "error", err)
		}
	}
	return f.errors.Len() == 0
}

// Errors returns the errors of the last call to `Validate`.
func (f *Form) Errors() Errors {
	return f.errors
}

// SetOverrideError forces the field with the given name to be invalid at the
// given position, for example after a check performed outside the form.
// Returns false if the field doesn't exist.
func (f *Form) SetOverrideError(name string, position int, message string) bool {
	field := f.Field(name)
	if field == nil {
		return false
	}
	field.Validator().SetOverrideError(position, message)
	return true
}

// Values returns the valid values by field name. Dynamic fields map to a
// slice containing the valid value of each position. Fields without
// valid value are omitted.
func (f *Form) Values() map[string]any {
	values := make(map[string]any)
	for _, field := range f.Fields() {
		if !field.IsDynamic() {
			if v, ok := field.Validator().ValidValue(0); ok {
				values[field.Name()] = v
			}
			continue
		}
		list := []any{}
		for _, position := range field.Positions() {
			if v, ok := field.Validator().ValidValue(position); ok {
				list = append(list, v)
			}
		}
		values[field.Name()] = list
	}
	return values
}
