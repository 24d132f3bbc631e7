package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

// Entry is the internal representation of a config entry.
// It contains the entry value, its expected type and a slice of authorized
// values. If this slice is empty, any value of the correct type is accepted.
type Entry struct {
	Value            any
	AuthorizedValues []any // Leave empty for "any"
	Type             reflect.Kind
	IsSlice          bool
	Required         bool
}

func makeEntryFromValue(value any) *Entry {
	if value == nil {
		return &Entry{Type: reflect.Invalid}
	}
	t := reflect.TypeOf(value)
	kind := t.Kind()
	isSlice := kind == reflect.Slice
	if isSlice {
		kind = t.Elem().Kind()
	}
	return &Entry{value, []any{}, kind, isSlice, false}
}

func (e *Entry) validate(key string) error {
	if err := e.tryEnvVarConversion(key); err != nil {
		return err
	}

	if e.Value == nil {
		if e.Required {
			return errors.Errorf("%q is required", key)
		}
		return nil
	}
	if e.Required {
		if str, ok := e.Value.(string); ok && str == "" {
			return errors.Errorf("%q is required", key)
		}
	}
	if e.Type == reflect.Invalid {
		return nil
	}

	v := reflect.ValueOf(e.Value)
	kind := v.Kind()
	if e.IsSlice && kind == reflect.Slice {
		kind = v.Type().Elem().Kind()
	}
	if kind != e.Type && !e.tryConversion(kind) {
		if e.IsSlice {
			return errors.Errorf("%q must be a slice of %s", key, e.Type)
		}
		return errors.Errorf("%q type must be %s", key, e.Type)
	}

	if len(e.AuthorizedValues) == 0 {
		return nil
	}
	if e.IsSlice {
		v = reflect.ValueOf(e.Value)
		for i := 0; i < v.Len(); i++ {
			if !lo.Contains(e.AuthorizedValues, v.Index(i).Interface()) {
				return errors.Errorf("%q elements must have one of the following values: %v", key, e.AuthorizedValues)
			}
		}
	} else if !lo.Contains(e.AuthorizedValues, e.Value) {
		return errors.Errorf("%q must have one of the following values: %v", key, e.AuthorizedValues)
	}
	return nil
}

// tryConversion converts JSON numbers to int and generic JSON arrays
// to typed slices.
func (e *Entry) tryConversion(kind reflect.Kind) bool {
	if !e.IsSlice && kind == reflect.Float64 && e.Type == reflect.Int {
		f := e.Value.(float64)
		if f == float64(int(f)) {
			e.Value = int(f)
			return true
		}
		return false
	}
	if !e.IsSlice || kind != reflect.Interface {
		return false
	}

	original := e.Value.([]any)
	var ok bool
	switch e.Type {
	case reflect.String:
		e.Value, ok = convertSlice[string](original, e.Value)
	case reflect.Bool:
		e.Value, ok = convertSlice[bool](original, e.Value)
	case reflect.Float64:
		e.Value, ok = convertSlice[float64](original, e.Value)
	}
	return ok
}

func convertSlice[T any](slice []any, fallback any) (any, bool) {
	result := make([]T, len(slice))
	for k, v := range slice {
		value, ok := v.(T)
		if !ok {
			return fallback, false
		}
		result[k] = value
	}
	return result, true
}

// tryEnvVarConversion replaces "${VAR}" string values with the value
// of the environment variable, converted to the entry type.
func (e *Entry) tryEnvVarConversion(key string) error {
	str, ok := e.Value.(string)
	if !ok || !strings.HasPrefix(str, "${") || !strings.HasSuffix(str, "}") {
		return nil
	}
	if e.IsSlice {
		return errors.Errorf("%q is a slice entry, it cannot be loaded from env", key)
	}

	varName := str[2 : len(str)-1]
	value, set := os.LookupEnv(varName)
	if !set {
		return errors.Errorf("%q: %q environment variable is not set", key, varName)
	}

	switch e.Type {
	case reflect.Int:
		i, err := strconv.Atoi(value)
		if err != nil {
			return errors.Errorf("%q could not be converted to int from environment variable %q of value %q", key, varName, value)
		}
		e.Value = i
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Errorf("%q could not be converted to float64 from environment variable %q of value %q", key, varName, value)
		}
		e.Value = f
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Errorf("%q could not be converted to bool from environment variable %q of value %q", key, varName, value)
		}
		e.Value = b
	default:
		e.Value = value
	}
	return nil
}
