package validation

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

// ValueSource resolves the raw submitted values of a form by input name.
//
// List-style inputs ("name[]") are read with `GetAll`, scalar inputs with `Get`.
type ValueSource interface {
	// Get returns the first value for the given input name, or an empty string.
	Get(name string) string
	// GetAll returns all values for the given input name.
	GetAll(name string) []string
	// Has returns true if the input name is present in the submission,
	// even if its value is empty.
	Has(name string) bool
}

// Values a `ValueSource` backed by a map of string slices. It has the same
// layout as `url.Values` so submitted form data can be converted directly:
//
//	validation.Values(request.PostForm)
type Values map[string][]string

// Get returns the first value associated with the given name.
func (v Values) Get(name string) string {
	vs := v[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// GetAll returns all the values associated with the given name.
func (v Values) GetAll(name string) []string {
	return v[name]
}

// Has returns true if the given name is present.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// RequestSource parses the form of the given request (url-encoded or multipart)
// and returns its values, query string included.
func RequestSource(r *http.Request, maxMemory int64) (Values, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, errors.New(err)
	}
	return Values(r.Form), nil
}

// ValuesFromMap converts decoded JSON data into `Values`. Arrays become
// multiple values, `nil` becomes an empty value, booleans become "1" or "".
// Nested objects are not supported and are rejected.
func ValuesFromMap(data map[string]any) (Values, error) {
	values := make(Values, len(data))
	for name, raw := range data {
		switch val := raw.(type) {
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				str, err := scalarString(name, item)
				if err != nil {
					return nil, err
				}
				items = append(items, str)
			}
			values[name] = items
		default:
			str, err := scalarString(name, val)
			if err != nil {
				return nil, err
			}
			values[name] = []string{str}
		}
	}
	return values, nil
}

func scalarString(name string, value any) (string, error) {
	switch val := value.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return lo.Ternary(val, "1", ""), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return "", errors.Errorf("value of %q has unsupported type %T", name, value)
	}
}
