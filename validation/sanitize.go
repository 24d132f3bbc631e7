package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

// Sanitizer a named string transformation applied to valid values.
type Sanitizer struct {
	Func func(string) string
	Name string
}

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// Built-in sanitizers
var (
	Trim           = Sanitizer{Name: "trim", Func: strings.TrimSpace}
	Lower          = Sanitizer{Name: "lower", Func: strings.ToLower}
	Upper          = Sanitizer{Name: "upper", Func: strings.ToUpper}
	CollapseSpaces = Sanitizer{Name: "collapse_spaces", Func: func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}}
	// StripTags removes all HTML from the value.
	StripTags = Sanitizer{Name: "strip_tags", Func: strictPolicy.Sanitize}
	// UGC keeps the safe subset of HTML expected from user-generated content.
	UGC = Sanitizer{Name: "ugc", Func: ugcPolicy.Sanitize}
)

var sanitizers = map[string]Sanitizer{
	Trim.Name:           Trim,
	Lower.Name:          Lower,
	Upper.Name:          Upper,
	CollapseSpaces.Name: CollapseSpaces,
	StripTags.Name:      StripTags,
	UGC.Name:            UGC,
}

// Sanitizers that are also safe to apply before validation.
var preSanitizers = []string{Trim.Name}

// SanitizerByName returns the built-in or registered sanitizer with the given name.
func SanitizerByName(name string) (Sanitizer, bool) {
	s, ok := sanitizers[name]
	return s, ok
}

// RegisterSanitizer makes a custom sanitizer available by name to declarative forms.
// Not safe for concurrent use: register sanitizers at startup.
func RegisterSanitizer(s Sanitizer) {
	sanitizers[s.Name] = s
}

func applySanitizers(value any, list []Sanitizer) any {
	apply := func(s string) string {
		for _, sanitizer := range list {
			s = sanitizer.Func(s)
		}
		return s
	}
	switch v := value.(type) {
	case string:
		return apply(v)
	case []string:
		return lo.Map(v, func(item string, _ int) string {
			return apply(item)
		})
	}
	return value
}
