package lang

import "strings"

type validationLines struct {
	// Default messages for rules
	rules map[string]string

	// Field names translations
	fields map[string]string
}

// Language represents a full Language.
type Language struct {
	lines      map[string]string
	validation validationLines
	name       string
}

// Name returns the name of the language. For example "en-US".
func (l *Language) Name() string {
	return l.name
}

func (l *Language) clone() *Language {
	cpy := &Language{
		name:  l.name,
		lines: make(map[string]string, len(l.lines)),
		validation: validationLines{
			rules:  make(map[string]string, len(l.validation.rules)),
			fields: make(map[string]string, len(l.validation.fields)),
		},
	}

	mergeMap(cpy.lines, l.lines)
	mergeMap(cpy.validation.rules, l.validation.rules)
	mergeMap(cpy.validation.fields, l.validation.fields)

	return cpy
}

// Get a language line.
//
// For validation messages and field names, use a dot-separated path:
//   - "validation.rules.<error_kind>"
//   - "validation.fields.<field_name>"
//
// For normal lines, just use the name of the line.
//
// If not found, returns the exact "line" argument.
//
// The placeholders parameter is a variadic associative slice of placeholders and their
// replacement:
//
//	lang.Get("validation.rules.min_length", ":field", "username", ":min", "3")
func (l *Language) Get(line string, placeholders ...string) string {
	if strings.HasPrefix(line, "validation.rules.") {
		return convertEmptyLine(line, l.validation.rules[line[17:]], placeholders)
	} else if strings.HasPrefix(line, "validation.fields.") {
		return convertEmptyLine(line, l.validation.fields[line[18:]], placeholders)
	}

	return convertEmptyLine(line, l.lines[line], placeholders)
}

// FieldName returns the translated name of the given field, or
// the name itself if there is no translation.
func (l *Language) FieldName(name string) string {
	if n, ok := l.validation.fields[name]; ok && n != "" {
		return n
	}
	return name
}

func convertEmptyLine(entry, line string, placeholders []string) string {
	if line == "" {
		return entry
	}
	return Format(line, placeholders...)
}

// Format replaces the placeholders in the given message. The placeholders
// parameter is an associative slice: placeholder name followed by its value.
func Format(message string, placeholders ...string) string {
	length := len(placeholders) - 1
	result := message
	for i := 0; i < length; i += 2 {
		if strings.Contains(message, placeholders[i]) {
			result = strings.ReplaceAll(result, placeholders[i], placeholders[i+1])
		}
	}
	return result
}
