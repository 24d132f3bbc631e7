package config

import "reflect"

var configDefaults = object{
	"app": object{
		"name":            &Entry{"formrules", []any{}, reflect.String, false, false},
		"debug":           &Entry{false, []any{}, reflect.Bool, false, false},
		"defaultLanguage": &Entry{"en-US", []any{}, reflect.String, false, false},
	},
	"validation": object{
		"positionSeparator": &Entry{"_", []any{"_", "-", "."}, reflect.String, false, true},
		"counterSuffix":     &Entry{"_dynamic", []any{}, reflect.String, false, true},
		"maxDynamicCount":   &Entry{100, []any{}, reflect.Int, false, true},
		"onlyListItems":     &Entry{true, []any{}, reflect.Bool, false, false},
		"trimValues":        &Entry{true, []any{}, reflect.Bool, false, false},
	},
	"database": object{
		"connection":              &Entry{"none", []any{}, reflect.String, false, false},
		"host":                    &Entry{"127.0.0.1", []any{}, reflect.String, false, false},
		"port":                    &Entry{3306, []any{}, reflect.Int, false, false},
		"name":                    &Entry{"formrules", []any{}, reflect.String, false, false},
		"username":                &Entry{"root", []any{}, reflect.String, false, false},
		"password":                &Entry{"root", []any{}, reflect.String, false, false},
		"options":                 &Entry{"", []any{}, reflect.String, false, false},
		"maxOpenConnections":      &Entry{20, []any{}, reflect.Int, false, false},
		"maxIdleConnections":      &Entry{20, []any{}, reflect.Int, false, false},
		"maxLifetime":             &Entry{300, []any{}, reflect.Int, false, false},
		"defaultReadQueryTimeout": &Entry{20000, []any{}, reflect.Int, false, false}, // in ms
	},
}

func loadDefaults(src object, dst object) {
	for k, v := range src {
		if obj, ok := v.(object); ok {
			sub := make(object, len(obj))
			loadDefaults(obj, sub)
			dst[k] = sub
		} else {
			entry := v.(*Entry)
			dst[k] = &Entry{entry.Value, entry.AuthorizedValues, entry.Type, entry.IsSlice, entry.Required}
		}
	}
}
