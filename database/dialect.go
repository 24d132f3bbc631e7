package database

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"goyave.dev/formrules/config"
	"goyave.dev/formrules/util/errors"
)

var (
	mu sync.Mutex

	dialects = map[string]dialect{}

	placeholderRegex = regexp.MustCompile(`\{[a-z]+\}`)

	// DSN placeholders and the "database.*" string entries they are replaced with.
	// "{port}" is handled separately as it is an integer entry.
	dsnEntries = map[string]string{
		"{username}": "database.username",
		"{password}": "database.password",
		"{host}":     "database.host",
		"{name}":     "database.name",
		"{options}":  "database.options",
	}
)

// DialectorInitializer function initializing a GORM Dialector using the given
// data source name (DSN).
type DialectorInitializer func(dsn string) gorm.Dialector

type dialect struct {
	initializer DialectorInitializer
	template    string
}

func (d dialect) buildDSN(cfg *config.Config) string {
	pairs := make([]string, 0, (len(dsnEntries)+1)*2)
	for placeholder, entry := range dsnEntries {
		pairs = append(pairs, placeholder, cfg.GetString(entry))
	}
	pairs = append(pairs, "{port}", strconv.Itoa(cfg.GetInt("database.port")))
	return strings.NewReplacer(pairs...).Replace(d.template)
}

// RegisterDialect registers a DSN template for the given dialect name, matching
// the "database.connection" config entry. Panics if the dialect already exists
// or if the template uses an unknown placeholder.
//
// The template accepts the following placeholders, replaced with the matching
// "database.*" config entries:
//   - "{username}"
//   - "{password}"
//   - "{host}"
//   - "{port}"
//   - "{name}"
//   - "{options}"
//
// Example template for the "mysql" dialect:
//
//	{username}:{password}@({host}:{port})/{name}?{options}
func RegisterDialect(name, template string, initializer DialectorInitializer) {
	for _, placeholder := range placeholderRegex.FindAllString(template, -1) {
		if _, ok := dsnEntries[placeholder]; !ok && placeholder != "{port}" {
			panic(errors.NewSkip(errors.Errorf("dialect %q: unknown DSN placeholder %s", name, placeholder), 3))
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := dialects[name]; ok {
		panic(errors.NewSkip(errors.Errorf("dialect %q already exists", name), 3))
	}
	dialects[name] = dialect{initializer, template}
}

// Dialects returns the sorted names of the registered dialects.
func Dialects() []string {
	mu.Lock()
	defer mu.Unlock()
	names := lo.Keys(dialects)
	slices.Sort(names)
	return names
}

func lookupDialect(name string) (dialect, bool) {
	mu.Lock()
	defer mu.Unlock()
	d, ok := dialects[name]
	return d, ok
}
