package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

type object map[string]any

type readFunc func(string) (object, error)

// Config structure holding the configuration of the form engine and its tooling.
//
// This structure is not protected for safe concurrent access. Never use `Set()`
// while forms using this configuration are being validated.
type Config struct {
	config object
}

// Error returned when the configuration could not
// be loaded or is invalid.
// Can be unwrapped to get the original error.
type Error struct {
	err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Config error: %s", e.err.Error())
}

func (e *Error) Unwrap() error {
	return e.err
}

// LoadDefault loads the default configuration.
func LoadDefault() *Config {
	cfg := make(object, len(configDefaults))
	loadDefaults(configDefaults, cfg)
	return &Config{config: cfg}
}

// Load loads the config file picked by `getConfigFilePath()` in the working directory.
// If the "FORMRULES_ENV" env variable is set, the config file will be picked like so:
//   - "production": "config.production.json"
//   - "test": "config.test.json"
//   - By default: "config.json"
func Load() (*Config, error) {
	return load(readConfigFile, getConfigFilePath())
}

// LoadFrom loads a config file from the given path.
func LoadFrom(path string) (*Config, error) {
	return load(readConfigFile, path)
}

// LoadJSON loads a configuration from the given JSON string.
func LoadJSON(cfg string) (*Config, error) {
	return load(readString, cfg)
}

func load(readFunc readFunc, source string) (*Config, error) {
	config := make(object, len(configDefaults))
	loadDefaults(configDefaults, config)

	conf, err := readFunc(source)
	if err != nil {
		return nil, &Error{err}
	}

	if err := override(conf, config); err != nil {
		return nil, &Error{err}
	}

	if err := config.validate(""); err != nil {
		return nil, &Error{err}
	}

	return &Config{config: config}, nil
}

func readConfigFile(file string) (object, error) {
	conf := make(object, len(configDefaults))
	configFile, err := os.Open(file)
	if err != nil {
		return nil, errors.New(err)
	}
	defer configFile.Close()

	if err := json.NewDecoder(configFile).Decode(&conf); err != nil {
		return nil, errors.New(err)
	}
	return conf, nil
}

func readString(str string) (object, error) {
	conf := make(object, len(configDefaults))
	if err := json.NewDecoder(strings.NewReader(str)).Decode(&conf); err != nil {
		return nil, errors.New(err)
	}
	return conf, nil
}

func getConfigFilePath() string {
	switch strings.ToLower(os.Getenv("FORMRULES_ENV")) {
	case "test":
		return "config.test.json"
	case "production":
		return "config.production.json"
	default:
		return "config.json"
	}
}

// override the defaults in dst with the entries in src. Categories cannot
// be replaced by entries and entries cannot be replaced by categories.
func override(src object, dst object) error {
	for key, value := range src {
		if obj, ok := value.(map[string]any); ok {
			if dstValue, ok := dst[key]; !ok {
				dst[key] = make(object, len(obj))
			} else if _, ok := dstValue.(object); !ok {
				return errors.Errorf("invalid config:\n\t- cannot override entry %q with a category", key)
			}
			if err := override(obj, dst[key].(object)); err != nil {
				return err
			}
		} else if entry, ok := dst[key]; ok {
			e, isEntry := entry.(*Entry)
			if !isEntry {
				return errors.Errorf("invalid config:\n\t- cannot override category %q with an entry", key)
			}
			e.Value = value
		} else {
			dst[key] = makeEntryFromValue(value)
		}
	}
	return nil
}

func (o object) validate(key string) error {
	message := ""
	valid := true
	for _, k := range lo.Keys(o) {
		entry := o[k]
		var subKey string
		if key == "" {
			subKey = k
		} else {
			subKey = key + "." + k
		}
		if category, ok := entry.(object); ok {
			if err := category.validate(subKey); err != nil {
				message += strings.TrimPrefix(err.Error(), "invalid config:")
				valid = false
			}
		} else if err := entry.(*Entry).validate(subKey); err != nil {
			message += "\n\t- " + err.Error()
			valid = false
		}
	}

	if !valid {
		return errors.New("invalid config:" + message)
	}
	return nil
}

// Get a config entry using a dot-separated path.
// Panics if the entry doesn't exist.
func (c *Config) Get(key string) any {
	if val, ok := c.get(key); ok {
		return val
	}

	panic(errors.NewSkip(fmt.Sprintf("config entry %q doesn't exist", key), 3))
}

func (c *Config) get(key string) (any, bool) {
	category, entryKey, exists := walk(c.config, key)
	if !exists {
		return nil, false
	}
	entry, ok := category[entryKey].(*Entry)
	if !ok {
		return nil, false
	}
	return entry.Value, entry.Value != nil // nil means unset
}

// GetString a config entry as string.
// Panics if entry is not a string or if it doesn't exist.
func (c *Config) GetString(key string) string {
	str, ok := c.Get(key).(string)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("config entry %q is not a string", key), 3))
	}
	return str
}

// GetBool a config entry as bool.
// Panics if entry is not a bool or if it doesn't exist.
func (c *Config) GetBool(key string) bool {
	val, ok := c.Get(key).(bool)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("config entry %q is not a bool", key), 3))
	}
	return val
}

// GetInt a config entry as int.
// Panics if entry is not an int or if it doesn't exist.
func (c *Config) GetInt(key string) int {
	val, ok := c.Get(key).(int)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("config entry %q is not an int", key), 3))
	}
	return val
}

// GetFloat a config entry as float64.
// Panics if entry is not a float64 or if it doesn't exist.
func (c *Config) GetFloat(key string) float64 {
	val, ok := c.Get(key).(float64)
	if !ok {
		panic(errors.NewSkip(fmt.Sprintf("config entry %q is not a float64", key), 3))
	}
	return val
}

// Has check if a config entry exists.
func (c *Config) Has(key string) bool {
	_, ok := c.get(key)
	return ok
}

// Set a config entry. Use `nil` to unset a value.
//
//   - A category cannot be replaced with an entry.
//   - An entry cannot be replaced with a category.
//   - New entries are validated using the type of their initial value.
//
// Panics and reverts the change in case of error.
func (c *Config) Set(key string, value any) {
	category, entryKey, exists := walk(c.config, key)
	if exists {
		entry, ok := category[entryKey].(*Entry)
		if !ok {
			panic(errors.NewSkip(fmt.Sprintf("cannot replace category %q with an entry", key), 3))
		}
		previous := entry.Value
		entry.Value = value
		if err := entry.validate(key); err != nil {
			entry.Value = previous
			panic(err)
		}
		return
	}
	category[entryKey] = makeEntryFromValue(value)
}

// walk the config using a dot-separated path, creating the missing categories.
// Returns the category containing the last path element, its key and
// whether the entry already exists.
func walk(currentCategory object, key string) (object, string, bool) {
	if key == "" {
		panic(errors.NewSkip("empty key is not allowed", 4))
	}
	if key[len(key)-1:] == "." {
		panic(errors.NewSkip("keys ending with a dot are not allowed", 4))
	}

	segments := strings.Split(key, ".")
	for _, segment := range segments[:len(segments)-1] {
		entry, ok := currentCategory[segment]
		if !ok {
			sub := make(object)
			currentCategory[segment] = sub
			currentCategory = sub
			continue
		}
		category, ok := entry.(object)
		if !ok {
			panic(errors.NewSkip(fmt.Sprintf("attempted to add an entry to non-category %q", segment), 4))
		}
		currentCategory = category
	}

	last := segments[len(segments)-1]
	_, exists := currentCategory[last]
	return currentCategory, last, exists
}
