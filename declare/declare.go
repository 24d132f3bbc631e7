// Package declare reads form declarations from YAML, TOML or JSON documents
// and builds validation forms from them. It also describes existing forms
// so clients can mirror the conditions and dynamic counters.
package declare

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"goyave.dev/formrules/util/errors"
	"goyave.dev/formrules/validation"
)

// Format the encoding of a declaration document.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// TypeGroup the element type of groups. Any other type is a field kind.
const TypeGroup = "group"

// Document the declaration of a form.
type Document struct {
	Name     string    `json:"name" yaml:"name" toml:"name"`
	Elements []Element `json:"elements" yaml:"elements" toml:"elements"`
}

// Element the declaration of a field or a group.
type Element struct {
	MinValue   *float64            `json:"minValue,omitempty" yaml:"minValue,omitempty" toml:"minValue,omitempty"`
	MaxValue   *float64            `json:"maxValue,omitempty" yaml:"maxValue,omitempty" toml:"maxValue,omitempty"`
	Messages   map[string]string   `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty"`
	Name       string              `json:"name" yaml:"name" toml:"name"`
	Type       string              `json:"type" yaml:"type" toml:"type"`
	Label      string              `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Hint       string              `json:"hint,omitempty" yaml:"hint,omitempty" toml:"hint,omitempty"`
	Default    string              `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	MatchWith  string              `json:"matchWith,omitempty" yaml:"matchWith,omitempty" toml:"matchWith,omitempty"`
	Pattern    string              `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	ActiveArea string              `json:"activeArea,omitempty" yaml:"activeArea,omitempty" toml:"activeArea,omitempty"`
	Sanitizers []string            `json:"sanitizers,omitempty" yaml:"sanitizers,omitempty" toml:"sanitizers,omitempty"`
	Hooks      []Hook              `json:"hooks,omitempty" yaml:"hooks,omitempty" toml:"hooks,omitempty"`
	Options    []validation.Option `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
	Counters   []string            `json:"counters,omitempty" yaml:"counters,omitempty" toml:"counters,omitempty"`
	Conditions []Condition         `json:"conditions,omitempty" yaml:"conditions,omitempty" toml:"conditions,omitempty"`
	Children   []Element           `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	MinLength  int                 `json:"minLength,omitempty" yaml:"minLength,omitempty" toml:"minLength,omitempty"`
	MaxLength  int                 `json:"maxLength,omitempty" yaml:"maxLength,omitempty" toml:"maxLength,omitempty"`
	Required   bool                `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Multiple   bool                `json:"multiple,omitempty" yaml:"multiple,omitempty" toml:"multiple,omitempty"`
	Dynamic    bool                `json:"dynamic,omitempty" yaml:"dynamic,omitempty" toml:"dynamic,omitempty"`
	Removable  bool                `json:"removable,omitempty" yaml:"removable,omitempty" toml:"removable,omitempty"`
	// AllowUnlisted disables the list membership check of choice fields.
	AllowUnlisted bool `json:"allowUnlisted,omitempty" yaml:"allowUnlisted,omitempty" toml:"allowUnlisted,omitempty"`
}

// Hook a reference to an external check registered by name.
type Hook struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Message string `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	Args    []any  `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
}

// Condition the declaration of a condition. `Value` defaults to true and `Match` to "all".
type Condition struct {
	Value       *bool        `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Property    string       `json:"property" yaml:"property" toml:"property"`
	Match       string       `json:"match,omitempty" yaml:"match,omitempty" toml:"match,omitempty"`
	Comparisons []Comparison `json:"comparisons" yaml:"comparisons" toml:"comparisons"`
}

// Comparison the declaration of a comparison. `Field` is the name of the subject field.
type Comparison struct {
	Field    string `json:"field" yaml:"field" toml:"field"`
	Operator string `json:"operator" yaml:"operator" toml:"operator"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// FormatFromPath returns the format matching the extension of the given file path.
func FormatFromPath(filePath string) (Format, error) {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.Errorf("unsupported declaration file extension %q", path.Ext(filePath))
}

// Load reads and parses the declaration file at the given path.
func Load(filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.New(err)
	}
	return parseFile(data, filePath)
}

// LoadFS same as `Load` but reads from the given file system.
func LoadFS(fsys fs.FS, filePath string) (*Document, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, errors.New(err)
	}
	return parseFile(data, filePath)
}

func parseFile(data []byte, filePath string) (*Document, error) {
	format, err := FormatFromPath(filePath)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Parse decodes a declaration document. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(doc); err != nil {
			return nil, errors.Errorf("invalid JSON declaration: %w", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(doc); err != nil {
			return nil, errors.Errorf("invalid YAML declaration: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), doc)
		if err != nil {
			return nil, errors.Errorf("invalid TOML declaration: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("invalid TOML declaration: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, errors.Errorf("unsupported declaration format %q", format)
	}
	return doc, nil
}

// Encode writes the document in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return nil, errors.New(err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, errors.New(err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(buf).Encode(doc); err != nil {
			return nil, errors.New(err)
		}
	default:
		return nil, errors.Errorf("unsupported declaration format %q", format)
	}
	return buf.Bytes(), nil
}
