package lang

import (
	"encoding/json"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

// Languages container for all loaded languages.
//
// This structure is not protected for concurrent usage. Therefore, don't load
// more languages when this instance is expected to receive reads.
type Languages struct {
	languages map[string]*Language
	Default   string
}

// New create a `Languages` with preloaded default language "en-US".
//
// The default language can be replaced by modifying the `Default` field
// in the returned struct.
func New() *Languages {
	l := &Languages{
		languages: make(map[string]*Language, 1),
		Default:   enUS.name,
	}
	l.languages[enUS.name] = enUS.clone()
	return l
}

// LoadDirectory loads every language directory
// in the given directory if it exists.
func (l *Languages) LoadDirectory(fsys fs.FS, directory string) error {
	files, err := fs.ReadDir(fsys, directory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.New(err)
	}

	for _, f := range files {
		if f.IsDir() {
			if err := l.load(fsys, f.Name(), path.Join(directory, f.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load a language directory.
//
// Directory structure of a language directory:
//
//	en-UK
//	  ├─ locale.json     (contains the normal language lines)
//	  ├─ rules.json      (contains the validation messages)
//	  └─ fields.json     (contains the field names)
//
// Each file is optional.
func (l *Languages) Load(fsys fs.FS, language, directory string) error {
	if info, err := fs.Stat(fsys, directory); err != nil || !info.IsDir() {
		return errors.Errorf("failed loading language \"%s\", directory \"%s\" doesn't exist or is not readable", language, directory)
	}
	return l.load(fsys, language, directory)
}

func (l *Languages) load(fsys fs.FS, lang string, directory string) error {
	langStruct := &Language{
		name:  lang,
		lines: map[string]string{},
		validation: validationLines{
			rules:  map[string]string{},
			fields: map[string]string{},
		},
	}
	if err := readLangFile(fsys, path.Join(directory, "locale.json"), &langStruct.lines); err != nil {
		return err
	}
	if err := readLangFile(fsys, path.Join(directory, "rules.json"), &langStruct.validation.rules); err != nil {
		return err
	}
	if err := readLangFile(fsys, path.Join(directory, "fields.json"), &langStruct.validation.fields); err != nil {
		return err
	}

	if existingLang, exists := l.languages[lang]; exists {
		mergeLang(existingLang, langStruct)
	} else {
		l.languages[lang] = langStruct
	}
	return nil
}

// GetLanguage returns a language by its name.
// If the language is not available, returns a dummy language
// that will always return the entry name.
func (l *Languages) GetLanguage(lang string) *Language {
	if lang, ok := l.languages[lang]; ok {
		return lang
	}
	return &Language{
		name:  "dummy",
		lines: make(map[string]string),
		validation: validationLines{
			rules:  make(map[string]string),
			fields: make(map[string]string),
		},
	}
}

// GetDefault is an alias for `l.GetLanguage(l.Default)`
func (l *Languages) GetDefault() *Language {
	return l.GetLanguage(l.Default)
}

// IsAvailable returns true if the language is available.
func (l *Languages) IsAvailable(lang string) bool {
	_, exists := l.languages[lang]
	return exists
}

// GetAvailableLanguages returns a sorted slice of all loaded languages.
func (l *Languages) GetAvailableLanguages() []string {
	names := lo.Keys(l.languages)
	sort.Strings(names)
	return names
}

// DetectLanguage detects the language to use based on the given lang string.
// The given lang string can use the HTTP "Accept-Language" header format.
//
// If "*" is provided, the default language will be used.
// If multiple languages are given, the first available language will be used,
// and if none are available, the default language will be used.
// If no variant is given (for example "en"), the first available variant
// in alphabetical order will be used.
func (l *Languages) DetectLanguage(lang string) *Language {
	for _, value := range parseAcceptLanguage(lang) {
		if value == "*" {
			break
		}
		if match, ok := l.languages[value]; ok {
			return match
		}
		for _, key := range l.GetAvailableLanguages() {
			if strings.HasPrefix(key, value) {
				return l.languages[key]
			}
		}
	}

	return l.GetLanguage(l.Default)
}

// Get a language line from the given language. Returns the
// line name if the language doesn't exist.
func (l *Languages) Get(lang string, line string, placeholders ...string) string {
	language, exists := l.languages[lang]
	if !exists {
		return line
	}

	return language.Get(line, placeholders...)
}

func readLangFile(fsys fs.FS, filePath string, dest *map[string]string) error {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.New(err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Errorf("failed to load language file %s: %w", filePath, err)
	}
	return nil
}

func mergeLang(dst *Language, src *Language) {
	mergeMap(dst.lines, src.lines)
	mergeMap(dst.validation.rules, src.validation.rules)
	mergeMap(dst.validation.fields, src.validation.fields)
}

func mergeMap(dst map[string]string, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

var qualityValueRegex = regexp.MustCompile(`^q=([01]\.[0-9]{1,3})$`)

// parseAcceptLanguage returns the language tags of an "Accept-Language"
// header value, sorted by decreasing quality value.
func parseAcceptLanguage(header string) []string {
	type weighted struct {
		value    string
		priority float64
	}
	values := []weighted{}
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		val := weighted{value: part, priority: 1}
		if i := strings.Index(part, ";"); i != -1 {
			val.value = strings.TrimSpace(part[:i])
			val.priority = 0
			if sub := qualityValueRegex.FindStringSubmatch(strings.TrimSpace(part[i+1:])); len(sub) > 1 {
				if p, err := strconv.ParseFloat(sub[1], 64); err == nil {
					val.priority = p
				}
			}
		}
		values = append(values, val)
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].priority > values[j].priority
	})
	return lo.Map(values, func(v weighted, _ int) string { return v.value })
}
