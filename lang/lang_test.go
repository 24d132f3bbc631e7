package lang

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"resources/lang/en-US/rules.json":  {Data: []byte(`{"required": "Please fill in :field."}`)},
		"resources/lang/en-US/fields.json": {Data: []byte(`{"email": "email address"}`)},
		"resources/lang/fr-FR/rules.json":  {Data: []byte(`{"required": "Le champ :field est obligatoire."}`)},
		"resources/lang/fr-FR/locale.json": {Data: []byte(`{"invalid-form": "Le formulaire contient des erreurs."}`)},
		"resources/lang/broken/rules.json": {Data: []byte(`{"required": `)},
		"resources/lang/readme.txt":        {Data: []byte(`not a language`)},
	}
}

func TestLanguages(t *testing.T) {

	t.Run("New", func(t *testing.T) {
		l := New()
		assert.Equal(t, "en-US", l.Default)
		assert.Equal(t, []string{"en-US"}, l.GetAvailableLanguages())
		assert.Equal(t, "The username must be at least 3 characters long.", l.GetDefault().Get("validation.rules.min_length", ":field", "username", ":min", "3"))

		// The default language is a clone
		l.GetDefault().validation.rules["required"] = "changed"
		assert.Equal(t, "The :field is required.", enUS.validation.rules["required"])
	})

	t.Run("Load", func(t *testing.T) {
		l := New()
		require.NoError(t, l.Load(testFS(), "fr-FR", "resources/lang/fr-FR"))
		assert.True(t, l.IsAvailable("fr-FR"))
		assert.Equal(t, "Le champ email est obligatoire.", l.Get("fr-FR", "validation.rules.required", ":field", "email"))
		assert.Equal(t, "Le formulaire contient des erreurs.", l.Get("fr-FR", "invalid-form"))
		assert.Equal(t, "missing-line", l.Get("fr-FR", "missing-line"))
		assert.Equal(t, "invalid-form", l.Get("de-DE", "invalid-form"))

		assert.Error(t, l.Load(testFS(), "de-DE", "resources/lang/de-DE"))
		assert.Error(t, l.Load(testFS(), "broken", "resources/lang/broken"))
	})

	t.Run("LoadDirectory_merges", func(t *testing.T) {
		fs := testFS()
		delete(fs, "resources/lang/broken/rules.json")
		l := New()
		require.NoError(t, l.LoadDirectory(fs, "resources/lang"))
		assert.Equal(t, []string{"en-US", "fr-FR"}, l.GetAvailableLanguages())

		en := l.GetLanguage("en-US")
		assert.Equal(t, "Please fill in email address.", en.Get("validation.rules.required", ":field", en.FieldName("email")))
		assert.Equal(t, "The :field must match the :other.", en.Get("validation.rules.match_with"))
		assert.Equal(t, "username", en.FieldName("username"))

		require.NoError(t, l.LoadDirectory(fs, "resources/missing"))
	})

	t.Run("GetLanguage_dummy", func(t *testing.T) {
		dummy := New().GetLanguage("xx")
		assert.Equal(t, "dummy", dummy.Name())
		assert.Equal(t, "validation.rules.required", dummy.Get("validation.rules.required"))
	})

	t.Run("DetectLanguage", func(t *testing.T) {
		fs := testFS()
		delete(fs, "resources/lang/broken/rules.json")
		l := New()
		require.NoError(t, l.LoadDirectory(fs, "resources/lang"))

		cases := []struct {
			header string
			want   string
		}{
			{header: "fr-FR", want: "fr-FR"},
			{header: "fr", want: "fr-FR"},
			{header: "de-DE, fr;q=0.5", want: "fr-FR"},
			{header: "fr;q=0.2, en-US;q=0.9", want: "en-US"},
			{header: "*", want: "en-US"},
			{header: "", want: "en-US"},
			{header: "de-DE", want: "en-US"},
		}
		for _, c := range cases {
			t.Run(c.header, func(t *testing.T) {
				assert.Equal(t, c.want, l.DetectLanguage(c.header).Name())
			})
		}
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "a 1 b 2", Format("a :x b :y", ":x", "1", ":y", "2"))
	assert.Equal(t, "a :x", Format("a :x", ":x"))
}
