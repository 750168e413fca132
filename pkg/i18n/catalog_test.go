package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddedLocalizer(t *testing.T) *Localizer {
	t.Helper()
	b, err := LoadEmbedded()
	require.NoError(t, err)
	l, err := NewLocalizer(b)
	require.NoError(t, err)
	return l
}

func TestLoadEmbedded(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)
	assert.Equal(t, []string{"de-DE", "en-US", "fr-FR"}, b.Locales())
	assert.True(t, b.HasLocale(BaseLocale))
}

func TestEveryLocaleTranslatesEveryBaseKey(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)

	for _, locale := range b.Locales() {
		for key := range b.locales[BaseLocale] {
			_, ok := b.locales[locale][key]
			assert.True(t, ok, "%s is missing %q", locale, key)
		}
	}
}

func TestLocalize(t *testing.T) {
	l := newEmbeddedLocalizer(t)

	tests := []struct {
		name string
		lang string
		key  string
		args []any
		want string
	}{
		{"BaseLocale", "en-US", "Your account has been created.", nil, "Your account has been created."},
		{"EmptyLanguage", "", "Default Avatar", nil, "Default Avatar"},
		{"German", "de-DE", "Default Avatar", nil, "Standard-Avatar"},
		{"BaseLanguageOnly", "de", "Account activated", nil, "Konto aktiviert"},
		{"WithArgs", "fr-FR", "Your account %s in %s has been activated.", []any{"Ada Lovelace", "OSGrid"}, "Votre compte Ada Lovelace dans OSGrid a été activé."},
		{"UnknownLanguageFallsBack", "ja-JP", "Account activated", nil, "Account activated"},
		{"InvalidTagFallsBack", "not a tag!", "Account activated", nil, "Account activated"},
		{"MissingKeyRendersKey", "de-DE", "Hello %s", []any{"World"}, "Hello World"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Localize(tt.lang, tt.key, tt.args...))
		})
	}
}

func TestResolve(t *testing.T) {
	l := newEmbeddedLocalizer(t)

	assert.Equal(t, "de-DE", l.Resolve("de"))
	assert.Equal(t, "en-US", l.Resolve(""))
	assert.Equal(t, "en-US", l.Resolve("zz"))
}

func TestLoadFromFSErrors(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{"Empty", fstest.MapFS{}},
		{"MissingBaseLocale", fstest.MapFS{
			"locales/de-DE/a.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: b\n")},
		}},
		{"LocaleMismatch", fstest.MapFS{
			"locales/en-US/a.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: b\n")},
		}},
		{"DuplicateKey", fstest.MapFS{
			"locales/en-US/a.yaml": {Data: []byte("locale: en-US\nmessages:\n  a: b\n")},
			"locales/en-US/b.yaml": {Data: []byte("locale: en-US\nmessages:\n  a: c\n")},
		}},
		{"BadYAML", fstest.MapFS{
			"locales/en-US/a.yaml": {Data: []byte("locale: [\n")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFS(tt.fs)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/notify.yaml": {Data: []byte("locale: en-US\nmessages:\n  Hello: Hello\n")},
		"locales/de-DE/notify.yaml": {Data: []byte("locale: de-DE\nmessages:\n  Hello: Hallo\n")},
	}

	b, err := LoadFromFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"de-DE", "en-US"}, b.Locales())

	l, err := NewLocalizer(b)
	require.NoError(t, err)
	assert.Equal(t, "Hallo", l.Localize("de-DE", "Hello"))
}
