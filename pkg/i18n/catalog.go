// Package i18n localizes the notices and notifications produced while
// provisioning accounts.
//
// Message keys are the English source strings, so a missing translation
// renders the key itself with its arguments applied.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other catalog translates.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	locales map[string]map[string]string
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, name := range paths {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		if err := b.addFile(name, file); err != nil {
			return nil, err
		}
	}

	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) addFile(name string, file catalogFile) error {
	// fs.FS names always use forward slashes.
	localeFromPath := path.Base(path.Dir(name))

	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", name)
	}
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", name, locale, localeFromPath)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: invalid locale %q: %w", name, locale, err)
	}

	messages, ok := b.locales[locale]
	if !ok {
		messages = map[string]string{}
		b.locales[locale] = messages
	}
	for key, value := range file.Messages {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", name)
		}
		if _, exists := messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", name, key, locale)
		}
		messages[key] = value
	}
	return nil
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns every loaded locale, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Localizer formats catalog messages for a requested language.
type Localizer struct {
	catalog *catalog.Builder
	matcher language.Matcher
	tags    []language.Tag
}

// NewLocalizer builds a Localizer over the bundle. Each locale is also
// registered under its base language so "de" resolves to "de-DE".
func NewLocalizer(b *Bundle) (*Localizer, error) {
	base := language.MustParse(BaseLocale)
	builder := catalog.NewBuilder(catalog.Fallback(base))

	// base locale first so the matcher falls back to it
	tags := []language.Tag{base}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		if locale != BaseLocale {
			tags = append(tags, tag)
		}

		register := []language.Tag{tag}
		if lb, conf := tag.Base(); conf != language.No {
			if baseTag, err := language.Parse(lb.String()); err == nil && baseTag != tag {
				register = append(register, baseTag)
			}
		}

		messages := b.locales[locale]
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, t := range register {
				if err := builder.SetString(t, key, messages[key]); err != nil {
					return nil, fmt.Errorf("register %s/%q: %w", t, key, err)
				}
			}
		}
	}

	return &Localizer{
		catalog: builder,
		matcher: language.NewMatcher(tags),
		tags:    tags,
	}, nil
}

// Localize renders key in lang with printf-style args. An empty or unknown
// lang uses BaseLocale.
func (l *Localizer) Localize(lang, key string, args ...any) string {
	p := message.NewPrinter(l.resolve(lang), message.Catalog(l.catalog))
	return p.Sprintf(key, args...)
}

// Resolve returns the supported locale lang maps to.
func (l *Localizer) Resolve(lang string) string {
	return l.resolve(lang).String()
}

func (l *Localizer) resolve(lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return l.tags[0]
	}
	desired, err := language.Parse(lang)
	if err != nil {
		return l.tags[0]
	}
	_, idx, conf := l.matcher.Match(desired)
	if conf == language.No {
		return l.tags[0]
	}
	return l.tags[idx]
}
