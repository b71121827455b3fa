// Package i18n loads the embedded message catalogs and renders message keys
// for a negotiated locale.
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

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every locale, keyed by message key.
type Bundle struct {
	locales map[string]map[string]string
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/<locale>/<namespace>.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}

	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	if locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", p, locale, dirLocale)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: invalid locale %q: %w", p, locale, err)
	}
	if ns := strings.TrimSpace(file.Namespace); ns != fileNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, ns, fileNamespace)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", p)
	}

	messages, ok := b.locales[locale]
	if !ok {
		messages = map[string]string{}
		b.locales[locale] = messages
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: blank message key", p)
		}
		if _, dup := messages[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %s", p, key, locale)
		}
		messages[key] = value
	}
	return nil
}

// HasLocale reports whether a catalog exists for locale.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}

// Locales returns the loaded locales, base locale first.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		if locale != BaseLocale {
			out = append(out, locale)
		}
	}
	sort.Strings(out)
	return append([]string{BaseLocale}, out...)
}

// Message returns the message for key in locale, falling back to the base locale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if msg, ok := b.locales[locale][key]; ok {
		return msg, true
	}
	msg, ok := b.locales[BaseLocale][key]
	return msg, ok
}

// Translator renders message keys through x/text printers built from a Bundle.
type Translator struct {
	tags    []language.Tag
	matcher language.Matcher
	cat     catalog.Catalog
}

// NewTranslator registers every bundle message into a private catalog.
// defaultLocale is preferred when negotiation finds no match and must exist in the bundle.
func NewTranslator(b *Bundle, defaultLocale string) (*Translator, error) {
	if !b.HasLocale(defaultLocale) {
		return nil, fmt.Errorf("default locale %s has no catalog", defaultLocale)
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale)))
	locales := b.Locales()
	tags := make([]language.Tag, 0, len(locales))
	tags = append(tags, language.MustParse(defaultLocale))

	for _, locale := range locales {
		tag := language.MustParse(locale)
		if locale != defaultLocale {
			tags = append(tags, tag)
		}
		// Base messages first so partial catalogs still render every key.
		for key, msg := range b.locales[BaseLocale] {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("failed to register %s/%s: %w", locale, key, err)
			}
		}
		for key, msg := range b.locales[locale] {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("failed to register %s/%s: %w", locale, key, err)
			}
		}
	}

	return &Translator{
		tags:    tags,
		matcher: language.NewMatcher(tags),
		cat:     builder,
	}, nil
}

// Default returns the tag used when negotiation fails.
func (t *Translator) Default() language.Tag {
	return t.tags[0]
}

// Supported returns the negotiable tags, default first.
func (t *Translator) Supported() []language.Tag {
	return append([]language.Tag(nil), t.tags...)
}

// Match picks the best supported tag for an explicit preference (e.g. a lang
// query parameter) or, failing that, an Accept-Language header value.
func (t *Translator) Match(preferred, acceptLanguage string) language.Tag {
	var wanted []language.Tag
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		if tag, err := language.Parse(preferred); err == nil {
			wanted = append(wanted, tag)
		}
	}
	if accept, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
		wanted = append(wanted, accept...)
	}
	if len(wanted) == 0 {
		return t.Default()
	}
	_, idx, conf := t.matcher.Match(wanted...)
	if conf == language.No {
		return t.Default()
	}
	return t.tags[idx]
}

// Printer returns a printer for tag backed by the translator's catalog.
func (t *Translator) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(t.cat))
}

// Text renders key for tag. Unknown keys render as the key itself.
func (t *Translator) Text(tag language.Tag, key string, args ...any) string {
	if key == "" {
		return ""
	}
	return t.Printer(tag).Sprintf(key, args...)
}
