package i18n

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no default is configured.
const DefaultLanguage = "en"

// Translator resolves keys against a Catalog. It is immutable after
// construction and safe for concurrent use.
type Translator struct {
	catalog     Catalog
	defaultLang string
	langs       []string // langs[0] is the default language
	matcher     language.Matcher
	logMissing  bool
	logger      *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language used when a key or language is missing.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// WithLogger sets the logger used for missing translations.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMissingTranslationsLogging logs every key that falls back.
func WithMissingTranslationsLogging(enabled bool) Option {
	return func(t *Translator) { t.logMissing = enabled }
}

// NewTranslator creates a Translator. The default language must be present
// in catalog.
func NewTranslator(catalog Catalog, opts ...Option) (*Translator, error) {
	if len(catalog) == 0 {
		return nil, ErrNoTranslations
	}

	t := &Translator{
		catalog:     catalog,
		defaultLang: DefaultLanguage,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if _, ok := catalog[t.defaultLang]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefaultUnsupported, t.defaultLang)
	}

	others := make([]string, 0, len(catalog)-1)
	for lang := range catalog {
		if lang == "" {
			return nil, fmt.Errorf("%w: empty language code", ErrInvalidCatalog)
		}
		if lang != t.defaultLang {
			others = append(others, lang)
		}
	}
	sort.Strings(others)
	t.langs = append([]string{t.defaultLang}, others...)

	tags := make([]language.Tag, len(t.langs))
	for i, lang := range t.langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("%w: language %q: %w", ErrInvalidCatalog, lang, err)
		}
		tags[i] = tag
	}
	t.matcher = language.NewMatcher(tags)

	return t, nil
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// SupportedLanguages returns the loaded languages, default first.
func (t *Translator) SupportedLanguages() []string {
	out := make([]string, len(t.langs))
	copy(out, t.langs)
	return out
}

// Match returns the loaded language closest to lang, or the default
// language when nothing matches.
func (t *Translator) Match(lang string) string {
	if _, ok := t.catalog[lang]; ok {
		return lang
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return t.defaultLang
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return t.defaultLang
	}
	return t.langs[idx]
}

// Lookup returns the raw template for key in the language matched from lang,
// falling back to the default language.
func (t *Translator) Lookup(lang, key string) (string, bool) {
	matched := t.Match(lang)
	if s, ok := lookup(t.catalog[matched], key); ok {
		return s, true
	}
	if matched != t.defaultLang {
		if s, ok := lookup(t.catalog[t.defaultLang], key); ok {
			return s, true
		}
	}
	if t.logMissing {
		t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
	}
	return "", false
}

// Has reports whether key resolves for lang, including the default fallback.
func (t *Translator) Has(lang, key string) bool {
	_, ok := t.Lookup(lang, key)
	return ok
}

// T translates key. args are name/value pairs substituted into %{name}
// placeholders; an odd trailing arg is ignored. Unknown keys yield the key.
func (t *Translator) T(lang, key string, args ...string) string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return t.Tm(lang, key, params)
}

// Tm is T with named parameters given as a map.
func (t *Translator) Tm(lang, key string, params map[string]string) string {
	tmpl, ok := t.Lookup(lang, key)
	if !ok {
		tmpl = key
	}
	return Interpolate(tmpl, params)
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// Interpolate replaces %{name} placeholders with params. Placeholders without
// a value are left as they are.
func Interpolate(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}
