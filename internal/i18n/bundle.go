// Package i18n resolves localized explore messages and formats numbers for a locale.
//
// Message catalogs are flat YAML maps from message key to template, embedded
// per language. Templates use {{name}} placeholders.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// supported lists the embedded catalogs; the first entry is the fallback.
var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

// Bundle is a Translator for one negotiated locale.
// A Bundle is immutable after construction and safe for concurrent use.
type Bundle struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
	printer  *message.Printer
}

// New builds a Bundle for the best match of the requested locales
// (BCP 47 tags such as "ko-KR" or "en"). Unknown or empty requests fall back to English.
func New(requested ...string) (*Bundle, error) {
	tag := Negotiate(requested...)

	fallback, err := loadCatalog(supported[0])
	if err != nil {
		return nil, err
	}
	messages := fallback
	if tag != supported[0] {
		if messages, err = loadCatalog(tag); err != nil {
			return nil, err
		}
	}

	return &Bundle{
		tag:      tag,
		messages: messages,
		fallback: fallback,
		printer:  message.NewPrinter(tag),
	}, nil
}

// MustNew is like New but panics on a broken embedded catalog.
func MustNew(requested ...string) *Bundle {
	b, err := New(requested...)
	if err != nil {
		panic(err)
	}
	return b
}

// Negotiate returns the supported language that best matches the requested tags.
func Negotiate(requested ...string) language.Tag {
	var tags []language.Tag
	for _, r := range requested {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		// POSIX locales such as ko_KR.UTF-8
		r = strings.SplitN(r, ".", 2)[0]
		r = strings.ReplaceAll(r, "_", "-")
		if t, err := language.Parse(r); err == nil {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return supported[0]
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

func loadCatalog(tag language.Tag) (map[string]string, error) {
	base, _ := tag.Base()
	data, err := localeFS.ReadFile(path.Join("locales", base.String()+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("no message catalog for %s: %w", tag, err)
	}
	messages := make(map[string]string)
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("invalid message catalog for %s: %w", tag, err)
	}
	return messages, nil
}

// Language returns the negotiated locale.
func (b *Bundle) Language() language.Tag {
	return b.tag
}

// Instant returns the message for key with {{name}} placeholders replaced by
// params. A key missing from both the locale and the fallback catalog is
// returned as-is.
func (b *Bundle) Instant(key string, params map[string]string) string {
	tmpl, ok := b.messages[key]
	if !ok {
		if tmpl, ok = b.fallback[key]; !ok {
			return key
		}
	}
	if len(params) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	// Replacer substitutes in a single pass, so values containing
	// placeholder syntax are not expanded again.
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// FormatNumber renders n with the locale's digit grouping.
func (b *Bundle) FormatNumber(n int64) string {
	return b.printer.Sprintf("%d", n)
}

var _ dexplore.Translator = (*Bundle)(nil)
