package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var (
	SupportedLanguages = []language.Tag{
		language.English,
		language.French,
	}

	matcher = language.NewMatcher(SupportedLanguages)
)

// Translator is the gettext pair the validator relies on.
type Translator interface {
	Gettext(msgid string) string
	// Interpolate substitutes each %s of format with the next arg.
	Interpolate(format string, args ...string) string
}

// MatchLanguage maps a language preference ("fr-FR", "en;q=0.8") to "en"
// or "fr".
func MatchLanguage(pref string) string {
	tag, _ := language.MatchStrings(matcher, pref)
	base, _ := tag.Base()
	if strings.HasPrefix(base.String(), "fr") {
		return "fr"
	}
	return "en"
}

// Catalog is a Translator backed by the embedded message catalogs.
type Catalog struct {
	lang     string
	messages map[string]string
}

// NewCatalog loads the catalog that best matches pref.
func NewCatalog(pref string) (*Catalog, error) {
	lang := MatchLanguage(pref)
	data, err := locales.ReadFile("locales/" + lang + ".json")
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", lang, err)
	}
	messages := make(map[string]string)
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", lang, err)
	}
	return &Catalog{lang: lang, messages: messages}, nil
}

func (c *Catalog) Language() string { return c.lang }

func (c *Catalog) Gettext(msgid string) string {
	if s, ok := c.messages[msgid]; ok && s != "" {
		return s
	}
	return msgid
}

func (c *Catalog) Interpolate(format string, args ...string) string {
	return Interpolate(format, args...)
}

// Interpolate replaces %s placeholders in order. Missing args leave the
// placeholder untouched; extra args are ignored.
func Interpolate(format string, args ...string) string {
	var b strings.Builder
	rest := format
	for _, a := range args {
		i := strings.Index(rest, "%s")
		if i < 0 {
			break
		}
		b.WriteString(rest[:i])
		b.WriteString(a)
		rest = rest[i+2:]
	}
	b.WriteString(rest)
	return b.String()
}
