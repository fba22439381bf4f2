package i18n

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLocale is used when no supported locale matches.
const DefaultLocale = "en"

var supported = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var (
	matcher = language.NewMatcher(supported)
	cat     = mustBuildCatalog()
)

// Translator renders keys for a single locale. It is safe for concurrent use.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for locale. Unknown or malformed locales fall back
// to English.
func New(locale string) *Translator {
	tag := Match(locale)
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Match returns the supported tag that best fits an Accept-Language style
// string such as "pt-BR,pt;q=0.9,en;q=0.8", a plain locale like "en-GB", or
// a POSIX locale like "pt_BR.UTF-8".
func Match(accept string) language.Tag {
	accept = stripPOSIX(accept)
	if accept == "" {
		return supported[0]
	}
	_, idx := language.MatchStrings(matcher, accept)
	return supported[idx]
}

// stripPOSIX removes the codeset and modifier suffixes of POSIX locale
// names ("pt_BR.UTF-8@euro" becomes "pt_BR") from each list entry. Weights
// after ';' are left alone.
func stripPOSIX(accept string) string {
	if !strings.ContainsAny(accept, ".@") {
		return accept
	}
	entries := strings.Split(accept, ",")
	for i, e := range entries {
		tag, weight, hasWeight := strings.Cut(e, ";")
		tag, _, _ = strings.Cut(tag, ".")
		tag, _, _ = strings.Cut(tag, "@")
		if hasWeight {
			tag += ";" + weight
		}
		entries[i] = tag
	}
	return strings.Join(entries, ",")
}

// Supported returns the locales with a message table, default first.
func Supported() []string {
	out := make([]string, 0, len(supported))
	for _, t := range supported {
		out = append(out, t.String())
	}
	return out
}

// Locale returns the BCP 47 tag this Translator renders for.
func (t *Translator) Locale() string { return t.tag.String() }

// Text returns the message for key, formatted with args. A key without an
// entry is returned unchanged.
func (t *Translator) Text(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Category returns the label for an evaluator category.
func (t *Translator) Category(category string) string { return t.Text(CategoryKey(category)) }

// Criterion returns the indicator label for a criterion name.
func (t *Translator) Criterion(name string) string { return t.Text(CriterionKey(name)) }

// Pattern returns the label for an analysis pattern name.
func (t *Translator) Pattern(name string) string { return t.Text(PatternKey(name)) }

// CrackTime renders a crack-time bucket. n is the whole number of units and
// is ignored by buckets without a count.
func (t *Translator) CrackTime(bucket string, n int64) string {
	key := CrackKey(bucket)
	if _, ok := counted[language.English][key]; !ok {
		return t.Text(key)
	}
	return t.Text(key, n)
}

// CategoryKey, CriterionKey, PatternKey and CrackKey namespace the evaluator's
// identifiers inside the catalog.
func CategoryKey(category string) string { return "category." + category }
func CriterionKey(name string) string    { return "criterion." + name }
func PatternKey(name string) string      { return "pattern." + name }
func CrackKey(bucket string) string      { return "crack." + bucket }

func mustBuildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, text := range msgs {
			if err := b.SetString(tag, key, text); err != nil {
				panic("i18n: " + tag.String() + " " + key + ": " + err.Error())
			}
		}
	}
	for tag, msgs := range counted {
		for key, forms := range msgs {
			msg := plural.Selectf(1, "%d", "=1", forms[0], "other", forms[1])
			if err := b.Set(tag, key, msg); err != nil {
				panic("i18n: " + tag.String() + " " + key + ": " + err.Error())
			}
		}
	}
	return b
}
