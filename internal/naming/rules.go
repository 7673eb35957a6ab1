package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxIdentifierLength matches the PostgreSQL identifier limit so generated
// names can be used as staging column names unchanged.
const MaxIdentifierLength = 63

const (
	fallbackIdentifier = "column"
	fallbackTitle      = "Column"
)

// IdentifierRule converts header text into a lower-case token: accents are
// folded, every run of characters outside [a-z0-9] becomes a single "_",
// a leading digit gets a "c_" prefix.
func IdentifierRule(raw string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(foldAccents(raw)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	id := b.String()
	if id == "" {
		return fallbackIdentifier
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "c_" + id
	}
	if len(id) > MaxIdentifierLength {
		id = strings.TrimRight(id[:MaxIdentifierLength], "_")
	}
	return id
}

// TitleRule converts header text into a display label: underscores and
// whitespace runs become single spaces and each word is capitalised.
// Existing capitals are kept, so "order ID" becomes "Order ID".
func TitleRule(raw string) string {
	words := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return fallbackTitle
	}
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}

// foldAccents strips combining marks after canonical decomposition ("Café" -> "Cafe").
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
