// Package normalize holds the text canonicalization shared by the schema
// reconciler (column keys) and the query resolver (free text).
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	keySeparatorRun = regexp.MustCompile(`[\s/_]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// FoldDiacritics removes combining marks ("Miércoles" -> "Miercoles", "ñ" -> "n").
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key canonicalizes a column header or category cell:
// trimmed, diacritic-folded, uppercased, with every run of whitespace,
// slashes or underscores collapsed to a single underscore.
// Key(Key(s)) == Key(s).
func Key(s string) string {
	s = strings.ToUpper(FoldDiacritics(strings.TrimSpace(s)))
	s = keySeparatorRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Text canonicalizes free text for matching: lowercase, no diacritics,
// single spaces, trimmed.
func Text(s string) string {
	s = strings.ToLower(FoldDiacritics(s))
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Words splits canonical text into tokens, dropping punctuation.
func Words(s string) []string {
	return strings.FieldsFunc(Text(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsAny reports whether text contains any of the keywords.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
