package classifier

import (
	"regexp"
	"strings"

	"mondichat-be/pkg/normalize"
	"mondichat-be/pkg/vocabulary"
)

// TypeCode identifies a product-display type.
type TypeCode string

const (
	TypeUnknown TypeCode = "UNKNOWN"
	TypeK1      TypeCode = "K1"
	TypeK2      TypeCode = "K2"
	TypeK3      TypeCode = "K3"
	TypeL4      TypeCode = "L4"
	TypeL6      TypeCode = "L6"
	TypeL8      TypeCode = "L8"
)

// typeRule matches when the normalized descriptor contains every phrase. A
// phrase ending in a digit must not run into another digit ("kiwi 1" does
// not match "kiwi 12").
type typeRule struct {
	code    TypeCode
	family  vocabulary.Family
	phrases []string
}

// typeRules are evaluated in order; the first match per family wins.
var typeRules = []typeRule{
	{TypeK1, vocabulary.FamilyKiwi, []string{"kiwi 1"}},
	{TypeK2, vocabulary.FamilyKiwi, []string{"kiwi 2"}},
	{TypeK3, vocabulary.FamilyKiwi, []string{"kiwi 3"}},
	{TypeL4, vocabulary.FamilyLego, []string{"lego", "x 4"}},
	{TypeL6, vocabulary.FamilyLego, []string{"lego", "x 6"}},
	{TypeL8, vocabulary.FamilyLego, []string{"lego", "x 8"}},
}

var multiplierGap = regexp.MustCompile(`x\s*(\d)`)

func canonicalDescriptor(descriptor string) string {
	return multiplierGap.ReplaceAllString(normalize.Text(descriptor), "x $1")
}

func (r typeRule) matches(text string) bool {
	for _, p := range r.phrases {
		if !containsPhrase(text, p) {
			return false
		}
	}
	return true
}

func containsPhrase(text, phrase string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		end := from + i + len(phrase)
		if !endsInDigit(phrase) || end == len(text) || !isDigit(text[end]) {
			return true
		}
		from += i + 1
	}
	return false
}

func endsInDigit(s string) bool { return s != "" && isDigit(s[len(s)-1]) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// DetectType maps a display descriptor to the first matching type code.
func DetectType(descriptor string) TypeCode {
	text := canonicalDescriptor(descriptor)
	for _, r := range typeRules {
		if r.matches(text) {
			return r.code
		}
	}
	return TypeUnknown
}

// detectFamilyType restricts detection to one family's rules.
func detectFamilyType(descriptor string, family vocabulary.Family) TypeCode {
	text := canonicalDescriptor(descriptor)
	for _, r := range typeRules {
		if r.family == family && r.matches(text) {
			return r.code
		}
	}
	return TypeUnknown
}

// FamilyOf returns the family a type belongs to.
func FamilyOf(code TypeCode) (vocabulary.Family, bool) {
	for _, r := range typeRules {
		if r.code == code {
			return r.family, true
		}
	}
	return "", false
}
