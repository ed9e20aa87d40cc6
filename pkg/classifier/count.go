package classifier

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseCount coerces a cell to a number by dropping every character that is
// not a digit, minus sign or decimal point. ok is false when nothing finite
// remains; an unknown count is never zero.
func ParseCount(s string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(strings.TrimSpace(s), "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// firstValue returns the first non-empty attribute among keys.
func firstValue(attrs map[string]string, keys []string) (string, bool) {
	for _, k := range keys {
		if v := strings.TrimSpace(attrs[k]); v != "" {
			return v, true
		}
	}
	return "", false
}
