package extract

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumberRe = regexp.MustCompile(`^\s*(\d+\.?\d*)`)
	anyNumberRe     = regexp.MustCompile(`(\d+\.?\d*)`)
)

var errNotFinite = errors.New("value is not a finite number")

// NumericText returns the numeric prefix of s, or the first number anywhere in
// s when it does not start with one.
func NumericText(s string) (string, bool) {
	if m := leadingNumberRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := anyNumberRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseDecimal parses s after removing thousands separators.
func ParseDecimal(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", "")), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// ParsePercent parses "18%" or "1,250.5 %" as a fraction (0.18, 12.505).
func ParsePercent(s string) (float64, error) {
	v, err := ParseDecimal(strings.ReplaceAll(s, "%", ""))
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

// keepDigits drops every rune of s that is not an ASCII digit, '.' or one of
// extra.
func keepDigits(s, extra string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || strings.ContainsRune(extra, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
