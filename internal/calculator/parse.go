package calculator

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// numericPrefix matches the longest leading number, the way a browser
// parseFloat reads "12.50 each" as 12.5.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseDecimalPrefix parses the numeric prefix of text.
// ok is false when text does not start with a number (after leading
// whitespace) or when the number overflows a float64.
func ParseDecimalPrefix(text string) (value float64, ok bool) {
	match := numericPrefix.FindString(strings.TrimLeftFunc(text, unicode.IsSpace))
	if match == "" {
		return 0, false
	}

	// An out-of-range exponent comes back as ±Inf with ErrRange.
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseLenientDecimal turns free-text amount input into a non-negative number.
// Empty, unparsable, negative and non-finite input all yield 0.
func ParseLenientDecimal(text string) float64 {
	v, ok := ParseDecimalPrefix(text)
	if !ok || v < 0 {
		return 0
	}
	return v
}

// SanitizeAmountInput applies the edit-boundary rule for amount fields:
// everything except digits and '.' is dropped, and an edit that would leave
// more than one '.' is rejected in favour of the previous value.
func SanitizeAmountInput(previous, typed string) string {
	var b strings.Builder
	b.Grow(len(typed))
	for _, r := range typed {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if strings.Count(cleaned, ".") > 1 {
		return previous
	}
	return cleaned
}

// Round2 rounds to cents, half away from zero. It is meant for display and
// comparison of already computed values; computation itself stays unrounded.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
