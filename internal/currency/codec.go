// Package currency converts between euro display strings in the European
// convention ("€ 1.234,50") and float amounts.
package currency

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	// Glyph is the currency symbol every display string starts with.
	Glyph = "€"
	// nbsp separates the glyph from the digits.
	nbsp = "\u00a0"
)

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Parse converts a display string into an amount. The glyph and every
// whitespace rune are dropped; when a comma is present it is the decimal
// separator and all dots are thousands separators. The longest numeric
// prefix is parsed. Empty or unparseable input yields 0.
func Parse(display string) float64 {
	var b strings.Builder
	b.Grow(len(display))
	for _, r := range display {
		if r == '€' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	m := numberPrefix.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Format renders an amount as "€ 1.234,50" with a non-breaking space after
// the glyph. Negative amounts render as "-€ 1.234,50". Non-finite input
// renders as zero.
func Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	out := Glyph + nbsp + GroupThousands(intPart, '.') + "," + fracPart
	if neg && strings.Trim(intPart+fracPart, "0") != "" {
		return "-" + out
	}
	return out
}

// GroupThousands inserts sep between every group of three digits.
// e.g., "1234567" -> "1.234.567"
func GroupThousands(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}

	var result strings.Builder
	remainder := len(digits) % 3
	if remainder > 0 {
		result.WriteString(digits[:remainder])
	}
	for i := remainder; i < len(digits); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(sep)
		}
		result.WriteString(digits[i : i+3])
	}
	return result.String()
}

// Sum adds amounts in decimal arithmetic so that long runs of cents do not
// drift, returning the float result.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}
