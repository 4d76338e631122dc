// Package money holds decimal parsing and presentation helpers shared by
// handlers and templates. All arithmetic stays in exact base-10 decimals;
// rounding happens only here, at the presentation edge.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse normalizes a user-entered numeric string into an exact decimal.
// Both "," and "." are accepted: when both appear, "." is a thousands
// separator and "," the decimal mark ("1.234,56"); otherwise a lone ","
// is the decimal mark. Blank or malformed input yields zero — forms are
// forgiving, never rejected for a number that does not parse.
func Parse(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders a decimal rounded half-up to 2 places with thousands
// grouping: 1234.5 -> "1,234.50".
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// Percent renders a decimal fraction as a whole percentage, rounded
// half-up: 0.19 -> "19%", 0.125 -> "13%".
func Percent(frac decimal.Decimal) string {
	return frac.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}
