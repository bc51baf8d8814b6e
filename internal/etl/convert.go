package etl

// convert.go provides type coercion for raw cell values.
//
// These functions handle the messy reality of exported CSV data:
// currency symbols, thousands separators, accounting-style negatives
// "(123.45)", and stray whitespace. Failed coercion is reported via the
// second return value so callers can count the drop instead of erroring.

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToDecimal converts a raw cell to a decimal value.
// Returns false for empty or unparseable input.
func ToDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	// Accounting format "(123.45)" means negative
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ToInt converts a raw cell to an integer, truncating any fractional
// part the way a numeric cast would.
func ToInt(s string) (int, bool) {
	d, ok := ToDecimal(s)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}
