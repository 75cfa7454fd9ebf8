package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// surrounding whitespace. The sign is preserved; rejecting negative amounts
// is a ValidationPolicy decision, not a parsing one.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("1000.0") -> 1000
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
