package core

// Amount parsing and display formatting. Arithmetic always runs on the
// raw decimal value; grouping is applied only when rendering.

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var amountPrinter = message.NewPrinter(language.English)

// ParseAmount converts a user-entered amount string to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Only strictly positive values are valid; signs are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrValidation
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrValidation
	}
	// Normalize decimal comma to dot.
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrValidation
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrValidation
	}
	return d, nil
}

// FormatAmount renders d with locale-aware digit grouping for display
// and tabular export, e.g. 1234567.5 -> "1,234,567.5".
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return amountPrinter.Sprintf("%v", number.Decimal(f,
		number.MaxFractionDigits(2),
		number.MinFractionDigits(0)))
}
