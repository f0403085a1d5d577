package settings

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders amount with the currency's symbol, position and separators,
// e.g. "1.234,50 €" or "$1,234.50".
func (c CurrencySettings) Format(amount decimal.Decimal) string {
	fixed := amount.StringFixed(int32(c.Decimals))
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(c.ThousandsSeparator)
		}
		b.WriteRune(r)
	}
	num := b.String()
	if frac != "" {
		num += c.DecimalSeparator + frac
	}

	sign := ""
	if neg {
		sign = "-"
	}
	if c.Position == "before" {
		return sign + c.Symbol + num
	}
	return sign + num + " " + c.Symbol
}
