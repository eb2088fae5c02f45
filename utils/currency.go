package utils

import (
	"fmt"
	"math"
	"strings"
)

// RoundMoney rounds to whole cents, half away from zero.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatCurrency formats an amount with a symbol and thousands separators.
// Example: FormatCurrency(1234.5, "GBP") -> "£1,234.50"
func FormatCurrency(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	formatted := fmt.Sprintf("%.2f", RoundMoney(amount))
	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return sign + currencySymbol(currency) + strings.Join(groups, ",") + "." + decimalPart
}

func currencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "GBP", "":
		return "£"
	case "EUR":
		return "€"
	case "USD", "AUD", "CAD":
		return "$"
	default:
		return strings.ToUpper(currency) + " "
	}
}
