package currency

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// DisplayCurrencies are the currencies the user can pick for display.
var DisplayCurrencies = []string{"NZD", "USD", "AUD", "EUR", "GBP", "CAD"}

// Symbol returns the display symbol for a currency code.
func Symbol(code string) string {
	switch strings.ToUpper(code) {
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return "$"
	}
}

// FormatAmount renders amount rounded to whole units with thousands
// separators, e.g. "$12,345" or "-€40".
func FormatAmount(amount float64, code string) string {
	rounded := int64(math.Round(amount))
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + Symbol(code) + humanize.Comma(rounded)
}

// NextDisplayCurrency returns the currency after code in DisplayCurrencies.
func NextDisplayCurrency(code string) string {
	for i, c := range DisplayCurrencies {
		if strings.EqualFold(c, code) {
			return DisplayCurrencies[(i+1)%len(DisplayCurrencies)]
		}
	}
	return DisplayCurrencies[0]
}
