// Package currency converts amounts between currencies using USD-relative
// exchange rate tables.
package currency

import (
	"maps"
	"math"
	"strings"
)

// RateTable maps an ISO-4217 code to units of that currency per 1 USD.
type RateTable map[string]float64

// Rate returns the rate for code, or 1 when the code is unknown or the
// stored rate is unusable.
func (t RateTable) Rate(code string) float64 {
	r, ok := t[strings.ToUpper(code)]
	if !ok || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Clone returns a copy of the table.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	maps.Copy(out, t)
	return out
}

// FallbackRates is used when the rate service cannot be reached.
func FallbackRates() RateTable {
	return RateTable{
		"USD": 1,
		"NZD": 1.65,
		"AUD": 1.52,
		"EUR": 0.92,
		"GBP": 0.79,
		"CAD": 1.36,
	}
}

// Convert converts amount from one currency to another through USD.
// Identical codes return amount untouched; NaN and infinite inputs yield 0.
func Convert(amount float64, from, to string, rates RateTable) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount == 0 {
		return 0
	}
	if strings.EqualFold(from, to) {
		return amount
	}
	result := amount / rates.Rate(from) * rates.Rate(to)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}
