// Package mathutil provides rounding and comparison helpers for currency amounts.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Cents converts a float amount to a fixed-point decimal rounded to cents.
func Cents(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(constants.CurrencyDecimalPlaces)
}

// AtMost reports whether val does not exceed limit by more than one cent.
func AtMost(val, limit float64) bool {
	return val <= limit+constants.CurrencyTolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
