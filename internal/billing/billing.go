// Package billing computes amounts due for prepaid sessions.
//
// All results are rounded to 2 decimal places, half-up (away from zero).
// Arithmetic is done in decimal so values such as 2.675 round the way a
// cashier would expect rather than the way their binary float neighbour would.
package billing

import (
	"github.com/shopspring/decimal"
)

const places = 2

var sixty = decimal.NewFromInt(60)

// CalculateBill returns hourlyRate * (durationMinutes / 60) + extraCharges.
func CalculateBill(durationMinutes int, hourlyRate, extraCharges float64) float64 {
	base := decimal.NewFromFloat(hourlyRate).
		Mul(decimal.NewFromInt(int64(durationMinutes))).
		Div(sixty)

	return base.Add(decimal.NewFromFloat(extraCharges)).Round(places).InexactFloat64()
}

// ExtensionCost returns the charge for extending a session by extraMinutes.
func ExtensionCost(extraMinutes int, hourlyRate float64) float64 {
	return CalculateBill(extraMinutes, hourlyRate, 0)
}

// Add returns a + b rounded to 2 decimal places.
func Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(places).InexactFloat64()
}

// Sum adds amounts and rounds once at the end.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(places).InexactFloat64()
}

// Round rounds v to 2 decimal places, half-up.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
