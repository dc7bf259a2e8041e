package finanzas

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// precisionInterna bounds the scale of running decimal arithmetic so long
// schedules do not accumulate unbounded digits.
const precisionInterna = 10

var (
	cien = decimal.NewFromInt(100)
	uno  = decimal.NewFromInt(1)
)

// Centavos rounds an amount half away from zero to 2 decimals.
func Centavos(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func maxCero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// desdeFloat converts the result of a float64 power back to decimal. An
// overflowed or undefined result means the inputs are outside what the
// formula can represent.
func desdeFloat(f float64, que string) (decimal.Decimal, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, fmt.Errorf("%w: %s fuera de rango", ErrEntradaInvalida, que)
	}
	return decimal.NewFromFloat(f), nil
}
