// Package mathutil provides common mathematical utility functions for
// currency amounts held as decimals.
package mathutil

import (
	"fmt"

	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/shopspring/decimal"
)

// discountRate is the parsed form of constants.DiscountRate.
var discountRate = decimal.RequireFromString(constants.DiscountRate)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CentsPlaces)
}

// FromFloat converts a float amount, such as one read from YAML, into the
// shortest decimal that round-trips to it, so 0.004 stays 0.004. Amounts are
// only rounded to cents for display.
func FromFloat(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val)
}

// Parse converts a user-entered amount into a decimal.
func Parse(val string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", val, err)
	}
	return d, nil
}

// ApplyDiscount returns the taxable share of a discounted gain.
func ApplyDiscount(gain decimal.Decimal) decimal.Decimal {
	return gain.Mul(discountRate)
}

// ToFloat converts a decimal into a float rounded to cents, for JSON payloads.
func ToFloat(val decimal.Decimal) float64 {
	return Round(val).InexactFloat64()
}
