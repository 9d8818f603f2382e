package validation

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/shopspring/decimal"
)

// ValidatePrice rejects negative prices and prices outside the supported
// range. Zero is allowed. The range is checked on exponent and digit count
// only, so no arithmetic runs on an oversized value.
func ValidatePrice(field string, price decimal.Decimal) error {
	exp := int64(price.Exponent())
	if exp < -constants.MaxPriceDecimalPlaces {
		return fmt.Errorf("%s must have at most %d decimal places", field, constants.MaxPriceDecimalPlaces)
	}
	if exp > constants.MaxPriceIntegerDigits || price.Coefficient().CmpAbs(coefficientLimit(exp)) >= 0 {
		return fmt.Errorf("%s must have at most %d whole-dollar digits", field, constants.MaxPriceIntegerDigits)
	}
	if price.IsNegative() {
		return fmt.Errorf("%s must not be negative, got %s", field, price.String())
	}
	return nil
}

// coefficientLimit returns 10^(MaxPriceIntegerDigits-exp), the smallest
// coefficient whose value reaches 10^MaxPriceIntegerDigits at exponent exp.
func coefficientLimit(exp int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(constants.MaxPriceIntegerDigits-exp), nil)
}

// ValidateScenarioNames returns warnings for blank or repeated scenario names.
func ValidateScenarioNames(names []string) []string {
	var warnings []string
	seen := make(map[string]int)
	for i, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			warnings = append(warnings, fmt.Sprintf("Scenario #%d has no name", i+1))
			continue
		}
		seen[trimmed]++
		if seen[trimmed] == 2 {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", trimmed))
		}
	}
	return warnings
}

// ValidateHoldingBoundary warns when a holding period sits exactly on the
// discount threshold, where a calendar-month reading of "12 months" could
// disagree with the fixed day count.
func ValidateHoldingBoundary(name string, heldDays int) string {
	if heldDays == constants.DiscountThresholdDays || heldDays == constants.DiscountThresholdDays+1 {
		return fmt.Sprintf("Scenario '%s' is held %d days, next to the %d day discount threshold",
			name, heldDays, constants.DiscountThresholdDays)
	}
	return ""
}
