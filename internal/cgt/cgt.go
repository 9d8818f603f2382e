// Package cgt computes the Australian capital gains tax treatment of a single
// asset disposal.
package cgt

import (
	"time"

	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/iwvelando/cgt-calculator/pkg/datetime"
	"github.com/iwvelando/cgt-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// DisposalInput describes one purchase and sale of an asset. Prices are
// expected to be non-negative; only the date order is checked here.
type DisposalInput struct {
	BuyPrice  decimal.Decimal
	BuyDate   time.Time
	SellPrice decimal.Decimal
	SellDate  time.Time
}

// DisposalResult is the CGT treatment of a DisposalInput.
type DisposalResult struct {
	HeldDays           int
	GrossProfit        decimal.Decimal
	IsDiscountEligible bool
	TaxableIncome      decimal.Decimal
	// CapitalLoss is the loss available to carry forward. Zero unless
	// Outcome is Loss.
	CapitalLoss decimal.Decimal
	Outcome     Outcome
}

// Calculate derives the holding period, gross profit, discount eligibility
// and taxable income for a disposal. It fails with an InvalidDateOrder
// ValidationError when the sell date is before the buy date.
func Calculate(input DisposalInput) (DisposalResult, error) {
	heldDays := datetime.DaysBetween(input.BuyDate, input.SellDate)
	if heldDays < 0 {
		return DisposalResult{}, newInvalidDateOrder(input.BuyDate, input.SellDate)
	}

	result := DisposalResult{
		HeldDays:      heldDays,
		GrossProfit:   input.SellPrice.Sub(input.BuyPrice),
		TaxableIncome: decimal.Zero,
		CapitalLoss:   decimal.Zero,
	}

	switch result.GrossProfit.Sign() {
	case 1:
		result.Outcome = Gain
		if heldDays > constants.DiscountThresholdDays {
			result.IsDiscountEligible = true
			result.TaxableIncome = mathutil.ApplyDiscount(result.GrossProfit)
		} else {
			result.TaxableIncome = result.GrossProfit
		}
	case -1:
		result.Outcome = Loss
		result.CapitalLoss = result.GrossProfit.Abs()
	default:
		result.Outcome = BreakEven
	}

	return result, nil
}

// DiscountStatus returns a short label describing whether the discount
// applied. It is empty for anything other than a gain.
func (r DisposalResult) DiscountStatus() string {
	if r.Outcome != Gain {
		return ""
	}
	if r.IsDiscountEligible {
		return constants.DiscountEligibleMessage
	}
	return constants.NoDiscountMessage
}
