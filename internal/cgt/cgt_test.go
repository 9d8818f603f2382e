package cgt

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/iwvelando/cgt-calculator/pkg/datetime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disposal(buyPrice, buyDate, sellPrice, sellDate string) DisposalInput {
	return DisposalInput{
		BuyPrice:  decimal.RequireFromString(buyPrice),
		BuyDate:   datetime.MustParseTime(datetime.DateLayout, buyDate),
		SellPrice: decimal.RequireFromString(sellPrice),
		SellDate:  datetime.MustParseTime(datetime.DateLayout, sellDate),
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(expected).Equal(actual),
		"%s = %s, expected %s", field, actual, expected)
}

func TestCalculateScenarios(t *testing.T) {
	tests := []struct {
		name          string
		input         DisposalInput
		heldDays      int
		grossProfit   string
		eligible      bool
		taxableIncome string
		capitalLoss   string
		outcome       Outcome
	}{
		{
			name:          "Long hold gain is discounted",
			input:         disposal("1000.0", "2023-01-01", "2500.0", "2024-01-02"),
			heldDays:      366,
			grossProfit:   "1500",
			eligible:      true,
			taxableIncome: "750",
			capitalLoss:   "0",
			outcome:       Gain,
		},
		{
			name:          "Short hold gain is taxed in full",
			input:         disposal("1000.0", "2023-01-01", "2500.0", "2023-06-01"),
			heldDays:      151,
			grossProfit:   "1500",
			eligible:      false,
			taxableIncome: "1500",
			capitalLoss:   "0",
			outcome:       Gain,
		},
		{
			name:          "Loss is reported for carry forward",
			input:         disposal("2000.0", "2023-01-01", "1500.0", "2023-06-01"),
			heldDays:      151,
			grossProfit:   "-500",
			eligible:      false,
			taxableIncome: "0",
			capitalLoss:   "500",
			outcome:       Loss,
		},
		{
			name:          "Equal prices break even",
			input:         disposal("1000.0", "2023-01-01", "1000.0", "2023-06-01"),
			heldDays:      151,
			grossProfit:   "0",
			eligible:      false,
			taxableIncome: "0",
			capitalLoss:   "0",
			outcome:       BreakEven,
		},
		{
			name:          "Exactly 365 days is not discounted",
			input:         disposal("1000.0", "2023-01-01", "2500.0", "2024-01-01"),
			heldDays:      365,
			grossProfit:   "1500",
			eligible:      false,
			taxableIncome: "1500",
			capitalLoss:   "0",
			outcome:       Gain,
		},
		{
			name:          "Same day disposal",
			input:         disposal("10", "2023-03-03", "12.5", "2023-03-03"),
			heldDays:      0,
			grossProfit:   "2.5",
			eligible:      false,
			taxableIncome: "2.5",
			capitalLoss:   "0",
			outcome:       Gain,
		},
		{
			name:          "Zero prices",
			input:         disposal("0", "2020-01-01", "0", "2023-01-01"),
			heldDays:      1096,
			grossProfit:   "0",
			eligible:      false,
			taxableIncome: "0",
			capitalLoss:   "0",
			outcome:       BreakEven,
		},
		{
			name:          "Free asset sold after decades",
			input:         disposal("0", "1990-01-01", "100.01", "2030-01-01"),
			heldDays:      14610,
			grossProfit:   "100.01",
			eligible:      true,
			taxableIncome: "50.005",
			capitalLoss:   "0",
			outcome:       Gain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.heldDays, result.HeldDays)
			assert.Equal(t, tt.eligible, result.IsDiscountEligible)
			assert.Equal(t, tt.outcome, result.Outcome)
			assertDecimal(t, tt.grossProfit, result.GrossProfit, "GrossProfit")
			assertDecimal(t, tt.taxableIncome, result.TaxableIncome, "TaxableIncome")
			assertDecimal(t, tt.capitalLoss, result.CapitalLoss, "CapitalLoss")
		})
	}
}

func TestCalculateInvalidDateOrder(t *testing.T) {
	result, err := Calculate(disposal("1000.0", "2024-01-01", "1000.0", "2023-01-01"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrInvalidDateOrder))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, InvalidDateOrder, validationErr.Kind)
	assert.Contains(t, validationErr.Message, "sell date earlier than buy date")
	assert.Contains(t, validationErr.Message, "2023-01-01")
	assert.Equal(t, DisposalResult{}, result)
}

func TestCalculateOneDayBackwardsFails(t *testing.T) {
	_, err := Calculate(disposal("1", "2023-01-02", "2", "2023-01-01"))
	assert.ErrorIs(t, err, ErrInvalidDateOrder)
}

func TestCalculateDiscountBoundary(t *testing.T) {
	buy := datetime.MustParseTime(datetime.DateLayout, "2023-01-01")
	for days := constants.DiscountThresholdDays - 2; days <= constants.DiscountThresholdDays+2; days++ {
		input := DisposalInput{
			BuyPrice:  decimal.NewFromInt(100),
			BuyDate:   buy,
			SellPrice: decimal.NewFromInt(300),
			SellDate:  buy.AddDate(0, 0, days),
		}
		result, err := Calculate(input)
		require.NoError(t, err)
		assert.Equal(t, days, result.HeldDays)

		if days > constants.DiscountThresholdDays {
			assert.Truef(t, result.IsDiscountEligible, "held %d days should be eligible", days)
			assertDecimal(t, "100", result.TaxableIncome, "TaxableIncome")
		} else {
			assert.Falsef(t, result.IsDiscountEligible, "held %d days should not be eligible", days)
			assertDecimal(t, "200", result.TaxableIncome, "TaxableIncome")
		}
	}
}

func TestCalculateLossMagnitudeProperty(t *testing.T) {
	prices := [][2]string{{"2000", "1500"}, {"0.02", "0.01"}, {"99999.99", "0"}}
	for _, p := range prices {
		result, err := Calculate(disposal(p[0], "2023-01-01", p[1], "2025-01-01"))
		require.NoError(t, err)
		expected := decimal.RequireFromString(p[0]).Sub(decimal.RequireFromString(p[1]))
		assert.Equal(t, Loss, result.Outcome)
		assert.False(t, result.IsDiscountEligible)
		assertDecimal(t, expected.String(), result.CapitalLoss, "CapitalLoss")
	}
}

func TestDiscountStatus(t *testing.T) {
	tests := []struct {
		name     string
		result   DisposalResult
		expected string
	}{
		{"Discounted gain", DisposalResult{Outcome: Gain, IsDiscountEligible: true}, constants.DiscountEligibleMessage},
		{"Undiscounted gain", DisposalResult{Outcome: Gain}, constants.NoDiscountMessage},
		{"Loss", DisposalResult{Outcome: Loss}, ""},
		{"Break even", DisposalResult{Outcome: BreakEven}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.DiscountStatus())
		})
	}
}

func TestOutcomeText(t *testing.T) {
	data, err := json.Marshal(map[string]Outcome{"outcome": BreakEven})
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"BreakEven"}`, string(data))

	var decoded map[string]Outcome
	require.NoError(t, json.Unmarshal([]byte(`{"outcome":"Loss"}`), &decoded))
	assert.Equal(t, Loss, decoded["outcome"])

	var o Outcome
	assert.Error(t, o.UnmarshalText([]byte("Profit")))
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
	assert.Equal(t, "InvalidDateOrder", InvalidDateOrder.String())
}
