package mathutil

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Round up at midpoint", "1.235", "1.24"},
		{"Round down below midpoint", "1.234", "1.23"},
		{"No rounding needed", "1.23", "1.23"},
		{"Large number", "12345.678", "12345.68"},
		{"Negative number round down", "-1.234", "-1.23"},
		{"Zero", "0", "0"},
		{"Very small positive", "0.001", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(decimal.RequireFromString(tt.input))
			if !result.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("Round(%s) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"Whole amount", 1000.0, "1000"},
		{"Cents", 2500.55, "2500.55"},
		{"Sub-cent amount kept", 0.004, "0.004"},
		{"Literal tenth", 0.1, "0.1"},
		{"Zero", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromFloat(tt.input)
			if !result.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("FromFloat(%v) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("1500.25")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("1500.25")) {
		t.Errorf("Parse() = %s, expected 1500.25", got)
	}

	if _, err := Parse("$1,500"); err == nil {
		t.Error("Parse() expected error for formatted amount")
	}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Even gain", "1500", "750"},
		{"Odd cents", "0.01", "0.005"},
		{"Zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyDiscount(decimal.RequireFromString(tt.input))
			if !result.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("ApplyDiscount(%s) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	result := ToFloat(decimal.RequireFromString("750.004"))
	if math.Abs(result-750.0) > 0.0001 {
		t.Errorf("ToFloat() = %v, expected 750", result)
	}
}
