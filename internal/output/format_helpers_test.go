package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.567", "$1,234.57"},
		{"0", "$0.00"},
		{"999", "$999.00"},
		{"1252225.4", "$1,252,225.40"},
		{"-45294.118", "-$45,294.12"},
		{"-0.001", "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "12.35%", FormatPercentage(decimal.NewFromFloat(12.3456)))
}

func TestFormatSignedCurrency(t *testing.T) {
	assert.Equal(t, "+$10.00", FormatSignedCurrency(decimal.NewFromInt(10)))
	assert.Equal(t, "-$10.00", FormatSignedCurrency(decimal.NewFromInt(-10)))
	assert.Equal(t, "$0.00", FormatSignedCurrency(decimal.Zero))
}

func TestIntAndBoolToString(t *testing.T) {
	assert.Equal(t, "42", intToString(42))
	assert.Equal(t, "true", boolToString(true))
	assert.Equal(t, "false", boolToString(false))
}
