package output

import (
	"strconv"

	money "github.com/practicecomp/compensation-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatSignedCurrency prefixes gains with "+".
func FormatSignedCurrency(amount decimal.Decimal) string {
	if amount.Round(2).IsPositive() {
		return "+" + FormatCurrency(amount)
	}
	return FormatCurrency(amount)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
