package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerances used for "has this value changed" checks. Values are never
// compared for exact equality.
var (
	// MoneyTolerance is the dollar drift tolerated before a projected amount counts as edited
	MoneyTolerance = decimal.NewFromInt(1)
	// PercentTolerance is the drift tolerated on percentage values (0-100 scale)
	PercentTolerance = decimal.NewFromFloat(0.01)
	// PortionTolerance is the drift tolerated on portion-of-year fractions
	PortionTolerance = decimal.NewFromFloat(0.0001)
)

var hundred = decimal.NewFromInt(100)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// PerPeriod splits an annual amount into n equal pay periods
func (m Money) PerPeriod(n int) Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(int64(n)))}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the string representation with two decimals
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as $1,234,567.89 (negative as -$1,234.00).
func (m Money) Format() string {
	s := m.Decimal.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	sign := ""
	if m.Decimal.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}

// WithinTolerance reports whether |a-b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// Percent converts a 0-100 percentage to a fraction.
func Percent(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

// GrowthFactor returns 1 + pct/100.
func GrowthFactor(pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(Percent(pct))
}

// Compound applies pct growth to value for the given number of years.
func Compound(value, pct decimal.Decimal, years int) decimal.Decimal {
	result := value
	factor := GrowthFactor(pct)
	for i := 0; i < years; i++ {
		result = result.Mul(factor)
	}
	return result
}
