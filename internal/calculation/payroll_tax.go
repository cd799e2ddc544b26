package calculation

import (
	"fmt"
	"sort"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// wageBaseRounding is the increment published wage bases are rounded to
var wageBaseRounding = decimal.NewFromInt(300)

// PayrollTaxCalculator handles employer payroll tax calculations for one year
type PayrollTaxCalculator struct {
	Year                   int
	SocialSecurityWageBase decimal.Decimal
	Regimes                []domain.TaxRegime
}

// NewPayrollTaxCalculator creates a calculator for year from the configured rules
func NewPayrollTaxCalculator(rules domain.PayrollTaxRules, year int) (*PayrollTaxCalculator, error) {
	base, err := SocialSecurityWageBase(rules, year)
	if err != nil {
		return nil, err
	}
	for _, r := range rules.Regimes {
		switch r.Cap {
		case domain.CapFixed, domain.CapSocialSecurity, domain.CapUncapped:
		default:
			return nil, fmt.Errorf("tax regime %q: unknown cap %q", r.Name, r.Cap)
		}
	}
	return &PayrollTaxCalculator{
		Year:                   year,
		SocialSecurityWageBase: base,
		Regimes:                rules.Regimes,
	}, nil
}

// SocialSecurityWageBase returns the wage base for year. Years after the last
// published entry compound from it by WageBaseGrowthPct, rounded to the
// nearest $300 each year; years before the first entry use the first entry.
func SocialSecurityWageBase(rules domain.PayrollTaxRules, year int) (decimal.Decimal, error) {
	if len(rules.SocialSecurityWageBases) == 0 {
		return decimal.Zero, fmt.Errorf("no social security wage bases configured")
	}
	if base, ok := rules.SocialSecurityWageBases[year]; ok {
		return base, nil
	}

	years := make([]int, 0, len(rules.SocialSecurityWageBases))
	for y := range rules.SocialSecurityWageBases {
		years = append(years, y)
	}
	sort.Ints(years)

	first, last := years[0], years[len(years)-1]
	if year < first {
		return rules.SocialSecurityWageBases[first], nil
	}
	if year < last {
		// gap inside the table: use the closest earlier entry
		prev := first
		for _, y := range years {
			if y > year {
				break
			}
			prev = y
		}
		return rules.SocialSecurityWageBases[prev], nil
	}

	factor := one.Add(rules.WageBaseGrowthPct.Div(hundred))
	base := rules.SocialSecurityWageBases[last]
	for y := last + 1; y <= year; y++ {
		base = roundToIncrement(base.Mul(factor), wageBaseRounding)
	}
	return base, nil
}

func roundToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	return v.Div(inc).Round(0).Mul(inc)
}

// Cap returns the wage ceiling for a regime, and false when uncapped
func (pc *PayrollTaxCalculator) Cap(r domain.TaxRegime) (decimal.Decimal, bool) {
	switch r.Cap {
	case domain.CapFixed:
		return r.WageBase, true
	case domain.CapSocialSecurity:
		return pc.SocialSecurityWageBase, true
	}
	return decimal.Zero, false
}

// Calculate computes the employer tax on one employee's wages for the year.
// Each regime is capped independently; non-positive wages owe nothing.
func (pc *PayrollTaxCalculator) Calculate(wages decimal.Decimal) domain.PayrollTaxBreakdown {
	breakdown := domain.PayrollTaxBreakdown{
		Year:  pc.Year,
		Wages: wages,
		Lines: make([]domain.PayrollTaxLine, 0, len(pc.Regimes)),
		Total: decimal.Zero,
	}
	taxable := decimal.Max(wages, decimal.Zero)

	for _, r := range pc.Regimes {
		regimeWages := taxable
		if limit, capped := pc.Cap(r); capped {
			regimeWages = decimal.Min(regimeWages, limit)
		}
		tax := regimeWages.Mul(r.Rate)
		breakdown.Lines = append(breakdown.Lines, domain.PayrollTaxLine{
			Regime:       r.Name,
			Rate:         r.Rate,
			TaxableWages: regimeWages,
			Tax:          tax,
		})
		breakdown.Total = breakdown.Total.Add(tax)
	}
	return breakdown
}
