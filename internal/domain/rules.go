package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// WageCap says which wage base limits a payroll tax regime
type WageCap string

const (
	CapFixed          WageCap = "fixed"           // regime's own WageBase
	CapSocialSecurity WageCap = "social_security" // the year's Social Security wage base
	CapUncapped       WageCap = "uncapped"
)

// TaxRegime is one employer payroll levy
type TaxRegime struct {
	Name     string          `yaml:"name" json:"name"`
	Rate     decimal.Decimal `yaml:"rate" json:"rate"` // fraction, 0.062 = 6.2%
	Cap      WageCap         `yaml:"cap" json:"cap"`
	WageBase decimal.Decimal `yaml:"wage_base,omitempty" json:"wage_base,omitempty"` // only for CapFixed
}

// PayrollTaxRules holds the regimes and the published Social Security wage
// bases. Years missing from the table are extrapolated by WageBaseGrowthPct.
type PayrollTaxRules struct {
	SocialSecurityWageBases map[int]decimal.Decimal `yaml:"social_security_wage_bases" json:"social_security_wage_bases"`
	WageBaseGrowthPct       decimal.Decimal         `yaml:"wage_base_growth_pct" json:"wage_base_growth_pct"`
	Regimes                 []TaxRegime             `yaml:"regimes" json:"regimes"`
}

// PayrollCalendar describes a recurring pay calendar. AnchorDate is the first
// day of any pay period; wages for a period are paid PayLagDays after it ends.
type PayrollCalendar struct {
	AnchorDate     time.Time `yaml:"anchor_date" json:"anchor_date"`
	PeriodDays     int       `yaml:"period_days" json:"period_days"`
	PayLagDays     int       `yaml:"pay_lag_days" json:"pay_lag_days"`
	PeriodsPerYear int       `yaml:"periods_per_year" json:"periods_per_year"`
}

// FixedDefaults are used when neither a projection nor a prior year supplies a value
type FixedDefaults struct {
	MedicalDirectorHours        decimal.Decimal `yaml:"medical_director_hours" json:"medical_director_hours"`
	PRCSMedicalDirectorHours    decimal.Decimal `yaml:"prcs_medical_director_hours" json:"prcs_medical_director_hours"`
	ConsultingServicesAgreement decimal.Decimal `yaml:"consulting_services_agreement" json:"consulting_services_agreement"`
	LocumCosts                  decimal.Decimal `yaml:"locum_costs" json:"locum_costs"`
	MiscEmploymentCosts         decimal.Decimal `yaml:"misc_employment_costs" json:"misc_employment_costs"`
}

// Value returns the default for a fixed field (and misc employment costs)
func (d FixedDefaults) Value(f Field) decimal.Decimal {
	switch f {
	case FieldMedicalDirectorHours:
		return d.MedicalDirectorHours
	case FieldPRCSMedicalDirectorHours:
		return d.PRCSMedicalDirectorHours
	case FieldConsultingServicesAgreement:
		return d.ConsultingServicesAgreement
	case FieldLocumCosts:
		return d.LocumCosts
	case FieldMiscEmploymentCosts:
		return d.MiscEmploymentCosts
	}
	return decimal.Zero
}

// PracticeRules are the practice-wide constants the engine runs against
type PracticeRules struct {
	PayrollTax         PayrollTaxRules  `yaml:"payroll_tax" json:"payroll_tax"`
	BenefitsAnnualCost decimal.Decimal  `yaml:"benefits_annual_cost" json:"benefits_annual_cost"`
	Defaults           FixedDefaults    `yaml:"defaults" json:"defaults"`
	PRCSDirectorTag    string           `yaml:"prcs_director_tag" json:"prcs_director_tag"`
	Payroll            *PayrollCalendar `yaml:"payroll,omitempty" json:"payroll,omitempty"`
}

// DefaultPracticeRules returns the built-in rule set
func DefaultPracticeRules() PracticeRules {
	return PracticeRules{
		PayrollTax: PayrollTaxRules{
			SocialSecurityWageBases: map[int]decimal.Decimal{
				2022: decimal.NewFromInt(147000),
				2023: decimal.NewFromInt(160200),
				2024: decimal.NewFromInt(168600),
				2025: decimal.NewFromInt(176100),
				2026: decimal.NewFromInt(184500),
			},
			WageBaseGrowthPct: decimal.NewFromFloat(4.5),
			Regimes:           DefaultTaxRegimes(),
		},
		BenefitsAnnualCost: decimal.NewFromInt(18000),
		Defaults: FixedDefaults{
			MedicalDirectorHours:        decimal.NewFromInt(110000),
			PRCSMedicalDirectorHours:    decimal.NewFromInt(60000),
			ConsultingServicesAgreement: decimal.NewFromInt(16200),
			LocumCosts:                  decimal.NewFromInt(120000),
			MiscEmploymentCosts:         decimal.NewFromInt(30000),
		},
		PRCSDirectorTag: "prcs-director",
	}
}

// DefaultTaxRegimes returns the federal and state employer levies
func DefaultTaxRegimes() []TaxRegime {
	return []TaxRegime{
		{Name: "social_security", Rate: decimal.NewFromFloat(0.062), Cap: CapSocialSecurity},
		{Name: "medicare", Rate: decimal.NewFromFloat(0.0145), Cap: CapUncapped},
		{Name: "federal_unemployment", Rate: decimal.NewFromFloat(0.006), Cap: CapFixed, WageBase: decimal.NewFromInt(7000)},
		{Name: "state_unemployment", Rate: decimal.NewFromFloat(0.012), Cap: CapFixed, WageBase: decimal.NewFromInt(72800)},
		{Name: "family_leave", Rate: decimal.NewFromFloat(0.0028), Cap: CapSocialSecurity},
		{Name: "long_term_care", Rate: decimal.NewFromFloat(0.0058), Cap: CapUncapped},
	}
}

// DefaultPayrollCalendar is a biweekly calendar anchored on a Saturday
// period start, paid the Friday after the period closes.
func DefaultPayrollCalendar() PayrollCalendar {
	return PayrollCalendar{
		AnchorDate:     time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC),
		PeriodDays:     14,
		PayLagDays:     7,
		PeriodsPerYear: 26,
	}
}

// GenerateAssumptions lists the rules a report was computed under
func (r PracticeRules) GenerateAssumptions() []string {
	out := []string{
		fmt.Sprintf("Benefits cost: $%s per year, pro-rated by employee portion", r.BenefitsAnnualCost.StringFixed(0)),
		fmt.Sprintf("Default medical director hours: $%s shared, $%s PRCS", r.Defaults.MedicalDirectorHours.StringFixed(0), r.Defaults.PRCSMedicalDirectorHours.StringFixed(0)),
		fmt.Sprintf("Default consulting services agreement: $%s", r.Defaults.ConsultingServicesAgreement.StringFixed(0)),
		fmt.Sprintf("Default locum costs: $%s; misc employment costs: $%s", r.Defaults.LocumCosts.StringFixed(0), r.Defaults.MiscEmploymentCosts.StringFixed(0)),
		fmt.Sprintf("PRCS director selected by tag %q when not designated", r.PRCSDirectorTag),
	}

	years := make([]int, 0, len(r.PayrollTax.SocialSecurityWageBases))
	for y := range r.PayrollTax.SocialSecurityWageBases {
		years = append(years, y)
	}
	sort.Ints(years)
	if len(years) > 0 {
		last := years[len(years)-1]
		out = append(out, fmt.Sprintf("Social Security wage base: $%s in %d, growing %s%% per year after",
			r.PayrollTax.SocialSecurityWageBases[last].StringFixed(0), last, r.PayrollTax.WageBaseGrowthPct.String()))
	}
	for _, reg := range r.PayrollTax.Regimes {
		out = append(out, fmt.Sprintf("Payroll tax %s: %s%% (%s)", reg.Name, reg.Rate.Mul(decimal.NewFromInt(100)).String(), reg.capLabel()))
	}
	if r.Payroll != nil {
		out = append(out, fmt.Sprintf("Conversion-year W-2 from a %d-day pay calendar anchored %s, paid %d days after period end",
			r.Payroll.PeriodDays, r.Payroll.AnchorDate.Format("2006-01-02"), r.Payroll.PayLagDays))
	} else {
		out = append(out, "Conversion-year W-2 estimated as salary x employee portion of year")
	}
	return out
}

func (t TaxRegime) capLabel() string {
	switch t.Cap {
	case CapFixed:
		return "capped at $" + t.WageBase.StringFixed(0)
	case CapSocialSecurity:
		return "capped at the Social Security wage base"
	}
	return "uncapped"
}
