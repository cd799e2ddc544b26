package domain

import (
	"github.com/shopspring/decimal"
)

// PayrollTaxLine is one regime's contribution for one employee-year
type PayrollTaxLine struct {
	Regime       string          `json:"regime"`
	Rate         decimal.Decimal `json:"rate"`
	TaxableWages decimal.Decimal `json:"taxable_wages"`
	Tax          decimal.Decimal `json:"tax"`
}

// PayrollTaxBreakdown is the per-regime employer tax on one employee's wages
type PayrollTaxBreakdown struct {
	Year  int              `json:"year"`
	Wages decimal.Decimal  `json:"wages"`
	Lines []PayrollTaxLine `json:"lines"`
	Total decimal.Decimal  `json:"total"`
}

// Line returns the line for a regime, if present
func (b PayrollTaxBreakdown) Line(regime string) (PayrollTaxLine, bool) {
	for _, l := range b.Lines {
		if l.Regime == regime {
			return l, true
		}
	}
	return PayrollTaxLine{}, false
}

// W2Method records which estimate produced a disclosed W-2 figure
type W2Method string

const (
	W2Proportional W2Method = "proportional"
	W2PayPeriod    W2Method = "pay_period"
)

// PersonCompensation is the per-person breakdown for one year
type PersonCompensation struct {
	PhysicianID     string          `json:"physician_id"`
	Name            string          `json:"name"`
	Type            PhysicianType   `json:"type"`
	EmployeePortion decimal.Decimal `json:"employee_portion"`
	PartnerPortion  decimal.Decimal `json:"partner_portion"`

	// Partner side
	PartnerWeight  decimal.Decimal `json:"partner_weight"` // share of the allocable pool, 0..1
	BaseShare      decimal.Decimal `json:"base_share"`
	MDSharePercent decimal.Decimal `json:"md_share_percent"`
	MDShare        decimal.Decimal `json:"md_share"`
	PRCSShare      decimal.Decimal `json:"prcs_share"`

	// Employee side (W-2 is disclosed, never part of the partner pool share)
	W2Wages      decimal.Decimal     `json:"w2_wages"`
	W2Method     W2Method            `json:"w2_method,omitempty"`
	PayrollTaxes PayrollTaxBreakdown `json:"payroll_taxes"`
	Benefits     decimal.Decimal     `json:"benefits"`
	Bonus        decimal.Decimal     `json:"bonus"`

	// Retirement. Buyout is charged to the pool. TrailingSharedMD is
	// disclosure only: nothing funds it, so totals that include it can
	// exceed what the practice paid out.
	Buyout           decimal.Decimal `json:"buyout"`
	TrailingSharedMD decimal.Decimal `json:"trailing_shared_md"`

	PartnerCompensation decimal.Decimal `json:"partner_compensation"` // base + MD + PRCS
	TotalDisclosed      decimal.Decimal `json:"total_disclosed"`      // partner comp + W-2 + bonus + buyout + trailing MD
}

// IsPartnerInYear reports whether the person shares in the pool this year
func (pc PersonCompensation) IsPartnerInYear() bool {
	return pc.PartnerPortion.IsPositive()
}

// YearCompensation is the practice-level result for one year
type YearCompensation struct {
	Year int `json:"year"`

	TherapyIncome        decimal.Decimal `json:"therapy_income"`
	SharedMDPay          decimal.Decimal `json:"shared_md_pay"`
	PRCSPay              decimal.Decimal `json:"prcs_pay"`
	ConsultingFee        decimal.Decimal `json:"consulting_fee"`
	GrossIncome          decimal.Decimal `json:"gross_income"`
	NonEmploymentCosts   decimal.Decimal `json:"non_employment_costs"`
	NonMDEmploymentCosts decimal.Decimal `json:"non_md_employment_costs"`
	MiscEmploymentCosts  decimal.Decimal `json:"misc_employment_costs"`
	LocumCosts           decimal.Decimal `json:"locum_costs"`
	EmployeeCosts        decimal.Decimal `json:"employee_costs"` // W-2 + payroll tax + benefits + bonus
	PayrollTaxTotal      decimal.Decimal `json:"payroll_tax_total"`
	BuyoutCosts          decimal.Decimal `json:"buyout_costs"`
	NetPartnerPool       decimal.Decimal `json:"net_partner_pool"`
	AllocablePool        decimal.Decimal `json:"allocable_pool"` // net pool less directed MD streams
	TotalPartnerPortion  decimal.Decimal `json:"total_partner_portion"`
	PRCSDirectorID       string          `json:"prcs_director_id,omitempty"`

	People []PersonCompensation `json:"people"`
}

// Person returns the breakdown for a physician id
func (yc YearCompensation) Person(id string) (PersonCompensation, bool) {
	for _, p := range yc.People {
		if p.PhysicianID == id {
			return p, true
		}
	}
	return PersonCompensation{}, false
}

// YearResult pairs a resolved projected year with its compensation
type YearResult struct {
	FutureYear   FutureYear       `json:"future_year"`
	Overrides    map[Field]bool   `json:"overrides"`
	Compensation YearCompensation `json:"compensation"`
}

// ScenarioResult is the full output of one scenario run
type ScenarioResult struct {
	Name     string       `json:"name"`
	DataMode DataMode     `json:"data_mode"`
	Baseline Baseline     `json:"baseline"`
	Years    []YearResult `json:"years"`
}

// Year returns the result for a calendar year
func (sr ScenarioResult) Year(year int) (YearResult, bool) {
	for _, y := range sr.Years {
		if y.FutureYear.Year == year {
			return y, true
		}
	}
	return YearResult{}, false
}

// YearComparison is a side-by-side view of two scenarios for one year
type YearComparison struct {
	Year            int             `json:"year"`
	NetPartnerPoolA decimal.Decimal `json:"net_partner_pool_a"`
	NetPartnerPoolB decimal.Decimal `json:"net_partner_pool_b"`
	Delta           decimal.Decimal `json:"delta"`
}

// PracticeReport is what formatters render
type PracticeReport struct {
	Practice    string           `json:"practice"`
	Scenarios   []ScenarioResult `json:"scenarios"`
	Comparison  []YearComparison `json:"comparison,omitempty"`
	Assumptions []string         `json:"assumptions"`
}
