package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// YearRow is a recorded historical year. Rows are never edited once recorded.
type YearRow struct {
	Year               int             `yaml:"year" json:"year"`
	TherapyIncome      decimal.Decimal `yaml:"therapy_income" json:"therapy_income"`
	NonEmploymentCosts decimal.Decimal `yaml:"non_employment_costs" json:"non_employment_costs"`
	EmployeePayroll    decimal.Decimal `yaml:"employee_payroll" json:"employee_payroll"`
}

// Field identifies one projected financial field of a FutureYear
type Field string

const (
	FieldTherapyIncome               Field = "therapy_income"
	FieldNonEmploymentCosts          Field = "non_employment_costs"
	FieldNonMDEmploymentCosts        Field = "non_md_employment_costs"
	FieldMiscEmploymentCosts         Field = "misc_employment_costs"
	FieldLocumCosts                  Field = "locum_costs"
	FieldMedicalDirectorHours        Field = "medical_director_hours"
	FieldPRCSMedicalDirectorHours    Field = "prcs_medical_director_hours"
	FieldConsultingServicesAgreement Field = "consulting_services_agreement"
)

// GrowthFields compound from the previous year by a growth percentage
var GrowthFields = []Field{
	FieldTherapyIncome,
	FieldNonEmploymentCosts,
	FieldNonMDEmploymentCosts,
	FieldMiscEmploymentCosts,
}

// FixedFields carry the previous explicit amount forward without compounding
var FixedFields = []Field{
	FieldLocumCosts,
	FieldMedicalDirectorHours,
	FieldPRCSMedicalDirectorHours,
	FieldConsultingServicesAgreement,
}

// AllFields is GrowthFields followed by FixedFields
var AllFields = append(append([]Field{}, GrowthFields...), FixedFields...)

// IsGrowth reports whether f compounds by a growth rate
func (f Field) IsGrowth() bool {
	for _, g := range GrowthFields {
		if g == f {
			return true
		}
	}
	return false
}

// ParseField resolves a field name (snake_case or camelCase)
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
	for _, f := range AllFields {
		if strings.ReplaceAll(string(f), "_", "") == n {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// ProjectedValue is a projected amount together with its state:
// derived from growth assumptions, or overridden by an explicit edit.
type ProjectedValue struct {
	Value      decimal.Decimal `yaml:"value" json:"value"`
	Overridden bool            `yaml:"overridden" json:"overridden"`
}

// Derived returns a value in the derived-from-growth state
func Derived(v decimal.Decimal) ProjectedValue {
	return ProjectedValue{Value: v}
}

// Override returns a value in the manually-overridden state
func Override(v decimal.Decimal) ProjectedValue {
	return ProjectedValue{Value: v, Overridden: true}
}

// FutureYear is one projected, editable year
type FutureYear struct {
	Year                        int            `yaml:"year" json:"year"`
	TherapyIncome               ProjectedValue `yaml:"therapy_income" json:"therapy_income"`
	NonEmploymentCosts          ProjectedValue `yaml:"non_employment_costs" json:"non_employment_costs"`
	NonMDEmploymentCosts        ProjectedValue `yaml:"non_md_employment_costs" json:"non_md_employment_costs"`
	MiscEmploymentCosts         ProjectedValue `yaml:"misc_employment_costs" json:"misc_employment_costs"`
	LocumCosts                  ProjectedValue `yaml:"locum_costs" json:"locum_costs"`
	MedicalDirectorHours        ProjectedValue `yaml:"medical_director_hours" json:"medical_director_hours"`
	PRCSMedicalDirectorHours    ProjectedValue `yaml:"prcs_medical_director_hours" json:"prcs_medical_director_hours"`
	ConsultingServicesAgreement ProjectedValue `yaml:"consulting_services_agreement" json:"consulting_services_agreement"`

	// nil means unset (the selection rule decides); "" means nobody
	PRCSDirectorPhysicianID *string `yaml:"prcs_director_physician_id,omitempty" json:"prcs_director_physician_id,omitempty"`

	Physicians []Physician `yaml:"physicians" json:"physicians"`
}

// Field returns a pointer to the projected value named by f
func (fy *FutureYear) Field(f Field) (*ProjectedValue, error) {
	switch f {
	case FieldTherapyIncome:
		return &fy.TherapyIncome, nil
	case FieldNonEmploymentCosts:
		return &fy.NonEmploymentCosts, nil
	case FieldNonMDEmploymentCosts:
		return &fy.NonMDEmploymentCosts, nil
	case FieldMiscEmploymentCosts:
		return &fy.MiscEmploymentCosts, nil
	case FieldLocumCosts:
		return &fy.LocumCosts, nil
	case FieldMedicalDirectorHours:
		return &fy.MedicalDirectorHours, nil
	case FieldPRCSMedicalDirectorHours:
		return &fy.PRCSMedicalDirectorHours, nil
	case FieldConsultingServicesAgreement:
		return &fy.ConsultingServicesAgreement, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Value returns the stored value of f (zero for unknown fields)
func (fy FutureYear) Value(f Field) decimal.Decimal {
	pv, err := fy.Field(f)
	if err != nil {
		return decimal.Zero
	}
	return pv.Value
}

// Clone returns a deep copy of the year
func (fy FutureYear) Clone() FutureYear {
	out := fy
	if fy.PRCSDirectorPhysicianID != nil {
		id := *fy.PRCSDirectorPhysicianID
		out.PRCSDirectorPhysicianID = &id
	}
	out.Physicians = CloneRoster(fy.Physicians)
	return out
}

// CloneYears deep-copies a slice of future years
func CloneYears(years []FutureYear) []FutureYear {
	if years == nil {
		return nil
	}
	out := make([]FutureYear, len(years))
	for i, fy := range years {
		out[i] = fy.Clone()
	}
	return out
}

// Baseline supplies the "previous year" values for the first projected year
type Baseline struct {
	Year                 int             `yaml:"year" json:"year"`
	TherapyIncome        decimal.Decimal `yaml:"therapy_income" json:"therapy_income"`
	NonEmploymentCosts   decimal.Decimal `yaml:"non_employment_costs" json:"non_employment_costs"`
	NonMDEmploymentCosts decimal.Decimal `yaml:"non_md_employment_costs" json:"non_md_employment_costs"`
	MiscEmploymentCosts  decimal.Decimal `yaml:"misc_employment_costs" json:"misc_employment_costs"`
}

// Value returns the baseline amount for a growth field
func (b Baseline) Value(f Field) (decimal.Decimal, error) {
	switch f {
	case FieldTherapyIncome:
		return b.TherapyIncome, nil
	case FieldNonEmploymentCosts:
		return b.NonEmploymentCosts, nil
	case FieldNonMDEmploymentCosts:
		return b.NonMDEmploymentCosts, nil
	case FieldMiscEmploymentCosts:
		return b.MiscEmploymentCosts, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q has no baseline", ErrUnknownField, f)
}

// Projection is a scenario's assumption set. Growth values are percentages
// (5 means 5%); fixed amounts are optional dollar overrides where nil means
// "use the configured default".
type Projection struct {
	IncomeGrowthPct               decimal.Decimal  `yaml:"income_growth_pct" json:"income_growth_pct"`
	NonEmploymentCostsGrowthPct   decimal.Decimal  `yaml:"non_employment_costs_growth_pct" json:"non_employment_costs_growth_pct"`
	NonMDEmploymentCostsGrowthPct decimal.Decimal  `yaml:"non_md_employment_costs_growth_pct" json:"non_md_employment_costs_growth_pct"`
	MiscEmploymentCostsGrowthPct  decimal.Decimal  `yaml:"misc_employment_costs_growth_pct" json:"misc_employment_costs_growth_pct"`
	MedicalDirectorHours          *decimal.Decimal `yaml:"medical_director_hours,omitempty" json:"medical_director_hours,omitempty"`
	PRCSMedicalDirectorHours      *decimal.Decimal `yaml:"prcs_medical_director_hours,omitempty" json:"prcs_medical_director_hours,omitempty"`
	ConsultingServicesAgreement   *decimal.Decimal `yaml:"consulting_services_agreement,omitempty" json:"consulting_services_agreement,omitempty"`
	LocumCosts                    *decimal.Decimal `yaml:"locum_costs,omitempty" json:"locum_costs,omitempty"`
}

// GrowthPct returns the growth percentage for a growth field
func (p Projection) GrowthPct(f Field) (decimal.Decimal, error) {
	switch f {
	case FieldTherapyIncome:
		return p.IncomeGrowthPct, nil
	case FieldNonEmploymentCosts:
		return p.NonEmploymentCostsGrowthPct, nil
	case FieldNonMDEmploymentCosts:
		return p.NonMDEmploymentCostsGrowthPct, nil
	case FieldMiscEmploymentCosts:
		return p.MiscEmploymentCostsGrowthPct, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q has no growth rate", ErrUnknownField, f)
}

// SetGrowth sets the growth percentage for a growth field
func (p *Projection) SetGrowth(f Field, pct decimal.Decimal) error {
	switch f {
	case FieldTherapyIncome:
		p.IncomeGrowthPct = pct
	case FieldNonEmploymentCosts:
		p.NonEmploymentCostsGrowthPct = pct
	case FieldNonMDEmploymentCosts:
		p.NonMDEmploymentCostsGrowthPct = pct
	case FieldMiscEmploymentCosts:
		p.MiscEmploymentCostsGrowthPct = pct
	default:
		return fmt.Errorf("%w: %q has no growth rate", ErrUnknownField, f)
	}
	return nil
}

func (p *Projection) fixedSlot(f Field) (**decimal.Decimal, error) {
	switch f {
	case FieldMedicalDirectorHours:
		return &p.MedicalDirectorHours, nil
	case FieldPRCSMedicalDirectorHours:
		return &p.PRCSMedicalDirectorHours, nil
	case FieldConsultingServicesAgreement:
		return &p.ConsultingServicesAgreement, nil
	case FieldLocumCosts:
		return &p.LocumCosts, nil
	}
	return nil, fmt.Errorf("%w: %q is not a fixed amount", ErrUnknownField, f)
}

// Fixed returns the explicit amount for a fixed field, or nil when unset
func (p Projection) Fixed(f Field) (*decimal.Decimal, error) {
	slot, err := p.fixedSlot(f)
	if err != nil {
		return nil, err
	}
	return *slot, nil
}

// SetFixed sets an explicit dollar amount for a fixed field
func (p *Projection) SetFixed(f Field, amount decimal.Decimal) error {
	slot, err := p.fixedSlot(f)
	if err != nil {
		return err
	}
	*slot = &amount
	return nil
}

// ClearFixed drops the explicit amount so the configured default applies
func (p *Projection) ClearFixed(f Field) error {
	slot, err := p.fixedSlot(f)
	if err != nil {
		return err
	}
	*slot = nil
	return nil
}

// DataMode selects which source feeds the first projected year: a recorded
// year ("2025") or the scenario's custom baseline ("custom").
type DataMode string

const DataModeCustom DataMode = "custom"

// Year returns the recorded year a DataMode names, if any
func (m DataMode) Year() (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(string(m)))
	if err != nil {
		return 0, false
	}
	return y, true
}

// Scenario bundles one independent set of projections and assumptions.
// Roster seeds every projected year when FutureYears is empty.
type Scenario struct {
	Name            string       `yaml:"name" json:"name"`
	DataMode        DataMode     `yaml:"data_mode" json:"data_mode"`
	CustomBaseline  *Baseline    `yaml:"custom_baseline,omitempty" json:"custom_baseline,omitempty"`
	Projection      Projection   `yaml:"projection" json:"projection"`
	ProjectionYears int          `yaml:"projection_years" json:"projection_years"`
	Roster          []Physician  `yaml:"roster,omitempty" json:"roster,omitempty"`
	FutureYears     []FutureYear `yaml:"future_years,omitempty" json:"future_years,omitempty"`
}

// Clone deep-copies the scenario so callers can mutate it independently
func (s Scenario) Clone() Scenario {
	out := s
	if s.CustomBaseline != nil {
		b := *s.CustomBaseline
		out.CustomBaseline = &b
	}
	out.Projection = s.Projection.clone()
	out.Roster = CloneRoster(s.Roster)
	out.FutureYears = CloneYears(s.FutureYears)
	return out
}

func (p Projection) clone() Projection {
	out := p
	for _, f := range FixedFields {
		if v, _ := p.Fixed(f); v != nil {
			_ = out.SetFixed(f, *v)
		}
	}
	return out
}

// Configuration represents the complete input configuration
type Configuration struct {
	Practice    string        `yaml:"practice" json:"practice"`
	Rules       PracticeRules `yaml:"rules" json:"rules"`
	History     []YearRow     `yaml:"history" json:"history"`
	HistoryFile string        `yaml:"history_file,omitempty" json:"history_file,omitempty"`
	Scenarios   []Scenario    `yaml:"scenarios" json:"scenarios"`
}

// FindScenario returns the scenario with the given name (case-insensitive)
func (c *Configuration) FindScenario(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if strings.EqualFold(c.Scenarios[i].Name, name) {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}
