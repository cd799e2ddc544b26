package domain

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PhysicianType names one of the six employment variants on the wire
type PhysicianType string

const (
	TypePartner             PhysicianType = "partner"
	TypeEmployee            PhysicianType = "employee"
	TypeNewEmployee         PhysicianType = "newEmployee"
	TypeEmployeeToTerminate PhysicianType = "employeeToTerminate"
	TypeEmployeeToPartner   PhysicianType = "employeeToPartner"
	TypePartnerToRetire     PhysicianType = "partnerToRetire"
)

// PhysicianTypes lists every known variant in display order
var PhysicianTypes = []PhysicianType{
	TypePartner,
	TypeEmployee,
	TypeNewEmployee,
	TypeEmployeeToTerminate,
	TypeEmployeeToPartner,
	TypePartnerToRetire,
}

// DefaultTransitionPortion is used when a transitional variant arrives
// without its timing field: unspecified means mid-year.
var DefaultTransitionPortion = decimal.NewFromFloat(0.5)

// Employment is the closed set of employment variants. Each variant carries
// only the timing fields that apply to it.
type Employment interface {
	Type() PhysicianType
	isEmployment()
}

// Partner is a profit-sharing partner for the whole year
type Partner struct{}

// Employee is a W-2 employee for the whole year
type Employee struct{}

// NewEmployee starts partway through the year
type NewEmployee struct {
	StartPortionOfYear decimal.Decimal
}

// EmployeeToTerminate leaves partway through the year
type EmployeeToTerminate struct {
	TerminatePortionOfYear decimal.Decimal
}

// EmployeeToPartner converts from employee to partner partway through the year
type EmployeeToPartner struct {
	EmployeePortionOfYear decimal.Decimal
}

// PartnerToRetire retires partway through the year. A PartnerPortionOfYear
// of zero means the partner retired before the year began.
type PartnerToRetire struct {
	PartnerPortionOfYear   decimal.Decimal
	BuyoutCost             decimal.Decimal
	TrailingSharedMDAmount decimal.Decimal
}

func (Partner) Type() PhysicianType             { return TypePartner }
func (Employee) Type() PhysicianType            { return TypeEmployee }
func (NewEmployee) Type() PhysicianType         { return TypeNewEmployee }
func (EmployeeToTerminate) Type() PhysicianType { return TypeEmployeeToTerminate }
func (EmployeeToPartner) Type() PhysicianType   { return TypeEmployeeToPartner }
func (PartnerToRetire) Type() PhysicianType     { return TypePartnerToRetire }

func (Partner) isEmployment()             {}
func (Employee) isEmployment()            {}
func (NewEmployee) isEmployment()         {}
func (EmployeeToTerminate) isEmployment() {}
func (EmployeeToPartner) isEmployment()   {}
func (PartnerToRetire) isEmployment()     {}

// Physician is a single roster entry
type Physician struct {
	ID                             string
	Name                           string
	Employment                     Employment
	Salary                         decimal.Decimal // annualized W-2 rate
	WeeksVacation                  int             // display only
	ReceivesBenefits               bool
	ReceivesBonuses                bool
	BonusAmount                    decimal.Decimal
	HasMedicalDirectorHours        bool
	MedicalDirectorHoursPercentage decimal.Decimal // 0-100
	Tags                           []string
}

// Type returns the variant tag, or "" when no employment is set.
func (p Physician) Type() PhysicianType {
	if p.Employment == nil {
		return ""
	}
	return p.Employment.Type()
}

// Clone returns a copy that shares no slices with p.
func (p Physician) Clone() Physician {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}

// CloneRoster deep-copies a roster.
func CloneRoster(roster []Physician) []Physician {
	if roster == nil {
		return nil
	}
	out := make([]Physician, len(roster))
	for i, p := range roster {
		out[i] = p.Clone()
	}
	return out
}

// physicianRecord is the flat wire shape shared by YAML and JSON.
type physicianRecord struct {
	ID                             string           `yaml:"id" json:"id"`
	Name                           string           `yaml:"name" json:"name"`
	Type                           PhysicianType    `yaml:"type" json:"type"`
	Salary                         decimal.Decimal  `yaml:"salary" json:"salary"`
	WeeksVacation                  int              `yaml:"weeks_vacation" json:"weeks_vacation"`
	EmployeePortionOfYear          *decimal.Decimal `yaml:"employee_portion_of_year,omitempty" json:"employee_portion_of_year,omitempty"`
	PartnerPortionOfYear           *decimal.Decimal `yaml:"partner_portion_of_year,omitempty" json:"partner_portion_of_year,omitempty"`
	StartPortionOfYear             *decimal.Decimal `yaml:"start_portion_of_year,omitempty" json:"start_portion_of_year,omitempty"`
	TerminatePortionOfYear         *decimal.Decimal `yaml:"terminate_portion_of_year,omitempty" json:"terminate_portion_of_year,omitempty"`
	ReceivesBenefits               bool             `yaml:"receives_benefits" json:"receives_benefits"`
	ReceivesBonuses                bool             `yaml:"receives_bonuses" json:"receives_bonuses"`
	BonusAmount                    decimal.Decimal  `yaml:"bonus_amount" json:"bonus_amount"`
	HasMedicalDirectorHours        bool             `yaml:"has_medical_director_hours" json:"has_medical_director_hours"`
	MedicalDirectorHoursPercentage decimal.Decimal  `yaml:"medical_director_hours_percentage" json:"medical_director_hours_percentage"`
	BuyoutCost                     *decimal.Decimal `yaml:"buyout_cost,omitempty" json:"buyout_cost,omitempty"`
	TrailingSharedMDAmount         *decimal.Decimal `yaml:"trailing_shared_md_amount,omitempty" json:"trailing_shared_md_amount,omitempty"`
	Tags                           []string         `yaml:"tags,omitempty" json:"tags,omitempty"`
}

func (p Physician) record() physicianRecord {
	rec := physicianRecord{
		ID:                             p.ID,
		Name:                           p.Name,
		Type:                           p.Type(),
		Salary:                         p.Salary,
		WeeksVacation:                  p.WeeksVacation,
		ReceivesBenefits:               p.ReceivesBenefits,
		ReceivesBonuses:                p.ReceivesBonuses,
		BonusAmount:                    p.BonusAmount,
		HasMedicalDirectorHours:        p.HasMedicalDirectorHours,
		MedicalDirectorHoursPercentage: p.MedicalDirectorHoursPercentage,
		Tags:                           p.Tags,
	}
	switch e := p.Employment.(type) {
	case NewEmployee:
		rec.StartPortionOfYear = decimalPtr(e.StartPortionOfYear)
	case EmployeeToTerminate:
		rec.TerminatePortionOfYear = decimalPtr(e.TerminatePortionOfYear)
	case EmployeeToPartner:
		rec.EmployeePortionOfYear = decimalPtr(e.EmployeePortionOfYear)
	case PartnerToRetire:
		rec.PartnerPortionOfYear = decimalPtr(e.PartnerPortionOfYear)
		rec.BuyoutCost = decimalPtr(e.BuyoutCost)
		rec.TrailingSharedMDAmount = decimalPtr(e.TrailingSharedMDAmount)
	}
	return rec
}

func (rec physicianRecord) physician() (Physician, error) {
	p := Physician{
		ID:                             rec.ID,
		Name:                           rec.Name,
		Salary:                         rec.Salary,
		WeeksVacation:                  rec.WeeksVacation,
		ReceivesBenefits:               rec.ReceivesBenefits,
		ReceivesBonuses:                rec.ReceivesBonuses,
		BonusAmount:                    rec.BonusAmount,
		HasMedicalDirectorHours:        rec.HasMedicalDirectorHours,
		MedicalDirectorHoursPercentage: rec.MedicalDirectorHoursPercentage,
		Tags:                           rec.Tags,
	}
	switch rec.Type {
	case TypePartner:
		p.Employment = Partner{}
	case TypeEmployee:
		p.Employment = Employee{}
	case TypeNewEmployee:
		p.Employment = NewEmployee{StartPortionOfYear: orDefault(rec.StartPortionOfYear, DefaultTransitionPortion)}
	case TypeEmployeeToTerminate:
		p.Employment = EmployeeToTerminate{TerminatePortionOfYear: orDefault(rec.TerminatePortionOfYear, DefaultTransitionPortion)}
	case TypeEmployeeToPartner:
		p.Employment = EmployeeToPartner{EmployeePortionOfYear: orDefault(rec.EmployeePortionOfYear, DefaultTransitionPortion)}
	case TypePartnerToRetire:
		p.Employment = PartnerToRetire{
			PartnerPortionOfYear:   orDefault(rec.PartnerPortionOfYear, DefaultTransitionPortion),
			BuyoutCost:             orDefault(rec.BuyoutCost, decimal.Zero),
			TrailingSharedMDAmount: orDefault(rec.TrailingSharedMDAmount, decimal.Zero),
		}
	default:
		return Physician{}, fmt.Errorf("physician %q: %w: %q", rec.ID, ErrUnknownPhysicianType, rec.Type)
	}
	return p, nil
}

// MarshalYAML implements yaml.Marshaler with the flat wire shape
func (p Physician) MarshalYAML() (interface{}, error) {
	return p.record(), nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Physician
func (p *Physician) UnmarshalYAML(value *yaml.Node) error {
	var rec physicianRecord
	if err := value.Decode(&rec); err != nil {
		return err
	}
	decoded, err := rec.physician()
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// MarshalJSON implements json.Marshaler with the flat wire shape
func (p Physician) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.record())
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Physician) UnmarshalJSON(data []byte) error {
	var rec physicianRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	decoded, err := rec.physician()
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func orDefault(d *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if d == nil {
		return def
	}
	return *d
}
