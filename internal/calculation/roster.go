package calculation

import (
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/pkg/dateutil"
	money "github.com/practicecomp/compensation-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

// Portions are the effective, complementary fractions of the year a person
// is paid as an employee and as a partner.
type Portions struct {
	Employee decimal.Decimal
	Partner  decimal.Decimal
}

// ResolvedPhysician is a roster entry with its effective portions
type ResolvedPhysician struct {
	domain.Physician
	Portions Portions
}

// ResolvePortions derives the effective employee/partner portions for one
// physician. It is total over the six variants and has no side effects.
func ResolvePortions(p domain.Physician) (Portions, error) {
	switch e := p.Employment.(type) {
	case domain.Partner:
		return Portions{Employee: zero, Partner: one}, nil
	case domain.Employee:
		return Portions{Employee: one, Partner: zero}, nil
	case domain.NewEmployee:
		if err := checkPortion(p.ID, "start_portion_of_year", e.StartPortionOfYear); err != nil {
			return Portions{}, err
		}
		return Portions{Employee: one.Sub(e.StartPortionOfYear), Partner: zero}, nil
	case domain.EmployeeToTerminate:
		if err := checkPortion(p.ID, "terminate_portion_of_year", e.TerminatePortionOfYear); err != nil {
			return Portions{}, err
		}
		return Portions{Employee: e.TerminatePortionOfYear, Partner: zero}, nil
	case domain.EmployeeToPartner:
		if err := checkPortion(p.ID, "employee_portion_of_year", e.EmployeePortionOfYear); err != nil {
			return Portions{}, err
		}
		return Portions{Employee: e.EmployeePortionOfYear, Partner: one.Sub(e.EmployeePortionOfYear)}, nil
	case domain.PartnerToRetire:
		if err := checkPortion(p.ID, "partner_portion_of_year", e.PartnerPortionOfYear); err != nil {
			return Portions{}, err
		}
		return Portions{Employee: zero, Partner: e.PartnerPortionOfYear}, nil
	case nil:
		return Portions{}, fmt.Errorf("physician %q: %w: no employment variant", p.ID, domain.ErrUnknownPhysicianType)
	default:
		return Portions{}, fmt.Errorf("physician %q: %w: %T", p.ID, domain.ErrUnknownPhysicianType, e)
	}
}

func checkPortion(id, field string, v decimal.Decimal) error {
	if v.LessThan(zero) || v.GreaterThan(one) {
		return &domain.PortionError{PhysicianID: id, Field: field, Value: v}
	}
	return nil
}

// ResolveRoster resolves every entry, failing on the first invalid one
func ResolveRoster(roster []domain.Physician) ([]ResolvedPhysician, error) {
	out := make([]ResolvedPhysician, 0, len(roster))
	for _, p := range roster {
		portions, err := ResolvePortions(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedPhysician{Physician: p, Portions: portions})
	}
	return out, nil
}

// TotalPartnerPortion sums effective partner portions. Vacation is not considered.
func TotalPartnerPortion(resolved []ResolvedPhysician) decimal.Decimal {
	total := zero
	for _, r := range resolved {
		total = total.Add(r.Portions.Partner)
	}
	return total
}

// ActivePartners returns the entries with a positive partner portion
func ActivePartners(resolved []ResolvedPhysician) []ResolvedPhysician {
	var out []ResolvedPhysician
	for _, r := range resolved {
		if r.Portions.Partner.IsPositive() {
			out = append(out, r)
		}
	}
	return out
}

// transitionPortion returns the portion marking the end of the first segment
// of a transitional variant (last day employed, last day as employee, last
// day as partner). Whole-year variants have no transition.
func transitionPortion(p domain.Physician) (decimal.Decimal, bool) {
	switch e := p.Employment.(type) {
	case domain.NewEmployee:
		return e.StartPortionOfYear, true
	case domain.EmployeeToTerminate:
		return e.TerminatePortionOfYear, true
	case domain.EmployeeToPartner:
		return e.EmployeePortionOfYear, true
	case domain.PartnerToRetire:
		return e.PartnerPortionOfYear, true
	}
	return zero, false
}

// TransitionDay returns the day-of-year ordinal of the last day of the first
// segment. Day 0 means the transition happened before the year began.
func TransitionDay(p domain.Physician, year int) (int, bool) {
	portion, ok := transitionPortion(p)
	if !ok {
		return 0, false
	}
	return dateutil.DayFromPortion(portion, year), true
}

// TransitionDate is TransitionDay as a calendar date
func TransitionDate(p domain.Physician, year int) (dateutil.CalendarDate, bool) {
	day, ok := TransitionDay(p, year)
	if !ok {
		return dateutil.CalendarDate{}, false
	}
	return dateutil.DateFromDayOfYear(day, year), true
}

// RetirementDay returns the last day as partner for a partnerToRetire entry.
// A partner portion of 0 yields day 0: retired before the year began, which
// is distinct from retiring on day 1.
func RetirementDay(p domain.Physician, year int) (int, error) {
	e, ok := p.Employment.(domain.PartnerToRetire)
	if !ok {
		return 0, fmt.Errorf("physician %q is %q, not %q", p.ID, p.Type(), domain.TypePartnerToRetire)
	}
	if err := checkPortion(p.ID, "partner_portion_of_year", e.PartnerPortionOfYear); err != nil {
		return 0, err
	}
	return dateutil.DayFromPortion(e.PartnerPortionOfYear, year), nil
}

// RostersEquivalent compares two rosters on their resolved portions and
// financial fields, using tolerances instead of exact equality. It is the
// basis for dirty checks against a loaded snapshot.
func RostersEquivalent(a, b []domain.Physician) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !physiciansEquivalent(a[i], b[i]) {
			return false
		}
	}
	return true
}

func physiciansEquivalent(a, b domain.Physician) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Type() != b.Type() {
		return false
	}
	pa, errA := ResolvePortions(a)
	pb, errB := ResolvePortions(b)
	if errA != nil || errB != nil {
		return false
	}
	if !money.WithinTolerance(pa.Employee, pb.Employee, money.PortionTolerance) ||
		!money.WithinTolerance(pa.Partner, pb.Partner, money.PortionTolerance) {
		return false
	}
	if a.ReceivesBenefits != b.ReceivesBenefits || a.ReceivesBonuses != b.ReceivesBonuses ||
		a.HasMedicalDirectorHours != b.HasMedicalDirectorHours || a.WeeksVacation != b.WeeksVacation {
		return false
	}
	if !money.WithinTolerance(a.Salary, b.Salary, money.MoneyTolerance) ||
		!money.WithinTolerance(a.BonusAmount, b.BonusAmount, money.MoneyTolerance) ||
		!money.WithinTolerance(a.MedicalDirectorHoursPercentage, b.MedicalDirectorHoursPercentage, money.PercentTolerance) {
		return false
	}
	ra, aRetire := a.Employment.(domain.PartnerToRetire)
	rb, _ := b.Employment.(domain.PartnerToRetire)
	if aRetire {
		if !money.WithinTolerance(ra.BuyoutCost, rb.BuyoutCost, money.MoneyTolerance) ||
			!money.WithinTolerance(ra.TrailingSharedMDAmount, rb.TrailingSharedMDAmount, money.MoneyTolerance) {
			return false
		}
	}
	return true
}
