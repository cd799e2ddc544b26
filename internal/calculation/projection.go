package calculation

import (
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/domain"
	money "github.com/practicecomp/compensation-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Projector derives FutureYear values from a baseline and an assumption set.
// Every operation returns new slices; inputs are never modified.
type Projector struct {
	Baseline   domain.Baseline
	Projection domain.Projection
	Rules      domain.PracticeRules
}

// NewProjector creates a projector for one scenario
func NewProjector(baseline domain.Baseline, projection domain.Projection, rules domain.PracticeRules) *Projector {
	return &Projector{Baseline: baseline, Projection: projection, Rules: rules}
}

// NewFutureYears creates count consecutive years after the baseline year,
// every field derived, each seeded with a copy of roster.
func (pj *Projector) NewFutureYears(count int, roster []domain.Physician) ([]domain.FutureYear, error) {
	if count <= 0 {
		return nil, fmt.Errorf("projection years must be positive, got %d", count)
	}
	years := make([]domain.FutureYear, count)
	for i := range years {
		years[i] = domain.FutureYear{
			Year:       pj.Baseline.Year + i + 1,
			Physicians: domain.CloneRoster(roster),
		}
	}
	return pj.Project(years)
}

// derive returns the growth-implied value of f given the prior resolved value
func (pj *Projector) derive(f domain.Field, prev decimal.Decimal) (decimal.Decimal, error) {
	if !f.IsGrowth() {
		return prev, nil
	}
	pct, err := pj.Projection.GrowthPct(f)
	if err != nil {
		return decimal.Zero, err
	}
	return money.Compound(prev, pct, 1), nil
}

// seed returns the "year zero" value of every field: baseline amounts for
// growth fields, the projection's explicit amount or the configured default
// for fixed fields.
func (pj *Projector) seed() (map[domain.Field]decimal.Decimal, error) {
	prev := make(map[domain.Field]decimal.Decimal, len(domain.AllFields))
	for _, f := range domain.GrowthFields {
		v, err := pj.Baseline.Value(f)
		if err != nil {
			return nil, err
		}
		prev[f] = v
	}
	for _, f := range domain.FixedFields {
		fixed, err := pj.Projection.Fixed(f)
		if err != nil {
			return nil, err
		}
		if fixed != nil {
			prev[f] = *fixed
		} else {
			prev[f] = pj.Rules.Defaults.Value(f)
		}
	}
	return prev, nil
}

func checkAscending(years []domain.FutureYear) error {
	for i := 1; i < len(years); i++ {
		if years[i].Year <= years[i-1].Year {
			return fmt.Errorf("future years must be strictly ascending: %d follows %d", years[i].Year, years[i-1].Year)
		}
	}
	return nil
}

// Project recomputes every non-overridden field, in ascending year order, from
// the prior year's resolved value. Overridden fields keep their values and
// feed the following year.
func (pj *Projector) Project(years []domain.FutureYear) ([]domain.FutureYear, error) {
	if err := checkAscending(years); err != nil {
		return nil, err
	}
	prev, err := pj.seed()
	if err != nil {
		return nil, err
	}

	out := domain.CloneYears(years)
	for i := range out {
		fy := &out[i]
		for _, f := range domain.AllFields {
			pv, err := fy.Field(f)
			if err != nil {
				return nil, err
			}
			if !pv.Overridden {
				derived, err := pj.derive(f, prev[f])
				if err != nil {
					return nil, err
				}
				*pv = domain.Derived(derived)
			}
			prev[f] = pv.Value
		}
	}
	return out, nil
}

func yearIndex(years []domain.FutureYear, year int) (int, error) {
	for i := range years {
		if years[i].Year == year {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", domain.ErrYearNotProjected, year)
}

// SetOverride stores an explicit value for one field of one year and
// recomputes the years that derive from it.
func (pj *Projector) SetOverride(years []domain.FutureYear, year int, f domain.Field, value decimal.Decimal) ([]domain.FutureYear, error) {
	out := domain.CloneYears(years)
	idx, err := yearIndex(out, year)
	if err != nil {
		return nil, err
	}
	pv, err := out[idx].Field(f)
	if err != nil {
		return nil, err
	}
	*pv = domain.Override(value)
	return pj.Project(out)
}

// ResetField returns one field of one year to its growth-implied value
func (pj *Projector) ResetField(years []domain.FutureYear, year int, f domain.Field) ([]domain.FutureYear, error) {
	out := domain.CloneYears(years)
	idx, err := yearIndex(out, year)
	if err != nil {
		return nil, err
	}
	pv, err := out[idx].Field(f)
	if err != nil {
		return nil, err
	}
	pv.Overridden = false
	return pj.Project(out)
}

// ResetYear clears every override in one year
func (pj *Projector) ResetYear(years []domain.FutureYear, year int) ([]domain.FutureYear, error) {
	out := domain.CloneYears(years)
	idx, err := yearIndex(out, year)
	if err != nil {
		return nil, err
	}
	clearOverrides(&out[idx])
	return pj.Project(out)
}

// ResetAll clears every override in every year
func (pj *Projector) ResetAll(years []domain.FutureYear) ([]domain.FutureYear, error) {
	out := domain.CloneYears(years)
	for i := range out {
		clearOverrides(&out[i])
	}
	return pj.Project(out)
}

func clearOverrides(fy *domain.FutureYear) {
	for _, f := range domain.AllFields {
		if pv, err := fy.Field(f); err == nil {
			pv.Overridden = false
		}
	}
}

// DetectOverrides infers override flags for years whose flags were not
// recorded: a field is overridden when its stored value differs from the
// value implied by the previous year's stored value by more than the money
// tolerance. Stored values are kept as is.
func (pj *Projector) DetectOverrides(years []domain.FutureYear) ([]domain.FutureYear, error) {
	if err := checkAscending(years); err != nil {
		return nil, err
	}
	prev, err := pj.seed()
	if err != nil {
		return nil, err
	}

	out := domain.CloneYears(years)
	for i := range out {
		for _, f := range domain.AllFields {
			pv, err := out[i].Field(f)
			if err != nil {
				return nil, err
			}
			derived, err := pj.derive(f, prev[f])
			if err != nil {
				return nil, err
			}
			pv.Overridden = !money.WithinTolerance(pv.Value, derived, money.MoneyTolerance)
			prev[f] = pv.Value
		}
	}
	return out, nil
}

// OverrideFlags reports the override state of every field in a year
func OverrideFlags(fy domain.FutureYear) map[domain.Field]bool {
	flags := make(map[domain.Field]bool, len(domain.AllFields))
	for _, f := range domain.AllFields {
		if pv, err := fy.Field(f); err == nil {
			flags[f] = pv.Overridden
		}
	}
	return flags
}
