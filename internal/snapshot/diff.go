package snapshot

import (
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/domain"
	money "github.com/practicecomp/compensation-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Change describes one difference between a saved and a current configuration
type Change struct {
	Scenario string
	Year     int // 0 when the change is not tied to a projected year
	What     string
}

func (c Change) String() string {
	if c.Year != 0 {
		return fmt.Sprintf("%s %d: %s", c.Scenario, c.Year, c.What)
	}
	if c.Scenario != "" {
		return fmt.Sprintf("%s: %s", c.Scenario, c.What)
	}
	return c.What
}

// Dirty lists what changed between a loaded snapshot and the current
// configuration. Money drifts under a dollar and percentage drifts under a
// hundredth of a point are not changes.
func Dirty(saved, current *domain.Configuration) []Change {
	var changes []Change
	if saved.Practice != current.Practice {
		changes = append(changes, Change{What: "practice name"})
	}
	if len(saved.History) != len(current.History) {
		changes = append(changes, Change{What: "history rows"})
	}

	for _, cs := range current.Scenarios {
		ss, ok := saved.FindScenario(cs.Name)
		if !ok {
			changes = append(changes, Change{Scenario: cs.Name, What: "added"})
			continue
		}
		changes = append(changes, scenarioChanges(*ss, cs)...)
	}
	for _, ss := range saved.Scenarios {
		if _, ok := current.FindScenario(ss.Name); !ok {
			changes = append(changes, Change{Scenario: ss.Name, What: "removed"})
		}
	}
	return changes
}

// IsDirty reports whether Dirty finds anything
func IsDirty(saved, current *domain.Configuration) bool {
	return len(Dirty(saved, current)) > 0
}

func scenarioChanges(a, b domain.Scenario) []Change {
	var changes []Change
	add := func(year int, format string, args ...any) {
		changes = append(changes, Change{Scenario: b.Name, Year: year, What: fmt.Sprintf(format, args...)})
	}

	if a.DataMode != b.DataMode {
		add(0, "data mode %s -> %s", a.DataMode, b.DataMode)
	}
	for _, f := range domain.GrowthFields {
		pa, _ := a.Projection.GrowthPct(f)
		pb, _ := b.Projection.GrowthPct(f)
		if !money.WithinTolerance(pa, pb, money.PercentTolerance) {
			add(0, "%s growth %s%% -> %s%%", f, pa.String(), pb.String())
		}
	}
	for _, f := range domain.FixedFields {
		fa, _ := a.Projection.Fixed(f)
		fb, _ := b.Projection.Fixed(f)
		if !optionalEquivalent(fa, fb) {
			add(0, "%s assumption", f)
		}
	}
	if !calculation.RostersEquivalent(a.Roster, b.Roster) {
		add(0, "roster")
	}

	if len(a.FutureYears) != len(b.FutureYears) {
		add(0, "projected years %d -> %d", len(a.FutureYears), len(b.FutureYears))
		return changes
	}
	for i := range b.FutureYears {
		ya, yb := a.FutureYears[i], b.FutureYears[i]
		if ya.Year != yb.Year {
			add(yb.Year, "year was %d", ya.Year)
			continue
		}
		for _, f := range domain.AllFields {
			va, vb := ya.Value(f), yb.Value(f)
			if !money.WithinTolerance(va, vb, money.MoneyTolerance) {
				add(yb.Year, "%s %s -> %s", f, va.StringFixed(2), vb.StringFixed(2))
			}
		}
		if !sameDesignation(ya.PRCSDirectorPhysicianID, yb.PRCSDirectorPhysicianID) {
			add(yb.Year, "PRCS director designation")
		}
		if !calculation.RostersEquivalent(ya.Physicians, yb.Physicians) {
			add(yb.Year, "physicians")
		}
	}
	return changes
}

func optionalEquivalent(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return money.WithinTolerance(*a, *b, money.MoneyTolerance)
}

func sameDesignation(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CompareReports lists every computed figure that differs between two
// reports. Figures must match exactly.
func CompareReports(a, b *domain.PracticeReport) []string {
	var diffs []string
	if len(a.Scenarios) != len(b.Scenarios) {
		return []string{fmt.Sprintf("scenario count %d != %d", len(a.Scenarios), len(b.Scenarios))}
	}
	for i := range a.Scenarios {
		sa, sb := a.Scenarios[i], b.Scenarios[i]
		if len(sa.Years) != len(sb.Years) {
			diffs = append(diffs, fmt.Sprintf("%s: year count %d != %d", sa.Name, len(sa.Years), len(sb.Years)))
			continue
		}
		for j := range sa.Years {
			diffs = append(diffs, yearDiffs(sa.Name, sa.Years[j].Compensation, sb.Years[j].Compensation)...)
		}
	}
	return diffs
}

func yearDiffs(scenario string, a, b domain.YearCompensation) []string {
	var diffs []string
	check := func(label string, x, y decimal.Decimal) {
		if !x.Equal(y) {
			diffs = append(diffs, fmt.Sprintf("%s %d %s: %s != %s", scenario, a.Year, label, x.String(), y.String()))
		}
	}

	if a.Year != b.Year {
		return []string{fmt.Sprintf("%s: year %d != %d", scenario, a.Year, b.Year)}
	}
	check("gross income", a.GrossIncome, b.GrossIncome)
	check("employee costs", a.EmployeeCosts, b.EmployeeCosts)
	check("net partner pool", a.NetPartnerPool, b.NetPartnerPool)
	check("allocable pool", a.AllocablePool, b.AllocablePool)
	if a.PRCSDirectorID != b.PRCSDirectorID {
		diffs = append(diffs, fmt.Sprintf("%s %d PRCS director: %q != %q", scenario, a.Year, a.PRCSDirectorID, b.PRCSDirectorID))
	}
	if len(a.People) != len(b.People) {
		return append(diffs, fmt.Sprintf("%s %d: people %d != %d", scenario, a.Year, len(a.People), len(b.People)))
	}
	for k := range a.People {
		pa, pb := a.People[k], b.People[k]
		check(pa.PhysicianID+" partner compensation", pa.PartnerCompensation, pb.PartnerCompensation)
		check(pa.PhysicianID+" W-2", pa.W2Wages, pb.W2Wages)
		check(pa.PhysicianID+" payroll taxes", pa.PayrollTaxes.Total, pb.PayrollTaxes.Total)
		check(pa.PhysicianID+" total disclosed", pa.TotalDisclosed, pb.TotalDisclosed)
	}
	return diffs
}
