package output

import (
	"sort"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	TotalNetPool     decimal.Decimal
	NetPoolChange    decimal.Decimal // against the first scenario
	PercentageChange decimal.Decimal
}

// TotalNetPool sums a scenario's net partner pool over its projected years.
func TotalNetPool(sr domain.ScenarioResult) decimal.Decimal {
	total := decimal.Zero
	for _, y := range sr.Years {
		total = total.Add(y.Compensation.NetPartnerPool)
	}
	return total
}

// AnalyzeScenarios picks the scenario with the largest cumulative net partner
// pool and measures it against the first scenario. Ties keep report order.
func AnalyzeScenarios(report *domain.PracticeReport) Recommendation {
	if len(report.Scenarios) == 0 {
		return Recommendation{}
	}
	type ranked struct {
		name  string
		total decimal.Decimal
	}
	ranks := make([]ranked, 0, len(report.Scenarios))
	for _, sc := range report.Scenarios {
		ranks = append(ranks, ranked{sc.Name, TotalNetPool(sc)})
	}
	reference := ranks[0].total
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].total.GreaterThan(ranks[j].total) })

	best := ranks[0]
	delta := best.total.Sub(reference)
	pct := decimal.Zero
	if !reference.IsZero() {
		pct = delta.Div(reference.Abs()).Mul(decimal.NewFromInt(100))
	}
	return Recommendation{ScenarioName: best.name, TotalNetPool: best.total, NetPoolChange: delta, PercentageChange: pct}
}
