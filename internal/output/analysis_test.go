package output

import (
	"testing"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func scenarioWithPools(name string, pools ...int64) domain.ScenarioResult {
	sr := domain.ScenarioResult{Name: name}
	for i, p := range pools {
		sr.Years = append(sr.Years, domain.YearResult{Compensation: domain.YearCompensation{
			Year:           2025 + i,
			NetPartnerPool: decimal.NewFromInt(p),
		}})
	}
	return sr
}

func TestAnalyzeScenarios_SelectsLargestCumulativePool(t *testing.T) {
	report := &domain.PracticeReport{Scenarios: []domain.ScenarioResult{
		scenarioWithPools("Scenario A", 100000, 100000),
		scenarioWithPools("Scenario B", 90000, 130000),
		scenarioWithPools("Scenario C", 50000, 50000),
	}}

	rec := AnalyzeScenarios(report)
	assert.Equal(t, "Scenario B", rec.ScenarioName)
	assert.True(t, rec.TotalNetPool.Equal(decimal.NewFromInt(220000)))
	assert.True(t, rec.NetPoolChange.Equal(decimal.NewFromInt(20000)))
	assert.True(t, rec.PercentageChange.Equal(decimal.NewFromInt(10)))
}

func TestAnalyzeScenarios_TiesKeepReportOrder(t *testing.T) {
	report := &domain.PracticeReport{Scenarios: []domain.ScenarioResult{
		scenarioWithPools("First", 1),
		scenarioWithPools("Second", 1),
	}}
	assert.Equal(t, "First", AnalyzeScenarios(report).ScenarioName)
}

func TestAnalyzeScenarios_Empty(t *testing.T) {
	assert.Equal(t, Recommendation{}, AnalyzeScenarios(&domain.PracticeReport{}))

	rec := AnalyzeScenarios(&domain.PracticeReport{Scenarios: []domain.ScenarioResult{scenarioWithPools("Zero", 0)}})
	assert.Equal(t, "Zero", rec.ScenarioName)
	assert.True(t, rec.PercentageChange.IsZero())
}
