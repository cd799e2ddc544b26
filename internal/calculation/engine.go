package calculation

import (
	"context"
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/domain"
)

// DefaultProjectionYears is used when a scenario does not say how far to project
const DefaultProjectionYears = 5

// CompensationEngine orchestrates baseline selection, projection, MD hours
// allocation and compensation for whole scenarios. It holds no per-run state
// and is safe for concurrent use once configured.
type CompensationEngine struct {
	Debug  bool
	Logger Logger
}

// NewCompensationEngine creates a new engine with a no-op logger
func NewCompensationEngine() *CompensationEngine {
	return &CompensationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (ce *CompensationEngine) SetLogger(l Logger) {
	ce.Logger = loggerOrNop(l)
}

// ProjectScenario resolves a scenario's future years without computing
// compensation. Stored years keep their override flags; a scenario with no
// stored years gets fresh ones seeded from its roster.
func (ce *CompensationEngine) ProjectScenario(config *domain.Configuration, scenario *domain.Scenario) (domain.Baseline, []domain.FutureYear, error) {
	baseline, err := SelectBaseline(scenario.DataMode, config.History, scenario.CustomBaseline, config.Rules)
	if err != nil {
		return domain.Baseline{}, nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	projector := NewProjector(baseline, scenario.Projection, config.Rules)

	var years []domain.FutureYear
	if len(scenario.FutureYears) == 0 {
		count := scenario.ProjectionYears
		if count <= 0 {
			count = DefaultProjectionYears
		}
		years, err = projector.NewFutureYears(count, scenario.Roster)
	} else {
		years, err = projector.Project(scenario.FutureYears)
	}
	if err != nil {
		return domain.Baseline{}, nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	for i := range years {
		if len(years[i].Physicians) == 0 && len(scenario.Roster) > 0 {
			years[i].Physicians = domain.CloneRoster(scenario.Roster)
		}
	}
	return baseline, years, nil
}

// RunScenario calculates every projected year of one scenario
func (ce *CompensationEngine) RunScenario(ctx context.Context, config *domain.Configuration, scenario *domain.Scenario) (*domain.ScenarioResult, error) {
	baseline, years, err := ce.ProjectScenario(config, scenario)
	if err != nil {
		return nil, err
	}
	loggerOrNop(ce.Logger).Debugf("scenario %q: baseline %d, %d projected years", scenario.Name, baseline.Year, len(years))

	result := &domain.ScenarioResult{
		Name:     scenario.Name,
		DataMode: scenario.DataMode,
		Baseline: baseline,
		Years:    make([]domain.YearResult, 0, len(years)),
	}

	for _, fy := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		yr, err := ce.RunYear(fy, config.Rules)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		result.Years = append(result.Years, yr)
	}
	return result, nil
}

// RunYear computes one resolved year's compensation. MD hours shares stored
// on the roster are paid as given when they cover the partners; otherwise
// they are allocated by partner portion.
func (ce *CompensationEngine) RunYear(fy domain.FutureYear, rules domain.PracticeRules) (domain.YearResult, error) {
	allocated, reallocated, err := EnsureMedicalDirectorHours(fy.Physicians)
	if err != nil {
		return domain.YearResult{}, fmt.Errorf("year %d: %w", fy.Year, err)
	}
	fy = fy.Clone()
	fy.Physicians = allocated

	comp, err := CalculateYearCompensation(fy, rules)
	if err != nil {
		return domain.YearResult{}, err
	}

	logger := loggerOrNop(ce.Logger)
	if reallocated {
		logger.Debugf("year %d: MD hours allocated by partner portion", fy.Year)
	}
	if comp.TotalPartnerPortion.IsZero() {
		logger.Warnf("year %d: no partners, net pool %s is not distributed", fy.Year, comp.NetPartnerPool.StringFixed(2))
	}
	if comp.NetPartnerPool.IsNegative() {
		logger.Warnf("year %d: net partner pool is negative (%s)", fy.Year, comp.NetPartnerPool.StringFixed(2))
	}
	if ce.Debug {
		logger.Debugf("year %d: gross %s, employee costs %s, net pool %s, allocable %s",
			fy.Year, comp.GrossIncome.StringFixed(2), comp.EmployeeCosts.StringFixed(2),
			comp.NetPartnerPool.StringFixed(2), comp.AllocablePool.StringFixed(2))
	}

	return domain.YearResult{
		FutureYear:   fy,
		Overrides:    OverrideFlags(fy),
		Compensation: comp,
	}, nil
}

// RunScenarios runs all scenarios and compares the first two year by year
func (ce *CompensationEngine) RunScenarios(config *domain.Configuration) (*domain.PracticeReport, error) {
	results := make([]domain.ScenarioResult, len(config.Scenarios))
	ctx := context.Background()

	for i := range config.Scenarios {
		result, err := ce.RunScenario(ctx, config, &config.Scenarios[i])
		if err != nil {
			return nil, fmt.Errorf("RunScenario failed: %w", err)
		}
		results[i] = *result
	}

	report := &domain.PracticeReport{
		Practice:    config.Practice,
		Scenarios:   results,
		Assumptions: config.Rules.GenerateAssumptions(),
	}
	if len(results) >= 2 {
		report.Comparison = CompareScenarios(results[0], results[1])
	}
	return report, nil
}

// CompareScenarios lines up net partner pools for the years both scenarios project
func CompareScenarios(a, b domain.ScenarioResult) []domain.YearComparison {
	var out []domain.YearComparison
	for _, ya := range a.Years {
		yb, ok := b.Year(ya.FutureYear.Year)
		if !ok {
			continue
		}
		poolA := ya.Compensation.NetPartnerPool
		poolB := yb.Compensation.NetPartnerPool
		out = append(out, domain.YearComparison{
			Year:            ya.FutureYear.Year,
			NetPartnerPoolA: poolA,
			NetPartnerPoolB: poolB,
			Delta:           poolB.Sub(poolA),
		})
	}
	return out
}
