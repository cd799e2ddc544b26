package output

import (
	"github.com/practicecomp/compensation-engine/internal/domain"
)

// DefaultAssumptions lists the built-in rules, rendered when a report carries none.
var DefaultAssumptions = domain.DefaultPracticeRules().GenerateAssumptions()

func assumptionsFor(report *domain.PracticeReport) []string {
	if len(report.Assumptions) == 0 {
		return DefaultAssumptions
	}
	return report.Assumptions
}
