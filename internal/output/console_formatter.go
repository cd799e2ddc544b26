package output

import (
	"bytes"
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.PracticeReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PRACTICE COMPENSATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if report.Practice != "" {
		fmt.Fprintf(&buf, "Practice: %s\n", report.Practice)
	}
	fmt.Fprintln(&buf)
	for _, sc := range report.Scenarios {
		fmt.Fprintf(&buf, "%s (baseline %d):\n", sc.Name, sc.Baseline.Year)
		for _, y := range sc.Years {
			yc := y.Compensation
			fmt.Fprintf(&buf, "  %d: Gross=%s NetPool=%s Partners=%s\n",
				yc.Year,
				FormatCurrency(yc.GrossIncome),
				FormatCurrency(yc.NetPartnerPool),
				yc.TotalPartnerPortion.StringFixed(2),
			)
		}
		fmt.Fprintf(&buf, "  Total net pool: %s\n", FormatCurrency(TotalNetPool(sc)))
	}
	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" && len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.NetPoolChange), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}
