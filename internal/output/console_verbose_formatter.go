package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the detailed per-year console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.PracticeReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "DETAILED PRACTICE COMPENSATION ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	if report.Practice != "" {
		fmt.Fprintf(&buf, "Practice: %s\n", report.Practice)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptionsFor(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, scenario := range report.Scenarios {
		title := fmt.Sprintf("SCENARIO %d: %s", i+1, scenario.Name)
		fmt.Fprintln(&buf, title)
		fmt.Fprintln(&buf, strings.Repeat("=", len(title)))
		fmt.Fprintf(&buf, "Data mode: %s (baseline year %d, therapy income %s)\n",
			scenario.DataMode, scenario.Baseline.Year, FormatCurrency(scenario.Baseline.TherapyIncome))
		fmt.Fprintln(&buf)

		for _, yr := range scenario.Years {
			writeYear(&buf, yr)
		}
		fmt.Fprintf(&buf, "Cumulative net partner pool: %s\n", FormatCurrency(TotalNetPool(scenario)))
		fmt.Fprintln(&buf)
	}

	if len(report.Comparison) > 0 && len(report.Scenarios) > 1 {
		writeComparison(&buf, report)
	}

	// Recommendation section using existing AnalyzeScenarios logic
	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" && len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf, "SUMMARY")
		fmt.Fprintln(&buf, "=======")
		fmt.Fprintf(&buf, "Largest cumulative pool: %s (%s)\n", rec.ScenarioName, FormatCurrency(rec.TotalNetPool))
		fmt.Fprintf(&buf, "Against %s: %s (%s)\n", report.Scenarios[0].Name, FormatSignedCurrency(rec.NetPoolChange), FormatPercentage(rec.PercentageChange))
	}

	return buf.Bytes(), nil
}

func writeYear(buf *bytes.Buffer, yr domain.YearResult) {
	yc := yr.Compensation
	fmt.Fprintf(buf, "YEAR %d\n", yc.Year)
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	fmt.Fprintln(buf, "PRACTICE INCOME:")
	amountLine(buf, "  Therapy Income", yc.TherapyIncome, yr.Overrides[domain.FieldTherapyIncome])
	amountLine(buf, "  Shared Medical Director", yc.SharedMDPay, yr.Overrides[domain.FieldMedicalDirectorHours])
	amountLine(buf, "  PRCS Medical Director", yc.PRCSPay, yr.Overrides[domain.FieldPRCSMedicalDirectorHours])
	amountLine(buf, "  Consulting Agreement", yc.ConsultingFee, yr.Overrides[domain.FieldConsultingServicesAgreement])
	amountLine(buf, "  GROSS INCOME", yc.GrossIncome, false)
	fmt.Fprintln(buf, "COSTS:")
	amountLine(buf, "  Non-Employment Costs", yc.NonEmploymentCosts, yr.Overrides[domain.FieldNonEmploymentCosts])
	amountLine(buf, "  Non-MD Employment Costs", yc.NonMDEmploymentCosts, yr.Overrides[domain.FieldNonMDEmploymentCosts])
	amountLine(buf, "  Misc Employment Costs", yc.MiscEmploymentCosts, yr.Overrides[domain.FieldMiscEmploymentCosts])
	amountLine(buf, "  Locum Costs", yc.LocumCosts, yr.Overrides[domain.FieldLocumCosts])
	amountLine(buf, "  Physician Employee Costs", yc.EmployeeCosts, false)
	amountLine(buf, "    of which payroll taxes", yc.PayrollTaxTotal, false)
	if !yc.BuyoutCosts.IsZero() {
		amountLine(buf, "  Buyouts", yc.BuyoutCosts, false)
	}
	amountLine(buf, "NET PARTNER POOL", yc.NetPartnerPool, false)
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-10s %-20s %8s %14s %12s %12s %14s %14s\n", "PHYSICIAN", "TYPE", "WEIGHT", "BASE SHARE", "MD", "PRCS", "W-2", "TOTAL")
	for _, p := range yc.People {
		name := p.Name
		if name == "" {
			name = p.PhysicianID
		}
		fmt.Fprintf(buf, "%-10s %-20s %8s %14s %12s %12s %14s %14s\n",
			truncateName(name, 10),
			p.Type,
			FormatPercentage(p.PartnerWeight.Mul(decimal.NewFromInt(100))),
			FormatCurrency(p.BaseShare),
			FormatCurrency(p.MDShare),
			FormatCurrency(p.PRCSShare),
			FormatCurrency(p.W2Wages),
			FormatCurrency(p.TotalDisclosed),
		)
	}
	if yc.PRCSDirectorID != "" {
		fmt.Fprintf(buf, "PRCS director: %s\n", yc.PRCSDirectorID)
	}
	fmt.Fprintln(buf)
}

func amountLine(buf *bytes.Buffer, label string, amount decimal.Decimal, overridden bool) {
	marker := ""
	if overridden {
		marker = " *"
	}
	fmt.Fprintf(buf, "%-35s %15s%s\n", label, FormatCurrency(amount), marker)
}

func writeComparison(buf *bytes.Buffer, report *domain.PracticeReport) {
	a, b := report.Scenarios[0].Name, report.Scenarios[1].Name
	fmt.Fprintln(buf, "SCENARIO COMPARISON")
	fmt.Fprintln(buf, "===================")
	fmt.Fprintf(buf, "%-6s %18s %18s %18s\n", "YEAR", truncateName(a, 18), truncateName(b, 18), "DIFFERENCE")
	fmt.Fprintln(buf, strings.Repeat("-", 63))
	for _, c := range report.Comparison {
		fmt.Fprintf(buf, "%-6d %18s %18s %18s\n", c.Year, FormatCurrency(c.NetPartnerPoolA), FormatCurrency(c.NetPartnerPoolB), FormatSignedCurrency(c.Delta))
	}
	fmt.Fprintln(buf)
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
