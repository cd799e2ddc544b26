package output

import (
	"bytes"
	"encoding/csv"

	"github.com/practicecomp/compensation-engine/internal/domain"
)

// CSVDetailedExporter provides per-physician detail for every scenario and year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.PracticeReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(detailHeader); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		for _, yr := range sc.Years {
			for _, p := range yr.Compensation.People {
				if err := w.Write(detailRow(sc.Name, yr.Compensation.Year, p)); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

var detailHeader = []string{"Scenario", "Year", "PhysicianID", "Name", "Type", "EmployeePortion", "PartnerPortion", "PartnerWeight", "BaseShare", "MDSharePercent", "MDShare", "PRCSShare", "W2Wages", "W2Method", "PayrollTaxes", "Benefits", "Bonus", "Buyout", "TrailingSharedMD", "PartnerCompensation", "TotalDisclosed", "IsPartner"}

func detailRow(scenario string, year int, p domain.PersonCompensation) []string {
	return []string{
		scenario,
		intToString(year),
		p.PhysicianID,
		p.Name,
		string(p.Type),
		p.EmployeePortion.StringFixed(4),
		p.PartnerPortion.StringFixed(4),
		p.PartnerWeight.StringFixed(6),
		p.BaseShare.StringFixed(2),
		p.MDSharePercent.StringFixed(4),
		p.MDShare.StringFixed(2),
		p.PRCSShare.StringFixed(2),
		p.W2Wages.StringFixed(2),
		string(p.W2Method),
		p.PayrollTaxes.Total.StringFixed(2),
		p.Benefits.StringFixed(2),
		p.Bonus.StringFixed(2),
		p.Buyout.StringFixed(2),
		p.TrailingSharedMD.StringFixed(2),
		p.PartnerCompensation.StringFixed(2),
		p.TotalDisclosed.StringFixed(2),
		boolToString(p.IsPartnerInYear()),
	}
}
