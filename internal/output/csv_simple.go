package output

import (
	"bytes"
	"encoding/csv"

	"github.com/practicecomp/compensation-engine/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per scenario-year).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.PracticeReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Year", "TherapyIncome", "SharedMDPay", "PRCSPay", "ConsultingFee", "GrossIncome", "NonEmploymentCosts", "NonMDEmploymentCosts", "MiscEmploymentCosts", "LocumCosts", "EmployeeCosts", "PayrollTaxes", "BuyoutCosts", "NetPartnerPool", "TotalPartnerPortion"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		for _, yr := range sc.Years {
			yc := yr.Compensation
			row := []string{
				sc.Name,
				intToString(yc.Year),
				yc.TherapyIncome.StringFixed(2),
				yc.SharedMDPay.StringFixed(2),
				yc.PRCSPay.StringFixed(2),
				yc.ConsultingFee.StringFixed(2),
				yc.GrossIncome.StringFixed(2),
				yc.NonEmploymentCosts.StringFixed(2),
				yc.NonMDEmploymentCosts.StringFixed(2),
				yc.MiscEmploymentCosts.StringFixed(2),
				yc.LocumCosts.StringFixed(2),
				yc.EmployeeCosts.StringFixed(2),
				yc.PayrollTaxTotal.StringFixed(2),
				yc.BuyoutCosts.StringFixed(2),
				yc.NetPartnerPool.StringFixed(2),
				yc.TotalPartnerPortion.StringFixed(4),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
