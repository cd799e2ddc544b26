package output

import (
	"bytes"
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXFormatter writes a workbook with a summary sheet, a per-physician
// detail sheet and, for two or more scenarios, a comparison sheet.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string      { return "xlsx" }
func (x XLSXFormatter) Extension() string { return "xlsx" }

const (
	summarySheet    = "Summary"
	detailSheet     = "Physicians"
	comparisonSheet = "Comparison"
	assumptionSheet = "Assumptions"
)

func (x XLSXFormatter) Format(report *domain.PracticeReport) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close happens explicitly on every path

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	summaryHeader := []string{"Scenario", "Year", "Therapy Income", "Shared MD", "PRCS MD", "Consulting", "Gross Income", "Non-Employment", "Non-MD Employment", "Misc Employment", "Locum", "Employee Costs", "Payroll Taxes", "Buyouts", "Net Partner Pool"}
	var summaryRows [][]any
	for _, sc := range report.Scenarios {
		for _, yr := range sc.Years {
			yc := yr.Compensation
			summaryRows = append(summaryRows, []any{
				sc.Name, yc.Year,
				yc.TherapyIncome.InexactFloat64(), yc.SharedMDPay.InexactFloat64(), yc.PRCSPay.InexactFloat64(),
				yc.ConsultingFee.InexactFloat64(), yc.GrossIncome.InexactFloat64(), yc.NonEmploymentCosts.InexactFloat64(),
				yc.NonMDEmploymentCosts.InexactFloat64(), yc.MiscEmploymentCosts.InexactFloat64(), yc.LocumCosts.InexactFloat64(),
				yc.EmployeeCosts.InexactFloat64(), yc.PayrollTaxTotal.InexactFloat64(), yc.BuyoutCosts.InexactFloat64(),
				yc.NetPartnerPool.InexactFloat64(),
			})
		}
	}

	detailHeaderRow := []string{"Scenario", "Year", "Physician", "Type", "Partner Portion", "Base Share", "MD Share", "PRCS Share", "W-2", "Payroll Taxes", "Benefits", "Bonus", "Buyout", "Partner Compensation", "Total Disclosed"}
	var detailRows [][]any
	for _, sc := range report.Scenarios {
		for _, yr := range sc.Years {
			for _, p := range yr.Compensation.People {
				name := p.Name
				if name == "" {
					name = p.PhysicianID
				}
				detailRows = append(detailRows, []any{
					sc.Name, yr.Compensation.Year, name, string(p.Type), p.PartnerPortion.InexactFloat64(),
					p.BaseShare.InexactFloat64(), p.MDShare.InexactFloat64(), p.PRCSShare.InexactFloat64(),
					p.W2Wages.InexactFloat64(), p.PayrollTaxes.Total.InexactFloat64(), p.Benefits.InexactFloat64(),
					p.Bonus.InexactFloat64(), p.Buyout.InexactFloat64(), p.PartnerCompensation.InexactFloat64(),
					p.TotalDisclosed.InexactFloat64(),
				})
			}
		}
	}

	tables := []sheetTable{
		{summarySheet, summaryHeader, summaryRows, 3},
		{detailSheet, detailHeaderRow, detailRows, 6},
	}
	if len(report.Scenarios) > 1 && len(report.Comparison) > 0 {
		a, b := report.Scenarios[0].Name, report.Scenarios[1].Name
		var rows [][]any
		for _, c := range report.Comparison {
			rows = append(rows, []any{c.Year, c.NetPartnerPoolA.InexactFloat64(), c.NetPartnerPoolB.InexactFloat64(), c.Delta.InexactFloat64()})
		}
		tables = append(tables, sheetTable{comparisonSheet, []string{"Year", a, b, "Difference"}, rows, 2})
	}

	for i, t := range tables {
		if i == 0 {
			// the default sheet becomes the summary and stays active
			if err := f.SetSheetName("Sheet1", t.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := writeTable(f, t, headerStyle, moneyStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(assumptionSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	for i, a := range assumptionsFor(report) {
		if err := setCellValue(f, assumptionSheet, 1, i+1, a); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetColWidth(assumptionSheet, "A", "A", 90); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetTable struct {
	name      string
	header    []string
	rows      [][]any
	moneyFrom int // first 1-based column formatted as money
}

func writeTable(f *excelize.File, t sheetTable, headerStyle, moneyStyle int) error {
	sheet, header, rows, moneyFrom := t.name, t.header, t.rows, t.moneyFrom
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if err := setCellValue(f, sheet, c+1, r+2, v); err != nil {
				return fmt.Errorf("failed to set cell value at row %d, col %d: %w", r+2, c+1, err)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return err
	}
	if len(rows) > 0 && moneyFrom <= len(header) {
		first, err := excelize.ColumnNumberToName(moneyFrom)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("%s2", first), fmt.Sprintf("%s%d", last, len(rows)+1), moneyStyle); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setCellValue(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
