package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// historyColumns is the expected CSV header for recorded years
var historyColumns = []string{"year", "therapy_income", "non_employment_costs", "employee_payroll"}

// HistoricalDataManager holds the recorded years a scenario may project from
type HistoricalDataManager struct {
	DataPath string           `json:"data_path"`
	Rows     []domain.YearRow `json:"rows"`
	IsLoaded bool             `json:"is_loaded"`
}

// NewHistoricalDataManager creates a manager over an optional CSV file
func NewHistoricalDataManager(dataPath string) *HistoricalDataManager {
	return &HistoricalDataManager{DataPath: dataPath}
}

// LoadAllData reads DataPath, if set, and merges it with rows already held
func (hdm *HistoricalDataManager) LoadAllData() error {
	if hdm.DataPath == "" {
		hdm.IsLoaded = true
		return nil
	}
	file, err := os.Open(hdm.DataPath)
	if err != nil {
		return fmt.Errorf("failed to open history file %s: %w", hdm.DataPath, err)
	}
	defer file.Close()

	rows, err := LoadYearRows(file)
	if err != nil {
		return fmt.Errorf("failed to load history file %s: %w", hdm.DataPath, err)
	}
	merged, err := MergeHistory(hdm.Rows, rows)
	if err != nil {
		return err
	}
	hdm.Rows = merged
	hdm.IsLoaded = true
	return nil
}

// LoadYearRows parses recorded years from CSV with a
// year,therapy_income,non_employment_costs,employee_payroll header.
func LoadYearRows(r io.Reader) ([]domain.YearRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range historyColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("invalid CSV format: missing column %q", c)
		}
	}

	var rows []domain.YearRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row %d: %w", line, err)
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[cols["year"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid year %q: %w", line, record[cols["year"]], err)
		}
		row := domain.YearRow{Year: year}
		for _, target := range []struct {
			col string
			dst *decimal.Decimal
		}{
			{"therapy_income", &row.TherapyIncome},
			{"non_employment_costs", &row.NonEmploymentCosts},
			{"employee_payroll", &row.EmployeePayroll},
		} {
			raw := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(record[cols[target.col]]))
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q: %w", line, target.col, record[cols[target.col]], err)
			}
			*target.dst = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid data rows found")
	}
	return rows, nil
}

// MergeHistory combines two sets of recorded years sorted by year. Recorded
// rows are immutable, so the same year appearing twice with different values
// is an error.
func MergeHistory(a, b []domain.YearRow) ([]domain.YearRow, error) {
	byYear := make(map[int]domain.YearRow, len(a)+len(b))
	for _, set := range [][]domain.YearRow{a, b} {
		for _, row := range set {
			if existing, ok := byYear[row.Year]; ok && !sameRow(existing, row) {
				return nil, fmt.Errorf("conflicting history rows for year %d", row.Year)
			}
			byYear[row.Year] = row
		}
	}
	out := make([]domain.YearRow, 0, len(byYear))
	for _, row := range byYear {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func sameRow(a, b domain.YearRow) bool {
	return a.TherapyIncome.Equal(b.TherapyIncome) &&
		a.NonEmploymentCosts.Equal(b.NonEmploymentCosts) &&
		a.EmployeePayroll.Equal(b.EmployeePayroll)
}

// GetYear returns the recorded row for year
func (hdm *HistoricalDataManager) GetYear(year int) (domain.YearRow, error) {
	return findYearRow(hdm.Rows, year)
}

func findYearRow(rows []domain.YearRow, year int) (domain.YearRow, error) {
	for _, row := range rows {
		if row.Year == year {
			return row, nil
		}
	}
	return domain.YearRow{}, fmt.Errorf("%w: no recorded year %d", domain.ErrBaselineNotFound, year)
}

// GetAvailableYears returns the first and last recorded years
func (hdm *HistoricalDataManager) GetAvailableYears() (int, int, error) {
	if len(hdm.Rows) == 0 {
		return 0, 0, fmt.Errorf("no historical data loaded")
	}
	minYear, maxYear := hdm.Rows[0].Year, hdm.Rows[0].Year
	for _, row := range hdm.Rows {
		if row.Year < minYear {
			minYear = row.Year
		}
		if row.Year > maxYear {
			maxYear = row.Year
		}
	}
	return minYear, maxYear, nil
}

// AverageGrowthPct returns the compound annual growth of therapy income,
// non-employment costs or employee payroll between the first and last
// recorded years, as a percentage. Useful as a starting growth assumption.
func (hdm *HistoricalDataManager) AverageGrowthPct(f domain.Field) (decimal.Decimal, error) {
	pick := func(row domain.YearRow) (decimal.Decimal, error) {
		switch f {
		case domain.FieldTherapyIncome:
			return row.TherapyIncome, nil
		case domain.FieldNonEmploymentCosts:
			return row.NonEmploymentCosts, nil
		case domain.FieldNonMDEmploymentCosts:
			return row.EmployeePayroll, nil
		}
		return decimal.Zero, fmt.Errorf("%w: %q is not recorded in history", domain.ErrUnknownField, f)
	}

	minYear, maxYear, err := hdm.GetAvailableYears()
	if err != nil {
		return decimal.Zero, err
	}
	if minYear == maxYear {
		return decimal.Zero, fmt.Errorf("need at least two recorded years to measure growth")
	}
	first, _ := hdm.GetYear(minYear)
	last, _ := hdm.GetYear(maxYear)
	v0, err := pick(first)
	if err != nil {
		return decimal.Zero, err
	}
	v1, _ := pick(last)
	if !v0.IsPositive() || !v1.IsPositive() {
		return decimal.Zero, fmt.Errorf("growth undefined for non-positive values in %d or %d", minYear, maxYear)
	}

	ratio := v1.Div(v0).InexactFloat64()
	cagr := math.Pow(ratio, 1/float64(maxYear-minYear)) - 1
	return decimal.NewFromFloat(cagr * 100).Round(2), nil
}

// ValidateDataQuality reports gaps and suspicious values in the recorded years
func (hdm *HistoricalDataManager) ValidateDataQuality() ([]string, error) {
	minYear, maxYear, err := hdm.GetAvailableYears()
	if err != nil {
		return nil, err
	}
	var issues []string
	for y := minYear; y <= maxYear; y++ {
		row, err := hdm.GetYear(y)
		if err != nil {
			issues = append(issues, fmt.Sprintf("missing year %d", y))
			continue
		}
		if row.TherapyIncome.IsNegative() {
			issues = append(issues, fmt.Sprintf("%d: negative therapy income", y))
		}
		if row.NonEmploymentCosts.IsNegative() || row.EmployeePayroll.IsNegative() {
			issues = append(issues, fmt.Sprintf("%d: negative costs", y))
		}
	}
	return issues, nil
}

// BaselineFromYearRow maps a recorded year onto projection baseline values.
// Employee payroll seeds non-MD employment costs; misc employment costs are
// not recorded, so the configured default is used.
func BaselineFromYearRow(row domain.YearRow, rules domain.PracticeRules) domain.Baseline {
	return domain.Baseline{
		Year:                 row.Year,
		TherapyIncome:        row.TherapyIncome,
		NonEmploymentCosts:   row.NonEmploymentCosts,
		NonMDEmploymentCosts: row.EmployeePayroll,
		MiscEmploymentCosts:  rules.Defaults.MiscEmploymentCosts,
	}
}

// SelectBaseline resolves a scenario's data mode to its baseline: a recorded
// year, or the custom baseline. It is a pure lookup.
func SelectBaseline(mode domain.DataMode, history []domain.YearRow, custom *domain.Baseline, rules domain.PracticeRules) (domain.Baseline, error) {
	if strings.EqualFold(string(mode), string(domain.DataModeCustom)) {
		if custom == nil {
			return domain.Baseline{}, fmt.Errorf("%w: data mode %q but no custom baseline", domain.ErrBaselineNotFound, mode)
		}
		return *custom, nil
	}
	year, ok := mode.Year()
	if !ok {
		return domain.Baseline{}, fmt.Errorf("%w: unrecognized data mode %q", domain.ErrBaselineNotFound, mode)
	}
	row, err := findYearRow(history, year)
	if err != nil {
		return domain.Baseline{}, err
	}
	return BaselineFromYearRow(row, rules), nil
}
