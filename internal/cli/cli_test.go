package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/practicecomp/compensation-engine/internal/config"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "practice.yaml")
	require.NoError(t, config.NewInputParser().WriteExampleConfiguration(path))
	return path
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		arg     string
		want    edit
		wantErr string
	}{
		{arg: "2026:therapy_income=2000000", want: edit{year: 2026, field: domain.FieldTherapyIncome, value: decimal.NewFromInt(2000000)}},
		{arg: "2027:locumCosts= 99000.50", want: edit{year: 2027, field: domain.FieldLocumCosts, value: decimal.RequireFromString("99000.50")}},
		{arg: "2026:therapy_income", wantErr: "expected YEAR:FIELD=AMOUNT"},
		{arg: "2026=5", wantErr: "a field is required"},
		{arg: "x:therapy_income=5", wantErr: "invalid year"},
		{arg: "2026:bogus=5", wantErr: "unknown field"},
		{arg: "2026:therapy_income=abc", wantErr: "invalid amount"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseSet(tt.arg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.year, got.year)
			assert.Equal(t, tt.want.field, got.field)
			assert.True(t, tt.want.value.Equal(got.value))
		})
	}
}

func TestParseTarget(t *testing.T) {
	e, err := parseTarget("ALL")
	require.NoError(t, err)
	assert.Equal(t, edit{}, e)

	e, err = parseTarget("2026")
	require.NoError(t, err)
	assert.Equal(t, 2026, e.year)
	assert.Empty(t, e.field)

	e, err = parseTarget("2026:locum_costs")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldLocumCosts, e.field)
}

func TestRunCommand(t *testing.T) {
	path := exampleFile(t)

	out, err := execute(t, "run", "--config", path, "--format", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "PRACTICE COMPENSATION SUMMARY")
	assert.Contains(t, out, "Conservative")

	out, err = execute(t, "run", "-c", path, "-f", "csv", "--scenario", "conservative")
	require.NoError(t, err)
	assert.NotContains(t, out, "Baseline Growth")

	_, err = execute(t, "run", "-c", path, "--scenario", "missing")
	assert.ErrorContains(t, err, `scenario "missing" not found`)

	_, err = execute(t, "run", "-c", path, "-f", "pdf")
	assert.ErrorContains(t, err, "unsupported report format")
}

func TestRunCommand_WritesFiles(t *testing.T) {
	path := exampleFile(t)
	dir := t.TempDir()

	out, err := execute(t, "run", "-c", path, "-f", "xlsx", "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to ")

	matches, err := filepath.Glob(filepath.Join(dir, "compensation_report_*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRunCommand_RequiresConfig(t *testing.T) {
	t.Setenv(EnvConfig, "")
	_, err := execute(t, "run")
	assert.ErrorContains(t, err, "no configuration")
}

func TestRunCommand_ConfigFromEnvironment(t *testing.T) {
	t.Setenv(EnvConfig, exampleFile(t))
	out, err := execute(t, "run", "-f", "console-lite")
	require.NoError(t, err)
	assert.Contains(t, out, "Example Practice")
}

func TestProjectCommand(t *testing.T) {
	path := exampleFile(t)
	saved := filepath.Join(t.TempDir(), "edited.yaml")

	out, err := execute(t, "project", "-c", path, "--set", "2026:locum_costs=99000", "--save", saved)
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline Growth: baseline 2024")
	assert.Contains(t, out, "$99,000.00*")

	cfg, err := config.NewInputParser().LoadFromFile(saved)
	require.NoError(t, err)
	s, ok := cfg.FindScenario("Baseline Growth")
	require.True(t, ok)
	require.Len(t, s.FutureYears, 5)
	assert.True(t, s.FutureYears[1].LocumCosts.Overridden)
	assert.True(t, s.FutureYears[1].LocumCosts.Value.Equal(decimal.NewFromInt(99000)))

	out, err = execute(t, "project", "-c", saved, "--reset", "all")
	require.NoError(t, err)
	assert.NotContains(t, out, "$99,000.00*")
}

func TestProjectCommand_Errors(t *testing.T) {
	path := exampleFile(t)

	_, err := execute(t, "project", "-c", path, "--set", "2040:locum_costs=1")
	assert.Error(t, err, "year outside the projection")

	_, err = execute(t, "project", "-c", path, "-s", "nope")
	assert.ErrorContains(t, err, "not found")
}

func TestTaxesCommand(t *testing.T) {
	out, err := execute(t, "taxes", "--year", "2025", "--wages", "200000", "--periods")
	require.NoError(t, err)
	assert.Contains(t, out, "Social Security wage base: $176,100.00")
	assert.Contains(t, out, "social_security")
	assert.Contains(t, out, "6.20%")
	assert.Contains(t, out, "Pay periods paid in 2025: 26")

	_, err = execute(t, "taxes", "--wages", "-5")
	assert.ErrorContains(t, err, "cannot be negative")

	_, err = execute(t, "taxes")
	assert.Error(t, err, "--wages is required")
}

func TestHistoryCommand(t *testing.T) {
	out, err := execute(t, "history", "-c", exampleFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded years: 2023-2024 (2 rows)")
	assert.Contains(t, out, "therapy_income: 3.86%")

	csvPath := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("year,therapy_income,non_employment_costs,employee_payroll\n2021,100,10,10\n2023,121,10,10\n"), 0o644))
	out, err = execute(t, "history", "--file", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "therapy_income: 10.00%")
	assert.Contains(t, out, "missing year 2022")
}

func TestSnapshotCommands(t *testing.T) {
	path := exampleFile(t)
	dir := t.TempDir()
	snap := filepath.Join(dir, "session.json")

	out, err := execute(t, "snapshot", "save", snap, "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot written to")

	out, err = execute(t, "snapshot", "diff", snap, "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No changes since")

	edited := filepath.Join(dir, "edited.yaml")
	_, err = execute(t, "project", "-c", path, "--set", "2025:therapy_income=1", "--save", edited)
	require.NoError(t, err)
	out, err = execute(t, "snapshot", "diff", snap, "-c", edited)
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline Growth 2025: therapy_income")

	restored := filepath.Join(dir, "restored.yaml")
	_, err = execute(t, "snapshot", "restore", snap, restored)
	require.NoError(t, err)
	cfg, err := config.NewInputParser().LoadFromFile(restored)
	require.NoError(t, err)
	assert.Len(t, cfg.Scenarios[0].FutureYears, 5)
}

func TestExampleCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	out, err := execute(t, "example", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = config.NewInputParser().LoadFromFile(path)
	assert.NoError(t, err)
}

func TestRootCommand_BadLogFormat(t *testing.T) {
	_, err := execute(t, "--log-format", "xml", "taxes", "--wages", "1")
	assert.ErrorContains(t, err, "unknown log format")
}

func TestPortionCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr string
	}{
		{args: []string{"--year", "2024", "--date", "12-31"}, want: "is day 366 of 366: portion 1.000000"},
		{args: []string{"--year", "2025", "--date", "07-02"}, want: "is day 183 of 365"},
		{args: []string{"--year", "2025", "--portion", "0.5"}, want: "is day 183: 07-02"},
		{args: []string{"--year", "2025", "--portion", "0"}, want: "before-year"},
		{args: []string{"--year", "2025", "--date", "02-30"}, wantErr: "invalid --date"},
		{args: []string{"--year", "2025", "--portion", "1.5"}, wantErr: "between 0 and 1"},
		{args: []string{"--year", "2025"}, wantErr: "required"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := execute(t, append([]string{"portion"}, tt.args...)...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}
