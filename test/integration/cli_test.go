package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/cli"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRun(t *testing.T, cfg *domain.Configuration) *domain.PracticeReport {
	t.Helper()
	report, err := calculation.NewCompensationEngine().RunScenarios(cfg)
	require.NoError(t, err)
	return report
}

func practicecomp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCommand(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), strings.Join(args, " "))
	return out.String()
}

func TestCLI_RunVerboseReport(t *testing.T) {
	out := practicecomp(t, "run", "--config", examplePractice)

	assert.Contains(t, out, "DETAILED PRACTICE COMPENSATION ANALYSIS")
	assert.Contains(t, out, "SCENARIO 1: Steady State")
	assert.Contains(t, out, "SCENARIO 2: Retirement")
	assert.Contains(t, out, "SCENARIO COMPARISON")
}

func TestCLI_HistoryFromMergedFile(t *testing.T) {
	out := practicecomp(t, "history", "-c", examplePractice)
	assert.Contains(t, out, "Recorded years: 2021-2024 (4 rows)")
	assert.NotContains(t, out, "Data quality issues")
}

func TestCLI_OverrideThenSnapshot(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "before.yaml")
	edited := filepath.Join(dir, "edited.yaml")

	practicecomp(t, "snapshot", "save", snap, "-c", examplePractice)
	out := practicecomp(t, "project", "-c", examplePractice, "-s", "retirement",
		"--set", "2027:locum_costs=200000", "--save", edited)
	assert.Contains(t, out, "Retirement: baseline 2024")

	// history_file is written back as given, so the edited copy reads it next to itself
	require.NoError(t, copyFile(filepath.Join("..", "testdata", "history.csv"), filepath.Join(dir, "history.csv")))

	out = practicecomp(t, "snapshot", "diff", snap, "-c", edited)
	assert.Contains(t, out, "Retirement 2027: locum_costs")
	assert.NotContains(t, out, "Steady State")
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
