package output_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/practicecomp/compensation-engine/internal/config"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyReport() *domain.PracticeReport {
	return &domain.PracticeReport{Practice: "Empty", Assumptions: []string{"none"}}
}

func TestGenerateReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.GenerateReport(emptyReport(), "json", &buf))
	assert.Contains(t, buf.String(), `"practice": "Empty"`)
}

func TestGenerateReport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := output.GenerateReport(emptyReport(), "definitely-not-a-format", &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, output.ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "Try one of:")
	assert.Zero(t, buf.Len())
}

func TestGenerateReportFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "report.csv")
	written, err := output.GenerateReportFile(emptyReport(), "csv", path, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, written)

	written, err = output.GenerateReportFile(emptyReport(), "console-lite", "", dir)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(written[0]), "compensation_report_"))
	assert.Equal(t, ".txt", filepath.Ext(written[0]))

	written, err = output.GenerateReportFile(emptyReport(), "all", "", dir)
	require.NoError(t, err)
	assert.Len(t, written, 3)

	_, err = output.GenerateReportFile(emptyReport(), "pdf", "", dir)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestSaveConfiguration(t *testing.T) {
	parser := config.NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, output.SaveConfiguration(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	reparsed, err := parser.Parse(data)
	require.NoError(t, err)
	require.NoError(t, parser.ValidateConfiguration(reparsed))
	assert.Equal(t, cfg.Scenarios[0].Roster[0].ID, reparsed.Scenarios[0].Roster[0].ID)
}
