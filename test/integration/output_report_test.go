package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	stddec "github.com/shopspring/decimal"

	"github.com/practicecomp/compensation-engine/internal/config"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/internal/output"
)

func TestFormatters(t *testing.T) {
	d1 := stddec.NewFromFloat(123.45)
	if got := output.FormatCurrency(d1); got != "$123.45" {
		t.Fatalf("FormatCurrency got %s", got)
	}
	// FormatPercentage expects the value already in percentage units (not a 0-1 fraction)
	d2 := stddec.NewFromFloat(12.34)
	if got := output.FormatPercentage(d2); got != "12.34%" {
		t.Fatalf("FormatPercentage got %s", got)
	}
	if got := output.FormatSignedCurrency(stddec.NewFromInt(1500)); got != "+$1,500.00" {
		t.Fatalf("FormatSignedCurrency got %s", got)
	}
}

func TestSaveConfiguration_WritesFile(t *testing.T) {
	cfg := config.NewInputParser().CreateExampleConfiguration()
	out := filepath.Join(t.TempDir(), "config.yaml")
	if err := output.SaveConfiguration(cfg, out); err != nil {
		t.Fatalf("SaveConfiguration error: %v", err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatalf("expected file exists, err: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatalf("expected non-empty file")
	}
	if _, err := config.NewInputParser().LoadFromFile(out); err != nil {
		t.Fatalf("saved configuration does not load: %v", err)
	}
}

func TestReportGenerator_AllTextFormats(t *testing.T) {
	// An empty report still renders; formatters must not assume populated years
	report := &domain.PracticeReport{Practice: "Empty"}

	for _, format := range output.AvailableFormatterNames() {
		if format == "xlsx" {
			continue
		}
		var buf bytes.Buffer
		if err := output.GenerateReport(report, format, &buf); err != nil {
			t.Fatalf("GenerateReport %s error: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("GenerateReport %s wrote nothing", format)
		}
	}
}

func TestGenerateReportFile_All(t *testing.T) {
	cfg, err := config.NewInputParser().LoadFromFile(examplePractice)
	if err != nil {
		t.Fatal(err)
	}
	report := mustRun(t, cfg)

	written, err := output.GenerateReportFile(report, "all", "", t.TempDir())
	if err != nil {
		t.Fatalf("GenerateReportFile error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 files, got %v", written)
	}
	for _, ext := range []string{".txt", ".csv", ".xlsx"} {
		found := false
		for _, name := range written {
			found = found || strings.HasSuffix(name, ext)
		}
		if !found {
			t.Errorf("no %s report in %v", ext, written)
		}
	}
}
