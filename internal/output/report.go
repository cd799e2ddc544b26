package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/practicecomp/compensation-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a format name no formatter answers to.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Render formats a report by name or alias.
func Render(report *domain.PracticeReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return f.Format(report)
}

// GenerateReport renders a report and writes it to w.
func GenerateReport(report *domain.PracticeReport, format string, w io.Writer) error {
	data, err := Render(report, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// GenerateReportFile renders a report to path, or to a timestamped file in
// dir when path is empty. "all" writes the verbose console and detailed CSV
// reports.
func GenerateReportFile(report *domain.PracticeReport, format, path, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}, XLSXFormatter{}} {
			name, err := WriteFormatted(f, report, dir)
			if err != nil {
				return written, err
			}
			written = append(written, name)
		}
		return written, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		_, err := Render(report, format)
		return nil, err
	}
	if path == "" {
		name, err := WriteFormatted(f, report, dir)
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	data, err := f.Format(report)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// SaveConfiguration writes a configuration (typically with materialized
// future years) back out as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
