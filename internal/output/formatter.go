package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/practicecomp/compensation-engine/internal/domain"
)

// Formatter renders a practice report. Format must not write anywhere;
// callers decide where the bytes go.
type Formatter interface {
	Format(report *domain.PracticeReport) ([]byte, error)
	// Name is the canonical format name used on the command line
	Name() string
}

// Extensioner is implemented by formatters whose files need a specific extension.
type Extensioner interface {
	Extension() string
}

// FormatterFunc lets a plain function act as a Formatter
type FormatterFunc struct {
	ID string
	F  func(*domain.PracticeReport) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.PracticeReport) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                    { return ff.ID }

// ExtensionFor returns the file extension used when writing f's output.
func ExtensionFor(f Formatter) string {
	if e, ok := f.(Extensioner); ok {
		return e.Extension()
	}
	if strings.Contains(f.Name(), "csv") {
		return "csv"
	}
	if strings.HasPrefix(f.Name(), "console") {
		return "txt"
	}
	return f.Name()
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, report *domain.PracticeReport, dir string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("compensation_report_%s.%s", time.Now().Format("20060102_150405"), ExtensionFor(f)))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters, in the order the CLI lists them
var builtInFormatters = []Formatter{
	ConsoleVerboseFormatter{},
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	JSONFormatter{},
	XLSXFormatter{},
}

// GetFormatterByName resolves a name or alias, or returns nil
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap maps accepted synonyms onto canonical names
var aliasMap = map[string]string{
	"console-verbose": "console",
	"verbose":         "console",
	"summary":         "console-lite",
	"csv-detailed":    "detailed-csv",
	"csv-summary":     "csv",
	"json-pretty":     "json",
	"excel":           "xlsx",
}

// NormalizeFormatName lowercases, treats "_" as "-" and resolves aliases
func NormalizeFormatName(name string) string {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
