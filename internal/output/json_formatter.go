package output

import (
	json "github.com/goccy/go-json"
	"github.com/practicecomp/compensation-engine/internal/domain"
)

// JSONFormatter serializes the practice report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.PracticeReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
