// Package snapshot saves a practice configuration together with its resolved
// projections so a session can be restored exactly and compared against
// later edits.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

// Version is written into every snapshot
const Version = 1

// Format is a snapshot encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedVersion is returned for snapshots written by a newer release
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot is a configuration with every scenario's future years materialized
type Snapshot struct {
	Version       int                  `json:"version" yaml:"version"`
	SavedAt       time.Time            `json:"saved_at" yaml:"saved_at"`
	Configuration domain.Configuration `json:"configuration" yaml:"configuration"`
}

// FormatForPath picks an encoding from a file extension (JSON by default)
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Capture projects every scenario and stores the resolved years, so the
// snapshot no longer depends on how the projection was seeded.
func Capture(engine *calculation.CompensationEngine, config *domain.Configuration) (*Snapshot, error) {
	captured := *config
	captured.History = append([]domain.YearRow(nil), config.History...)
	captured.Scenarios = make([]domain.Scenario, len(config.Scenarios))

	for i := range config.Scenarios {
		s := config.Scenarios[i].Clone()
		_, years, err := engine.ProjectScenario(config, &s)
		if err != nil {
			return nil, fmt.Errorf("failed to capture scenario %q: %w", s.Name, err)
		}
		s.FutureYears = years
		s.ProjectionYears = len(years)
		captured.Scenarios[i] = s
	}

	return &Snapshot{
		Version:       Version,
		SavedAt:       time.Now().UTC().Truncate(time.Second),
		Configuration: captured,
	}, nil
}

// Encode serializes a snapshot
func Encode(s *Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown snapshot format %q", format)
}

// Decode parses a snapshot and checks its version
func Decode(data []byte, format Format) (*Snapshot, error) {
	var s Snapshot
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	if s.Version < 1 || s.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return &s, nil
}

// Save writes a snapshot, choosing the encoding from the file extension
func Save(path string, s *Snapshot) error {
	data, err := Encode(s, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot written by Save
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return Decode(data, FormatForPath(path))
}

// Verify encodes and decodes the snapshot in the given format and checks
// that the restored configuration computes exactly the same report.
func Verify(engine *calculation.CompensationEngine, s *Snapshot, format Format) error {
	data, err := Encode(s, format)
	if err != nil {
		return err
	}
	restored, err := Decode(data, format)
	if err != nil {
		return err
	}

	before, err := engine.RunScenarios(&s.Configuration)
	if err != nil {
		return fmt.Errorf("original snapshot: %w", err)
	}
	after, err := engine.RunScenarios(&restored.Configuration)
	if err != nil {
		return fmt.Errorf("restored snapshot: %w", err)
	}
	if diffs := CompareReports(before, after); len(diffs) > 0 {
		return fmt.Errorf("snapshot round trip changed %d results, first: %s", len(diffs), diffs[0])
	}
	return nil
}
