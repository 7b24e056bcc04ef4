package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Save writes the report as JSON, creating parent directories as needed.
func Save(path string, r *Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Load reads one report file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open report %s: %w", path, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unknown report format in %s: %w", path, err)
	}
	return &r, nil
}

// LoadGlob resolves each pattern and loads every matched report file. A file
// that fails to parse is skipped with a warning on warn rather than aborting
// the whole load; patterns that match nothing are skipped silently.
func LoadGlob(patterns []string, warn io.Writer) ([]*Report, error) {
	var reports []*Report
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}

		for _, path := range matches {
			r, err := Load(path)
			if err != nil {
				fmt.Fprintf(warn, "Warning: skipping %s: %v\n", path, err)
				continue
			}
			reports = append(reports, r)
		}
	}
	return reports, nil
}
