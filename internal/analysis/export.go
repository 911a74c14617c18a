package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"kwintel/internal/table"
)

// WriteSegments writes the three segment tables as CSV files into dir,
// creating it if needed. Files: overlap.csv, organic_only.csv,
// paid_only.csv.
func WriteSegments(result *Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	files := []struct {
		name string
		t    *table.Table
	}{
		{"overlap.csv", result.Segments.Overlap},
		{"organic_only.csv", result.Segments.OrganicOnly},
		{"paid_only.csv", result.Segments.PaidOnly},
	}
	for _, f := range files {
		if err := table.WriteCSV(f.t, filepath.Join(dir, f.name)); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport writes the rendered recommendation report, creating the
// parent directory if needed.
func WriteReport(result *Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(result.Report+"\n"), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
