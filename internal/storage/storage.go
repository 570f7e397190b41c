package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/toggl-timesheet/internal/timecalc"
)

const (
	organizationsFile = "organizations.json"
	workspacesFile    = "workspaces.json"
	exportFile        = "time_entries.csv"
	summaryFile       = "daily_summary.csv"
)

// OrganizationsPath returns <root>/organizations.json.
func OrganizationsPath(root string) string {
	return filepath.Join(root, organizationsFile)
}

// WorkspacesPath returns <root>/workspaces.json.
func WorkspacesPath(root string) string {
	return filepath.Join(root, workspacesFile)
}

// ExportPath returns <root>/<YYYY>/<MM>/time_entries.csv for the month the
// range starts in. Re-running a month overwrites the same file.
func ExportPath(root string, r timecalc.DateRange) string {
	return filepath.Join(root, r.Start.Format("2006"), r.Start.Format("01"), exportFile)
}

// SummaryPath returns <root>/daily_summary.csv.
func SummaryPath(root string) string {
	return filepath.Join(root, summaryFile)
}

// SaveJSON writes v as indented JSON, creating parent directories.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON for %s: %w", path, err)
	}
	return SaveBytes(path, append(data, '\n'))
}

// SaveBytes writes data to path, creating parent directories. The write is
// not atomic: a crash mid-write leaves a partial file behind.
func SaveBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage error creating directories for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage error writing %s: %w", path, err)
	}
	return nil
}

// Create opens path for writing, creating parent directories.
func Create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage error creating directories for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", path, err)
	}
	return f, nil
}
