package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/toggl-timesheet/internal/storage"
	"github.com/Tiliavir/toggl-timesheet/internal/timecalc"
)

func TestPaths(t *testing.T) {
	root := filepath.Join("data", "bronze")
	r, err := timecalc.MonthRange(2024, time.March)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		got  string
		want string
	}{
		{storage.OrganizationsPath(root), filepath.Join(root, "organizations.json")},
		{storage.WorkspacesPath(root), filepath.Join(root, "workspaces.json")},
		{storage.ExportPath(root, r), filepath.Join(root, "2024", "03", "time_entries.csv")},
		{storage.SummaryPath("silver"), filepath.Join("silver", "daily_summary.csv")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestSaveBytesCreatesParents(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "2024", "12", "time_entries.csv")

	if err := storage.SaveBytes(path, []byte("a,b\n")); err != nil {
		t.Fatalf("SaveBytes: %v", err)
	}
	// Overwrite keeps the snapshot idempotent.
	if err := storage.SaveBytes(path, []byte("c,d\n")); err != nil {
		t.Fatalf("SaveBytes (overwrite): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "c,d\n" {
		t.Errorf("content = %q, want %q", data, "c,d\n")
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspaces.json")

	v := []map[string]any{{"id": 1, "admin": true}}
	if err := storage.SaveJSON(path, v); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"admin\": true,\n    \"id\": 1\n  }\n]\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}
}

func TestSaveBytesUnwritableParent(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := storage.SaveBytes(filepath.Join(blocker, "child.csv"), []byte("x")); err == nil {
		t.Fatal("expected error when parent is a regular file")
	}
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silver", "daily_summary.csv")
	f, err := storage.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.WriteString("x"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stat: %v", err)
	}
}
