package summary_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/toggl-timesheet/internal/model"
	"github.com/Tiliavir/toggl-timesheet/internal/summary"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-05", day(2024, 3, 5)},
		{" 2024-03-05 ", day(2024, 3, 5)},
		{"2024-03-05T23:30:00+02:00", day(2024, 3, 5)},
		{"2024-03-05 08:15:00", day(2024, 3, 5)},
	}
	for _, tt := range tests {
		got, err := summary.NormalizeDate(tt.raw)
		if err != nil {
			t.Errorf("NormalizeDate(%q): %v", tt.raw, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("NormalizeDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	for _, raw := range []string{"", "05/03/2024", "2024-02-30", "yesterday"} {
		if _, err := summary.NormalizeDate(raw); err == nil {
			t.Errorf("NormalizeDate(%q): expected error", raw)
		}
	}
}

func TestLoad(t *testing.T) {
	in := "\ufeffProject,Description,Start date,Duration\n" +
		"A,\"build, test\",2024-03-05,01:00:00\n" +
		"B,review,2024-03-06,00:30:00\n"

	rows, err := summary.Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Description != "build, test" {
		t.Errorf("Description = %q, want quoted field unwrapped", rows[0].Description)
	}
	if !rows[1].StartDate.Equal(day(2024, 3, 6)) {
		t.Errorf("StartDate = %v", rows[1].StartDate)
	}
	if rows[1].Line != 3 {
		t.Errorf("Line = %d, want 3", rows[1].Line)
	}
}

func TestLoadMissingColumns(t *testing.T) {
	inputs := []string{
		"",
		"Project,Start date\nA,2024-03-05\n",
		"Project,Description\nA,build\n",
	}
	for _, in := range inputs {
		_, err := summary.Load(strings.NewReader(in))
		var perr *summary.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Load(%q) = %v, want *ParseError", in, err)
		}
	}
}

func TestLoadMalformedDateFailsRun(t *testing.T) {
	in := "Description,Start date\n" +
		"build,2024-03-05\n" +
		"review,not-a-date\n" +
		"deploy,2024-03-07\n"

	rows, err := summary.Load(strings.NewReader(in))
	if rows != nil {
		t.Errorf("rows = %v, want nil on failure", rows)
	}
	var perr *summary.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load = %v, want *ParseError", err)
	}
	if perr.Line != 3 {
		t.Errorf("Line = %d, want 3", perr.Line)
	}
}

func TestLoadShortRecord(t *testing.T) {
	in := "Project,Description,Start date\nA,build\n"
	var perr *summary.ParseError
	if _, err := summary.Load(strings.NewReader(in)); !errors.As(err, &perr) {
		t.Errorf("Load = %v, want *ParseError", err)
	}
}

func TestSummarizeDeduplicates(t *testing.T) {
	rows := []model.TimeEntryRow{
		{StartDate: day(2024, 3, 5), Description: "review"},
		{StartDate: day(2024, 3, 5), Description: "build"},
		{StartDate: day(2024, 3, 5), Description: "review"},
	}

	got := summary.Summarize(summary.GroupByDate(rows))
	if len(got) != 1 {
		t.Fatalf("summaries = %d, want 1", len(got))
	}
	if got[0].Joined != "build, review" {
		t.Errorf("Joined = %q, want %q", got[0].Joined, "build, review")
	}
	if len(got[0].Descriptions) != 2 {
		t.Errorf("Descriptions = %v, want 2 unique", got[0].Descriptions)
	}
}

func TestSummarizeSortsByDate(t *testing.T) {
	rows := []model.TimeEntryRow{
		{StartDate: day(2024, 3, 9), Description: "c"},
		{StartDate: day(2024, 3, 1), Description: "a"},
		{StartDate: day(2024, 3, 5), Description: "b"},
	}

	got := summary.Summarize(summary.GroupByDate(rows))
	if len(got) != 3 {
		t.Fatalf("summaries = %d, want 3", len(got))
	}
	for i, want := range []time.Time{day(2024, 3, 1), day(2024, 3, 5), day(2024, 3, 9)} {
		if !got[i].Date.Equal(want) {
			t.Errorf("summaries[%d].Date = %v, want %v", i, got[i].Date, want)
		}
	}
}

func TestWriteQuotesEveryField(t *testing.T) {
	summaries := []model.DailySummary{
		{Date: day(2024, 3, 5), Joined: `build, say "hi"`},
	}

	var buf bytes.Buffer
	if err := summary.Write(&buf, summaries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "\"date\",\"description\"\n\"2024-03-05\",\"build, say \"\"hi\"\"\"\n"
	if buf.String() != want {
		t.Errorf("Write = %q, want %q", buf.String(), want)
	}
}

func TestAggregate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bronze", "2024", "03", "time_entries.csv")
	if err := os.MkdirAll(filepath.Dir(input), 0o755); err != nil {
		t.Fatal(err)
	}
	csv := "Project,Description,Start date,Duration\n" +
		"B,review,2024-03-06,02:00:00\n" +
		"A,build,2024-03-05,01:00:00\n" +
		"A,build,2024-03-05,00:30:00\n"
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "silver", "daily_summary.csv")
	got, err := summary.Aggregate(input, output)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("summaries = %d, want 2", len(got))
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	want := "\"date\",\"description\"\n" +
		"\"2024-03-05\",\"build\"\n" +
		"\"2024-03-06\",\"review\"\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestAggregateMissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.csv")
	if _, err := summary.Aggregate(filepath.Join(dir, "nope.csv"), output); err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output must not be written when input is missing")
	}
}
