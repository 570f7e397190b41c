// Package summary turns a detailed time-entry export into one row per day.
package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/toggl-timesheet/internal/model"
	"github.com/Tiliavir/toggl-timesheet/internal/storage"
	"github.com/Tiliavir/toggl-timesheet/internal/timecalc"
)

const (
	dateColumn        = "Start date"
	descriptionColumn = "Description"

	// Separator joins the distinct descriptions of one day.
	Separator = ", "
)

// ParseError reports input that cannot be turned into rows.
type ParseError struct {
	Line int // 0 when the error is not tied to a line
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "parse error: " + msg
}

func (e *ParseError) Unwrap() error { return e.Err }

var dateLayouts = []string{
	timecalc.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// NormalizeDate parses a start-date cell into a UTC calendar date.
func NormalizeDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// Load reads a CSV export with a header row. Only the start date and the
// description columns are used; any malformed date fails the whole load.
func Load(r io.Reader) ([]model.TimeEntryRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Msg: "empty input, header row expected"}
	}
	if err != nil {
		return nil, &ParseError{Msg: "reading header", Err: err}
	}

	dateIdx, descIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, dateColumn):
			dateIdx = i
		case strings.EqualFold(name, descriptionColumn):
			descIdx = i
		}
	}
	if dateIdx < 0 || descIdx < 0 {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("header must contain %q and %q columns, got %q", dateColumn, descriptionColumn, header)}
	}

	var rows []model.TimeEntryRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Msg: "reading record", Err: err}
		}
		line, _ := cr.FieldPos(0)
		if dateIdx >= len(record) || descIdx >= len(record) {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("expected at least %d fields, got %d", max(dateIdx, descIdx)+1, len(record))}
		}

		date, err := NormalizeDate(record[dateIdx])
		if err != nil {
			return nil, &ParseError{Line: line, Msg: "start date", Err: err}
		}
		rows = append(rows, model.TimeEntryRow{
			Line:        line,
			StartDate:   date,
			Description: record[descIdx],
		})
	}
	return rows, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) ([]model.TimeEntryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	rows, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// GroupByDate collects the distinct descriptions of each day.
func GroupByDate(rows []model.TimeEntryRow) map[time.Time]map[string]struct{} {
	grouped := make(map[time.Time]map[string]struct{})
	for _, r := range rows {
		day := timecalc.StartOfDay(r.StartDate)
		set, ok := grouped[day]
		if !ok {
			set = make(map[string]struct{})
			grouped[day] = set
		}
		set[r.Description] = struct{}{}
	}
	return grouped
}

// Summarize turns grouped descriptions into rows sorted by date. Within a
// day descriptions are sorted lexicographically so output is stable.
func Summarize(grouped map[time.Time]map[string]struct{}) []model.DailySummary {
	out := make([]model.DailySummary, 0, len(grouped))
	for day, set := range grouped {
		descs := make([]string, 0, len(set))
		for d := range set {
			descs = append(descs, d)
		}
		sort.Strings(descs)
		out = append(out, model.DailySummary{
			Date:         day,
			Descriptions: descs,
			Joined:       strings.Join(descs, Separator),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Write emits a header and one row per summary with every field quoted.
func Write(w io.Writer, summaries []model.DailySummary) error {
	if err := writeRecord(w, "date", "description"); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := writeRecord(w, s.Date.Format(timecalc.DateLayout), s.Joined); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, fields ...string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteField(f)
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

// quoteField always wraps s in quotes and doubles embedded quotes.
// encoding/csv only quotes when needed, which the silver tier does not want.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteFile writes summaries to path, creating parent directories.
func WriteFile(path string, summaries []model.DailySummary) (err error) {
	f, err := storage.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := Write(f, summaries); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Aggregate loads the export at input, summarizes it and writes the result
// to output.
func Aggregate(input, output string) ([]model.DailySummary, error) {
	rows, err := LoadFile(input)
	if err != nil {
		return nil, err
	}
	summaries := Summarize(GroupByDate(rows))
	if err := WriteFile(output, summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
