package timecalc

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by the Toggl reports API and
// by every file this tool writes.
const DateLayout = "2006-01-02"

// DateRange is an inclusive pair of calendar dates in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String renders the range as "[2024-03-01; 2024-03-31]".
func (r DateRange) String() string {
	return fmt.Sprintf("[%s; %s]", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// MonthRange returns the first and last day of the given month in UTC.
// The end is derived by stepping to the first of the following month and
// going back one day, so month lengths and leap years come from the calendar.
func MonthRange(year int, month time.Month) (DateRange, error) {
	if year < 1 {
		return DateRange{}, fmt.Errorf("invalid year %d", year)
	}
	if month < time.January || month > time.December {
		return DateRange{}, fmt.Errorf("invalid month %d: must be between 1 and 12", month)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return DateRange{Start: start, End: end}, nil
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
