package model

import "time"

// TimeEntryRow is one parsed line of a detailed time-entry export.
type TimeEntryRow struct {
	Line        int
	StartDate   time.Time
	Description string
}

// DailySummary collapses all entries of one calendar day.
type DailySummary struct {
	Date         time.Time `json:"date"`
	Descriptions []string  `json:"descriptions"`
	// Joined holds Descriptions joined with ", ".
	Joined string `json:"description"`
}
