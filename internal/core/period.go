package core

import (
	"fmt"
	"time"
)

// Period identifies the (month, year) pair a timesheet, reminder batch
// or status query refers to. It is distinct from "now": a reminder run
// in April chases the March period.
type Period struct {
	Month time.Month
	Year  int
}

// monthNames holds the German month names used in mail subjects and
// bodies, indexed by time.Month-1.
var monthNames = [12]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// CurrentPeriod returns the period containing now.
func CurrentPeriod(now time.Time) Period {
	return Period{Month: now.Month(), Year: now.Year()}
}

// PreviousPeriod returns the period of the calendar month before now,
// crossing the year boundary in January.
func PreviousPeriod(now time.Time) Period {
	if now.Month() == time.January {
		return Period{Month: time.December, Year: now.Year() - 1}
	}
	return Period{Month: now.Month() - 1, Year: now.Year()}
}

// Label renders the period the way it appears in emails, e.g. "März 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", monthNames[p.Month-1], p.Year)
}

// Valid reports whether the period holds a real month and a plausible year.
func (p Period) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December && p.Year >= 2000 && p.Year <= 2200
}
