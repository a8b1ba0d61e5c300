package core

import "time"

// isWeekday reports whether d falls on Monday through Friday.
// There is no holiday calendar; a working day is purely a weekday.
func isWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// WorkingDayNumber returns the 1-based count of working days from the
// first of date's month up to and including date. For a weekend date it
// returns the count as of the preceding Friday (weekends never increment
// the counter).
func WorkingDayNumber(date time.Time) int {
	count := 0
	d := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	last := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	for !d.After(last) {
		if isWeekday(d) {
			count++
		}
		d = d.AddDate(0, 0, 1)
	}
	return count
}

// IsNthWorkingDay reports whether date is exactly the n-th working day
// of its month. Weekend dates are never the n-th working day.
func IsNthWorkingDay(date time.Time, n int) bool {
	return isWeekday(date) && WorkingDayNumber(date) == n
}

// NthWorkingDayOfMonth returns the calendar date of the n-th working day
// of the given month. The second return value is false when the month
// has fewer than n working days; the result never wraps into a
// following month.
func NthWorkingDayOfMonth(year int, month time.Month, n int) (time.Time, bool) {
	if n < 1 {
		return time.Time{}, false
	}

	count := 0
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Month() == month {
		if isWeekday(d) {
			count++
			if count == n {
				return d, true
			}
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}
