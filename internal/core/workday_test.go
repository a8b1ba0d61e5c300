package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDayNumber(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		// September 2025 starts on a Monday.
		{"first of month is a Monday", date(2025, time.September, 1), 1},
		{"first Friday", date(2025, time.September, 5), 5},
		{"Saturday keeps Friday's count", date(2025, time.September, 6), 5},
		{"Sunday keeps Friday's count", date(2025, time.September, 7), 5},
		{"second Monday", date(2025, time.September, 8), 6},
		{"end of month", date(2025, time.September, 30), 22},
		// March 2025 starts on a Saturday.
		{"month starting on weekend", date(2025, time.March, 1), 0},
		{"first working day after weekend start", date(2025, time.March, 3), 1},
		{"fifth working day of March 2025", date(2025, time.March, 7), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkingDayNumber(tt.date); got != tt.want {
				t.Errorf("WorkingDayNumber(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestWorkingDayNumberRoundTrip(t *testing.T) {
	// For every month of a couple of years: the date returned for the
	// n-th working day must count back to exactly n.
	for year := 2024; year <= 2026; year++ {
		for m := time.January; m <= time.December; m++ {
			for n := 1; n <= 23; n++ {
				d, ok := NthWorkingDayOfMonth(year, m, n)
				if !ok {
					continue
				}
				if got := WorkingDayNumber(d); got != n {
					t.Fatalf("WorkingDayNumber(NthWorkingDayOfMonth(%d, %s, %d)) = %d, want %d", year, m, n, got, n)
				}
				if !IsNthWorkingDay(d, n) {
					t.Fatalf("IsNthWorkingDay(%s, %d) = false, want true", d.Format("2006-01-02"), n)
				}
			}
		}
	}
}

func TestNthWorkingDayOfMonth(t *testing.T) {
	t.Run("finds the first working day", func(t *testing.T) {
		// March 2025 starts on a Saturday, so working day 1 is Monday the 3rd.
		d, ok := NthWorkingDayOfMonth(2025, time.March, 1)
		if !ok {
			t.Fatal("expected a first working day")
		}
		if d.Day() != 3 {
			t.Errorf("expected March 3, got day %d", d.Day())
		}
	})

	t.Run("not found beyond the month's working days", func(t *testing.T) {
		// No month has 24 working days.
		if _, ok := NthWorkingDayOfMonth(2025, time.March, 24); ok {
			t.Error("expected not-found for n beyond month's working days")
		}
	})

	t.Run("never wraps into the next month", func(t *testing.T) {
		for n := 1; n <= 31; n++ {
			d, ok := NthWorkingDayOfMonth(2025, time.February, n)
			if !ok {
				continue
			}
			if d.Month() != time.February {
				t.Fatalf("n=%d returned %s, outside February", n, d.Format("2006-01-02"))
			}
		}
	})

	t.Run("rejects non-positive n", func(t *testing.T) {
		if _, ok := NthWorkingDayOfMonth(2025, time.March, 0); ok {
			t.Error("expected not-found for n=0")
		}
		if _, ok := NthWorkingDayOfMonth(2025, time.March, -3); ok {
			t.Error("expected not-found for negative n")
		}
	})

	t.Run("result is always a weekday", func(t *testing.T) {
		for n := 1; n <= 23; n++ {
			d, ok := NthWorkingDayOfMonth(2025, time.June, n)
			if !ok {
				continue
			}
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				t.Fatalf("n=%d returned a %s", n, wd)
			}
		}
	})
}

func TestIsNthWorkingDay(t *testing.T) {
	// 2025-09-05 is the fifth working day of its month.
	if !IsNthWorkingDay(date(2025, time.September, 5), 5) {
		t.Error("expected Sep 5 2025 to be the 5th working day")
	}
	if IsNthWorkingDay(date(2025, time.September, 5), 4) {
		t.Error("Sep 5 2025 is not the 4th working day")
	}
	// Weekend dates share the preceding Friday's count but are not
	// themselves working days.
	if IsNthWorkingDay(date(2025, time.September, 6), 5) {
		t.Error("a Saturday must never be a working day")
	}
}
