package core

import (
	"testing"
	"time"
)

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Period
	}{
		{"mid-year", date(2025, time.April, 10), Period{time.March, 2025}},
		{"january crosses the year", date(2025, time.January, 5), Period{time.December, 2024}},
		{"february stays in year", date(2025, time.February, 1), Period{time.January, 2025}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviousPeriod(tt.now); got != tt.want {
				t.Errorf("PreviousPeriod(%s) = %v, want %v", tt.now.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestCurrentPeriod(t *testing.T) {
	got := CurrentPeriod(date(2025, time.March, 31))
	if got != (Period{time.March, 2025}) {
		t.Errorf("CurrentPeriod = %v, want March 2025", got)
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		period Period
		want   string
	}{
		{Period{time.March, 2025}, "März 2025"},
		{Period{time.January, 2024}, "Januar 2024"},
		{Period{time.December, 2025}, "Dezember 2025"},
	}

	for _, tt := range tests {
		if got := tt.period.Label(); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.period, got, tt.want)
		}
	}
}

func TestPeriodValid(t *testing.T) {
	if !(Period{time.March, 2025}).Valid() {
		t.Error("expected March 2025 to be valid")
	}
	if (Period{0, 2025}).Valid() {
		t.Error("month 0 must be invalid")
	}
	if (Period{13, 2025}).Valid() {
		t.Error("month 13 must be invalid")
	}
	if (Period{time.March, 1999}).Valid() {
		t.Error("year before 2000 must be invalid")
	}
}
