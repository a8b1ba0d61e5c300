package scheduler

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

func TestSchedulesParse(t *testing.T) {
	for _, sched := range Schedules {
		if _, err := cron.ParseStandard(sched.Spec); err != nil {
			t.Errorf("schedule %q (%s) does not parse: %v", sched.Spec, sched.Kind, err)
		}
	}
}

func TestSchedulesFireAtNineOnFixedDays(t *testing.T) {
	wantDays := map[string]int{"first": 5, "second": 10, "final": 15}

	for _, sched := range Schedules {
		s, err := cron.ParseStandard(sched.Spec)
		if err != nil {
			t.Fatalf("parse %q: %v", sched.Spec, err)
		}

		// From the start of a month, the next firing must land on the
		// expected calendar day at 09:00.
		from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
		next := s.Next(from)

		if next.Day() != wantDays[sched.Kind] {
			t.Errorf("%s reminder fires on day %d, want %d", sched.Kind, next.Day(), wantDays[sched.Kind])
		}
		if next.Hour() != 9 || next.Minute() != 0 {
			t.Errorf("%s reminder fires at %02d:%02d, want 09:00", sched.Kind, next.Hour(), next.Minute())
		}
		if next.Month() != time.April {
			t.Errorf("%s reminder deferred to %s, want April", sched.Kind, next.Month())
		}
	}
}

func TestSchedulesCoverAllKinds(t *testing.T) {
	seen := map[string]bool{}
	for _, sched := range Schedules {
		seen[sched.Kind] = true
	}
	for _, kind := range []string{"first", "second", "final"} {
		if !seen[kind] {
			t.Errorf("no schedule registered for kind %q", kind)
		}
	}
}
