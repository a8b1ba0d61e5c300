// Package scheduler fires the monthly reminder batches. Reminders
// chase the previous calendar month: the first reminder goes out on the
// 5th, the second on the 10th and the final one on the 15th, each at
// 09:00 server time.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"zeitnachweis/internal/core"
	"zeitnachweis/internal/server/mail"
	"zeitnachweis/internal/server/service"
)

// Schedule pairs a reminder kind with its cron spec.
type Schedule struct {
	Kind string
	Spec string
}

// Schedules lists the reminder triggers in escalation order.
var Schedules = []Schedule{
	{Kind: mail.KindFirst, Spec: "0 9 5 * *"},
	{Kind: mail.KindSecond, Spec: "0 9 10 * *"},
	{Kind: mail.KindFinal, Spec: "0 9 15 * *"},
}

// batchTimeout bounds one reminder run; a stuck SMTP relay must not
// hold the cron entry forever.
const batchTimeout = 10 * time.Minute

// Scheduler runs reminder batches on the fixed monthly schedule.
type Scheduler struct {
	reminders *service.ReminderService
	cron      *cron.Cron
}

// New creates a scheduler around the reminder service.
func New(reminders *service.ReminderService) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		cron:      cron.New(),
	}
}

// Start registers the reminder entries and starts the cron loop.
func (s *Scheduler) Start() error {
	for _, sched := range Schedules {
		kind := sched.Kind
		if _, err := s.cron.AddFunc(sched.Spec, func() { s.run(kind) }); err != nil {
			return err
		}
		slog.Info("reminder schedule registered", "kind", sched.Kind, "spec", sched.Spec)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("reminder scheduler stopped")
}

func (s *Scheduler) run(kind string) {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	period := core.PreviousPeriod(time.Now())
	slog.Info("scheduled reminder batch firing", "kind", kind, "period", period.Label())

	if _, err := s.reminders.RunBatch(ctx, kind, period); err != nil {
		slog.Error("scheduled reminder batch failed", "kind", kind, "error", err)
	}
}
