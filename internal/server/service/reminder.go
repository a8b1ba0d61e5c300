package service

import (
	"context"
	"errors"
	"log/slog"

	"zeitnachweis/internal/core"
	"zeitnachweis/internal/server/config"
	"zeitnachweis/internal/server/database"
	"zeitnachweis/internal/server/mail"
)

// ErrInvalidReminderKind is returned for kinds outside first/second/final.
var ErrInvalidReminderKind = errors.New("invalid reminder kind")

// mailSender is the slice of the mailer the send loops use.
type mailSender interface {
	Enabled() bool
	Send(ctx context.Context, msg mail.Message) error
}

// reminderStore covers the repository queries a reminder batch needs.
type reminderStore interface {
	ActiveEmployeesWithoutUpload(ctx context.Context, period core.Period) ([]*database.Employee, error)
	LogReminder(ctx context.Context, employeeID int64, period core.Period, kind string) error
}

// BatchResult summarizes one reminder batch run.
type BatchResult struct {
	Kind   string      `json:"kind"`
	Period core.Period `json:"-"`
	Total  int         `json:"total"`
	Sent   int         `json:"sent"`
	Failed int         `json:"failed"`
}

// ReminderService sends reminder batches to employees whose timesheet
// for the target period is missing.
type ReminderService struct {
	repo   reminderStore
	mailer mailSender
	cfg    *config.Config
}

// NewReminderService creates a reminder service.
func NewReminderService(repo reminderStore, mailer mailSender, cfg *config.Config) *ReminderService {
	return &ReminderService{repo: repo, mailer: mailer, cfg: cfg}
}

// RunBatch sends one reminder of the given kind to every active
// employee without an upload for the target period. A single failed
// send never aborts the batch; each success is recorded in the reminder
// log. With SMTP disabled the batch is a logged no-op.
func (r *ReminderService) RunBatch(ctx context.Context, kind string, period core.Period) (*BatchResult, error) {
	if !mail.ValidKind(kind) {
		return nil, ErrInvalidReminderKind
	}

	result := &BatchResult{Kind: kind, Period: period}

	if !r.mailer.Enabled() {
		slog.Warn("smtp disabled, skipping reminder batch", "kind", kind, "period", period.Label())
		return result, nil
	}

	employees, err := r.repo.ActiveEmployeesWithoutUpload(ctx, period)
	if err != nil {
		return nil, err
	}
	result.Total = len(employees)

	slog.Info("running reminder batch",
		"kind", kind,
		"period", period.Label(),
		"employees", len(employees),
	)

	for _, employee := range employees {
		subject, body, err := mail.ReminderMail(kind, employee.Name(), period, r.cfg.BaseURL)
		if err != nil {
			slog.Error("failed to render reminder", "employee", employee.Name(), "error", err)
			result.Failed++
			continue
		}

		err = r.mailer.Send(ctx, mail.Message{
			To:      employee.Email,
			Subject: subject,
			HTML:    body,
		})
		if err != nil {
			slog.Error("failed to send reminder",
				"kind", kind,
				"to", employee.Email,
				"error", err,
			)
			result.Failed++
			continue
		}

		if err := r.repo.LogReminder(ctx, employee.ID, period, kind); err != nil {
			// The mail went out; a missing log row only skews statistics.
			slog.Error("failed to log reminder", "employee_id", employee.ID, "error", err)
		}
		result.Sent++
	}

	slog.Info("reminder batch complete",
		"kind", kind,
		"period", period.Label(),
		"sent", result.Sent,
		"failed", result.Failed,
	)
	return result, nil
}
