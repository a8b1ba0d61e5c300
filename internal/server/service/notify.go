package service

import (
	"context"
	"log/slog"

	"zeitnachweis/internal/core"
	"zeitnachweis/internal/server/config"
	"zeitnachweis/internal/server/database"
	"zeitnachweis/internal/server/mail"
)

// noticeJob is one queued upload notification.
type noticeJob struct {
	employee *database.Employee
	upload   *database.Upload
	period   core.Period
}

// adminDirectory lists the recipients of upload notices.
type adminDirectory interface {
	ListAdminEmails(ctx context.Context) ([]*database.AdminEmail, error)
}

// Notifier delivers upload notices to the admin distribution list off
// the request path. Uploads enqueue a job and return immediately;
// a worker goroutine does the SMTP round-trips and logs failures.
type Notifier struct {
	repo   adminDirectory
	mailer mailSender
	cfg    *config.Config
	jobs   chan noticeJob
	done   chan struct{}
}

// NewNotifier creates a notifier with a bounded queue.
func NewNotifier(repo adminDirectory, mailer mailSender, cfg *config.Config) *Notifier {
	return &Notifier{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		jobs:   make(chan noticeJob, 64),
		done:   make(chan struct{}),
	}
}

// Start begins the delivery loop in a background goroutine. When ctx is
// cancelled the worker drains already-queued jobs and stops.
func (n *Notifier) Start(ctx context.Context) {
	slog.Info("upload notifier started", "queue_capacity", cap(n.jobs))

	go func() {
		defer close(n.done)
		for {
			select {
			case job := <-n.jobs:
				n.deliver(ctx, job)
			case <-ctx.Done():
				for {
					select {
					case job := <-n.jobs:
						n.deliver(context.Background(), job)
					default:
						slog.Info("upload notifier stopped")
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the notifier has fully stopped.
func (n *Notifier) Wait() {
	<-n.done
}

// EnqueueUploadNotice hands an upload notification to the worker. The
// call never blocks; when the queue is full the notice is dropped with
// a warning, the upload itself has already succeeded.
func (n *Notifier) EnqueueUploadNotice(employee *database.Employee, upload *database.Upload, period core.Period) {
	select {
	case n.jobs <- noticeJob{employee: employee, upload: upload, period: period}:
	default:
		slog.Warn("notification queue full, dropping upload notice",
			"employee", employee.Name(),
		)
	}
}

func (n *Notifier) deliver(ctx context.Context, job noticeJob) {
	if !n.mailer.Enabled() {
		slog.Debug("smtp disabled, skipping upload notice", "employee", job.employee.Name())
		return
	}

	admins, err := n.repo.ListAdminEmails(ctx)
	if err != nil {
		slog.Error("failed to load admin emails for upload notice", "error", err)
		return
	}
	if len(admins) == 0 {
		slog.Warn("no admin emails configured, skipping upload notice")
		return
	}

	subject, body, err := mail.UploadNoticeMail(
		job.employee.Name(),
		job.employee.Email,
		job.period,
		job.upload.Filename,
		job.upload.UploadDate,
	)
	if err != nil {
		slog.Error("failed to render upload notice", "error", err)
		return
	}

	sent := 0
	for _, admin := range admins {
		err := n.mailer.Send(ctx, mail.Message{
			To:          admin.Email,
			Subject:     subject,
			HTML:        body,
			Attachments: []string{job.upload.Filepath},
		})
		if err != nil {
			slog.Error("failed to send upload notice",
				"to", admin.Email,
				"employee", job.employee.Name(),
				"error", err,
			)
			continue
		}
		sent++
	}

	slog.Info("upload notices delivered",
		"employee", job.employee.Name(),
		"sent", sent,
		"recipients", len(admins),
	)
}
