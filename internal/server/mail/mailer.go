// Package mail delivers the system's notification emails over SMTP.
// When the SMTP credentials are not configured the mailer degrades to a
// disabled no-op so uploads and reminder batches keep working without
// email.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"zeitnachweis/internal/server/config"
)

var (
	// ErrNotConfigured is returned when a send is requested while the
	// SMTP credentials are missing.
	ErrNotConfigured = errors.New("smtp not configured")
	// ErrDelivery wraps relay-side failures.
	ErrDelivery = errors.New("mail delivery failed")
)

// Message is one outgoing email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []string // paths of files to attach
}

// VerifyInfo is the redacted connection summary returned by Verify.
type VerifyInfo struct {
	Host           string `json:"smtp_host"`
	Port           int    `json:"smtp_port"`
	UserConfigured bool   `json:"smtp_user_configured"`
	From           string `json:"email_from"`
}

// Mailer sends messages through the configured SMTP relay.
type Mailer struct {
	cfg     *config.Config
	enabled bool
}

// New creates a Mailer. A missing SMTP configuration is not an error:
// the mailer starts disabled and every send becomes a logged no-op.
func New(cfg *config.Config) *Mailer {
	m := &Mailer{cfg: cfg, enabled: cfg.SMTPConfigured()}
	if !m.enabled {
		slog.Warn("smtp not configured, email delivery disabled",
			"hint", "set SMTP_HOST, SMTP_USER and SMTP_PASS to enable")
	}
	return m
}

// Enabled reports whether the mailer will actually deliver messages.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

func (m *Mailer) client() (*gomail.Client, error) {
	client, err := gomail.NewClient(m.cfg.SMTPHost,
		gomail.WithPort(m.cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.SMTPUser),
		gomail.WithPassword(m.cfg.SMTPPassword),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

// Send delivers one message. It returns ErrNotConfigured when email is
// disabled; callers on fire-and-forget paths should check Enabled()
// first and skip quietly.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.enabled {
		return ErrNotConfigured
	}

	mm := gomail.NewMsg()
	if err := mm.FromFormat("Zeitnachweis-System", m.cfg.FromAddress()); err != nil {
		return fmt.Errorf("invalid from address %q: %w", m.cfg.FromAddress(), err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	for _, path := range msg.Attachments {
		mm.AttachFile(path)
	}

	client, err := m.client()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	slog.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Verify dials the SMTP relay without sending anything and returns a
// redacted connection summary for operational diagnostics.
func (m *Mailer) Verify(ctx context.Context) (*VerifyInfo, error) {
	info := &VerifyInfo{
		Host:           m.cfg.SMTPHost,
		Port:           m.cfg.SMTPPort,
		UserConfigured: m.cfg.SMTPUser != "",
		From:           m.cfg.FromAddress(),
	}

	if !m.enabled {
		return info, ErrNotConfigured
	}

	client, err := m.client()
	if err != nil {
		return info, err
	}

	if err := client.DialWithContext(ctx); err != nil {
		return info, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if err := client.Close(); err != nil {
		slog.Warn("failed to close smtp connection after verify", "error", err)
	}

	return info, nil
}
