package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"zeitnachweis/internal/core"
)

// Reminder kinds in escalation order.
const (
	KindFirst  = "first"
	KindSecond = "second"
	KindFinal  = "final"
)

// ValidKind reports whether kind is one of the three reminder kinds.
func ValidKind(kind string) bool {
	return kind == KindFirst || kind == KindSecond || kind == KindFinal
}

type reminderData struct {
	Name      string
	Period    string
	UploadURL string
}

type noticeData struct {
	Name       string
	Email      string
	Period     string
	Filename   string
	UploadedAt string
}

type testData struct {
	Host      string
	Port      int
	From      string
	Timestamp string
}

var reminderTemplates = map[string]*template.Template{
	KindFirst: template.Must(template.New(KindFirst).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #e67e22;">Zeitnachweis fehlt noch</h2>
  <p>Hallo <strong>{{.Name}}</strong>,</p>
  <p>uns fehlt noch Ihr Zeitnachweis für den <strong>{{.Period}}</strong>.</p>
  <div style="background-color: #fff3cd; padding: 15px; border-left: 4px solid #ffc107; margin: 20px 0;">
    <p><strong>Zeitnachweis für {{.Period}} fehlt.</strong></p>
    <p>Bitte laden Sie diesen so schnell wie möglich hoch.</p>
  </div>
  <p><a href="{{.UploadURL}}" style="background-color: #e67e22; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; display: inline-block;">Jetzt hochladen</a></p>
  <p>Mit freundlichen Grüßen,<br>Ihr Zeitnachweis-Team</p>
</div>`)),
	KindSecond: template.Must(template.New(KindSecond).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #e67e22;">Zweite Erinnerung – Zeitnachweis fehlt</h2>
  <p>Hallo <strong>{{.Name}}</strong>,</p>
  <p>dies ist eine zweite Erinnerung – wir haben noch immer keinen Zeitnachweis für den <strong>{{.Period}}</strong> erhalten.</p>
  <div style="background-color: #fff3cd; padding: 15px; border-left: 4px solid #ffc107; margin: 20px 0;">
    <p><strong>Zeitnachweis für {{.Period}} fehlt weiterhin.</strong></p>
    <p>Bitte laden Sie diesen umgehend hoch.</p>
  </div>
  <p><a href="{{.UploadURL}}" style="background-color: #e67e22; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; display: inline-block;">Jetzt hochladen</a></p>
  <p>Mit freundlichen Grüßen,<br>Ihr Zeitnachweis-Team</p>
</div>`)),
	KindFinal: template.Must(template.New(KindFinal).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #e74c3c;">DRINGEND – Zeitnachweis fehlt</h2>
  <p>Hallo <strong>{{.Name}}</strong>,</p>
  <p><strong>DRINGEND:</strong> Ihr Zeitnachweis für den <strong>{{.Period}}</strong> fehlt weiterhin!</p>
  <div style="background-color: #f8d7da; padding: 15px; border-left: 4px solid #dc3545; margin: 20px 0;">
    <p><strong>Zeitnachweis für {{.Period}} ist überfällig.</strong></p>
    <p>Bitte laden Sie diesen SOFORT hoch!</p>
  </div>
  <p><a href="{{.UploadURL}}" style="background-color: #dc3545; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">SOFORT HOCHLADEN</a></p>
  <p style="color: #666; font-size: 14px;">Bei Problemen wenden Sie sich bitte umgehend an das Admin-Team.</p>
  <p>Mit freundlichen Grüßen,<br>Ihr Zeitnachweis-Team</p>
</div>`)),
}

var noticeTemplate = template.Must(template.New("notice").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">Neuer Zeitnachweis eingegangen</h2>
  <p style="font-size: 16px; line-height: 1.6; color: #34495e;">
    Hallo,<br><br>
    es wurde ein neuer Zeitnachweis hochgeladen:
  </p>
  <div style="background: #f3f4f6; padding: 15px; border-radius: 6px; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Mitarbeiter:</strong> {{.Name}}</p>
    <p style="margin: 5px 0;"><strong>E-Mail:</strong> {{.Email}}</p>
    <p style="margin: 5px 0;"><strong>Zeitraum:</strong> {{.Period}}</p>
    <p style="margin: 5px 0;"><strong>Datei:</strong> {{.Filename}}</p>
    <p style="margin: 5px 0;"><strong>Upload-Zeit:</strong> {{.UploadedAt}}</p>
  </div>
  <p style="font-size: 14px; color: #7f8c8d; margin-top: 30px;">
    <em>Die hochgeladene Datei finden Sie im Anhang dieser E-Mail.</em>
  </p>
</div>`))

var testTemplate = template.Must(template.New("test").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">Zeitnachweis-System Test-Email</h2>
  <p style="font-size: 16px; line-height: 1.6; color: #34495e;">
    Hallo,<br><br>
    diese Test-Email bestätigt, dass das <strong>Zeitnachweis-System</strong> erfolgreich konfiguriert ist
    und E-Mails versenden kann.
  </p>
  <div style="background: #f3f4f6; padding: 15px; border-radius: 6px; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>SMTP Server:</strong> {{.Host}}:{{.Port}}</p>
    <p style="margin: 5px 0;"><strong>Absender:</strong> {{.From}}</p>
    <p style="margin: 5px 0;"><strong>Zeitstempel:</strong> {{.Timestamp}}</p>
  </div>
  <p style="font-size: 14px; color: #7f8c8d; margin-top: 30px;">
    <em>Diese E-Mail wurde automatisch vom Zeitnachweis-System generiert.</em>
  </p>
</div>`))

// ReminderMail renders subject and body of a reminder of the given kind
// for an employee and period.
func ReminderMail(kind, employeeName string, period core.Period, baseURL string) (subject, body string, err error) {
	tmpl, ok := reminderTemplates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown reminder kind %q", kind)
	}

	switch kind {
	case KindFirst:
		subject = fmt.Sprintf("Fehlender Zeitnachweis für %s", period.Label())
	case KindSecond:
		subject = fmt.Sprintf("2. Erinnerung: Zeitnachweis für %s fehlt immer noch", period.Label())
	case KindFinal:
		subject = fmt.Sprintf("DRINGEND: Zeitnachweis für %s fehlt!", period.Label())
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, reminderData{
		Name:      employeeName,
		Period:    period.Label(),
		UploadURL: baseURL + "/upload",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render %s reminder: %w", kind, err)
	}
	return subject, buf.String(), nil
}

// UploadNoticeMail renders the admin notification sent when a timesheet
// arrives.
func UploadNoticeMail(employeeName, employeeEmail string, period core.Period, filename string, uploadedAt time.Time) (subject, body string, err error) {
	subject = fmt.Sprintf("Neuer Zeitnachweis von %s - %s", employeeName, period.Label())

	var buf bytes.Buffer
	err = noticeTemplate.Execute(&buf, noticeData{
		Name:       employeeName,
		Email:      employeeEmail,
		Period:     period.Label(),
		Filename:   filename,
		UploadedAt: uploadedAt.Format("02.01.2006 15:04"),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render upload notice: %w", err)
	}
	return subject, buf.String(), nil
}

// TestMail renders the connectivity test message.
func TestMail(host string, port int, from string, now time.Time) (subject, body string, err error) {
	subject = "Test-Email vom Zeitnachweis-System"

	var buf bytes.Buffer
	err = testTemplate.Execute(&buf, testData{
		Host:      host,
		Port:      port,
		From:      from,
		Timestamp: now.Format("02.01.2006 15:04:05"),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render test mail: %w", err)
	}
	return subject, buf.String(), nil
}
