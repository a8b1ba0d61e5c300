package mail

import (
	"strings"
	"testing"
	"time"

	"zeitnachweis/internal/core"
)

var march2025 = core.Period{Month: time.March, Year: 2025}

func TestReminderMail(t *testing.T) {
	t.Run("first reminder subject names the period", func(t *testing.T) {
		subject, body, err := ReminderMail(KindFirst, "Max Mustermann", march2025, "http://localhost:3001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(subject, "März 2025") {
			t.Errorf("subject %q does not contain period label", subject)
		}
		if !strings.Contains(body, "Max Mustermann") {
			t.Error("body does not address the employee")
		}
		if !strings.Contains(body, "http://localhost:3001/upload") {
			t.Error("body does not link the upload page")
		}
	})

	t.Run("kinds escalate in wording", func(t *testing.T) {
		first, _, err := ReminderMail(KindFirst, "Max", march2025, "http://x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _, err := ReminderMail(KindSecond, "Max", march2025, "http://x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		final, _, err := ReminderMail(KindFinal, "Max", march2025, "http://x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(second, "2. Erinnerung") {
			t.Errorf("second reminder subject %q lacks escalation", second)
		}
		if !strings.Contains(final, "DRINGEND") {
			t.Errorf("final reminder subject %q lacks urgency", final)
		}
		if first == second || second == final {
			t.Error("expected distinct subjects per kind")
		}
	})

	t.Run("unknown kind is an error", func(t *testing.T) {
		if _, _, err := ReminderMail("fourth", "Max", march2025, "http://x"); err == nil {
			t.Error("expected error for unknown kind")
		}
	})

	t.Run("employee name is HTML-escaped", func(t *testing.T) {
		_, body, err := ReminderMail(KindFirst, "<script>alert(1)</script>", march2025, "http://x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(body, "<script>") {
			t.Error("body contains unescaped HTML from employee name")
		}
	})
}

func TestUploadNoticeMail(t *testing.T) {
	uploadedAt := time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)
	subject, body, err := UploadNoticeMail("Max Mustermann", "max@example.com", march2025, "zeitnachweis_1.pdf", uploadedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(subject, "Max Mustermann") || !strings.Contains(subject, "März 2025") {
		t.Errorf("subject %q missing employee or period", subject)
	}
	for _, want := range []string{"max@example.com", "zeitnachweis_1.pdf", "März 2025", "04.03.2025 09:30"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestTestMail(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 30, 15, 0, time.UTC)
	subject, body, err := TestMail("smtp.example.com", 587, "noreply@example.com", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if subject == "" {
		t.Error("expected non-empty subject")
	}
	for _, want := range []string{"smtp.example.com", "587", "noreply@example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestValidKind(t *testing.T) {
	for _, kind := range []string{KindFirst, KindSecond, KindFinal} {
		if !ValidKind(kind) {
			t.Errorf("expected %q to be valid", kind)
		}
	}
	for _, kind := range []string{"", "fourth", "FIRST", "urgent"} {
		if ValidKind(kind) {
			t.Errorf("expected %q to be invalid", kind)
		}
	}
}
