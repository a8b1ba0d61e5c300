package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"zeitnachweis/internal/server/config"
)

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        bool
	}{
		{"pdf", "march.pdf", "application/pdf", true},
		{"png", "scan.png", "image/png", true},
		{"jpeg", "scan.jpeg", "image/jpeg", true},
		{"jpg", "scan.jpg", "image/jpeg", true},
		{"uppercase extension", "MARCH.PDF", "application/pdf", true},
		{"content type with charset", "march.pdf", "application/pdf; charset=binary", true},
		{"executable", "virus.exe", "application/octet-stream", false},
		{"zip", "sheets.zip", "application/zip", false},
		{"pdf extension with wrong mime", "march.pdf", "application/zip", false},
		{"allowed mime with wrong extension", "march.docx", "application/pdf", false},
		{"no extension", "march", "application/pdf", false},
		{"empty content type", "march.pdf", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedFile(tt.filename, tt.contentType); got != tt.want {
				t.Errorf("AllowedFile(%q, %q) = %v, want %v", tt.filename, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestStoredFilename(t *testing.T) {
	now := time.Date(2025, time.March, 4, 12, 0, 0, 0, time.UTC)

	t.Run("contains employee, date and original name", func(t *testing.T) {
		name := StoredFilename(7, now, "march.pdf")
		if !strings.HasPrefix(name, "zeitnachweis_7_2025-03-04_") {
			t.Errorf("unexpected prefix in %q", name)
		}
		if !strings.HasSuffix(name, "_march.pdf") {
			t.Errorf("expected original name suffix in %q", name)
		}
	})

	t.Run("same-day re-upload gets a distinct name", func(t *testing.T) {
		a := StoredFilename(7, now, "march.pdf")
		b := StoredFilename(7, now, "march.pdf")
		if a == b {
			t.Errorf("expected distinct names, got %q twice", a)
		}
	})

	t.Run("strips directories from the original name", func(t *testing.T) {
		name := StoredFilename(7, now, "../../etc/passwd.pdf")
		if strings.Contains(name, "/") || strings.Contains(name, "..") {
			t.Errorf("stored name %q leaks path components", name)
		}
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "file.pdf", "file.pdf"},
		{"strips directory", "/path/to/file.pdf", "file.pdf"},
		{"strips windows path", "C:\\Users\\test\\file.pdf", "file.pdf"},
		{"empty name", "", "zeitnachweis.pdf"},
		{"dot name", ".", "zeitnachweis.pdf"},
		{"replaces slashes", "a/b/c.pdf", "c.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWindowOpen(t *testing.T) {
	// September 2025 starts on a Monday.
	svcWith := func(days int) *UploadService {
		return NewUploadService(nil, nil, &config.Config{UploadWindowDays: days}, nil)
	}

	t.Run("zero means always open", func(t *testing.T) {
		svc := svcWith(0)
		for day := 1; day <= 30; day++ {
			if !svc.WindowOpen(time.Date(2025, time.September, day, 10, 0, 0, 0, time.UTC)) {
				t.Fatalf("expected day %d to be open", day)
			}
		}
	})

	t.Run("first N working days are open", func(t *testing.T) {
		svc := svcWith(5)
		// Working days 1..5 are Sep 1 (Mon) through Sep 5 (Fri).
		for day := 1; day <= 5; day++ {
			if !svc.WindowOpen(time.Date(2025, time.September, day, 10, 0, 0, 0, time.UTC)) {
				t.Fatalf("expected working day %d to be open", day)
			}
		}
	})

	t.Run("closed after the window", func(t *testing.T) {
		svc := svcWith(5)
		// Sep 8 2025 is the sixth working day.
		if svc.WindowOpen(time.Date(2025, time.September, 8, 10, 0, 0, 0, time.UTC)) {
			t.Error("expected sixth working day to be closed")
		}
		if svc.WindowOpen(time.Date(2025, time.September, 30, 10, 0, 0, 0, time.UTC)) {
			t.Error("expected end of month to be closed")
		}
	})

	t.Run("closed before any working day", func(t *testing.T) {
		svc := svcWith(5)
		// March 1-2 2025 fall on a weekend, working day count is 0.
		if svc.WindowOpen(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)) {
			t.Error("expected weekend before first working day to be closed")
		}
	})
}

func TestProcessUploadRejectsOversizeBeforeStorage(t *testing.T) {
	// Neither repo nor store are set: if the size gate did not
	// short-circuit, the call would panic on the nil store.
	svc := NewUploadService(nil, nil, &config.Config{MaxFileSize: 10 * 1024 * 1024}, nil)

	_, err := svc.ProcessUpload(context.Background(), 1, periodOf(time.March, 2025), "big.pdf", "application/pdf",
		strings.NewReader("x"), 11*1024*1024)
	if err != ErrFileTooLarge {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestProcessUploadRejectsTypeBeforeStorage(t *testing.T) {
	svc := NewUploadService(nil, nil, &config.Config{MaxFileSize: 10 * 1024 * 1024}, nil)

	_, err := svc.ProcessUpload(context.Background(), 1, periodOf(time.March, 2025), "notes.txt", "text/plain",
		strings.NewReader("x"), 10)
	if err != ErrFileType {
		t.Fatalf("expected ErrFileType, got %v", err)
	}
}
