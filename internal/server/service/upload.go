package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"zeitnachweis/internal/core"
	"zeitnachweis/internal/server/config"
	"zeitnachweis/internal/server/database"
	"zeitnachweis/internal/server/storage"
)

// Sentinel errors for the service layer.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeInactive = errors.New("employee is deactivated")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrFileType         = errors.New("only PDF, PNG, JPG and JPEG files are allowed")
	ErrWindowClosed     = errors.New("upload window is closed")
	ErrInvalidPeriod    = errors.New("invalid month/year")
)

// allowedExtensions is the timesheet file type allow-list.
var allowedExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
}

// allowedMIMETypes mirrors allowedExtensions for the declared
// Content-Type of the multipart part.
var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// UploadService contains the business logic for timesheet uploads.
type UploadService struct {
	repo     *database.Repository
	store    storage.Store
	cfg      *config.Config
	notifier *Notifier
}

// NewUploadService creates a new upload service. notifier may be nil in
// tests; upload notices are then skipped.
func NewUploadService(repo *database.Repository, store storage.Store, cfg *config.Config, notifier *Notifier) *UploadService {
	return &UploadService{
		repo:     repo,
		store:    store,
		cfg:      cfg,
		notifier: notifier,
	}
}

// WindowOpen reports whether uploads are currently accepted. With
// UploadWindowDays == 0 the window is always open; otherwise uploads
// are limited to the first N working days of the month.
func (s *UploadService) WindowOpen(now time.Time) bool {
	if s.cfg.UploadWindowDays <= 0 {
		return true
	}
	n := core.WorkingDayNumber(now)
	return n >= 1 && n <= s.cfg.UploadWindowDays
}

// ProcessUpload handles an incoming timesheet: validates size, type and
// employee, stores the file, upserts the upload row for the period and
// hands the admin notice to the background notifier. The returned
// filename is the stored name, not the original one.
func (s *UploadService) ProcessUpload(ctx context.Context, employeeID int64, period core.Period, originalName, contentType string, data io.Reader, size int64) (*UploadResult, error) {
	if !s.WindowOpen(time.Now()) {
		return nil, ErrWindowClosed
	}
	if size > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if !AllowedFile(originalName, contentType) {
		return nil, ErrFileType
	}
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	employee, err := s.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, database.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if !employee.Active {
		return nil, ErrEmployeeInactive
	}

	storedName := StoredFilename(employeeID, time.Now(), originalName)

	path, written, err := s.store.Save(storedName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	upload := &database.Upload{
		EmployeeID: employeeID,
		Month:      int(period.Month),
		Year:       period.Year,
		Filename:   storedName,
		Filepath:   path,
	}

	previousPath, err := s.repo.UpsertUpload(ctx, upload)
	if err != nil {
		// Roll back the file so a failed DB write leaves no orphan.
		if derr := s.store.Delete(storedName); derr != nil {
			slog.Error("failed to remove file after upsert failure", "file", storedName, "error", derr)
		}
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	// Replaced row: the old file is no longer referenced, remove it.
	if previousPath != "" && previousPath != path {
		if derr := s.store.Delete(filepath.Base(previousPath)); derr != nil {
			slog.Warn("failed to remove replaced file", "path", previousPath, "error", derr)
		}
	}

	slog.Info("timesheet uploaded",
		"employee_id", employeeID,
		"employee", employee.Name(),
		"month", upload.Month,
		"year", upload.Year,
		"filename", storedName,
		"bytes", written,
	)

	if s.notifier != nil {
		s.notifier.EnqueueUploadNotice(employee, upload, period)
	}

	return &UploadResult{
		Message:  "Zeitnachweis erfolgreich hochgeladen",
		Filename: storedName,
	}, nil
}

// AllowedFile reports whether the original filename extension and the
// declared content type are both on the timesheet allow-list.
func AllowedFile(name, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return false
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return allowedMIMETypes[mime]
}

// StoredFilename builds the on-disk name for an upload:
// zeitnachweis_<employeeID>_<date>_<random>_<sanitized original>.
// The random component keeps a same-day re-upload from colliding with
// the file it replaces.
func StoredFilename(employeeID int64, now time.Time, originalName string) string {
	return fmt.Sprintf("zeitnachweis_%d_%s_%s_%s",
		employeeID,
		now.Format("2006-01-02"),
		uuid.NewString()[:8],
		SanitizeFilename(originalName),
	)
}

// SanitizeFilename strips directory components and limits length.
func SanitizeFilename(name string) string {
	// Normalize Windows-style backslashes to forward slashes before
	// calling filepath.Base, which is platform-specific.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	if len(name) > 255 {
		ext := filepath.Ext(name)
		name = name[:255-len(ext)] + ext
	}

	if name == "" || name == "." {
		name = "zeitnachweis.pdf"
	}

	return name
}
