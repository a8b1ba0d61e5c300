package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"zeitnachweis/internal/core"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDuplicateEmail     = errors.New("email address already exists")
	ErrAdminEmailNotFound = errors.New("admin email not found")
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Repository provides CRUD operations for employees, uploads, reminders
// and the admin tables.
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// --- Employees ---

// CreateEmployee inserts a new employee and fills in ID and CreatedAt.
func (r *Repository) CreateEmployee(ctx context.Context, e *Employee) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO employees (firstname, lastname, email)
		VALUES ($1, $2, $3)
		RETURNING id, active, created_at
	`, e.Firstname, e.Lastname, e.Email).Scan(&e.ID, &e.Active, &e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	e := &Employee{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, firstname, lastname, email, active, created_at
		FROM employees WHERE id = $1
	`, id).Scan(&e.ID, &e.Firstname, &e.Lastname, &e.Email, &e.Active, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns all employees, active or not, ordered by name.
func (r *Repository) ListEmployees(ctx context.Context) ([]*Employee, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, firstname, lastname, email, active, created_at
		FROM employees
		ORDER BY lastname, firstname
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e := &Employee{}
		if err := rows.Scan(&e.ID, &e.Firstname, &e.Lastname, &e.Email, &e.Active, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// DeactivateEmployee soft-deletes an employee. The row and its upload
// history remain; the employee just stops appearing in status lists and
// reminder batches.
func (r *Repository) DeactivateEmployee(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		"UPDATE employees SET active = FALSE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// ListEmployeeStatus returns all active employees joined with their
// upload state for the given period.
func (r *Repository) ListEmployeeStatus(ctx context.Context, period core.Period) ([]*EmployeeStatus, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT e.id, e.firstname, e.lastname, e.email, e.active, e.created_at,
			   u.id IS NOT NULL AS uploaded, u.filename, u.upload_date
		FROM employees e
		LEFT JOIN uploads u
			ON e.id = u.employee_id AND u.month = $1 AND u.year = $2
		WHERE e.active = TRUE
		ORDER BY e.lastname, e.firstname
	`, int(period.Month), period.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee status: %w", err)
	}
	defer rows.Close()

	var statuses []*EmployeeStatus
	for rows.Next() {
		s := &EmployeeStatus{}
		if err := rows.Scan(
			&s.ID, &s.Firstname, &s.Lastname, &s.Email, &s.Active, &s.CreatedAt,
			&s.Uploaded, &s.Filename, &s.UploadDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// ActiveEmployeesWithoutUpload returns the active employees that have no
// upload row for the given period, i.e. the reminder batch targets.
func (r *Repository) ActiveEmployeesWithoutUpload(ctx context.Context, period core.Period) ([]*Employee, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT e.id, e.firstname, e.lastname, e.email, e.active, e.created_at
		FROM employees e
		LEFT JOIN uploads u
			ON e.id = u.employee_id AND u.month = $1 AND u.year = $2
		WHERE e.active = TRUE AND u.id IS NULL
		ORDER BY e.lastname, e.firstname
	`, int(period.Month), period.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees without upload: %w", err)
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e := &Employee{}
		if err := rows.Scan(&e.ID, &e.Firstname, &e.Lastname, &e.Email, &e.Active, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// --- Uploads ---

// UpsertUpload inserts the upload row or, when one already exists for
// (employee, month, year), replaces filename, filepath and timestamp in
// place. It returns the filepath of the replaced row ("" for a fresh
// insert) so the caller can remove the now-unreferenced file.
func (r *Repository) UpsertUpload(ctx context.Context, u *Upload) (previousPath string, err error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		SELECT filepath FROM uploads
		WHERE employee_id = $1 AND month = $2 AND year = $3
		FOR UPDATE
	`, u.EmployeeID, u.Month, u.Year).Scan(&previousPath)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to check existing upload: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO uploads (employee_id, month, year, filename, filepath)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			filename = EXCLUDED.filename,
			filepath = EXCLUDED.filepath,
			upload_date = NOW()
		RETURNING id, upload_date
	`, u.EmployeeID, u.Month, u.Year, u.Filename, u.Filepath).Scan(&u.ID, &u.UploadDate)
	if err != nil {
		return "", fmt.Errorf("failed to upsert upload: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit upsert: %w", err)
	}
	return previousPath, nil
}

// --- Reminders ---

// LogReminder records that a reminder of the given kind was sent to an
// employee for a period.
func (r *Repository) LogReminder(ctx context.Context, employeeID int64, period core.Period, kind string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO reminders (employee_id, month, year, kind)
		VALUES ($1, $2, $3, $4)
	`, employeeID, int(period.Month), period.Year, kind)
	if err != nil {
		return fmt.Errorf("failed to log reminder: %w", err)
	}
	return nil
}

// --- Admin emails ---

// ListAdminEmails returns the notification distribution list.
func (r *Repository) ListAdminEmails(ctx context.Context) ([]*AdminEmail, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, email, label, created_at, updated_at
		FROM admin_emails ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin emails: %w", err)
	}
	defer rows.Close()

	var emails []*AdminEmail
	for rows.Next() {
		a := &AdminEmail{}
		if err := rows.Scan(&a.ID, &a.Email, &a.Label, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin email: %w", err)
		}
		emails = append(emails, a)
	}
	return emails, rows.Err()
}

// UpsertAdminEmail adds a recipient or updates the label of an existing one.
func (r *Repository) UpsertAdminEmail(ctx context.Context, email, label string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO admin_emails (email, label)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET
			label = EXCLUDED.label,
			updated_at = NOW()
	`, email, label)
	if err != nil {
		return fmt.Errorf("failed to upsert admin email: %w", err)
	}
	return nil
}

// DeleteAdminEmail removes a recipient from the distribution list.
func (r *Repository) DeleteAdminEmail(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, "DELETE FROM admin_emails WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete admin email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminEmailNotFound
	}
	return nil
}

// --- Admin password ---

// AdminPasswordHash returns the stored admin password hash.
func (r *Repository) AdminPasswordHash(ctx context.Context) (string, error) {
	var hash string
	err := r.db.Pool.QueryRow(ctx,
		"SELECT password_hash FROM admin_password WHERE id = 1").Scan(&hash)
	if err != nil {
		return "", fmt.Errorf("failed to load admin password hash: %w", err)
	}
	return hash, nil
}

// SetAdminPasswordHash replaces the stored admin password hash.
func (r *Repository) SetAdminPasswordHash(ctx context.Context, hash string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO admin_password (id, password_hash)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			updated_at = NOW()
	`, hash)
	if err != nil {
		return fmt.Errorf("failed to set admin password hash: %w", err)
	}
	return nil
}

// EnsureAdminPassword seeds the admin password row with the given hash
// when none exists yet. Returns true when the seed was written.
func (r *Repository) EnsureAdminPassword(ctx context.Context, hash string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		INSERT INTO admin_password (id, password_hash)
		VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING
	`, hash)
	if err != nil {
		return false, fmt.Errorf("failed to seed admin password: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// --- Stats ---

// GetStats returns dashboard numbers: upload progress for the current
// period and reminders sent for the reminder target period (the
// previous month).
func (r *Repository) GetStats(ctx context.Context, current, target core.Period) (*Stats, error) {
	stats := &Stats{Month: int(current.Month), Year: current.Year}

	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE active = TRUE),
			(SELECT COUNT(*) FROM employees e
				JOIN uploads u ON e.id = u.employee_id
				WHERE e.active = TRUE AND u.month = $1 AND u.year = $2),
			(SELECT COUNT(*) FROM reminders WHERE month = $3 AND year = $4)
	`, int(current.Month), current.Year, int(target.Month), target.Year).Scan(
		&stats.TotalEmployees,
		&stats.UploadedEmployees,
		&stats.RemindersSent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats.PendingEmployees = stats.TotalEmployees - stats.UploadedEmployees
	return stats, nil
}
