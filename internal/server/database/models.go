package database

import "time"

// Employee is a person expected to hand in a monthly timesheet.
// Employees are soft-deleted: removal clears the active flag so that
// upload and reminder history keeps its foreign keys.
type Employee struct {
	ID        int64
	Firstname string
	Lastname  string
	Email     string
	Active    bool
	CreatedAt time.Time
}

// Name returns the display name used in emails and API responses.
func (e *Employee) Name() string {
	return e.Firstname + " " + e.Lastname
}

// Upload records a submitted timesheet. At most one row exists per
// (employee, month, year); a re-upload replaces filename, filepath and
// timestamp in place.
type Upload struct {
	ID         int64
	EmployeeID int64
	Month      int
	Year       int
	Filename   string
	Filepath   string
	UploadDate time.Time
}

// Reminder logs a sent reminder mail of a given kind for audit and
// statistics. It does not enforce at-most-once delivery.
type Reminder struct {
	ID         int64
	EmployeeID int64
	Month      int
	Year       int
	Kind       string // "first", "second" or "final"
	SentAt     time.Time
}

// AdminEmail is one entry of the distribution list that receives
// upload notices.
type AdminEmail struct {
	ID        int64
	Email     string
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeStatus is an active employee joined with their upload state
// for a specific period.
type EmployeeStatus struct {
	Employee
	Uploaded   bool
	Filename   *string
	UploadDate *time.Time
}

// Stats holds the aggregate numbers shown on the admin dashboard.
type Stats struct {
	TotalEmployees    int64
	UploadedEmployees int64
	PendingEmployees  int64
	RemindersSent     int64
	Month             int
	Year              int
}
