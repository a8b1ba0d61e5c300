package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"zeitnachweis/internal/core"
	"zeitnachweis/internal/server/auth"
	"zeitnachweis/internal/server/config"
	"zeitnachweis/internal/server/database"
	"zeitnachweis/internal/server/mail"
	"zeitnachweis/internal/server/service"
)

// Handler contains the HTTP handlers for the timesheet API.
type Handler struct {
	uploads   *service.UploadService
	reminders *service.ReminderService
	repo      *database.Repository
	mailer    *mail.Mailer
	sessions  auth.SessionStore
	db        *database.DB
	cfg       *config.Config
}

// NewHandler creates a new handler with its service dependencies.
func NewHandler(
	uploads *service.UploadService,
	reminders *service.ReminderService,
	repo *database.Repository,
	mailer *mail.Mailer,
	sessions auth.SessionStore,
	db *database.DB,
	cfg *config.Config,
) *Handler {
	return &Handler{
		uploads:   uploads,
		reminders: reminders,
		repo:      repo,
		mailer:    mailer,
		sessions:  sessions,
		db:        db,
		cfg:       cfg,
	}
}

// employeeJSON is the wire shape of an employee.
type employeeJSON struct {
	ID        int64     `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toEmployeeJSON(e *database.Employee) employeeJSON {
	return employeeJSON{
		ID:        e.ID,
		Firstname: e.Firstname,
		Lastname:  e.Lastname,
		Name:      e.Name(),
		Email:     e.Email,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
	}
}

// HandleHealth handles GET /api/health.
func (h *Handler) HandleHealth(c echo.Context) error {
	status := "healthy"
	dbStatus := "connected"

	if err := h.db.HealthCheck(c.Request().Context()); err != nil {
		status = "degraded"
		dbStatus = "error: " + err.Error()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
	})
}

// HandleListEmployees handles GET /api/employees.
// Returns all employees including deactivated ones.
func (h *Handler) HandleListEmployees(c echo.Context) error {
	employees, err := h.repo.ListEmployees(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Laden der Mitarbeiter"})
	}

	out := make([]employeeJSON, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeJSON(e))
	}
	return c.JSON(http.StatusOK, out)
}

// HandleEmployeeStatus handles GET /api/employees/status.
// Lists active employees with their upload state for the current period.
func (h *Handler) HandleEmployeeStatus(c echo.Context) error {
	period := core.CurrentPeriod(time.Now())

	statuses, err := h.repo.ListEmployeeStatus(c.Request().Context(), period)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Laden der Mitarbeiter"})
	}

	type statusJSON struct {
		employeeJSON
		Uploaded   bool       `json:"uploaded"`
		Filename   *string    `json:"filename"`
		UploadDate *time.Time `json:"upload_date"`
	}

	out := make([]statusJSON, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, statusJSON{
			employeeJSON: toEmployeeJSON(&s.Employee),
			Uploaded:     s.Uploaded,
			Filename:     s.Filename,
			UploadDate:   s.UploadDate,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// HandleCreateEmployee handles POST /api/employees.
// Accepts either firstname+lastname or a single name field.
func (h *Handler) HandleCreateEmployee(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Email     string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültige Anfrage"})
	}

	firstname := strings.TrimSpace(req.Firstname)
	lastname := strings.TrimSpace(req.Lastname)
	if firstname == "" && lastname == "" && req.Name != "" {
		firstname, lastname = splitName(req.Name)
	}
	email := strings.TrimSpace(req.Email)

	if firstname == "" || lastname == "" || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Vorname, Nachname und E-Mail sind erforderlich"})
	}

	employee := &database.Employee{Firstname: firstname, Lastname: lastname, Email: email}
	if err := h.repo.CreateEmployee(c.Request().Context(), employee); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "E-Mail-Adresse bereits vorhanden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Hinzufügen des Mitarbeiters"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":        employee.ID,
		"firstname": employee.Firstname,
		"lastname":  employee.Lastname,
		"name":      employee.Name(),
		"email":     employee.Email,
		"message":   "Mitarbeiter erfolgreich hinzugefügt",
	})
}

// HandleDeleteEmployee handles DELETE /api/employees/:id.
// Employees are deactivated, not removed; their upload history stays.
func (h *Handler) HandleDeleteEmployee(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Mitarbeiter nicht gefunden"})
	}

	if err := h.repo.DeactivateEmployee(c.Request().Context(), id); err != nil {
		if errors.Is(err, database.ErrEmployeeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Mitarbeiter nicht gefunden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Löschen des Mitarbeiters"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Mitarbeiter erfolgreich deaktiviert"})
}

// HandleUpload handles POST /api/upload.
// Multipart form: file, employeeId, optional month/year. A probe=true
// request only answers whether the upload window is open and touches
// neither storage nor database.
func (h *Handler) HandleUpload(c echo.Context) error {
	now := time.Now()

	if c.FormValue("probe") == "true" {
		open := h.uploads.WindowOpen(now)
		msg := "Upload derzeit möglich"
		if !open {
			msg = "Upload-Zeitraum ist geschlossen"
		}
		return c.JSON(http.StatusOK, echo.Map{"allowed": open, "message": msg})
	}

	employeeIDRaw := c.FormValue("employeeId")
	if employeeIDRaw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Mitarbeiter-ID fehlt"})
	}
	employeeID, err := strconv.ParseInt(employeeIDRaw, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültige Mitarbeiter-ID"})
	}

	period := core.CurrentPeriod(now)
	if m := c.FormValue("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültiger Monat"})
		}
		period.Month = time.Month(month)
	}
	if y := c.FormValue("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültiges Jahr"})
		}
		period.Year = year
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Keine Datei hochgeladen"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Lesen der Datei"})
	}
	defer src.Close()

	result, err := h.uploads.ProcessUpload(
		c.Request().Context(),
		employeeID,
		period,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		src,
		fileHeader.Size,
	)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// splitName splits a combined display name into firstname and lastname.
// A single word fills both fields.
func splitName(name string) (firstname, lastname string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// mapServiceError translates service-layer errors into HTTP responses.
func mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Mitarbeiter nicht gefunden"})
	case errors.Is(err, service.ErrEmployeeInactive):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Mitarbeiter ist deaktiviert"})
	case errors.Is(err, service.ErrFileTooLarge):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Datei überschreitet die maximale Größe"})
	case errors.Is(err, service.ErrFileType):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Nur PDF, PNG, JPG, JPEG Dateien sind erlaubt"})
	case errors.Is(err, service.ErrInvalidPeriod):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültiger Zeitraum"})
	case errors.Is(err, service.ErrWindowClosed):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Upload-Zeitraum ist geschlossen"})
	case errors.Is(err, service.ErrInvalidReminderKind):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültiger Erinnerungstyp"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Interner Serverfehler"})
	}
}
