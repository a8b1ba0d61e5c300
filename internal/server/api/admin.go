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
	"zeitnachweis/internal/server/database"
	"zeitnachweis/internal/server/mail"
)

// HandleLogin handles POST /api/admin/login.
// Checks the shared admin password and issues an opaque session token.
func (h *Handler) HandleLogin(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Passwort fehlt"})
	}

	hash, err := h.repo.AdminPasswordHash(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Login"})
	}
	if !auth.CheckPassword(hash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Falsches Passwort"})
	}

	token, err := auth.NewToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Login"})
	}
	h.sessions.Insert(token)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login erfolgreich",
		"token":   token,
	})
}

// HandleVerify handles POST /api/admin/verify.
func (h *Handler) HandleVerify(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"valid": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": req.Token != "" && h.sessions.Valid(req.Token)})
}

// HandleChangePassword handles POST /api/admin/change-password.
// Requires a valid session token and the current password.
func (h *Handler) HandleChangePassword(c echo.Context) error {
	var req struct {
		Token           string `json:"token"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültige Anfrage"})
	}

	if req.Token == "" || !h.sessions.Valid(req.Token) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Nicht autorisiert"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Aktuelles und neues Passwort erforderlich"})
	}

	ctx := c.Request().Context()
	hash, err := h.repo.AdminPasswordHash(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Passwort ändern"})
	}
	if !auth.CheckPassword(hash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Aktuelles Passwort ist falsch"})
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Passwort ändern"})
	}
	if err := h.repo.SetAdminPasswordHash(ctx, newHash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Passwort ändern"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Passwort erfolgreich geändert"})
}

// HandleListAdminEmails handles GET /api/admin/emails.
func (h *Handler) HandleListAdminEmails(c echo.Context) error {
	emails, err := h.repo.ListAdminEmails(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Laden der Admin-Emails"})
	}

	type adminEmailJSON struct {
		ID        int64     `json:"id"`
		Email     string    `json:"email"`
		Label     string    `json:"label"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	out := make([]adminEmailJSON, 0, len(emails))
	for _, a := range emails {
		out = append(out, adminEmailJSON{
			ID:        a.ID,
			Email:     a.Email,
			Label:     a.Label,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// HandleSaveAdminEmail handles POST /api/admin/emails.
// Adds a recipient to the upload-notice distribution list or updates
// its label.
func (h *Handler) HandleSaveAdminEmail(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		Label string `json:"label"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültige Anfrage"})
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "E-Mail ist erforderlich"})
	}

	if err := h.repo.UpsertAdminEmail(c.Request().Context(), email, req.Label); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Speichern der Admin-Email"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Admin-Email erfolgreich gespeichert",
		"email":   email,
		"label":   req.Label,
	})
}

// HandleDeleteAdminEmail handles DELETE /api/admin/emails/:id.
func (h *Handler) HandleDeleteAdminEmail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin-Email nicht gefunden"})
	}

	if err := h.repo.DeleteAdminEmail(c.Request().Context(), id); err != nil {
		if errors.Is(err, database.ErrAdminEmailNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin-Email nicht gefunden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Löschen der Admin-Email"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Admin-Email erfolgreich gelöscht"})
}

// HandleTestSMTP handles POST /api/admin/test-smtp.
// Dials the relay without sending and reports redacted connection info.
func (h *Handler) HandleTestSMTP(c echo.Context) error {
	info, err := h.mailer.Verify(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":     "SMTP-Verbindung fehlgeschlagen",
			"details":   err.Error(),
			"smtp_host": info.Host,
			"smtp_port": info.Port,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "SMTP-Verbindung erfolgreich",
		"smtp_host":  info.Host,
		"smtp_port":  info.Port,
		"smtp_user":  userStatus(info.UserConfigured),
		"email_from": info.From,
	})
}

func userStatus(configured bool) string {
	if configured {
		return "konfiguriert"
	}
	return "nicht konfiguriert"
}

// HandleTestEmails handles POST /api/admin/test-emails.
// Manually fires a reminder batch for the previous month.
func (h *Handler) HandleTestEmails(c echo.Context) error {
	var req struct {
		ReminderType string `json:"reminderType"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültige Anfrage"})
	}

	period := core.PreviousPeriod(time.Now())
	result, err := h.reminders.RunBatch(c.Request().Context(), req.ReminderType, period)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   result.Kind + " Erinnerungs-Emails versendet",
		"period":    period.Label(),
		"sent":      result.Sent,
		"failed":    result.Failed,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleSendTestEmail handles POST /api/admin/test-email.
// Sends one real test mail to the given recipient.
func (h *Handler) HandleSendTestEmail(c echo.Context) error {
	var req struct {
		Recipient string `json:"recipient"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Recipient) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Empfänger ist erforderlich"})
	}

	subject, body, err := mail.TestMail(h.cfg.SMTPHost, h.cfg.SMTPPort, h.cfg.FromAddress(), time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Erstellen der Test-Email"})
	}

	err = h.mailer.Send(c.Request().Context(), mail.Message{
		To:      req.Recipient,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "Email-Konfiguration unvollständig",
				"details": "SMTP_PASS Umgebungsvariable muss konfiguriert werden",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Fehler beim Versenden der Email",
			"details": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Test-Email erfolgreich versendet",
		"recipient": req.Recipient,
	})
}

// HandleEmailStats handles GET /api/admin/email-stats.
// Upload progress refers to the current month, reminder counts to the
// previous month (the reminder target period).
func (h *Handler) HandleEmailStats(c echo.Context) error {
	now := time.Now()
	stats, err := h.repo.GetStats(c.Request().Context(), core.CurrentPeriod(now), core.PreviousPeriod(now))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Fehler beim Laden der Statistiken"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_employees":    stats.TotalEmployees,
		"uploaded_employees": stats.UploadedEmployees,
		"pending_employees":  stats.PendingEmployees,
		"reminders_sent":     stats.RemindersSent,
		"month":              stats.Month,
		"year":               stats.Year,
		"status_for":         "current_month",
	})
}
