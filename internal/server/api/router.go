package api

import (
	"zeitnachweis/internal/server/config"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRouter creates and configures the echo router with all routes and middleware.
func SetupRouter(handler *Handler, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))
	e.Use(RequestLogger())

	// Rate limiter on the upload endpoint only
	uploadLimiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Health
	e.GET("/api/health", handler.HandleHealth)

	// Employees
	e.GET("/api/employees", handler.HandleListEmployees)
	e.GET("/api/employees/status", handler.HandleEmployeeStatus)
	e.POST("/api/employees", handler.HandleCreateEmployee)
	e.DELETE("/api/employees/:id", handler.HandleDeleteEmployee)

	// Upload (rate-limited)
	e.POST("/api/upload", handler.HandleUpload, uploadLimiter.Middleware())

	// Admin
	admin := e.Group("/api/admin")
	admin.POST("/login", handler.HandleLogin)
	admin.POST("/verify", handler.HandleVerify)
	admin.POST("/change-password", handler.HandleChangePassword)
	admin.GET("/emails", handler.HandleListAdminEmails)
	admin.POST("/emails", handler.HandleSaveAdminEmail)
	admin.DELETE("/emails/:id", handler.HandleDeleteAdminEmail)
	admin.POST("/test-smtp", handler.HandleTestSMTP)
	admin.POST("/test-emails", handler.HandleTestEmails)
	admin.POST("/test-email", handler.HandleSendTestEmail)
	admin.GET("/email-stats", handler.HandleEmailStats)

	return e
}
