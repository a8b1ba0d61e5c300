package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zeitnachweis/internal/server/api"
	"zeitnachweis/internal/server/auth"
	"zeitnachweis/internal/server/config"
	"zeitnachweis/internal/server/database"
	"zeitnachweis/internal/server/mail"
	"zeitnachweis/internal/server/scheduler"
	"zeitnachweis/internal/server/service"
	"zeitnachweis/internal/server/storage"
)

// defaultAdminPassword seeds the admin credential on first start.
const defaultAdminPassword = "admin123"

func main() {
	// Structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg := config.Load()
	slog.Info("configuration loaded",
		"port", cfg.Port,
		"storage_path", cfg.StoragePath,
		"max_file_size", cfg.MaxFileSize,
		"upload_window_days", cfg.UploadWindowDays,
		"smtp_configured", cfg.SMTPConfigured(),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations complete")

	repo := database.NewRepository(db)

	// Seed the admin password when none exists yet
	if err := seedAdminPassword(ctx, repo); err != nil {
		slog.Error("failed to seed admin password", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store := storage.NewFileSystemStore(cfg.StoragePath)
	if err := store.EnsureDir(); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	slog.Info("file storage initialized", "path", cfg.StoragePath)

	// Mailer (degrades to a no-op without SMTP credentials)
	mailer := mail.New(cfg)

	// Background upload-notice queue
	notifierCtx, notifierCancel := context.WithCancel(context.Background())
	notifier := service.NewNotifier(repo, mailer, cfg)
	notifier.Start(notifierCtx)

	// Services
	uploads := service.NewUploadService(repo, store, cfg, notifier)
	reminders := service.NewReminderService(repo, mailer, cfg)

	// Reminder cron (5th/10th/15th at 09:00, previous month)
	sched := scheduler.New(reminders)
	if err := sched.Start(); err != nil {
		slog.Error("failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}

	// Admin sessions (in-memory, lost on restart)
	sessions := auth.NewMemorySessionStore(cfg.SessionTTL)

	// Setup HTTP router
	handler := api.NewHandler(uploads, reminders, repo, mailer, sessions, db, cfg)
	e := api.SetupRouter(handler, cfg)

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		slog.Info("starting server", "addr", addr, "base_url", cfg.BaseURL)
		if err := e.Start(addr); err != nil {
			slog.Info("server stopped", "reason", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down", "signal", sig)

	// Stop accepting new requests, finish in-flight with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Stop cron, then drain queued upload notices
	sched.Stop()
	notifierCancel()
	notifier.Wait()

	slog.Info("server exited cleanly")
}

func seedAdminPassword(ctx context.Context, repo *database.Repository) error {
	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}
	seeded, err := repo.EnsureAdminPassword(ctx, hash)
	if err != nil {
		return err
	}
	if seeded {
		slog.Warn("default admin password set, change it after first login")
	}
	return nil
}
