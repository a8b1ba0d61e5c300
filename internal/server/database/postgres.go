package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations contains all database migrations in order.
// Each migration has a version key and SQL to execute.
var migrations = []struct {
	Version string
	SQL     string
}{
	{
		Version: "000001_create_employees",
		SQL: `
			CREATE TABLE IF NOT EXISTS employees (
				id         BIGSERIAL    PRIMARY KEY,
				firstname  VARCHAR(255) NOT NULL,
				lastname   VARCHAR(255) NOT NULL,
				email      VARCHAR(255) NOT NULL UNIQUE,
				active     BOOLEAN      NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		Version: "000002_create_uploads",
		SQL: `
			CREATE TABLE IF NOT EXISTS uploads (
				id          BIGSERIAL    PRIMARY KEY,
				employee_id BIGINT       NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				month       INTEGER      NOT NULL CHECK (month BETWEEN 1 AND 12),
				year        INTEGER      NOT NULL,
				filename    VARCHAR(255) NOT NULL,
				filepath    VARCHAR(500) NOT NULL,
				upload_date TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
				UNIQUE (employee_id, month, year)
			);
		`,
	},
	{
		Version: "000003_create_reminders",
		SQL: `
			CREATE TABLE IF NOT EXISTS reminders (
				id          BIGSERIAL   PRIMARY KEY,
				employee_id BIGINT      NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				month       INTEGER     NOT NULL CHECK (month BETWEEN 1 AND 12),
				year        INTEGER     NOT NULL,
				kind        VARCHAR(16) NOT NULL CHECK (kind IN ('first', 'second', 'final')),
				sent_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_reminders_period ON reminders(month, year);
		`,
	},
	{
		Version: "000004_create_admin_emails",
		SQL: `
			CREATE TABLE IF NOT EXISTS admin_emails (
				id         BIGSERIAL    PRIMARY KEY,
				email      VARCHAR(255) NOT NULL UNIQUE,
				label      VARCHAR(100) NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		Version: "000005_create_admin_password",
		SQL: `
			CREATE TABLE IF NOT EXISTS admin_password (
				id            INTEGER      PRIMARY KEY DEFAULT 1 CHECK (id = 1),
				password_hash VARCHAR(255) NOT NULL,
				updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
			);
		`,
	},
}

// DB wraps a pgxpool connection pool and provides health checks and migrations.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("connected to database")
	return &DB{Pool: pool}, nil
}

// RunMigrations applies all pending database migrations in order.
func (db *DB) RunMigrations(ctx context.Context) error {
	// Create migrations tracking table
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		// Check if already applied
		var exists bool
		err := db.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			m.Version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status for %s: %w", m.Version, err)
		}
		if exists {
			continue
		}

		// Execute migration in a transaction
		tx, err := db.Pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", m.Version, err)
		}

		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to execute migration %s: %w", m.Version, err)
		}

		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.Version); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", m.Version, err)
		}

		slog.Info("applied migration", "version", m.Version)
	}

	return nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
