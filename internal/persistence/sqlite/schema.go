package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations run once each, in order. Append only; never rewrite an entry
// that may have shipped.
var migrations = []string{
	`CREATE TABLE operators (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		is_admin      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE sessions (
		id          TEXT PRIMARY KEY,
		operator_id TEXT NOT NULL REFERENCES operators(id) ON DELETE CASCADE,
		token       TEXT NOT NULL UNIQUE,
		expires_at  TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		revoked_at  TEXT
	)`,
	`CREATE TABLE services (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		kind       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE employees (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		contract_type   TEXT NOT NULL,
		weekly_hours    TEXT NOT NULL,
		main_service_id TEXT NOT NULL REFERENCES services(id),
		working_days    TEXT NOT NULL,
		day_start       TEXT NOT NULL,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE TABLE employee_services (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		service_id  TEXT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
		PRIMARY KEY (employee_id, service_id)
	)`,
	`CREATE TABLE room_types (
		id               TEXT PRIMARY KEY,
		label            TEXT NOT NULL,
		count            INTEGER NOT NULL CHECK (count >= 0),
		cleaning_minutes INTEGER NOT NULL CHECK (cleaning_minutes > 0),
		updated_at       TEXT NOT NULL
	)`,
	`CREATE TABLE staffing_config (
		id                     INTEGER PRIMARY KEY CHECK (id = 1),
		working_hours_per_day  REAL NOT NULL CHECK (working_hours_per_day > 0),
		safety_margin          REAL NOT NULL CHECK (safety_margin >= 0),
		weekly_hours_per_staff REAL NOT NULL CHECK (weekly_hours_per_staff > 0),
		rest_days_per_week     INTEGER NOT NULL CHECK (rest_days_per_week BETWEEN 0 AND 6),
		annual_leave_days      INTEGER NOT NULL CHECK (annual_leave_days >= 0),
		break_minutes          INTEGER NOT NULL CHECK (break_minutes >= 0),
		updated_at             TEXT NOT NULL
	)`,
	`CREATE TABLE leave_records (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		days_count  INTEGER NOT NULL CHECK (days_count >= 0),
		year        INTEGER NOT NULL,
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		CHECK (end_date >= start_date)
	)`,
	`CREATE INDEX idx_leave_records_employee_year ON leave_records(employee_id, year)`,
	`CREATE TABLE applied_schedules (
		id                 TEXT PRIMARY KEY,
		employee_id        TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		total_weekly_hours REAL NOT NULL,
		break_minutes      INTEGER NOT NULL,
		applied_at         TEXT NOT NULL
	)`,
}

// Migrate brings the schema up to the latest version. Applied versions are
// tracked in schema_migrations so restarts are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	var current int
	row := d.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	for version := current + 1; version <= len(migrations); version++ {
		statement := migrations[version-1]
		err := d.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, version)
			return err
		})
		if err != nil {
			return fmt.Errorf("sqlite: migration %d: %w", version, err)
		}
	}
	return nil
}
