package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Postgres schema for the tables owned by the consumption service.
const (
	// MetersTableSQL creates the meters table.
	MetersTableSQL = `
		CREATE TABLE IF NOT EXISTS meters (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			meter_type TEXT NOT NULL DEFAULT 'domestic',
			status TEXT NOT NULL DEFAULT 'active',
			zone TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			installed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	// MetersUserIndexSQL speeds up the active meter lookup per user.
	MetersUserIndexSQL = `
		CREATE INDEX IF NOT EXISTS meters_user_status_idx ON meters (user_id, status)
	`

	// WeeklyReadingsTableSQL creates the weekly_readings table.
	WeeklyReadingsTableSQL = `
		CREATE TABLE IF NOT EXISTS weekly_readings (
			id TEXT PRIMARY KEY,
			meter_id TEXT NOT NULL REFERENCES meters (id),
			user_id BIGINT NOT NULL,
			week_start_date TIMESTAMPTZ NOT NULL,
			week_end_date TIMESTAMPTZ NOT NULL,
			reading_date TIMESTAMPTZ NOT NULL,
			previous_reading DOUBLE PRECISION NOT NULL,
			current_reading DOUBLE PRECISION NOT NULL,
			volume_consumed BIGINT NOT NULL,
			volume_m3 DOUBLE PRECISION NOT NULL,
			reading_method TEXT NOT NULL,
			data_quality TEXT NOT NULL,
			cost NUMERIC(10, 2) NOT NULL,
			cost_breakdown JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (current_reading >= previous_reading)
		)
	`

	// WeeklyReadingsUserIndexSQL backs history, chart and dashboard queries.
	WeeklyReadingsUserIndexSQL = `
		CREATE INDEX IF NOT EXISTS weekly_readings_user_week_idx ON weekly_readings (user_id, week_end_date DESC)
	`

	// WeeklyReadingsMeterIndexSQL backs the latest-per-meter scan.
	WeeklyReadingsMeterIndexSQL = `
		CREATE INDEX IF NOT EXISTS weekly_readings_meter_week_idx ON weekly_readings (meter_id, week_end_date DESC)
	`

	// TariffsTableSQL creates the tariffs table.
	TariffsTableSQL = `
		CREATE TABLE IF NOT EXISTS tariffs (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			fixed_weekly_charge NUMERIC(10, 2) NOT NULL,
			rate_per_m3 NUMERIC(10, 4) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
)

var schema = []string{
	MetersTableSQL,
	MetersUserIndexSQL,
	WeeklyReadingsTableSQL,
	WeeklyReadingsUserIndexSQL,
	WeeklyReadingsMeterIndexSQL,
	TariffsTableSQL,
}

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
