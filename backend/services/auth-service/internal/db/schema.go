package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UsersTableSQL creates the users table. consumption-service reads the
// name and address columns for alert enrichment.
const UsersTableSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'private',
		first_name TEXT,
		last_name TEXT,
		fiscal_code TEXT UNIQUE,
		address TEXT,
		phone TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// EnsureSchema creates the users table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, UsersTableSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
