package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dropzero/backend/services/consumption-service/internal/models"
)

// UserDirectory reads the display fields of accounts owned by auth-service.
type UserDirectory struct {
	db *sql.DB
}

// NewUserDirectory returns directory.
func NewUserDirectory(db *sql.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// ByIDs returns the summaries of the given users keyed by id. Missing users
// are absent from the map.
func (d *UserDirectory) ByIDs(ctx context.Context, ids []int64) (map[int64]models.UserSummary, error) {
	out := make(map[int64]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	const query = `
		SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(address, '')
		FROM users
		WHERE id = ANY($1)
	`
	rows, err := d.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list users by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Address); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}
