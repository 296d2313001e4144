package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dropzero/backend/services/consumption-service/internal/models"
)

const meterColumns = `
	id, user_id, meter_type, status, zone, location,
	latitude, longitude, installed_at, created_at
`

// MeterRepository handles meter lookups.
type MeterRepository struct {
	db *sql.DB
}

// NewMeterRepository returns repository.
func NewMeterRepository(db *sql.DB) *MeterRepository {
	return &MeterRepository{db: db}
}

// Create inserts a meter. Returns ErrDuplicate when the id is taken.
func (r *MeterRepository) Create(ctx context.Context, m *models.Meter) error {
	const query = `
		INSERT INTO meters (id, user_id, meter_type, status, zone, location, latitude, longitude, installed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID,
		m.UserID,
		m.Type,
		m.Status,
		m.Zone,
		m.Location,
		m.Latitude,
		m.Longitude,
		m.InstalledAt,
	).Scan(&m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert meter %s: %w", m.ID, err)
	}
	return nil
}

// GetByID fetches a meter.
func (r *MeterRepository) GetByID(ctx context.Context, id string) (*models.Meter, error) {
	query := `SELECT ` + meterColumns + ` FROM meters WHERE id = $1`
	m, err := scanMeter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get meter %s: %w", id, err)
	}
	return m, nil
}

// ListActive returns every active meter.
func (r *MeterRepository) ListActive(ctx context.Context) ([]models.Meter, error) {
	query := `SELECT ` + meterColumns + ` FROM meters WHERE status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, models.MeterActive)
	if err != nil {
		return nil, fmt.Errorf("list active meters: %w", err)
	}
	return collectMeters(rows)
}

// ListByIDs returns the meters with the given ids keyed by id, whatever
// their status. Unknown ids are absent from the map.
func (r *MeterRepository) ListByIDs(ctx context.Context, ids []string) (map[string]models.Meter, error) {
	out := make(map[string]models.Meter, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + meterColumns + ` FROM meters WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list meters by id: %w", err)
	}
	meters, err := collectMeters(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range meters {
		out[m.ID] = m
	}
	return out, nil
}

// CountActive returns the number of active meters.
func (r *MeterRepository) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM meters WHERE status = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, query, models.MeterActive).Scan(&total); err != nil {
		return 0, fmt.Errorf("count active meters: %w", err)
	}
	return total, nil
}

func collectMeters(rows *sql.Rows) ([]models.Meter, error) {
	defer rows.Close()

	meters := make([]models.Meter, 0)
	for rows.Next() {
		m, err := scanMeter(rows)
		if err != nil {
			return nil, err
		}
		meters = append(meters, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meters: %w", err)
	}
	return meters, nil
}

func scanMeter(row rowScanner) (*models.Meter, error) {
	var m models.Meter
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Type,
		&m.Status,
		&m.Zone,
		&m.Location,
		&m.Latitude,
		&m.Longitude,
		&m.InstalledAt,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
