package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	libdb "dropzero/backend/libs/db"
	"dropzero/backend/services/consumption-service/internal/models"
)

const readingColumns = `
	id, meter_id, user_id, week_start_date, week_end_date, reading_date,
	previous_reading, current_reading, volume_consumed, volume_m3,
	reading_method, data_quality, cost, cost_breakdown, created_at
`

// BuildReading derives the row to insert from the locked meter and its
// highest prior reading (nil when the meter has none). Returning an error
// aborts the append.
type BuildReading func(meter models.Meter, last *models.WeeklyReading) (*models.WeeklyReading, error)

// ReadingRepository persists weekly readings.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository returns repository.
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Insert stores a reading as is.
func (r *ReadingRepository) Insert(ctx context.Context, reading *models.WeeklyReading) error {
	return insertReading(ctx, r.db, reading)
}

// ListByUser returns a user's readings, newest week first.
func (r *ReadingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.WeeklyReading, error) {
	query := `SELECT ` + readingColumns + `
		FROM weekly_readings
		WHERE user_id = $1
		ORDER BY week_end_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list readings for user %d: %w", userID, err)
	}
	return collectReadings(rows)
}

// CountByUser returns how many readings a user has.
func (r *ReadingRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM weekly_readings WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count readings for user %d: %w", userID, err)
	}
	return total, nil
}

// ForEachByUser streams every reading of a user, oldest week first.
func (r *ReadingRepository) ForEachByUser(ctx context.Context, userID int64, fn func(models.WeeklyReading) error) error {
	query := `SELECT ` + readingColumns + `
		FROM weekly_readings
		WHERE user_id = $1
		ORDER BY week_end_date ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("stream readings for user %d: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return err
		}
		if err := fn(*reading); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LatestPerMeter returns the most recent reading of every meter.
func (r *ReadingRepository) LatestPerMeter(ctx context.Context) ([]models.WeeklyReading, error) {
	query := `SELECT DISTINCT ON (meter_id) ` + readingColumns + `
		FROM weekly_readings
		ORDER BY meter_id, week_end_date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("latest readings per meter: %w", err)
	}
	return collectReadings(rows)
}

// AppendManual locks the user's active meter row, loads the meter's highest
// cumulative reading and inserts whatever build returns, all in one
// transaction. Concurrent appends for the same meter are serialised by the
// row lock. Returns ErrNotFound when the user has no active meter.
func (r *ReadingRepository) AppendManual(ctx context.Context, userID int64, build BuildReading) (*models.WeeklyReading, error) {
	var created *models.WeeklyReading
	err := libdb.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		meter, err := lockActiveMeter(ctx, tx, userID)
		if err != nil {
			return err
		}

		last, err := highestReading(ctx, tx, meter.ID)
		if err != nil {
			return err
		}

		reading, err := build(*meter, last)
		if err != nil {
			return err
		}
		if err := insertReading(ctx, tx, reading); err != nil {
			return err
		}
		created = reading
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func lockActiveMeter(ctx context.Context, tx *sql.Tx, userID int64) (*models.Meter, error) {
	query := `SELECT ` + meterColumns + `
		FROM meters
		WHERE user_id = $1 AND status = $2
		ORDER BY installed_at DESC
		LIMIT 1
		FOR UPDATE
	`
	meter, err := scanMeter(tx.QueryRowContext(ctx, query, userID, models.MeterActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock meter for user %d: %w", userID, err)
	}
	return meter, nil
}

func highestReading(ctx context.Context, tx *sql.Tx, meterID string) (*models.WeeklyReading, error) {
	query := `SELECT ` + readingColumns + `
		FROM weekly_readings
		WHERE meter_id = $1
		ORDER BY current_reading DESC, week_end_date DESC
		LIMIT 1
	`
	reading, err := scanReading(tx.QueryRowContext(ctx, query, meterID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("highest reading for meter %s: %w", meterID, err)
	}
	return reading, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertReading(ctx context.Context, db rowQuerier, reading *models.WeeklyReading) error {
	var breakdown []byte
	if reading.CostBreakdown != nil {
		var err error
		if breakdown, err = json.Marshal(reading.CostBreakdown); err != nil {
			return fmt.Errorf("encode cost breakdown: %w", err)
		}
	}

	const query = `
		INSERT INTO weekly_readings (
			id, meter_id, user_id, week_start_date, week_end_date, reading_date,
			previous_reading, current_reading, volume_consumed, volume_m3,
			reading_method, data_quality, cost, cost_breakdown, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING created_at
	`
	err := db.QueryRowContext(ctx, query,
		reading.ID,
		reading.MeterID,
		reading.UserID,
		reading.WeekStartDate,
		reading.WeekEndDate,
		reading.ReadingDate,
		reading.PreviousReading,
		reading.CurrentReading,
		reading.VolumeConsumed,
		reading.VolumeM3,
		reading.Method,
		reading.Quality,
		reading.Cost,
		breakdown,
	).Scan(&reading.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert reading %s: %w", reading.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert reading %s: %w", reading.ID, err)
	}
	return nil
}

func collectReadings(rows *sql.Rows) ([]models.WeeklyReading, error) {
	defer rows.Close()

	readings := make([]models.WeeklyReading, 0)
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, *reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return readings, nil
}

func scanReading(row rowScanner) (*models.WeeklyReading, error) {
	var (
		r         models.WeeklyReading
		breakdown []byte
	)
	if err := row.Scan(
		&r.ID,
		&r.MeterID,
		&r.UserID,
		&r.WeekStartDate,
		&r.WeekEndDate,
		&r.ReadingDate,
		&r.PreviousReading,
		&r.CurrentReading,
		&r.VolumeConsumed,
		&r.VolumeM3,
		&r.Method,
		&r.Quality,
		&r.Cost,
		&breakdown,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		r.CostBreakdown = &models.CostBreakdown{}
		if err := json.Unmarshal(breakdown, r.CostBreakdown); err != nil {
			return nil, fmt.Errorf("decode cost breakdown of %s: %w", r.ID, err)
		}
	}
	return &r, nil
}
