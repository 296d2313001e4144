package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzero/backend/services/consumption-service/internal/models"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d columns, got %d", len(dest), len(r.values))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int64:
			*d = v.(int64)
		case *float64:
			*d = v.(float64)
		case *time.Time:
			*d = v.(time.Time)
		case *[]byte:
			if v != nil {
				*d = v.([]byte)
			}
		case *models.ReadingMethod:
			*d = models.ReadingMethod(v.(string))
		case *models.ReadingQuality:
			*d = models.ReadingQuality(v.(string))
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func readingRow(breakdown []byte) fakeRow {
	end := time.Date(2024, time.April, 7, 0, 0, 0, 0, time.UTC)
	return fakeRow{values: []any{
		"MN-1", "SN-1", int64(3),
		end.AddDate(0, 0, -7), end, end,
		100.0, 105.0, int64(5000), 5.0,
		"manual", "valid", 12.81, breakdown, end,
	}}
}

func TestScanReadingDecodesBreakdown(t *testing.T) {
	r, err := scanReading(readingRow([]byte(`{"fixedCharge":2.31,"consumptionCost":10.5,"total":12.81}`)))
	require.NoError(t, err)

	assert.Equal(t, "MN-1", r.ID)
	assert.Equal(t, models.MethodManual, r.Method)
	require.NotNil(t, r.CostBreakdown)
	assert.Equal(t, 12.81, r.CostBreakdown.Total)
	assert.Equal(t, 2.31, r.CostBreakdown.FixedCharge)
}

func TestScanReadingWithoutBreakdown(t *testing.T) {
	r, err := scanReading(readingRow(nil))
	require.NoError(t, err)
	assert.Nil(t, r.CostBreakdown)
}

func TestScanReadingBadBreakdown(t *testing.T) {
	_, err := scanReading(readingRow([]byte(`{`)))
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
