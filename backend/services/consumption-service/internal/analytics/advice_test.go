package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzero/backend/services/consumption-service/internal/models"
)

func adviceIDs(items []models.AdviceItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestAdviceStaticOnly(t *testing.T) {
	winter := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	items := Advice(nil, winter)

	assert.Equal(t, []string{"edu-1", "edu-2", "edu-3", "edu-4"}, adviceIDs(items))
}

func TestAdviceTrendAndSeason(t *testing.T) {
	summer := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	readings := []models.WeeklyReading{
		week("a", 0, 12000, 27.51),
		week("b", 1, 10000, 23.31),
	}

	items := Advice(readings, summer)

	require.Equal(t, []string{"trend-alert", "season-summer", "edu-1", "edu-2", "edu-3", "edu-4"}, adviceIDs(items))
	assert.Contains(t, items[0].Description, "20%")
	assert.Equal(t, "URGENT", items[0].Category)
}

func TestAdviceTrendBelowThreshold(t *testing.T) {
	spring := time.Date(2024, time.May, 31, 23, 0, 0, 0, time.UTC)
	readings := []models.WeeklyReading{
		week("a", 0, 11400, 26.25),
		week("b", 1, 10000, 23.31),
	}

	assert.Equal(t, []string{"edu-1", "edu-2", "edu-3", "edu-4"}, adviceIDs(Advice(readings, spring)))
}

func TestAdviceSeasonBoundaries(t *testing.T) {
	for _, tc := range []struct {
		month time.Month
		want  bool
	}{
		{time.May, false},
		{time.June, true},
		{time.September, true},
		{time.October, false},
	} {
		items := Advice(nil, time.Date(2024, tc.month, 10, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, tc.want, len(items) == 5, "month %s", tc.month)
	}
}

func TestAdviceSkipsTrendWhenPreviousIsZero(t *testing.T) {
	readings := []models.WeeklyReading{
		week("a", 0, 5000, 12.81),
		week("b", 1, 0, 2.31),
	}
	items := Advice(readings, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	assert.Len(t, items, 4)
}
