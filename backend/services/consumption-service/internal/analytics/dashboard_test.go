package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzero/backend/services/consumption-service/internal/models"
)

func TestDashboardNoData(t *testing.T) {
	stats := Dashboard(nil, fixedPicker(0))

	assert.False(t, stats.HasData)
	assert.Zero(t, stats.CurrentConsumption)
	assert.Zero(t, stats.TrendPercentage)
	assert.Zero(t, stats.SavingsPercentage)
	assert.Zero(t, stats.EstimatedCost)
	assert.Zero(t, stats.CostTrendPercentage)
	assert.Nil(t, stats.LastReadingDate)
	require.NotNil(t, stats.Suggestions)
	assert.Empty(t, stats.Suggestions)
}

func TestDashboardSingleReading(t *testing.T) {
	stats := Dashboard([]models.WeeklyReading{week("a", 0, 5000, 12.81)}, fixedPicker(3))

	assert.True(t, stats.HasData)
	assert.Equal(t, int64(5000), stats.CurrentConsumption)
	assert.Zero(t, stats.TrendPercentage)
	assert.Zero(t, stats.SavingsPercentage)
	assert.Equal(t, 5000.0, stats.AverageConsumption)
	assert.Equal(t, CostAverage, stats.CostStatus)
	assert.Equal(t, 55.47, stats.EstimatedCost)
	assert.Equal(t, 12.81, stats.WeeklyCost)
	require.NotNil(t, stats.LastReadingDate)
	assert.True(t, stats.LastReadingDate.Equal(baseWeek))

	require.Len(t, stats.Suggestions, 1)
	assert.Equal(t, "Eco goal", stats.Suggestions[0].Title)
}

func TestDashboardSpikeAndHighAbsolute(t *testing.T) {
	readings := []models.WeeklyReading{
		week("a", 0, 13000, 29.61),
		week("b", 1, 10000, 23.31),
		week("c", 2, 10000, 23.31),
		week("d", 3, 10000, 23.31),
		week("e", 4, 10000, 23.31),
	}

	stats := Dashboard(readings, fixedPicker(0))

	assert.Equal(t, 30.0, stats.TrendPercentage)
	assert.Equal(t, -30.0, stats.SavingsPercentage)
	assert.Equal(t, CostIncreasing, stats.CostStatus)

	require.Len(t, stats.Suggestions, 2)
	assert.Equal(t, "Consumption spike", stats.Suggestions[0].Title)
	assert.Contains(t, stats.Suggestions[0].Text, "30%")
	// 13000 is not strictly above 1.3 x 10000.
	assert.Equal(t, "High consumption", stats.Suggestions[1].Title)
}

func TestDashboardGoodSavingsGetsTip(t *testing.T) {
	readings := []models.WeeklyReading{
		week("a", 0, 5000, 12.81),
		week("b", 1, 10000, 23.31),
		week("c", 2, 10000, 23.31),
	}

	stats := Dashboard(readings, fixedPicker(2))

	assert.Equal(t, -50.0, stats.TrendPercentage)
	assert.Equal(t, 50.0, stats.SavingsPercentage)
	assert.Equal(t, CostDeclining, stats.CostStatus)
	assert.Equal(t, -45.0, stats.CostTrendPercentage)

	require.Len(t, stats.Suggestions, 2)
	assert.Equal(t, models.SuggestionSuccess, stats.Suggestions[0].Type)
	assert.Contains(t, stats.Suggestions[0].Text, "50%")
	assert.Equal(t, "Leak check", stats.Suggestions[1].Title)
}

func TestDashboardSuggestionsCapped(t *testing.T) {
	readings := []models.WeeklyReading{
		week("a", 0, 20000, 44.31),
		week("b", 1, 10000, 23.31),
	}

	stats := Dashboard(readings, TipPickerFunc(func(string, int) int {
		t.Fatal("tip should not be picked when enough suggestions fired")
		return 0
	}))

	require.Len(t, stats.Suggestions, 3)
	assert.Equal(t, "Consumption spike", stats.Suggestions[0].Title)
	assert.Equal(t, "Above average", stats.Suggestions[1].Title)
	assert.Equal(t, "High consumption", stats.Suggestions[2].Title)
}

func TestDashboardPreviousZeroVolume(t *testing.T) {
	readings := []models.WeeklyReading{
		week("a", 0, 4000, 10.71),
		week("b", 1, 0, 2.31),
	}

	stats := Dashboard(readings, fixedPicker(0))

	assert.Zero(t, stats.TrendPercentage)
	// average is 0, so savings are guarded too.
	assert.Zero(t, stats.SavingsPercentage)
}

func TestDashboardUsesOnlyRecentWindow(t *testing.T) {
	readings := []models.WeeklyReading{
		week("a", 0, 10000, 23.31),
		week("b", 1, 10000, 23.31),
		week("c", 2, 10000, 23.31),
		week("d", 3, 10000, 23.31),
		week("e", 4, 10000, 23.31),
		week("f", 5, 900000, 1892.31),
	}

	stats := Dashboard(readings, fixedPicker(0))

	assert.Equal(t, 10000.0, stats.AverageConsumption)
	assert.Zero(t, stats.SavingsPercentage)
	assert.Zero(t, stats.CostTrendPercentage)
}

func TestDashboardOutOfRangePickIsWrapped(t *testing.T) {
	stats := Dashboard([]models.WeeklyReading{week("a", 0, 1000, 4.41)}, fixedPicker(-1))

	require.Len(t, stats.Suggestions, 1)
	assert.Equal(t, "Eco goal", stats.Suggestions[0].Title)
}

func TestDashboardDefaultTipIsStable(t *testing.T) {
	readings := []models.WeeklyReading{week("MN-42", 0, 1000, 4.41)}

	first := Dashboard(readings, nil)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Dashboard(readings, ReadingTips))
	}
	require.Len(t, first.Suggestions, 1)
}

func TestReadingTipsVariesWithReading(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 64; i++ {
		idx := ReadingTips.Pick(fmt.Sprintf("MN-%d", i), 4)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 4)
		seen[idx] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestDashboardPicksWithCurrentReadingID(t *testing.T) {
	var gotKey string
	Dashboard([]models.WeeklyReading{week("MN-7", 0, 1000, 4.41), week("MN-6", 1, 1000, 4.41)},
		TipPickerFunc(func(key string, _ int) int {
			gotKey = key
			return 0
		}))
	assert.Equal(t, "MN-7", gotKey)
}

func TestCostStatusBands(t *testing.T) {
	cases := []struct {
		trend float64
		want  string
	}{
		{-20, CostDeclining},
		{-5.1, CostDeclining},
		{-5, CostAverage},
		{0, CostAverage},
		{5, CostAverage},
		{5.1, CostSlightlyIncreasing},
		{15, CostSlightlyIncreasing},
		{15.1, CostIncreasing},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CostStatus(tc.trend), "trend %v", tc.trend)
	}
}
