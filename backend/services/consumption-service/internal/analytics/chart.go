package analytics

import "dropzero/backend/services/consumption-service/internal/models"

// Chart timeframes.
const (
	Timeframe90Days = "90days"
	Timeframe1Year  = "1year"
)

const chartLabelLayout = "02/01"

// ChartLimit returns how many weekly points a timeframe covers. Unknown
// values fall back to 90 days.
func ChartLimit(timeframe string) int {
	if timeframe == Timeframe1Year {
		return 52
	}
	return 12
}

// Chart turns readings ordered newest first into chronological points.
func Chart(readings []models.WeeklyReading) []models.ChartPoint {
	points := make([]models.ChartPoint, len(readings))
	for i, r := range readings {
		points[len(readings)-1-i] = models.ChartPoint{
			Label:  r.WeekEndDate.Format(chartLabelLayout),
			Liters: r.VolumeConsumed,
			Cost:   r.Cost,
		}
	}
	return points
}
