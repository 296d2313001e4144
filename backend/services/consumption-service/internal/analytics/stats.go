package analytics

import (
	"github.com/shopspring/decimal"

	"dropzero/backend/services/consumption-service/internal/models"
)

// Territorial computes the municipality headline figures from the latest
// reading per meter.
func Territorial(latest []models.WeeklyReading, activeMeters int) models.TerritorialStats {
	total := decimal.Zero
	alerts := 0
	for _, r := range latest {
		total = total.Add(decimal.NewFromFloat(r.VolumeM3))
		if IsAnomalous(r.VolumeM3) {
			alerts++
		}
	}
	return models.TerritorialStats{
		Municipality:             models.Municipality,
		TotalMeters:              activeMeters,
		TotalConsumptionLastWeek: total.Round(2).InexactFloat64(),
		ActiveAlerts:             alerts,
	}
}
