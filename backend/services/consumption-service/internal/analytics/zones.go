package analytics

import (
	"github.com/shopspring/decimal"

	"dropzero/backend/services/consumption-service/internal/models"
)

// SummarizeZones rolls the latest reading of every meter up into the fixed
// district list. Only active meters map readings to a zone; readings whose
// meter is unknown, inactive or placed outside the known districts are
// counted in Unattributed instead.
func SummarizeZones(latest []models.WeeklyReading, meters []models.Meter) models.ZoneReport {
	zoneOf := make(map[string]models.Zone, len(meters))
	for _, m := range meters {
		if m.Active() {
			zoneOf[m.ID] = m.Zone
		}
	}

	type bucket struct {
		total     decimal.Decimal
		anomalies int
	}
	buckets := make(map[models.Zone]*bucket, len(models.Zones))
	for _, z := range models.Zones {
		buckets[z] = &bucket{}
	}

	report := models.ZoneReport{Zones: make([]models.ZoneSummary, 0, len(models.Zones))}
	for _, r := range latest {
		b, ok := buckets[zoneOf[r.MeterID]]
		if !ok {
			report.Unattributed++
			continue
		}
		b.total = b.total.Add(decimal.NewFromFloat(r.VolumeM3))
		if IsAnomalous(r.VolumeM3) {
			b.anomalies++
		}
	}

	for _, z := range models.Zones {
		b := buckets[z]
		report.Zones = append(report.Zones, models.ZoneSummary{
			Name:        z,
			Status:      zoneStatus(b.anomalies),
			Consumption: b.total.Round(1).InexactFloat64(),
			Anomalies:   b.anomalies,
		})
	}
	return report
}

func zoneStatus(anomalies int) string {
	switch {
	case anomalies > zoneCriticalAnomalies:
		return models.StatusCritical
	case anomalies > 0:
		return models.StatusWarning
	default:
		return models.StatusOK
	}
}
