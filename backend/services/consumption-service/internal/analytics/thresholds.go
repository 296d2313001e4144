package analytics

import "dropzero/backend/services/consumption-service/internal/models"

const (
	// AnomalyThresholdM3 is the weekly volume above which a reading is anomalous.
	AnomalyThresholdM3 = 8.0
	// CriticalThresholdM3 is the weekly volume above which an anomaly is critical.
	CriticalThresholdM3 = 15.0

	// zones with more anomalies than this are critical
	zoneCriticalAnomalies = 2

	weeksPerMonth = 4.33
)

// IsAnomalous reports whether a weekly volume exceeds the anomaly threshold.
func IsAnomalous(volumeM3 float64) bool {
	return volumeM3 > AnomalyThresholdM3
}

// Severity classifies an anomalous volume.
func Severity(volumeM3 float64) string {
	if volumeM3 > CriticalThresholdM3 {
		return models.StatusCritical
	}
	return models.StatusWarning
}
