package analytics

import (
	"sort"

	"dropzero/backend/services/consumption-service/internal/models"
)

// Placeholders used when an alert cannot be fully enriched.
const (
	UnknownZone    = "N/A"
	UnknownUser    = "Unknown user"
	UnknownAddress = "address unavailable"
)

// NewAlert enriches an anomalous reading with its meter zone and owner.
// Either lookup may be nil.
func NewAlert(r models.WeeklyReading, meter *models.Meter, user *models.UserSummary) models.Alert {
	alert := models.Alert{
		ID:       r.ID,
		MeterID:  r.MeterID,
		User:     UnknownUser,
		Address:  UnknownAddress,
		Zone:     UnknownZone,
		Volume:   r.VolumeM3,
		Severity: Severity(r.VolumeM3),
		Date:     r.WeekEndDate,
	}
	if meter != nil && meter.Zone != "" {
		alert.Zone = string(meter.Zone)
	}
	if user != nil {
		if name := user.DisplayName(); name != "" {
			alert.User = name
		}
		if user.Address != "" {
			alert.Address = user.Address
		}
	}
	return alert
}

// RankAlerts keeps the anomalous latest readings and orders them critical
// first, then by volume, then newest first, then by reading id.
func RankAlerts(latest []models.WeeklyReading, meters map[string]models.Meter, users map[int64]models.UserSummary) []models.Alert {
	alerts := make([]models.Alert, 0)
	for _, r := range latest {
		if !IsAnomalous(r.VolumeM3) {
			continue
		}
		var meterRef *models.Meter
		if m, ok := meters[r.MeterID]; ok {
			meterRef = &m
		}
		var userRef *models.UserSummary
		if u, ok := users[r.UserID]; ok {
			userRef = &u
		}
		alerts = append(alerts, NewAlert(r, meterRef, userRef))
	}

	sort.Slice(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if ac, bc := a.Severity == models.StatusCritical, b.Severity == models.StatusCritical; ac != bc {
			return ac
		}
		if a.Volume != b.Volume {
			return a.Volume > b.Volume
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})
	return alerts
}

// AnomalousMeterIDs lists the meters whose latest reading is anomalous.
func AnomalousMeterIDs(latest []models.WeeklyReading) []string {
	ids := make([]string, 0)
	for _, r := range latest {
		if IsAnomalous(r.VolumeM3) {
			ids = append(ids, r.MeterID)
		}
	}
	return ids
}
