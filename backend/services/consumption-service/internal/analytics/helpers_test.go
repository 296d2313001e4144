package analytics

import (
	"time"

	"dropzero/backend/services/consumption-service/internal/models"
)

var baseWeek = time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

// week returns a reading ending n weeks before baseWeek.
func week(id string, n int, liters int64, cost float64) models.WeeklyReading {
	end := baseWeek.AddDate(0, 0, -7*n)
	return models.WeeklyReading{
		ID:             id,
		MeterID:        "SN-" + id,
		UserID:         1,
		WeekStartDate:  end.AddDate(0, 0, -7),
		WeekEndDate:    end,
		VolumeConsumed: liters,
		VolumeM3:       float64(liters) / 1000,
		Method:         models.MethodAutomated,
		Quality:        models.QualityValid,
		Cost:           cost,
	}
}

func latest(meterID string, m3 float64, end time.Time) models.WeeklyReading {
	return models.WeeklyReading{
		ID:          "R-" + meterID,
		MeterID:     meterID,
		UserID:      1,
		WeekEndDate: end,
		VolumeM3:    m3,
	}
}

func fixedPicker(i int) TipPicker {
	return TipPickerFunc(func(string, int) int { return i })
}
