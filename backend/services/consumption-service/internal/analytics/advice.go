package analytics

import (
	"fmt"
	"time"

	"dropzero/backend/services/consumption-service/internal/models"
)

// AdviceWindow is how many recent readings the advice page looks at.
const AdviceWindow = 4

const adviceTrendPercent = 15.0

var staticAdvice = []models.AdviceItem{
	{
		ID:          "edu-1",
		Category:    "HABITS",
		Title:       "Cut your shower time",
		Description: "Showering two minutes less saves up to 300 liters a month.",
		Impact:      "Medium",
	},
	{
		ID:          "edu-2",
		Category:    "APPLIANCES",
		Title:       "Dishwasher and washing machine",
		Description: "Run them only with a full load to save both water and electricity.",
		Impact:      "High",
	},
	{
		ID:          "edu-3",
		Category:    "MAINTENANCE",
		Title:       "Check your taps",
		Description: "A tap dripping 10 drops a minute wastes 2,000 liters a year.",
		Impact:      "Low",
	},
	{
		ID:          "edu-4",
		Category:    "KITCHEN",
		Title:       "Washing vegetables",
		Description: "Wash vegetables in a basin instead of under running water.",
		Impact:      "Low",
	},
}

// Advice builds the advice list from readings ordered newest first. now
// decides whether the seasonal item applies.
func Advice(readings []models.WeeklyReading, now time.Time) []models.AdviceItem {
	if len(readings) > AdviceWindow {
		readings = readings[:AdviceWindow]
	}

	items := make([]models.AdviceItem, 0, len(staticAdvice)+2)

	if len(readings) >= 2 && readings[1].VolumeConsumed > 0 {
		cur, prev := float64(readings[0].VolumeConsumed), float64(readings[1].VolumeConsumed)
		if trend := (cur - prev) / prev * 100; trend > adviceTrendPercent {
			items = append(items, models.AdviceItem{
				ID:          "trend-alert",
				Category:    "URGENT",
				Title:       "Consumption spike detected",
				Description: fmt.Sprintf("You used %.0f%% more water this week. Check for guests or hidden leaks.", trend),
				Impact:      "High",
			})
		}
	}

	// June through September.
	if m := now.Month(); m >= time.June && m <= time.September {
		items = append(items, models.AdviceItem{
			ID:          "season-summer",
			Category:    "SEASONAL",
			Title:       "Smart irrigation",
			Description: "Water the garden late in the evening to cut evaporation by 30%.",
			Impact:      "Medium",
		})
	}

	return append(items, staticAdvice...)
}
