package analytics

import (
	"fmt"
	"hash/fnv"

	"dropzero/backend/services/consumption-service/internal/models"
)

// DashboardWindow is how many recent readings the dashboard looks at.
const DashboardWindow = 5

// Cost status labels.
const (
	CostDeclining          = "declining"
	CostIncreasing         = "increasing"
	CostSlightlyIncreasing = "slightly increasing"
	CostAverage            = "average"
)

const (
	spikeTrendPercent  = 20.0
	goodSavingsPercent = 10.0
	aboveAverageFactor = 1.3
	highAbsoluteM3     = 12.0
	minSuggestions     = 2
	maxSuggestions     = 3
)

// TipPicker chooses an index in [0, n) for the reading identified by key.
type TipPicker interface {
	Pick(key string, n int) int
}

// TipPickerFunc adapts a function to TipPicker.
type TipPickerFunc func(key string, n int) int

// Pick implements TipPicker.
func (f TipPickerFunc) Pick(key string, n int) int { return f(key, n) }

// ReadingTips hashes the reading id, so the tip changes with each new
// reading and stays put across repeated reads of the same one.
var ReadingTips TipPicker = TipPickerFunc(func(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
})

var tips = []models.Suggestion{
	{Type: models.SuggestionInfo, Title: "Did you know?", Text: "Running the dishwasher on a full load saves up to 40 liters compared with washing by hand."},
	{Type: models.SuggestionInfo, Title: "Shower savings", Text: "Turning off the water while soaping up can save 20 liters per shower."},
	{Type: models.SuggestionInfo, Title: "Leak check", Text: "A dripping tap can waste up to 5,000 liters of water a year."},
	{Type: models.SuggestionSuccess, Title: "Eco goal", Text: "Your consumption has been steady. Great for the environment!"},
}

// Dashboard computes the personal summary from readings ordered newest
// first. Only the first DashboardWindow readings are considered.
func Dashboard(readings []models.WeeklyReading, picker TipPicker) models.DashboardStats {
	if len(readings) == 0 {
		return models.DashboardStats{Suggestions: []models.Suggestion{}}
	}
	if len(readings) > DashboardWindow {
		readings = readings[:DashboardWindow]
	}
	if picker == nil {
		picker = ReadingTips
	}

	current := readings[0]
	rest := readings[1:]
	currentVolume := float64(current.VolumeConsumed)

	var trend float64
	if len(rest) > 0 && rest[0].VolumeConsumed > 0 {
		prev := float64(rest[0].VolumeConsumed)
		trend = (currentVolume - prev) / prev * 100
	}

	avgVolume, avgCost := currentVolume, current.Cost
	if len(rest) > 0 {
		var sumVolume, sumCost float64
		for _, r := range rest {
			sumVolume += float64(r.VolumeConsumed)
			sumCost += r.Cost
		}
		avgVolume = sumVolume / float64(len(rest))
		avgCost = sumCost / float64(len(rest))
	}

	var savings float64
	if avgVolume > 0 {
		savings = (avgVolume - currentVolume) / avgVolume * 100
	}

	var costTrend float64
	if avgCost > 0 {
		costTrend = (current.Cost - avgCost) / avgCost * 100
	}

	lastReading := current.WeekEndDate
	return models.DashboardStats{
		HasData:             true,
		CurrentConsumption:  current.VolumeConsumed,
		LastReadingDate:     &lastReading,
		TrendPercentage:     round1(trend),
		SavingsPercentage:   round1(savings),
		AverageConsumption:  round(avgVolume, 0),
		WeeklyCost:          round2(current.Cost),
		EstimatedCost:       round2(current.Cost * weeksPerMonth),
		CostStatus:          CostStatus(costTrend),
		CostTrendPercentage: round1(costTrend),
		Suggestions:         suggestions(current, trend, savings, avgVolume, picker),
	}
}

// CostStatus maps a cost trend percentage to its label. Bands are checked in
// order and the first match wins.
func CostStatus(costTrend float64) string {
	switch {
	case costTrend < -5:
		return CostDeclining
	case costTrend > 15:
		return CostIncreasing
	case costTrend > 5:
		return CostSlightlyIncreasing
	default:
		return CostAverage
	}
}

func suggestions(current models.WeeklyReading, trend, savings, avgVolume float64, picker TipPicker) []models.Suggestion {
	out := make([]models.Suggestion, 0, maxSuggestions)

	if trend > spikeTrendPercent {
		out = append(out, models.Suggestion{
			Type:  models.SuggestionWarning,
			Title: "Consumption spike",
			Text:  fmt.Sprintf("Heads up: you used %.0f%% more water than last week.", trend),
		})
	} else if savings > goodSavingsPercent {
		out = append(out, models.Suggestion{
			Type:  models.SuggestionSuccess,
			Title: "Good savings",
			Text:  fmt.Sprintf("You used %.0f%% less than your recent average. Keep it up!", savings),
		})
	}

	if float64(current.VolumeConsumed) > avgVolume*aboveAverageFactor {
		out = append(out, models.Suggestion{
			Type:  models.SuggestionWarning,
			Title: "Above average",
			Text:  "You are using much more than your recent average. Check for possible leaks.",
		})
	}

	if current.VolumeM3 > highAbsoluteM3 {
		out = append(out, models.Suggestion{
			Type:  models.SuggestionWarning,
			Title: "High consumption",
			Text:  fmt.Sprintf("You went over %.0f cubic meters this week. Consider cutting back on irrigation.", highAbsoluteM3),
		})
	}

	if len(out) < minSuggestions {
		out = append(out, tips[pickIndex(picker, current.ID, len(tips))])
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func pickIndex(picker TipPicker, key string, n int) int {
	i := picker.Pick(key, n)
	if i < 0 || i >= n {
		i = ((i % n) + n) % n
	}
	return i
}
