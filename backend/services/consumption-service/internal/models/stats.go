package models

import "time"

// Suggestion kinds shown on the dashboard.
const (
	SuggestionWarning = "warning"
	SuggestionSuccess = "success"
	SuggestionInfo    = "info"
)

// Suggestion is a short, human-readable hint on the dashboard.
type Suggestion struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// DashboardStats summarises a user's recent consumption.
type DashboardStats struct {
	HasData             bool         `json:"hasData"`
	CurrentConsumption  int64        `json:"currentConsumption"`
	LastReadingDate     *time.Time   `json:"lastReadingDate,omitempty"`
	TrendPercentage     float64      `json:"trendPercentage"`
	SavingsPercentage   float64      `json:"savingsPercentage"`
	AverageConsumption  float64      `json:"averageConsumption"`
	WeeklyCost          float64      `json:"weeklyCost"`
	EstimatedCost       float64      `json:"estimatedCost"`
	CostStatus          string       `json:"costStatus"`
	CostTrendPercentage float64      `json:"costTrendPercentage"`
	Suggestions         []Suggestion `json:"suggestions"`
}

// Zone and alert status labels.
const (
	StatusOK       = "OK"
	StatusWarning  = "WARNING"
	StatusCritical = "CRITICAL"
)

// ZoneSummary is the rollup of one district.
type ZoneSummary struct {
	Name        Zone    `json:"name"`
	Status      string  `json:"status"`
	Consumption float64 `json:"consumption"`
	Anomalies   int     `json:"anomalies"`
}

// ZoneReport holds every district plus the number of latest readings that
// could not be attributed to any of them.
type ZoneReport struct {
	Zones        []ZoneSummary `json:"zones"`
	Unattributed int           `json:"unattributed"`
}

// Alert is one anomalous latest reading enriched for review.
type Alert struct {
	ID       string    `json:"id"`
	MeterID  string    `json:"meterId"`
	User     string    `json:"user"`
	Address  string    `json:"address"`
	Zone     string    `json:"zone"`
	Volume   float64   `json:"volume"`
	Severity string    `json:"severity"`
	Date     time.Time `json:"date"`
}

// AdviceItem is one entry of the advice page.
type AdviceItem struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// ChartPoint is one week on the consumption chart.
type ChartPoint struct {
	Label  string  `json:"label"`
	Liters int64   `json:"liters"`
	Cost   float64 `json:"cost"`
}

// HistoryPage is a page of readings, newest first.
type HistoryPage struct {
	Readings      []WeeklyReading `json:"readings"`
	CurrentPage   int             `json:"currentPage"`
	TotalPages    int             `json:"totalPages"`
	TotalReadings int             `json:"totalReadings"`
}

// TerritorialStats is the municipality-wide headline figures.
type TerritorialStats struct {
	Municipality             string  `json:"municipality"`
	TotalMeters              int     `json:"totalMeters"`
	TotalConsumptionLastWeek float64 `json:"totalConsumptionLastWeek"`
	ActiveAlerts             int     `json:"activeAlerts"`
}
