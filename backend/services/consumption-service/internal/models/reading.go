package models

import "time"

// ReadingMethod tells how a reading entered the system.
type ReadingMethod string

const (
	MethodAutomated ReadingMethod = "automated"
	MethodManual    ReadingMethod = "manual"
)

// ReadingQuality flags the trustworthiness of a reading.
type ReadingQuality string

const (
	QualityValid      ReadingQuality = "valid"
	QualityEstimated  ReadingQuality = "estimated"
	QualitySuspicious ReadingQuality = "suspicious"
)

// CostBreakdown splits a weekly cost into its tariff components.
type CostBreakdown struct {
	FixedCharge     float64 `json:"fixedCharge"`
	ConsumptionCost float64 `json:"consumptionCost"`
	Total           float64 `json:"total"`
}

// WeeklyReading is one meter observation covering a week. Rows are never
// updated after insert.
type WeeklyReading struct {
	ID              string         `db:"id" json:"id"`
	MeterID         string         `db:"meter_id" json:"meterId"`
	UserID          int64          `db:"user_id" json:"userId"`
	WeekStartDate   time.Time      `db:"week_start_date" json:"weekStartDate"`
	WeekEndDate     time.Time      `db:"week_end_date" json:"weekEndDate"`
	ReadingDate     time.Time      `db:"reading_date" json:"readingDate"`
	PreviousReading float64        `db:"previous_reading" json:"previousReading"`
	CurrentReading  float64        `db:"current_reading" json:"currentReading"`
	VolumeConsumed  int64          `db:"volume_consumed" json:"volumeConsumed"`
	VolumeM3        float64        `db:"volume_m3" json:"volumeM3"`
	Method          ReadingMethod  `db:"reading_method" json:"readingMethod"`
	Quality         ReadingQuality `db:"data_quality" json:"dataQuality"`
	Cost            float64        `db:"cost" json:"cost"`
	CostBreakdown   *CostBreakdown `db:"cost_breakdown" json:"costBreakdown,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}
