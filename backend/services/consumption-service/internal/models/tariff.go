package models

import "time"

// Tariff describes the two-part weekly water price.
type Tariff struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	FixedWeeklyCharge float64   `db:"fixed_weekly_charge" json:"fixedWeeklyCharge"`
	RatePerM3         float64   `db:"rate_per_m3" json:"ratePerM3"`
	IsActive          bool      `db:"is_active" json:"isActive"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}
