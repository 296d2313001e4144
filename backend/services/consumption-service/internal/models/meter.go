package models

import (
	"fmt"
	"strings"
	"time"
)

// MeterType classifies the connection a meter measures.
type MeterType string

const (
	MeterDomestic   MeterType = "domestic"
	MeterCommercial MeterType = "commercial"
	MeterPublic     MeterType = "public"
)

// ParseMeterType normalises raw input, defaulting to domestic when empty.
func ParseMeterType(raw string) (MeterType, error) {
	switch t := MeterType(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return MeterDomestic, nil
	case MeterDomestic, MeterCommercial, MeterPublic:
		return t, nil
	default:
		return "", fmt.Errorf("unknown meter type %q", raw)
	}
}

// MeterStatus is the operational state of a meter.
type MeterStatus string

const (
	MeterActive      MeterStatus = "active"
	MeterInactive    MeterStatus = "inactive"
	MeterMaintenance MeterStatus = "maintenance"
)

// Meter is a physical water meter bound to one user.
type Meter struct {
	ID          string      `db:"id" json:"id"`
	UserID      int64       `db:"user_id" json:"userId"`
	Type        MeterType   `db:"meter_type" json:"meterType"`
	Status      MeterStatus `db:"status" json:"status"`
	Zone        Zone        `db:"zone" json:"zone"`
	Location    string      `db:"location" json:"location"`
	Latitude    *float64    `db:"latitude" json:"latitude,omitempty"`
	Longitude   *float64    `db:"longitude" json:"longitude,omitempty"`
	InstalledAt time.Time   `db:"installed_at" json:"installedAt"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Active reports whether the meter participates in aggregation.
func (m Meter) Active() bool {
	return m.Status == MeterActive
}
