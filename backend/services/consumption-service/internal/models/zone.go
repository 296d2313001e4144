package models

import (
	"errors"
	"fmt"
	"strings"
)

// Municipality served by this deployment.
const Municipality = "Trento"

// Zone is one of the fixed districts used as aggregation buckets.
type Zone string

const (
	ZoneGardolo         Zone = "Gardolo"
	ZoneMeano           Zone = "Meano"
	ZoneBondone         Zone = "Bondone"
	ZoneSardagna        Zone = "Sardagna"
	ZoneRavinaRomagnano Zone = "Ravina-Romagnano"
	ZoneArgentario      Zone = "Argentario"
	ZonePovo            Zone = "Povo"
	ZoneMattarello      Zone = "Mattarello"
	ZoneVillazzano      Zone = "Villazzano"
	ZoneOltrefersina    Zone = "Oltrefersina"
	ZoneSanGiuseppe     Zone = "San Giuseppe-Santa Chiara"
	ZoneCentroStorico   Zone = "Centro Storico - Piedicastello"
)

// Zones lists every district in display order.
var Zones = []Zone{
	ZoneGardolo,
	ZoneMeano,
	ZoneBondone,
	ZoneSardagna,
	ZoneRavinaRomagnano,
	ZoneArgentario,
	ZonePovo,
	ZoneMattarello,
	ZoneVillazzano,
	ZoneOltrefersina,
	ZoneSanGiuseppe,
	ZoneCentroStorico,
}

// ErrUnknownZone is returned by ParseZone for names outside Zones.
var ErrUnknownZone = errors.New("unknown zone")

// ParseZone resolves name to a known zone. Matching is exact after trimming
// surrounding whitespace.
func ParseZone(name string) (Zone, error) {
	name = strings.TrimSpace(name)
	for _, z := range Zones {
		if string(z) == name {
			return z, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownZone, name)
}

// Valid reports whether z is one of the known districts.
func (z Zone) Valid() bool {
	_, err := ParseZone(string(z))
	return err == nil
}
