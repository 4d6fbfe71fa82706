package domain

import "strings"

// ClimateZone is a coarse climate bucket derived from absolute capital latitude.
type ClimateZone string

const (
	Tropical    ClimateZone = "Tropical"
	Subtropical ClimateZone = "Subtropical"
	Temperate   ClimateZone = "Temperate"
	Polar       ClimateZone = "Polar"
	UnknownZone ClimateZone = "Unknown"
)

// ClimateZones lists every zone from equator to pole, then Unknown.
var ClimateZones = []ClimateZone{Tropical, Subtropical, Temperate, Polar, UnknownZone}

// ClassifyClimate buckets an absolute latitude in degrees:
//   - < 23.5 Tropical (inside the tropics of Cancer and Capricorn)
//   - < 35 Subtropical
//   - < 60 Temperate
//   - otherwise Polar
//
// An absent latitude is Unknown.
func ClassifyClimate(absLat Value) ClimateZone {
	if !absLat.Valid {
		return UnknownZone
	}
	switch lat := absLat.Float; {
	case lat < 23.5:
		return Tropical
	case lat < 35:
		return Subtropical
	case lat < 60:
		return Temperate
	default:
		return Polar
	}
}

// ParseClimateZone matches a zone name case-insensitively.
func ParseClimateZone(s string) (ClimateZone, bool) {
	for _, z := range ClimateZones {
		if strings.EqualFold(strings.TrimSpace(s), string(z)) {
			return z, true
		}
	}
	return "", false
}
