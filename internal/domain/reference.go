package domain

import (
	"errors"
	"strings"
)

// ReferenceGeoRow is one country from the capitals reference list.
type ReferenceGeoRow struct {
	CountryName      string `json:"country_name"`
	CapitalLatitude  Value  `json:"capital_latitude"`
	CapitalLongitude Value  `json:"capital_longitude"`
	ContinentName    string `json:"continent_name"`
}

// Reference header aliases. The canonical spelling is listed first and wins
// when several are present.
var (
	refCountryName = AliasSet{
		Name:    "CountryName",
		Aliases: []string{"CountryName", "Country", "Name", "Country Name"},
	}
	refCapitalLatitude = AliasSet{
		Name:    "CapitalLatitude",
		Aliases: []string{"CapitalLatitude", "Latitude", "Capital Latitude"},
	}
	refCapitalLongitude = AliasSet{
		Name:    "CapitalLongitude",
		Aliases: []string{"CapitalLongitude", "Longitude", "Capital Longitude"},
	}
	refContinentName = AliasSet{
		Name:    "ContinentName",
		Aliases: []string{"ContinentName", "Continent"},
	}
)

// ErrNoReferenceCountry is returned when a reference table has no country
// name column under any alias.
var ErrNoReferenceCountry = errors.New("reference table has no country name column")

// ParseReference reads reference rows from a raw table. Only the country name
// column is required; missing coordinate or continent columns leave those
// fields absent.
func ParseReference(t RawTable) ([]ReferenceGeoRow, error) {
	countryIdx, ok := refCountryName.FirstAlias(t.Header)
	if !ok {
		return nil, ErrNoReferenceCountry
	}
	latIdx, hasLat := refCapitalLatitude.FirstAlias(t.Header)
	lonIdx, hasLon := refCapitalLongitude.FirstAlias(t.Header)
	contIdx, hasCont := refContinentName.FirstAlias(t.Header)

	rows := make([]ReferenceGeoRow, 0, len(t.Rows))
	for _, cells := range t.Rows {
		row := ReferenceGeoRow{CountryName: strings.TrimSpace(cells[countryIdx])}
		if hasLat {
			row.CapitalLatitude = ParseValue(cells[latIdx])
		}
		if hasLon {
			row.CapitalLongitude = ParseValue(cells[lonIdx])
		}
		if hasCont && !isNA(cells[contIdx]) {
			row.ContinentName = strings.TrimSpace(cells[contIdx])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
