package domain

import "math"

// UnknownContinent is used when a country has no reference match or the
// reference row has no continent.
const UnknownContinent = "Unknown"

// GeoRecord is a normalized country row joined with its capital geography.
// Latitude, longitude and continent come from the reference match; ClimateZone
// is always set.
type GeoRecord struct {
	Country          string      `json:"country"`
	Scores           Scores      `json:"scores"`
	JoinKey          string      `json:"join_key"`
	ReferenceName    string      `json:"reference_name,omitempty"`
	CapitalLatitude  Value       `json:"capital_latitude"`
	CapitalLongitude Value       `json:"capital_longitude"`
	AbsLatitude      Value       `json:"abs_latitude"`
	Continent        string      `json:"continent"`
	ClimateZone      ClimateZone `json:"climate_zone"`
}

// Matched reports whether the record found a reference row.
func (r GeoRecord) Matched() bool { return r.ReferenceName != "" }

// GeoTable is the output of Join, one record per normalized row, in input order.
type GeoTable struct {
	Records []GeoRecord `json:"records"`
	Matched int         `json:"matched"`
}

// Join left-joins normalized rows with reference rows on JoinKey. Every input
// row survives. When several reference rows share a key the first one is
// used; empty keys never match.
func Join(t NormalizedTable, refs []ReferenceGeoRow) GeoTable {
	index := make(map[string]ReferenceGeoRow, len(refs))
	for _, ref := range refs {
		key := JoinKey(ref.CountryName)
		if key == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = ref
		}
	}

	out := GeoTable{Records: make([]GeoRecord, len(t.Rows))}
	for i, row := range t.Rows {
		rec := GeoRecord{
			Country:   row.Country,
			Scores:    row.Scores,
			JoinKey:   JoinKey(row.Country),
			Continent: UnknownContinent,
		}
		if ref, ok := index[rec.JoinKey]; ok && rec.JoinKey != "" {
			rec.ReferenceName = ref.CountryName
			rec.CapitalLatitude = ref.CapitalLatitude
			rec.CapitalLongitude = ref.CapitalLongitude
			if ref.ContinentName != "" {
				rec.Continent = ref.ContinentName
			}
			out.Matched++
		}
		if rec.CapitalLatitude.Valid {
			rec.AbsLatitude = Some(math.Abs(rec.CapitalLatitude.Float))
		}
		rec.ClimateZone = ClassifyClimate(rec.AbsLatitude)
		out.Records[i] = rec
	}
	return out
}
