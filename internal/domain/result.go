package domain

import "time"

// Result is everything one pipeline run hands to the presentation layer.
type Result struct {
	RunID              string          `json:"run_id"`
	Source             string          `json:"source"`
	Encoding           string          `json:"encoding,omitempty"`
	GeneratedAt        time.Time       `json:"generated_at"`
	Canonical          CanonicalTable  `json:"canonical"`
	Normalized         NormalizedTable `json:"normalized"`
	Geo                GeoTable        `json:"geo"`
	ContinentMeans     []GroupSummary  `json:"continent_means"`
	ClimateMeans       []GroupSummary  `json:"climate_means"`
	Correlations       []Correlation   `json:"correlations"`
	ReferenceAvailable bool            `json:"reference_available"`
	Warnings           []string        `json:"warnings,omitempty"`
}

// Summary is the compact description of a run returned after an upload.
type Summary struct {
	RunID              string    `json:"run_id"`
	Source             string    `json:"source"`
	Encoding           string    `json:"encoding,omitempty"`
	GeneratedAt        time.Time `json:"generated_at"`
	Shape              Shape     `json:"shape"`
	CountryColumn      string    `json:"country_column"`
	Countries          int       `json:"countries"`
	Matched            int       `json:"matched"`
	ReferenceAvailable bool      `json:"reference_available"`
	Warnings           []string  `json:"warnings,omitempty"`
}

// Assemble derives group means and correlations from a joined table and
// stamps the result with the current time.
func Assemble(canonical CanonicalTable, normalized NormalizedTable, geo GeoTable) Result {
	return Result{
		GeneratedAt:    clock.Now().UTC(),
		Canonical:      canonical,
		Normalized:     normalized,
		Geo:            geo,
		ContinentMeans: SummarizeGroups(geo, GroupContinent),
		ClimateMeans:   SummarizeGroups(geo, GroupClimate),
		Correlations:   Correlate(geo),
		Warnings:       normalized.Warnings,
	}
}

// Summary describes the run.
func (r *Result) Summary() Summary {
	return Summary{
		RunID:              r.RunID,
		Source:             r.Source,
		Encoding:           r.Encoding,
		GeneratedAt:        r.GeneratedAt,
		Shape:              r.Canonical.Shape,
		CountryColumn:      r.Canonical.CountryColumn,
		Countries:          len(r.Geo.Records),
		Matched:            r.Geo.Matched,
		ReferenceAvailable: r.ReferenceAvailable,
		Warnings:           r.Warnings,
	}
}
