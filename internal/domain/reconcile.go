package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Shape is the orientation the input was recognized in.
type Shape string

const (
	ShapeWide Shape = "wide"
	ShapeLong Shape = "long"
)

// wideThreshold is the number of detected type columns at which a table is
// read as wide.
const wideThreshold = 4

var (
	longTypeColumn = AliasSet{
		Name:    "type",
		Aliases: []string{"type", "mbti", "mbti_type", "유형"},
		Mode:    MatchFold,
	}
	longValueColumn = AliasSet{
		Name:    "value",
		Aliases: []string{"value", "percent", "percentage", "ratio", "비율", "퍼센트", "값"},
		Mode:    MatchFold,
	}
)

// CanonicalRow is one country with all 16 type values.
type CanonicalRow struct {
	Country string `json:"country"`
	Scores  Scores `json:"scores"`
}

// CanonicalTable is the output of Reconcile. It is the only table shape that
// crosses into later stages.
type CanonicalTable struct {
	Shape         Shape          `json:"shape"`
	CountryColumn string         `json:"country_column"`
	Rows          []CanonicalRow `json:"rows"`
}

// Columns returns the canonical column order: country, then the 16 types.
func (t CanonicalTable) Columns() []string {
	return append([]string{CountryKey}, typeNames()...)
}

// Reconcile converts a wide or long table into a CanonicalTable. Four or more
// detected type columns select the wide reading; otherwise a type column and a
// value column must be present for the long reading.
func Reconcile(t RawTable, countryColumn string, detected []TypeColumn) (CanonicalTable, error) {
	countryIdx, ok := t.Column(countryColumn)
	if !ok {
		return CanonicalTable{}, &SchemaError{Reason: fmt.Sprintf("country column %q not in table", countryColumn)}
	}

	if len(detected) >= wideThreshold {
		return reconcileWide(t, countryIdx, detected), nil
	}

	typeIdx, okType := longTypeColumn.FirstAlias(t.Header)
	valueIdx, okValue := longValueColumn.FirstAlias(t.Header)
	if !okType || !okValue || typeIdx == countryIdx || valueIdx == countryIdx {
		return CanonicalTable{}, &ShapeError{Reason: "unrecognized layout"}
	}
	return reconcileLong(t, countryIdx, typeIdx, valueIdx), nil
}

func reconcileWide(t RawTable, countryIdx int, detected []TypeColumn) CanonicalTable {
	// The first column wins when two headers normalize to the same type.
	var source [TypeCount]int
	for i := range source {
		source[i] = -1
	}
	for _, c := range detected {
		if i := c.Type.Index(); i >= 0 && source[i] < 0 {
			source[i] = c.Index
		}
	}

	rows := make([]CanonicalRow, len(t.Rows))
	for r, cells := range t.Rows {
		row := CanonicalRow{Country: strings.TrimSpace(cells[countryIdx])}
		for i, col := range source {
			if col >= 0 {
				row.Scores[i] = ParseValue(cells[col])
			}
		}
		rows[r] = row
	}
	return CanonicalTable{Shape: ShapeWide, CountryColumn: t.Header[countryIdx], Rows: rows}
}

// reconcileLong pivots (country, type, value) rows into one row per country,
// averaging duplicate pairs. Countries are emitted in sorted order.
func reconcileLong(t RawTable, countryIdx, typeIdx, valueIdx int) CanonicalTable {
	type acc struct {
		sum [TypeCount]float64
		n   [TypeCount]int
	}
	groups := make(map[string]*acc)

	for _, cells := range t.Rows {
		country := strings.TrimSpace(cells[countryIdx])
		if isNA(country) {
			continue
		}
		typ, ok := ParseType(cells[typeIdx])
		if !ok {
			continue
		}
		g, exists := groups[country]
		if !exists {
			g = &acc{}
			groups[country] = g
		}
		v := ParseValue(cells[valueIdx])
		if !v.Valid {
			continue
		}
		i := typ.Index()
		g.sum[i] += v.Float
		g.n[i]++
	}

	countries := make([]string, 0, len(groups))
	for c := range groups {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	rows := make([]CanonicalRow, len(countries))
	for r, c := range countries {
		g := groups[c]
		row := CanonicalRow{Country: c}
		for i := range row.Scores {
			if g.n[i] > 0 {
				row.Scores[i] = Some(g.sum[i] / float64(g.n[i]))
			}
		}
		rows[r] = row
	}
	return CanonicalTable{Shape: ShapeLong, CountryColumn: t.Header[countryIdx], Rows: rows}
}
