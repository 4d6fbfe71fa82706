package domain

import "fmt"

// NormalizedTable has the shape of a CanonicalTable, with each row's values
// rescaled to sum to 100.
type NormalizedTable struct {
	Shape    Shape          `json:"shape"`
	Rows     []CanonicalRow `json:"rows"`
	Warnings []string       `json:"warnings,omitempty"`
}

// NormalizeToHundred rescales every row independently so its present values
// sum to 100. Absent values stay absent. A row that sums to zero, or has no
// present values, becomes entirely absent. Negative values are dropped to
// absent first and reported in Warnings.
func NormalizeToHundred(t CanonicalTable) NormalizedTable {
	out := NormalizedTable{Shape: t.Shape, Rows: make([]CanonicalRow, len(t.Rows))}
	for r, row := range t.Rows {
		scores, dropped := normalizeRow(row.Scores)
		for _, typ := range dropped {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"%s: negative %s value %s treated as absent", row.Country, typ, row.Scores.Get(typ)))
		}
		out.Rows[r] = CanonicalRow{Country: row.Country, Scores: scores}
	}
	return out
}

func normalizeRow(in Scores) (Scores, []Type) {
	var dropped []Type
	clean := in
	for i, v := range clean {
		if v.Valid && v.Float < 0 {
			clean[i] = Value{}
			dropped = append(dropped, Types[i])
		}
	}

	sum, n := clean.Sum()
	if n == 0 || sum == 0 {
		return Scores{}, dropped
	}

	var out Scores
	for i, v := range clean {
		if v.Valid {
			out[i] = Some(v.Float / sum * 100)
		}
	}
	return out, dropped
}

// LongRecord is one (country, type) cell of a normalized table.
type LongRecord struct {
	Country string `json:"country"`
	Type    Type   `json:"type"`
	Percent Value  `json:"percent"`
}

// Melt unpivots a normalized table into long records, country-major in
// canonical type order.
func Melt(t NormalizedTable) []LongRecord {
	out := make([]LongRecord, 0, len(t.Rows)*TypeCount)
	for _, row := range t.Rows {
		for i, typ := range Types {
			out = append(out, LongRecord{Country: row.Country, Type: typ, Percent: row.Scores[i]})
		}
	}
	return out
}
