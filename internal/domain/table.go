package domain

import (
	"strconv"
	"strings"
)

// RawTable is a parsed CSV with unknown column names, order and casing.
// Every row has exactly len(Header) cells.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// NewRawTable trims header names, strips a leading byte-order mark, suffixes
// duplicate names with ".1", ".2", ... and pads or truncates rows to the
// header width. The inputs are not modified.
func NewRawTable(header []string, rows [][]string) RawTable {
	h := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		h[i] = name
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, len(h))
		copy(r, row)
		out[i] = r
	}
	return RawTable{Header: h, Rows: out}
}

// Column returns the index of the column with exactly this name.
func (t RawTable) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// IsNumericColumn reports whether every cell of column col is missing or a
// number. An all-missing column counts as numeric.
func (t RawTable) IsNumericColumn(col int) bool {
	for _, row := range t.Rows {
		cell := row[col]
		if isNA(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return false
		}
	}
	return true
}
