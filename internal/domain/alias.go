package domain

import "strings"

// MatchMode selects how a header is compared with an alias.
type MatchMode int

const (
	// MatchExact compares headers byte for byte.
	MatchExact MatchMode = iota
	// MatchFold compares headers case-insensitively.
	MatchFold
	// MatchUpper upper-cases and trims the header before an exact compare.
	MatchUpper
)

// AliasSet resolves a logical column from the several header spellings it
// goes by. It is shared by country detection, type detection, the long-shape
// type/value columns and the reference table fields.
type AliasSet struct {
	Name    string
	Aliases []string
	Mode    MatchMode
}

// Match returns the alias that header matches, if any.
func (a AliasSet) Match(header string) (string, bool) {
	for _, alias := range a.Aliases {
		if a.equal(header, alias) {
			return alias, true
		}
	}
	return "", false
}

// FirstColumn scans columns in their original order and returns the first one
// matching any alias.
func (a AliasSet) FirstColumn(header []string) (int, bool) {
	for i, h := range header {
		if _, ok := a.Match(h); ok {
			return i, true
		}
	}
	return -1, false
}

// FirstAlias tries aliases in priority order and returns the column matching
// the highest-priority alias present.
func (a AliasSet) FirstAlias(header []string) (int, bool) {
	for _, alias := range a.Aliases {
		for i, h := range header {
			if a.equal(h, alias) {
				return i, true
			}
		}
	}
	return -1, false
}

func (a AliasSet) equal(header, alias string) bool {
	switch a.Mode {
	case MatchFold:
		return strings.ToLower(header) == strings.ToLower(alias)
	case MatchUpper:
		return strings.ToUpper(strings.TrimSpace(header)) == alias
	default:
		return header == alias
	}
}
