package domain

import (
	"regexp"
	"strings"
)

var (
	// punctRe matches anything that is not a letter, digit or whitespace.
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// countryAliases maps normalized colloquial names to the normalized spelling
// used by the capitals reference list.
var countryAliases = map[string]string{
	"united states":     "united states of america",
	"usa":               "united states of america",
	"u s a":             "united states of america",
	"russia":            "russian federation",
	"south korea":       "korea republic of",
	"north korea":       "korea democratic people s republic of",
	"czech":             "czechia",
	"czech republic":    "czechia",
	"swaziland":         "eswatini",
	"cape verde":        "cabo verde",
	"laos":              "lao people s democratic republic",
	"moldova":           "moldova republic of",
	"ivory coast":       "cote d ivoire",
	"brunei darussalam": "brunei",
	"vatican":           "holy see",
}

// NormalizeName lower-cases name, replaces punctuation with spaces and
// collapses runs of whitespace, e.g. "  Korea, Republic of " → "korea republic of".
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = punctRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// JoinKey is the alias-resolved normalized name used to match countries
// across tables.
func JoinKey(name string) string {
	key := NormalizeName(name)
	if fixed, ok := countryAliases[key]; ok {
		return fixed
	}
	return key
}
