package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const usaKey = "united states of america"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lower and trim", "  France ", "france"},
		{"punctuation to space", "Korea, Republic of", "korea republic of"},
		{"dotted abbreviation", "U.S.A", "u s a"},
		{"trailing dot", "U.S.A.", "u s a"},
		{"collapse whitespace", "New \t  Zealand", "new zealand"},
		{"apostrophe", "Lao People's Democratic Republic", "lao people s democratic republic"},
		{"keeps accented letters", "Côte d'Ivoire", "côte d ivoire"},
		{"keeps digits", "Region 51", "region 51"},
		{"underscore is punctuation", "north_macedonia", "north macedonia"},
		{"empty", "", ""},
		{"only punctuation", "--", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestJoinKey_USAVariants(t *testing.T) {
	for _, name := range []string{"USA", "U.S.A", "usa", "United States", "u s a", "United States of America"} {
		assert.Equal(t, usaKey, JoinKey(name), name)
	}
	assert.Equal(t, JoinKey("United States of America"), JoinKey("USA"))
}

func TestJoinKey_Aliases(t *testing.T) {
	tests := map[string]string{
		"Russia":            "russian federation",
		"South Korea":       "korea republic of",
		"North Korea":       "korea democratic people s republic of",
		"Czech":             "czechia",
		"Czech Republic":    "czechia",
		"Swaziland":         "eswatini",
		"Cape Verde":        "cabo verde",
		"Laos":              "lao people s democratic republic",
		"Moldova":           "moldova republic of",
		"Ivory Coast":       "cote d ivoire",
		"Brunei Darussalam": "brunei",
		"Vatican":           "holy see",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, JoinKey(input), input)
	}
}

func TestJoinKey_ReferenceSpellingsMatchAliases(t *testing.T) {
	// Reference-side spellings must normalize onto the alias targets.
	pairs := map[string]string{
		"South Korea": "Korea, Republic of",
		"North Korea": "Korea, Democratic People's Republic of",
		"Laos":        "Lao People's Democratic Republic",
		"Moldova":     "Moldova, Republic of",
		"Ivory Coast": "Cote d'Ivoire",
	}
	for colloquial, reference := range pairs {
		assert.Equal(t, JoinKey(reference), JoinKey(colloquial), colloquial)
	}
}

func TestCountryAliases_TargetsAreNormalized(t *testing.T) {
	assert.Len(t, countryAliases, 15)
	for from, to := range countryAliases {
		assert.Equal(t, from, NormalizeName(from), "alias key %q", from)
		assert.Equal(t, to, NormalizeName(to), "alias target %q", to)
	}
}

func TestJoinKey_NoAlias(t *testing.T) {
	assert.Equal(t, "germany", JoinKey(" Germany "))
}
