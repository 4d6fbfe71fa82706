package domain

// CountryKey is the canonical name of the country column after detection,
// whatever the source header was.
const CountryKey = "Country"

var (
	countryColumnAliases = AliasSet{
		Name:    "country",
		Aliases: []string{"Country", "country", "국가", "국가명", "Nation", "Region", "Country/Region"},
		Mode:    MatchExact,
	}

	typeVocabulary = AliasSet{
		Name:    "mbti type",
		Aliases: typeNames(),
		Mode:    MatchUpper,
	}
)

// TypeColumn is a source column recognized as one of the 16 types.
type TypeColumn struct {
	Column string
	Index  int
	Type   Type
}

// DetectCountryColumn returns the first column named like a country column,
// falling back to the first column that is not uniformly numeric.
func DetectCountryColumn(t RawTable) (string, error) {
	if i, ok := countryColumnAliases.FirstColumn(t.Header); ok {
		return t.Header[i], nil
	}
	for i, h := range t.Header {
		if !t.IsNumericColumn(i) {
			return h, nil
		}
	}
	return "", &SchemaError{Reason: "no country column"}
}

// DetectTypeColumns returns every column whose upper-cased, trimmed header is
// an MBTI type, in column order.
func DetectTypeColumns(t RawTable) []TypeColumn {
	var cols []TypeColumn
	for i, h := range t.Header {
		if name, ok := typeVocabulary.Match(h); ok {
			cols = append(cols, TypeColumn{Column: h, Index: i, Type: Type(name)})
		}
	}
	return cols
}
