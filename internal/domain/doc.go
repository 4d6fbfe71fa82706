// Package domain models country-level MBTI distribution data and its join with
// capital-city reference geography.
//
// # Data Source
//
// The primary input is a CSV of MBTI type percentages per country, typically
// the Kaggle "countriesMBTI_16types.csv" export. Headers are not stable across
// copies of the dataset: the country column may be named "Country", "Nation",
// "국가" and so on, and type columns may be upper, lower or mixed case. Some
// copies are published in long form, one row per (country, type) pair.
//
// Reference geography comes from the public country-capitals list
// (https://github.com/icyrockcom/country-capitals), one row per country with the
// capital's coordinates and continent.
//
// # Stages
//
// Each stage is a pure function from one immutable table to the next:
//
//	RawTable
//	  → DetectCountryColumn / DetectTypeColumns
//	  → Reconcile        (wide or long → CanonicalTable, 16 types in fixed order)
//	  → NormalizeToHundred (each row rescaled to sum to 100)
//	  → Join             (left join on JoinKey with ReferenceGeoRow)
//	  → GroupMeans / Correlate / BuildView
//
// RawTable is the only loosely-typed value. Past Reconcile every row carries a
// fixed [TypeCount]Value array, so a missing type is an invalid Value rather
// than a missing key.
//
// # Missing values
//
// Numeric coercion never fails. Blank cells, the usual NA spellings ("NA",
// "N/A", "null", "NaN", ...) and anything strconv cannot parse become an absent
// Value. Absence propagates: a row whose values sum to zero normalizes to all
// absent, never to zeros. Negative and non-finite inputs are treated as absent
// before normalization and reported as warnings.
//
// # Join keys
//
// Country names are lower-cased, punctuation is replaced with spaces and
// whitespace collapsed, then a fixed alias table maps colloquial names to the
// reference spelling:
//
//	"USA", "U.S.A", "usa" → "united states of america"
//	"South Korea"         → "korea republic of"
//	"Côte d'Ivoire"       → "côte d ivoire" (no alias; letters are kept)
//
// See [JoinKey].
//
// # Climate zones
//
// A coarse bucket from the absolute capital latitude:
//
//	|lat| < 23.5 Tropical | < 35 Subtropical | < 60 Temperate | ≥ 60 Polar
//
// Rows without a reference match are Unknown.
package domain
