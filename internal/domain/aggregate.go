package domain

import (
	"sort"
	"strings"
)

// GroupField selects the record attribute used for group comparisons.
type GroupField string

const (
	GroupContinent GroupField = "continent"
	GroupClimate   GroupField = "climate"
)

// ParseGroupField accepts "continent"/"region" and "climate"/"climate_zone".
func ParseGroupField(s string) (GroupField, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "continent", "region":
		return GroupContinent, true
	case "climate", "climate_zone", "climatezone":
		return GroupClimate, true
	default:
		return "", false
	}
}

func (f GroupField) of(r GeoRecord) string {
	if f == GroupClimate {
		return string(r.ClimateZone)
	}
	return r.Continent
}

// GroupSummary holds per-type means for one group.
type GroupSummary struct {
	Group     string `json:"group"`
	Countries int    `json:"countries"`
	Means     Scores `json:"means"`
}

type meanAcc struct {
	countries int
	sum       [TypeCount]float64
	n         [TypeCount]int
}

func (a *meanAcc) means() Scores {
	var out Scores
	for i := range out {
		if a.n[i] > 0 {
			out[i] = Some(a.sum[i] / float64(a.n[i]))
		}
	}
	return out
}

// SummarizeGroups computes the arithmetic mean of each type over the present
// values of every group, sorted by group name.
func SummarizeGroups(t GeoTable, field GroupField) []GroupSummary {
	accs := make(map[string]*meanAcc)
	for _, rec := range t.Records {
		key := field.of(rec)
		a, ok := accs[key]
		if !ok {
			a = &meanAcc{}
			accs[key] = a
		}
		a.countries++
		for i, v := range rec.Scores {
			if v.Valid {
				a.sum[i] += v.Float
				a.n[i]++
			}
		}
	}

	out := make([]GroupSummary, 0, len(accs))
	for key, a := range accs {
		out = append(out, GroupSummary{Group: key, Countries: a.countries, Means: a.means()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// GroupMeans maps each group to its per-type means.
func GroupMeans(t GeoTable, field GroupField) map[string]Scores {
	summaries := SummarizeGroups(t, field)
	out := make(map[string]Scores, len(summaries))
	for _, s := range summaries {
		out[s.Group] = s.Means
	}
	return out
}

// GroupMean maps each group to its mean for a single type.
func GroupMean(t GeoTable, field GroupField, typ Type) map[string]Value {
	means := GroupMeans(t, field)
	out := make(map[string]Value, len(means))
	for g, s := range means {
		out[g] = s.Get(typ)
	}
	return out
}

// Correlation relates one type's percentage to absolute capital latitude.
type Correlation struct {
	Type     Type  `json:"type"`
	Pearson  Value `json:"pearson"`
	Spearman Value `json:"spearman"`
	N        int   `json:"n"`
}

// Correlate computes Pearson and Spearman correlations between each type and
// AbsLatitude over rows where both are present. Rows without a latitude are
// excluded, not treated as zero.
func Correlate(t GeoTable) []Correlation {
	out := make([]Correlation, TypeCount)
	for i, typ := range Types {
		var xs, lats []float64
		for _, rec := range t.Records {
			v := rec.Scores[i]
			if !v.Valid || !rec.AbsLatitude.Valid {
				continue
			}
			xs = append(xs, v.Float)
			lats = append(lats, rec.AbsLatitude.Float)
		}
		out[i] = Correlation{
			Type:     typ,
			Pearson:  pearson(xs, lats),
			Spearman: spearman(xs, lats),
			N:        len(xs),
		}
	}
	return out
}
