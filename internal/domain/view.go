package domain

import (
	"fmt"
	"slices"
	"sort"
)

// ViewConfig is the presentation layer's selection state: which type to
// highlight, which groups to show and how the map is drawn. It is a value;
// every change produces a new config and a new View.
type ViewConfig struct {
	Type        Type          `json:"type"`
	Continents  []string      `json:"continents,omitempty"`
	Climates    []ClimateZone `json:"climates,omitempty"`
	TopN        int           `json:"top_n"`
	BubbleScale int           `json:"bubble_scale"`
	FillOpacity float64       `json:"fill_opacity"`
}

// View bounds.
const (
	MinTopN        = 5
	MaxTopN        = 30
	MinBubbleScale = 50
	MaxBubbleScale = 800
	MinFillOpacity = 0.2
	MaxFillOpacity = 1.0
)

// DefaultViewConfig highlights INFP with the ten highest countries.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Type:        INFP,
		TopN:        10,
		BubbleScale: 300,
		FillOpacity: 0.6,
	}
}

// Validate checks the type and numeric bounds.
func (c ViewConfig) Validate() error {
	if c.Type.Index() < 0 {
		return fmt.Errorf("unknown mbti type %q", c.Type)
	}
	if c.TopN < MinTopN || c.TopN > MaxTopN {
		return fmt.Errorf("top_n must be between %d and %d, got %d", MinTopN, MaxTopN, c.TopN)
	}
	if c.BubbleScale < MinBubbleScale || c.BubbleScale > MaxBubbleScale {
		return fmt.Errorf("bubble_scale must be between %d and %d, got %d", MinBubbleScale, MaxBubbleScale, c.BubbleScale)
	}
	// Written as a negated range so NaN is rejected.
	if !(c.FillOpacity >= MinFillOpacity && c.FillOpacity <= MaxFillOpacity) {
		return fmt.Errorf("fill_opacity must be between %.1f and %.1f, got %g", MinFillOpacity, MaxFillOpacity, c.FillOpacity)
	}
	for _, z := range c.Climates {
		if _, ok := ParseClimateZone(string(z)); !ok {
			return fmt.Errorf("unknown climate zone %q", z)
		}
	}
	return nil
}

func (c ViewConfig) keepContinent(r GeoRecord) bool {
	return len(c.Continents) == 0 || slices.Contains(c.Continents, r.Continent)
}

func (c ViewConfig) keepClimate(r GeoRecord) bool {
	return len(c.Climates) == 0 || slices.Contains(c.Climates, r.ClimateZone)
}

// MapPoint is one capital bubble on the world map.
type MapPoint struct {
	Country     string      `json:"country"`
	Continent   string      `json:"continent"`
	ClimateZone ClimateZone `json:"climate_zone"`
	Lat         float64     `json:"lat"`
	Lon         float64     `json:"lon"`
	Value       Value       `json:"value"`
}

// TopEntry is one row of the top-N ranking for the selected type.
type TopEntry struct {
	Rank        int         `json:"rank"`
	Country     string      `json:"country"`
	Continent   string      `json:"continent"`
	ClimateZone ClimateZone `json:"climate_zone"`
	Percent     float64     `json:"percent"`
}

// View is everything the presentation layer draws for one config.
type View struct {
	Config         ViewConfig     `json:"config"`
	Points         []MapPoint     `json:"points"`
	Top            []TopEntry     `json:"top"`
	ContinentMeans []GroupSummary `json:"continent_means"`
	ClimateMeans   []GroupSummary `json:"climate_means"`
	Correlations   []Correlation  `json:"correlations"`
}

// BuildView applies cfg to a geo table. Map points and the ranking honor both
// filters; continent means honor only the continent filter and climate means
// only the climate filter; correlations use every row.
func BuildView(t GeoTable, cfg ViewConfig) View {
	var both, byContinent, byClimate GeoTable
	for _, rec := range t.Records {
		kc, kz := cfg.keepContinent(rec), cfg.keepClimate(rec)
		if kc {
			byContinent.Records = append(byContinent.Records, rec)
		}
		if kz {
			byClimate.Records = append(byClimate.Records, rec)
		}
		if kc && kz {
			both.Records = append(both.Records, rec)
		}
	}

	v := View{
		Config:         cfg,
		Points:         []MapPoint{},
		ContinentMeans: SummarizeGroups(byContinent, GroupContinent),
		ClimateMeans:   SummarizeGroups(byClimate, GroupClimate),
		Correlations:   Correlate(t),
	}
	for _, rec := range both.Records {
		if !rec.CapitalLatitude.Valid || !rec.CapitalLongitude.Valid {
			continue
		}
		v.Points = append(v.Points, MapPoint{
			Country:     rec.Country,
			Continent:   rec.Continent,
			ClimateZone: rec.ClimateZone,
			Lat:         rec.CapitalLatitude.Float,
			Lon:         rec.CapitalLongitude.Float,
			Value:       rec.Scores.Get(cfg.Type),
		})
	}
	v.Top = topN(both, cfg.Type, cfg.TopN)
	return v
}

func topN(t GeoTable, typ Type, n int) []TopEntry {
	ranked := make([]GeoRecord, 0, len(t.Records))
	for _, rec := range t.Records {
		if rec.Scores.Get(typ).Valid {
			ranked = append(ranked, rec)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Scores.Get(typ).Float > ranked[j].Scores.Get(typ).Float
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]TopEntry, len(ranked))
	for i, rec := range ranked {
		out[i] = TopEntry{
			Rank:        i + 1,
			Country:     rec.Country,
			Continent:   rec.Continent,
			ClimateZone: rec.ClimateZone,
			Percent:     rec.Scores.Get(typ).Float,
		}
	}
	return out
}
