package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewFixture() GeoTable {
	withLon := func(r GeoRecord, lon float64) GeoRecord {
		r.CapitalLongitude = Some(lon)
		return r
	}
	return GeoTable{Records: []GeoRecord{
		withLon(geoRecord("Korea", "Asia", Some(37.5), map[Type]float64{INFP: 12, INTJ: 3}), 127),
		withLon(geoRecord("Thailand", "Asia", Some(13.7), map[Type]float64{INFP: 8}), 100.5),
		withLon(geoRecord("Norway", "Europe", Some(59.9), map[Type]float64{INFP: 15}), 10.7),
		withLon(geoRecord("Iceland", "Europe", Some(64.1), map[Type]float64{INTJ: 9}), -21.9),
		geoRecord("Atlantis", UnknownContinent, Value{}, map[Type]float64{INFP: 99}),
	}}
}

func TestDefaultViewConfig_Valid(t *testing.T) {
	cfg := DefaultViewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, INFP, cfg.Type)
	assert.Equal(t, 10, cfg.TopN)
}

func TestViewConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ViewConfig)
		errMsg string
	}{
		{"unknown type", func(c *ViewConfig) { c.Type = "ABCD" }, "unknown mbti type"},
		{"top too small", func(c *ViewConfig) { c.TopN = 4 }, "top_n"},
		{"top too large", func(c *ViewConfig) { c.TopN = 31 }, "top_n"},
		{"bubble scale", func(c *ViewConfig) { c.BubbleScale = 900 }, "bubble_scale"},
		{"opacity", func(c *ViewConfig) { c.FillOpacity = 0.1 }, "fill_opacity"},
		{"opacity NaN", func(c *ViewConfig) { c.FillOpacity = math.NaN() }, "fill_opacity"},
		{"climate", func(c *ViewConfig) { c.Climates = []ClimateZone{"Arid"} }, "climate zone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultViewConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBuildView_NoFilters(t *testing.T) {
	cfg := DefaultViewConfig()
	cfg.TopN = 5

	v := BuildView(viewFixture(), cfg)

	assert.Len(t, v.Points, 4, "rows without coordinates are not drawn")
	require.Len(t, v.Top, 4, "absent values are not ranked")
	assert.Equal(t, "Atlantis", v.Top[0].Country)
	assert.Equal(t, "Norway", v.Top[1].Country)
	assert.Equal(t, 2, v.Top[1].Rank)
	assert.Equal(t, "Korea", v.Top[2].Country)
	assert.Len(t, v.ContinentMeans, 3)
	assert.Len(t, v.Correlations, TypeCount)
}

func TestBuildView_Filters(t *testing.T) {
	cfg := DefaultViewConfig()
	cfg.Continents = []string{"Asia"}
	cfg.Climates = []ClimateZone{Temperate}

	v := BuildView(viewFixture(), cfg)

	require.Len(t, v.Points, 1)
	assert.Equal(t, "Korea", v.Points[0].Country)
	assert.Equal(t, Some(12), v.Points[0].Value)
	assert.Equal(t, 127.0, v.Points[0].Lon)

	require.Len(t, v.Top, 1)
	assert.Equal(t, "Korea", v.Top[0].Country)

	require.Len(t, v.ContinentMeans, 1, "continent means follow only the continent filter")
	assert.Equal(t, "Asia", v.ContinentMeans[0].Group)
	assert.Equal(t, Some(10), v.ContinentMeans[0].Means.Get(INFP))

	require.Len(t, v.ClimateMeans, 1, "climate means follow only the climate filter")
	assert.Equal(t, string(Temperate), v.ClimateMeans[0].Group)
	assert.Equal(t, 2, v.ClimateMeans[0].Countries)

	infp := v.Correlations[INFP.Index()]
	assert.Equal(t, 3, infp.N, "correlations ignore filters")
}
