//go:build smoke

package geodata

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/mbti-climate-service/internal/config"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real reference sources and need network access.
// Run with: go test -tags=smoke ./internal/adapter/geodata/ -v -count=1

func smokeClient() *Client {
	c, _ := testClient(15 * time.Second)
	return c
}

func TestSmoke_Capitals(t *testing.T) {
	rows, err := smokeClient().Capitals(context.Background(), config.DefaultCapitalsURL)
	require.NoError(t, err)

	assert.Greater(t, len(rows), 150)

	byKey := make(map[string]domain.ReferenceGeoRow, len(rows))
	for _, r := range rows {
		byKey[domain.JoinKey(r.CountryName)] = r
	}
	norway, ok := byKey[domain.JoinKey("Norway")]
	require.True(t, ok)
	assert.InDelta(t, 59.9, norway.CapitalLatitude.Float, 1)
	assert.Equal(t, "Europe", norway.ContinentName)
}

func TestSmoke_World(t *testing.T) {
	doc, err := smokeClient().World(context.Background(), config.DefaultWorldURL)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"countries"`)
}

func TestSmoke_CachedSource(t *testing.T) {
	cached := NewCachedSource(smokeClient(), 4, observability.NewMetricsForTesting())

	r1, err := cached.Capitals(context.Background(), config.DefaultCapitalsURL)
	require.NoError(t, err)

	r2, err := cached.Capitals(context.Background(), config.DefaultCapitalsURL)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
