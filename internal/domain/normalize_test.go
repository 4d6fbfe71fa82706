package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoresOf(vals map[Type]float64) Scores {
	var s Scores
	for t, v := range vals {
		s.Set(t, Some(v))
	}
	return s
}

func TestNormalizeToHundred_RowSums(t *testing.T) {
	in := CanonicalTable{Shape: ShapeWide, Rows: []CanonicalRow{
		{Country: "A", Scores: scoresOf(map[Type]float64{INFP: 1, INTJ: 1, ESTP: 2})},
		{Country: "B", Scores: scoresOf(map[Type]float64{ENFJ: 0.3, ISFJ: 0.1, ISTP: 0.05})},
		{Country: "C", Scores: scoresOf(map[Type]float64{INFP: 0, INTJ: 0})},
		{Country: "D"},
	}}

	out := NormalizeToHundred(in)
	require.Len(t, out.Rows, 4)

	for _, row := range out.Rows {
		sum, n := row.Scores.Sum()
		if n == 0 {
			continue
		}
		assert.InDelta(t, 100.0, sum, 1e-9, row.Country)
	}

	a := out.Rows[0].Scores
	assert.InDelta(t, 25.0, a.Get(INFP).Float, 1e-9)
	assert.InDelta(t, 50.0, a.Get(ESTP).Float, 1e-9)
	assert.False(t, a.Get(ENFP).Valid, "absent stays absent")

	for _, country := range []int{2, 3} {
		_, n := out.Rows[country].Scores.Sum()
		assert.Zero(t, n, "zero or empty sum propagates absence for %s", out.Rows[country].Country)
	}
	assert.Empty(t, out.Warnings)
}

func TestNormalizeToHundred_DoesNotMutateInput(t *testing.T) {
	in := CanonicalTable{Rows: []CanonicalRow{{Country: "A", Scores: scoresOf(map[Type]float64{INFP: 2})}}}

	_ = NormalizeToHundred(in)

	assert.Equal(t, Some(2), in.Rows[0].Scores.Get(INFP))
}

func TestNormalizeToHundred_NegativeValues(t *testing.T) {
	in := CanonicalTable{Rows: []CanonicalRow{
		{Country: "A", Scores: scoresOf(map[Type]float64{INFP: 3, INTJ: -1, ENFP: 1})},
		{Country: "B", Scores: scoresOf(map[Type]float64{INFP: -5})},
	}}

	out := NormalizeToHundred(in)

	a := out.Rows[0].Scores
	assert.False(t, a.Get(INTJ).Valid)
	assert.InDelta(t, 75.0, a.Get(INFP).Float, 1e-9)
	_, n := out.Rows[1].Scores.Sum()
	assert.Zero(t, n)
	require.Len(t, out.Warnings, 2)
	assert.Contains(t, out.Warnings[0], "A: negative INTJ value -1")
}

func TestMelt(t *testing.T) {
	in := NormalizedTable{Rows: []CanonicalRow{
		{Country: "A", Scores: scoresOf(map[Type]float64{INTJ: 40, ESFP: 60})},
		{Country: "B"},
	}}

	long := Melt(in)

	require.Len(t, long, 2*TypeCount)
	assert.Equal(t, LongRecord{Country: "A", Type: INTJ, Percent: Some(40)}, long[0])
	assert.Equal(t, LongRecord{Country: "A", Type: ESFP, Percent: Some(60)}, long[TypeCount-1])
	assert.Equal(t, "B", long[TypeCount].Country)
	assert.False(t, long[TypeCount].Percent.Valid)
}
