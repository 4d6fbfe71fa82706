package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected Value
	}{
		{"12.5", Some(12.5)},
		{" 3 ", Some(3)},
		{"-4", Some(-4)},
		{"1e2", Some(100)},
		{"", Value{}},
		{"NA", Value{}},
		{"null", Value{}},
		{"NaN", Value{}},
		{"inf", Value{}},
		{"12%", Value{}},
		{"1,234", Value{}},
		{"abc", Value{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseValue(tt.input), "input %q", tt.input)
	}
}

func TestSome_NonFinite(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid)
	assert.False(t, Some(math.Inf(-1)).Valid)
	assert.True(t, Some(0).Valid)
}

func TestValue_JSON(t *testing.T) {
	b, err := json.Marshal([]Value{Some(1.5), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5,null]`, string(b))

	var back []Value
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Value{Some(1.5), {}}, back)
}

func TestScores_JSONCanonicalOrder(t *testing.T) {
	var s Scores
	s.Set(ESFP, Some(2))
	s.Set(INTJ, Some(1))

	b, err := json.Marshal(s)
	require.NoError(t, err)

	out := string(b)
	assert.True(t, strings.HasPrefix(out, `{"INTJ":1,"INTP":null`), out)
	assert.True(t, strings.HasSuffix(out, `"ESFP":2}`), out)

	var back Scores
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)
}

func TestParseType(t *testing.T) {
	typ, ok := ParseType(" infp ")
	assert.True(t, ok)
	assert.Equal(t, INFP, typ)
	assert.Equal(t, 5, typ.Index())

	_, ok = ParseType("INFX")
	assert.False(t, ok)
	assert.Equal(t, -1, Type("INFX").Index())
}
