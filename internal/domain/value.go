package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a float that may be absent. The zero Value is absent.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a present Value, or an absent one when f is NaN or infinite.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, Valid: true}
}

// naTokens are the cell spellings read as missing, matching common CSV exports.
var naTokens = func() map[string]struct{} {
	tokens := []string{
		"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
		"n/a", "nan", "null",
	}
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}()

func isNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// ParseValue coerces a cell to a number. Anything that is not a finite number
// is absent; it never returns an error.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if isNA(s) {
		return Value{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}
	}
	return Some(f)
}

// Or returns the float, or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.Float
}

func (v Value) String() string {
	if !v.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = Some(f)
	return nil
}

// Scores holds one Value per type, indexed by canonical position.
type Scores [TypeCount]Value

// Get returns the value for t; an unknown type is absent.
func (s Scores) Get(t Type) Value {
	i := t.Index()
	if i < 0 {
		return Value{}
	}
	return s[i]
}

// Set stores v for t. Unknown types are ignored.
func (s *Scores) Set(t Type, v Value) {
	if i := t.Index(); i >= 0 {
		s[i] = v
	}
}

// Sum adds the present values and reports how many were present.
func (s Scores) Sum() (float64, int) {
	var sum float64
	var n int
	for _, v := range s {
		if v.Valid {
			sum += v.Float
			n++
		}
	}
	return sum, n
}

// MarshalJSON encodes scores as an object keyed by type, in canonical order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range Types {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := s[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", t)
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Scores) UnmarshalJSON(data []byte) error {
	var m map[string]Value
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode scores: %w", err)
	}
	*s = Scores{}
	for k, v := range m {
		if t, ok := ParseType(k); ok {
			s.Set(t, v)
		}
	}
	return nil
}
