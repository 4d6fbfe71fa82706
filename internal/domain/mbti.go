package domain

import "strings"

// Type is one of the 16 four-letter MBTI personality codes.
type Type string

const (
	INTJ Type = "INTJ"
	INTP Type = "INTP"
	ENTJ Type = "ENTJ"
	ENTP Type = "ENTP"
	INFJ Type = "INFJ"
	INFP Type = "INFP"
	ENFJ Type = "ENFJ"
	ENFP Type = "ENFP"
	ISTJ Type = "ISTJ"
	ISFJ Type = "ISFJ"
	ESTJ Type = "ESTJ"
	ESFJ Type = "ESFJ"
	ISTP Type = "ISTP"
	ISFP Type = "ISFP"
	ESTP Type = "ESTP"
	ESFP Type = "ESFP"
)

// TypeCount is the size of the MBTI vocabulary.
const TypeCount = 16

// Types lists every type in canonical column order.
var Types = [TypeCount]Type{
	INTJ, INTP, ENTJ, ENTP,
	INFJ, INFP, ENFJ, ENFP,
	ISTJ, ISFJ, ESTJ, ESFJ,
	ISTP, ISFP, ESTP, ESFP,
}

var typeIndex = func() map[Type]int {
	m := make(map[Type]int, TypeCount)
	for i, t := range Types {
		m[t] = i
	}
	return m
}()

// ParseType upper-cases and trims s and reports whether it names a known type.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := typeIndex[t]
	return t, ok
}

// Index returns the canonical position of t, or -1 for an unknown type.
func (t Type) Index() int {
	if i, ok := typeIndex[t]; ok {
		return i
	}
	return -1
}

func (t Type) String() string { return string(t) }

func typeNames() []string {
	out := make([]string, TypeCount)
	for i, t := range Types {
		out[i] = string(t)
	}
	return out
}
