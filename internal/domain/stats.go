package domain

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// pearson returns the linear correlation of x and y, absent for fewer than two
// pairs or a constant series.
func pearson(x, y []float64) Value {
	if len(x) < 2 || len(x) != len(y) {
		return Value{}
	}
	return Some(stat.Correlation(x, y, nil))
}

// spearman is the Pearson correlation of the average ranks of x and y.
func spearman(x, y []float64) Value {
	if len(x) < 2 || len(x) != len(y) {
		return Value{}
	}
	return pearson(ranks(x), ranks(y))
}

// ranks assigns 1-based ranks, averaging the ranks of tied values.
func ranks(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	inds := make([]int, len(xs))
	floats.Argsort(sorted, inds)

	out := make([]float64, len(xs))
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[inds[k]] = avg
		}
		i = j + 1
	}
	return out
}
