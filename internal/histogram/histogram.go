// Package histogram bins one-dimensional samples into counts.
package histogram

import (
	"math"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/agbru/numex/internal/errors"
)

const op = "histogram"

// Histogram counts the samples of data falling into each bin defined by
// edges, which holds nbins+1 strictly increasing values.
//
// A value is assigned to the first bin i whose upper edge satisfies
// value < edges[i+1], scanning left to right. Consequently:
//   - bin i covers [edges[i], edges[i+1]),
//   - a value equal to an internal edge lands in the upper bin,
//   - values below edges[0] or at/above the last edge are dropped silently.
//
// NaN samples compare false against every edge and are dropped as well.
func Histogram(data, edges []float64) ([]int, error) {
	if err := ValidateEdges(edges); err != nil {
		return nil, err
	}
	counts := make([]int, len(edges)-1)
	if len(counts) == 0 {
		return counts, nil
	}
	lo, hi := edges[0], edges[len(edges)-1]
	for _, v := range data {
		if !(v >= lo && v < hi) {
			continue
		}
		for i := 1; i < len(edges); i++ {
			if v < edges[i] {
				counts[i-1]++
				break
			}
		}
	}
	return counts, nil
}

// ValidateEdges checks that edges is non-empty, finite and strictly increasing.
func ValidateEdges(edges []float64) error {
	if len(edges) == 0 {
		return apperrors.NewInvalidArgument(op, "at least one bin edge is required")
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return apperrors.NewInvalidArgument(op, "edge %d is not finite: %v", i, e)
		}
		if i > 0 && e <= edges[i-1] {
			return apperrors.NewInvalidArgument(op, "edges must be strictly increasing: edges[%d]=%v <= edges[%d]=%v", i, e, i-1, edges[i-1])
		}
	}
	return nil
}

// UniformEdges returns nbins+1 evenly spaced edges covering [lo, hi].
func UniformEdges(lo, hi float64, nbins int) ([]float64, error) {
	if nbins < 1 {
		return nil, apperrors.NewInvalidArgument(op, "number of bins must be positive, got %d", nbins)
	}
	if !(hi > lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, apperrors.NewInvalidArgument(op, "invalid range [%v, %v]", lo, hi)
	}
	return floats.Span(make([]float64, nbins+1), lo, hi), nil
}

// Total returns the number of samples that were binned.
func Total(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
