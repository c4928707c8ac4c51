package stats

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/numex/internal/errors"
)

func TestChiSquared(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		model  []float64
		meas   []float64
		errors []float64
		want   float64
	}{
		{"perfect agreement", []float64{1, 2}, []float64{1, 2}, []float64{1, 1}, 0},
		{"single unit pull", []float64{0}, []float64{1}, []float64{1}, 1},
		{"errors scale pulls", []float64{0, 0}, []float64{2, 3}, []float64{2, 0.5}, 1 + 36},
		{"sign does not matter", []float64{3}, []float64{1}, []float64{-2}, 1},
		{"empty input", nil, nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ChiSquared(tt.model, tt.meas, tt.errors)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestChiSquaredDimensionMismatch(t *testing.T) {
	t.Parallel()
	cases := [][3][]float64{
		{{1, 2}, {1}, {1, 1}},
		{{1}, {1}, {1, 1}},
		{{}, {1}, {}},
	}
	for _, c := range cases {
		_, err := ChiSquared(c[0], c[1], c[2])
		assert.ErrorIs(t, err, apperrors.ErrDimensionMismatch)
	}
}

func TestChiSquaredZeroErrorPropagatesIEEE(t *testing.T) {
	t.Parallel()
	got, err := ChiSquared([]float64{1}, []float64{0}, []float64{0})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1), "expected +Inf, got %v", got)

	got, err = ChiSquared([]float64{1}, []float64{1}, []float64{0})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got), "expected NaN, got %v", got)
}

func TestReducedChiSquared(t *testing.T) {
	t.Parallel()
	got, err := ReducedChiSquared(12, 7, 3)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-15)

	_, err = ReducedChiSquared(1, 3, 3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

// TestChiSquared_NonNegative checks that the statistic is never negative for
// real inputs with non-zero errors.
func TestChiSquared_NonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	nonZero := gen.Float64Range(0.01, 100)

	properties.Property("chi squared >= 0", prop.ForAll(
		func(model []float64, shift float64, sigma float64) bool {
			meas := make([]float64, len(model))
			errs := make([]float64, len(model))
			for i, m := range model {
				meas[i] = m + shift*float64(i%3-1)
				errs[i] = sigma
			}
			chi2, err := ChiSquared(model, meas, errs)
			return err == nil && chi2 >= 0
		},
		gen.SliceOf(gen.Float64Range(-1e3, 1e3)),
		gen.Float64Range(-10, 10),
		nonZero,
	))

	properties.Property("scaling errors by k scales chi squared by 1/k²", prop.ForAll(
		func(pull float64, k float64) bool {
			base, _ := ChiSquared([]float64{pull}, []float64{0}, []float64{1})
			scaled, _ := ChiSquared([]float64{pull}, []float64{0}, []float64{k})
			return math.Abs(scaled*k*k-base) <= 1e-9*math.Max(1, base)
		},
		gen.Float64Range(-100, 100),
		nonZero,
	))

	properties.TestingRun(t)
}
