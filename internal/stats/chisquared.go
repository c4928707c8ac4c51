// Package stats implements goodness-of-fit statistics.
package stats

import (
	"gonum.org/v1/gonum/floats"

	apperrors "github.com/agbru/numex/internal/errors"
)

// ChiSquared returns Σ((model[i]-meas[i])/errors[i])² over all indices.
//
// The three slices must have the same length. Zero entries in errors are not
// guarded: they yield +Inf (or NaN when model[i] == meas[i]) per IEEE-754.
func ChiSquared(model, meas, errors []float64) (float64, error) {
	if len(model) != len(meas) || len(model) != len(errors) {
		return 0, apperrors.NewDimensionMismatch("chi_squared",
			"len(model)=%d, len(meas)=%d, len(errors)=%d", len(model), len(meas), len(errors))
	}
	if len(model) == 0 {
		return 0, nil
	}
	pulls := floats.SubTo(make([]float64, len(model)), model, meas)
	floats.Div(pulls, errors)
	return floats.Dot(pulls, pulls), nil
}

// ReducedChiSquared divides chi2 by the number of degrees of freedom,
// nPoints - nParams.
func ReducedChiSquared(chi2 float64, nPoints, nParams int) (float64, error) {
	dof := nPoints - nParams
	if dof <= 0 {
		return 0, apperrors.NewInvalidArgument("reduced_chi_squared",
			"no degrees of freedom left: %d points, %d parameters", nPoints, nParams)
	}
	return chi2 / float64(dof), nil
}
