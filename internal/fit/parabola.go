// Package fit implements weighted linear least-squares fits.
package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/numex/internal/errors"
)

const op = "fit_parabola"

// NumParams is the number of coefficients of a parabola.
const NumParams = 3

// Parabola holds the coefficients of y = A0 + A1*x + A2*x².
type Parabola struct {
	A0, A1, A2 float64
}

// Coefficients returns [A0, A1, A2].
func (p Parabola) Coefficients() [NumParams]float64 {
	return [NumParams]float64{p.A0, p.A1, p.A2}
}

// Eval evaluates the parabola at x.
func (p Parabola) Eval(x float64) float64 {
	return p.A0 + x*(p.A1+x*p.A2)
}

// Predict evaluates the parabola at every point of xs.
func (p Parabola) Predict(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x)
	}
	return ys
}

func (p Parabola) String() string {
	return fmt.Sprintf("y = %g + %g·x + %g·x²", p.A0, p.A1, p.A2)
}

// FitParabola returns the coefficients minimizing the weighted sum of squared
// residuals Σ((y[i] - p(x[i]))/sigma[i])².
//
// The solution is the one of the normal equations (XᵀVX)a = XᵀVy with the
// design matrix X = [1, x, x²] and V = diag(1/sigma²). Rather than forming
// XᵀVX, whose condition number is the square of the design's, it solves
// the equivalent least-squares problem (WX)a ≈ Wy with W = diag(1/sigma)
// through a QR factorization of WX. Data far from the origin, such as
// x = 1000..1004, therefore still fit.
//
// startParams must hold three values but is not used: the system is linear in
// the coefficients and has a closed-form solution, so no initial guess is
// needed. It is kept so callers written against an iterative fitter work
// unchanged.
//
// Errors:
//   - ErrDimensionMismatch if x, yMeas and sigma differ in length, or if
//     startParams does not hold exactly three values.
//   - ErrSingularMatrix if WX is rank deficient (condition number above
//     mat.ConditionTolerance), e.g. fewer than three distinct x values or
//     all uncertainties infinite.
func FitParabola(x, yMeas, sigma, startParams []float64) (Parabola, error) {
	n := len(x)
	if len(yMeas) != n || len(sigma) != n {
		return Parabola{}, apperrors.NewDimensionMismatch(op,
			"len(x)=%d, len(y_meas)=%d, len(errors)=%d", len(x), len(yMeas), len(sigma))
	}
	if len(startParams) != NumParams {
		return Parabola{}, apperrors.NewDimensionMismatch(op,
			"start_params must hold %d values, got %d", NumParams, len(startParams))
	}
	if n < NumParams {
		return Parabola{}, apperrors.NewSingularMatrix(op,
			fmt.Sprintf("%d points cannot determine %d coefficients", n, NumParams), nil)
	}

	// Row i of the weighted system is scaled by 1/|sigma[i]|.
	design := mat.NewDense(n, NumParams, nil)
	rhs := mat.NewVecDense(n, nil)
	for i, xi := range x {
		w := 1 / math.Abs(sigma[i])
		design.SetRow(i, []float64{w, w * xi, w * xi * xi})
		rhs.SetVec(i, w*yMeas[i])
	}

	var qr mat.QR
	qr.Factorize(design)

	var coeffs mat.VecDense
	if err := qr.SolveVecTo(&coeffs, false, rhs); err != nil {
		return Parabola{}, apperrors.NewSingularMatrix(op, "weighted design matrix is rank deficient", err)
	}
	return Parabola{A0: coeffs.AtVec(0), A1: coeffs.AtVec(1), A2: coeffs.AtVec(2)}, nil
}
