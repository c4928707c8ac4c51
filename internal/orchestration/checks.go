package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/numex/internal/cli"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/neutron"
	"github.com/agbru/numex/internal/physconst"
	"github.com/agbru/numex/internal/service"
	"github.com/agbru/numex/internal/ui"
	"github.com/agbru/numex/pkg/models"
)

// Check is a named property verified against a Service at runtime.
type Check struct {
	Name     string
	Exercise models.Exercise
	Run      func(ctx context.Context, svc service.Service) error
}

// CheckResult is the outcome of one Check.
type CheckResult struct {
	Name     string
	Exercise models.Exercise
	Duration time.Duration
	Err      error
}

// Passed reports whether the check succeeded.
func (r CheckResult) Passed() bool { return r.Err == nil }

// RunChecks runs checks concurrently, at most one per CPU, and returns their
// results in input order. A failing check does not stop the others; a
// canceled ctx is recorded as the error of every check that had not finished.
func RunChecks(ctx context.Context, svc service.Service, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, c := range checks {
		g.Go(func() error {
			start := time.Now()
			err := ctx.Err()
			if err == nil {
				err = c.Run(ctx, svc)
			}
			results[i] = CheckResult{Name: c.Name, Exercise: c.Exercise, Duration: time.Since(start), Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ReportChecks prints a table of results and returns ExitErrorCheckFailed if
// any check failed.
func ReportChecks(results []CheckResult, out io.Writer) int {
	fmt.Fprintf(out, "\n--- Self-check Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		ui.Colorize(ui.ColorUnderline(), "Exercise"),
		ui.Colorize(ui.ColorUnderline(), "Check"),
		ui.Colorize(ui.ColorUnderline(), "Duration"),
		ui.Colorize(ui.ColorUnderline(), "Status"))

	failed := 0
	for _, r := range results {
		status := ui.StatusMark(r.Passed())
		if !r.Passed() {
			failed++
			status += " " + r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ui.Colorize(ui.ColorBlue(), string(r.Exercise)),
			r.Name,
			ui.Colorize(ui.ColorYellow(), cli.FormatExecutionDuration(r.Duration)),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if failed > 0 {
		fmt.Fprintf(out, "\nGlobal Status: %d of %d checks failed.\n", failed, len(results))
		return apperrors.ExitErrorCheckFailed
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. All %d checks passed.\n", len(results))
	return apperrors.ExitSuccess
}

// errMismatch reports a value differing from its expectation.
func errMismatch(what string, got, want any) error {
	return fmt.Errorf("%s: got %v, want %v", what, got, want)
}

// recursionLimit keeps the naive strategy fast inside the check suite.
const recursionLimit = 25

func fibLimit(algo string, n uint64) uint64 {
	if algo == fibonacci.AlgoRecursive {
		return min(n, recursionLimit)
	}
	return n
}

// DefaultChecks returns the built-in property suite covering every exercise.
func DefaultChecks() []Check {
	return []Check{
		{Name: "fibonacci base values", Exercise: models.ExerciseFibonacci, Run: checkFibonacciBase},
		{Name: "fibonacci recurrence", Exercise: models.ExerciseFibonacci, Run: checkFibonacciRecurrence},
		{Name: "fibonacci strategies agree", Exercise: models.ExerciseFibonacci, Run: checkFibonacciAgreement},
		{Name: "fibonacci golden ratio", Exercise: models.ExerciseFibonacci, Run: checkFibonacciGoldenRatio},
		{Name: "leap-year truth table", Exercise: models.ExerciseLeapYear, Run: checkLeapYear},
		{Name: "histogram reference counts", Exercise: models.ExerciseHistogram, Run: checkHistogramReference},
		{Name: "histogram half-open bins", Exercise: models.ExerciseHistogram, Run: checkHistogramBoundaries},
		{Name: "chi-squared reference values", Exercise: models.ExerciseChiSquared, Run: checkChiSquaredReference},
		{Name: "chi-squared non-negative", Exercise: models.ExerciseChiSquared, Run: checkChiSquaredNonNegative},
		{Name: "parabola recovers coefficients", Exercise: models.ExerciseParabola, Run: checkParabolaRecovery},
		{Name: "parabola error-scale invariance", Exercise: models.ExerciseParabola, Run: checkParabolaScaleInvariance},
		{Name: "energy transfer finite", Exercise: models.ExerciseEnergy, Run: checkEnergyFinite},
		{Name: "energy transfer rejects bad mode", Exercise: models.ExerciseEnergy, Run: checkEnergyBadMode},
	}
}

func checkFibonacciBase(ctx context.Context, svc service.Service) error {
	want := map[uint64]uint64{0: 0, 1: 1, 2: 1, 10: 55}
	for _, algo := range svc.Algorithms() {
		for n, w := range want {
			got, err := svc.Fibonacci(ctx, algo, n)
			if err != nil {
				return fmt.Errorf("%s: %w", algo, err)
			}
			if got != w {
				return errMismatch(fmt.Sprintf("%s F(%d)", algo, n), got, w)
			}
		}
	}
	return nil
}

func checkFibonacciRecurrence(ctx context.Context, svc service.Service) error {
	for _, algo := range svc.Algorithms() {
		prev2, err := svc.Fibonacci(ctx, algo, 0)
		if err != nil {
			return fmt.Errorf("%s: %w", algo, err)
		}
		prev1, err := svc.Fibonacci(ctx, algo, 1)
		if err != nil {
			return fmt.Errorf("%s: %w", algo, err)
		}
		for n := uint64(2); n <= fibLimit(algo, fibonacci.MaxFibUint64); n++ {
			cur, err := svc.Fibonacci(ctx, algo, n)
			if err != nil {
				return fmt.Errorf("%s: %w", algo, err)
			}
			if cur != prev1+prev2 {
				return errMismatch(fmt.Sprintf("%s F(%d)", algo, n), cur, prev1+prev2)
			}
			prev2, prev1 = prev1, cur
		}
	}
	return nil
}

func checkFibonacciAgreement(ctx context.Context, svc service.Service) error {
	algos := svc.Algorithms()
	if len(algos) < 2 {
		return nil
	}
	for n := uint64(0); n <= recursionLimit; n += 5 {
		reference, err := svc.Fibonacci(ctx, algos[0], n)
		if err != nil {
			return err
		}
		for _, algo := range algos[1:] {
			got, err := svc.Fibonacci(ctx, algo, n)
			if err != nil {
				return err
			}
			if got != reference {
				return errMismatch(fmt.Sprintf("%s vs %s F(%d)", algo, algos[0], n), got, reference)
			}
		}
	}
	return nil
}

func checkFibonacciGoldenRatio(ctx context.Context, svc service.Service) error {
	a, err := svc.Fibonacci(ctx, fibonacci.AlgoIterative, 40)
	if err != nil {
		return err
	}
	b, err := svc.Fibonacci(ctx, fibonacci.AlgoIterative, 41)
	if err != nil {
		return err
	}
	if ratio := float64(b) / float64(a); math.Abs(ratio-physconst.Golden) > 1e-12 {
		return errMismatch("F(41)/F(40)", ratio, physconst.Golden)
	}
	return nil
}

func checkLeapYear(ctx context.Context, svc service.Service) error {
	table := map[int]bool{2000: true, 1900: false, 2024: true, 2023: false, 2100: false, 2400: true, 1600: true, 4: true, 0: true}
	for year, want := range table {
		got, err := svc.LeapYear(ctx, year)
		if err != nil {
			return err
		}
		if got != want {
			return errMismatch(fmt.Sprintf("is_leapyear(%d)", year), got, want)
		}
	}
	return nil
}

func checkHistogramReference(ctx context.Context, svc service.Service) error {
	got, err := svc.Histogram(ctx, []float64{0.5, 1.5, 2.5, 2.5}, []float64{0, 1, 2, 3})
	if err != nil {
		return err
	}
	if want := []int{1, 1, 2}; !slices.Equal(got, want) {
		return errMismatch("histogram", got, want)
	}
	return nil
}

func checkHistogramBoundaries(ctx context.Context, svc service.Service) error {
	got, err := svc.Histogram(ctx, []float64{-1, 0, 1, 2, 3, math.NaN(), math.Inf(1)}, []float64{0, 1, 2, 3})
	if err != nil {
		return err
	}
	if want := []int{1, 1, 1}; !slices.Equal(got, want) {
		return errMismatch("edge values and out-of-range samples", got, want)
	}
	return nil
}

func checkChiSquaredReference(ctx context.Context, svc service.Service) error {
	cases := []struct {
		model, meas, errs []float64
		want              float64
	}{
		{[]float64{1, 2}, []float64{1, 2}, []float64{1, 1}, 0},
		{[]float64{0}, []float64{1}, []float64{1}, 1},
		{[]float64{1, 2}, []float64{3, 2}, []float64{2, 1}, 1},
	}
	for _, c := range cases {
		got, err := svc.ChiSquared(ctx, c.model, c.meas, c.errs)
		if err != nil {
			return err
		}
		if got != c.want {
			return errMismatch(fmt.Sprintf("chi_squared(%v, %v, %v)", c.model, c.meas, c.errs), got, c.want)
		}
	}
	return nil
}

func checkChiSquaredNonNegative(ctx context.Context, svc service.Service) error {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 100 {
		n := 1 + rng.IntN(16)
		model, meas, errs := make([]float64, n), make([]float64, n), make([]float64, n)
		for i := range n {
			model[i] = rng.NormFloat64() * 100
			meas[i] = rng.NormFloat64() * 100
			errs[i] = (rng.Float64() + 0.01) * (1 - 2*float64(rng.IntN(2)))
		}
		got, err := svc.ChiSquared(ctx, model, meas, errs)
		if err != nil {
			return err
		}
		if got < 0 || math.IsNaN(got) {
			return fmt.Errorf("chi_squared returned %v for non-zero errors", got)
		}
	}
	return nil
}

var parabolaX = []float64{-2, -1, 0, 1, 2, 3}

func parabolaData(scale float64) (y, errs []float64) {
	y = make([]float64, len(parabolaX))
	errs = make([]float64, len(parabolaX))
	for i, x := range parabolaX {
		y[i] = 1 + 2*x + 3*x*x
		errs[i] = 1e-3 * scale * float64(i+1)
	}
	return y, errs
}

func checkParabolaRecovery(ctx context.Context, svc service.Service) error {
	y, errs := parabolaData(1)
	p, err := svc.FitParabola(ctx, parabolaX, y, errs, []float64{0, 0, 0})
	if err != nil {
		return err
	}
	want := [3]float64{1, 2, 3}
	for i, c := range p.Coefficients() {
		if math.Abs(c-want[i]) > 1e-6 {
			return errMismatch(fmt.Sprintf("a%d", i), c, want[i])
		}
	}
	return nil
}

func checkParabolaScaleInvariance(ctx context.Context, svc service.Service) error {
	// Noisy data, so the invariance is not a side effect of an exact fit.
	y, errs := parabolaData(1)
	for i := range y {
		y[i] += 0.1 * float64(i%2*2-1)
	}
	base, err := svc.FitParabola(ctx, parabolaX, y, errs, []float64{0, 0, 0})
	if err != nil {
		return err
	}
	scaled := make([]float64, len(errs))
	for i, e := range errs {
		scaled[i] = 37 * e
	}
	other, err := svc.FitParabola(ctx, parabolaX, y, scaled, []float64{0, 0, 0})
	if err != nil {
		return err
	}
	bc, oc := base.Coefficients(), other.Coefficients()
	for i := range bc {
		if math.Abs(bc[i]-oc[i]) > 1e-9*math.Max(1, math.Abs(bc[i])) {
			return errMismatch(fmt.Sprintf("a%d after rescaling errors", i), oc[i], bc[i])
		}
	}
	return nil
}

func checkEnergyFinite(ctx context.Context, svc service.Service) error {
	ei := physconst.MeVToJoules(25)
	const l1, l2 = 10.0, 4.0
	t0 := l1 * math.Sqrt(physconst.NeutronMass/ei)
	for _, mode := range neutron.Modes() {
		for _, factor := range []float64{1.5, 2, 4, 8} {
			e, err := svc.EnergyTransfer(ctx, ei, factor*t0, l1, l2, mode)
			if err != nil {
				return err
			}
			if math.IsNaN(e) || math.IsInf(e, 0) {
				return fmt.Errorf("%s mode: non-finite energy transfer %v at tof=%g·t0", mode, e, factor)
			}
		}
	}
	return nil
}

func checkEnergyBadMode(ctx context.Context, svc service.Service) error {
	_, err := svc.EnergyTransfer(ctx, 1, 1, 1, 1, neutron.Mode(0))
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		return fmt.Errorf("unknown mode: got error %v, want invalid argument", err)
	}
	return nil
}
