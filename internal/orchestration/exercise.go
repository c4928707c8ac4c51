package orchestration

import (
	"context"
	"time"

	"github.com/agbru/numex/internal/cli"
	"github.com/agbru/numex/internal/config"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/fit"
	"github.com/agbru/numex/internal/histogram"
	"github.com/agbru/numex/internal/neutron"
	"github.com/agbru/numex/internal/service"
	"github.com/agbru/numex/internal/stats"
	"github.com/agbru/numex/pkg/models"
)

// RunExercise evaluates the exercise selected by cfg through svc and returns
// a renderable result. For Fibonacci with -algo all, the iterative strategy
// is used; comparisons go through CompareFibonacci instead.
func RunExercise(ctx context.Context, svc service.Service, cfg config.AppConfig) (cli.Result, error) {
	switch exercise := cfg.ExerciseKind(); exercise {
	case models.ExerciseFibonacci:
		algo := cfg.Algo
		if algo == "all" {
			algo = fibonacci.AlgoIterative
		}
		start := time.Now()
		value, err := svc.Fibonacci(ctx, algo, cfg.N)
		if err != nil {
			return nil, err
		}
		return cli.FibonacciResult{N: cfg.N, Value: value, Algorithm: algo, Duration: time.Since(start)}, nil

	case models.ExerciseLeapYear:
		leap, err := svc.LeapYear(ctx, cfg.Year)
		if err != nil {
			return nil, err
		}
		return cli.LeapYearResult{Year: cfg.Year, Leap: leap}, nil

	case models.ExerciseHistogram:
		edges, err := histogramEdges(cfg)
		if err != nil {
			return nil, err
		}
		counts, err := svc.Histogram(ctx, cfg.Data, edges)
		if err != nil {
			return nil, err
		}
		return cli.HistogramResult{Counts: counts, Edges: edges}, nil

	case models.ExerciseChiSquared:
		chi2, err := svc.ChiSquared(ctx, cfg.Model, cfg.Meas, cfg.Errors)
		if err != nil {
			return nil, err
		}
		res := cli.ChiSquaredResult{Value: chi2, Points: len(cfg.Model)}
		if cfg.NParams > 0 {
			reduced, err := stats.ReducedChiSquared(chi2, len(cfg.Model), cfg.NParams)
			if err != nil {
				return nil, err
			}
			res.Reduced = &reduced
		}
		return res, nil

	case models.ExerciseParabola:
		start := cfg.StartParams
		if len(start) == 0 {
			start = make([]float64, fit.NumParams)
		}
		p, err := svc.FitParabola(ctx, cfg.X, cfg.Y, cfg.Errors, start)
		if err != nil {
			return nil, err
		}
		chi2, err := svc.ChiSquared(ctx, p.Predict(cfg.X), cfg.Y, cfg.Errors)
		if err != nil {
			return nil, err
		}
		return cli.ParabolaResult{Fit: p, ChiSquared: chi2}, nil

	case models.ExerciseEnergy:
		mode, err := neutron.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		e, err := svc.EnergyTransfer(ctx, cfg.EiOrEf, cfg.Tof, cfg.L1, cfg.L2, mode)
		if err != nil {
			return nil, err
		}
		return cli.EnergyTransferResult{Mode: mode, Value: e}, nil

	default:
		return nil, apperrors.NewConfigError("unrecognized exercise: '%s'", exercise)
	}
}

// histogramEdges returns the explicit edges, or builds uniform ones from
// -bins and -range.
func histogramEdges(cfg config.AppConfig) ([]float64, error) {
	if len(cfg.Edges) > 0 || cfg.Bins == 0 {
		return cfg.Edges, nil
	}
	if len(cfg.Range) != 2 {
		return nil, apperrors.NewConfigError("-bins requires -range lo,hi")
	}
	return histogram.UniformEdges(cfg.Range[0], cfg.Range[1], cfg.Bins)
}
