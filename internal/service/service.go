// Package service exposes the numerical exercises behind a single
// context-aware interface shared by the HTTP server, the REPL and the
// self-check runner. The service adds what the pure routines deliberately
// lack: input limits, caching, tracing, metrics and logging.
package service

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/numex/internal/calendar"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/fit"
	"github.com/agbru/numex/internal/histogram"
	"github.com/agbru/numex/internal/logging"
	"github.com/agbru/numex/internal/neutron"
	"github.com/agbru/numex/internal/stats"
	"github.com/agbru/numex/pkg/models"
)

var (
	// ErrMaxValueExceeded is returned when n exceeds the configured maximum limit.
	ErrMaxValueExceeded = errors.New("maximum n value exceeded")
)

const tracerName = "numex/service"

// Default cache settings for Fibonacci results.
const (
	DefaultCacheTTL             = 10 * time.Minute
	DefaultCacheCleanupInterval = 15 * time.Minute
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numex_exercise_requests_total",
			Help: "The total number of exercise evaluations, by outcome",
		},
		[]string{"exercise", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "numex_exercise_duration_seconds",
			Help: "The duration of exercise evaluations in seconds",
		},
		[]string{"exercise"},
	)
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "numex_fibonacci_cache_hits_total",
		Help: "The number of Fibonacci requests answered from the cache",
	})
)

// Service defines the interface for the exercise services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Fibonacci computes F(n) with the named algorithm.
	Fibonacci(ctx context.Context, algoName string, n uint64) (uint64, error)
	// LeapYear reports whether year is a Gregorian leap year.
	LeapYear(ctx context.Context, year int) (bool, error)
	// Histogram counts data into the bins delimited by edges.
	Histogram(ctx context.Context, data, edges []float64) ([]int, error)
	// ChiSquared computes Σ((model-meas)/errors)².
	ChiSquared(ctx context.Context, model, meas, errs []float64) (float64, error)
	// FitParabola performs the weighted least-squares parabola fit.
	FitParabola(ctx context.Context, x, y, errs, startParams []float64) (fit.Parabola, error)
	// EnergyTransfer computes the neutron energy transfer in joules.
	EnergyTransfer(ctx context.Context, eiOrEf, tof, l1, l2 float64, mode neutron.Mode) (float64, error)
	// Algorithms lists the Fibonacci algorithms available.
	Algorithms() []string
}

// ExerciseService is the default Service implementation.
type ExerciseService struct {
	factory fibonacci.CalculatorFactory
	maxN    uint64
	cache   *cache.Cache
	logger  logging.Logger
}

// Ensure ExerciseService implements Service interface.
var _ Service = (*ExerciseService)(nil)

// Option configures an ExerciseService.
type Option func(*ExerciseService)

// WithLogger sets the logger used for per-request debug output.
func WithLogger(logger logging.Logger) Option {
	return func(s *ExerciseService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache replaces the Fibonacci result cache. A nil cache disables caching.
func WithCache(c *cache.Cache) Option {
	return func(s *ExerciseService) {
		s.cache = c
	}
}

// NewExerciseService creates a new instance of ExerciseService.
//
// Parameters:
//   - factory: The factory to retrieve Fibonacci calculators from.
//   - maxN: The maximum allowed Fibonacci index (0 for no limit beyond
//     fibonacci.MaxFibUint64).
//   - opts: Functional options.
func NewExerciseService(factory fibonacci.CalculatorFactory, maxN uint64, opts ...Option) *ExerciseService {
	s := &ExerciseService{
		factory: factory,
		maxN:    maxN,
		cache:   cache.New(DefaultCacheTTL, DefaultCacheCleanupInterval),
		logger:  logging.NewZerologAdapter(zerolog.Nop()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Algorithms returns the sorted list of registered Fibonacci algorithms.
func (s *ExerciseService) Algorithms() []string {
	return s.factory.List()
}

// Fibonacci retrieves the requested calculator and computes F(n). Results
// are cached per algorithm and index.
func (s *ExerciseService) Fibonacci(ctx context.Context, algoName string, n uint64) (uint64, error) {
	var result uint64
	err := s.observe(ctx, models.ExerciseFibonacci, func(ctx context.Context) error {
		if s.maxN > 0 && n > s.maxN {
			return fmt.Errorf("%w: n=%d, limit %d", ErrMaxValueExceeded, n, s.maxN)
		}

		key := fmt.Sprintf("%s:%d", algoName, n)
		if s.cache != nil {
			if v, ok := s.cache.Get(key); ok {
				cacheHits.Inc()
				result = v.(uint64)
				s.logger.Debug("fibonacci cache hit", logging.String("algo", algoName), logging.Uint64("n", n))
				return nil
			}
		}

		calc, err := s.factory.Get(algoName)
		if err != nil {
			return err
		}
		// No progress channel: service callers wait for the value.
		result, err = calc.Calculate(ctx, nil, 0, n)
		if err != nil {
			return err
		}
		if s.cache != nil {
			s.cache.SetDefault(key, result)
		}
		return nil
	}, attribute.String("algorithm", algoName), attribute.Int64("n", int64(n)))
	return result, err
}

// LeapYear reports whether year is a leap year.
func (s *ExerciseService) LeapYear(ctx context.Context, year int) (bool, error) {
	var leap bool
	err := s.observe(ctx, models.ExerciseLeapYear, func(context.Context) error {
		leap = calendar.IsLeapYear(year)
		return nil
	}, attribute.Int("year", year))
	return leap, err
}

// Histogram counts data into bins.
func (s *ExerciseService) Histogram(ctx context.Context, data, edges []float64) ([]int, error) {
	var counts []int
	err := s.observe(ctx, models.ExerciseHistogram, func(context.Context) error {
		var err error
		counts, err = histogram.Histogram(data, edges)
		return err
	}, attribute.Int("points", len(data)), attribute.Int("edges", len(edges)))
	return counts, err
}

// ChiSquared computes the chi-squared statistic.
func (s *ExerciseService) ChiSquared(ctx context.Context, model, meas, errs []float64) (float64, error) {
	var chi2 float64
	err := s.observe(ctx, models.ExerciseChiSquared, func(context.Context) error {
		var err error
		chi2, err = stats.ChiSquared(model, meas, errs)
		return err
	}, attribute.Int("points", len(model)))
	return chi2, err
}

// FitParabola fits y = a0 + a1·x + a2·x².
func (s *ExerciseService) FitParabola(ctx context.Context, x, y, errs, startParams []float64) (fit.Parabola, error) {
	var p fit.Parabola
	err := s.observe(ctx, models.ExerciseParabola, func(context.Context) error {
		var err error
		p, err = fit.FitParabola(x, y, errs, startParams)
		return err
	}, attribute.Int("points", len(x)))
	return p, err
}

// EnergyTransfer computes the neutron energy transfer.
func (s *ExerciseService) EnergyTransfer(ctx context.Context, eiOrEf, tof, l1, l2 float64, mode neutron.Mode) (float64, error) {
	var e float64
	err := s.observe(ctx, models.ExerciseEnergy, func(context.Context) error {
		var err error
		e, err = neutron.EnergyTransfer(eiOrEf, tof, l1, l2, mode)
		return err
	}, attribute.String("mode", mode.String()))
	return e, err
}

// observe runs fn inside a span and records its outcome.
func (s *ExerciseService) observe(ctx context.Context, exercise models.Exercise, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, string(exercise))
	defer span.End()
	span.SetAttributes(attrs...)

	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = fn(ctx)
	}
	elapsed := time.Since(start)

	status := Status(err)
	requestsTotal.WithLabelValues(string(exercise), status).Inc()
	requestDuration.WithLabelValues(string(exercise)).Observe(elapsed.Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		s.logger.Debug("exercise failed",
			logging.String("exercise", string(exercise)),
			logging.String("status", status),
			logging.Err(err),
		)
		return err
	}
	s.logger.Debug("exercise evaluated",
		logging.String("exercise", string(exercise)),
		logging.Duration("duration", elapsed),
	)
	return nil
}

// Status classifies an outcome for metrics: "success", "rejected" for
// domain errors and exceeded limits, "canceled" for context errors and
// "error" otherwise.
func Status(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.IsDomainError(err), errors.Is(err, ErrMaxValueExceeded):
		return "rejected"
	case apperrors.IsContextError(err):
		return "canceled"
	default:
		return "error"
	}
}
