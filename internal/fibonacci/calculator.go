package fibonacci

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/agbru/numex/internal/errors"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numex_fibonacci_calculations_total",
			Help: "The total number of Fibonacci calculations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "numex_fibonacci_calculation_duration_seconds",
			Help: "The duration of Fibonacci calculations in seconds",
		},
		[]string{"algorithm"},
	)
)

// ProgressUpdate is a progress notification sent by a running calculator.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator among those running together.
	CalculatorIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter receives the completed fraction of a calculation.
type ProgressReporter func(progress float64)

//go:generate mockgen -destination=mocks/mock_calculator.go -package=mocks github.com/agbru/numex/internal/fibonacci Calculator

// Calculator defines the public interface for a Fibonacci calculator.
// It is the abstraction used by the orchestration layer, the service and
// the REPL to run the different strategies.
type Calculator interface {
	// Calculate computes F(n). It honors ctx cancellation and, when
	// progressChan is non-nil, sends progress updates tagged with calcIndex.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates (may be nil).
	//   - calcIndex: A unique index for the calculator instance.
	//   - n: The index of the Fibonacci number to calculate.
	//
	// Returns:
	//   - uint64: The calculated Fibonacci number.
	//   - error: ErrInvalidArgument when n > MaxFibUint64, or a context error.
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64) (uint64, error)

	// Name returns the display name of the algorithm (e.g. "Naive Recursion").
	Name() string
}

// coreCalculator is the internal interface for a pure calculation strategy.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64) (uint64, error)
	Name() string
}

// FibCalculator decorates a coreCalculator with index validation, progress
// plumbing, metrics and logging.
type FibCalculator struct {
	core coreCalculator
}

// NewCalculator wraps core into a Calculator. It panics if core is nil.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("fibonacci: the `coreCalculator` implementation cannot be nil")
	}
	return &FibCalculator{core: core}
}

// Name returns the name of the wrapped strategy.
func (c *FibCalculator) Name() string {
	return c.core.Name()
}

// Calculate validates n, adapts progressChan into a ProgressReporter and
// delegates to the wrapped strategy. A final 1.0 progress update is sent on
// success.
func (c *FibCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64) (result uint64, err error) {
	tracer := otel.Tracer("fibonacci")
	ctx, span := tracer.Start(ctx, "Calculate")
	defer span.End()
	span.SetAttributes(
		attribute.String("algorithm", c.core.Name()),
		attribute.Int64("n", int64(n)),
	)

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		algoName := c.core.Name()
		calculationsTotal.WithLabelValues(algoName, status).Inc()
		calculationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("n", n).
			Float64("duration", duration).
			Str("status", status).
			Msg("calculation completed")
	}()

	if n > MaxFibUint64 {
		return 0, apperrors.NewInvalidArgument(op, "F(%d) overflows uint64 (max index %d)", n, MaxFibUint64)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	reporter := func(float64) {}
	if progressChan != nil {
		reporter = channelReporter(ctx, progressChan, calcIndex)
	}

	result, err = c.core.CalculateCore(ctx, reporter, n)
	if err == nil {
		reporter(1.0)
	}
	return result, err
}

// channelReporter forwards progress to ch without blocking the calculation:
// an update is dropped when the channel buffer is full.
func channelReporter(ctx context.Context, ch chan<- ProgressUpdate, index int) ProgressReporter {
	return func(v float64) {
		if v > 1.0 {
			v = 1.0
		}
		select {
		case ch <- ProgressUpdate{CalculatorIndex: index, Value: v}:
		case <-ctx.Done():
		default:
		}
	}
}
