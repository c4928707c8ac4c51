// Package orchestration coordinates the concurrent work of the application:
// comparing Fibonacci strategies, evaluating a configured exercise and
// running the self-check suite.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/numex/internal/cli"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/ui"
)

// CalculationResult encapsulates the outcome of a single Fibonacci calculation.
type CalculationResult struct {
	// Name is the identifier of the strategy used.
	Name string
	// Result is F(n). It is meaningless when Err is set.
	Result uint64
	// Duration is the time taken to complete the calculation.
	Duration time.Duration
	// Err contains any error that occurred during the calculation.
	Err error
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking calculation
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// CompareFibonacci runs every calculator on n concurrently while a spinner
// reports their combined progress on out.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - calculators: The strategies to execute.
//   - n: The Fibonacci index.
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []CalculationResult: One result per calculator, in input order.
func CompareFibonacci(ctx context.Context, calculators []fibonacci.Calculator, n uint64, out io.Writer) []CalculationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan fibonacci.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		g.Go(func() error {
			startTime := time.Now()
			res, err := calc.Calculate(ctx, progressChan, i, n)
			results[i] = CalculationResult{
				Name: calc.Name(), Result: res, Duration: time.Since(startTime), Err: err,
			}
			// A failed strategy must not cancel the others.
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts the results by execution time, prints the
// comparison table and checks that every successful strategy agrees.
//
// Parameters:
//   - results: The slice of calculation results to analyze.
//   - n: The Fibonacci index that was computed.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch, or the code of the first failure
//     when no strategy succeeded.
func AnalyzeComparisonResults(results []CalculationResult, n uint64, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var first *CalculationResult
	var firstError error

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		ui.Colorize(ui.ColorUnderline(), "Algorithm"),
		ui.Colorize(ui.ColorUnderline(), "Duration"),
		ui.Colorize(ui.ColorUnderline(), "Status"))

	for i := range results {
		res := &results[i]
		var status string
		if res.Err != nil {
			status = ui.Colorize(ui.ColorRed(), fmt.Sprintf("❌ Failure (%v)", res.Err))
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = ui.Colorize(ui.ColorGreen(), "✅ Success")
			if first == nil {
				first = res
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			ui.Colorize(ui.ColorBlue(), res.Name),
			ui.Colorize(ui.ColorYellow(), duration),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if first == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return apperrors.HandleCalculationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	for _, res := range results {
		if res.Err == nil && res.Result != first.Result {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the algorithms.\n")
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	cli.DisplayFibonacci(out, cli.FibonacciResult{N: n, Value: first.Result, Algorithm: first.Name, Duration: first.Duration})
	return apperrors.ExitSuccess
}
