package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/agbru/numex/internal/cli"
	"github.com/agbru/numex/internal/config"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/logging"
	"github.com/agbru/numex/internal/orchestration"
	"github.com/agbru/numex/internal/server"
	"github.com/agbru/numex/internal/service"
	"github.com/agbru/numex/internal/ui"
	"github.com/agbru/numex/pkg/models"
)

// Application represents the numex application instance.
// It encapsulates the configuration and provides methods to run
// the application in its various modes (CLI, check, server, REPL).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the Fibonacci calculator implementations.
	Factory fibonacci.CalculatorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := fibonacci.GlobalFactory()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "numex"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to completion, server, REPL, check or a single evaluation.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	if err := logging.SetGlobalLevel(a.Config.LogLevel); err != nil {
		fmt.Fprintf(a.errWriter(), "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	// Respects -no-color and the NO_COLOR environment variable.
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.ServerMode:
		return a.runServer(ctx)
	case a.Config.Interactive:
		return a.runREPL(ctx)
	case a.Config.Check:
		return a.runCheck(ctx, out)
	}

	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	if a.Config.ExerciseKind() == models.ExerciseFibonacci && a.Config.Algo == "all" {
		return a.runComparison(ctx, out)
	}
	return a.runExercise(ctx, out)
}

func (a *Application) errWriter() io.Writer {
	if a.ErrWriter == nil {
		return os.Stderr
	}
	return a.ErrWriter
}

func (a *Application) logger() logging.Logger {
	return logging.NewLogger(a.errWriter(), "numex")
}

// newService builds the exercise service shared by every mode.
func (a *Application) newService() *service.ExerciseService {
	return service.NewExerciseService(a.Factory, a.Config.MaxN, service.WithLogger(a.logger()))
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.errWriter(), "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer(ctx context.Context) int {
	srv := server.NewServer(a.Factory, a.Config,
		server.WithLogger(a.logger()),
		server.WithService(a.newService()),
	)
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.errWriter(), "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL(ctx context.Context) int {
	ctx, stop := SetupSignals(ctx)
	defer stop()

	repl := cli.NewREPL(a.newService(), cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
	})
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runCheck runs the built-in self-check suite.
func (a *Application) runCheck(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	// The suite probes the full uint64 range whatever -max-n says.
	svc := service.NewExerciseService(a.Factory, fibonacci.MaxFibUint64, service.WithLogger(a.logger()))
	results := orchestration.RunChecks(ctx, svc, orchestration.DefaultChecks())

	if a.Config.JSONOutput {
		return printJSONChecks(results, out)
	}
	return orchestration.ReportChecks(results, out)
}

// runExercise evaluates the configured exercise once and renders its result.
func (a *Application) runExercise(ctx context.Context, out io.Writer) int {
	verbose := !a.Config.JSONOutput && !a.Config.Quiet
	if verbose {
		cli.PrintExecutionConfig(a.Config, out)
		if a.Config.ExerciseKind() == models.ExerciseFibonacci {
			if calcs := cli.GetCalculatorsToRun(a.Config, a.Factory); len(calcs) > 0 {
				cli.PrintExecutionMode(calcs, out)
			}
		}
	}

	start := time.Now()
	result, err := orchestration.RunExercise(ctx, a.newService(), a.Config)
	if err != nil {
		return apperrors.HandleCalculationError(err, time.Since(start), out, cli.CLIColorProvider{})
	}

	if err := cli.Render(out, result, cli.OutputConfig{JSON: a.Config.JSONOutput, Quiet: a.Config.Quiet}); err != nil {
		fmt.Fprintf(a.errWriter(), "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runComparison runs every Fibonacci strategy concurrently and checks that
// they agree.
func (a *Application) runComparison(ctx context.Context, out io.Writer) int {
	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintln(a.errWriter(), "No Fibonacci algorithm is registered.")
		return apperrors.ExitErrorConfig
	}
	if a.Config.MaxN > 0 && a.Config.N > a.Config.MaxN {
		err := fmt.Errorf("%w: n=%d, limit %d", service.ErrMaxValueExceeded, a.Config.N, a.Config.MaxN)
		return apperrors.HandleCalculationError(err, 0, out, cli.CLIColorProvider{})
	}

	verbose := !a.Config.JSONOutput && !a.Config.Quiet
	progressOut := io.Discard
	if verbose {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
		progressOut = out
	}

	results := orchestration.CompareFibonacci(ctx, calculators, a.Config.N, progressOut)

	switch {
	case a.Config.JSONOutput:
		return printJSONResults(results, out)
	case a.Config.Quiet:
		best := findBestResult(results)
		if best == nil {
			return apperrors.HandleCalculationError(results[0].Err, 0, out, cli.CLIColorProvider{})
		}
		fmt.Fprintln(out, best.Result)
		return apperrors.ExitSuccess
	default:
		return orchestration.AnalyzeComparisonResults(results, a.Config.N, out)
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var bestResult *orchestration.CalculationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

// jsonResult represents a single calculation result in JSON format.
type jsonResult struct {
	Algorithm string `json:"algorithm"`
	Duration  string `json:"duration"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// printJSONResults formats the comparison results as a JSON array. The
// exit code still reports failures and disagreements.
func printJSONResults(results []orchestration.CalculationResult, out io.Writer) int {
	output := make([]jsonResult, len(results))
	exitCode := apperrors.ExitSuccess
	var reference *uint64
	for i, res := range results {
		jr := jsonResult{
			Algorithm: res.Name,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else {
			jr.Result = strconv.FormatUint(res.Result, 10)
			switch {
			case reference == nil:
				reference = &results[i].Result
			case *reference != res.Result:
				exitCode = apperrors.ExitErrorMismatch
			}
		}
		output[i] = jr
	}
	if reference == nil && len(results) > 0 {
		exitCode = apperrors.HandleCalculationError(results[0].Err, 0, io.Discard, nil)
	}

	if err := writeJSON(out, output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return exitCode
}

// jsonCheck is one self-check outcome in JSON format.
type jsonCheck struct {
	Name     string `json:"name"`
	Exercise string `json:"exercise"`
	Passed   bool   `json:"passed"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

func printJSONChecks(results []orchestration.CheckResult, out io.Writer) int {
	output := make([]jsonCheck, len(results))
	exitCode := apperrors.ExitSuccess
	for i, res := range results {
		output[i] = jsonCheck{
			Name:     res.Name,
			Exercise: string(res.Exercise),
			Passed:   res.Passed(),
			Duration: res.Duration.String(),
		}
		if !res.Passed() {
			output[i].Error = res.Err.Error()
			exitCode = apperrors.ExitErrorCheckFailed
		}
	}
	if err := writeJSON(out, output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return exitCode
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
