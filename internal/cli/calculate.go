package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/numex/internal/config"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/pkg/models"
)

// GetCalculatorsToRun determines which Fibonacci strategies should be executed
// based on the configuration. With "all" every registered strategy is
// returned, in the sorted order of factory.List.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The calculator factory to retrieve implementations from.
//
// Returns:
//   - []fibonacci.Calculator: A slice of calculators to execute.
func GetCalculatorsToRun(cfg config.AppConfig, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if cfg.Algo == "all" {
		keys := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}

// PrintExecutionConfig displays the exercise about to run, its timeout and
// the runtime environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	switch cfg.ExerciseKind() {
	case models.ExerciseFibonacci:
		writeOut(out, "Calculating %sF(%d)%s with a timeout of %s%s%s.\n",
			ColorMagenta(), cfg.N, ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	default:
		writeOut(out, "Evaluating %s%s%s with a timeout of %s%s%s.\n",
			ColorMagenta(), cfg.ExerciseKind(), ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	}
	if cfg.InputFile != "" {
		writeOut(out, "Input dataset: %s%s%s.\n", ColorCyan(), cfg.InputFile, ColorReset())
	}
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
}

// PrintExecutionMode displays the execution mode (single algorithm vs comparison).
//
// Parameters:
//   - calculators: The slice of calculators that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s algorithm",
			ColorGreen(), calculators[0].Name(), ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
