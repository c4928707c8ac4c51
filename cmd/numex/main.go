// Command numex evaluates small numerical exercises (Fibonacci, leap years,
// histograms, chi-squared, parabola fits and neutron energy transfer) from
// the command line, an interactive session or an HTTP API.
package main

import (
	"context"
	"os"

	"github.com/agbru/numex/internal/app"
	apperrors "github.com/agbru/numex/internal/errors"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	if app.HasVersionFlag(args[1:]) {
		if err := app.PrintVersion(stdout, args[1:]); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), stdout)
}
