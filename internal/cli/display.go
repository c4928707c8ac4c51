package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/agbru/numex/internal/calendar"
	"github.com/agbru/numex/internal/histogram"
	"github.com/agbru/numex/internal/physconst"
)

// DisplayFibonacci prints F(n) with thousand separators and the time taken.
func DisplayFibonacci(out io.Writer, r FibonacciResult) {
	fmt.Fprintf(out, "\n%s--- Fibonacci ---%s\n", ColorBold(), ColorReset())
	if r.Algorithm != "" {
		fmt.Fprintf(out, "Algorithm:        %s%s%s\n", ColorCyan(), r.Algorithm, ColorReset())
	}
	if r.Duration > 0 {
		fmt.Fprintf(out, "Calculation time: %s%s%s\n", ColorGreen(), FormatExecutionDuration(r.Duration), ColorReset())
	}
	fmt.Fprintf(out, "F(%s%d%s) = %s%s%s\n",
		ColorMagenta(), r.N, ColorReset(), ColorGreen(), formatNumberString(r.Value), ColorReset())
}

// DisplayLeapYear prints whether the year is a leap year in the Gregorian
// calendar.
func DisplayLeapYear(out io.Writer, r LeapYearResult) {
	fmt.Fprintf(out, "\n%s--- Leap year ---%s\n", ColorBold(), ColorReset())
	verdict := ColorRed() + "is not" + ColorReset()
	if r.Leap {
		verdict = ColorGreen() + "is" + ColorReset()
	}
	fmt.Fprintf(out, "%s%d%s %s a leap year (%d days).\n",
		ColorMagenta(), r.Year, ColorReset(), verdict, calendar.DaysInYear(r.Year))
}

// DisplayHistogram prints one line per bin with a bar scaled to the fullest
// bin.
func DisplayHistogram(out io.Writer, r HistogramResult) {
	fmt.Fprintf(out, "\n%s--- Histogram ---%s\n", ColorBold(), ColorReset())
	maxCount := 0
	for _, c := range r.Counts {
		maxCount = max(maxCount, c)
	}
	for i, c := range r.Counts {
		width := 0
		if maxCount > 0 {
			width = int(math.Round(float64(c) / float64(maxCount) * HistogramBarWidth))
		}
		fmt.Fprintf(out, "[%10.4g, %10.4g) %s%-*s%s %d\n",
			r.Edges[i], r.Edges[i+1], ColorCyan(), HistogramBarWidth, strings.Repeat("█", width), ColorReset(), c)
	}
	fmt.Fprintf(out, "Total in range: %s%d%s\n", ColorGreen(), histogram.Total(r.Counts), ColorReset())
}

// DisplayChiSquared prints χ² and, when available, χ² per degree of freedom.
func DisplayChiSquared(out io.Writer, r ChiSquaredResult) {
	fmt.Fprintf(out, "\n%s--- Chi-squared ---%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "Points:  %d\n", r.Points)
	fmt.Fprintf(out, "χ²     = %s%g%s\n", ColorGreen(), r.Value, ColorReset())
	if r.Reduced != nil {
		fmt.Fprintf(out, "χ²/ndf = %s%g%s\n", ColorGreen(), *r.Reduced, ColorReset())
	}
}

// DisplayParabola prints the fitted coefficients and the χ² of the fit.
func DisplayParabola(out io.Writer, r ParabolaResult) {
	fmt.Fprintf(out, "\n%s--- Parabola fit ---%s\n", ColorBold(), ColorReset())
	for i, c := range r.Fit.Coefficients() {
		fmt.Fprintf(out, "a%d = %s%g%s\n", i, ColorGreen(), c, ColorReset())
	}
	fmt.Fprintf(out, "%s%s%s\n", ColorCyan(), r.Fit, ColorReset())
	fmt.Fprintf(out, "χ² = %g\n", r.ChiSquared)
}

// DisplayEnergyTransfer prints the energy transfer in joules and meV.
func DisplayEnergyTransfer(out io.Writer, r EnergyTransferResult) {
	fmt.Fprintf(out, "\n%s--- Energy transfer (%s geometry) ---%s\n", ColorBold(), r.Mode, ColorReset())
	fmt.Fprintf(out, "ΔE = %s%g%s J\n", ColorGreen(), r.Value, ColorReset())
	fmt.Fprintf(out, "ΔE = %s%g%s meV\n", ColorGreen(), physconst.JoulesToMeV(r.Value), ColorReset())
}
