package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/numex/internal/calendar"
	"github.com/agbru/numex/internal/fit"
	"github.com/agbru/numex/internal/histogram"
	"github.com/agbru/numex/internal/neutron"
	"github.com/agbru/numex/internal/physconst"
	"github.com/agbru/numex/pkg/models"
)

// Result is the outcome of one exercise, renderable in the three output
// modes of the CLI.
type Result interface {
	// Exercise identifies the exercise that produced the result.
	Exercise() models.Exercise
	// Model returns the JSON document describing the result.
	Model() any
	// Quiet returns a single line suitable for scripting.
	Quiet() string
	// Display writes the human-readable report.
	Display(out io.Writer)
}

// OutputConfig selects how a Result is written.
type OutputConfig struct {
	// JSON writes the result model as indented JSON.
	JSON bool
	// Quiet writes only the bare value.
	Quiet bool
}

// Render writes r according to cfg. JSON takes precedence over quiet mode.
func Render(out io.Writer, r Result, cfg OutputConfig) error {
	switch {
	case cfg.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Model())
	case cfg.Quiet:
		_, err := fmt.Fprintln(out, r.Quiet())
		return err
	default:
		r.Display(out)
		return nil
	}
}

// FibonacciResult is the outcome of F(n).
type FibonacciResult struct {
	N         uint64
	Value     uint64
	Algorithm string
	Duration  time.Duration
}

func (r FibonacciResult) Exercise() models.Exercise { return models.ExerciseFibonacci }

func (r FibonacciResult) Model() any {
	return models.FibonacciResponse{
		N:         r.N,
		Result:    r.Value,
		Algorithm: r.Algorithm,
		Duration:  r.Duration.String(),
	}
}

func (r FibonacciResult) Quiet() string { return strconv.FormatUint(r.Value, 10) }

func (r FibonacciResult) Display(out io.Writer) { DisplayFibonacci(out, r) }

// LeapYearResult is the outcome of the leap-year test.
type LeapYearResult struct {
	Year int
	Leap bool
}

func (r LeapYearResult) Exercise() models.Exercise { return models.ExerciseLeapYear }

func (r LeapYearResult) Model() any {
	return models.LeapYearResponse{Year: r.Year, LeapYear: r.Leap, Days: calendar.DaysInYear(r.Year)}
}

func (r LeapYearResult) Quiet() string { return strconv.FormatBool(r.Leap) }

func (r LeapYearResult) Display(out io.Writer) { DisplayLeapYear(out, r) }

// HistogramResult is the outcome of binning a sample.
type HistogramResult struct {
	Counts []int
	Edges  []float64
}

func (r HistogramResult) Exercise() models.Exercise { return models.ExerciseHistogram }

func (r HistogramResult) Model() any {
	return models.HistogramResponse{
		Counts: r.Counts,
		Edges:  models.FromFloats(r.Edges),
		Total:  histogram.Total(r.Counts),
	}
}

func (r HistogramResult) Quiet() string {
	parts := make([]string, len(r.Counts))
	for i, c := range r.Counts {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " ")
}

func (r HistogramResult) Display(out io.Writer) { DisplayHistogram(out, r) }

// ChiSquaredResult is the outcome of a goodness-of-fit evaluation. Reduced is
// nil when no parameter count was given or the degrees of freedom are not
// positive.
type ChiSquaredResult struct {
	Value   float64
	Reduced *float64
	Points  int
}

func (r ChiSquaredResult) Exercise() models.Exercise { return models.ExerciseChiSquared }

func (r ChiSquaredResult) Model() any {
	resp := models.ChiSquaredResponse{ChiSquared: models.Float(r.Value)}
	if r.Reduced != nil {
		red := models.Float(*r.Reduced)
		resp.ReducedChiSquared = &red
	}
	return resp
}

func (r ChiSquaredResult) Quiet() string { return formatFloat(r.Value) }

func (r ChiSquaredResult) Display(out io.Writer) { DisplayChiSquared(out, r) }

// ParabolaResult is the outcome of a weighted parabola fit.
type ParabolaResult struct {
	Fit        fit.Parabola
	ChiSquared float64
}

func (r ParabolaResult) Exercise() models.Exercise { return models.ExerciseParabola }

func (r ParabolaResult) Model() any {
	return models.ParabolaResponse{
		A0:         models.Float(r.Fit.A0),
		A1:         models.Float(r.Fit.A1),
		A2:         models.Float(r.Fit.A2),
		ChiSquared: models.Float(r.ChiSquared),
		Equation:   r.Fit.String(),
	}
}

func (r ParabolaResult) Quiet() string {
	return formatFloat(r.Fit.A0) + " " + formatFloat(r.Fit.A1) + " " + formatFloat(r.Fit.A2)
}

func (r ParabolaResult) Display(out io.Writer) { DisplayParabola(out, r) }

// EnergyTransferResult is the outcome of the time-of-flight conversion, in
// joules.
type EnergyTransferResult struct {
	Mode  neutron.Mode
	Value float64
}

func (r EnergyTransferResult) Exercise() models.Exercise { return models.ExerciseEnergy }

func (r EnergyTransferResult) Model() any {
	return models.EnergyTransferResponse{
		Mode:              r.Mode.String(),
		EnergyTransfer:    models.Float(r.Value),
		EnergyTransferMeV: models.Float(physconst.JoulesToMeV(r.Value)),
	}
}

func (r EnergyTransferResult) Quiet() string { return formatFloat(r.Value) }

func (r EnergyTransferResult) Display(out io.Writer) { DisplayEnergyTransfer(out, r) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
