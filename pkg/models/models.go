// Package models defines the exercise names and the JSON request and
// response bodies of the numex HTTP API. The types are shared by the server,
// the CLI's JSON output and API clients.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Exercise names one of the numerical exercises.
type Exercise string

// Supported exercises.
const (
	ExerciseFibonacci  Exercise = "fibonacci"
	ExerciseLeapYear   Exercise = "leapyear"
	ExerciseHistogram  Exercise = "histogram"
	ExerciseChiSquared Exercise = "chisquared"
	ExerciseParabola   Exercise = "parabola"
	ExerciseEnergy     Exercise = "energy"
)

var exerciseAliases = map[string]Exercise{
	"fib":             ExerciseFibonacci,
	"leap":            ExerciseLeapYear,
	"is_leapyear":     ExerciseLeapYear,
	"hist":            ExerciseHistogram,
	"chi2":            ExerciseChiSquared,
	"chi_squared":     ExerciseChiSquared,
	"fit":             ExerciseParabola,
	"fit_parabola":    ExerciseParabola,
	"energy_transfer": ExerciseEnergy,
}

// Exercises returns every exercise in display order.
func Exercises() []Exercise {
	return []Exercise{
		ExerciseFibonacci,
		ExerciseLeapYear,
		ExerciseHistogram,
		ExerciseChiSquared,
		ExerciseParabola,
		ExerciseEnergy,
	}
}

// ParseExercise resolves a name or a short alias ("fib", "chi2", ...).
func ParseExercise(name string) (Exercise, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range Exercises() {
		if string(e) == name {
			return e, true
		}
	}
	e, ok := exerciseAliases[name]
	return e, ok
}

// Float is a float64 whose JSON form can carry IEEE-754 special values.
// Finite values encode as JSON numbers; +Inf, -Inf and NaN encode as the
// strings "+Inf", "-Inf" and "NaN". Decoding accepts both forms.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(s) {
		case "nan":
			*f = Float(math.NaN())
		case "inf", "+inf", "infinity", "+infinity":
			*f = Float(math.Inf(1))
		case "-inf", "-infinity":
			*f = Float(math.Inf(-1))
		default:
			return fmt.Errorf("models: %q is not a number", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Floats converts a []Float to a []float64. A nil input yields nil.
func Floats(in []Float) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// FromFloats converts a []float64 to a []Float. A nil input yields nil.
func FromFloats(in []float64) []Float {
	if in == nil {
		return nil
	}
	out := make([]Float, len(in))
	for i, v := range in {
		out[i] = Float(v)
	}
	return out
}

// FibonacciResponse is returned by GET /fibonacci.
type FibonacciResponse struct {
	N         uint64 `json:"n"`
	Result    uint64 `json:"result"`
	Algorithm string `json:"algorithm"`
	Duration  string `json:"duration"`
}

// LeapYearResponse is returned by GET /leapyear.
type LeapYearResponse struct {
	Year     int  `json:"year"`
	LeapYear bool `json:"leap_year"`
	Days     int  `json:"days"`
}

// HistogramRequest is the body of POST /histogram.
type HistogramRequest struct {
	Data  []Float `json:"data"`
	Edges []Float `json:"edges"`
}

// HistogramResponse is returned by POST /histogram.
type HistogramResponse struct {
	Counts []int   `json:"counts"`
	Edges  []Float `json:"edges"`
	// Total is the number of values that fell into a bin.
	Total int `json:"total"`
}

// ChiSquaredRequest is the body of POST /chisquared. When NParams is set,
// the reduced statistic is also returned.
type ChiSquaredRequest struct {
	Model   []Float `json:"model"`
	Meas    []Float `json:"meas"`
	Errors  []Float `json:"errors"`
	NParams int     `json:"n_params,omitempty"`
}

// ChiSquaredResponse is returned by POST /chisquared.
type ChiSquaredResponse struct {
	ChiSquared        Float  `json:"chi_squared"`
	ReducedChiSquared *Float `json:"reduced_chi_squared,omitempty"`
}

// ParabolaRequest is the body of POST /fit/parabola.
type ParabolaRequest struct {
	X           []Float `json:"x"`
	Y           []Float `json:"y"`
	Errors      []Float `json:"errors"`
	StartParams []Float `json:"start_params"`
}

// ParabolaResponse is returned by POST /fit/parabola.
type ParabolaResponse struct {
	A0         Float  `json:"a0"`
	A1         Float  `json:"a1"`
	A2         Float  `json:"a2"`
	ChiSquared Float  `json:"chi_squared"`
	Equation   string `json:"equation"`
}

// EnergyTransferRequest is the body of POST /energy-transfer. All values
// are in SI units (joules, seconds, metres).
type EnergyTransferRequest struct {
	EiOrEf Float `json:"ei_or_ef"`
	Tof    Float `json:"tof"`
	L1     Float `json:"l1"`
	L2     Float `json:"l2"`
	// Mode is "direct" or "indirect" and has no default.
	Mode string `json:"mode"`
}

// EnergyTransferResponse is returned by POST /energy-transfer.
type EnergyTransferResponse struct {
	Mode              string `json:"mode"`
	EnergyTransfer    Float  `json:"energy_transfer"`
	EnergyTransferMeV Float  `json:"energy_transfer_mev"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}
