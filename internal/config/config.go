// Package config provides the configuration management for the numex
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, environment overrides and dataset
// files, and performs validation on the resulting values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/numex/internal/dataset"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/logging"
	"github.com/agbru/numex/pkg/models"
)

const (
	// EnvPrefix is the prefix for all environment variables used by numex.
	// Environment variables provide an alternative to CLI flags for configuration,
	// following the 12-Factor App methodology.
	EnvPrefix = "NUMEX_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultExercise is the exercise run when none is selected.
	DefaultExercise = string(models.ExerciseFibonacci)
	// DefaultN is the default Fibonacci index to calculate.
	DefaultN uint64 = 30
	// DefaultYear is the default year for the leap-year exercise.
	DefaultYear = 2000
	// DefaultTimeout is the default calculation timeout.
	DefaultTimeout = 1 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultAlgo is the default algorithm selection.
	DefaultAlgo = fibonacci.AlgoRecursive
	// DefaultMode is the default scattering geometry.
	DefaultMode = "direct"
	// DefaultLogLevel is the default zerolog level.
	DefaultLogLevel = "info"
	// DefaultMaxN is the largest Fibonacci index accepted by default.
	DefaultMaxN uint64 = fibonacci.MaxFibUint64
)

// AppConfig aggregates the application's configuration parameters, parsed from
// command-line flags, NUMEX_* environment variables and an optional dataset
// file, in that order of priority.
type AppConfig struct {
	// Exercise selects the exercise to run in single-shot mode.
	Exercise string
	// Algo specifies the Fibonacci algorithm ("all", "recursive", ...).
	Algo string
	// N is the index of the Fibonacci number to be calculated.
	N uint64
	// Year is the input of the leap-year exercise.
	Year int

	// Data and Edges are the histogram inputs.
	Data  []float64
	Edges []float64
	// Bins and Range describe uniform edges, used when Edges is empty.
	Bins  int
	Range []float64

	// Model, Meas and Errors are the chi-squared inputs. Errors is also the
	// per-point uncertainty of the parabola fit.
	Model  []float64
	Meas   []float64
	Errors []float64
	// NParams is the number of fitted parameters used for χ² per degree of
	// freedom; 0 skips the reduced value.
	NParams int

	// X, Y and StartParams are the parabola fit inputs.
	X           []float64
	Y           []float64
	StartParams []float64

	// EiOrEf, Tof, L1, L2 and Mode are the energy-transfer inputs in SI units.
	EiOrEf float64
	Tof    float64
	L1     float64
	L2     float64
	Mode   string

	// InputFile is a YAML or JSON dataset filling inputs not given as flags.
	InputFile string

	// Timeout sets the maximum duration for the calculation.
	Timeout time.Duration
	// MaxN bounds the Fibonacci index accepted by the service.
	MaxN uint64
	// LogLevel is the zerolog level name.
	LogLevel string
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// Quiet mode - minimal output for scripting purposes.
	// Suppresses progress spinners, banners, and informational messages.
	Quiet bool
	// Interactive, if true, starts the application in REPL mode.
	Interactive bool
	// Check, if true, runs the self-check suite and exits.
	Check bool
	// Completion, if set, prints the completion script for that shell and exits.
	Completion string
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges and that the chosen
// exercise and algorithm are supported. Exercise inputs themselves are left
// to the numerical routines, which report their own domain errors.
//
// Parameters:
//   - availableAlgos: A slice of strings listing the valid algorithm names.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if _, ok := models.ParseExercise(c.Exercise); !ok {
		return apperrors.NewConfigError("unrecognized exercise: '%s'. Valid exercises are: [%s]", c.Exercise, strings.Join(exerciseNames(), ", "))
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != "all" && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.MaxN > fibonacci.MaxFibUint64 {
		return apperrors.NewConfigError("max-n cannot exceed %d: F(%d) does not fit in 64 bits", fibonacci.MaxFibUint64, c.MaxN)
	}
	if c.Bins < 0 {
		return apperrors.NewConfigError("bin count cannot be negative: %d", c.Bins)
	}
	if c.NParams < 0 {
		return apperrors.NewConfigError("parameter count cannot be negative: %d", c.NParams)
	}
	if c.Bins > 0 && len(c.Range) != 2 {
		return apperrors.NewConfigError("-bins requires -range lo,hi")
	}
	if len(c.Range) != 0 && len(c.Range) != 2 {
		return apperrors.NewConfigError("-range takes exactly two values, got %d", len(c.Range))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.ServerMode && c.Port == "" {
		return apperrors.NewConfigError("server mode requires a port")
	}
	return nil
}

// ExerciseKind returns the resolved exercise. It must only be called on a
// validated configuration; an empty Exercise means Fibonacci.
func (c AppConfig) ExerciseKind() models.Exercise {
	if c.Exercise == "" {
		return models.ExerciseFibonacci
	}
	e, _ := models.ParseExercise(c.Exercise)
	return e
}

func exerciseNames() []string {
	names := make([]string, 0, len(models.Exercises()))
	for _, e := range models.Exercises() {
		names = append(names, string(e))
	}
	return names
}

// floatListValue is a flag.Value for comma-separated float lists.
type floatListValue struct {
	target *[]float64
}

func (v floatListValue) String() string {
	if v.target == nil {
		return ""
	}
	return dataset.FormatFloatList(*v.target)
}

func (v floatListValue) Set(s string) error {
	values, err := dataset.ParseFloatList(s)
	if err != nil {
		return err
	}
	*v.target = values
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values, and
// handles the parsing process. After parsing, it merges the dataset file and
// environment overrides and performs validation on the resulting configuration.
//
// The function is designed to be testable by allowing the input arguments and
// output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//   - availableAlgos: A slice of valid algorithm names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Fibonacci algorithm: 'all' or one of [%s].", strings.Join(availableAlgos, ", "))
	exerciseHelp := fmt.Sprintf("Exercise to run, one of [%s].", strings.Join(exerciseNames(), ", "))

	config := AppConfig{}
	fs.StringVar(&config.Exercise, "exercise", DefaultExercise, exerciseHelp)
	fs.StringVar(&config.Exercise, "e", DefaultExercise, "Exercise (shorthand).")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.Uint64Var(&config.N, "n", DefaultN, "Index n of the Fibonacci number to calculate.")
	fs.IntVar(&config.Year, "year", DefaultYear, "Year to test for the leap-year exercise.")

	fs.Var(floatListValue{&config.Data}, "data", "Histogram samples, comma-separated.")
	fs.Var(floatListValue{&config.Edges}, "edges", "Histogram bin edges, comma-separated and strictly increasing.")
	fs.IntVar(&config.Bins, "bins", 0, "Number of uniform bins (with -range, instead of -edges).")
	fs.Var(floatListValue{&config.Range}, "range", "Uniform bin range as lo,hi.")
	fs.Var(floatListValue{&config.Model}, "model", "Chi-squared model values, comma-separated.")
	fs.Var(floatListValue{&config.Meas}, "meas", "Chi-squared measured values, comma-separated.")
	fs.Var(floatListValue{&config.Errors}, "errors", "Per-point uncertainties, comma-separated.")
	fs.IntVar(&config.NParams, "params", 0, "Fitted parameter count for the reduced chi-squared (0 to skip).")
	fs.Var(floatListValue{&config.X}, "x", "Parabola fit abscissae, comma-separated.")
	fs.Var(floatListValue{&config.Y}, "y", "Parabola fit measured ordinates, comma-separated.")
	fs.Var(floatListValue{&config.StartParams}, "start", "Parabola fit start parameters a0,a1,a2 (accepted, unused).")

	fs.Float64Var(&config.EiOrEf, "ei", 0, "Fixed neutron energy in joules (incident for direct, final for indirect).")
	fs.Float64Var(&config.Tof, "tof", 0, "Measured time of flight in seconds.")
	fs.Float64Var(&config.L1, "l1", 0, "Moderator-to-sample distance in metres.")
	fs.Float64Var(&config.L2, "l2", 0, "Sample-to-detector distance in metres.")
	fs.StringVar(&config.Mode, "mode", DefaultMode, "Scattering geometry: 'direct' or 'indirect'.")

	fs.StringVar(&config.InputFile, "input", "", "YAML or JSON dataset supplying inputs not given as flags.")
	fs.StringVar(&config.InputFile, "i", "", "Dataset file (shorthand).")

	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the calculation.")
	fs.Uint64Var(&config.MaxN, "max-n", DefaultMaxN, "Largest Fibonacci index accepted.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error or disabled.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.BoolVar(&config.Check, "check", false, "Run the self-check suite and exit.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for the given shell (bash, zsh, fish).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if config.InputFile == "" {
		config.InputFile = getEnvString("INPUT", "")
	}
	if config.InputFile != "" {
		ds, err := dataset.Load(config.InputFile)
		if err != nil {
			fmt.Fprintln(errorWriter, "Configuration error:", err)
			return AppConfig{}, apperrors.NewConfigError("cannot load dataset: %v", err)
		}
		applyDataset(&config, ds, fs)
	}

	// Apply environment variable overrides for flags not explicitly set
	if err := applyEnvOverrides(&config, fs); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	if e, ok := models.ParseExercise(config.Exercise); ok {
		config.Exercise = string(e)
	}
	return config, nil
}

// applyDataset copies dataset values into the configuration for every input
// whose flag was not set on the command line.
func applyDataset(config *AppConfig, ds *dataset.Dataset, fs *flag.FlagSet) {
	lists := []struct {
		flag string
		dst  *[]float64
		src  []float64
	}{
		{"data", &config.Data, ds.Data},
		{"edges", &config.Edges, ds.Edges},
		{"model", &config.Model, ds.Model},
		{"meas", &config.Meas, ds.Meas},
		{"errors", &config.Errors, ds.Errors},
		{"x", &config.X, ds.X},
		{"y", &config.Y, ds.Y},
		{"start", &config.StartParams, ds.StartParams},
	}
	for _, l := range lists {
		if l.src != nil && !isFlagSet(fs, l.flag) {
			*l.dst = l.src
		}
	}

	floats := []struct {
		flag string
		dst  *float64
		src  *float64
	}{
		{"ei", &config.EiOrEf, ds.EiOrEf},
		{"tof", &config.Tof, ds.Tof},
		{"l1", &config.L1, ds.L1},
		{"l2", &config.L2, ds.L2},
	}
	for _, f := range floats {
		if f.src != nil && !isFlagSet(fs, f.flag) {
			*f.dst = *f.src
		}
	}

	if ds.N != nil && !isFlagSet(fs, "n") {
		config.N = *ds.N
	}
	if ds.Year != nil && !isFlagSet(fs, "year") {
		config.Year = *ds.Year
	}
	if ds.Mode != "" && !isFlagSet(fs, "mode") {
		config.Mode = ds.Mode
	}
}
