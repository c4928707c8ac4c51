package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/numex/internal/errors"
)

var availableAlgos = []string{"iterative", "memoized", "recursive"}

func TestParseConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseConfig("numex", []string{}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if cfg.Exercise != "fibonacci" {
			t.Errorf("Expected default exercise 'fibonacci', got %s", cfg.Exercise)
		}
		if cfg.N != DefaultN {
			t.Errorf("Expected default N %d, got %d", DefaultN, cfg.N)
		}
		if cfg.Algo != "recursive" {
			t.Errorf("Expected default Algo 'recursive', got %s", cfg.Algo)
		}
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("Expected default Timeout %v, got %v", DefaultTimeout, cfg.Timeout)
		}
		if cfg.Mode != "direct" || cfg.MaxN != 93 || cfg.Year != 2000 {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
	})

	t.Run("ValidFlags", func(t *testing.T) {
		t.Parallel()
		args := []string{
			"-exercise", "chi2",
			"-model", "1, 2, 3",
			"-meas", "1.5,2,2.5",
			"-errors", "0.5,0.5,0.5",
			"-timeout", "10s",
			"-json",
			"-q",
		}
		cfg, err := ParseConfig("numex", args, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Exercise != "chisquared" {
			t.Errorf("alias should be normalized, got %q", cfg.Exercise)
		}
		if !reflect.DeepEqual(cfg.Model, []float64{1, 2, 3}) {
			t.Errorf("Model = %v", cfg.Model)
		}
		if !reflect.DeepEqual(cfg.Meas, []float64{1.5, 2, 2.5}) {
			t.Errorf("Meas = %v", cfg.Meas)
		}
		if cfg.Timeout != 10*time.Second || !cfg.JSONOutput || !cfg.Quiet {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("EnergyFlags", func(t *testing.T) {
		t.Parallel()
		args := []string{"-e", "energy", "-ei", "8e-21", "-tof", "0.004", "-l1", "10", "-l2", "2.5", "-mode", "indirect"}
		cfg, err := ParseConfig("numex", args, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.EiOrEf != 8e-21 || cfg.Tof != 0.004 || cfg.L1 != 10 || cfg.L2 != 2.5 || cfg.Mode != "indirect" {
			t.Errorf("unexpected energy config: %+v", cfg)
		}
	})

	t.Run("UniformBins", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseConfig("numex", []string{"-e", "hist", "-bins", "4", "-range", "0,8"}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Bins != 4 || !reflect.DeepEqual(cfg.Range, []float64{0, 8}) {
			t.Errorf("unexpected bins config: %+v", cfg)
		}
	})
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"UnknownFlag", []string{"-bogus"}},
		{"BadFloatList", []string{"-data", "1,x"}},
		{"UnknownExercise", []string{"-exercise", "sudoku"}},
		{"UnknownAlgo", []string{"-algo", "fast"}},
		{"ZeroTimeout", []string{"-timeout", "0s"}},
		{"MaxNTooLarge", []string{"-max-n", "94"}},
		{"NegativeBins", []string{"-bins", "-1"}},
		{"NegativeParams", []string{"-params", "-2"}},
		{"BinsWithoutRange", []string{"-bins", "3"}},
		{"RangeArity", []string{"-range", "1,2,3"}},
		{"BadLogLevel", []string{"-log-level", "chatty"}},
		{"ServerWithoutPort", []string{"-server", "-port", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if _, err := ParseConfig("numex", tt.args, &buf, availableAlgos); err == nil {
				t.Errorf("expected error for args %v", tt.args)
			}
		})
	}
}

func TestValidateReturnsConfigError(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{Exercise: "fibonacci", Algo: "quantum", Timeout: time.Second, LogLevel: "info"}
	err := cfg.Validate(availableAlgos)
	var configErr apperrors.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "quantum") {
		t.Errorf("message should name the algorithm: %q", err.Error())
	}

	cfg.Algo = "all"
	if err := cfg.Validate(availableAlgos); err != nil {
		t.Errorf("'all' should be accepted: %v", err)
	}
}

func TestUsageIsPrinted(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	_, _ = ParseConfig("numex", []string{"-exercise", "sudoku"}, &buf, availableAlgos)
	out := buf.String()
	for _, want := range []string{"Configuration error", "Usage:", "-exercise", "Environment:"} {
		if !strings.Contains(out, want) {
			t.Errorf("usage output missing %q", want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NUMEX_EXERCISE", "histogram")
	t.Setenv("NUMEX_DATA", "0.5,1.5,2.5")
	t.Setenv("NUMEX_EDGES", "0,1,2,3")
	t.Setenv("NUMEX_N", "12")
	t.Setenv("NUMEX_EI", "1e-21")
	t.Setenv("NUMEX_JSON", "yes")
	t.Setenv("NUMEX_TIMEOUT", "45s")
	t.Setenv("NUMEX_LOG_LEVEL", "debug")

	cfg, err := ParseConfig("numex", []string{"-n", "7"}, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Exercise != "histogram" {
		t.Errorf("Exercise = %q", cfg.Exercise)
	}
	if !reflect.DeepEqual(cfg.Data, []float64{0.5, 1.5, 2.5}) || !reflect.DeepEqual(cfg.Edges, []float64{0, 1, 2, 3}) {
		t.Errorf("lists not read from env: %v %v", cfg.Data, cfg.Edges)
	}
	if cfg.N != 7 {
		t.Errorf("CLI flag should win over env, got N=%d", cfg.N)
	}
	if cfg.EiOrEf != 1e-21 || !cfg.JSONOutput || cfg.Timeout != 45*time.Second || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestEnvOverrideMalformedList(t *testing.T) {
	t.Setenv("NUMEX_MEAS", "1,two")
	if _, err := ParseConfig("numex", nil, io.Discard, availableAlgos); err == nil {
		t.Error("malformed list in the environment should be reported")
	}
}

func TestEnvMalformedScalarFallsBack(t *testing.T) {
	t.Setenv("NUMEX_YEAR", "MMXXIV")
	t.Setenv("NUMEX_SERVER", "maybe")
	cfg, err := ParseConfig("numex", nil, io.Discard, availableAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Year != DefaultYear || cfg.ServerMode {
		t.Errorf("malformed scalars should keep defaults: %+v", cfg)
	}
}

func TestDatasetInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fit.yaml")
	content := "x: [0, 1, 2, 3]\ny: [1, 2, 5, 10]\nerrors: [1, 1, 1, 1]\nstart_params: [0, 0, 0]\nyear: 1900\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("FillsUnsetInputs", func(t *testing.T) {
		cfg, err := ParseConfig("numex", []string{"-e", "fit", "-input", path}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !reflect.DeepEqual(cfg.Y, []float64{1, 2, 5, 10}) || len(cfg.StartParams) != 3 || cfg.Year != 1900 {
			t.Errorf("dataset not applied: %+v", cfg)
		}
	})

	t.Run("FlagsWin", func(t *testing.T) {
		cfg, err := ParseConfig("numex", []string{"-i", path, "-y", "9,9,9,9", "-year", "2024"}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !reflect.DeepEqual(cfg.Y, []float64{9, 9, 9, 9}) || cfg.Year != 2024 {
			t.Errorf("flags should override the dataset: %+v", cfg)
		}
		if !reflect.DeepEqual(cfg.X, []float64{0, 1, 2, 3}) {
			t.Errorf("unset inputs should still come from the dataset: %v", cfg.X)
		}
	})

	t.Run("EnvSelectsFile", func(t *testing.T) {
		t.Setenv("NUMEX_INPUT", path)
		cfg, err := ParseConfig("numex", nil, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.InputFile != path || len(cfg.X) != 4 {
			t.Errorf("NUMEX_INPUT not honored: %+v", cfg)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ParseConfig("numex", []string{"-input", filepath.Join(dir, "nope.json")}, io.Discard, availableAlgos)
		var configErr apperrors.ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("expected ConfigError, got %v", err)
		}
	})
}
