// Package config provides the configuration management for the numex application.
// This file contains environment variable utilities for configuration override.
package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/agbru/numex/internal/dataset"
	apperrors "github.com/agbru/numex/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvUint64 returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as uint64, or the default value if not set
// or invalid.
func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := cast.ToUint64E(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvInt returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int, or the default value if not set
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := cast.ToIntE(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as float64, or the default value if not set
// or invalid.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := dataset.ParseFloat(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloatList returns the comma-separated list in the environment variable
// with the given key (prefixed with EnvPrefix). Unlike the scalar helpers it
// reports malformed values, since silently dropping a data point would change
// the result.
func getEnvFloatList(key string, defaultVal []float64) ([]float64, error) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := dataset.ParseFloatList(val)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid %s%s: %v", EnvPrefix, key, err)
	}
	return parsed, nil
}

// getEnvBool returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as bool, or the default value if not set.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as time.Duration, or the default value if not
// set or invalid. Accepts formats like "5m", "30s", "1h30m".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > dataset
// file > Defaults.
//
// Supported environment variables:
//   - NUMEX_EXERCISE: Exercise to run (string)
//   - NUMEX_ALGO: Fibonacci algorithm (string: recursive, memoized, iterative, all)
//   - NUMEX_N: Fibonacci index (uint64)
//   - NUMEX_YEAR: Leap-year input (int)
//   - NUMEX_DATA, NUMEX_EDGES, NUMEX_RANGE, NUMEX_MODEL, NUMEX_MEAS,
//     NUMEX_ERRORS, NUMEX_X, NUMEX_Y, NUMEX_START: float lists ("1,2,3")
//   - NUMEX_BINS: Number of uniform bins (int)
//   - NUMEX_PARAMS: Fitted parameter count for the reduced chi-squared (int)
//   - NUMEX_EI, NUMEX_TOF, NUMEX_L1, NUMEX_L2: energy-transfer scalars (float)
//   - NUMEX_MODE: Scattering geometry (string: direct, indirect)
//   - NUMEX_INPUT: Dataset file (string)
//   - NUMEX_PORT: Port for server mode (string)
//   - NUMEX_TIMEOUT: Calculation timeout (duration: "5m", "30s")
//   - NUMEX_MAX_N: Largest accepted Fibonacci index (uint64)
//   - NUMEX_LOG_LEVEL: Log level (string)
//   - NUMEX_SERVER, NUMEX_JSON, NUMEX_QUIET, NUMEX_INTERACTIVE, NUMEX_CHECK,
//     NUMEX_NO_COLOR: switches (bool: true/false, 1/0, yes/no)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	applyNumericOverrides(config, fs)
	applyDurationOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
	return applyListOverrides(config, fs)
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "n") {
		config.N = getEnvUint64("N", config.N)
	}
	if !isFlagSet(fs, "max-n") {
		config.MaxN = getEnvUint64("MAX_N", config.MaxN)
	}
	if !isFlagSet(fs, "year") {
		config.Year = getEnvInt("YEAR", config.Year)
	}
	if !isFlagSet(fs, "bins") {
		config.Bins = getEnvInt("BINS", config.Bins)
	}
	if !isFlagSet(fs, "params") {
		config.NParams = getEnvInt("PARAMS", config.NParams)
	}
	if !isFlagSet(fs, "ei") {
		config.EiOrEf = getEnvFloat("EI", config.EiOrEf)
	}
	if !isFlagSet(fs, "tof") {
		config.Tof = getEnvFloat("TOF", config.Tof)
	}
	if !isFlagSet(fs, "l1") {
		config.L1 = getEnvFloat("L1", config.L1)
	}
	if !isFlagSet(fs, "l2") {
		config.L2 = getEnvFloat("L2", config.L2)
	}
}

func applyDurationOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "exercise") && !isFlagSet(fs, "e") {
		config.Exercise = getEnvString("EXERCISE", config.Exercise)
	}
	if !isFlagSet(fs, "algo") {
		config.Algo = getEnvString("ALGO", config.Algo)
	}
	if !isFlagSet(fs, "mode") {
		config.Mode = getEnvString("MODE", config.Mode)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = getEnvString("LOG_LEVEL", config.LogLevel)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "interactive") {
		config.Interactive = getEnvBool("INTERACTIVE", config.Interactive)
	}
	if !isFlagSet(fs, "check") {
		config.Check = getEnvBool("CHECK", config.Check)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
}

func applyListOverrides(config *AppConfig, fs *flag.FlagSet) error {
	lists := []struct {
		flag string
		key  string
		dst  *[]float64
	}{
		{"data", "DATA", &config.Data},
		{"edges", "EDGES", &config.Edges},
		{"range", "RANGE", &config.Range},
		{"model", "MODEL", &config.Model},
		{"meas", "MEAS", &config.Meas},
		{"errors", "ERRORS", &config.Errors},
		{"x", "X", &config.X},
		{"y", "Y", &config.Y},
		{"start", "START", &config.StartParams},
	}
	for _, l := range lists {
		if isFlagSet(fs, l.flag) {
			continue
		}
		values, err := getEnvFloatList(l.key, *l.dst)
		if err != nil {
			return err
		}
		*l.dst = values
	}
	return nil
}
