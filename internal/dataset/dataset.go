// Package dataset loads exercise inputs from YAML or JSON files and parses
// the comma-separated float lists accepted on the command line.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/numex/internal/errors"
)

// Dataset holds every input an exercise can take. Scalars are pointers so
// that a file can leave them unset and let flags or defaults apply.
type Dataset struct {
	Data        []float64 `yaml:"data,omitempty" json:"data,omitempty"`
	Edges       []float64 `yaml:"edges,omitempty" json:"edges,omitempty"`
	Model       []float64 `yaml:"model,omitempty" json:"model,omitempty"`
	Meas        []float64 `yaml:"meas,omitempty" json:"meas,omitempty"`
	Errors      []float64 `yaml:"errors,omitempty" json:"errors,omitempty"`
	X           []float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y           []float64 `yaml:"y,omitempty" json:"y,omitempty"`
	StartParams []float64 `yaml:"start_params,omitempty" json:"start_params,omitempty"`

	N      *uint64  `yaml:"n,omitempty" json:"n,omitempty"`
	Year   *int     `yaml:"year,omitempty" json:"year,omitempty"`
	EiOrEf *float64 `yaml:"ei_or_ef,omitempty" json:"ei_or_ef,omitempty"`
	Tof    *float64 `yaml:"tof,omitempty" json:"tof,omitempty"`
	L1     *float64 `yaml:"l1,omitempty" json:"l1,omitempty"`
	L2     *float64 `yaml:"l2,omitempty" json:"l2,omitempty"`
	Mode   string   `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// Load reads a dataset from path. The format is chosen by extension:
// ".yaml" and ".yml" are decoded as YAML, ".json" as JSON. Unknown keys are
// rejected in both formats.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "opening dataset")
	}
	defer f.Close()

	var ds Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(&ds)
	case ".json":
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		err = dec.Decode(&ds)
	default:
		return nil, apperrors.NewConfigError("unsupported dataset format %q (want .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return nil, apperrors.WrapError(err, "decoding dataset %s", path)
	}
	return &ds, nil
}

// ParseFloatList parses a comma-separated list such as "1, 2.5, -3e2".
// Surrounding whitespace is ignored and IEEE spellings like "Inf" and "NaN"
// are accepted. An empty or blank string yields a nil slice.
func ParseFloatList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for i, part := range parts {
		v, err := ParseFloat(part)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseFloat parses a single float, tolerating surrounding whitespace.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperrors.NewValidationError("", "empty number", s)
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, apperrors.NewValidationError("", fmt.Sprintf("%q is not a number", s), s)
	}
	return v, nil
}

// FormatFloatList is the inverse of ParseFloatList.
func FormatFloatList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = cast.ToString(v)
	}
	return strings.Join(parts, ",")
}
