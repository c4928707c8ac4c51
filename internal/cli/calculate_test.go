package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/numex/internal/config"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/testutil"
)

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()
	factory := fibonacci.GlobalFactory()

	tests := []struct {
		algo string
		want int
	}{
		{fibonacci.AlgoIterative, 1},
		{fibonacci.AlgoRecursive, 1},
		{"all", len(factory.List())},
		{"unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.algo, func(t *testing.T) {
			t.Parallel()
			calcs := GetCalculatorsToRun(config.AppConfig{Algo: tt.algo}, factory)
			if len(calcs) != tt.want {
				t.Fatalf("expected %d calculators, got %d", tt.want, len(calcs))
			}
			for _, c := range calcs {
				if c.Name() == "" {
					t.Error("calculator name should not be empty")
				}
			}
		})
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cfg      config.AppConfig
		contains []string
	}{
		{
			name:     "fibonacci",
			cfg:      config.AppConfig{Exercise: "fibonacci", N: 42, Timeout: time.Minute},
			contains: []string{"Calculating F(42)", "1m0s", "logical processors"},
		},
		{
			name:     "dataset",
			cfg:      config.AppConfig{Exercise: "hist", Timeout: time.Second, InputFile: "data.yaml"},
			contains: []string{"Evaluating histogram", "Input dataset: data.yaml"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			PrintExecutionConfig(tt.cfg, &buf)
			out := testutil.StripAnsiCodes(buf.String())
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in output, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	single := []fibonacci.Calculator{&fibonacci.MockCalculator{NameValue: "solo"}}
	var buf bytes.Buffer
	PrintExecutionMode(single, &buf)
	if !strings.Contains(testutil.StripAnsiCodes(buf.String()), "Single calculation with the solo algorithm") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	PrintExecutionMode(append(single, &fibonacci.MockCalculator{}), &buf)
	if !strings.Contains(buf.String(), "Parallel comparison") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
