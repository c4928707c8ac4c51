package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/service"
	"github.com/agbru/numex/internal/service/mocks"
	"github.com/agbru/numex/internal/testutil"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	echo := &fibonacci.MockCalculator{
		NameValue: "echo",
		Fn: func(ctx context.Context, n uint64) (uint64, error) {
			return n, nil
		},
	}
	factory := fibonacci.NewTestFactory(map[string]fibonacci.Calculator{"echo": echo})
	svc := service.NewExerciseService(factory, fibonacci.MaxFibUint64, service.WithCache(nil))

	repl := NewREPL(svc, REPLConfig{DefaultAlgo: "echo", Timeout: time.Second})
	var out bytes.Buffer
	repl.SetOutput(&out)
	return repl, &out
}

func TestNewREPL_DefaultAlgo(t *testing.T) {
	t.Parallel()
	factory := fibonacci.NewTestFactory(map[string]fibonacci.Calculator{
		"only": &fibonacci.MockCalculator{},
	})
	svc := service.NewExerciseService(factory, 10)

	for _, algo := range []string{"", "all"} {
		repl := NewREPL(svc, REPLConfig{DefaultAlgo: algo})
		if repl.currentAlgo != "only" {
			t.Errorf("DefaultAlgo %q: expected 'only', got %q", algo, repl.currentAlgo)
		}
		if repl.config.Timeout <= 0 {
			t.Error("a positive default timeout should be set")
		}
	}
}

func TestProcessCommand(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	tests := []struct {
		input    string
		contains string
	}{
		{"fib 10", "F(10) = 10"},
		{"c 5", "F(5) = 5"},
		{"20", "F(20) = 20"},
		{"fib 94", "maximum n value exceeded"},
		{"fib", "Usage: fib <n>"},
		{"fib x", "Invalid value: x"},
		{"algo echo", "Algorithm changed to: echo"},
		{"algo nope", "Unknown algorithm: nope"},
		{"list", "► echo"},
		{"compare 7", "Comparison for F(7)"},
		{"leap 2000", "2000 is a leap year (366 days)"},
		{"leap 1900", "1900 is not a leap year"},
		{"leap abc", "Invalid year"},
		{"hist 0,1,2 0.5,1.5,1.7", "Total in range: 3"},
		{"hist 0,1", "Usage: hist"},
		{"hist 1,0 0.5", "invalid argument"},
		{"chi2 1,2 1,4 1,2", "χ²     = 1"},
		{"chi2 1,2 1 1,2", "dimension mismatch"},
		{"fit 0,1,2,3 1,2,5,10 1,1,1,1", "Parabola fit"},
		{"fit 1,1,1 1,2,3 1,1,1", "singular matrix"},
		{"energy 1.602176634e-21 1 10 5 direct", "direct geometry"},
		{"energy 1.602176634e-21 1 10 5 indirect", "indirect geometry"},
		{"energy 1 1 1 1 sideways", "invalid argument"},
		{"energy 1 1", "Usage: energy"},
		{"energy 1.602176634e-21 1 10 5", "Usage: energy"},
		{"status", "Current configuration"},
		{"help", "Available commands"},
		{"bogus", "Unknown command: bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			repl, out := newTestREPL(t)
			if !repl.processCommand(ctx, tt.input) {
				t.Fatalf("%q should not end the session", tt.input)
			}
			if got := testutil.StripAnsiCodes(out.String()); !strings.Contains(got, tt.contains) {
				t.Errorf("%q: expected output to contain %q, got:\n%s", tt.input, tt.contains, got)
			}
		})
	}
}

func TestProcessCommandExit(t *testing.T) {
	t.Parallel()
	repl, _ := newTestREPL(t)
	for _, cmd := range []string{"exit", "quit", "q"} {
		if repl.processCommand(t.Context(), cmd) {
			t.Errorf("%q should end the session", cmd)
		}
	}
}

func TestCompareReportsInconsistency(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().Algorithms().Return([]string{"a", "b"}).AnyTimes()
	svc.EXPECT().Fibonacci(gomock.Any(), "a", uint64(12)).Return(uint64(144), nil)
	svc.EXPECT().Fibonacci(gomock.Any(), "b", uint64(12)).Return(uint64(143), nil)

	repl := NewREPL(svc, REPLConfig{DefaultAlgo: "a", Timeout: time.Second})
	var out bytes.Buffer
	repl.SetOutput(&out)
	repl.processCommand(t.Context(), "compare 12")

	if !strings.Contains(out.String(), "INCONSISTENT") {
		t.Errorf("expected inconsistency marker, got:\n%s", out.String())
	}
}

func TestREPLStart(t *testing.T) {
	t.Parallel()
	repl, out := newTestREPL(t)
	repl.SetInput(strings.NewReader("fib 5\n\nleap 2024\nexit\nfib 6\n"))

	repl.Start(t.Context())

	output := testutil.StripAnsiCodes(out.String())
	for _, want := range []string{"F(5) = 5", "2024 is a leap year", "Goodbye!"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "F(6)") {
		t.Error("commands after exit must not run")
	}
}

func TestREPLStartHandlesEOFWithoutNewline(t *testing.T) {
	t.Parallel()
	repl, out := newTestREPL(t)
	repl.SetInput(strings.NewReader("leap 2023"))

	repl.Start(t.Context())

	output := testutil.StripAnsiCodes(out.String())
	if !strings.Contains(output, "2023 is not a leap year") {
		t.Errorf("last line before EOF should run, got:\n%s", output)
	}
	if !strings.Contains(output, "Goodbye!") {
		t.Error("expected goodbye message on EOF")
	}
}

func TestREPLStartCanceled(t *testing.T) {
	t.Parallel()
	repl, out := newTestREPL(t)
	repl.SetInput(strings.NewReader("fib 5\n"))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	repl.Start(ctx)

	if !strings.Contains(out.String(), "Session canceled") {
		t.Errorf("expected cancellation notice, got:\n%s", out.String())
	}
}
