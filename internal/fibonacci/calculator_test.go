package fibonacci

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/agbru/numex/internal/errors"
)

func TestNewCalculatorPanicsOnNil(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("NewCalculator(nil) should panic")
		}
	}()
	NewCalculator(nil)
}

func TestCalculatorRejectsOverflow(t *testing.T) {
	t.Parallel()
	for _, core := range []coreCalculator{NaiveRecursion{}, MemoizedRecursion{}, Iterative{}} {
		calc := NewCalculator(core)
		_, err := calc.Calculate(context.Background(), nil, 0, MaxFibUint64+1)
		if !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("%s: error = %v, want ErrInvalidArgument", calc.Name(), err)
		}
	}
}

func TestCalculatorLargestIndex(t *testing.T) {
	t.Parallel()
	const want uint64 = 12200160415121876738
	for _, core := range []coreCalculator{MemoizedRecursion{}, Iterative{}} {
		got, err := NewCalculator(core).Calculate(context.Background(), nil, 0, MaxFibUint64)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", core.Name(), err)
		}
		if got != want {
			t.Errorf("%s: F(93) = %d, want %d", core.Name(), got, want)
		}
	}
}

func TestCalculatorSendsFinalProgress(t *testing.T) {
	t.Parallel()
	progress := make(chan ProgressUpdate, 64)
	calc := NewCalculator(Iterative{})

	if _, err := calc.Calculate(context.Background(), progress, 3, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(progress)

	var last ProgressUpdate
	count := 0
	for u := range progress {
		if u.CalculatorIndex != 3 {
			t.Errorf("update has index %d, want 3", u.CalculatorIndex)
		}
		if u.Value < 0 || u.Value > 1 {
			t.Errorf("progress value %v out of [0, 1]", u.Value)
		}
		last = u
		count++
	}
	if count == 0 || last.Value != 1.0 {
		t.Errorf("last progress = %+v after %d updates, want 1.0", last, count)
	}
}

func TestCalculatorHonorsCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, core := range []coreCalculator{NaiveRecursion{}, MemoizedRecursion{}, Iterative{}} {
		_, err := NewCalculator(core).Calculate(ctx, nil, 0, 30)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: error = %v, want context.Canceled", core.Name(), err)
		}
	}
}

func TestNaiveRecursionStopsOnDeadline(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// F(90) by double recursion would take far longer than the deadline.
	start := time.Now()
	_, err := NewCalculator(NaiveRecursion{}).Calculate(ctx, nil, 0, 90)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}
}

func TestChannelReporterDoesNotBlock(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate) // unbuffered, nobody reads
	report := channelReporter(context.Background(), ch, 0)

	done := make(chan struct{})
	go func() {
		report(0.5)
		report(2.0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporter blocked on a full channel")
	}
}
