package fibonacci

import (
	"context"
)

// cancelCheckMask controls how often the recursive strategy polls its
// context: once every 2^16 calls.
const cancelCheckMask = 1<<16 - 1

// NaiveRecursion is the reference double recursion, made cancellable.
// Its cost is RecursiveCalls(n) invocations.
type NaiveRecursion struct{}

// Name returns the display name of the strategy.
func (NaiveRecursion) Name() string { return "Naive Recursion" }

// CalculateCore computes F(n) by double recursion, polling ctx periodically
// and reporting progress as the fraction of calls performed.
func (NaiveRecursion) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64) (uint64, error) {
	w := &recursionWalker{
		ctx:      ctx,
		reporter: reporter,
		total:    RecursiveCalls(n),
	}
	result := w.walk(n)
	if w.err != nil {
		return 0, w.err
	}
	return result, nil
}

type recursionWalker struct {
	ctx      context.Context
	reporter ProgressReporter
	calls    uint64
	total    float64
	err      error
}

func (w *recursionWalker) walk(n uint64) uint64 {
	if w.err != nil {
		return 0
	}
	w.calls++
	if w.calls&cancelCheckMask == 0 {
		if err := w.ctx.Err(); err != nil {
			w.err = err
			return 0
		}
		w.reporter(float64(w.calls) / w.total)
	}
	if n < 2 {
		return n
	}
	return w.walk(n-1) + w.walk(n-2)
}

// MemoizedRecursion is the same top-down recursion with each term computed
// once and cached, giving linear time.
type MemoizedRecursion struct{}

// Name returns the display name of the strategy.
func (MemoizedRecursion) Name() string { return "Memoized Recursion" }

// CalculateCore computes F(n) top-down with a memo table.
func (MemoizedRecursion) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64) (uint64, error) {
	memo := make([]uint64, n+1)
	known := make([]bool, n+1)
	var fib func(k uint64) uint64
	fib = func(k uint64) uint64 {
		if k < 2 {
			return k
		}
		if known[k] {
			return memo[k]
		}
		memo[k] = fib(k-1) + fib(k-2)
		known[k] = true
		reporter(float64(k) / float64(n))
		return memo[k]
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return fib(n), nil
}

// Iterative computes the sequence bottom-up in constant space.
type Iterative struct{}

// Name returns the display name of the strategy.
func (Iterative) Name() string { return "Iterative" }

// CalculateCore computes F(n) with a simple loop.
func (Iterative) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64) (uint64, error) {
	var a, b uint64 = 0, 1
	for i := uint64(0); i < n; i++ {
		if i&cancelCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			reporter(float64(i) / float64(n))
		}
		a, b = b, a+b
	}
	return a, nil
}
