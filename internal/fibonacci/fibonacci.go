// Package fibonacci computes terms of the Fibonacci sequence
// F(0)=0, F(1)=1, F(k)=F(k-1)+F(k-2).
//
// Recursive is the reference definition: a naive double recursion whose
// running time grows like φⁿ. The package also exposes a Calculator
// abstraction with interchangeable strategies (recursive, memoized,
// iterative) that must all agree on every index they accept.
package fibonacci

import (
	apperrors "github.com/agbru/numex/internal/errors"
)

// MaxFibUint64 is the largest index whose Fibonacci number fits in a uint64:
// F(93) = 12200160415121876738, while F(94) overflows.
const MaxFibUint64 = 93

const op = "fibonacci"

// Recursive returns F(n) by direct double recursion on the definition.
// It runs in exponential time and is intended for small n. Negative indices
// and indices above MaxFibUint64 are rejected with ErrInvalidArgument.
func Recursive(n int) (uint64, error) {
	if err := checkIndex(n); err != nil {
		return 0, err
	}
	return recurse(uint64(n)), nil
}

func recurse(n uint64) uint64 {
	if n < 2 {
		return n
	}
	return recurse(n-1) + recurse(n-2)
}

func checkIndex(n int) error {
	if n < 0 {
		return apperrors.NewInvalidArgument(op, "index must be non-negative, got %d", n)
	}
	if n > MaxFibUint64 {
		return apperrors.NewInvalidArgument(op, "F(%d) overflows uint64 (max index %d)", n, MaxFibUint64)
	}
	return nil
}

// RecursiveCalls returns the number of invocations the naive recursion makes
// to compute F(n), which is 2·F(n+1) - 1. It is used to report progress.
func RecursiveCalls(n uint64) float64 {
	a, b := 0.0, 1.0
	for i := uint64(0); i < n+1; i++ {
		a, b = b, a+b
	}
	return 2*a - 1
}
