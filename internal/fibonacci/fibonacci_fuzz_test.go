package fibonacci

import (
	"context"
	"testing"
)

// FuzzStrategyConsistency verifies that the memoized and iterative
// strategies agree on every index, and with the reference recursion on
// small indices.
func FuzzStrategyConsistency(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(1))
	f.Add(uint64(2))
	f.Add(uint64(10))
	f.Add(uint64(50))
	f.Add(uint64(92))
	f.Add(uint64(93))
	f.Add(uint64(94))

	f.Fuzz(func(t *testing.T, n uint64) {
		if n > MaxFibUint64 {
			return
		}
		ctx := context.Background()
		noop := func(float64) {}

		memo, err := MemoizedRecursion{}.CalculateCore(ctx, noop, n)
		if err != nil {
			t.Fatalf("memoized failed for n=%d: %v", n, err)
		}
		iter, err := Iterative{}.CalculateCore(ctx, noop, n)
		if err != nil {
			t.Fatalf("iterative failed for n=%d: %v", n, err)
		}
		if memo != iter {
			t.Errorf("Inconsistent results for n=%d: memoized=%d iterative=%d", n, memo, iter)
		}

		if n <= 20 {
			ref, err := Recursive(int(n))
			if err != nil {
				t.Fatalf("Recursive(%d) failed: %v", n, err)
			}
			if ref != iter {
				t.Errorf("Recursive(%d) = %d, iterative = %d", n, ref, iter)
			}
		}
	})
}
