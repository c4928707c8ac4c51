package fibonacci

import (
	"context"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCassinisIdentity_PropertyBased verifies Cassini's identity
//
//	F(n-1) * F(n+1) - F(n)² = (-1)ⁿ
//
// for every linear-time strategy over the whole uint64 range.
func TestCassinisIdentity_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	calculators := []coreCalculator{
		MemoizedRecursion{},
		Iterative{},
	}

	for _, calculator := range calculators {
		properties.Property(calculator.Name()+" satisfies Cassini's Identity", prop.ForAll(
			func(n uint64) bool {
				ctx := context.Background()
				progressReporter := func(progress float64) {}

				values := make([]*big.Int, 3)
				for i := range values {
					v, err := calculator.CalculateCore(ctx, progressReporter, n-1+uint64(i))
					if err != nil {
						t.Logf("Error calculating F(%d): %v", n-1+uint64(i), err)
						return false
					}
					values[i] = new(big.Int).SetUint64(v)
				}

				leftSide := new(big.Int).Mul(values[0], values[2])
				leftSide.Sub(leftSide, new(big.Int).Mul(values[1], values[1]))

				rightSide := big.NewInt(1)
				if n%2 != 0 {
					rightSide.Neg(rightSide)
				}
				return leftSide.Cmp(rightSide) == 0
			},
			gen.UInt64Range(1, MaxFibUint64-1),
		))
	}

	properties.TestingRun(t)
}

// TestRecurrence_PropertyBased checks that the reference recursion satisfies
// F(n) = F(n-1) + F(n-2) on the range where it stays fast.
func TestRecurrence_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("F(n) = F(n-1) + F(n-2)", prop.ForAll(
		func(n int) bool {
			a, errA := Recursive(n - 2)
			b, errB := Recursive(n - 1)
			c, errC := Recursive(n)
			return errA == nil && errB == nil && errC == nil && a+b == c
		},
		gen.IntRange(2, 22),
	))

	properties.TestingRun(t)
}
