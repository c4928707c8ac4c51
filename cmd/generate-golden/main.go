// Command generate-golden writes the reference values used by the
// Fibonacci golden tests. Values come from a math/big oracle, independent of
// the calculators under test, and cover every index that fits in a uint64.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/agbru/numex/internal/fibonacci"
)

// GoldenData represents a single test case in the golden file
type GoldenData struct {
	N      uint64 `json:"n"`
	Result string `json:"result"`
}

func main() {
	outputDir := flag.String("out", "internal/fibonacci/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := run(*outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Small indices, the recursion-friendly range, and the top of the
	// uint64 range where overflow bugs show up.
	targets := []uint64{
		0, 1, 2, 3, 4, 5, 10, 20, 25, 30,
		50, 64, 80, 90, 92, fibonacci.MaxFibUint64,
	}

	data := make([]GoldenData, 0, len(targets))
	for _, n := range targets {
		res := fibBig(n)
		if !res.IsUint64() {
			return fmt.Errorf("F(%d) does not fit in a uint64", n)
		}
		data = append(data, GoldenData{N: n, Result: res.String()})
	}

	filename := filepath.Join(outputDir, "fibonacci_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	fmt.Printf("Generated %d golden values at %s\n", len(data), filename)
	return nil
}

// fibBig calculates F(n) iteratively with math/big; it is the oracle.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for range n {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}
