package fibonacci

import (
	"context"
	"sort"

	apperrors "github.com/agbru/numex/internal/errors"
)

// MockCalculator is a Calculator with a canned answer. It is exported so
// that tests in other packages (server, orchestration, service) can use it.
type MockCalculator struct {
	NameValue string
	Result    uint64
	Err       error
	Fn        func(ctx context.Context, n uint64) (uint64, error)
}

// Name returns the configured name, or "mock".
func (m *MockCalculator) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// Calculate returns the pre-configured Result and Err, or calls Fn if provided.
func (m *MockCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64) (uint64, error) {
	if m.Fn != nil {
		return m.Fn(ctx, n)
	}
	if progressChan != nil {
		progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1.0}
	}
	return m.Result, m.Err
}

// TestFactory is a CalculatorFactory backed by a fixed map, for tests.
type TestFactory struct {
	calculators map[string]Calculator
}

// NewTestFactory creates a factory pre-populated with the given calculators.
func NewTestFactory(calculators map[string]Calculator) *TestFactory {
	if calculators == nil {
		calculators = make(map[string]Calculator)
	}
	return &TestFactory{calculators: calculators}
}

// Get returns the calculator by name.
func (f *TestFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, apperrors.NewInvalidArgument(op, "unknown algorithm %q", name)
	}
	return calc, nil
}

// List returns the sorted calculator names.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a copy of the calculator map.
func (f *TestFactory) GetAll() map[string]Calculator {
	result := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		result[name] = calc
	}
	return result
}
