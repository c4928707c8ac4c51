package fibonacci

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/agbru/numex/internal/errors"
)

// Registered algorithm names.
const (
	AlgoRecursive = "recursive"
	AlgoMemoized  = "memoized"
	AlgoIterative = "iterative"
)

// CalculatorFactory creates and caches Calculator instances by name,
// enabling dependency injection and easier testing.
type CalculatorFactory interface {
	// Get returns a cached Calculator instance by name, creating it on
	// first use. It returns ErrInvalidArgument for unknown names.
	Get(name string) (Calculator, error)

	// List returns the sorted list of registered calculator names.
	List() []string

	// GetAll returns all registered calculators keyed by name.
	GetAll() map[string]Calculator
}

// DefaultFactory is the default implementation of CalculatorFactory.
// It maintains a thread-safe registry of strategy creators and caches the
// decorated Calculator instances for reuse.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

var _ CalculatorFactory = (*DefaultFactory)(nil)

// NewDefaultFactory creates a factory with the standard strategies
// registered:
//   - "recursive": NaiveRecursion (O(φⁿ), the reference definition)
//   - "memoized": MemoizedRecursion (O(n) time and space)
//   - "iterative": Iterative (O(n) time, O(1) space)
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}
	f.Register(AlgoRecursive, func() coreCalculator { return NaiveRecursion{} })
	f.Register(AlgoMemoized, func() coreCalculator { return MemoizedRecursion{} })
	f.Register(AlgoIterative, func() coreCalculator { return Iterative{} })
	return f
}

// Register adds a strategy under name, replacing any previous one.
// The creator is called lazily when the calculator is first requested.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	// Drop the cached instance so it is rebuilt from the new creator.
	delete(f.calculators, name)
}

// Get returns a Calculator instance by name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	if calc, exists := f.calculators[name]; exists {
		f.mu.RUnlock()
		return calc, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if calc, exists := f.calculators[name]; exists {
		return calc, nil
	}

	creator, ok := f.creators[name]
	if !ok {
		return nil, apperrors.NewInvalidArgument(op, "unknown algorithm %q", name)
	}

	calc := NewCalculator(creator())
	f.calculators[name] = calc
	return calc, nil
}

// List returns a sorted list of all registered calculator names.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a copy of the registry, initializing every calculator that
// has not been created yet.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, creator := range f.creators {
		if _, exists := f.calculators[name]; !exists {
			f.calculators[name] = NewCalculator(creator())
		}
	}

	result := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		result[name] = calc
	}
	return result
}

// MustGet is like Get but panics if the calculator is not found.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("fibonacci: required calculator not found: %s", name))
	}
	return calc
}

// Has reports whether a calculator with the given name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory instance.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}
