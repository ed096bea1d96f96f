package functions

import "fmt"

// AggregatorFunction defines the interface for aggregator functions that support incremental computation
type AggregatorFunction interface {
	Function
	// New creates a new aggregator instance
	New() AggregatorFunction
	// Add adds a value for incremental computation
	Add(value interface{})
	// Result returns the aggregation result
	Result() interface{}
	// Reset resets the aggregator state
	Reset()
	// Clone clones the aggregator
	Clone() AggregatorFunction
}

// MergeableAggregator is an aggregator whose partial states can be
// combined. Merge consumes other; the result must not depend on the order
// or grouping of merges.
type MergeableAggregator interface {
	AggregatorFunction
	Merge(other AggregatorFunction) error
}

// BinaryAggregator accepts two arguments per row
type BinaryAggregator interface {
	AggregatorFunction
	// AddPair adds one row. Rows with a nil argument are skipped.
	AddPair(left, right interface{}) error
	// AddConstant adds the same row count times
	AddConstant(left, right interface{}, count int) error
}

// PropertiedAggregator exposes the properties a host must honor
type PropertiedAggregator interface {
	OrderDependent() bool
	NullHandling() NullHandling
}

// CreateAggregator creates an aggregator instance
func CreateAggregator(name string) (AggregatorFunction, error) {
	fn, exists := Get(name)
	if !exists {
		return nil, fmt.Errorf("aggregator function %s not found", name)
	}

	if aggFn, ok := fn.(AggregatorFunction); ok {
		return aggFn.New(), nil
	}

	return nil, fmt.Errorf("function %s is not an aggregator function", name)
}

// CreateMergeableAggregator creates an aggregator that supports Merge
func CreateMergeableAggregator(name string) (MergeableAggregator, error) {
	agg, err := CreateAggregator(name)
	if err != nil {
		return nil, err
	}
	m, ok := agg.(MergeableAggregator)
	if !ok {
		return nil, fmt.Errorf("aggregator function %s does not support merging", name)
	}
	return m, nil
}

// IsAggregatorFunction checks if a function name is an aggregator function
func IsAggregatorFunction(name string) bool {
	fn, exists := Get(name)
	if !exists {
		return false
	}
	_, ok := fn.(AggregatorFunction)
	return ok
}
