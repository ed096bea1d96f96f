package metrics

import (
	"sync/atomic"
)

// Statistics field constants
const (
	AcceptedCount = "accepted_count"
	InvalidCount  = "invalid_count"
	NullCount     = "null_count"
	FilteredCount = "filtered_count"
	ErrorCount    = "error_count"
	MergeCount    = "merge_count"
	FinalizeCount = "finalize_count"
)

// StatsCollector counts what happened to incoming rows.
// All methods are safe for concurrent use. Partial aggregators of a batch
// count into their own collector, folded in with Add once the batch is kept.
type StatsCollector struct {
	accepted  atomic.Int64
	invalid   atomic.Int64
	null      atomic.Int64
	filtered  atomic.Int64
	errors    atomic.Int64
	merges    atomic.Int64
	finalizes atomic.Int64
}

// NewStatsCollector creates a new statistics collector
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// AddAccepted counts n intervals stored in a state
func (sc *StatsCollector) AddAccepted(n int64) {
	if sc != nil {
		sc.accepted.Add(n)
	}
}

// AddInvalid counts n intervals dropped because left > right
func (sc *StatsCollector) AddInvalid(n int64) {
	if sc != nil {
		sc.invalid.Add(n)
	}
}

// IncrementNull counts a row skipped because an endpoint was null
func (sc *StatsCollector) IncrementNull() {
	if sc != nil {
		sc.null.Add(1)
	}
}

// IncrementFiltered counts a row rejected by the WHERE condition
func (sc *StatsCollector) IncrementFiltered() {
	if sc != nil {
		sc.filtered.Add(1)
	}
}

// IncrementError counts a row rejected with an error
func (sc *StatsCollector) IncrementError() {
	if sc != nil {
		sc.errors.Add(1)
	}
}

// IncrementMerge counts a partial state merge
func (sc *StatsCollector) IncrementMerge() {
	if sc != nil {
		sc.merges.Add(1)
	}
}

// IncrementFinalize counts a finalized group
func (sc *StatsCollector) IncrementFinalize() {
	if sc != nil {
		sc.finalizes.Add(1)
	}
}

// AddErrors counts n rows rejected with an error
func (sc *StatsCollector) AddErrors(n int64) {
	if sc != nil {
		sc.errors.Add(n)
	}
}

// Errors returns the number of rows rejected with an error
func (sc *StatsCollector) Errors() int64 {
	if sc == nil {
		return 0
	}
	return sc.errors.Load()
}

// Add folds every counter of other into sc
func (sc *StatsCollector) Add(other *StatsCollector) {
	if sc == nil || other == nil || sc == other {
		return
	}
	sc.accepted.Add(other.accepted.Load())
	sc.invalid.Add(other.invalid.Load())
	sc.null.Add(other.null.Load())
	sc.filtered.Add(other.filtered.Load())
	sc.errors.Add(other.errors.Load())
	sc.merges.Add(other.merges.Load())
	sc.finalizes.Add(other.finalizes.Load())
}

// Reset zeroes every counter
func (sc *StatsCollector) Reset() {
	sc.accepted.Store(0)
	sc.invalid.Store(0)
	sc.null.Store(0)
	sc.filtered.Store(0)
	sc.errors.Store(0)
	sc.merges.Store(0)
	sc.finalizes.Store(0)
}

// Snapshot returns the current counter values keyed by the field constants
func (sc *StatsCollector) Snapshot() map[string]int64 {
	return map[string]int64{
		AcceptedCount: sc.accepted.Load(),
		InvalidCount:  sc.invalid.Load(),
		NullCount:     sc.null.Load(),
		FilteredCount: sc.filtered.Load(),
		ErrorCount:    sc.errors.Load(),
		MergeCount:    sc.merges.Load(),
		FinalizeCount: sc.finalizes.Load(),
	}
}

// DropRate returns the percentage of contributed rows that did not end up
// in any state.
func (sc *StatsCollector) DropRate() float64 {
	accepted := sc.accepted.Load()
	dropped := sc.invalid.Load() + sc.null.Load() + sc.errors.Load()
	total := accepted + dropped
	if total == 0 {
		return 0
	}
	return float64(dropped) / float64(total) * 100
}
