package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCollector_Counters(t *testing.T) {
	sc := NewStatsCollector()
	sc.AddAccepted(3)
	sc.AddInvalid(1)
	sc.IncrementNull()
	sc.IncrementFiltered()
	sc.IncrementError()
	sc.IncrementMerge()
	sc.IncrementFinalize()

	snap := sc.Snapshot()
	assert.Equal(t, int64(3), snap[AcceptedCount])
	assert.Equal(t, int64(1), snap[InvalidCount])
	assert.Equal(t, int64(1), snap[NullCount])
	assert.Equal(t, int64(1), snap[FilteredCount])
	assert.Equal(t, int64(1), snap[ErrorCount])
	assert.Equal(t, int64(1), snap[MergeCount])
	assert.Equal(t, int64(1), snap[FinalizeCount])
	assert.InDelta(t, 50.0, sc.DropRate(), 0.001)

	sc.Reset()
	for key, v := range sc.Snapshot() {
		assert.Zero(t, v, key)
	}
	assert.Zero(t, sc.DropRate())
}

func TestStatsCollector_NilSafe(t *testing.T) {
	var sc *StatsCollector
	assert.NotPanics(t, func() {
		sc.AddAccepted(1)
		sc.AddInvalid(1)
		sc.IncrementNull()
		sc.IncrementFiltered()
		sc.IncrementError()
		sc.IncrementMerge()
		sc.IncrementFinalize()
		sc.AddErrors(2)
		sc.Add(NewStatsCollector())
	})
	assert.Zero(t, sc.Errors())
}

func TestStatsCollector_Add(t *testing.T) {
	batch := NewStatsCollector()
	batch.AddAccepted(5)
	batch.AddInvalid(2)
	batch.IncrementNull()
	batch.AddErrors(3)
	batch.IncrementMerge()

	total := NewStatsCollector()
	total.AddAccepted(1)
	total.Add(batch)
	total.Add(total)
	total.Add(nil)

	snap := total.Snapshot()
	assert.Equal(t, int64(6), snap[AcceptedCount])
	assert.Equal(t, int64(2), snap[InvalidCount])
	assert.Equal(t, int64(1), snap[NullCount])
	assert.Equal(t, int64(3), snap[ErrorCount])
	assert.Equal(t, int64(3), total.Errors())
	assert.Equal(t, int64(1), snap[MergeCount])
}

func TestStatsCollector_Concurrent(t *testing.T) {
	sc := NewStatsCollector()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sc.AddAccepted(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), sc.Snapshot()[AcceptedCount])
}

func TestPrometheusCollector(t *testing.T) {
	sc := NewStatsCollector()
	sc.AddAccepted(5)
	sc.AddInvalid(2)
	sc.IncrementMerge()

	reg := prometheus.NewRegistry()
	c, err := Register(reg, sc)
	require.NoError(t, err)

	assert.Equal(t, len(counterHelp), testutil.CollectAndCount(c))

	expected := `
# HELP maxintersect_accepted_total Intervals stored in aggregation states.
# TYPE maxintersect_accepted_total counter
maxintersect_accepted_total 5
# HELP maxintersect_invalid_total Intervals dropped because start was greater than end.
# TYPE maxintersect_invalid_total counter
maxintersect_invalid_total 2
# HELP maxintersect_merge_total Partial aggregation states merged.
# TYPE maxintersect_merge_total counter
maxintersect_merge_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"maxintersect_accepted_total", "maxintersect_invalid_total", "maxintersect_merge_total"))

	// a second registration of the same descriptors is rejected
	_, err = Register(reg, sc)
	assert.Error(t, err)
}
