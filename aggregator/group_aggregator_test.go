package aggregator

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/maxintersect/condition"
	"github.com/rulego/maxintersect/functions"
	"github.com/rulego/maxintersect/metrics"
)

type span struct {
	Start int64
	End   int64
}

type session struct {
	Host   string
	Span   span
	Closed *int64
}

func peakField() []AggregationField {
	return []AggregationField{{LeftField: "start", RightField: "end", OutputAlias: "peak"}}
}

func newPeakAggregator(t *testing.T, groupFields ...string) *GroupAggregator {
	t.Helper()
	agg, err := NewGroupAggregator(groupFields, peakField())
	require.NoError(t, err)
	return agg
}

func TestGroupAggregator_Grouped(t *testing.T) {
	agg := newPeakAggregator(t, "device")

	rows := []map[string]interface{}{
		{"device": "aa", "start": 1, "end": 3},
		{"device": "aa", "start": 2, "end": 6},
		{"device": "aa", "start": 4, "end": 5},
		{"device": "aa", "start": 5, "end": 5},
		{"device": "bb", "start": 1, "end": 1},
		{"device": "bb", "start": 2, "end": 2},
	}
	for _, r := range rows {
		require.NoError(t, agg.Add(r))
	}

	results, err := agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{
		{"device": "aa", "peak": int64(3)},
		{"device": "bb", "peak": int64(1)},
	}, results)
	assert.Equal(t, 2, agg.GroupCount())
}

type region struct {
	Name string
}

func TestGroupAggregator_GroupKeyTypes(t *testing.T) {
	agg := newPeakAggregator(t, "k")
	require.NoError(t, agg.Add(map[string]interface{}{"k": region{"eu"}, "start": 1, "end": 5}))
	require.NoError(t, agg.Add(map[string]interface{}{"k": region{"us"}, "start": 2, "end": 6}))

	results, err := agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{
		{"k": region{"eu"}, "peak": int64(1)},
		{"k": region{"us"}, "peak": int64(1)},
	}, results)

	agg = newPeakAggregator(t, "k")
	require.NoError(t, agg.Add(map[string]interface{}{"k": 1, "start": 1, "end": 5}))
	require.NoError(t, agg.Add(map[string]interface{}{"k": "1", "start": 2, "end": 6}))

	results, err = agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{
		{"k": 1, "peak": int64(1)},
		{"k": "1", "peak": int64(1)},
	}, results)
}

func TestGroupAggregator_Ungrouped(t *testing.T) {
	agg := newPeakAggregator(t)

	results, err := agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"peak": int64(0)}}, results)

	require.NoError(t, agg.Add(map[string]interface{}{"start": 1, "end": 10}))
	require.NoError(t, agg.Add(map[string]interface{}{"start": 10, "end": 20}))
	require.NoError(t, agg.Add(map[string]interface{}{"start": 11, "end": 12}))

	results, err = agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"peak": int64(2)}}, results)
}

func TestGroupAggregator_GroupedEmpty(t *testing.T) {
	agg := newPeakAggregator(t, "device")
	results, err := agg.GetResults()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGroupAggregator_NullAndInvalid(t *testing.T) {
	stats := metrics.NewStatsCollector()
	agg := newPeakAggregator(t)
	agg.SetStats(stats)

	rows := []map[string]interface{}{
		{"start": 1, "end": 5},
		{"start": nil, "end": 5},
		{"start": 2},
		{"start": 9, "end": 3},
		{"start": 3, "end": 4},
	}
	for _, r := range rows {
		require.NoError(t, agg.Add(r))
	}

	results, err := agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, int64(2), results[0]["peak"])

	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap[metrics.AcceptedCount])
	assert.Equal(t, int64(1), snap[metrics.InvalidCount])
	assert.Equal(t, int64(2), snap[metrics.NullCount])
	assert.Equal(t, int64(1), snap[metrics.FinalizeCount])
}

func TestGroupAggregator_OnlyInvalid(t *testing.T) {
	agg := newPeakAggregator(t, "k")
	require.NoError(t, agg.Add(map[string]interface{}{"k": "x", "start": 5, "end": 1}))

	results, err := agg.GetResults()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(0), results[0]["peak"])
}

func TestGroupAggregator_Extremes(t *testing.T) {
	agg := newPeakAggregator(t)
	require.NoError(t, agg.Add(map[string]interface{}{"start": int64(math.MinInt64), "end": int64(math.MaxInt64)}))
	require.NoError(t, agg.Add(map[string]interface{}{"start": int64(math.MaxInt64), "end": int64(math.MaxInt64)}))
	require.NoError(t, agg.Add(map[string]interface{}{"start": int64(math.MinInt64), "end": int64(math.MinInt64)}))

	results, err := agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, int64(2), results[0]["peak"])
}

func TestGroupAggregator_Structs(t *testing.T) {
	agg, err := NewGroupAggregator([]string{"Host"}, []AggregationField{
		{LeftField: "Span.Start", RightField: "Span.End", OutputAlias: "peak"},
		{LeftField: "Span.Start", RightField: "Closed", OutputAlias: "closed_peak"},
	})
	require.NoError(t, err)

	closed := int64(10)
	rows := []interface{}{
		session{Host: "a", Span: span{1, 5}, Closed: &closed},
		&session{Host: "a", Span: span{4, 8}},
		session{Host: "a", Span: span{6, 7}, Closed: &closed},
	}
	for _, r := range rows {
		require.NoError(t, agg.Add(r))
	}

	results, err := agg.GetResults()
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{
		{"Host": "a", "peak": int64(2), "closed_peak": int64(2)},
	}, results)
}

func TestGroupAggregator_AddConstant(t *testing.T) {
	a := newPeakAggregator(t)
	b := newPeakAggregator(t)

	row := map[string]interface{}{"start": 2, "end": 4}
	require.NoError(t, a.AddConstant(row, 3))
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Add(row))
	}
	require.NoError(t, a.AddConstant(row, 0))
	require.NoError(t, a.AddConstant(row, -2))

	ra, _ := a.GetResults()
	rb, _ := b.GetResults()
	assert.Equal(t, rb, ra)
	assert.Equal(t, int64(3), ra[0]["peak"])
}

func TestGroupAggregator_Errors(t *testing.T) {
	agg := newPeakAggregator(t, "device")

	assert.ErrorIs(t, agg.Add(nil), ErrNilData)
	var nilSession *session
	assert.ErrorIs(t, agg.Add(nilSession), ErrNilData)
	assert.ErrorIs(t, agg.Add(42), ErrUnsupportedData)
	assert.ErrorIs(t, agg.Add(map[string]interface{}{"start": 1, "end": 2}), ErrFieldNotFound)
	assert.ErrorIs(t, agg.Add(map[string]interface{}{"device": nil, "start": 1, "end": 2}), ErrNilGroupValue)

	err := agg.Add(map[string]interface{}{"device": "x", "start": "abc", "end": 2})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "start")

	// a failed row must leave no group behind
	assert.Equal(t, 0, agg.GroupCount())
}

func TestNewGroupAggregator_Config(t *testing.T) {
	_, err := NewGroupAggregator(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewGroupAggregator(nil, []AggregationField{{LeftField: "a"}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewGroupAggregator(nil, []AggregationField{{LeftField: "a", RightField: "b", Function: "nope"}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewGroupAggregator(nil, []AggregationField{
		{LeftField: "a", RightField: "b", OutputAlias: "x"},
		{LeftField: "c", RightField: "d", OutputAlias: "x"},
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, functions.RegisterCustomFunction("not_agg", functions.TypeCustom, "", "", 2, 2,
		func(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) { return nil, nil }))
	defer functions.Unregister("not_agg")
	_, err = NewGroupAggregator(nil, []AggregationField{{LeftField: "a", RightField: "b", Function: "not_agg"}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// defaults
	agg, err := NewGroupAggregator(nil, []AggregationField{{LeftField: "a", RightField: "b"}})
	require.NoError(t, err)
	results, _ := agg.GetResults()
	assert.Equal(t, []map[string]interface{}{{functions.MaxIntersectionsStr: int64(0)}}, results)
}

func TestGroupAggregator_Filter(t *testing.T) {
	stats := metrics.NewStatsCollector()
	agg := newPeakAggregator(t)
	agg.SetStats(stats)

	cond, err := condition.NewExprCondition(`status == "ok" && like_match(host, "web-%")`)
	require.NoError(t, err)
	agg.SetFilter(cond)

	rows := []map[string]interface{}{
		{"status": "ok", "host": "web-1", "start": 1, "end": 5},
		{"status": "ok", "host": "web-2", "start": 2, "end": 6},
		{"status": "down", "host": "web-3", "start": 3, "end": 7},
		{"status": "ok", "host": "db-1", "start": 4, "end": 8},
	}
	for _, r := range rows {
		require.NoError(t, agg.Add(r))
	}

	results, _ := agg.GetResults()
	assert.Equal(t, int64(2), results[0]["peak"])
	assert.Equal(t, int64(2), stats.Snapshot()[metrics.FilteredCount])
}

func TestGroupAggregator_Merge(t *testing.T) {
	rows := []map[string]interface{}{
		{"device": "aa", "start": 1, "end": 3},
		{"device": "bb", "start": 1, "end": 9},
		{"device": "aa", "start": 2, "end": 6},
		{"device": "bb", "start": 5, "end": 5},
		{"device": "aa", "start": 4, "end": 5},
		{"device": "cc", "start": 0, "end": 0},
	}

	whole := newPeakAggregator(t, "device")
	for _, r := range rows {
		require.NoError(t, whole.Add(r))
	}
	expected, _ := whole.GetResults()

	left := newPeakAggregator(t, "device")
	right := left.NewPartial()
	for i, r := range rows {
		if i%2 == 0 {
			require.NoError(t, left.Add(r))
		} else {
			require.NoError(t, right.Add(r))
		}
	}
	require.NoError(t, left.Merge(right))
	assert.Equal(t, 0, right.GroupCount())

	got, _ := left.GetResults()
	assert.Equal(t, expected, got)

	// nil, self and empty merges are no-ops
	require.NoError(t, left.Merge(nil))
	require.NoError(t, left.Merge(left))
	require.NoError(t, left.Merge(left.NewPartial()))
	got, _ = left.GetResults()
	assert.Equal(t, expected, got)
}

func TestGroupAggregator_CrossMerge(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := newPeakAggregator(t, "device")
		b := newPeakAggregator(t, "device")
		require.NoError(t, a.Add(map[string]interface{}{"device": "aa", "start": 1, "end": 5}))
		require.NoError(t, b.Add(map[string]interface{}{"device": "aa", "start": 3, "end": 8}))

		done := make(chan struct{})
		go func() {
			var wg sync.WaitGroup
			wg.Add(2)
			go func() { defer wg.Done(); _ = a.Merge(b) }()
			go func() { defer wg.Done(); _ = b.Merge(a) }()
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent opposite merges did not finish")
		}

		require.Equal(t, 1, a.GroupCount()+b.GroupCount())
		holder := a
		if b.GroupCount() == 1 {
			holder = b
		}
		results, err := holder.GetResults()
		require.NoError(t, err)
		assert.Equal(t, []map[string]interface{}{{"device": "aa", "peak": int64(2)}}, results)
	}
}

func TestGroupAggregator_MergeIncompatible(t *testing.T) {
	a := newPeakAggregator(t, "device")
	b := newPeakAggregator(t, "host")
	assert.ErrorIs(t, a.Merge(b), ErrIncompatibleAggregators)

	c, err := NewGroupAggregator([]string{"device"}, []AggregationField{{LeftField: "s", RightField: "e", OutputAlias: "peak"}})
	require.NoError(t, err)
	assert.ErrorIs(t, a.Merge(c), ErrIncompatibleAggregators)
}

func TestGroupAggregator_Reset(t *testing.T) {
	agg := newPeakAggregator(t, "device")
	require.NoError(t, agg.Add(map[string]interface{}{"device": "a", "start": 1, "end": 2}))
	agg.Reset()
	assert.Equal(t, 0, agg.GroupCount())

	require.NoError(t, agg.Add(map[string]interface{}{"device": "a", "start": 1, "end": 2}))
	results, _ := agg.GetResults()
	assert.Equal(t, int64(1), results[0]["peak"])
}
