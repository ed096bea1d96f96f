package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rulego/maxintersect/condition"
	"github.com/rulego/maxintersect/functions"
	"github.com/rulego/maxintersect/logger"
	"github.com/rulego/maxintersect/metrics"
	"github.com/rulego/maxintersect/utils/cast"
)

// keySeparator joins group values into a group key
const keySeparator = "\x1f"

// aggregatorSeq numbers aggregators so Merge can lock pairs in a fixed order
var aggregatorSeq atomic.Uint64

// Aggregator aggregator interface
type Aggregator interface {
	Add(data interface{}) error
	AddConstant(data interface{}, count int) error
	GetResults() ([]map[string]interface{}, error)
	Reset()
}

// AggregationField defines configuration for a single interval aggregate
type AggregationField struct {
	LeftField   string `json:"leftField"`   // Interval start field (e.g., "start")
	RightField  string `json:"rightField"`  // Interval end field (e.g., "end")
	OutputAlias string `json:"outputAlias"` // Output alias (e.g., "peak")
	Function    string `json:"function"`    // Aggregate name, max_intersections when empty
}

// pairAggregator is what every aggregation field is backed by
type pairAggregator interface {
	functions.BinaryAggregator
	Merge(other functions.AggregatorFunction) error
}

// group holds the partial states of one group key
type group struct {
	values []interface{}
	aggs   map[string]pairAggregator
}

// GroupAggregator computes interval aggregates per group.
//
// Each GroupAggregator is a partial state: build one per worker, then
// combine them with Merge. All methods are safe for concurrent use,
// including a.Merge(b) racing with b.Merge(a).
type GroupAggregator struct {
	id                uint64
	aggregationFields []AggregationField
	groupFields       []string
	prototypes        map[string]pairAggregator
	groups            map[string]*group
	mu                sync.RWMutex
	filter            condition.Condition
	stats             *metrics.StatsCollector
}

// NewGroupAggregator creates a new group aggregator
func NewGroupAggregator(groupFields []string, aggregationFields []AggregationField) (*GroupAggregator, error) {
	if len(aggregationFields) == 0 {
		return nil, fmt.Errorf("%w: at least one aggregation field is required", ErrInvalidConfig)
	}

	fields := make([]AggregationField, len(aggregationFields))
	copy(fields, aggregationFields)
	prototypes := make(map[string]pairAggregator, len(fields))

	for i := range fields {
		if fields[i].LeftField == "" || fields[i].RightField == "" {
			return nil, fmt.Errorf("%w: field %d needs both left and right fields", ErrInvalidConfig, i)
		}
		if fields[i].Function == "" {
			fields[i].Function = functions.MaxIntersectionsStr
		}
		if fields[i].OutputAlias == "" {
			fields[i].OutputAlias = fields[i].Function
		}
		if _, dup := prototypes[fields[i].OutputAlias]; dup {
			return nil, fmt.Errorf("%w: duplicate output alias %s", ErrInvalidConfig, fields[i].OutputAlias)
		}
		agg, err := functions.CreateAggregator(fields[i].Function)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		pa, ok := agg.(pairAggregator)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a mergeable two-argument aggregate", ErrInvalidConfig, fields[i].Function)
		}
		prototypes[fields[i].OutputAlias] = pa
	}

	gf := make([]string, len(groupFields))
	copy(gf, groupFields)

	return &GroupAggregator{
		id:                aggregatorSeq.Add(1),
		aggregationFields: fields,
		groupFields:       gf,
		prototypes:        prototypes,
		groups:            make(map[string]*group),
	}, nil
}

// SetFilter sets the condition a row must satisfy to be aggregated
func (ga *GroupAggregator) SetFilter(filter condition.Condition) {
	ga.mu.Lock()
	defer ga.mu.Unlock()
	ga.filter = filter
}

// SetStats sets the collector that receives row counters
func (ga *GroupAggregator) SetStats(stats *metrics.StatsCollector) {
	ga.mu.Lock()
	defer ga.mu.Unlock()
	ga.stats = stats
}

// Stats returns the attached collector, possibly nil
func (ga *GroupAggregator) Stats() *metrics.StatsCollector {
	ga.mu.RLock()
	defer ga.mu.RUnlock()
	return ga.stats
}

// NewPartial returns an empty aggregator with the same fields, filter and
// stats collector, ready to be filled by another worker and merged back.
func (ga *GroupAggregator) NewPartial() *GroupAggregator {
	ga.mu.RLock()
	defer ga.mu.RUnlock()
	return &GroupAggregator{
		id:                aggregatorSeq.Add(1),
		aggregationFields: ga.aggregationFields,
		groupFields:       ga.groupFields,
		prototypes:        ga.prototypes,
		groups:            make(map[string]*group),
		filter:            ga.filter,
		stats:             ga.stats,
	}
}

// Add aggregates one row
func (ga *GroupAggregator) Add(data interface{}) error {
	return ga.add(data, 1)
}

// AddConstant aggregates the same row count times
func (ga *GroupAggregator) AddConstant(data interface{}, count int) error {
	if count <= 0 {
		return nil
	}
	return ga.add(data, count)
}

// pair is one converted (left, right) row for an output alias
type pair struct {
	alias       string
	left, right int64
}

func (ga *GroupAggregator) add(data interface{}, count int) error {
	ga.mu.Lock()
	defer ga.mu.Unlock()

	if err := checkRow(data); err != nil {
		ga.stats.IncrementError()
		if errors.Is(err, ErrUnsupportedData) {
			return fmt.Errorf("%w: %T, expected struct or map", err, data)
		}
		return err
	}

	if ga.filter != nil && !ga.filter.Evaluate(data) {
		ga.stats.IncrementFiltered()
		return nil
	}

	key, values, err := ga.groupKey(data)
	if err != nil {
		ga.stats.IncrementError()
		return err
	}

	// convert every field first so a bad row leaves no partial trace
	pairs := make([]pair, 0, len(ga.aggregationFields))
	for _, f := range ga.aggregationFields {
		left, lok := getField(data, f.LeftField)
		right, rok := getField(data, f.RightField)
		if !lok || !rok || left == nil || right == nil {
			ga.stats.IncrementNull()
			continue
		}
		l, r, err := cast.ToPairE(left, right)
		if err != nil {
			ga.stats.IncrementError()
			return fmt.Errorf("cannot convert fields %s, %s to integers for %s: %w", f.LeftField, f.RightField, f.OutputAlias, err)
		}
		pairs = append(pairs, pair{alias: f.OutputAlias, left: l, right: r})
	}

	g := ga.groups[key]
	if g == nil {
		g = ga.newGroup(values)
		ga.groups[key] = g
	}

	for _, p := range pairs {
		agg := g.aggs[p.alias]
		if count == 1 {
			err = agg.AddPair(p.left, p.right)
		} else {
			err = agg.AddConstant(p.left, p.right, count)
		}
		if err != nil {
			return err
		}
		if p.left > p.right {
			ga.stats.AddInvalid(int64(count))
		} else {
			ga.stats.AddAccepted(int64(count))
		}
	}
	return nil
}

func (ga *GroupAggregator) groupKey(data interface{}) (string, []interface{}, error) {
	if len(ga.groupFields) == 0 {
		return "", nil, nil
	}
	var sb strings.Builder
	values := make([]interface{}, len(ga.groupFields))
	for i, field := range ga.groupFields {
		v, found := getField(data, field)
		if !found {
			return "", nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
		}
		if v == nil {
			return "", nil, fmt.Errorf("%w: %s", ErrNilGroupValue, field)
		}
		values[i] = v
		// 带上类型，避免 1 与 "1"、无法转字符串的结构体互相冲突
		fmt.Fprintf(&sb, "%T:%v", v, v)
		sb.WriteString(keySeparator)
	}
	return sb.String(), values, nil
}

func (ga *GroupAggregator) newGroup(values []interface{}) *group {
	g := &group{values: values, aggs: make(map[string]pairAggregator, len(ga.prototypes))}
	for alias, proto := range ga.prototypes {
		g.aggs[alias] = proto.New().(pairAggregator)
	}
	return g
}

// compatible reports whether other was built from the same fields
func (ga *GroupAggregator) compatible(other *GroupAggregator) bool {
	if len(ga.groupFields) != len(other.groupFields) || len(ga.aggregationFields) != len(other.aggregationFields) {
		return false
	}
	for i := range ga.groupFields {
		if ga.groupFields[i] != other.groupFields[i] {
			return false
		}
	}
	for i := range ga.aggregationFields {
		if ga.aggregationFields[i] != other.aggregationFields[i] {
			return false
		}
	}
	return true
}

// Merge moves every group of other into ga. other is left empty.
func (ga *GroupAggregator) Merge(other *GroupAggregator) error {
	if other == nil || other == ga {
		return nil
	}
	if !ga.compatible(other) {
		return ErrIncompatibleAggregators
	}

	first, second := ga, other
	if other.id < ga.id {
		first, second = other, ga
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	moved, combined := 0, 0
	for key, og := range other.groups {
		g, exists := ga.groups[key]
		if !exists {
			ga.groups[key] = og
			moved++
			continue
		}
		for alias, agg := range g.aggs {
			if err := agg.Merge(og.aggs[alias]); err != nil {
				return fmt.Errorf("merge %s: %w", alias, err)
			}
		}
		combined++
	}
	other.groups = make(map[string]*group)

	ga.stats.IncrementMerge()
	logger.Debug("merged partial aggregator: %d groups moved, %d combined", moved, combined)
	return nil
}

// GroupCount returns the number of groups seen so far
func (ga *GroupAggregator) GroupCount() int {
	ga.mu.RLock()
	defer ga.mu.RUnlock()
	return len(ga.groups)
}

// GetResults finalizes every group. Rows are ordered by group key.
// Without group fields a single row is always returned, holding 0 when no
// interval was ever accumulated.
func (ga *GroupAggregator) GetResults() ([]map[string]interface{}, error) {
	ga.mu.RLock()
	defer ga.mu.RUnlock()

	if len(ga.groupFields) == 0 && len(ga.groups) == 0 {
		row := make(map[string]interface{}, len(ga.aggregationFields))
		for _, f := range ga.aggregationFields {
			row[f.OutputAlias] = int64(0)
		}
		return []map[string]interface{}{row}, nil
	}

	keys := make([]string, 0, len(ga.groups))
	for key := range ga.groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		g := ga.groups[key]
		row := make(map[string]interface{}, len(ga.groupFields)+len(g.aggs))
		for i, field := range ga.groupFields {
			row[field] = g.values[i]
		}
		for alias, agg := range g.aggs {
			row[alias] = agg.Result()
		}
		ga.stats.IncrementFinalize()
		result = append(result, row)
	}
	logger.Debug("finalized %d groups", len(result))
	return result, nil
}

// Reset drops every group and releases their states
func (ga *GroupAggregator) Reset() {
	ga.mu.Lock()
	defer ga.mu.Unlock()
	for _, g := range ga.groups {
		for _, agg := range g.aggs {
			agg.Reset()
		}
	}
	ga.groups = make(map[string]*group)
}
