/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package maxintersect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rulego/maxintersect/aggregator"
	"github.com/rulego/maxintersect/condition"
	"github.com/rulego/maxintersect/intervals"
	"github.com/rulego/maxintersect/logger"
	"github.com/rulego/maxintersect/metrics"
	"github.com/rulego/maxintersect/types"
	"github.com/rulego/maxintersect/utils/table"
)

// ErrClosed is returned by every operation on a closed Engine
var ErrClosed = errors.New("engine is closed")

// engineSeq 为引擎编号，Merge 按编号顺序加锁
var engineSeq atomic.Uint64

// Engine 区间聚合引擎。
// 按配置对行数据分组，计算每组内同时重叠的闭区间 [left, right] 的最大数量。
//
// Engine 可以被多个协程并发使用。AddBatch 会把大批量数据拆分到多个工作协程，
// 每个协程维护独立的部分状态，最后合并。
type Engine struct {
	id     uint64
	config types.Config

	mu     sync.RWMutex
	agg    *aggregator.GroupAggregator
	having condition.Condition
	stats  *metrics.StatsCollector
	closed bool

	registerer prometheus.Registerer
	collector  prometheus.Collector
}

// New 根据配置创建引擎。
//
// 示例:
//
//	config := types.NewConfig()
//	config.GroupFields = []string{"host"}
//	config.Fields = []aggregator.AggregationField{
//	    {LeftField: "start", RightField: "end", OutputAlias: "peak"},
//	}
//	engine, err := maxintersect.New(config, maxintersect.WithLogLevel(logger.DEBUG))
func New(config types.Config, options ...Option) (*Engine, error) {
	e := &Engine{id: engineSeq.Add(1), config: config}
	for _, option := range options {
		option(e)
	}
	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	agg, err := aggregator.NewGroupAggregator(e.config.GroupFields, e.config.Fields)
	if err != nil {
		return nil, err
	}

	if e.config.Where != "" {
		where, err := condition.NewExprCondition(e.config.Where)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		agg.SetFilter(where)
	}
	if e.config.Having != "" {
		having, err := condition.NewExprCondition(e.config.Having)
		if err != nil {
			return nil, fmt.Errorf("having: %w", err)
		}
		e.having = having
	}

	if e.config.PerformanceConfig.MonitoringConfig.EnableMonitoring || e.registerer != nil {
		e.stats = metrics.NewStatsCollector()
		agg.SetStats(e.stats)
	}
	if e.registerer != nil {
		c, err := metrics.Register(e.registerer, e.stats)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		e.collector = c
	}

	e.agg = agg
	logger.Debug("engine created: group fields %v, %d aggregate fields, parallelism %d",
		e.config.GroupFields, len(e.config.Fields), e.config.PerformanceConfig.WorkerConfig.Parallelism)
	return e, nil
}

// Config returns the configuration the engine was built from
func (e *Engine) Config() types.Config {
	return e.config
}

// Add 添加一行数据。行可以是 map[string]interface{}、其他以字符串为键的 map 或结构体。
// 区间端点为 nil 的行被跳过，left > right 的区间被丢弃，二者都不返回错误。
func (e *Engine) Add(row interface{}) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	return e.agg.Add(row)
}

// AddConstant 将同一行数据添加 count 次，count <= 0 时不做任何事
func (e *Engine) AddConstant(row interface{}, count int) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	return e.agg.AddConstant(row, count)
}

// AddBatch 批量添加数据。
// 行数达到 BatchThreshold 且并发度大于 1 时并行聚合，否则顺序处理。
// 出错时整个批次都不会生效。
func (e *Engine) AddBatch(ctx context.Context, rows []interface{}) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}

	wc := e.config.PerformanceConfig.WorkerConfig
	workers := wc.Parallelism
	if len(rows) < wc.BatchThreshold {
		workers = 1
	}

	partial, err := aggregator.ParallelAggregate(ctx, e.agg, rows, workers)
	if err != nil {
		return err
	}
	if err := e.agg.Merge(partial); err != nil {
		return err
	}
	e.checkDropRate()
	return nil
}

// Merge 合并另一个相同配置引擎的状态，other 被清空。
// a.Merge(b) 与 b.Merge(a) 可以并发调用，两把锁总是按固定顺序获取。
func (e *Engine) Merge(other *Engine) error {
	if other == nil || other == e {
		return nil
	}
	first, second := e, other
	if other.id < e.id {
		first, second = other, e
	}
	first.mu.RLock()
	defer first.mu.RUnlock()
	second.mu.RLock()
	defer second.mu.RUnlock()
	if e.closed || other.closed {
		return ErrClosed
	}
	return e.agg.Merge(other.agg)
}

// Results 返回每个分组的聚合结果，按分组键排序，并应用 Having 与 Limit
func (e *Engine) Results() ([]map[string]interface{}, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}

	results, err := e.agg.GetResults()
	if err != nil {
		return nil, err
	}
	if e.having != nil {
		filtered := results[:0]
		for _, row := range results {
			if e.having.Evaluate(row) {
				filtered = append(filtered, row)
			}
		}
		results = filtered
	}
	if limit := e.config.Limit; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// PrintTable 以表格形式输出当前结果，分组字段在前
func (e *Engine) PrintTable(w io.Writer) error {
	results, err := e.Results()
	if err != nil {
		return err
	}
	order := make([]string, 0, len(e.config.GroupFields)+len(e.config.Fields))
	order = append(order, e.config.GroupFields...)
	for _, f := range e.config.Fields {
		order = append(order, f.OutputAlias)
	}
	return table.PrintTableFromSlice(w, results, order)
}

// Stats 返回统计计数；未启用监控时返回空 map
func (e *Engine) Stats() map[string]int64 {
	if e.stats == nil {
		return map[string]int64{}
	}
	return e.stats.Snapshot()
}

// GetDetailedStats 返回统计计数以及丢弃率、分组数
func (e *Engine) GetDetailedStats() map[string]interface{} {
	detailed := make(map[string]interface{})
	for k, v := range e.Stats() {
		detailed[k] = v
	}
	if e.stats != nil {
		detailed["drop_rate"] = e.stats.DropRate()
	}
	detailed["group_count"] = e.agg.GroupCount()
	return detailed
}

// Reset 清空所有分组状态与统计
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.agg.Reset()
	if e.stats != nil {
		e.stats.Reset()
	}
}

// Close 释放状态并注销指标，重复调用无副作用
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.agg.Reset()
	if e.collector != nil {
		e.registerer.Unregister(e.collector)
		e.collector = nil
	}
	return nil
}

func (e *Engine) checkDropRate() {
	mc := e.config.PerformanceConfig.MonitoringConfig
	if e.stats == nil || !mc.EnableMonitoring {
		return
	}
	rate := e.stats.DropRate()
	switch {
	case mc.WarningThresholds.DropRateCritical > 0 && rate >= mc.WarningThresholds.DropRateCritical:
		logger.Error("drop rate %.2f%% reached critical threshold %.2f%%", rate, mc.WarningThresholds.DropRateCritical)
	case mc.WarningThresholds.DropRateWarning > 0 && rate >= mc.WarningThresholds.DropRateWarning:
		logger.Warn("drop rate %.2f%% reached warning threshold %.2f%%", rate, mc.WarningThresholds.DropRateWarning)
	}
}

// MaxIntersections returns the maximum number of closed intervals
// [p[0], p[1]] that overlap at a single point. Pairs with p[0] > p[1] are
// ignored.
func MaxIntersections(pairs ...[2]int64) int64 {
	s := intervals.NewStateWithCapacity(len(pairs))
	for _, p := range pairs {
		s.Accumulate(p[0], p[1])
	}
	return s.Finalize()
}
