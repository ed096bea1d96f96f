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

/*
Package maxintersect 计算一组闭区间 [left, right] 在任意一点上同时重叠的最大数量。

它是一个可合并的聚合原语：每个工作协程维护独立的部分状态，状态之间可以任意顺序合并，
最终结果与行的到达顺序和分区方式无关。常见用途是峰值并发会话数、最大同时预订数等。

# 快速开始

	engine, err := maxintersect.New(types.Config{
		GroupFields: []string{"host"},
		Fields: []aggregator.AggregationField{
			{LeftField: "start", RightField: "end", OutputAlias: "peak"},
		},
		Where:  "status == 'ok'",
		Having: "peak > 1",
		PerformanceConfig: types.DefaultPerformanceConfig(),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	_ = engine.Add(map[string]interface{}{"host": "web-1", "status": "ok", "start": 1, "end": 5})
	_ = engine.AddBatch(ctx, rows)

	results, _ := engine.Results()
	// [{"host": "web-1", "peak": int64(3)}]

不需要分组时可以直接调用 MaxIntersections:

	maxintersect.MaxIntersections([2]int64{1, 3}, [2]int64{2, 6}, [2]int64{4, 5}) // 2

# 语义

  - 端点为 NULL 的行被跳过
  - left > right 的区间被静默丢弃
  - 区间两端都是闭合的，[1, 2] 与 [2, 3] 在点 2 处重叠
  - 空分组结果为 0

# 并行与合并

AddBatch 在批次达到 BatchThreshold 时按 Parallelism 拆分数据并行聚合；
Engine.Merge 可以合并由其他进程或协程构建的同配置引擎。

# 监控

Stats 返回接受、丢弃、跳过、过滤等计数；WithMetricsRegisterer 会把这些计数
注册为 Prometheus 指标 maxintersect_*_total。

# 函数

max_intersections 也注册在函数注册表中，可以在 Where/Having 表达式里对数组调用:

	max_intersections(starts, ends) >= 3
*/
package maxintersect
