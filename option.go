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
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rulego/maxintersect/logger"
	"github.com/rulego/maxintersect/types"
)

// Option 表示对引擎默认行为的修改配置。
// 选项在配置校验之前应用。
type Option func(*Engine)

// WithLogger 设置自定义日志记录器。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	engine, err := maxintersect.New(config, WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		logger.SetDefault(log)
	}
}

// WithLogLevel 设置日志级别，可选值：DEBUG, INFO, WARN, ERROR, OFF
func WithLogLevel(level logger.Level) Option {
	return func(e *Engine) {
		logger.GetDefault().SetLevel(level)
	}
}

// WithLogOutput 设置日志输出目标。
//
// 示例:
//
//	logFile, _ := os.OpenFile("maxintersect.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	engine, err := maxintersect.New(config, WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(e *Engine) {
		logger.SetDefault(logger.NewLogger(level, output))
	}
}

// WithZerolog 使用 zerolog 作为日志后端，输出结构化 JSON 日志
func WithZerolog(zl zerolog.Logger, level logger.Level) Option {
	return func(e *Engine) {
		logger.SetDefault(logger.NewZerologLogger(zl, level))
	}
}

// WithDiscardLog 禁用所有日志输出
func WithDiscardLog() Option {
	return func(e *Engine) {
		logger.SetDefault(logger.NewDiscardLogger())
	}
}

// WithParallelism 设置批量聚合的工作协程数，n <= 0 表示使用 CPU 核数
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n < 0 {
			n = 0
		}
		e.config.PerformanceConfig.WorkerConfig.Parallelism = n
	}
}

// WithBatchThreshold 设置触发并行聚合的最小批次行数
func WithBatchThreshold(rows int) Option {
	return func(e *Engine) {
		e.config.PerformanceConfig.WorkerConfig.BatchThreshold = rows
	}
}

// WithHighPerformance 启用高吞吐配置预设
func WithHighPerformance() Option {
	return func(e *Engine) {
		e.config.PerformanceConfig = types.HighPerformanceConfig()
	}
}

// WithCustomPerformance 使用自定义性能配置
func WithCustomPerformance(config types.PerformanceConfig) Option {
	return func(e *Engine) {
		e.config.PerformanceConfig = config
	}
}

// WithMetricsRegisterer 将统计计数注册为 Prometheus 指标，Close 时注销。
//
// 示例:
//
//	reg := prometheus.NewRegistry()
//	engine, err := maxintersect.New(config, WithMetricsRegisterer(reg))
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.registerer = reg
	}
}
