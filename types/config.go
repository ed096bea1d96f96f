package types

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/rulego/maxintersect/aggregator"
)

// Config 区间聚合配置
type Config struct {
	// 聚合相关配置
	GroupFields []string                      `json:"groupFields"`
	Fields      []aggregator.AggregationField `json:"fields"`
	Where       string                        `json:"where"`
	Having      string                        `json:"having"`

	// 结果控制
	Limit int `json:"limit"`

	// 性能配置
	PerformanceConfig PerformanceConfig `json:"performanceConfig"`
}

// PerformanceConfig 性能配置
type PerformanceConfig struct {
	WorkerConfig     WorkerConfig     `json:"workerConfig"`     // 工作协程配置
	MonitoringConfig MonitoringConfig `json:"monitoringConfig"` // 监控配置
}

// WorkerConfig 工作协程配置
type WorkerConfig struct {
	Parallelism    int `json:"parallelism"`    // 批量聚合的并发度
	BatchThreshold int `json:"batchThreshold"` // 小于该行数的批次顺序处理
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	EnableMonitoring  bool              `json:"enableMonitoring"`  // 是否启用统计
	WarningThresholds WarningThresholds `json:"warningThresholds"` // 警告阈值
}

// WarningThresholds 丢弃率警告阈值，单位为百分比
type WarningThresholds struct {
	DropRateWarning  float64 `json:"dropRateWarning"`
	DropRateCritical float64 `json:"dropRateCritical"`
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		PerformanceConfig: DefaultPerformanceConfig(),
	}
}

// DefaultPerformanceConfig 默认性能配置
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		WorkerConfig: WorkerConfig{
			Parallelism:    runtime.NumCPU(),
			BatchThreshold: 4096,
		},
		MonitoringConfig: MonitoringConfig{
			EnableMonitoring: true,
			WarningThresholds: WarningThresholds{
				DropRateWarning:  10.0,
				DropRateCritical: 25.0,
			},
		},
	}
}

// HighPerformanceConfig 高吞吐配置预设：更多协程，关闭统计
func HighPerformanceConfig() PerformanceConfig {
	config := DefaultPerformanceConfig()
	config.WorkerConfig.Parallelism = runtime.NumCPU() * 2
	config.WorkerConfig.BatchThreshold = 1024
	config.MonitoringConfig.EnableMonitoring = false
	return config
}

// ParseConfig 从JSON解析配置，未设置的性能项使用默认值
func ParseConfig(data []byte) (Config, error) {
	config := NewConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("%w: %v", aggregator.ErrInvalidConfig, err)
	}
	return config, config.Validate()
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: at least one field is required", aggregator.ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.GroupFields))
	for _, f := range c.GroupFields {
		if f == "" {
			return fmt.Errorf("%w: empty group field", aggregator.ErrInvalidConfig)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: duplicate group field %s", aggregator.ErrInvalidConfig, f)
		}
		seen[f] = struct{}{}
	}
	for i, f := range c.Fields {
		if f.LeftField == "" || f.RightField == "" {
			return fmt.Errorf("%w: field %d needs both leftField and rightField", aggregator.ErrInvalidConfig, i)
		}
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", aggregator.ErrInvalidConfig, c.Limit)
	}
	if c.PerformanceConfig.WorkerConfig.Parallelism < 0 {
		return fmt.Errorf("%w: negative parallelism", aggregator.ErrInvalidConfig)
	}
	if c.PerformanceConfig.WorkerConfig.BatchThreshold < 0 {
		return fmt.Errorf("%w: negative batch threshold", aggregator.ErrInvalidConfig)
	}
	return nil
}
