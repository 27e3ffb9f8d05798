// Package metrics 提供Prometheus文本格式的监控指标
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry 指标注册表
type Registry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter 计数器
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge 仪表盘
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram 直方图
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

var (
	registry *Registry
	once     sync.Once
)

// GetRegistry 获取全局注册表
func GetRegistry() *Registry {
	once.Do(func() {
		registry = &Registry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		initDefaultMetrics()
	})
	return registry
}

// initDefaultMetrics 初始化默认指标
func initDefaultMetrics() {
	registry.NewCounter("rostercp_http_requests_total", "HTTP请求总数", []string{"method", "path", "status"})
	registry.NewHistogram("rostercp_http_request_duration_seconds", "HTTP请求延迟",
		[]string{"method", "path"},
		[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0})

	registry.NewCounter("rostercp_roster_generation_total", "排班求解次数", []string{"engine", "status"})
	registry.NewHistogram("rostercp_roster_generation_duration_seconds", "排班求解延迟",
		[]string{"engine"},
		[]float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0})

	registry.NewGauge("rostercp_roster_objective", "最近一次求解目标值", []string{"engine"})
	registry.NewGauge("rostercp_roster_coverage_rate", "最近一次排班覆盖率", []string{})
	registry.NewGauge("rostercp_roster_shortage_total", "最近一次排班缺口人次", []string{})
	registry.NewGauge("rostercp_db_connections", "数据库连接数", []string{"state"})
}

// NewCounter 创建计数器
func (r *Registry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := &Counter{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.counters[name] = counter
	return counter
}

// NewGauge 创建仪表盘
func (r *Registry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	gauge := &Gauge{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.gauges[name] = gauge
	return gauge
}

// NewHistogram 创建直方图
func (r *Registry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	histogram := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = histogram
	return histogram
}

// GetCounter 获取计数器
func (r *Registry) GetCounter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// GetGauge 获取仪表盘
func (r *Registry) GetGauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// GetHistogram 获取直方图
func (r *Registry) GetHistogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc 增加计数
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add 增加指定值
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Set 设置值
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Inc 增加
func (g *Gauge) Inc(labelValues ...string) {
	g.Add(1, labelValues...)
}

// Dec 减少
func (g *Gauge) Dec(labelValues ...string) {
	g.Add(-1, labelValues...)
}

// Add 增加指定值
func (g *Gauge) Add(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] += value
}

// Observe 记录观测值
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)
	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}
	for i, bucket := range h.Buckets {
		if value <= bucket {
			h.counts[key][i]++
		}
	}
	h.counts[key][len(h.Buckets)]++ // +Inf bucket
	h.sums[key] += value
}

// labelKey 生成标签键
func labelKey(labels []string) string {
	return strings.Join(labels, ",")
}

// Handler 返回Prometheus文本格式的指标HTTP处理器
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		reg := GetRegistry()
		reg.mu.RLock()
		defer reg.mu.RUnlock()

		for _, name := range sortedNames(reg.counters) {
			counter := reg.counters[name]
			fmt.Fprintf(w, "# HELP %s %s\n", counter.Name, counter.Help)
			fmt.Fprintf(w, "# TYPE %s counter\n", counter.Name)
			counter.mu.RLock()
			for key, value := range counter.values {
				writeSample(w, counter.Name, counter.Labels, key, value)
			}
			counter.mu.RUnlock()
		}

		for _, name := range sortedNames(reg.gauges) {
			gauge := reg.gauges[name]
			fmt.Fprintf(w, "# HELP %s %s\n", gauge.Name, gauge.Help)
			fmt.Fprintf(w, "# TYPE %s gauge\n", gauge.Name)
			gauge.mu.RLock()
			for key, value := range gauge.values {
				writeSample(w, gauge.Name, gauge.Labels, key, value)
			}
			gauge.mu.RUnlock()
		}

		for _, name := range sortedNames(reg.histograms) {
			histogram := reg.histograms[name]
			fmt.Fprintf(w, "# HELP %s %s\n", histogram.Name, histogram.Help)
			fmt.Fprintf(w, "# TYPE %s histogram\n", histogram.Name)
			histogram.mu.RLock()
			for key, counts := range histogram.counts {
				cumulative := 0
				for i, bucket := range histogram.Buckets {
					cumulative += counts[i]
					writeBucket(w, histogram.Name, histogram.Labels, key, fmt.Sprintf("%g", bucket), cumulative)
				}
				cumulative += counts[len(histogram.Buckets)]
				writeBucket(w, histogram.Name, histogram.Labels, key, "+Inf", cumulative)
				writeSample(w, histogram.Name+"_sum", histogram.Labels, key, histogram.sums[key])
				writeSample(w, histogram.Name+"_count", histogram.Labels, key, float64(cumulative))
			}
			histogram.mu.RUnlock()
		}
	})
}

// writeSample 输出单个样本
func writeSample(w http.ResponseWriter, name string, labels []string, key string, value float64) {
	if key == "" && len(labels) == 0 {
		fmt.Fprintf(w, "%s %f\n", name, value)
		return
	}
	fmt.Fprintf(w, "%s{%s} %f\n", name, formatLabels(labels, key), value)
}

// writeBucket 输出直方图桶
func writeBucket(w http.ResponseWriter, name string, labels []string, key, le string, cumulative int) {
	if key == "" && len(labels) == 0 {
		fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", name, le, cumulative)
		return
	}
	fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", name, formatLabels(labels, key), le, cumulative)
}

// formatLabels 格式化标签
func formatLabels(names []string, values string) string {
	vals := strings.Split(values, ",")
	parts := make([]string, 0, len(names))
	for i, name := range names {
		val := ""
		if i < len(vals) {
			val = vals[i]
		}
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", name, val))
	}
	return strings.Join(parts, ",")
}

// sortedNames 返回排序后的指标名，保证输出顺序稳定
func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecordRequest 记录HTTP请求指标
func RecordRequest(method, path string, status int, duration time.Duration) {
	reg := GetRegistry()
	if counter := reg.GetCounter("rostercp_http_requests_total"); counter != nil {
		counter.Inc(method, path, fmt.Sprintf("%d", status))
	}
	if histogram := reg.GetHistogram("rostercp_http_request_duration_seconds"); histogram != nil {
		histogram.Observe(duration.Seconds(), method, path)
	}
}

// RecordGeneration 记录排班求解指标
func RecordGeneration(engine, status string, duration time.Duration) {
	reg := GetRegistry()
	if counter := reg.GetCounter("rostercp_roster_generation_total"); counter != nil {
		counter.Inc(engine, status)
	}
	if histogram := reg.GetHistogram("rostercp_roster_generation_duration_seconds"); histogram != nil {
		histogram.Observe(duration.Seconds(), engine)
	}
}

// SetObjective 设置最近一次求解目标值
func SetObjective(engine string, objective int64) {
	if gauge := GetRegistry().GetGauge("rostercp_roster_objective"); gauge != nil {
		gauge.Set(float64(objective), engine)
	}
}

// SetCoverage 设置最近一次排班覆盖情况
func SetCoverage(rate float64, shortage int) {
	reg := GetRegistry()
	if gauge := reg.GetGauge("rostercp_roster_coverage_rate"); gauge != nil {
		gauge.Set(rate)
	}
	if gauge := reg.GetGauge("rostercp_roster_shortage_total"); gauge != nil {
		gauge.Set(float64(shortage))
	}
}

// SetDBConnections 设置数据库连接数
func SetDBConnections(state string, count int) {
	if gauge := GetRegistry().GetGauge("rostercp_db_connections"); gauge != nil {
		gauge.Set(float64(count), state)
	}
}
