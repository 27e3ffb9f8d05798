// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/rostercp/rostercp/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 工时公平性
	WorkloadGini     float64 `json:"workload_gini"` // 工时基尼系数 (0=完全公平)
	WorkloadVariance float64 `json:"workload_variance"`
	WorkloadStdDev   float64 `json:"workload_std_dev"`
	AvgHoursPerStaff float64 `json:"avg_hours_per_staff"`
	MaxHours         float64 `json:"max_hours"`
	MinHours         float64 `json:"min_hours"`
	HoursRange       float64 `json:"hours_range"`

	// 夜班与周末分布
	NightShiftGini   float64 `json:"night_shift_gini"`
	WeekendShiftGini float64 `json:"weekend_shift_gini"`

	// 员工级别统计
	StaffStats []StaffStat `json:"staff_stats"`
}

// StaffStat 员工统计
type StaffStat struct {
	StaffID       string  `json:"staff_id"`
	Name          string  `json:"name"`
	TotalHours    float64 `json:"total_hours"`
	ShiftCount    int     `json:"shift_count"`
	NightShifts   int     `json:"night_shifts"`
	WeekendShifts int     `json:"weekend_shifts"`
	Deviation     float64 `json:"deviation"` // 与人均工时的偏差百分比
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct {
	cfg *model.ConstraintConfig
}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer(cfg *model.ConstraintConfig) *FairnessAnalyzer {
	if cfg == nil {
		cfg = &model.ConstraintConfig{}
	}
	cfg.Normalize()
	return &FairnessAnalyzer{cfg: cfg}
}

// Analyze 分析排班公平性
func (f *FairnessAnalyzer) Analyze(sol *model.Solution, staff []model.StaffMember, shifts []model.ShiftRequirement) *FairnessMetrics {
	if len(staff) == 0 {
		return &FairnessMetrics{}
	}

	shiftByID := make(map[string]*model.ShiftRequirement, len(shifts))
	for i := range shifts {
		shiftByID[shifts[i].ID] = &shifts[i]
	}

	statByID := make(map[string]*StaffStat, len(staff))
	for i := range staff {
		statByID[staff[i].ID] = &StaffStat{StaffID: staff[i].ID, Name: staff[i].Name}
	}

	for _, a := range sol.Assignments {
		shift := shiftByID[a.ShiftID]
		if shift == nil {
			continue
		}
		hours := float64(f.cfg.ShiftDuration(shift))
		for _, id := range a.StaffIDs {
			stat := statByID[id]
			if stat == nil {
				continue
			}
			stat.TotalHours += hours
			stat.ShiftCount++
			if shift.IsNightShift() {
				stat.NightShifts++
			}
			if isWeekend(shift.Date) {
				stat.WeekendShifts++
			}
		}
	}

	// 员工统计按输入顺序排列
	stats := make([]StaffStat, 0, len(staff))
	hours := make([]float64, 0, len(staff))
	nights := make([]float64, 0, len(staff))
	weekends := make([]float64, 0, len(staff))
	for i := range staff {
		s := statByID[staff[i].ID]
		stats = append(stats, *s)
		hours = append(hours, s.TotalHours)
		nights = append(nights, float64(s.NightShifts))
		weekends = append(weekends, float64(s.WeekendShifts))
	}

	avg := mean(hours)
	variance := varianceOf(hours, avg)
	maxH, minH := rangeOf(hours)
	for i := range stats {
		if avg > 0 {
			stats[i].Deviation = (stats[i].TotalHours - avg) / avg * 100
		}
	}

	return &FairnessMetrics{
		WorkloadGini:     gini(hours),
		WorkloadVariance: variance,
		WorkloadStdDev:   math.Sqrt(variance),
		AvgHoursPerStaff: avg,
		MaxHours:         maxH,
		MinHours:         minH,
		HoursRange:       maxH - minH,
		NightShiftGini:   gini(nights),
		WeekendShiftGini: gini(weekends),
		StaffStats:       stats,
	}
}

// isWeekend 检查日期是否为周末
func isWeekend(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// mean 算术平均
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// varianceOf 方差
func varianceOf(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

// rangeOf 最大值与最小值
func rangeOf(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}

// gini 基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var total, weighted float64
	for i, v := range sorted {
		total += v
		weighted += float64(i+1) * v
	}
	if total == 0 {
		return 0
	}
	return (2*weighted)/(float64(n)*total) - float64(n+1)/float64(n)
}
