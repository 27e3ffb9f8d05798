// Package stats 提供排班统计分析功能
package stats

import (
	"github.com/rostercp/rostercp/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	// 整体覆盖率
	TotalRequired   int     `json:"total_required"`   // 总需求人次
	TotalAssigned   int     `json:"total_assigned"`   // 已分配人次
	TotalShortage   int     `json:"total_shortage"`   // 缺口人次
	OverallCoverage float64 `json:"overall_coverage"` // 整体覆盖率 (%)

	// 按日期统计
	DailyCoverage map[string]DayCoverage `json:"daily_coverage"`

	// 按班次类型统计
	ShiftTypeCoverage map[string]float64 `json:"shift_type_coverage"`

	// 按角色统计
	RoleCoverage map[string]float64 `json:"role_coverage"`

	// 问题识别
	UnderstaffedShifts []UnderstaffedShift `json:"understaffed_shifts"`
}

// DayCoverage 每日覆盖情况
type DayCoverage struct {
	Date         string  `json:"date"`
	Required     int     `json:"required"`
	Assigned     int     `json:"assigned"`
	CoverageRate float64 `json:"coverage_rate"`
}

// UnderstaffedShift 人手不足的班次
type UnderstaffedShift struct {
	ShiftID  string `json:"shift_id"`
	Date     string `json:"date"`
	Role     string `json:"role"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
	Shortage int    `json:"shortage"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 分析排班结果的覆盖情况
func (c *CoverageAnalyzer) Analyze(sol *model.Solution, staff []model.StaffMember, shifts []model.ShiftRequirement) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage:     make(map[string]DayCoverage),
		ShiftTypeCoverage: make(map[string]float64),
		RoleCoverage:      make(map[string]float64),
	}
	if len(shifts) == 0 {
		metrics.OverallCoverage = 100
		return metrics
	}

	roleOf := make(map[string]string, len(staff))
	for i := range staff {
		roleOf[staff[i].ID] = staff[i].Role
	}

	typeRequired := make(map[string]int)
	typeAssigned := make(map[string]int)
	roleRequired := make(map[string]int)
	roleAssigned := make(map[string]int)

	for si := range shifts {
		shift := &shifts[si]
		assignedIDs := sol.StaffFor(shift.ID)

		for ri := range shift.RequiredRoles {
			req := &shift.RequiredRoles[ri]
			assigned := 0
			for _, id := range assignedIDs {
				if roleOf[id] == req.Role {
					assigned++
				}
			}

			metrics.TotalRequired += req.Count
			metrics.TotalAssigned += assigned
			typeRequired[shift.ShiftType] += req.Count
			typeAssigned[shift.ShiftType] += assigned
			roleRequired[req.Role] += req.Count
			roleAssigned[req.Role] += assigned

			day := metrics.DailyCoverage[shift.Date]
			day.Date = shift.Date
			day.Required += req.Count
			day.Assigned += assigned
			metrics.DailyCoverage[shift.Date] = day

			if assigned < req.Count {
				metrics.UnderstaffedShifts = append(metrics.UnderstaffedShifts, UnderstaffedShift{
					ShiftID:  shift.ID,
					Date:     shift.Date,
					Role:     req.Role,
					Required: req.Count,
					Assigned: assigned,
					Shortage: req.Count - assigned,
				})
			}
		}
	}

	metrics.TotalShortage = metrics.TotalRequired - metrics.TotalAssigned
	metrics.OverallCoverage = rate(metrics.TotalAssigned, metrics.TotalRequired)
	for t, req := range typeRequired {
		metrics.ShiftTypeCoverage[t] = rate(typeAssigned[t], req)
	}
	for r, req := range roleRequired {
		metrics.RoleCoverage[r] = rate(roleAssigned[r], req)
	}
	for date, day := range metrics.DailyCoverage {
		day.CoverageRate = rate(day.Assigned, day.Required)
		metrics.DailyCoverage[date] = day
	}
	return metrics
}

// rate 计算百分比，零需求视为全覆盖
func rate(assigned, required int) float64 {
	if required == 0 {
		return 100
	}
	return float64(assigned) / float64(required) * 100
}
