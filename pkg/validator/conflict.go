// Package validator 提供排班结果验证功能
//
// 求解器产出的结果在设计上满足全部硬约束；验证器作为独立的
// 复核层，对任意来源的排班（求解产出、人工修改、历史导入）
// 按同一套规则做事后审计。
package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/rostercp/rostercp/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictAvailability ConflictType = "availability"  // 分配到不可用日
	ConflictRole         ConflictType = "role"          // 角色与任何岗位需求不匹配
	ConflictDuplicateDay ConflictType = "duplicate_day" // 同日多个班次
	ConflictMaxShifts    ConflictType = "max_shifts"    // 超过每周班次上限
	ConflictConsecutive  ConflictType = "consecutive"   // 连续工作天数过多
	ConflictRestTime     ConflictType = "rest_time"     // 班次间休息不足
	ConflictUnknownStaff ConflictType = "unknown_staff" // 引用了不存在的员工
)

// Conflict 冲突信息
type Conflict struct {
	Type     ConflictType `json:"type"`
	Severity string       `json:"severity"` // error/warning
	StaffID  string       `json:"staff_id"`
	ShiftIDs []string     `json:"shift_ids,omitempty"`
	Date     string       `json:"date,omitempty"`
	Message  string       `json:"message"`
}

// ConflictDetector 冲突检测器
type ConflictDetector struct {
	cfg *model.ConstraintConfig
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(cfg *model.ConstraintConfig) *ConflictDetector {
	if cfg == nil {
		cfg = &model.ConstraintConfig{}
	}
	cfg.Normalize()
	return &ConflictDetector{cfg: cfg}
}

// DetectAll 检测排班结果中的所有冲突
func (d *ConflictDetector) DetectAll(sol *model.Solution, staff []model.StaffMember, shifts []model.ShiftRequirement) []Conflict {
	byID := make(map[string]*model.StaffMember, len(staff))
	for i := range staff {
		byID[staff[i].ID] = &staff[i]
	}
	shiftByID := make(map[string]*model.ShiftRequirement, len(shifts))
	for i := range shifts {
		shiftByID[shifts[i].ID] = &shifts[i]
	}

	var conflicts []Conflict
	assigned := d.groupByStaff(sol, shiftByID, &conflicts)

	for _, staffID := range sortedStaffIDs(assigned) {
		member := byID[staffID]
		if member == nil {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictUnknownStaff,
				Severity: "error",
				StaffID:  staffID,
				Message:  fmt.Sprintf("排班引用了不存在的员工 '%s'", staffID),
			})
			continue
		}
		own := assigned[staffID]
		conflicts = append(conflicts, d.detectAvailability(member, own)...)
		conflicts = append(conflicts, d.detectRoleMismatch(member, own)...)
		conflicts = append(conflicts, d.detectDuplicateDays(member, own)...)
		conflicts = append(conflicts, d.detectWeeklyLimits(member, own)...)
		conflicts = append(conflicts, d.detectConsecutiveDays(member, own)...)
		conflicts = append(conflicts, d.detectRestTime(member, own)...)
	}
	return conflicts
}

// groupByStaff 按员工分组已分配班次；未知班次 ID 直接记为冲突
func (d *ConflictDetector) groupByStaff(sol *model.Solution, shiftByID map[string]*model.ShiftRequirement, conflicts *[]Conflict) map[string][]*model.ShiftRequirement {
	result := make(map[string][]*model.ShiftRequirement)
	for _, a := range sol.Assignments {
		shift := shiftByID[a.ShiftID]
		for _, staffID := range a.StaffIDs {
			if shift == nil {
				*conflicts = append(*conflicts, Conflict{
					Type:     ConflictRole,
					Severity: "error",
					StaffID:  staffID,
					ShiftIDs: []string{a.ShiftID},
					Message:  fmt.Sprintf("排班引用了不存在的班次 '%s'", a.ShiftID),
				})
				continue
			}
			result[staffID] = append(result[staffID], shift)
		}
	}
	return result
}

// detectAvailability 检测不可用日分配
func (d *ConflictDetector) detectAvailability(member *model.StaffMember, shifts []*model.ShiftRequirement) []Conflict {
	var conflicts []Conflict
	for _, s := range shifts {
		if member.IsUnavailableOn(s.Date) || member.ExcludesShift(s.ID) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictAvailability,
				Severity: "error",
				StaffID:  member.ID,
				ShiftIDs: []string{s.ID},
				Date:     s.Date,
				Message:  fmt.Sprintf("员工 %s 在 %s 不可用但被分配到班次 %s", member.Name, s.Date, s.ID),
			})
		}
	}
	return conflicts
}

// detectRoleMismatch 检测角色错配
func (d *ConflictDetector) detectRoleMismatch(member *model.StaffMember, shifts []*model.ShiftRequirement) []Conflict {
	var conflicts []Conflict
	for _, s := range shifts {
		matched := false
		for _, r := range s.RequiredRoles {
			if r.Role == member.Role {
				matched = true
				break
			}
		}
		if !matched {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictRole,
				Severity: "error",
				StaffID:  member.ID,
				ShiftIDs: []string{s.ID},
				Date:     s.Date,
				Message:  fmt.Sprintf("员工 %s 角色 '%s' 不匹配班次 %s 的任何岗位需求", member.Name, member.Role, s.ID),
			})
		}
	}
	return conflicts
}

// detectDuplicateDays 检测同日多班
func (d *ConflictDetector) detectDuplicateDays(member *model.StaffMember, shifts []*model.ShiftRequirement) []Conflict {
	byDate := make(map[string][]string)
	for _, s := range shifts {
		byDate[s.Date] = append(byDate[s.Date], s.ID)
	}

	var conflicts []Conflict
	for _, date := range sortedKeys(byDate) {
		ids := byDate[date]
		if len(ids) > 1 {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictDuplicateDay,
				Severity: "error",
				StaffID:  member.ID,
				ShiftIDs: ids,
				Date:     date,
				Message:  fmt.Sprintf("员工 %s 在 %s 被分配了 %d 个班次", member.Name, date, len(ids)),
			})
		}
	}
	return conflicts
}

// detectWeeklyLimits 检测每周班次数与休息天数
func (d *ConflictDetector) detectWeeklyLimits(member *model.StaffMember, shifts []*model.ShiftRequirement) []Conflict {
	maxShifts := d.cfg.Hard.MaxShiftsPerWeek
	if d.cfg.Hard.MinDaysOffPerWeek > 0 {
		cap := 7 - d.cfg.Hard.MinDaysOffPerWeek
		if maxShifts <= 0 || cap < maxShifts {
			maxShifts = cap
		}
	}
	if maxShifts <= 0 {
		return nil
	}

	byWeek := make(map[string][]string)
	for _, s := range shifts {
		t, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			continue
		}
		year, week := t.ISOWeek()
		key := fmt.Sprintf("%04d-W%02d", year, week)
		byWeek[key] = append(byWeek[key], s.ID)
	}

	var conflicts []Conflict
	for _, week := range sortedKeys(byWeek) {
		ids := byWeek[week]
		if len(ids) > maxShifts {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictMaxShifts,
				Severity: "error",
				StaffID:  member.ID,
				ShiftIDs: ids,
				Message:  fmt.Sprintf("员工 %s 在 %s 有 %d 个班次，超过每周上限 %d", member.Name, week, len(ids), maxShifts),
			})
		}
	}
	return conflicts
}

// detectConsecutiveDays 检测连续工作天数
func (d *ConflictDetector) detectConsecutiveDays(member *model.StaffMember, shifts []*model.ShiftRequirement) []Conflict {
	limit := member.MaxConsecutiveDays
	if limit <= 0 {
		limit = d.cfg.Hard.MaxConsecutiveWorkDays
	}
	if limit <= 0 || len(shifts) == 0 {
		return nil
	}

	workDates := make(map[string]bool)
	for _, s := range shifts {
		workDates[s.Date] = true
	}
	dates := make([]string, 0, len(workDates))
	for date := range workDates {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	consecutive := 1
	maxConsecutive := 1
	startDate := dates[0]
	runStart := dates[0]
	for i := 1; i < len(dates); i++ {
		if isNextDay(dates[i-1], dates[i]) {
			consecutive++
			if consecutive > maxConsecutive {
				maxConsecutive = consecutive
				startDate = runStart
			}
		} else {
			consecutive = 1
			runStart = dates[i]
		}
	}

	if maxConsecutive > limit {
		return []Conflict{{
			Type:     ConflictConsecutive,
			Severity: "error",
			StaffID:  member.ID,
			Date:     startDate,
			Message:  fmt.Sprintf("员工 %s 连续工作 %d 天，超过限制 %d 天", member.Name, maxConsecutive, limit),
		}}
	}
	return nil
}

// detectRestTime 检测相邻日班次的休息间隔
func (d *ConflictDetector) detectRestTime(member *model.StaffMember, shifts []*model.ShiftRequirement) []Conflict {
	minRest := member.MinRestHours
	if minRest <= 0 {
		minRest = d.cfg.Hard.MinRestHours
	}
	if minRest <= 0 || len(shifts) < 2 {
		return nil
	}

	sorted := make([]*model.ShiftRequirement, len(shifts))
	copy(sorted, shifts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	var conflicts []Conflict
	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		if !isNextDay(current.Date, next.Date) {
			continue
		}
		gap, ok := restGap(d.cfg, current, next)
		if !ok || gap >= float64(minRest) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:     ConflictRestTime,
			Severity: "error",
			StaffID:  member.ID,
			ShiftIDs: []string{current.ID, next.ID},
			Date:     next.Date,
			Message:  fmt.Sprintf("员工 %s 班次间休息仅 %.1f 小时，少于要求的 %d 小时", member.Name, gap, minRest),
		})
	}
	return conflicts
}

// restGap 计算前一班次收班到后一班次开班的间隔（小时）
func restGap(cfg *model.ConstraintConfig, a, b *model.ShiftRequirement) (float64, bool) {
	endA, okA := clockOf(cfg, a, false)
	startB, okB := clockOf(cfg, b, true)
	if !okA || !okB {
		return 0, false
	}
	// 跨日收班折算到次日
	startA, _ := clockOf(cfg, a, true)
	if endA <= startA {
		endA += 24 * time.Hour
	}
	return (24*time.Hour - endA + startB).Hours(), true
}

// clockOf 取班次的开始/结束时刻，缺失时退回班次类型配置
func clockOf(cfg *model.ConstraintConfig, s *model.ShiftRequirement, start bool) (time.Duration, bool) {
	clock := s.EndTime
	if start {
		clock = s.StartTime
	}
	if clock == "" {
		if w, ok := cfg.Shift.ShiftTimes[s.ShiftType]; ok {
			if start {
				clock = w.Start
			} else {
				clock = w.End
			}
		}
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// isNextDay 检查两个日期是否相邻
func isNextDay(date1, date2 string) bool {
	t1, err1 := time.Parse("2006-01-02", date1)
	t2, err2 := time.Parse("2006-01-02", date2)
	if err1 != nil || err2 != nil {
		return false
	}
	return t2.Sub(t1) == 24*time.Hour
}

// sortedKeys 返回排序后的键
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedStaffIDs 返回排序后的员工 ID
func sortedStaffIDs(m map[string][]*model.ShiftRequirement) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
