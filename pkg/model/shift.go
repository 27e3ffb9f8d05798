// Package model 定义排班求解核心的数据模型
package model

// ShiftTypeNight 夜班类型标识
const ShiftTypeNight = "night"

// RoleRequirement 班次的岗位需求
type RoleRequirement struct {
	Role           string   `json:"role"`
	Count          int      `json:"count"`
	RequiredSkills []string `json:"skills_required,omitempty"`
}

// ShiftRequirement 班次需求（一次求解期间只读）
type ShiftRequirement struct {
	ID            string            `json:"id"`
	Date          string            `json:"date"` // YYYY-MM-DD
	ShiftType     string            `json:"shift_type"`
	StartTime     string            `json:"start_time,omitempty"` // HH:MM
	EndTime       string            `json:"end_time,omitempty"`   // HH:MM
	DurationHours int               `json:"duration_hours,omitempty"`
	RequiredRoles []RoleRequirement `json:"required_roles"`
	IsHoliday     bool              `json:"is_holiday,omitempty"`
	Priority      int               `json:"priority,omitempty"`
}

// IsNightShift 检查是否为夜班
func (s *ShiftRequirement) IsNightShift() bool {
	return s.ShiftType == ShiftTypeNight
}

// TotalRequired 返回班次所有岗位需求的总人数
func (s *ShiftRequirement) TotalRequired() int {
	total := 0
	for _, r := range s.RequiredRoles {
		total += r.Count
	}
	return total
}
