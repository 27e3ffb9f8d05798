// Package model 定义排班求解核心的数据模型
package model

// DefaultShiftDurationHours 班次时长缺省值（小时）
const DefaultShiftDurationHours = 8

// ShiftWindow 班次类型对应的起止时间
type ShiftWindow struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

// HardRules 硬约束配置（全部要求非负）
type HardRules struct {
	MaxHoursPerWeek        int `json:"max_hours_per_week"`
	MaxShiftsPerWeek       int `json:"max_shifts_per_week"`
	MinDaysOffPerWeek      int `json:"min_days_off_per_week"`
	MaxConsecutiveWorkDays int `json:"max_consecutive_work_days"`
	MinRestHours           int `json:"min_rest_hours_between_shifts"`
	NightShiftLimitPerWeek int `json:"night_shift_limit_per_week"`
}

// SoftWeights 软约束权重
// 每个权重都是可选字段，缺失即为 0（无惩罚），不做动态名字查找
type SoftWeights struct {
	UnderstaffedShift int `json:"understaffed_shift_penalty,omitempty"`
	SkillMismatch     int `json:"skill_mismatch_penalty,omitempty"`
	PreferredShift    int `json:"preferred_shift_match,omitempty"`
	Overtime          int `json:"overtime_penalty,omitempty"`
	Underscheduling   int `json:"underscheduling_penalty,omitempty"`
	MaxNightShifts    int `json:"max_night_shifts_penalty,omitempty"`
}

// SoftRules 软约束配置
type SoftRules struct {
	Enable  bool        `json:"enable"`
	Weights SoftWeights `json:"weights"`
}

// ShiftConfig 班次基础配置
type ShiftConfig struct {
	ShiftTypes                []string               `json:"shift_types"`
	ShiftTimes                map[string]ShiftWindow `json:"shift_times"`
	DefaultShiftDurationHours int                    `json:"default_shift_duration_hours,omitempty"`
}

// ConstraintConfig 约束配置
type ConstraintConfig struct {
	Hard  HardRules   `json:"hard_constraints"`
	Shift ShiftConfig `json:"shift_config"`
	Soft  SoftRules   `json:"soft_constraints"`
}

// Normalize 应用文档化的缺省值
// 构造永不失败：缺失的可选字段在此处补齐
func (c *ConstraintConfig) Normalize() {
	if c.Shift.DefaultShiftDurationHours <= 0 {
		c.Shift.DefaultShiftDurationHours = DefaultShiftDurationHours
	}
	if c.Shift.ShiftTimes == nil {
		c.Shift.ShiftTimes = make(map[string]ShiftWindow)
	}
}

// HasShiftType 检查班次类型是否已配置
// 类型列表为空时视为不限制
func (c *ConstraintConfig) HasShiftType(shiftType string) bool {
	if len(c.Shift.ShiftTypes) == 0 {
		return true
	}
	for _, t := range c.Shift.ShiftTypes {
		if t == shiftType {
			return true
		}
	}
	return false
}

// ShiftDuration 返回班次时长（小时）
// 班次未声明时长时退回配置缺省值
func (c *ConstraintConfig) ShiftDuration(shift *ShiftRequirement) int {
	if shift.DurationHours > 0 {
		return shift.DurationHours
	}
	return c.Shift.DefaultShiftDurationHours
}
