// Package model 定义排班求解核心的数据模型
package model

// StaffMember 员工（一次求解期间只读）
type StaffMember struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Role                string   `json:"role"`
	Skills              []string `json:"skills,omitempty"`
	MaxHoursPerWeek     int      `json:"max_hours_per_week,omitempty"`
	MinHoursPerWeek     int      `json:"min_hours_per_week,omitempty"`
	PreferredShiftTypes []string `json:"preferred_shifts,omitempty"`
	UnavailableDates    []string `json:"unavailable_days,omitempty"`   // YYYY-MM-DD
	UnavailableShiftIDs []string `json:"unavailable_shifts,omitempty"` // 班次ID
	VacationDates       []string `json:"vacation_days,omitempty"`      // YYYY-MM-DD
	MaxConsecutiveDays  int      `json:"max_consecutive_days,omitempty"`
	MinRestHours        int      `json:"min_rest_hours,omitempty"`
	NightShiftLimit     int      `json:"night_shift_limit_per_week,omitempty"`
	Seniority           int      `json:"seniority,omitempty"`
}

// HasSkill 检查员工是否具备某技能
func (s *StaffMember) HasSkill(skill string) bool {
	for _, k := range s.Skills {
		if k == skill {
			return true
		}
	}
	return false
}

// PrefersShiftType 检查员工是否偏好某班次类型
func (s *StaffMember) PrefersShiftType(shiftType string) bool {
	for _, t := range s.PreferredShiftTypes {
		if t == shiftType {
			return true
		}
	}
	return false
}

// IsUnavailableOn 检查员工在某日期是否不可用（不可用日或休假日）
func (s *StaffMember) IsUnavailableOn(date string) bool {
	for _, d := range s.UnavailableDates {
		if d == date {
			return true
		}
	}
	for _, d := range s.VacationDates {
		if d == date {
			return true
		}
	}
	return false
}

// ExcludesShift 检查员工是否排除了某班次
func (s *StaffMember) ExcludesShift(shiftID string) bool {
	for _, id := range s.UnavailableShiftIDs {
		if id == shiftID {
			return true
		}
	}
	return false
}
