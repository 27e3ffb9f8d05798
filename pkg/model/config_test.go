package model

import (
	"testing"
)

func TestConstraintConfig_Normalize(t *testing.T) {
	c := &ConstraintConfig{}
	c.Normalize()

	if c.Shift.DefaultShiftDurationHours != DefaultShiftDurationHours {
		t.Errorf("DefaultShiftDurationHours = %d, expected %d",
			c.Shift.DefaultShiftDurationHours, DefaultShiftDurationHours)
	}
	if c.Shift.ShiftTimes == nil {
		t.Error("ShiftTimes = nil, expected 空映射")
	}

	// 显式值不被覆盖
	c2 := &ConstraintConfig{Shift: ShiftConfig{DefaultShiftDurationHours: 12}}
	c2.Normalize()
	if c2.Shift.DefaultShiftDurationHours != 12 {
		t.Errorf("DefaultShiftDurationHours = %d, expected 12", c2.Shift.DefaultShiftDurationHours)
	}
}

func TestConstraintConfig_HasShiftType(t *testing.T) {
	tests := []struct {
		name      string
		types     []string
		shiftType string
		expected  bool
	}{
		{"空列表不限制", nil, "day", true},
		{"已声明类型", []string{"day", "night"}, "night", true},
		{"未声明类型", []string{"day", "night"}, "evening", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &ConstraintConfig{Shift: ShiftConfig{ShiftTypes: tt.types}}
			if got := c.HasShiftType(tt.shiftType); got != tt.expected {
				t.Errorf("HasShiftType(%s) = %v, expected %v", tt.shiftType, got, tt.expected)
			}
		})
	}
}

func TestConstraintConfig_ShiftDuration(t *testing.T) {
	c := &ConstraintConfig{}
	c.Normalize()

	declared := &ShiftRequirement{ID: "s1", DurationHours: 12}
	if got := c.ShiftDuration(declared); got != 12 {
		t.Errorf("ShiftDuration() = %d, expected 12", got)
	}
	fallback := &ShiftRequirement{ID: "s2"}
	if got := c.ShiftDuration(fallback); got != DefaultShiftDurationHours {
		t.Errorf("ShiftDuration() = %d, expected %d", got, DefaultShiftDurationHours)
	}
}
