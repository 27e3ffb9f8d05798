package stats

import (
	"math"
	"testing"

	"github.com/rostercp/rostercp/pkg/model"
)

func TestFairnessAnalyzer_Analyze(t *testing.T) {
	staff := []model.StaffMember{
		{ID: "n1", Name: "甲"},
		{ID: "n2", Name: "乙"},
	}
	shifts := []model.ShiftRequirement{
		{ID: "s1", Date: "2026-01-05", ShiftType: "day", DurationHours: 8},
		{ID: "s2", Date: "2026-01-06", ShiftType: "night", DurationHours: 8},
		{ID: "s3", Date: "2026-01-10", ShiftType: "day", DurationHours: 8}, // 周六
	}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1"}},
		{ShiftID: "s2", StaffIDs: []string{"n1"}},
		{ShiftID: "s3", StaffIDs: []string{"n2"}},
	}}

	m := NewFairnessAnalyzer(nil).Analyze(sol, staff, shifts)

	if m.AvgHoursPerStaff != 12 {
		t.Errorf("AvgHoursPerStaff = %v, expected 12", m.AvgHoursPerStaff)
	}
	if m.MaxHours != 16 || m.MinHours != 8 {
		t.Errorf("工时范围 = [%v, %v], expected [8, 16]", m.MinHours, m.MaxHours)
	}
	if len(m.StaffStats) != 2 {
		t.Fatalf("StaffStats 长度 = %d, expected 2", len(m.StaffStats))
	}
	if m.StaffStats[0].NightShifts != 1 {
		t.Errorf("n1 夜班数 = %d, expected 1", m.StaffStats[0].NightShifts)
	}
	if m.StaffStats[1].WeekendShifts != 1 {
		t.Errorf("n2 周末班数 = %d, expected 1", m.StaffStats[1].WeekendShifts)
	}
	if m.WorkloadGini <= 0 {
		t.Errorf("WorkloadGini = %v, expected > 0", m.WorkloadGini)
	}
}

func TestFairnessAnalyzer_PerfectBalance(t *testing.T) {
	staff := []model.StaffMember{{ID: "n1"}, {ID: "n2"}}
	shifts := []model.ShiftRequirement{
		{ID: "s1", Date: "2026-01-05", ShiftType: "day", DurationHours: 8},
		{ID: "s2", Date: "2026-01-06", ShiftType: "day", DurationHours: 8},
	}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1"}},
		{ShiftID: "s2", StaffIDs: []string{"n2"}},
	}}

	m := NewFairnessAnalyzer(nil).Analyze(sol, staff, shifts)
	if math.Abs(m.WorkloadGini) > 1e-9 {
		t.Errorf("完全均衡的 Gini = %v, expected 0", m.WorkloadGini)
	}
	if m.WorkloadStdDev != 0 {
		t.Errorf("完全均衡的标准差 = %v, expected 0", m.WorkloadStdDev)
	}
}

func TestGini(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"空列表", nil, 0},
		{"全零", []float64{0, 0}, 0},
		{"完全均衡", []float64{5, 5, 5}, 0},
		{"完全集中", []float64{0, 0, 9}, 2.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gini(tt.values); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("gini(%v) = %v, expected %v", tt.values, got, tt.expected)
			}
		})
	}
}
