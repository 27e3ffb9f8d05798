package stats

import (
	"testing"

	"github.com/rostercp/rostercp/pkg/model"
)

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	staff := []model.StaffMember{
		{ID: "n1", Role: "nurse"},
		{ID: "n2", Role: "nurse"},
	}
	shifts := []model.ShiftRequirement{
		{
			ID: "s1", Date: "2026-01-05", ShiftType: "day",
			RequiredRoles: []model.RoleRequirement{{Role: "nurse", Count: 2}},
		},
		{
			ID: "s2", Date: "2026-01-06", ShiftType: "night",
			RequiredRoles: []model.RoleRequirement{{Role: "nurse", Count: 2}},
		},
	}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1", "n2"}},
		{ShiftID: "s2", StaffIDs: []string{"n1"}},
	}}

	m := NewCoverageAnalyzer().Analyze(sol, staff, shifts)

	if m.TotalRequired != 4 || m.TotalAssigned != 3 || m.TotalShortage != 1 {
		t.Errorf("总量 = (%d, %d, %d), expected (4, 3, 1)", m.TotalRequired, m.TotalAssigned, m.TotalShortage)
	}
	if m.OverallCoverage != 75 {
		t.Errorf("OverallCoverage = %v, expected 75", m.OverallCoverage)
	}
	if m.ShiftTypeCoverage["day"] != 100 || m.ShiftTypeCoverage["night"] != 50 {
		t.Errorf("ShiftTypeCoverage = %v, expected day 100, night 50", m.ShiftTypeCoverage)
	}
	if len(m.UnderstaffedShifts) != 1 || m.UnderstaffedShifts[0].ShiftID != "s2" {
		t.Errorf("UnderstaffedShifts = %v, expected s2", m.UnderstaffedShifts)
	}
	if m.DailyCoverage["2026-01-05"].CoverageRate != 100 {
		t.Errorf("每日覆盖率 = %v, expected 100", m.DailyCoverage["2026-01-05"].CoverageRate)
	}
}

func TestCoverageAnalyzer_Empty(t *testing.T) {
	m := NewCoverageAnalyzer().Analyze(&model.Solution{}, nil, nil)
	if m.OverallCoverage != 100 {
		t.Errorf("空班次覆盖率 = %v, expected 100", m.OverallCoverage)
	}
}
