package validator

import (
	"testing"

	"github.com/rostercp/rostercp/pkg/model"
)

func testShift(id, date string, roles ...string) model.ShiftRequirement {
	var reqs []model.RoleRequirement
	for _, r := range roles {
		reqs = append(reqs, model.RoleRequirement{Role: r, Count: 1})
	}
	return model.ShiftRequirement{ID: id, Date: date, ShiftType: "day", RequiredRoles: reqs}
}

func hasConflict(conflicts []Conflict, typ ConflictType) bool {
	for _, c := range conflicts {
		if c.Type == typ {
			return true
		}
	}
	return false
}

func TestDetectAll_CleanSolution(t *testing.T) {
	staff := []model.StaffMember{{ID: "n1", Name: "n1", Role: "nurse"}}
	shifts := []model.ShiftRequirement{testShift("s1", "2026-01-05", "nurse")}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1"}},
	}}

	conflicts := NewConflictDetector(nil).DetectAll(sol, staff, shifts)
	if len(conflicts) != 0 {
		t.Errorf("DetectAll() = %v, expected 无冲突", conflicts)
	}
}

func TestDetectAll_Availability(t *testing.T) {
	staff := []model.StaffMember{{
		ID: "n1", Name: "n1", Role: "nurse",
		UnavailableDates: []string{"2026-01-05"},
	}}
	shifts := []model.ShiftRequirement{testShift("s1", "2026-01-05", "nurse")}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1"}},
	}}

	conflicts := NewConflictDetector(nil).DetectAll(sol, staff, shifts)
	if !hasConflict(conflicts, ConflictAvailability) {
		t.Errorf("DetectAll() = %v, expected availability 冲突", conflicts)
	}
}

func TestDetectAll_RoleMismatch(t *testing.T) {
	staff := []model.StaffMember{{ID: "d1", Name: "d1", Role: "doctor"}}
	shifts := []model.ShiftRequirement{testShift("s1", "2026-01-05", "nurse")}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"d1"}},
	}}

	conflicts := NewConflictDetector(nil).DetectAll(sol, staff, shifts)
	if !hasConflict(conflicts, ConflictRole) {
		t.Errorf("DetectAll() = %v, expected role 冲突", conflicts)
	}
}

func TestDetectAll_DuplicateDay(t *testing.T) {
	staff := []model.StaffMember{{ID: "n1", Name: "n1", Role: "nurse"}}
	shifts := []model.ShiftRequirement{
		testShift("s1", "2026-01-05", "nurse"),
		testShift("s2", "2026-01-05", "nurse"),
	}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1"}},
		{ShiftID: "s2", StaffIDs: []string{"n1"}},
	}}

	conflicts := NewConflictDetector(nil).DetectAll(sol, staff, shifts)
	if !hasConflict(conflicts, ConflictDuplicateDay) {
		t.Errorf("DetectAll() = %v, expected duplicate_day 冲突", conflicts)
	}
}

func TestDetectAll_WeeklyAndConsecutive(t *testing.T) {
	staff := []model.StaffMember{{ID: "n1", Name: "n1", Role: "nurse"}}
	shifts := []model.ShiftRequirement{
		testShift("s1", "2026-01-05", "nurse"),
		testShift("s2", "2026-01-06", "nurse"),
		testShift("s3", "2026-01-07", "nurse"),
	}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1"}},
		{ShiftID: "s2", StaffIDs: []string{"n1"}},
		{ShiftID: "s3", StaffIDs: []string{"n1"}},
	}}
	cfg := &model.ConstraintConfig{Hard: model.HardRules{
		MaxShiftsPerWeek:       2,
		MaxConsecutiveWorkDays: 2,
	}}

	conflicts := NewConflictDetector(cfg).DetectAll(sol, staff, shifts)
	if !hasConflict(conflicts, ConflictMaxShifts) {
		t.Errorf("DetectAll() = %v, expected max_shifts 冲突", conflicts)
	}
	if !hasConflict(conflicts, ConflictConsecutive) {
		t.Errorf("DetectAll() = %v, expected consecutive 冲突", conflicts)
	}
}

func TestDetectAll_RestTime(t *testing.T) {
	staff := []model.StaffMember{{ID: "n1", Name: "n1", Role: "nurse"}}
	late := testShift("s1", "2026-01-05", "nurse")
	late.StartTime, late.EndTime = "15:00", "23:00"
	early := testShift("s2", "2026-01-06", "nurse")
	early.StartTime, early.EndTime = "07:00", "15:00"
	shifts := []model.ShiftRequirement{late, early}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1"}},
		{ShiftID: "s2", StaffIDs: []string{"n1"}},
	}}
	cfg := &model.ConstraintConfig{Hard: model.HardRules{MinRestHours: 16}}

	conflicts := NewConflictDetector(cfg).DetectAll(sol, staff, shifts)
	if !hasConflict(conflicts, ConflictRestTime) {
		t.Errorf("DetectAll() = %v, expected rest_time 冲突", conflicts)
	}
}

func TestDetectAll_UnknownReferences(t *testing.T) {
	staff := []model.StaffMember{{ID: "n1", Name: "n1", Role: "nurse"}}
	shifts := []model.ShiftRequirement{testShift("s1", "2026-01-05", "nurse")}
	sol := &model.Solution{Assignments: []model.ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"ghost"}},
		{ShiftID: "missing", StaffIDs: []string{"n1"}},
	}}

	conflicts := NewConflictDetector(nil).DetectAll(sol, staff, shifts)
	if !hasConflict(conflicts, ConflictUnknownStaff) {
		t.Errorf("DetectAll() = %v, expected unknown_staff 冲突", conflicts)
	}
	if !hasConflict(conflicts, ConflictRole) {
		t.Errorf("DetectAll() = %v, expected 未知班次冲突", conflicts)
	}
}
