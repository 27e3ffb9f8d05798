package model

import (
	"testing"
)

func TestStaffMember_HasSkill(t *testing.T) {
	s := &StaffMember{Skills: []string{"icu", "triage"}}

	tests := []struct {
		skill    string
		expected bool
	}{
		{"icu", true},
		{"triage", true},
		{"surgery", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			if got := s.HasSkill(tt.skill); got != tt.expected {
				t.Errorf("HasSkill(%s) = %v, expected %v", tt.skill, got, tt.expected)
			}
		})
	}
}

func TestStaffMember_IsUnavailableOn(t *testing.T) {
	s := &StaffMember{
		UnavailableDates: []string{"2026-01-05"},
		VacationDates:    []string{"2026-01-10"},
	}

	tests := []struct {
		name     string
		date     string
		expected bool
	}{
		{"不可用日", "2026-01-05", true},
		{"休假日", "2026-01-10", true},
		{"普通日", "2026-01-06", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsUnavailableOn(tt.date); got != tt.expected {
				t.Errorf("IsUnavailableOn(%s) = %v, expected %v", tt.date, got, tt.expected)
			}
		})
	}
}

func TestStaffMember_ExcludesShift(t *testing.T) {
	s := &StaffMember{UnavailableShiftIDs: []string{"s1"}}
	if !s.ExcludesShift("s1") {
		t.Error("ExcludesShift(s1) = false, expected true")
	}
	if s.ExcludesShift("s2") {
		t.Error("ExcludesShift(s2) = true, expected false")
	}
}

func TestShiftRequirement_IsNightShift(t *testing.T) {
	night := &ShiftRequirement{ShiftType: ShiftTypeNight}
	day := &ShiftRequirement{ShiftType: "day"}
	if !night.IsNightShift() {
		t.Error("IsNightShift() = false, expected true")
	}
	if day.IsNightShift() {
		t.Error("IsNightShift() = true, expected false")
	}
}

func TestShiftRequirement_TotalRequired(t *testing.T) {
	s := &ShiftRequirement{RequiredRoles: []RoleRequirement{
		{Role: "nurse", Count: 2},
		{Role: "doctor", Count: 1},
	}}
	if got := s.TotalRequired(); got != 3 {
		t.Errorf("TotalRequired() = %d, expected 3", got)
	}
}

func TestSolution_Accessors(t *testing.T) {
	sol := &Solution{Assignments: []ShiftAssignment{
		{ShiftID: "s1", StaffIDs: []string{"n1", "n2"}},
		{ShiftID: "s2", StaffIDs: []string{"n1"}},
	}}

	if got := sol.TotalAssigned(); got != 3 {
		t.Errorf("TotalAssigned() = %d, expected 3", got)
	}
	if !sol.IsAssigned("n2", "s1") {
		t.Error("IsAssigned(n2, s1) = false, expected true")
	}
	if sol.IsAssigned("n2", "s2") {
		t.Error("IsAssigned(n2, s2) = true, expected false")
	}
	if got := sol.StaffFor("missing"); got != nil {
		t.Errorf("StaffFor(missing) = %v, expected nil", got)
	}
}
