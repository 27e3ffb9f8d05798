package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rostercp/rostercp/pkg/errors"
	"github.com/rostercp/rostercp/pkg/model"
	"github.com/rostercp/rostercp/pkg/roster"
	"github.com/rostercp/rostercp/pkg/solver"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, StaffFile, `[
		{"id": "n1", "name": "甲", "role": "nurse", "skills": ["icu"],
		 "unavailable_days": ["2026-01-05"], "max_hours_per_week": 40}
	]`)
	writeFile(t, dir, ShiftsFile, `[
		{"id": "s1", "date": "2026-01-06", "shift_type": "day",
		 "required_roles": [{"role": "nurse", "count": 2, "skills_required": ["icu"]}]}
	]`)
	writeFile(t, dir, ConstraintsFile, `{
		"hard_constraints": {"max_shifts_per_week": 5},
		"soft_constraints": {"enable": true, "weights": {"understaffed_shift_penalty": 10}}
	}`)

	input, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(input.Staff) != 1 || input.Staff[0].ID != "n1" {
		t.Errorf("Staff = %v, expected [n1]", input.Staff)
	}
	if !input.Staff[0].HasSkill("icu") {
		t.Error("员工技能未解析")
	}
	if !input.Staff[0].IsUnavailableOn("2026-01-05") {
		t.Error("不可用日未解析")
	}
	if len(input.Shifts) != 1 || input.Shifts[0].RequiredRoles[0].Count != 2 {
		t.Errorf("Shifts = %v, expected s1 需要 2 名护士", input.Shifts)
	}
	if input.Constraints.Hard.MaxShiftsPerWeek != 5 {
		t.Errorf("MaxShiftsPerWeek = %d, expected 5", input.Constraints.Hard.MaxShiftsPerWeek)
	}
	if !input.Constraints.Soft.Enable || input.Constraints.Soft.Weights.UnderstaffedShift != 10 {
		t.Errorf("软约束解析错误: %+v", input.Constraints.Soft)
	}
	// Normalize 已应用
	if input.Constraints.Shift.DefaultShiftDurationHours != model.DefaultShiftDurationHours {
		t.Errorf("缺省班次时长 = %d, expected %d",
			input.Constraints.Shift.DefaultShiftDurationHours, model.DefaultShiftDurationHours)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadStaff(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("LoadStaff() = nil error, expected error")
	}
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("错误码 = %v, expected INVALID_INPUT", errors.GetCode(err))
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, StaffFile, `{not json`)

	if _, err := LoadStaff(path); err == nil {
		t.Error("LoadStaff() = nil error, expected error")
	}
}

func TestWriteReadAssignments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, AssignmentsFile)
	result := &roster.Result{
		Solution: &model.Solution{Assignments: []model.ShiftAssignment{
			{ShiftID: "s1", StaffIDs: []string{"n1", "n2"}},
			{ShiftID: "s2", StaffIDs: nil},
		}},
		Status: solver.StatusOptimal,
	}

	if err := WriteAssignments(path, result); err != nil {
		t.Fatalf("WriteAssignments() error = %v", err)
	}
	sol, err := ReadAssignments(path)
	if err != nil {
		t.Fatalf("ReadAssignments() error = %v", err)
	}
	if len(sol.Assignments) != 2 {
		t.Fatalf("Assignments 长度 = %d, expected 2", len(sol.Assignments))
	}
	got := sol.StaffFor("s1")
	if len(got) != 2 || got[0] != "n1" || got[1] != "n2" {
		t.Errorf("s1 分配 = %v, expected [n1 n2]", got)
	}
}
