// Package roster 实现排班问题的约束模型构建与求解编排
package roster

import (
	"github.com/rostercp/rostercp/pkg/model"
	"github.com/rostercp/rostercp/pkg/solver"
)

// RoleCoverage 单个 (班次, 岗位) 的覆盖情况
type RoleCoverage struct {
	ShiftID  string `json:"shift_id"`
	Role     string `json:"role"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
	Shortage int    `json:"shortage"`
}

// SkillGap 某技能需求未被任何已分配员工覆盖
type SkillGap struct {
	ShiftID string `json:"shift_id"`
	Role    string `json:"role"`
	Skill   string `json:"skill"`
}

// Result 排班求解结果
//
// Solution 按输入班次顺序、每班次内按输入员工顺序排列；
// Coverage 与 SkillGaps 为诊断信息，直接由解回算，不依赖模型内部变量。
type Result struct {
	Solution  *model.Solution `json:"solution"`
	Status    solver.Status   `json:"status"`
	Objective int64           `json:"objective"`
	WallTime  string          `json:"wall_time"`
	Coverage  []RoleCoverage  `json:"coverage"`
	SkillGaps []SkillGap      `json:"skill_gaps,omitempty"`
}

// assembleResult 由求解赋值装配结果
func assembleResult(staff []model.StaffMember, shifts []model.ShiftRequirement, built *builtModel, out *solver.Outcome) *Result {
	sol := &model.Solution{Assignments: make([]model.ShiftAssignment, len(shifts))}
	for si := range shifts {
		a := model.ShiftAssignment{ShiftID: shifts[si].ID}
		for pi := range staff {
			v, ok := built.vars[pairKey{staff: pi, shift: si}]
			if ok && out.BoolValue(v) {
				a.StaffIDs = append(a.StaffIDs, staff[pi].ID)
			}
		}
		sol.Assignments[si] = a
	}

	r := &Result{
		Solution:  sol,
		Status:    out.Status,
		Objective: out.Objective,
		WallTime:  out.WallTime.String(),
	}
	r.Coverage = computeCoverage(staff, shifts, sol)
	r.SkillGaps = computeSkillGaps(staff, shifts, sol)
	return r
}

// computeCoverage 回算每个岗位需求的已分配人数与缺口
func computeCoverage(staff []model.StaffMember, shifts []model.ShiftRequirement, sol *model.Solution) []RoleCoverage {
	roleOf := make(map[string]string, len(staff))
	for i := range staff {
		roleOf[staff[i].ID] = staff[i].Role
	}

	var coverage []RoleCoverage
	for si := range shifts {
		shift := &shifts[si]
		assigned := sol.Assignments[si].StaffIDs
		for ri := range shift.RequiredRoles {
			req := &shift.RequiredRoles[ri]
			count := 0
			for _, id := range assigned {
				if roleOf[id] == req.Role {
					count++
				}
			}
			coverage = append(coverage, RoleCoverage{
				ShiftID:  shift.ID,
				Role:     req.Role,
				Required: req.Count,
				Assigned: count,
				Shortage: req.Count - count,
			})
		}
	}
	return coverage
}

// computeSkillGaps 回算未被覆盖的技能需求
func computeSkillGaps(staff []model.StaffMember, shifts []model.ShiftRequirement, sol *model.Solution) []SkillGap {
	byID := make(map[string]*model.StaffMember, len(staff))
	for i := range staff {
		byID[staff[i].ID] = &staff[i]
	}

	var gaps []SkillGap
	for si := range shifts {
		shift := &shifts[si]
		assigned := sol.Assignments[si].StaffIDs
		for ri := range shift.RequiredRoles {
			req := &shift.RequiredRoles[ri]
			for _, skill := range req.RequiredSkills {
				covered := false
				for _, id := range assigned {
					m := byID[id]
					if m != nil && m.Role == req.Role && m.HasSkill(skill) {
						covered = true
						break
					}
				}
				if !covered {
					gaps = append(gaps, SkillGap{ShiftID: shift.ID, Role: req.Role, Skill: skill})
				}
			}
		}
	}
	return gaps
}
