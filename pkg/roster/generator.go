// Package roster 实现排班问题的约束模型构建与求解编排
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/rostercp/rostercp/pkg/errors"
	"github.com/rostercp/rostercp/pkg/logger"
	"github.com/rostercp/rostercp/pkg/model"
	"github.com/rostercp/rostercp/pkg/solver"
)

// Generator 排班生成器
//
// 编排完整的求解流水线：输入校验 -> 资格过滤 -> 模型构建 ->
// 目标组装 -> 引擎求解 -> 结果装配。同一输入、同一引擎与同一种子
// 下目标值可复现。
type Generator struct {
	engine solver.Engine
	opts   solver.Options
	log    *logger.SolverLogger
}

// NewGenerator 创建排班生成器
func NewGenerator(engine solver.Engine, opts solver.Options) *Generator {
	return &Generator{
		engine: engine,
		opts:   opts.WithDefaults(),
		log:    logger.NewSolverLogger(),
	}
}

// Generate 执行一次完整求解
//
// 错误分层：
//   - 输入结构非法（ID 重复、计数为负等）-> INVALID_INPUT，在创建任何变量前返回
//   - 构建期不变量被破坏（未配置的班次类型等）-> MODEL_BUILD_FAILED
//   - 硬约束被证明无解 -> NO_FEASIBLE_SOLUTION
//   - 预算耗尽且无解 -> SOLVE_TIMEOUT
//
// 覆盖缺口不是错误：缺口进入惩罚并体现在 Result.Coverage 中。
func (g *Generator) Generate(ctx context.Context, staff []model.StaffMember, shifts []model.ShiftRequirement, cfg *model.ConstraintConfig) (*Result, error) {
	if cfg == nil {
		cfg = &model.ConstraintConfig{}
	}
	cfg.Normalize()

	if err := validateInput(staff, shifts, cfg); err != nil {
		return nil, err
	}
	g.log.BuildStarted(len(staff), len(shifts))

	elig := ComputeEligibility(staff, shifts)
	built, err := newModelBuilder(staff, shifts, cfg, elig).build()
	if err != nil {
		return nil, errors.ModelBuild(err.Error())
	}
	newObjectiveComposer(staff, shifts, cfg, elig, built).compose()
	g.log.ModelBuilt(built.cp.NumVars(), built.cp.NumConstraints())

	out, err := g.engine.Solve(ctx, built.cp, g.opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "求解引擎失败")
	}
	g.log.SolveFinished(string(out.Status), out.Objective, out.WallTime)

	switch out.Status {
	case solver.StatusInfeasible:
		return nil, errors.NoFeasibleSolution("硬约束组合无解")
	case solver.StatusUnknown:
		return nil, errors.SolveTimeout(fmt.Sprintf("时间预算 %s 内未找到任何解", g.opts.TimeLimit))
	}

	result := assembleResult(staff, shifts, built, out)
	for _, c := range result.Coverage {
		if c.Shortage > 0 {
			g.log.ShortageWarning(c.ShiftID, c.Role, c.Shortage)
		}
	}
	return result, nil
}

// validateInput 校验输入结构
// 在任何决策变量创建之前执行；任何失败都不会产生半成品模型
func validateInput(staff []model.StaffMember, shifts []model.ShiftRequirement, cfg *model.ConstraintConfig) error {
	seenStaff := make(map[string]struct{}, len(staff))
	for i := range staff {
		m := &staff[i]
		if m.ID == "" {
			return errors.InvalidInput("staff.id", fmt.Sprintf("第 %d 个员工 ID 为空", i))
		}
		if _, ok := seenStaff[m.ID]; ok {
			return errors.InvalidInput("staff.id", fmt.Sprintf("员工 ID '%s' 重复", m.ID))
		}
		seenStaff[m.ID] = struct{}{}
		if m.Role == "" {
			return errors.InvalidInput("staff.role", fmt.Sprintf("员工 '%s' 角色为空", m.ID))
		}
		if m.MaxHoursPerWeek < 0 || m.MinHoursPerWeek < 0 || m.MaxConsecutiveDays < 0 ||
			m.MinRestHours < 0 || m.NightShiftLimit < 0 {
			return errors.InvalidInput("staff", fmt.Sprintf("员工 '%s' 存在负数约束字段", m.ID))
		}
		for _, d := range append(append([]string{}, m.UnavailableDates...), m.VacationDates...) {
			if _, err := time.Parse(dateLayout, d); err != nil {
				return errors.InvalidInput("staff.dates", fmt.Sprintf("员工 '%s' 日期 '%s' 非法", m.ID, d))
			}
		}
	}

	seenShift := make(map[string]struct{}, len(shifts))
	for i := range shifts {
		s := &shifts[i]
		if s.ID == "" {
			return errors.InvalidInput("shift.id", fmt.Sprintf("第 %d 个班次 ID 为空", i))
		}
		if _, ok := seenShift[s.ID]; ok {
			return errors.InvalidInput("shift.id", fmt.Sprintf("班次 ID '%s' 重复", s.ID))
		}
		seenShift[s.ID] = struct{}{}
		if _, err := time.Parse(dateLayout, s.Date); err != nil {
			return errors.InvalidInput("shift.date", fmt.Sprintf("班次 '%s' 日期 '%s' 非法", s.ID, s.Date))
		}
		if !cfg.HasShiftType(s.ShiftType) {
			return errors.ModelBuild(fmt.Sprintf("班次 '%s' 类型 '%s' 未在配置中声明", s.ID, s.ShiftType))
		}
		if s.DurationHours < 0 {
			return errors.InvalidInput("shift.duration_hours", fmt.Sprintf("班次 '%s' 时长为负", s.ID))
		}
		for _, r := range s.RequiredRoles {
			if r.Role == "" {
				return errors.InvalidInput("shift.required_roles", fmt.Sprintf("班次 '%s' 存在空角色", s.ID))
			}
			if r.Count < 0 {
				return errors.InvalidInput("shift.required_roles", fmt.Sprintf("班次 '%s' 角色 '%s' 人数为负", s.ID, r.Role))
			}
		}
	}

	h := cfg.Hard
	if h.MaxHoursPerWeek < 0 || h.MaxShiftsPerWeek < 0 || h.MinDaysOffPerWeek < 0 ||
		h.MaxConsecutiveWorkDays < 0 || h.MinRestHours < 0 || h.NightShiftLimitPerWeek < 0 {
		return errors.InvalidInput("hard_constraints", "硬约束字段不允许为负")
	}
	if h.MinDaysOffPerWeek > 7 {
		return errors.InvalidInput("hard_constraints.min_days_off_per_week", "每周最少休息天数不能超过 7")
	}
	w := cfg.Soft.Weights
	if w.UnderstaffedShift < 0 || w.SkillMismatch < 0 || w.PreferredShift < 0 ||
		w.Overtime < 0 || w.Underscheduling < 0 || w.MaxNightShifts < 0 {
		return errors.InvalidInput("soft_constraints.weights", "软约束权重不允许为负")
	}
	return nil
}
