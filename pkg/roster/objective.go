// Package roster 实现排班问题的约束模型构建与求解编排
package roster

import (
	"fmt"

	"github.com/rostercp/rostercp/pkg/cpmodel"
	"github.com/rostercp/rostercp/pkg/logger"
	"github.com/rostercp/rostercp/pkg/model"
)

// objectiveComposer 目标组装器
//
// 目标为最小化的加权惩罚和。缺口惩罚始终生效（它是软执行的硬目标，
// 不受软约束开关控制）；技能错配、偏好、超时、排班不足与夜班超额
// 仅在 soft_constraints.enable 时加入。权重为 0 的项天然无效。
//
// 偏好是奖励而非惩罚。为保持目标系数非负（部分后端要求最小化目标
// 单调），偏好项改用补变量编码：x + m == 1，惩罚 m 并在目标中扣除
// 对应常数，使报告的目标值与带符号的原始目标一致。
type objectiveComposer struct {
	staff  []model.StaffMember
	shifts []model.ShiftRequirement
	cfg    *model.ConstraintConfig
	elig   *Eligibility
	built  *builtModel
	log    *logger.SolverLogger
}

// newObjectiveComposer 创建目标组装器
func newObjectiveComposer(staff []model.StaffMember, shifts []model.ShiftRequirement, cfg *model.ConstraintConfig, elig *Eligibility, built *builtModel) *objectiveComposer {
	return &objectiveComposer{
		staff:  staff,
		shifts: shifts,
		cfg:    cfg,
		elig:   elig,
		built:  built,
		log:    logger.NewSolverLogger(),
	}
}

// compose 向模型追加全部目标项
func (o *objectiveComposer) compose() {
	o.addShortagePenalties()
	if !o.cfg.Soft.Enable {
		return
	}
	o.addSkillMismatchPenalties()
	o.addPreferenceBonuses()
	o.addHourPenalties()
	o.addNightExcessPenalties()
}

// addShortagePenalties 缺口惩罚
func (o *objectiveComposer) addShortagePenalties() {
	w := int64(o.cfg.Soft.Weights.UnderstaffedShift)
	for si := range o.shifts {
		for ri := range o.shifts[si].RequiredRoles {
			o.built.cp.AddObjectiveTerm(o.built.shortages[si][ri], w)
		}
	}
}

// addSkillMismatchPenalties 技能覆盖惩罚
//
// 对每个 (班次, 岗位需求, 技能) 三元组引入错配标志 f：
// sum(具备该技能的可用员工变量) + f >= 1，即要么有人覆盖技能，
// 要么承担惩罚。无人具备该技能时 f 被固定为 1。
func (o *objectiveComposer) addSkillMismatchPenalties() {
	w := int64(o.cfg.Soft.Weights.SkillMismatch)
	if w <= 0 {
		return
	}
	for si := range o.shifts {
		shift := &o.shifts[si]
		for ri := range shift.RequiredRoles {
			req := &shift.RequiredRoles[ri]
			for _, skill := range req.RequiredSkills {
				name := fmt.Sprintf("%s_%s_%s_mismatch", shift.ID, req.Role, skill)
				flag := o.built.cp.NewBoolVar(name)

				var skilled []cpmodel.Var
				for _, pi := range o.elig.EligibleStaff(si, ri) {
					if o.staff[pi].HasSkill(skill) {
						skilled = append(skilled, o.built.vars[pairKey{staff: pi, shift: si}])
					}
				}
				if len(skilled) == 0 {
					o.log.SkillUncoverable(shift.ID, req.Role, skill)
					o.built.cp.AddEquality(cpmodel.NewLinearExpr().Add(flag), 1)
				} else {
					expr := cpmodel.NewLinearExpr().AddSum(skilled...).Add(flag)
					o.built.cp.AddGreaterOrEqual(expr, 1)
				}
				o.built.cp.AddObjectiveTerm(flag, w)
			}
		}
	}
}

// addPreferenceBonuses 班次类型偏好奖励（补变量编码）
func (o *objectiveComposer) addPreferenceBonuses() {
	w := int64(o.cfg.Soft.Weights.PreferredShift)
	if w <= 0 {
		return
	}
	for si := range o.shifts {
		shift := &o.shifts[si]
		for pi := range o.staff {
			if !o.staff[pi].PrefersShiftType(shift.ShiftType) {
				continue
			}
			v, ok := o.built.vars[pairKey{staff: pi, shift: si}]
			if !ok {
				continue
			}
			name := fmt.Sprintf("%s_misses_%s", o.staff[pi].ID, shift.ID)
			miss := o.built.cp.NewBoolVar(name)
			o.built.cp.AddEquality(cpmodel.NewLinearExpr().Add(v).Add(miss), 1)
			o.built.cp.AddObjectiveTerm(miss, w)
			o.built.cp.AddObjectiveConstant(-w)
		}
	}
}

// addHourPenalties 超时与排班不足惩罚
//
// 按员工统计排班期内的总工时。上限取员工个人上限，缺省退回硬约束
// 配置；下限缺省为 0（不惩罚）。超出部分与不足部分经 max 等式折算
// 为非负辅助变量后计入目标。
func (o *objectiveComposer) addHourPenalties() {
	wOver := int64(o.cfg.Soft.Weights.Overtime)
	wUnder := int64(o.cfg.Soft.Weights.Underscheduling)
	if wOver <= 0 && wUnder <= 0 {
		return
	}

	for pi := range o.staff {
		member := &o.staff[pi]
		hours := cpmodel.NewLinearExpr()
		var totalCap int64
		for si := range o.shifts {
			v, ok := o.built.vars[pairKey{staff: pi, shift: si}]
			if !ok {
				continue
			}
			d := int64(o.cfg.ShiftDuration(&o.shifts[si]))
			hours.AddTerm(v, d)
			totalCap += d
		}
		if len(hours.Terms()) == 0 {
			continue
		}

		maxH := int64(member.MaxHoursPerWeek)
		if maxH <= 0 {
			maxH = int64(o.cfg.Hard.MaxHoursPerWeek)
		}
		if wOver > 0 && maxH > 0 && totalCap > maxH {
			over := o.built.cp.NewIntVar(0, totalCap-maxH, fmt.Sprintf("%s_overtime", member.ID))
			excess := cpmodel.NewLinearExpr().AddConstant(-maxH)
			for _, t := range hours.Terms() {
				excess.AddTerm(t.Var, t.Coeff)
			}
			o.built.cp.AddMaxEquality(over, []*cpmodel.LinearExpr{
				cpmodel.NewLinearExpr(),
				excess,
			})
			o.built.cp.AddObjectiveTerm(over, wOver)
		}

		minH := int64(member.MinHoursPerWeek)
		if wUnder > 0 && minH > 0 {
			under := o.built.cp.NewIntVar(0, minH, fmt.Sprintf("%s_undertime", member.ID))
			deficit := cpmodel.NewLinearExpr().AddConstant(minH)
			for _, t := range hours.Terms() {
				deficit.AddTerm(t.Var, -t.Coeff)
			}
			o.built.cp.AddMaxEquality(under, []*cpmodel.LinearExpr{
				cpmodel.NewLinearExpr(),
				deficit,
			})
			o.built.cp.AddObjectiveTerm(under, wUnder)
		}
	}
}

// addNightExcessPenalties 夜班超额惩罚
// 上限取员工个人夜班上限，缺省退回硬约束配置；两者都缺失则不惩罚
func (o *objectiveComposer) addNightExcessPenalties() {
	w := int64(o.cfg.Soft.Weights.MaxNightShifts)
	if w <= 0 {
		return
	}
	for pi := range o.staff {
		member := &o.staff[pi]
		limit := int64(member.NightShiftLimit)
		if limit <= 0 {
			limit = int64(o.cfg.Hard.NightShiftLimitPerWeek)
		}
		if limit <= 0 {
			continue
		}

		nights := cpmodel.NewLinearExpr()
		for si := range o.shifts {
			if !o.shifts[si].IsNightShift() {
				continue
			}
			if v, ok := o.built.vars[pairKey{staff: pi, shift: si}]; ok {
				nights.Add(v)
			}
		}
		if int64(len(nights.Terms())) <= limit {
			continue
		}

		excess := cpmodel.NewLinearExpr().AddConstant(-limit)
		for _, t := range nights.Terms() {
			excess.AddTerm(t.Var, t.Coeff)
		}
		overCap := int64(len(nights.Terms())) - limit
		over := o.built.cp.NewIntVar(0, overCap, fmt.Sprintf("%s_night_excess", member.ID))
		o.built.cp.AddMaxEquality(over, []*cpmodel.LinearExpr{
			cpmodel.NewLinearExpr(),
			excess,
		})
		o.built.cp.AddObjectiveTerm(over, w)
	}
}
