// Package roster 实现排班问题的约束模型构建与求解编排
package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/rostercp/rostercp/pkg/cpmodel"
	"github.com/rostercp/rostercp/pkg/logger"
	"github.com/rostercp/rostercp/pkg/model"
)

const dateLayout = "2006-01-02"

// builtModel 模型构建产物
// 除 cp 模型本身外，保留诊断所需的变量锚点
type builtModel struct {
	cp   *cpmodel.Model
	vars map[pairKey]cpmodel.Var

	// shortages[shiftIdx][roleIdx] = 缺口变量
	// 约束保证 assigned + shortage == required 严格成立
	shortages [][]cpmodel.Var
}

// modelBuilder 模型构建器
// 为每个可用 (员工, 班次) 对创建一个布尔变量，并编码全部硬约束；
// 不可用对从不创建变量，等价于强制为 0 但更省模型规模
type modelBuilder struct {
	staff  []model.StaffMember
	shifts []model.ShiftRequirement
	cfg    *model.ConstraintConfig
	elig   *Eligibility
	log    *logger.SolverLogger

	cp   *cpmodel.Model
	vars map[pairKey]cpmodel.Var
}

// newModelBuilder 创建模型构建器
func newModelBuilder(staff []model.StaffMember, shifts []model.ShiftRequirement, cfg *model.ConstraintConfig, elig *Eligibility) *modelBuilder {
	return &modelBuilder{
		staff:  staff,
		shifts: shifts,
		cfg:    cfg,
		elig:   elig,
		log:    logger.NewSolverLogger(),
		cp:     cpmodel.NewModel(),
		vars:   make(map[pairKey]cpmodel.Var),
	}
}

// build 创建决策变量并编码硬约束
func (b *modelBuilder) build() (*builtModel, error) {
	b.createVariables()

	shortages, err := b.addCoverage()
	if err != nil {
		return nil, err
	}
	b.addOneShiftPerDay()
	b.addWeeklyWindows()
	b.addConsecutiveDayCaps()
	if err := b.addRestGaps(); err != nil {
		return nil, err
	}

	return &builtModel{cp: b.cp, vars: b.vars, shortages: shortages}, nil
}

// createVariables 按输入顺序（班次外层、员工内层）创建布尔变量
func (b *modelBuilder) createVariables() {
	for si := range b.shifts {
		for pi := range b.staff {
			if !b.elig.NeedsVariable(pi, si) {
				continue
			}
			name := fmt.Sprintf("%s_works_%s", b.staff[pi].ID, b.shifts[si].ID)
			b.vars[pairKey{staff: pi, shift: si}] = b.cp.NewBoolVar(name)
		}
	}
}

// addCoverage 编码岗位覆盖
//
// 覆盖不是硬等式：模型允许 assigned < required，缺口作为惩罚项
// 进入目标（软执行的硬目标），以表达现实中无法避免的缺员，
// 而不是让整个模型不可行。等式 assigned + shortage == required
// 同时封顶了超额分配。零可用员工的岗位需求缺口按全额计入，
// 不构成构建错误。
func (b *modelBuilder) addCoverage() ([][]cpmodel.Var, error) {
	shortages := make([][]cpmodel.Var, len(b.shifts))
	for si := range b.shifts {
		shift := &b.shifts[si]
		shortages[si] = make([]cpmodel.Var, len(shift.RequiredRoles))
		for ri := range shift.RequiredRoles {
			req := &shift.RequiredRoles[ri]
			eligible := b.elig.EligibleStaff(si, ri)
			if len(eligible) == 0 {
				b.log.NoEligibleStaff(shift.ID, req.Role)
			}

			name := fmt.Sprintf("%s_%s_shortage", shift.ID, req.Role)
			shortage := b.cp.NewIntVar(0, int64(req.Count), name)
			shortages[si][ri] = shortage

			expr := cpmodel.NewLinearExpr().Add(shortage)
			for _, pi := range eligible {
				v, ok := b.vars[pairKey{staff: pi, shift: si}]
				if !ok {
					return nil, fmt.Errorf("可用对 (%s, %s) 缺少决策变量", b.staff[pi].ID, shift.ID)
				}
				expr.Add(v)
			}
			b.cp.AddEquality(expr, int64(req.Count))
		}
	}
	return shortages, nil
}

// addOneShiftPerDay 每名员工每天至多一个班次
func (b *modelBuilder) addOneShiftPerDay() {
	byDate := b.shiftsByDate()
	for pi := range b.staff {
		for _, date := range sortedKeys(byDate) {
			expr := cpmodel.NewLinearExpr()
			for _, si := range byDate[date] {
				if v, ok := b.vars[pairKey{staff: pi, shift: si}]; ok {
					expr.Add(v)
				}
			}
			if len(expr.Terms()) > 1 {
				b.cp.AddLessOrEqual(expr, 1)
			}
		}
	}
}

// addWeeklyWindows 按 ISO 周编码周窗口硬约束：
// 每周最大班次数、每周最少休息天数（等价于每周班次数上限）
func (b *modelBuilder) addWeeklyWindows() {
	maxShifts := b.cfg.Hard.MaxShiftsPerWeek
	daysOffCap := 0
	if b.cfg.Hard.MinDaysOffPerWeek > 0 {
		daysOffCap = 7 - b.cfg.Hard.MinDaysOffPerWeek
		if daysOffCap < 0 {
			daysOffCap = 0
		}
	}
	if maxShifts <= 0 && b.cfg.Hard.MinDaysOffPerWeek <= 0 {
		return
	}

	byWeek := make(map[string][]int)
	for si := range b.shifts {
		t, err := time.Parse(dateLayout, b.shifts[si].Date)
		if err != nil {
			continue
		}
		year, week := t.ISOWeek()
		key := fmt.Sprintf("%04d-W%02d", year, week)
		byWeek[key] = append(byWeek[key], si)
	}

	for pi := range b.staff {
		for _, week := range sortedKeys(byWeek) {
			expr := cpmodel.NewLinearExpr()
			for _, si := range byWeek[week] {
				if v, ok := b.vars[pairKey{staff: pi, shift: si}]; ok {
					expr.Add(v)
				}
			}
			if len(expr.Terms()) == 0 {
				continue
			}
			cap := int64(-1)
			if maxShifts > 0 {
				cap = int64(maxShifts)
			}
			if b.cfg.Hard.MinDaysOffPerWeek > 0 && (cap < 0 || int64(daysOffCap) < cap) {
				cap = int64(daysOffCap)
			}
			if cap >= 0 && int64(len(expr.Terms())) > cap {
				b.cp.AddLessOrEqual(expr, cap)
			}
		}
	}
}

// addConsecutiveDayCaps 最大连续工作天数
// 对日历上每个长度为 L+1 的连续日期窗口，窗口内班次变量之和 <= L
// （每天至多一个班次已由 addOneShiftPerDay 保证，因此按变量求和即可）
func (b *modelBuilder) addConsecutiveDayCaps() {
	byDate := b.shiftsByDate()
	dates := sortedKeys(byDate)

	for pi := range b.staff {
		limit := b.staff[pi].MaxConsecutiveDays
		if limit <= 0 {
			limit = b.cfg.Hard.MaxConsecutiveWorkDays
		}
		if limit <= 0 {
			continue
		}
		for _, first := range dates {
			window, ok := consecutiveWindow(byDate, first, limit+1)
			if !ok {
				continue
			}
			expr := cpmodel.NewLinearExpr()
			for _, si := range window {
				if v, ok := b.vars[pairKey{staff: pi, shift: si}]; ok {
					expr.Add(v)
				}
			}
			if int64(len(expr.Terms())) > int64(limit) {
				b.cp.AddLessOrEqual(expr, int64(limit))
			}
		}
	}
}

// addRestGaps 班次间最小休息时长
// 对相邻日期上休息间隔不足的班次对，禁止同一员工连上：x_a + x_b <= 1
// 同日冲突已由每日限一约束覆盖
func (b *modelBuilder) addRestGaps() error {
	for pi := range b.staff {
		minRest := b.staff[pi].MinRestHours
		if minRest <= 0 {
			minRest = b.cfg.Hard.MinRestHours
		}
		if minRest <= 0 {
			continue
		}
		for ai := range b.shifts {
			va, okA := b.vars[pairKey{staff: pi, shift: ai}]
			if !okA {
				continue
			}
			for bi := range b.shifts {
				if ai == bi {
					continue
				}
				vb, okB := b.vars[pairKey{staff: pi, shift: bi}]
				if !okB {
					continue
				}
				gap, ok, err := b.restGapHours(ai, bi)
				if err != nil {
					return err
				}
				if !ok || gap >= float64(minRest) {
					continue
				}
				expr := cpmodel.NewLinearExpr().Add(va).Add(vb)
				b.cp.AddLessOrEqual(expr, 1)
			}
		}
	}
	return nil
}

// restGapHours 计算班次 a 结束到班次 b 开始之间的休息时长（小时）
// 仅对 b 紧随 a 之后（次日）的情况返回 ok=true；时间信息缺失时跳过
func (b *modelBuilder) restGapHours(ai, bi int) (float64, bool, error) {
	a, s := &b.shifts[ai], &b.shifts[bi]
	da, errA := time.Parse(dateLayout, a.Date)
	db, errB := time.Parse(dateLayout, s.Date)
	if errA != nil || errB != nil {
		return 0, false, nil
	}
	if db.Sub(da) != 24*time.Hour {
		return 0, false, nil
	}

	endA, okA := b.shiftEnd(a)
	startB, okB := b.shiftStart(s)
	if !okA || !okB {
		return 0, false, nil
	}

	end := da.Add(endA)
	start := db.Add(startB)
	return start.Sub(end).Hours(), true, nil
}

// shiftStart 返回班次开始时刻相对当天零点的偏移
func (b *modelBuilder) shiftStart(s *model.ShiftRequirement) (time.Duration, bool) {
	clock := s.StartTime
	if clock == "" {
		if w, ok := b.cfg.Shift.ShiftTimes[s.ShiftType]; ok {
			clock = w.Start
		}
	}
	return parseClock(clock)
}

// shiftEnd 返回班次结束时刻相对当天零点的偏移（跨日班次折算到次日）
func (b *modelBuilder) shiftEnd(s *model.ShiftRequirement) (time.Duration, bool) {
	startClock, endClock := s.StartTime, s.EndTime
	if startClock == "" || endClock == "" {
		if w, ok := b.cfg.Shift.ShiftTimes[s.ShiftType]; ok {
			if startClock == "" {
				startClock = w.Start
			}
			if endClock == "" {
				endClock = w.End
			}
		}
	}
	start, okS := parseClock(startClock)
	end, okE := parseClock(endClock)
	if !okS || !okE {
		return 0, false
	}
	if end <= start {
		end += 24 * time.Hour
	}
	return end, true
}

// parseClock 解析 HH:MM 为当天偏移
func parseClock(clock string) (time.Duration, bool) {
	if clock == "" {
		return 0, false
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// shiftsByDate 按日期分组班次下标
func (b *modelBuilder) shiftsByDate() map[string][]int {
	byDate := make(map[string][]int)
	for si := range b.shifts {
		byDate[b.shifts[si].Date] = append(byDate[b.shifts[si].Date], si)
	}
	return byDate
}

// consecutiveWindow 从 first 起查找连续 n 天的班次窗口
// 任一天缺少班次则窗口不成立（那天天然休息，连续性被打断）
func consecutiveWindow(byDate map[string][]int, first string, n int) ([]int, bool) {
	t, err := time.Parse(dateLayout, first)
	if err != nil {
		return nil, false
	}
	var window []int
	for i := 0; i < n; i++ {
		date := t.AddDate(0, 0, i).Format(dateLayout)
		shifts, ok := byDate[date]
		if !ok {
			return nil, false
		}
		window = append(window, shifts...)
	}
	return window, true
}

// sortedKeys 返回按字典序排序的键，保证约束创建顺序确定
func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
