// Package roster 实现排班问题的约束模型构建与求解编排
//
// 数据流：资格过滤 -> 模型构建（变量 + 硬约束）-> 目标组装（软约束项）
// -> 求解编排 -> 结果装配。构建过程单线程且确定性，变量顺序由
// 输入顺序完全决定。
package roster

import (
	"github.com/rostercp/rostercp/pkg/model"
)

// pairKey 标识一个 (员工, 班次) 决策对，使用输入下标
type pairKey struct {
	staff int
	shift int
}

// Eligibility 资格过滤结果
//
// 资格在任何变量创建之前一次性算出并缓存；它只取决于员工与班次
// 本身，不依赖其他员工的分配（那类耦合用约束表达，不在这里）。
type Eligibility struct {
	// byRole[shiftIdx][roleIdx] = 可担任该岗位需求的员工下标
	byRole [][][]int
	// pairs = 需要决策变量的 (员工, 班次) 对：员工能担任该班次任一岗位需求的并集
	pairs map[pairKey]struct{}
}

// ComputeEligibility 计算全部 (员工, 班次, 岗位需求) 三元组的资格
//
// 员工对某岗位需求可用，当且仅当：
//   - 员工角色与需求角色一致
//   - 班次日期不在员工不可用日、休假日中
//   - 班次 ID 不在员工排除班次中
func ComputeEligibility(staff []model.StaffMember, shifts []model.ShiftRequirement) *Eligibility {
	e := &Eligibility{
		byRole: make([][][]int, len(shifts)),
		pairs:  make(map[pairKey]struct{}),
	}

	for si := range shifts {
		shift := &shifts[si]
		e.byRole[si] = make([][]int, len(shift.RequiredRoles))
		for ri := range shift.RequiredRoles {
			req := &shift.RequiredRoles[ri]
			var eligible []int
			for pi := range staff {
				member := &staff[pi]
				if member.Role != req.Role {
					continue
				}
				if member.IsUnavailableOn(shift.Date) {
					continue
				}
				if member.ExcludesShift(shift.ID) {
					continue
				}
				eligible = append(eligible, pi)
				e.pairs[pairKey{staff: pi, shift: si}] = struct{}{}
			}
			e.byRole[si][ri] = eligible
		}
	}
	return e
}

// EligibleStaff 返回某班次某岗位需求的可用员工下标
func (e *Eligibility) EligibleStaff(shiftIdx, roleIdx int) []int {
	return e.byRole[shiftIdx][roleIdx]
}

// NeedsVariable 检查 (员工, 班次) 对是否需要决策变量
func (e *Eligibility) NeedsVariable(staffIdx, shiftIdx int) bool {
	_, ok := e.pairs[pairKey{staff: staffIdx, shift: shiftIdx}]
	return ok
}

// NumPairs 返回需要决策变量的对数
func (e *Eligibility) NumPairs() int {
	return len(e.pairs)
}
