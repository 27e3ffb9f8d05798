// Package solver 提供约束模型的求解引擎边界
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/rostercp/rostercp/pkg/cpmodel"
)

// MaxEnumBools 枚举引擎可处理的布尔变量上限
// 超过该规模直接拒绝，避免在大实例上无界搜索
const MaxEnumBools = 24

// EnumEngine 确定性穷举引擎
//
// 面向小实例的内存引擎：按掩码顺序枚举所有布尔赋值，整型辅助变量
// 由约束区间传播导出。要求每条线性约束至多引用一个整型变量，
// 且整型变量之间互不耦合——排班模型构建器产出的模型满足该形状。
// 最大等式按 target >= max(exprs) 下界收紧，目标系数非负时取等。
type EnumEngine struct{}

// NewEnumEngine 创建穷举引擎
func NewEnumEngine() *EnumEngine {
	return &EnumEngine{}
}

// Name 返回引擎名称
func (e *EnumEngine) Name() string {
	return "enum"
}

// Solve 穷举求解
func (e *EnumEngine) Solve(ctx context.Context, m *cpmodel.Model, opts Options) (*Outcome, error) {
	opts = opts.WithDefaults()
	start := time.Now()
	deadline := start.Add(opts.TimeLimit)

	if err := m.Validate(); err != nil {
		return nil, err
	}

	// 收集布尔与整型变量
	var bools, ints []cpmodel.Var
	for i, info := range m.Vars() {
		if info.Kind == cpmodel.KindBool {
			bools = append(bools, cpmodel.Var(i))
		} else {
			ints = append(ints, cpmodel.Var(i))
		}
	}
	if len(bools) > MaxEnumBools {
		return nil, fmt.Errorf("实例过大: %d 个布尔变量超过枚举上限 %d", len(bools), MaxEnumBools)
	}

	// 约束按引用的整型变量分组；多于一个整型变量的约束不受支持
	isInt := make([]bool, m.NumVars())
	for _, v := range ints {
		isInt[v] = true
	}
	boolOnly := make([]cpmodel.LinearConstraint, 0)
	byInt := make(map[cpmodel.Var][]cpmodel.LinearConstraint)
	for _, c := range m.Constraints() {
		var owner cpmodel.Var = -1
		supported := true
		for _, t := range c.Expr.Terms() {
			if isInt[t.Var] {
				if owner >= 0 && owner != t.Var {
					supported = false
					break
				}
				owner = t.Var
			}
		}
		if !supported {
			return nil, fmt.Errorf("枚举引擎不支持同一约束引用多个整型变量")
		}
		if owner < 0 {
			boolOnly = append(boolOnly, c)
		} else {
			byInt[owner] = append(byInt[owner], c)
		}
	}
	maxEqByInt := make(map[cpmodel.Var][]cpmodel.MaxEquality)
	for _, me := range m.MaxEqualities() {
		if !isInt[me.Target] {
			return nil, fmt.Errorf("最大等式目标 %d 不是整型变量", me.Target)
		}
		maxEqByInt[me.Target] = append(maxEqByInt[me.Target], me)
	}

	values := make([]int64, m.NumVars())
	var best []int64
	var bestObj int64
	exhausted := true

	total := uint64(1) << uint(len(bools))
mask:
	for mask := uint64(0); mask < total; mask++ {
		if mask%2048 == 0 {
			if ctx.Err() != nil || time.Now().After(deadline) {
				exhausted = false
				break
			}
		}
		for i, v := range bools {
			if mask&(1<<uint(i)) != 0 {
				values[v] = 1
			} else {
				values[v] = 0
			}
		}

		// 纯布尔约束先行剪枝
		for _, c := range boolOnly {
			got := m.EvaluateExpr(c.Expr, values)
			if got < c.LB || got > c.UB {
				continue mask
			}
		}

		// 按创建顺序导出整型变量
		for _, v := range ints {
			info := m.VarInfo(v)
			lo, hi := info.LB, info.UB
			for _, c := range byInt[v] {
				clo, chi, ok := intBounds(m, c, v, values)
				if !ok {
					continue mask
				}
				if clo > lo {
					lo = clo
				}
				if chi < hi {
					hi = chi
				}
			}
			for _, me := range maxEqByInt[v] {
				for _, ex := range me.Exprs {
					if got := m.EvaluateExpr(ex, values); got > lo {
						lo = got
					}
				}
			}
			if lo > hi {
				continue mask
			}
			values[v] = lo
		}

		// 全量复核
		for _, c := range m.Constraints() {
			got := m.EvaluateExpr(c.Expr, values)
			if got < c.LB || got > c.UB {
				continue mask
			}
		}

		obj := m.EvaluateExpr(m.Objective(), values)
		if best == nil || obj < bestObj {
			best = append(best[:0], values...)
			bestObj = obj
		}
	}

	out := &Outcome{WallTime: time.Since(start)}
	switch {
	case best != nil && exhausted:
		out.Status = StatusOptimal
	case best != nil:
		out.Status = StatusFeasible
	case exhausted:
		out.Status = StatusInfeasible
	default:
		out.Status = StatusUnknown
	}
	if best != nil {
		out.Values = best
		out.Objective = bestObj
	}
	return out, nil
}

// intBounds 计算约束对整型变量 v 的可行区间
// 其余项在当前赋值下已确定；返回 ok=false 表示区间为空或系数为 0 且常量违约
func intBounds(m *cpmodel.Model, c cpmodel.LinearConstraint, v cpmodel.Var, values []int64) (lo, hi int64, ok bool) {
	var coeff int64
	rest := c.Expr.Offset()
	for _, t := range c.Expr.Terms() {
		if t.Var == v {
			coeff += t.Coeff
			continue
		}
		rest += t.Coeff * values[t.Var]
	}
	if coeff == 0 {
		if rest < c.LB || rest > c.UB {
			return 0, 0, false
		}
		return -cpmodel.NoBound, cpmodel.NoBound, true
	}
	// coeff*v ∈ [LB-rest, UB-rest]
	l, u := c.LB-rest, c.UB-rest
	if coeff > 0 {
		return ceilDiv(l, coeff), floorDiv(u, coeff), true
	}
	return ceilDiv(u, coeff), floorDiv(l, coeff), true
}

// ceilDiv 向上取整除法
func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// floorDiv 向下取整除法
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
