// Package solver 提供约束模型的求解引擎边界
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	mk "github.com/gitrdm/gokanlogic/pkg/minikanren"
	"github.com/rostercp/rostercp/pkg/cpmodel"
)

// GokandoEngine 基于 gokando 有限域求解器的生产引擎
//
// gokando 的位集域是 1 起始的，适配器把每个模型变量整体平移 +1，
// 线性约束中的常量通过一个固定为 1 的单位变量携带。
// 最大等式按 target >= expr 的线性不等式降阶编码，
// 目标系数非负时最小化会把 target 压到取等。
type GokandoEngine struct{}

// NewGokandoEngine 创建 gokando 引擎
func NewGokandoEngine() *GokandoEngine {
	return &GokandoEngine{}
}

// Name 返回引擎名称
func (e *GokandoEngine) Name() string {
	return "gokando"
}

// Solve 求解模型
func (e *GokandoEngine) Solve(ctx context.Context, m *cpmodel.Model, opts Options) (*Outcome, error) {
	opts = opts.WithDefaults()
	start := time.Now()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.NumVars() == 0 {
		return &Outcome{Status: StatusOptimal, WallTime: time.Since(start)}, nil
	}

	fm := mk.NewModel()
	handles := make([]*mk.FDVariable, m.NumVars())
	for i, info := range m.Vars() {
		if info.LB < 0 {
			return nil, fmt.Errorf("变量 %s 下界为负，gokando 引擎不支持", info.Name)
		}
		handles[i] = fm.NewVariable(mk.DomainRange(int(info.LB)+1, int(info.UB)+1))
	}
	one := fm.IntVarValues([]int{1}, "const_one")

	infeasible := false

	// addLinear 编码 lb <= expr <= ub
	// 模型变量 v 对应 gokando 变量 g = v + 1，因此
	// sum(c_i*v_i) = sum(c_i*g_i) - S，S 为系数和；
	// 区间下端小于 1 时再用单位变量整体平移
	addLinear := func(expr *cpmodel.LinearExpr, lb, ub int64) error {
		terms := expr.Terms()
		if len(terms) == 0 {
			if expr.Offset() < lb || expr.Offset() > ub {
				infeasible = true
			}
			return nil
		}
		var coeffSum int64
		vars := make([]*mk.FDVariable, 0, len(terms)+1)
		coeffs := make([]int, 0, len(terms)+1)
		for _, t := range terms {
			vars = append(vars, handles[t.Var])
			coeffs = append(coeffs, int(t.Coeff))
			coeffSum += t.Coeff
		}

		exprLo, exprHi := m.ExprBounds(expr)
		lo := max64(lb, exprLo) - expr.Offset() + coeffSum
		hi := min64(ub, exprHi) - expr.Offset() + coeffSum
		if lo > hi {
			infeasible = true
			return nil
		}
		if lo < 1 {
			shift := 1 - lo
			vars = append(vars, one)
			coeffs = append(coeffs, int(shift))
			lo += shift
			hi += shift
		}

		target := fm.NewVariable(mk.DomainRange(int(lo), int(hi)))
		ls, err := mk.NewLinearSum(vars, coeffs, target)
		if err != nil {
			return err
		}
		fm.AddConstraint(ls)
		return nil
	}

	for _, c := range m.Constraints() {
		if err := addLinear(c.Expr, c.LB, c.UB); err != nil {
			return nil, err
		}
	}
	for _, me := range m.MaxEqualities() {
		for _, ex := range me.Exprs {
			diff := cpmodel.NewLinearExpr().Add(me.Target).AddConstant(-ex.Offset())
			for _, t := range ex.Terms() {
				diff.AddTerm(t.Var, -t.Coeff)
			}
			if err := addLinear(diff, 0, cpmodel.NoBound); err != nil {
				return nil, err
			}
		}
	}

	if infeasible {
		return &Outcome{Status: StatusInfeasible, WallTime: time.Since(start)}, nil
	}

	// 目标变量：objective 的各项汇总到一个最小化目标
	obj := m.Objective()
	objExpr := obj
	if len(obj.Terms()) == 0 {
		// 无目标项时退化为可满足性问题，以单位变量为伪目标
		objExpr = cpmodel.NewLinearExpr()
	}
	var objVar *mk.FDVariable
	var objCoeffSum int64
	if len(objExpr.Terms()) == 0 {
		objVar = one
	} else {
		vars := make([]*mk.FDVariable, 0, len(objExpr.Terms()))
		coeffs := make([]int, 0, len(objExpr.Terms()))
		for _, t := range objExpr.Terms() {
			vars = append(vars, handles[t.Var])
			coeffs = append(coeffs, int(t.Coeff))
			objCoeffSum += t.Coeff
		}
		lo, hi := m.ExprBounds(objExpr)
		gLo := lo - objExpr.Offset() + objCoeffSum
		gHi := hi - objExpr.Offset() + objCoeffSum
		if gLo < 1 {
			shift := 1 - gLo
			vars = append(vars, one)
			coeffs = append(coeffs, int(shift))
			gLo += shift
			gHi += shift
		}
		objVar = fm.NewVariable(mk.DomainRange(int(gLo), int(gHi)))
		ls, err := mk.NewLinearSum(vars, coeffs, objVar)
		if err != nil {
			return nil, err
		}
		fm.AddConstraint(ls)
	}

	s := mk.NewSolver(fm)
	sol, _, err := s.SolveOptimalWithOptions(ctx, objVar, true,
		mk.WithTimeLimit(opts.TimeLimit),
		mk.WithParallelWorkers(opts.Workers),
		mk.WithHeuristics(mk.HeuristicImpact, mk.ValueOrderObjImproving, opts.Seed),
	)

	out := &Outcome{WallTime: time.Since(start)}
	switch {
	case err == nil && sol == nil:
		out.Status = StatusInfeasible
		return out, nil
	case err == nil:
		out.Status = StatusOptimal
	case errors.Is(err, mk.ErrSearchLimitReached) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil:
		if sol == nil {
			out.Status = StatusUnknown
			return out, nil
		}
		out.Status = StatusFeasible
	default:
		return nil, err
	}

	out.Values = make([]int64, m.NumVars())
	for i := range handles {
		out.Values[i] = int64(sol[handles[i].ID()]) - 1
	}
	out.Objective = m.EvaluateExpr(obj, out.Values)
	return out, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
