// Package cpmodel 提供引擎无关的约束模型构建层
//
// 只暴露求解核心所需的能力集合：布尔/整型变量、带上下界的线性约束、
// 最大等式辅助关系、整数系数的最小化目标。任何满足该能力集合的
// 约束/整数规划后端都可以替换接入（见 pkg/solver）。
package cpmodel

import (
	"fmt"
	"math"
)

// VarKind 变量类别
type VarKind int

const (
	KindBool VarKind = iota // 布尔变量（0/1）
	KindInt                 // 有界整型变量
)

// Var 变量句柄（模型内索引）
type Var int32

// NoBound 表示线性约束某一侧无界
const NoBound = int64(math.MaxInt64 / 4)

// VarInfo 变量声明
type VarInfo struct {
	Kind VarKind
	LB   int64
	UB   int64
	Name string
}

// Term 线性项
type Term struct {
	Var   Var
	Coeff int64
}

// LinearExpr 线性表达式：sum(coeff_i * var_i) + offset
type LinearExpr struct {
	terms  []Term
	offset int64
}

// NewLinearExpr 创建空线性表达式
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// AddTerm 添加带系数的项
func (e *LinearExpr) AddTerm(v Var, coeff int64) *LinearExpr {
	e.terms = append(e.terms, Term{Var: v, Coeff: coeff})
	return e
}

// Add 添加系数为 1 的项
func (e *LinearExpr) Add(v Var) *LinearExpr {
	return e.AddTerm(v, 1)
}

// AddSum 添加一组系数为 1 的项
func (e *LinearExpr) AddSum(vars ...Var) *LinearExpr {
	for _, v := range vars {
		e.Add(v)
	}
	return e
}

// AddConstant 添加常数项
func (e *LinearExpr) AddConstant(c int64) *LinearExpr {
	e.offset += c
	return e
}

// Terms 返回线性项
func (e *LinearExpr) Terms() []Term {
	return e.terms
}

// Offset 返回常数项
func (e *LinearExpr) Offset() int64 {
	return e.offset
}

// LinearConstraint 带上下界的线性约束：lb <= expr <= ub
type LinearConstraint struct {
	Expr *LinearExpr
	LB   int64
	UB   int64
}

// MaxEquality 最大等式辅助关系：target == max(exprs...)
// 求解后端可按 target >= expr_i 松弛编码，最小化目标会把它压紧
type MaxEquality struct {
	Target Var
	Exprs  []*LinearExpr
}

// Model 约束模型
// 构建是单线程且确定性的：变量与约束的创建顺序由调用顺序完全决定
type Model struct {
	vars        []VarInfo
	constraints []LinearConstraint
	maxEqs      []MaxEquality
	objective   *LinearExpr
}

// NewModel 创建空模型
func NewModel() *Model {
	return &Model{objective: NewLinearExpr()}
}

// NewBoolVar 创建布尔决策变量
func (m *Model) NewBoolVar(name string) Var {
	m.vars = append(m.vars, VarInfo{Kind: KindBool, LB: 0, UB: 1, Name: name})
	return Var(len(m.vars) - 1)
}

// NewIntVar 创建有界整型变量
func (m *Model) NewIntVar(lb, ub int64, name string) Var {
	m.vars = append(m.vars, VarInfo{Kind: KindInt, LB: lb, UB: ub, Name: name})
	return Var(len(m.vars) - 1)
}

// NumVars 返回变量数量
func (m *Model) NumVars() int {
	return len(m.vars)
}

// VarInfo 返回变量声明
func (m *Model) VarInfo(v Var) VarInfo {
	return m.vars[v]
}

// Vars 返回全部变量声明
func (m *Model) Vars() []VarInfo {
	return m.vars
}

// AddLinearConstraint 添加 lb <= expr <= ub
func (m *Model) AddLinearConstraint(e *LinearExpr, lb, ub int64) {
	m.constraints = append(m.constraints, LinearConstraint{Expr: e, LB: lb, UB: ub})
}

// AddEquality 添加 expr == value
func (m *Model) AddEquality(e *LinearExpr, value int64) {
	m.AddLinearConstraint(e, value, value)
}

// AddLessOrEqual 添加 expr <= ub
func (m *Model) AddLessOrEqual(e *LinearExpr, ub int64) {
	m.AddLinearConstraint(e, -NoBound, ub)
}

// AddGreaterOrEqual 添加 expr >= lb
func (m *Model) AddGreaterOrEqual(e *LinearExpr, lb int64) {
	m.AddLinearConstraint(e, lb, NoBound)
}

// AddAtLeastOne 添加 sum(vars) >= 1
func (m *Model) AddAtLeastOne(vars ...Var) {
	m.AddGreaterOrEqual(NewLinearExpr().AddSum(vars...), 1)
}

// AddMaxEquality 添加 target == max(exprs...)
func (m *Model) AddMaxEquality(target Var, exprs []*LinearExpr) {
	m.maxEqs = append(m.maxEqs, MaxEquality{Target: target, Exprs: exprs})
}

// AddObjectiveTerm 向最小化目标累加 coeff * v
// 目标系数要求非负，浮点权重应在进入模型前定点放大为整数
func (m *Model) AddObjectiveTerm(v Var, coeff int64) {
	if coeff == 0 {
		return
	}
	m.objective.AddTerm(v, coeff)
}

// AddObjectiveConstant 向最小化目标累加常数
func (m *Model) AddObjectiveConstant(c int64) {
	m.objective.AddConstant(c)
}

// Objective 返回最小化目标表达式
func (m *Model) Objective() *LinearExpr {
	return m.objective
}

// Constraints 返回全部线性约束
func (m *Model) Constraints() []LinearConstraint {
	return m.constraints
}

// MaxEqualities 返回全部最大等式关系
func (m *Model) MaxEqualities() []MaxEquality {
	return m.maxEqs
}

// NumConstraints 返回约束数量（线性约束 + 最大等式）
func (m *Model) NumConstraints() int {
	return len(m.constraints) + len(m.maxEqs)
}

// EvaluateExpr 在给定变量取值下求值线性表达式
func (m *Model) EvaluateExpr(e *LinearExpr, values []int64) int64 {
	total := e.offset
	for _, t := range e.terms {
		total += t.Coeff * values[t.Var]
	}
	return total
}

// ExprBounds 计算线性表达式在变量界内的取值范围
func (m *Model) ExprBounds(e *LinearExpr) (lo, hi int64) {
	lo, hi = e.offset, e.offset
	for _, t := range e.terms {
		info := m.vars[t.Var]
		if t.Coeff >= 0 {
			lo += t.Coeff * info.LB
			hi += t.Coeff * info.UB
		} else {
			lo += t.Coeff * info.UB
			hi += t.Coeff * info.LB
		}
	}
	return lo, hi
}

// Validate 校验模型内部一致性
func (m *Model) Validate() error {
	for i, info := range m.vars {
		if info.LB > info.UB {
			return fmt.Errorf("变量 %d (%s) 下界 %d 大于上界 %d", i, info.Name, info.LB, info.UB)
		}
	}
	check := func(e *LinearExpr) error {
		for _, t := range e.terms {
			if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
				return fmt.Errorf("表达式引用了未定义变量 %d", t.Var)
			}
		}
		return nil
	}
	for _, c := range m.constraints {
		if err := check(c.Expr); err != nil {
			return err
		}
		if c.LB > c.UB {
			return fmt.Errorf("线性约束下界 %d 大于上界 %d", c.LB, c.UB)
		}
	}
	for _, me := range m.maxEqs {
		if int(me.Target) < 0 || int(me.Target) >= len(m.vars) {
			return fmt.Errorf("最大等式引用了未定义变量 %d", me.Target)
		}
		for _, e := range me.Exprs {
			if err := check(e); err != nil {
				return err
			}
		}
	}
	return check(m.objective)
}
