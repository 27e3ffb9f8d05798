package cpmodel

import (
	"testing"
)

func TestLinearExpr_Build(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")

	e := NewLinearExpr().Add(x).AddTerm(y, 3).AddConstant(-2)

	if len(e.Terms()) != 2 {
		t.Fatalf("Terms() 长度 = %d, expected 2", len(e.Terms()))
	}
	if e.Offset() != -2 {
		t.Errorf("Offset() = %d, expected -2", e.Offset())
	}
	if got := m.EvaluateExpr(e, []int64{1, 1}); got != 2 {
		t.Errorf("EvaluateExpr() = %d, expected 2", got)
	}
	if got := m.EvaluateExpr(e, []int64{0, 0}); got != -2 {
		t.Errorf("EvaluateExpr() = %d, expected -2", got)
	}
}

func TestModel_ExprBounds(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("x")
	n := m.NewIntVar(2, 5, "n")

	tests := []struct {
		name   string
		expr   *LinearExpr
		lo, hi int64
	}{
		{"正系数", NewLinearExpr().Add(x).AddTerm(n, 2), 4, 11},
		{"负系数", NewLinearExpr().AddTerm(n, -1), -5, -2},
		{"带常量", NewLinearExpr().Add(x).AddConstant(10), 10, 11},
		{"空表达式", NewLinearExpr(), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := m.ExprBounds(tt.expr)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("ExprBounds() = [%d, %d], expected [%d, %d]", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestModel_Constraints(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")

	m.AddEquality(NewLinearExpr().Add(x).Add(y), 1)
	m.AddLessOrEqual(NewLinearExpr().Add(x), 1)
	m.AddAtLeastOne(x, y)

	if got := len(m.Constraints()); got != 3 {
		t.Fatalf("len(Constraints()) = %d, expected 3", got)
	}
	eq := m.Constraints()[0]
	if eq.LB != 1 || eq.UB != 1 {
		t.Errorf("等式约束边界 = [%d, %d], expected [1, 1]", eq.LB, eq.UB)
	}
	ge := m.Constraints()[2]
	if ge.LB != 1 || ge.UB != NoBound {
		t.Errorf("至少一约束边界 = [%d, %d], expected [1, NoBound]", ge.LB, ge.UB)
	}
}

func TestModel_Objective(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("x")

	m.AddObjectiveTerm(x, 5)
	m.AddObjectiveTerm(x, 0) // 零系数项被忽略
	m.AddObjectiveConstant(-3)

	if got := len(m.Objective().Terms()); got != 1 {
		t.Errorf("目标项数 = %d, expected 1", got)
	}
	if got := m.EvaluateExpr(m.Objective(), []int64{1}); got != 2 {
		t.Errorf("目标值 = %d, expected 2", got)
	}
}

func TestModel_Validate(t *testing.T) {
	t.Run("合法模型", func(t *testing.T) {
		m := NewModel()
		x := m.NewBoolVar("x")
		m.AddLessOrEqual(NewLinearExpr().Add(x), 1)
		if err := m.Validate(); err != nil {
			t.Errorf("Validate() = %v, expected nil", err)
		}
	})

	t.Run("变量界颠倒", func(t *testing.T) {
		m := NewModel()
		m.NewIntVar(5, 2, "bad")
		if err := m.Validate(); err == nil {
			t.Error("Validate() = nil, expected error")
		}
	})

	t.Run("引用未定义变量", func(t *testing.T) {
		m := NewModel()
		m.AddLessOrEqual(NewLinearExpr().Add(Var(7)), 1)
		if err := m.Validate(); err == nil {
			t.Error("Validate() = nil, expected error")
		}
	})
}
