package solver

import (
	"context"
	"testing"

	"github.com/rostercp/rostercp/pkg/cpmodel"
)

func TestEnumEngine_Optimal(t *testing.T) {
	// min x + 2y, 约束 x + y >= 1，最优解 x=1, y=0, 目标 1
	m := cpmodel.NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	m.AddAtLeastOne(x, y)
	m.AddObjectiveTerm(x, 1)
	m.AddObjectiveTerm(y, 2)

	out, err := NewEnumEngine().Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if out.Status != StatusOptimal {
		t.Fatalf("Status = %v, expected OPTIMAL", out.Status)
	}
	if out.Objective != 1 {
		t.Errorf("Objective = %d, expected 1", out.Objective)
	}
	if !out.BoolValue(x) || out.BoolValue(y) {
		t.Errorf("赋值 = (%v, %v), expected (true, false)", out.BoolValue(x), out.BoolValue(y))
	}
}

func TestEnumEngine_IntDerivation(t *testing.T) {
	// 覆盖形状：x + y + s == 2，s 为缺口变量
	// min 10*s 驱动两个布尔全选，s = 0
	m := cpmodel.NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	s := m.NewIntVar(0, 2, "s")
	m.AddEquality(cpmodel.NewLinearExpr().Add(x).Add(y).Add(s), 2)
	m.AddObjectiveTerm(s, 10)

	out, err := NewEnumEngine().Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if out.Status != StatusOptimal {
		t.Fatalf("Status = %v, expected OPTIMAL", out.Status)
	}
	if out.Value(s) != 0 {
		t.Errorf("缺口变量 = %d, expected 0", out.Value(s))
	}
	if out.Objective != 0 {
		t.Errorf("Objective = %d, expected 0", out.Objective)
	}
}

func TestEnumEngine_ShortageForced(t *testing.T) {
	// x + s == 3 而 x 只有 0/1，缺口至少 2
	m := cpmodel.NewModel()
	x := m.NewBoolVar("x")
	s := m.NewIntVar(0, 3, "s")
	m.AddEquality(cpmodel.NewLinearExpr().Add(x).Add(s), 3)
	m.AddObjectiveTerm(s, 1)

	out, err := NewEnumEngine().Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if out.Status != StatusOptimal {
		t.Fatalf("Status = %v, expected OPTIMAL", out.Status)
	}
	if out.Value(s) != 2 {
		t.Errorf("缺口变量 = %d, expected 2", out.Value(s))
	}
}

func TestEnumEngine_MaxEquality(t *testing.T) {
	// over == max(0, 2x + 2y - 3)，x=y=1 被约束强制，over = 1
	m := cpmodel.NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	over := m.NewIntVar(0, 4, "over")
	m.AddEquality(cpmodel.NewLinearExpr().Add(x), 1)
	m.AddEquality(cpmodel.NewLinearExpr().Add(y), 1)
	m.AddMaxEquality(over, []*cpmodel.LinearExpr{
		cpmodel.NewLinearExpr(),
		cpmodel.NewLinearExpr().AddTerm(x, 2).AddTerm(y, 2).AddConstant(-3),
	})
	m.AddObjectiveTerm(over, 5)

	out, err := NewEnumEngine().Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if out.Value(over) != 1 {
		t.Errorf("over = %d, expected 1", out.Value(over))
	}
	if out.Objective != 5 {
		t.Errorf("Objective = %d, expected 5", out.Objective)
	}
}

func TestEnumEngine_Infeasible(t *testing.T) {
	m := cpmodel.NewModel()
	x := m.NewBoolVar("x")
	m.AddEquality(cpmodel.NewLinearExpr().Add(x), 1)
	m.AddEquality(cpmodel.NewLinearExpr().Add(x), 0)

	out, err := NewEnumEngine().Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if out.Status != StatusInfeasible {
		t.Errorf("Status = %v, expected INFEASIBLE", out.Status)
	}
	if out.HasSolution() {
		t.Error("HasSolution() = true, expected false")
	}
}

func TestEnumEngine_RejectsUnsupportedShapes(t *testing.T) {
	t.Run("同一约束两个整型变量", func(t *testing.T) {
		m := cpmodel.NewModel()
		a := m.NewIntVar(0, 5, "a")
		b := m.NewIntVar(0, 5, "b")
		m.AddEquality(cpmodel.NewLinearExpr().Add(a).Add(b), 3)

		if _, err := NewEnumEngine().Solve(context.Background(), m, Options{}); err == nil {
			t.Error("Solve() = nil error, expected error")
		}
	})

	t.Run("布尔规模超限", func(t *testing.T) {
		m := cpmodel.NewModel()
		for i := 0; i <= MaxEnumBools; i++ {
			m.NewBoolVar("x")
		}
		if _, err := NewEnumEngine().Solve(context.Background(), m, Options{}); err == nil {
			t.Error("Solve() = nil error, expected error")
		}
	})
}

func TestEnumEngine_Deterministic(t *testing.T) {
	build := func() *cpmodel.Model {
		m := cpmodel.NewModel()
		x := m.NewBoolVar("x")
		y := m.NewBoolVar("y")
		z := m.NewBoolVar("z")
		m.AddAtLeastOne(x, y, z)
		m.AddObjectiveTerm(x, 2)
		m.AddObjectiveTerm(y, 2)
		m.AddObjectiveTerm(z, 2)
		return m
	}

	e := NewEnumEngine()
	first, err := e.Solve(context.Background(), build(), Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	second, err := e.Solve(context.Background(), build(), Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if first.Objective != second.Objective {
		t.Errorf("两次目标值 = %d, %d, expected 相同", first.Objective, second.Objective)
	}
	for i := range first.Values {
		if first.Values[i] != second.Values[i] {
			t.Errorf("变量 %d 取值不一致: %d vs %d", i, first.Values[i], second.Values[i])
		}
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{}.WithDefaults()
	if o.TimeLimit != DefaultTimeLimit {
		t.Errorf("TimeLimit = %v, expected %v", o.TimeLimit, DefaultTimeLimit)
	}
	if o.Seed != 1 {
		t.Errorf("Seed = %d, expected 1", o.Seed)
	}

	o = Options{TimeLimit: DefaultTimeLimit * 2, Seed: 42}.WithDefaults()
	if o.TimeLimit != DefaultTimeLimit*2 || o.Seed != 42 {
		t.Errorf("显式选项被覆盖: %+v", o)
	}
}
