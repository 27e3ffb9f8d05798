// Package solver 提供约束模型的求解引擎边界
//
// 求解核心只依赖 Engine 接口；任何满足 pkg/cpmodel 能力集合的
// 约束/整数规划后端都可以替换接入。
package solver

import (
	"context"
	"time"

	"github.com/rostercp/rostercp/pkg/cpmodel"
)

// Status 求解状态
type Status string

const (
	// StatusOptimal 目标已被证明最优
	StatusOptimal Status = "OPTIMAL"
	// StatusFeasible 找到有效解但未证明最优
	StatusFeasible Status = "FEASIBLE"
	// StatusInfeasible 真硬约束无解
	StatusInfeasible Status = "INFEASIBLE"
	// StatusUnknown 预算耗尽且没有任何解
	StatusUnknown Status = "UNKNOWN"
)

// DefaultTimeLimit 默认求解时间预算
const DefaultTimeLimit = 10 * time.Second

// Options 求解选项
type Options struct {
	// TimeLimit 墙钟时间预算，超出后退化为已找到的最好解或失败
	TimeLimit time.Duration
	// Seed 搜索随机种子
	// 同一引擎 + 同一种子下目标值可复现；等价最优解之间的取舍由引擎内部搜索顺序决定
	Seed int64
	// Workers 并行搜索线程数（引擎支持时生效）
	Workers int
}

// WithDefaults 补齐缺省选项
func (o Options) WithDefaults() Options {
	if o.TimeLimit <= 0 {
		o.TimeLimit = DefaultTimeLimit
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	return o
}

// Outcome 求解结果
type Outcome struct {
	Status    Status        `json:"status"`
	Values    []int64       `json:"-"` // 按变量索引的取值，仅在有解时有效
	Objective int64         `json:"objective"`
	WallTime  time.Duration `json:"wall_time"`
}

// HasSolution 检查是否产出了有效赋值
func (o *Outcome) HasSolution() bool {
	return o.Status == StatusOptimal || o.Status == StatusFeasible
}

// Value 查询变量取值
func (o *Outcome) Value(v cpmodel.Var) int64 {
	return o.Values[v]
}

// BoolValue 查询布尔变量取值
func (o *Outcome) BoolValue(v cpmodel.Var) bool {
	return o.Values[v] != 0
}

// Engine 求解引擎接口
type Engine interface {
	// Name 返回引擎名称
	Name() string

	// Solve 在时间预算内求解模型
	// 引擎层失败（模型不受支持、内部错误）返回 error；
	// 不可行与超时通过 Outcome.Status 表达，不作为 error
	Solve(ctx context.Context, m *cpmodel.Model, opts Options) (*Outcome, error)
}
