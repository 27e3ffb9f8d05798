// RosterCP 排班求解命令行工具
// 从 JSON 输入文件求解并写出排班结果

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rostercp/rostercp/internal/loader"
	"github.com/rostercp/rostercp/pkg/logger"
	"github.com/rostercp/rostercp/pkg/roster"
	"github.com/rostercp/rostercp/pkg/solver"
)

func main() {
	var (
		inputDir   = flag.String("input", ".", "输入目录（staff.json / shifts.json / constraints.json）")
		outputPath = flag.String("output", "", "结果输出路径，缺省为输入目录下的 assignments.json")
		engineName = flag.String("engine", "gokando", "求解引擎（gokando/enum）")
		timeLimit  = flag.Duration("time-limit", solver.DefaultTimeLimit, "求解时间预算")
		seed       = flag.Int64("seed", 1, "搜索随机种子")
		workers    = flag.Int("workers", 0, "并行搜索线程数，0 为引擎默认")
		logLevel   = flag.String("log-level", "info", "日志级别")
	)
	flag.Parse()

	logger.Init(logger.Config{Level: *logLevel, Format: "console"})

	input, err := loader.LoadDir(*inputDir)
	if err != nil {
		fatal("加载输入失败", err)
	}

	var engine solver.Engine
	switch *engineName {
	case "enum":
		engine = solver.NewEnumEngine()
	case "gokando":
		engine = solver.NewGokandoEngine()
	default:
		fatal("未知引擎", fmt.Errorf("%q 不在 gokando/enum 之中", *engineName))
	}

	gen := roster.NewGenerator(engine, solver.Options{
		TimeLimit: *timeLimit,
		Seed:      *seed,
		Workers:   *workers,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeLimit+5*time.Second)
	defer cancel()

	result, err := gen.Generate(ctx, input.Staff, input.Shifts, input.Constraints)
	if err != nil {
		fatal("求解失败", err)
	}

	out := *outputPath
	if out == "" {
		out = filepath.Join(*inputDir, loader.AssignmentsFile)
	}
	if err := loader.WriteAssignments(out, result); err != nil {
		fatal("写出结果失败", err)
	}

	shortage := 0
	for _, c := range result.Coverage {
		shortage += c.Shortage
	}
	logger.Info().
		Str("status", string(result.Status)).
		Int64("objective", result.Objective).
		Str("wall_time", result.WallTime).
		Int("shortage", shortage).
		Str("output", out).
		Msg("排班求解完成")
}

// fatal 输出错误并退出
func fatal(msg string, err error) {
	logger.WithError(err).Msg(msg)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
