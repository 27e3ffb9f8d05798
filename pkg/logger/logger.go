// Package logger 提供统一的日志框架
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level 日志级别
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config 日志配置
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init 初始化日志器
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel 解析日志级别
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 获取日志器
func Get() *zerolog.Logger {
	if logger.GetLevel() == zerolog.Disabled {
		Init(DefaultConfig())
	}
	return &logger
}

// Debug 记录调试日志
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info 记录信息日志
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn 记录警告日志
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error 记录错误日志
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal 记录致命错误日志
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError 添加错误信息
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// SolverLogger 求解流程专用日志器
type SolverLogger struct {
	base *zerolog.Logger
}

// NewSolverLogger 创建求解日志器
func NewSolverLogger() *SolverLogger {
	l := Get().With().Str("component", "roster").Logger()
	return &SolverLogger{base: &l}
}

// BuildStarted 记录模型构建开始
func (l *SolverLogger) BuildStarted(staff, shifts int) {
	l.base.Info().
		Int("staff", staff).
		Int("shifts", shifts).
		Msg("开始构建约束模型")
}

// ModelBuilt 记录模型构建完成
func (l *SolverLogger) ModelBuilt(variables, constraints int) {
	l.base.Info().
		Int("variables", variables).
		Int("constraints", constraints).
		Msg("约束模型构建完成")
}

// NoEligibleStaff 记录某岗位需求无可用员工
func (l *SolverLogger) NoEligibleStaff(shiftID, role string) {
	l.base.Warn().
		Str("shift_id", shiftID).
		Str("role", role).
		Msg("岗位需求没有可用员工，缺口按全额计入惩罚")
}

// SkillUncoverable 记录某技能需求无人具备
func (l *SolverLogger) SkillUncoverable(shiftID, role, skill string) {
	l.base.Warn().
		Str("shift_id", shiftID).
		Str("role", role).
		Str("skill", skill).
		Msg("没有可用员工具备该技能，强制计入错配惩罚")
}

// SolveFinished 记录求解结束
func (l *SolverLogger) SolveFinished(status string, objective int64, duration time.Duration) {
	l.base.Info().
		Str("status", status).
		Int64("objective", objective).
		Dur("duration", duration).
		Msg("求解结束")
}

// ShortageWarning 记录排班结果中的缺口
func (l *SolverLogger) ShortageWarning(shiftID, role string, shortage int) {
	l.base.Warn().
		Str("shift_id", shiftID).
		Str("role", role).
		Int("shortage", shortage).
		Msg("班次存在人员缺口")
}
