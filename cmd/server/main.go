// RosterCP 排班求解服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rostercp/rostercp/internal/config"
	"github.com/rostercp/rostercp/internal/database"
	"github.com/rostercp/rostercp/internal/handler"
	"github.com/rostercp/rostercp/internal/metrics"
	"github.com/rostercp/rostercp/internal/repository"
	"github.com/rostercp/rostercp/pkg/logger"
	"github.com/rostercp/rostercp/pkg/solver"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.App.Env).
		Msg("RosterCP 排班求解服务启动中")

	// 求解引擎选择
	var engine solver.Engine
	switch cfg.Solver.Engine {
	case "enum":
		engine = solver.NewEnumEngine()
	default:
		engine = solver.NewGokandoEngine()
	}
	opts := solver.Options{
		TimeLimit: cfg.Solver.TimeLimit,
		Seed:      cfg.Solver.Seed,
		Workers:   cfg.Solver.Workers,
	}
	logger.Info().
		Str("engine", engine.Name()).
		Dur("time_limit", cfg.Solver.TimeLimit).
		Int64("seed", cfg.Solver.Seed).
		Msg("求解引擎就绪")

	// 数据库为可选依赖：连接失败时退化为无持久化模式
	var repo repository.RosterRepositoryInterface
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("数据库不可用，以无持久化模式运行")
	} else {
		defer db.Close()
		repo = repository.NewRosterRepository(db)
		go reportDBStats(db)
	}

	rosterHandler := handler.NewRosterHandler(engine, opts, repo)
	statsHandler := handler.NewStatsHandler()

	mux := http.NewServeMux()

	// 系统端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"rostercp"}`))
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// API v1 端点
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "RosterCP 排班求解 API v1",
			"endpoints": {
				"rosters": {
					"generate": "POST /api/v1/rosters/generate",
					"latest": "GET /api/v1/rosters/latest",
					"validate": "POST /api/v1/rosters/validate"
				},
				"stats": {
					"coverage": "POST /api/v1/stats/coverage",
					"fairness": "POST /api/v1/stats/fairness"
				}
			}
		}`))
	})
	mux.HandleFunc("/api/v1/rosters/generate", rosterHandler.Generate)
	mux.HandleFunc("/api/v1/rosters/latest", rosterHandler.Latest)
	mux.HandleFunc("/api/v1/rosters/validate", rosterHandler.Validate)
	mux.HandleFunc("/api/v1/stats/coverage", statsHandler.Coverage)
	mux.HandleFunc("/api/v1/stats/fairness", statsHandler.Fairness)

	// 监控端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// 中间件执行顺序：requestID -> cors -> logging -> handler
	root := requestIDMiddleware(corsMiddleware(loggingMiddleware(mux)))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// reportDBStats 周期性上报连接池状态
func reportDBStats(db *database.DB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		stats := db.Stats()
		metrics.SetDBConnections("open", stats.OpenConnections)
		metrics.SetDBConnections("idle", stats.Idle)
		metrics.SetDBConnections("in_use", stats.InUse)
	}
}

// requestIDMiddleware 请求ID追踪中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type requestIDKey struct{}

// loggingMiddleware 日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(requestIDKey{}).(string)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("请求处理")

		metrics.RecordRequest(r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

// responseWriter 包装ResponseWriter以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware CORS中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
