// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rostercp/rostercp/internal/metrics"
	"github.com/rostercp/rostercp/internal/repository"
	"github.com/rostercp/rostercp/pkg/errors"
	"github.com/rostercp/rostercp/pkg/logger"
	"github.com/rostercp/rostercp/pkg/model"
	"github.com/rostercp/rostercp/pkg/roster"
	"github.com/rostercp/rostercp/pkg/solver"
	"github.com/rostercp/rostercp/pkg/stats"
	"github.com/rostercp/rostercp/pkg/validator"
)

// RosterHandler 排班处理器
type RosterHandler struct {
	generator *roster.Generator
	engine    string
	seed      int64
	repo      repository.RosterRepositoryInterface // 可为 nil（无持久化模式）
}

// NewRosterHandler 创建排班处理器
func NewRosterHandler(engine solver.Engine, opts solver.Options, repo repository.RosterRepositoryInterface) *RosterHandler {
	return &RosterHandler{
		generator: roster.NewGenerator(engine, opts),
		engine:    engine.Name(),
		seed:      opts.WithDefaults().Seed,
		repo:      repo,
	}
}

// GenerateRequest 排班生成请求
type GenerateRequest struct {
	Staff       []model.StaffMember      `json:"staff"`
	Shifts      []model.ShiftRequirement `json:"shifts"`
	Constraints *model.ConstraintConfig  `json:"constraints"`
}

// GenerateResponse 排班生成响应
type GenerateResponse struct {
	Success  bool                   `json:"success"`
	RosterID string                 `json:"roster_id,omitempty"`
	Result   *roster.Result         `json:"result"`
	Coverage *stats.CoverageMetrics `json:"coverage_stats,omitempty"`
	Fairness *stats.FairnessMetrics `json:"fairness_stats,omitempty"`
}

// Generate 生成排班
func (h *RosterHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	start := time.Now()
	result, err := h.generator.Generate(r.Context(), req.Staff, req.Shifts, req.Constraints)
	if err != nil {
		metrics.RecordGeneration(h.engine, string(errors.GetCode(err)), time.Since(start))
		respondAppError(w, err)
		return
	}
	metrics.RecordGeneration(h.engine, string(result.Status), time.Since(start))
	metrics.SetObjective(h.engine, result.Objective)

	coverage := stats.NewCoverageAnalyzer().Analyze(result.Solution, req.Staff, req.Shifts)
	fairness := stats.NewFairnessAnalyzer(req.Constraints).Analyze(result.Solution, req.Staff, req.Shifts)
	metrics.SetCoverage(coverage.OverallCoverage, coverage.TotalShortage)

	resp := &GenerateResponse{
		Success:  true,
		Result:   result,
		Coverage: coverage,
		Fairness: fairness,
	}

	if h.repo != nil {
		record := &repository.Roster{Engine: h.engine, Seed: h.seed}
		if err := h.repo.Create(r.Context(), record, result); err != nil {
			// 持久化失败不影响响应，结果本身已经算出
			logger.WithError(err).Msg("排班记录持久化失败")
		} else {
			resp.RosterID = record.ID.String()
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Latest 查询最近一次排班
func (h *RosterHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.repo == nil {
		respondError(w, errors.New(errors.CodeNotFound, "未启用持久化"))
		return
	}

	record, err := h.repo.GetLatest(r.Context())
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询排班记录失败"))
		return
	}
	if record == nil {
		respondError(w, errors.New(errors.CodeNotFound, "暂无排班记录"))
		return
	}

	sol, err := h.repo.GetAssignments(r.Context(), record.ID)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询排班分配失败"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"roster":      record,
		"assignments": sol.Assignments,
	})
}

// ValidateRequest 排班验证请求
type ValidateRequest struct {
	Solution    *model.Solution          `json:"solution"`
	Staff       []model.StaffMember      `json:"staff"`
	Shifts      []model.ShiftRequirement `json:"shifts"`
	Constraints *model.ConstraintConfig  `json:"constraints"`
}

// Validate 验证已有排班
func (h *RosterHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if req.Solution == nil {
		respondError(w, errors.New(errors.CodeInvalidInput, "缺少 solution 字段"))
		return
	}

	conflicts := validator.NewConflictDetector(req.Constraints).DetectAll(req.Solution, req.Staff, req.Shifts)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":     len(conflicts) == 0,
		"conflicts": conflicts,
	})
}

// respondJSON 输出JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 输出应用错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}

// respondAppError 输出任意错误，非 AppError 按内部错误处理
func respondAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondError(w, appErr)
		return
	}
	respondError(w, errors.Wrap(err, errors.CodeInternal, "内部错误"))
}
