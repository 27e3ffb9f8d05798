// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rostercp/rostercp/pkg/errors"
	"github.com/rostercp/rostercp/pkg/model"
	"github.com/rostercp/rostercp/pkg/stats"
)

// StatsHandler 统计分析处理器
type StatsHandler struct{}

// NewStatsHandler 创建统计分析处理器
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

// StatsRequest 统计分析请求
type StatsRequest struct {
	Solution    *model.Solution          `json:"solution"`
	Staff       []model.StaffMember      `json:"staff"`
	Shifts      []model.ShiftRequirement `json:"shifts"`
	Constraints *model.ConstraintConfig  `json:"constraints"`
}

// Coverage 覆盖率分析
func (h *StatsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	m := stats.NewCoverageAnalyzer().Analyze(req.Solution, req.Staff, req.Shifts)
	respondJSON(w, http.StatusOK, m)
}

// Fairness 公平性分析
func (h *StatsHandler) Fairness(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}
	m := stats.NewFairnessAnalyzer(req.Constraints).Analyze(req.Solution, req.Staff, req.Shifts)
	respondJSON(w, http.StatusOK, m)
}

// parse 解析统计请求
func (h *StatsHandler) parse(w http.ResponseWriter, r *http.Request) (*StatsRequest, bool) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return nil, false
	}
	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return nil, false
	}
	if req.Solution == nil {
		respondError(w, errors.New(errors.CodeInvalidInput, "缺少 solution 字段"))
		return nil, false
	}
	return &req, true
}
