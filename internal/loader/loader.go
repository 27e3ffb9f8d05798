// Package loader 提供排班输入输出文件的加载与写出
//
// 输入为三个 JSON 文件：员工列表、班次列表与约束配置。
// 加载只做结构解析与缺省值填充，语义校验由求解入口统一执行。
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rostercp/rostercp/pkg/errors"
	"github.com/rostercp/rostercp/pkg/model"
	"github.com/rostercp/rostercp/pkg/roster"
)

// 缺省文件名
const (
	StaffFile       = "staff.json"
	ShiftsFile      = "shifts.json"
	ConstraintsFile = "constraints.json"
	AssignmentsFile = "assignments.json"
)

// Input 一次求解的完整输入
type Input struct {
	Staff       []model.StaffMember      `json:"staff"`
	Shifts      []model.ShiftRequirement `json:"shifts"`
	Constraints *model.ConstraintConfig  `json:"constraints"`
}

// LoadStaff 加载员工列表
func LoadStaff(path string) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	if err := loadJSON(path, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// LoadShifts 加载班次列表
func LoadShifts(path string) ([]model.ShiftRequirement, error) {
	var shifts []model.ShiftRequirement
	if err := loadJSON(path, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// LoadConstraints 加载约束配置并填充缺省值
func LoadConstraints(path string) (*model.ConstraintConfig, error) {
	cfg := &model.ConstraintConfig{}
	if err := loadJSON(path, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadDir 从目录按缺省文件名加载完整输入
func LoadDir(dir string) (*Input, error) {
	staff, err := LoadStaff(filepath.Join(dir, StaffFile))
	if err != nil {
		return nil, err
	}
	shifts, err := LoadShifts(filepath.Join(dir, ShiftsFile))
	if err != nil {
		return nil, err
	}
	constraints, err := LoadConstraints(filepath.Join(dir, ConstraintsFile))
	if err != nil {
		return nil, err
	}
	return &Input{Staff: staff, Shifts: shifts, Constraints: constraints}, nil
}

// WriteAssignments 将排班结果写出为 JSON 文件
func WriteAssignments(path string, result *roster.Result) error {
	data, err := json.MarshalIndent(result.Solution.Assignments, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化排班结果失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写出排班结果失败: %w", err)
	}
	return nil
}

// ReadAssignments 读回排班结果文件
func ReadAssignments(path string) (*model.Solution, error) {
	var assignments []model.ShiftAssignment
	if err := loadJSON(path, &assignments); err != nil {
		return nil, err
	}
	return &model.Solution{Assignments: assignments}, nil
}

// loadJSON 读取并解析 JSON 文件
func loadJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.MissingFile(path)
		}
		return errors.Wrap(err, errors.CodeInvalidInput, fmt.Sprintf("读取文件 '%s' 失败", path))
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, fmt.Sprintf("解析文件 '%s' 失败", path))
	}
	return nil
}
