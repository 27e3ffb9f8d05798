// Package model 定义排班求解核心的数据模型
package model

// ShiftAssignment 单个班次的分配结果
// StaffIDs 保持求解赋值顺序（即输入员工顺序）
type ShiftAssignment struct {
	ShiftID  string   `json:"shift_id"`
	StaffIDs []string `json:"staff_ids"`
}

// Solution 排班结果：班次到员工集合的映射
// 按输入班次顺序排列，创建后不可变
type Solution struct {
	Assignments []ShiftAssignment `json:"assignments"`
}

// StaffFor 返回某班次的已分配员工
func (s *Solution) StaffFor(shiftID string) []string {
	for _, a := range s.Assignments {
		if a.ShiftID == shiftID {
			return a.StaffIDs
		}
	}
	return nil
}

// TotalAssigned 返回所有班次的分配总人次
func (s *Solution) TotalAssigned() int {
	total := 0
	for _, a := range s.Assignments {
		total += len(a.StaffIDs)
	}
	return total
}

// IsAssigned 检查员工是否被分配到某班次
func (s *Solution) IsAssigned(staffID, shiftID string) bool {
	for _, id := range s.StaffFor(shiftID) {
		if id == staffID {
			return true
		}
	}
	return false
}
