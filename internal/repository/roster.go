// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rostercp/rostercp/pkg/model"
	"github.com/rostercp/rostercp/pkg/roster"
)

// Roster 排班记录
type Roster struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"` // OPTIMAL/FEASIBLE
	Objective     int64     `json:"objective"`
	WallTime      string    `json:"wall_time"`
	TotalRequired int       `json:"total_required"`
	TotalAssigned int       `json:"total_assigned"`
	TotalShortage int       `json:"total_shortage"`
	Engine        string    `json:"engine"`
	Seed          int64     `json:"seed"`
	CreatedAt     time.Time `json:"created_at"`
}

// RosterAssignment 排班分配记录
type RosterAssignment struct {
	ID       uuid.UUID `json:"id"`
	RosterID uuid.UUID `json:"roster_id"`
	ShiftID  string    `json:"shift_id"`
	StaffIDs []string  `json:"staff_ids"`
}

// RosterRepositoryInterface 排班仓储接口
type RosterRepositoryInterface interface {
	Create(ctx context.Context, r *Roster, result *roster.Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*Roster, error)
	GetLatest(ctx context.Context) (*Roster, error)
	GetAssignments(ctx context.Context, rosterID uuid.UUID) (*model.Solution, error)
	List(ctx context.Context, filter ListFilter) ([]*Roster, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RosterRepository 排班仓储实现
type RosterRepository struct {
	db DB
}

// NewRosterRepository 创建排班仓储
func NewRosterRepository(db DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Create 持久化一次求解产出（排班记录 + 全部分配行）
func (r *RosterRepository) Create(ctx context.Context, record *Roster, result *roster.Result) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()
	record.Status = string(result.Status)
	record.Objective = result.Objective
	record.WallTime = result.WallTime
	for _, c := range result.Coverage {
		record.TotalRequired += c.Required
		record.TotalAssigned += c.Assigned
		record.TotalShortage += c.Shortage
	}

	query := `
		INSERT INTO rosters (
			id, status, objective, wall_time,
			total_required, total_assigned, total_shortage,
			engine, seed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.Status, record.Objective, record.WallTime,
		record.TotalRequired, record.TotalAssigned, record.TotalShortage,
		record.Engine, record.Seed, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建排班记录失败: %w", err)
	}

	for _, a := range result.Solution.Assignments {
		staffJSON, _ := json.Marshal(a.StaffIDs)
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO roster_assignments (id, roster_id, shift_id, staff_ids) VALUES ($1, $2, $3, $4)`,
			uuid.New(), record.ID, a.ShiftID, staffJSON,
		)
		if err != nil {
			return fmt.Errorf("创建排班分配失败: %w", err)
		}
	}
	return nil
}

// GetByID 根据ID获取排班记录
func (r *RosterRepository) GetByID(ctx context.Context, id uuid.UUID) (*Roster, error) {
	query := `
		SELECT id, status, objective, wall_time,
			total_required, total_assigned, total_shortage,
			engine, seed, created_at
		FROM rosters
		WHERE id = $1
	`
	return scanRoster(r.db.QueryRowContext(ctx, query, id))
}

// GetLatest 获取最近一次的排班记录
func (r *RosterRepository) GetLatest(ctx context.Context) (*Roster, error) {
	query := `
		SELECT id, status, objective, wall_time,
			total_required, total_assigned, total_shortage,
			engine, seed, created_at
		FROM rosters
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanRoster(r.db.QueryRowContext(ctx, query))
}

// GetAssignments 获取某次排班的全部分配
func (r *RosterRepository) GetAssignments(ctx context.Context, rosterID uuid.UUID) (*model.Solution, error) {
	query := `
		SELECT shift_id, staff_ids
		FROM roster_assignments
		WHERE roster_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, fmt.Errorf("查询排班分配失败: %w", err)
	}
	defer rows.Close()

	sol := &model.Solution{}
	for rows.Next() {
		var shiftID string
		var staffJSON []byte
		if err := rows.Scan(&shiftID, &staffJSON); err != nil {
			return nil, fmt.Errorf("读取排班分配失败: %w", err)
		}
		var staffIDs []string
		if err := json.Unmarshal(staffJSON, &staffIDs); err != nil {
			return nil, fmt.Errorf("解析分配员工列表失败: %w", err)
		}
		sol.Assignments = append(sol.Assignments, model.ShiftAssignment{
			ShiftID:  shiftID,
			StaffIDs: staffIDs,
		})
	}
	return sol, rows.Err()
}

// List 分页查询排班记录
func (r *RosterRepository) List(ctx context.Context, filter ListFilter) ([]*Roster, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM rosters`
	args := []interface{}{}
	where := ""
	if filter.Status != "" {
		where = " WHERE status = $1"
		args = append(args, filter.Status)
	}
	if err := r.db.QueryRowContext(ctx, countQuery+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计排班记录失败: %w", err)
	}

	query := `
		SELECT id, status, objective, wall_time,
			total_required, total_assigned, total_shortage,
			engine, seed, created_at
		FROM rosters` + where + fmt.Sprintf(`
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d`, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询排班记录失败: %w", err)
	}
	defer rows.Close()

	var rosters []*Roster
	for rows.Next() {
		record := &Roster{}
		if err := rows.Scan(
			&record.ID, &record.Status, &record.Objective, &record.WallTime,
			&record.TotalRequired, &record.TotalAssigned, &record.TotalShortage,
			&record.Engine, &record.Seed, &record.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("读取排班记录失败: %w", err)
		}
		rosters = append(rosters, record)
	}
	return rosters, total, rows.Err()
}

// Delete 删除排班记录及其分配
func (r *RosterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM roster_assignments WHERE roster_id = $1", id); err != nil {
		return fmt.Errorf("删除排班分配失败: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM rosters WHERE id = $1", id); err != nil {
		return fmt.Errorf("删除排班记录失败: %w", err)
	}
	return nil
}

// scanRoster 读取单行排班记录
func scanRoster(row *sql.Row) (*Roster, error) {
	record := &Roster{}
	err := row.Scan(
		&record.ID, &record.Status, &record.Objective, &record.WallTime,
		&record.TotalRequired, &record.TotalAssigned, &record.TotalShortage,
		&record.Engine, &record.Seed, &record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取排班记录失败: %w", err)
	}
	return record, nil
}
