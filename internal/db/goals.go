package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-agent/internal/types"
)

// GoalInput holds the fields needed to create a goal.
type GoalInput struct {
	Title           string
	Description     string
	TargetPositions int
	Deadline        time.Time
	Priority        types.Priority
}

const goalColumns = `id, title, description, target_positions, deadline, priority, status, created_at`

func scanGoal(row pgx.Row) (*types.Goal, error) {
	var g types.Goal
	var priority, status string
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.TargetPositions, &g.Deadline, &priority, &status, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.Priority = types.Priority(priority)
	g.Status = types.GoalStatus(status)
	return &g, nil
}

// CreateGoal inserts a new active goal.
func (db *DB) CreateGoal(ctx context.Context, input *GoalInput) (*types.Goal, error) {
	priority := input.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}

	goal, err := scanGoal(db.pool.QueryRow(ctx,
		`INSERT INTO agent_goals (title, description, target_positions, deadline, priority, status)
		 VALUES ($1, $2, $3, $4, $5, 'active')
		 RETURNING `+goalColumns,
		input.Title, input.Description, input.TargetPositions, input.Deadline, string(priority),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

// GetGoal retrieves a goal by ID. Returns (nil, nil) when it does not exist.
func (db *DB) GetGoal(ctx context.Context, id uuid.UUID) (*types.Goal, error) {
	goal, err := scanGoal(db.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM agent_goals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns goals newest first, optionally filtered by status.
func (db *DB) ListGoals(ctx context.Context, status types.GoalStatus, limit int) ([]types.Goal, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + goalColumns + ` FROM agent_goals`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []types.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// UpdateGoalStatus sets a goal's status. Returns false when the goal does not exist.
func (db *DB) UpdateGoalStatus(ctx context.Context, id uuid.UUID, status types.GoalStatus) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE agent_goals SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return false, fmt.Errorf("failed to update goal status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// CountGoalsByStatus returns the number of goals with the given status.
func (db *DB) CountGoalsByStatus(ctx context.Context, status types.GoalStatus) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM agent_goals WHERE status = $1`, string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count goals: %w", err)
	}
	return count, nil
}
