package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-agent/internal/types"
)

// AppendAction inserts an immutable action record and returns it.
func (db *DB) AppendAction(ctx context.Context, goalID uuid.UUID, status types.ActionStatus, result types.ActionResult) (*types.AgentAction, error) {
	if result == nil {
		return nil, fmt.Errorf("action result is required")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action result: %w", err)
	}

	action := types.AgentAction{
		GoalID: goalID,
		Type:   result.ActionType(),
		Status: status,
		Result: result,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO agent_actions (goal_id, action_type, status, result)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		goalID, string(action.Type), string(status), resultJSON,
	).Scan(&action.ID, &action.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append %s action: %w", action.Type, err)
	}
	return &action, nil
}

// ListActions returns a goal's actions in chronological order.
func (db *DB) ListActions(ctx context.Context, goalID uuid.UUID) ([]types.AgentAction, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, goal_id, action_type, status, result, created_at
		 FROM agent_actions
		 WHERE goal_id = $1
		 ORDER BY created_at ASC, id ASC`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	actions := []types.AgentAction{}
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}

func scanAction(row pgx.Row) (*types.AgentAction, error) {
	var a types.AgentAction
	var actionType, status string
	var resultJSON []byte
	if err := row.Scan(&a.ID, &a.GoalID, &actionType, &status, &resultJSON, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan action: %w", err)
	}
	a.Type = types.ActionType(actionType)
	a.Status = types.ActionStatus(status)

	result, err := types.DecodeActionResult(a.Type, resultJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode action %s: %w", a.ID, err)
	}
	a.Result = result
	return &a, nil
}

// CountActionsSince counts actions created at or after since.
func (db *DB) CountActionsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM agent_actions WHERE created_at >= $1`, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}

// CountActionsByType counts all actions of one type.
func (db *DB) CountActionsByType(ctx context.Context, actionType types.ActionType) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM agent_actions WHERE action_type = $1`, string(actionType)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}

// LastActionTime returns the creation time of the newest action, or nil when there are none.
func (db *DB) LastActionTime(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	if err := db.pool.QueryRow(ctx,
		`SELECT MAX(created_at) FROM agent_actions`).Scan(&last); err != nil {
		return nil, fmt.Errorf("failed to get last action time: %w", err)
	}
	return last, nil
}
