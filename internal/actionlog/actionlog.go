// Package actionlog records the append-only history of what the agent did for a goal.
package actionlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/events"
	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/types"
)

// Store persists actions.
type Store interface {
	AppendAction(ctx context.Context, goalID uuid.UUID, status types.ActionStatus, result types.ActionResult) (*types.AgentAction, error)
	ListActions(ctx context.Context, goalID uuid.UUID) ([]types.AgentAction, error)
}

// Log appends actions and announces them on the event bus.
type Log struct {
	store     Store
	publisher events.Publisher
	logger    *zap.Logger
}

// New creates an action log. A nil publisher disables event publishing.
func New(store Store, publisher events.Publisher, log *zap.Logger) *Log {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Log{store: store, publisher: publisher, logger: logger.OrNop(log)}
}

// Append writes a completed action for goalID and returns its id. The action
// type comes from the result. Publishing happens after the write and its
// failure does not fail the append.
func (l *Log) Append(ctx context.Context, goalID uuid.UUID, result types.ActionResult) (uuid.UUID, error) {
	if result == nil {
		return uuid.Nil, fmt.Errorf("action result is required")
	}

	action, err := l.store.AppendAction(ctx, goalID, types.ActionStatusCompleted, result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to log %s action: %w", result.ActionType(), err)
	}

	l.logger.Debug("action logged",
		zap.String(logger.FieldGoalID, goalID.String()),
		zap.String(logger.FieldActionType, string(action.Type)),
		zap.String("action_id", action.ID.String()))

	if err := l.publisher.Publish(ctx, events.NewActionEvent(action)); err != nil {
		l.logger.Warn("failed to publish action event",
			zap.String(logger.FieldGoalID, goalID.String()),
			zap.String(logger.FieldActionType, string(action.Type)),
			zap.Error(err))
	}

	return action.ID, nil
}

// List returns a goal's actions in chronological order. Unknown goals yield an empty list.
func (l *Log) List(ctx context.Context, goalID uuid.UUID) ([]types.AgentAction, error) {
	actions, err := l.store.ListActions(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	if actions == nil {
		actions = []types.AgentAction{}
	}
	return actions, nil
}
