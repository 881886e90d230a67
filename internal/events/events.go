// Package events publishes agent actions to downstream collaborators such as
// outreach delivery and follow-up schedulers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-agent/internal/types"
)

// SubjectPrefix prefixes every action subject.
const SubjectPrefix = "agent.action."

// ActionEvent is emitted after an action has been appended to the log.
type ActionEvent struct {
	ActionID   uuid.UUID          `json:"action_id"`
	GoalID     uuid.UUID          `json:"goal_id"`
	ActionType types.ActionType   `json:"action_type"`
	CreatedAt  time.Time          `json:"created_at"`
	Result     types.ActionResult `json:"result"`
}

// NewActionEvent builds the event for a stored action.
func NewActionEvent(action *types.AgentAction) ActionEvent {
	return ActionEvent{
		ActionID:   action.ID,
		GoalID:     action.GoalID,
		ActionType: action.Type,
		CreatedAt:  action.CreatedAt,
		Result:     action.Result,
	}
}

// Subject returns the bus subject for the event, e.g. agent.action.send_outreach.
func (e ActionEvent) Subject() string {
	return SubjectPrefix + string(e.ActionType)
}

// Publisher sends action events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event ActionEvent) error
	Close()
}

// Noop discards events. Used when no bus is configured.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, ActionEvent) error { return nil }

// Close does nothing.
func (Noop) Close() {}
