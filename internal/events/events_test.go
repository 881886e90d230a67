package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-agent/internal/types"
)

func TestActionEvent(t *testing.T) {
	action := &types.AgentAction{
		ID:        uuid.New(),
		GoalID:    uuid.New(),
		Type:      types.ActionSendOutreach,
		Status:    types.ActionStatusCompleted,
		CreatedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		Result: types.SendOutreachResult{
			CandidateID:    uuid.New(),
			CandidateName:  "Ada",
			Message:        "Hi Ada,",
			DeliveryStatus: types.DeliveryStatusSent,
		},
	}

	event := NewActionEvent(action)
	assert.Equal(t, "agent.action.send_outreach", event.Subject())

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, action.ID.String(), decoded["action_id"])
	assert.Equal(t, action.GoalID.String(), decoded["goal_id"])
	assert.Equal(t, "send_outreach", decoded["action_type"])
	result, ok := decoded["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", result["candidate_name"])
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), ActionEvent{}))
	p.Close()
}
