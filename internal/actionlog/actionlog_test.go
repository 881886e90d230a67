package actionlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/hiring-agent/internal/events"
	"github.com/jonathan/hiring-agent/internal/types"
)

type memoryStore struct {
	mu      sync.Mutex
	actions []types.AgentAction
	err     error
}

func (m *memoryStore) AppendAction(_ context.Context, goalID uuid.UUID, status types.ActionStatus, result types.ActionResult) (*types.AgentAction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	action := types.AgentAction{
		ID:        uuid.New(),
		GoalID:    goalID,
		Type:      result.ActionType(),
		Status:    status,
		Result:    result,
		CreatedAt: time.Now(),
	}
	m.actions = append(m.actions, action)
	return &action, nil
}

func (m *memoryStore) ListActions(_ context.Context, goalID uuid.UUID) ([]types.AgentAction, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []types.AgentAction
	for _, a := range m.actions {
		if a.GoalID == goalID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []events.ActionEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.ActionEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Close() {}

func TestAppend(t *testing.T) {
	store := &memoryStore{}
	pub := &recordingPublisher{}
	log := New(store, pub, nil)
	goalID := uuid.New()

	id, err := log.Append(context.Background(), goalID, types.SearchCandidatesResult{Mode: types.SearchModeKeyword, Count: 0, CandidateIDs: []uuid.UUID{}})
	require.NoError(t, err)

	require.Len(t, store.actions, 1)
	stored := store.actions[0]
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, types.ActionSearchCandidates, stored.Type)
	assert.Equal(t, types.ActionStatusCompleted, stored.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, id, pub.events[0].ActionID)
	assert.Equal(t, "agent.action.search_candidates", pub.events[0].Subject())
}

func TestAppend_StoreFailureWritesNothing(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	pub := &recordingPublisher{}
	log := New(store, pub, nil)

	_, err := log.Append(context.Background(), uuid.New(), types.ScheduleFollowUpResult{Action: types.FollowUpCheckResponses})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule_follow_up")
	assert.Empty(t, pub.events)
}

func TestAppend_PublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &memoryStore{}
	log := New(store, &recordingPublisher{err: errors.New("nats down")}, zap.New(core))

	_, err := log.Append(context.Background(), uuid.New(), types.ScheduleFollowUpResult{Action: types.FollowUpCheckResponses})
	require.NoError(t, err)
	assert.Len(t, store.actions, 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish action event").Len())
}

func TestAppend_NilResult(t *testing.T) {
	_, err := New(&memoryStore{}, nil, nil).Append(context.Background(), uuid.New(), nil)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	store := &memoryStore{}
	log := New(store, nil, nil)
	goalID := uuid.New()

	_, err := log.Append(context.Background(), goalID, types.AnalyzeRequirementsResult{})
	require.NoError(t, err)
	_, err = log.Append(context.Background(), uuid.New(), types.AnalyzeRequirementsResult{})
	require.NoError(t, err)
	_, err = log.Append(context.Background(), goalID, types.SearchCandidatesResult{})
	require.NoError(t, err)

	actions, err := log.List(context.Background(), goalID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, types.ActionAnalyzeRequirements, actions[0].Type)
	assert.Equal(t, types.ActionSearchCandidates, actions[1].Type)

	none, err := log.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
