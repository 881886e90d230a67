//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoalRequest_Validation(t *testing.T) {
	deadline := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		request CreateGoalRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			request: CreateGoalRequest{
				Title:           "Backend Engineer",
				Description:     "senior python aws remote",
				TargetPositions: 2,
				Deadline:        deadline,
				Priority:        "high",
			},
		},
		{
			name: "priority is optional",
			request: CreateGoalRequest{
				Title:           "Backend Engineer",
				Description:     "python",
				TargetPositions: 1,
				Deadline:        deadline,
			},
		},
		{
			name: "missing title",
			request: CreateGoalRequest{
				Description:     "python",
				TargetPositions: 1,
				Deadline:        deadline,
			},
			wantErr: true,
			errMsg:  "Title",
		},
		{
			name: "zero target positions",
			request: CreateGoalRequest{
				Title:       "Backend Engineer",
				Description: "python",
				Deadline:    deadline,
			},
			wantErr: true,
			errMsg:  "TargetPositions",
		},
		{
			name: "missing deadline",
			request: CreateGoalRequest{
				Title:           "Backend Engineer",
				Description:     "python",
				TargetPositions: 1,
			},
			wantErr: true,
			errMsg:  "Deadline",
		},
		{
			name: "unknown priority",
			request: CreateGoalRequest{
				Title:           "Backend Engineer",
				Description:     "python",
				TargetPositions: 1,
				Deadline:        deadline,
				Priority:        "urgent",
			},
			wantErr: true,
			errMsg:  "Priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRankRequest_Validation(t *testing.T) {
	valid := RankRequest{JobID: "550e8400-e29b-41d4-a716-446655440000", Limit: 10}
	assert.NoError(t, valid.Validate())

	badID := RankRequest{JobID: "not-a-uuid"}
	assert.Error(t, badID.Validate())

	negativeYears := RankRequest{
		JobID:   "550e8400-e29b-41d4-a716-446655440000",
		Filters: RankFilters{MinYearsExperience: -1},
	}
	err := negativeYears.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MinYearsExperience")

	tooMany := RankRequest{JobID: "550e8400-e29b-41d4-a716-446655440000", Limit: 500}
	assert.Error(t, tooMany.Validate())
}

func TestFeedbackRequest_Validation(t *testing.T) {
	valid := FeedbackRequest{
		CandidateID:   "550e8400-e29b-41d4-a716-446655440000",
		FeedbackType:  FeedbackHired,
		FeedbackScore: 0.9,
	}
	assert.NoError(t, valid.Validate())

	outOfRange := valid
	outOfRange.FeedbackScore = 1.5
	assert.Error(t, outOfRange.Validate())

	missingType := valid
	missingType.FeedbackType = ""
	assert.Error(t, missingType.Validate())
}

func TestFeedback_Validation(t *testing.T) {
	tests := []struct {
		name     string
		feedback Feedback
		field    string
		message  string
	}{
		{"valid", Feedback{CandidateID: uuid.New(), FeedbackType: "offer_declined", FeedbackScore: 0}, "", ""},
		{"missing candidate", Feedback{FeedbackType: FeedbackHired, FeedbackScore: 0.5}, "candidate_id", "is required"},
		{"missing type", Feedback{CandidateID: uuid.New(), FeedbackScore: 0.5}, "feedback_type", "is required"},
		{"score above one", Feedback{CandidateID: uuid.New(), FeedbackType: FeedbackHired, FeedbackScore: 1.2}, "feedback_score", "must be at most 1"},
		{"negative score", Feedback{CandidateID: uuid.New(), FeedbackType: FeedbackHired, FeedbackScore: -0.1}, "feedback_score", "must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AsValidationError(tt.feedback.Validate())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}

func TestUpdateGoalStatusRequest_Validation(t *testing.T) {
	assert.NoError(t, (&UpdateGoalStatusRequest{Status: "paused"}).Validate())
	assert.Error(t, (&UpdateGoalStatusRequest{Status: "archived"}).Validate())
	assert.Error(t, (&UpdateGoalStatusRequest{}).Validate())
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	assert.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	p, err = ParsePriority(" HIGH ")
	assert.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestGoalStatus_Valid(t *testing.T) {
	assert.True(t, GoalStatusActive.Valid())
	assert.True(t, GoalStatusCompleted.Valid())
	assert.True(t, GoalStatusPaused.Valid())
	assert.False(t, GoalStatus("archived").Valid())
}
