package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateGoalRequest is the body of a goal creation request.
type CreateGoalRequest struct {
	Title           string    `json:"title" validate:"required,min=1"`
	Description     string    `json:"description" validate:"required"`
	TargetPositions int       `json:"target_positions" validate:"required,gt=0"`
	Deadline        time.Time `json:"deadline" validate:"required"`
	Priority        string    `json:"priority,omitempty" validate:"omitempty,oneof=high medium low HIGH MEDIUM LOW"`
}

// CreateGoalResponse acknowledges a created goal. The run continues in the background.
type CreateGoalResponse struct {
	GoalID string     `json:"goal_id"`
	Status GoalStatus `json:"status"`
}

// RankRequest asks for candidates ranked against a job description.
type RankRequest struct {
	JobID   string      `json:"job_id" validate:"required,uuid"`
	Filters RankFilters `json:"filters"`
	Limit   int         `json:"limit,omitempty" validate:"gte=0,lte=200"`
}

// RankResponse is the result of a rank request. Job is nil when the job id is unknown.
type RankResponse struct {
	Job     *JobDescription   `json:"job"`
	Results []RankedCandidate `json:"results"`
}

// FeedbackRequest submits feedback on a candidate.
type FeedbackRequest struct {
	CandidateID   string  `json:"candidate_id" validate:"required,uuid"`
	FeedbackType  string  `json:"feedback_type" validate:"required"`
	FeedbackScore float64 `json:"feedback_score" validate:"gte=0,lte=1"`
	Notes         string  `json:"notes,omitempty"`
}

// UpdateGoalStatusRequest changes a goal's lifecycle status.
type UpdateGoalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed paused"`
}

// Validate validates the CreateGoalRequest using the validator.
func (r *CreateGoalRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RankRequest using the validator.
func (r *RankRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the FeedbackRequest using the validator.
func (r *FeedbackRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateGoalStatusRequest using the validator.
func (r *UpdateGoalStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
