package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FeedbackType constants. Other values are accepted and stored as-is.
const (
	FeedbackHired              = "hired"
	FeedbackRejected           = "rejected"
	FeedbackInterviewScheduled = "interview_scheduled"
)

// Feedback is a recruiter's verdict on a candidate. Write-once.
type Feedback struct {
	ID            uuid.UUID `json:"id"`
	CandidateID   uuid.UUID `json:"candidate_id" validate:"required"`
	FeedbackType  string    `json:"feedback_type" validate:"required"`
	FeedbackScore float64   `json:"feedback_score" validate:"gte=0,lte=1"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate validates the Feedback using the validator.
func (f *Feedback) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}
