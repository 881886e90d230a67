package types

import (
	"time"

	"github.com/google/uuid"
)

// CandidateSummary is the read-only view of a candidate the agent works with.
type CandidateSummary struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email,omitempty"`
	Location             string    `json:"location,omitempty"`
	WorkAuthorization    string    `json:"work_authorization,omitempty"`
	Skills               []string  `json:"skills"`
	TotalYearsExperience float64   `json:"total_years_experience"`
	RawText              string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}

// JobDescription is a job opening stored by the repository.
type JobDescription struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Location           string    `json:"location,omitempty"`
	RequiredSkills     []string  `json:"required_skills"`
	OptionalSkills     []string  `json:"optional_skills"`
	MinYearsExperience float64   `json:"min_years_experience"`
	RawText            string    `json:"-"`
	HasEmbedding       bool      `json:"has_embedding"`
	CreatedAt          time.Time `json:"created_at"`
}
