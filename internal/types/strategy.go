package types

import "github.com/google/uuid"

// ExperienceLevel is the seniority inferred from a goal description.
type ExperienceLevel string

// ExperienceLevel constants
const (
	ExperienceLevelJunior ExperienceLevel = "junior"
	ExperienceLevelMid    ExperienceLevel = "mid"
	ExperienceLevelSenior ExperienceLevel = "senior"
)

// StrategySource records where a search strategy came from.
type StrategySource string

// StrategySource constants
const (
	StrategySourceJobDescription StrategySource = "job_description"
	StrategySourceFreeText       StrategySource = "free_text"
)

// SearchStrategy is derived once per pipeline run and never persisted on its own.
type SearchStrategy struct {
	Source          StrategySource  `json:"source"`
	SourceJobID     *uuid.UUID      `json:"source_job_id,omitempty"`
	Keywords        []string        `json:"keywords"`
	RequiredSkills  []string        `json:"required_skills"`
	OptionalSkills  []string        `json:"optional_skills"`
	MinExperience   float64         `json:"min_experience"`
	LocationHints   []string        `json:"location_hints"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`

	// SourceJobEmbedded is set when the source job has a stored embedding.
	SourceJobEmbedded bool `json:"-"`
}

// HasSourceJob reports whether the strategy was built from a job description.
func (s *SearchStrategy) HasSourceJob() bool {
	return s != nil && s.SourceJobID != nil && *s.SourceJobID != uuid.Nil
}

// JobSkills returns required then optional skills.
func (s *SearchStrategy) JobSkills() []string {
	skills := make([]string, 0, len(s.RequiredSkills)+len(s.OptionalSkills))
	skills = append(skills, s.RequiredSkills...)
	return append(skills, s.OptionalSkills...)
}
