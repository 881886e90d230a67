package types

import "github.com/google/uuid"

// RankFilters are hard filters applied before any scoring.
// Zero values mean "not set".
type RankFilters struct {
	Location           string  `json:"location,omitempty"`
	MinYearsExperience float64 `json:"min_years_experience,omitempty" validate:"gte=0"`
	WorkAuthorization  string  `json:"work_authorization,omitempty"`
}

// SimilarityBreakdown lists the component scores behind a final score.
type SimilarityBreakdown struct {
	Similarity      float64 `json:"similarity"`
	SkillOverlap    float64 `json:"skill_overlap"`
	ExperienceMatch float64 `json:"experience_match"`
}

// Explanation describes why a candidate received its score.
type Explanation struct {
	MatchedSkills       []string            `json:"matched_skills"`
	MissingSkills       []string            `json:"missing_skills"`
	ExperienceRatio     float64             `json:"experience_ratio"`
	SimilarityBreakdown SimilarityBreakdown `json:"similarity_breakdown"`
}

// RankedCandidate is a scored candidate. It is never persisted directly.
type RankedCandidate struct {
	CandidateID          uuid.UUID   `json:"candidate_id"`
	Name                 string      `json:"name"`
	Email                string      `json:"email,omitempty"`
	Location             string      `json:"location,omitempty"`
	Skills               []string    `json:"skills"`
	TotalYearsExperience float64     `json:"total_years_experience"`
	SimilarityScore      float64     `json:"similarity_score"`
	SkillOverlapScore    float64     `json:"skill_overlap_score"`
	ExperienceScore      float64     `json:"experience_score"`
	FinalScore           float64     `json:"final_score"`
	Explanation          Explanation `json:"explanation"`
}
