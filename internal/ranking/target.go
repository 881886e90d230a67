package ranking

import (
	"github.com/google/uuid"

	"github.com/jonathan/hiring-agent/internal/parsing"
	"github.com/jonathan/hiring-agent/internal/types"
)

// Target is what candidates are ranked against: a stored job description or
// a search strategy derived from a goal.
type Target struct {
	JobID              *uuid.UUID
	RequiredSkills     []string
	OptionalSkills     []string
	MinYearsExperience float64
}

// TargetFromJob builds a ranking target from a job description.
func TargetFromJob(job *types.JobDescription) Target {
	if job == nil {
		return Target{}
	}
	id := job.ID
	return Target{
		JobID:              &id,
		RequiredSkills:     job.RequiredSkills,
		OptionalSkills:     job.OptionalSkills,
		MinYearsExperience: job.MinYearsExperience,
	}
}

// TargetFromStrategy builds a ranking target from a search strategy.
func TargetFromStrategy(s *types.SearchStrategy) Target {
	if s == nil {
		return Target{}
	}
	t := Target{
		RequiredSkills:     s.RequiredSkills,
		OptionalSkills:     s.OptionalSkills,
		MinYearsExperience: s.MinExperience,
	}
	if s.HasSourceJob() {
		id := *s.SourceJobID
		t.JobID = &id
	}
	return t
}

// skillSet returns required ∪ optional, normalized and deduplicated.
func (t Target) skillSet() []string {
	all := make([]string, 0, len(t.RequiredSkills)+len(t.OptionalSkills))
	all = append(all, t.RequiredSkills...)
	all = append(all, t.OptionalSkills...)
	return parsing.NormalizeSkills(all)
}
