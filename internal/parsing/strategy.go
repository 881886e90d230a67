package parsing

import (
	"strings"

	"github.com/jonathan/hiring-agent/internal/types"
)

// StrategyFromText infers a search strategy from free text such as a goal description.
func StrategyFromText(text string) types.SearchStrategy {
	return DefaultVocabulary().StrategyFromText(text)
}

// StrategyFromText infers a search strategy using this vocabulary.
func (v *Vocabulary) StrategyFromText(text string) types.SearchStrategy {
	req := v.AnalyzeText(text)
	return types.SearchStrategy{
		Source:          types.StrategySourceFreeText,
		Keywords:        req.Keywords,
		RequiredSkills:  req.Skills,
		OptionalSkills:  []string{},
		MinExperience:   req.YearsExperience,
		LocationHints:   req.LocationHints,
		ExperienceLevel: req.ExperienceLevel,
	}
}

// StrategyFromJob builds a search strategy from a stored job description.
func StrategyFromJob(jd *types.JobDescription) types.SearchStrategy {
	id := jd.ID
	hints := []string{}
	if loc := strings.TrimSpace(jd.Location); loc != "" {
		hints = append(hints, loc)
	}
	minYears := jd.MinYearsExperience
	if minYears < 0 {
		minYears = 0
	}
	return types.SearchStrategy{
		Source:          types.StrategySourceJobDescription,
		SourceJobID:     &id,
		Keywords:        []string{},
		RequiredSkills:  NormalizeSkills(jd.RequiredSkills),
		OptionalSkills:  NormalizeSkills(jd.OptionalSkills),
		MinExperience:   minYears,
		LocationHints:   hints,
		ExperienceLevel: InferExperienceLevel(jd.Title + " " + jd.RawText),

		SourceJobEmbedded: jd.HasEmbedding,
	}
}
