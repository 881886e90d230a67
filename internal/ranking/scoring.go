// Package ranking scores and orders candidates against a job target.
package ranking

import (
	"math"
	"strings"
	"time"

	"github.com/jonathan/hiring-agent/internal/parsing"
	"github.com/jonathan/hiring-agent/internal/types"
)

// Weights for the full scoring path. They sum to 1.0.
const (
	similarityWeight   = 0.40
	skillOverlapWeight = 0.35
	experienceWeight   = 0.25
)

// Weights for the fallback scoring path. They sum to 1.0.
const (
	fallbackSkillWeight      = 0.5
	fallbackExperienceWeight = 0.3
	fallbackRecencyWeight    = 0.2
)

const (
	// FallbackThreshold is the minimum fallback score a candidate needs to be kept.
	FallbackThreshold = 0.3
	// recencyWindowDays is how long a newly added candidate keeps any recency credit.
	recencyWindowDays = 30
	// fallbackBaselineYears stands in for the minimum when a fallback strategy sets none.
	fallbackBaselineYears = 1.0
)

// computeSkillOverlap compares the target skill set against a candidate's skills.
// Returns the overlap score (0-1), matched skills, and missing skills, both in target order.
func computeSkillOverlap(targetSkills []string, candidateSkills []string) (float64, []string, []string) {
	matched := make([]string, 0)
	missing := make([]string, 0)
	if len(targetSkills) == 0 {
		return 0.0, matched, missing
	}

	have := make(map[string]bool, len(candidateSkills))
	for _, skill := range candidateSkills {
		if normalized := parsing.NormalizeSkillName(skill); normalized != "" {
			have[normalized] = true
		}
	}

	for _, skill := range targetSkills {
		if have[skill] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return float64(len(matched)) / float64(len(targetSkills)), matched, missing
}

// computeExperience returns the clamped experience score and the raw ratio.
// A target without a minimum counts as fully met.
func computeExperience(years, minYears float64) (float64, float64) {
	if minYears <= 0 {
		return 1.0, 1.0
	}
	ratio := years / minYears
	return math.Min(ratio, 1.0), ratio
}

// computeFinalScore combines the three components with the full-path weights.
func computeFinalScore(similarity, overlap, experience float64) float64 {
	return similarityWeight*similarity + skillOverlapWeight*overlap + experienceWeight*experience
}

// computeRecency decays linearly from 1 for a candidate added today to 0 after recencyWindowDays.
func computeRecency(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0.0
	}
	days := math.Floor(now.Sub(createdAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return math.Max(0, 1-days/recencyWindowDays)
}

// clampUnit clamps v into [0, 1].
func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// passesFilters applies the hard filters. Unset filters always pass.
func passesFilters(c *types.CandidateSummary, f types.RankFilters) bool {
	if loc := strings.TrimSpace(f.Location); loc != "" {
		if !strings.Contains(strings.ToLower(c.Location), strings.ToLower(loc)) {
			return false
		}
	}
	if f.MinYearsExperience > 0 && c.TotalYearsExperience < f.MinYearsExperience {
		return false
	}
	if auth := strings.TrimSpace(f.WorkAuthorization); auth != "" {
		if !strings.EqualFold(strings.TrimSpace(c.WorkAuthorization), auth) {
			return false
		}
	}
	return true
}
