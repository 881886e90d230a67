package ranking

import (
	"math"
	"time"

	"github.com/jonathan/hiring-agent/internal/parsing"
	"github.com/jonathan/hiring-agent/internal/types"
)

// FallbackScore scores a candidate without a similarity signal:
// required-skill overlap, clamped experience ratio and recency of the candidate record.
func FallbackScore(c *types.CandidateSummary, strategy *types.SearchStrategy, now time.Time) (float64, types.Explanation) {
	required := parsing.NormalizeSkills(strategy.RequiredSkills)
	overlap, matched, missing := computeSkillOverlap(required, c.Skills)

	minYears := strategy.MinExperience
	if minYears <= 0 {
		minYears = fallbackBaselineYears
	}
	ratio := c.TotalYearsExperience / minYears
	experience := math.Min(ratio, 1.0)

	recency := computeRecency(c.CreatedAt, now)

	score := fallbackSkillWeight*overlap + fallbackExperienceWeight*experience + fallbackRecencyWeight*recency

	return score, types.Explanation{
		MatchedSkills:   matched,
		MissingSkills:   missing,
		ExperienceRatio: ratio,
		SimilarityBreakdown: types.SimilarityBreakdown{
			Similarity:      0,
			SkillOverlap:    overlap,
			ExperienceMatch: experience,
		},
	}
}

// RankFallback scores candidates with FallbackScore, drops those below
// FallbackThreshold, and returns at most limit results in ranking order.
func RankFallback(candidates []types.CandidateSummary, strategy *types.SearchStrategy, now time.Time, limit int) []types.RankedCandidate {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if strategy == nil {
		strategy = &types.SearchStrategy{}
	}

	ranked := make([]types.RankedCandidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		score, explanation := FallbackScore(c, strategy, now)
		if score < FallbackThreshold {
			continue
		}
		ranked = append(ranked, types.RankedCandidate{
			CandidateID:          c.ID,
			Name:                 c.Name,
			Email:                c.Email,
			Location:             c.Location,
			Skills:               c.Skills,
			TotalYearsExperience: c.TotalYearsExperience,
			SimilarityScore:      0,
			SkillOverlapScore:    explanation.SimilarityBreakdown.SkillOverlap,
			ExperienceScore:      explanation.SimilarityBreakdown.ExperienceMatch,
			FinalScore:           score,
			Explanation:          explanation,
		})
	}

	sortRanked(ranked)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
