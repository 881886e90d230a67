package ranking

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/types"
)

// DefaultLimit is used when a caller passes a non-positive limit.
const DefaultLimit = 50

// SimilaritySource scores a candidate against a job by semantic similarity.
type SimilaritySource interface {
	Similarity(ctx context.Context, jobID, candidateID uuid.UUID) (float64, error)
}

// Engine ranks candidates with the full weighted score.
type Engine struct {
	similarity SimilaritySource
	logger     *zap.Logger
}

// NewEngine creates an engine. similarity may be nil, in which case every
// candidate gets a similarity of 0.
func NewEngine(similarity SimilaritySource, log *zap.Logger) *Engine {
	return &Engine{similarity: similarity, logger: logger.OrNop(log)}
}

// Rank filters candidates, scores the survivors against target, and returns
// at most limit results ordered by final score (desc) then candidate id (asc).
func (e *Engine) Rank(ctx context.Context, target Target, candidates []types.CandidateSummary, filters types.RankFilters, limit int) ([]types.RankedCandidate, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	targetSkills := target.skillSet()

	eligible := make([]*types.CandidateSummary, 0, len(candidates))
	for i := range candidates {
		if passesFilters(&candidates[i], filters) {
			eligible = append(eligible, &candidates[i])
		}
	}

	similarities, err := e.similarities(ctx, target, eligible)
	if err != nil {
		return nil, err
	}

	ranked := make([]types.RankedCandidate, 0, len(eligible))
	for i, c := range eligible {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		similarity := similarities[i]
		overlap, matched, missing := computeSkillOverlap(targetSkills, c.Skills)
		experience, ratio := computeExperience(c.TotalYearsExperience, target.MinYearsExperience)
		final := computeFinalScore(similarity, overlap, experience)

		ranked = append(ranked, types.RankedCandidate{
			CandidateID:          c.ID,
			Name:                 c.Name,
			Email:                c.Email,
			Location:             c.Location,
			Skills:               c.Skills,
			TotalYearsExperience: c.TotalYearsExperience,
			SimilarityScore:      similarity,
			SkillOverlapScore:    overlap,
			ExperienceScore:      experience,
			FinalScore:           final,
			Explanation: types.Explanation{
				MatchedSkills:   matched,
				MissingSkills:   missing,
				ExperienceRatio: ratio,
				SimilarityBreakdown: types.SimilarityBreakdown{
					Similarity:      similarity,
					SkillOverlap:    overlap,
					ExperienceMatch: experience,
				},
			},
		})
	}

	sortRanked(ranked)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// similarities scores every candidate against the target job. If the source
// fails for any candidate, every candidate gets 0 so one ranking never mixes
// scores with and without a similarity signal. Only context errors are returned.
func (e *Engine) similarities(ctx context.Context, target Target, candidates []*types.CandidateSummary) ([]float64, error) {
	scores := make([]float64, len(candidates))
	if target.JobID == nil || e.similarity == nil {
		return scores, nil
	}

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := e.similarity.Similarity(ctx, *target.JobID, c.ID)
		if err != nil {
			e.logger.Warn("similarity unavailable, ranking without similarity signal",
				zap.String(logger.FieldJobID, target.JobID.String()),
				zap.String(logger.FieldCandidateID, c.ID.String()),
				zap.Int("scored_before_failure", i),
				zap.Error(err))
			return make([]float64, len(candidates)), nil
		}
		scores[i] = clampUnit(score)
	}
	return scores, nil
}

// sortRanked orders by final score descending, breaking ties by candidate id ascending.
func sortRanked(ranked []types.RankedCandidate) {
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].CandidateID.String() < ranked[j].CandidateID.String()
	})
}
