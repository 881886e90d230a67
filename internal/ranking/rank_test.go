package ranking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/hiring-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeSimilarity returns fixed scores per candidate and records calls.
type fakeSimilarity struct {
	scores map[uuid.UUID]float64
	err    error
	failOn uuid.UUID
	calls  []uuid.UUID
}

func (f *fakeSimilarity) Similarity(_ context.Context, _ uuid.UUID, candidateID uuid.UUID) (float64, error) {
	f.calls = append(f.calls, candidateID)
	if f.err != nil {
		return 0, f.err
	}
	if candidateID == f.failOn {
		return 0, errors.New("model endpoint went away")
	}
	return f.scores[candidateID], nil
}

func jobTarget(required, optional []string, minYears float64) Target {
	id := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	return Target{JobID: &id, RequiredSkills: required, OptionalSkills: optional, MinYearsExperience: minYears}
}

func TestRank_WorkedExample(t *testing.T) {
	candidate := types.CandidateSummary{
		ID:                   uuid.New(),
		Name:                 "Ada",
		Skills:               []string{"python", "docker"},
		TotalYearsExperience: 4,
	}
	sim := &fakeSimilarity{scores: map[uuid.UUID]float64{candidate.ID: 0.6}}
	engine := NewEngine(sim, nil)

	ranked, err := engine.Rank(context.Background(),
		jobTarget([]string{"python", "aws"}, []string{"docker"}, 3),
		[]types.CandidateSummary{candidate}, types.RankFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	r := ranked[0]
	assert.InDelta(t, 0.6, r.SimilarityScore, 1e-9)
	assert.InDelta(t, 2.0/3.0, r.SkillOverlapScore, 1e-9)
	assert.InDelta(t, 1.0, r.ExperienceScore, 1e-9)
	assert.InDelta(t, 0.7233, r.FinalScore, 1e-4)
	assert.Equal(t, []string{"python", "docker"}, r.Explanation.MatchedSkills)
	assert.Equal(t, []string{"aws"}, r.Explanation.MissingSkills)
	assert.InDelta(t, 4.0/3.0, r.Explanation.ExperienceRatio, 1e-9)
	assert.Equal(t, r.SkillOverlapScore, r.Explanation.SimilarityBreakdown.SkillOverlap)
}

func TestRank_OrderingAndTieBreak(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	best := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	candidates := []types.CandidateSummary{
		{ID: high, Skills: []string{"python"}, TotalYearsExperience: 5},
		{ID: best, Skills: []string{"python", "aws"}, TotalYearsExperience: 5},
		{ID: low, Skills: []string{"python"}, TotalYearsExperience: 5},
	}

	engine := NewEngine(nil, nil)
	ranked, err := engine.Rank(context.Background(),
		Target{RequiredSkills: []string{"python", "aws"}, MinYearsExperience: 3},
		candidates, types.RankFilters{}, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, best, ranked[0].CandidateID)
	// equal scores fall back to ascending candidate id
	assert.Equal(t, low, ranked[1].CandidateID)
	assert.Equal(t, high, ranked[2].CandidateID)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].FinalScore, ranked[i].FinalScore)
	}
}

func TestRank_ScoresStayInRangeAndRecompute(t *testing.T) {
	candidates := make([]types.CandidateSummary, 0, 20)
	scores := make(map[uuid.UUID]float64)
	for i := 0; i < 20; i++ {
		c := types.CandidateSummary{
			ID:                   uuid.New(),
			Skills:               []string{"python", "redis", "aws", "git"}[:i%4+1],
			TotalYearsExperience: float64(i),
		}
		scores[c.ID] = float64(i) / 19.0
		candidates = append(candidates, c)
	}
	// an out-of-range provider score is clamped
	scores[candidates[0].ID] = 1.7

	engine := NewEngine(&fakeSimilarity{scores: scores}, nil)
	ranked, err := engine.Rank(context.Background(),
		jobTarget([]string{"python", "aws"}, []string{"docker"}, 6), candidates, types.RankFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 20)

	for _, r := range ranked {
		for _, v := range []float64{r.SimilarityScore, r.SkillOverlapScore, r.ExperienceScore, r.FinalScore} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		recomputed := 0.40*r.SimilarityScore + 0.35*r.SkillOverlapScore + 0.25*r.ExperienceScore
		assert.InDelta(t, recomputed, r.FinalScore, 1e-9)
	}
}

func TestRank_FiltersApplyBeforeScoring(t *testing.T) {
	remote := types.CandidateSummary{ID: uuid.New(), Location: "Remote", Skills: []string{"python"}, TotalYearsExperience: 5}
	onsite := types.CandidateSummary{ID: uuid.New(), Location: "Berlin", Skills: []string{"python", "aws"}, TotalYearsExperience: 10}
	junior := types.CandidateSummary{ID: uuid.New(), Location: "Remote", Skills: []string{"python"}, TotalYearsExperience: 1}

	sim := &fakeSimilarity{scores: map[uuid.UUID]float64{onsite.ID: 1.0}}
	engine := NewEngine(sim, nil)

	ranked, err := engine.Rank(context.Background(),
		jobTarget([]string{"python"}, nil, 0),
		[]types.CandidateSummary{remote, onsite, junior},
		types.RankFilters{Location: "remote", MinYearsExperience: 2}, 0)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, remote.ID, ranked[0].CandidateID)
	assert.Equal(t, []uuid.UUID{remote.ID}, sim.calls, "filtered candidates must never be scored")
}

func TestRank_ProviderUnavailableDegradesToZero(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sim := &fakeSimilarity{err: errors.New("connection refused")}
	engine := NewEngine(sim, zap.New(core))

	candidates := []types.CandidateSummary{
		{ID: uuid.New(), Skills: []string{"python"}},
		{ID: uuid.New(), Skills: []string{"aws"}},
	}
	ranked, err := engine.Rank(context.Background(), jobTarget([]string{"python"}, nil, 0), candidates, types.RankFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	for _, r := range ranked {
		assert.Zero(t, r.SimilarityScore)
	}
	assert.Len(t, sim.calls, 1)
	assert.Equal(t, 1, logs.FilterMessageSnippet("similarity unavailable").Len())
}

func TestRank_ProviderFailingMidwayZeroesEveryCandidate(t *testing.T) {
	first := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	second := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	sim := &fakeSimilarity{scores: map[uuid.UUID]float64{first: 0.9}, failOn: second}
	engine := NewEngine(sim, nil)

	candidates := []types.CandidateSummary{
		{ID: first, Skills: []string{"python"}, TotalYearsExperience: 5},
		{ID: second, Skills: []string{"python"}, TotalYearsExperience: 5},
	}
	ranked, err := engine.Rank(context.Background(), jobTarget([]string{"python"}, nil, 3), candidates, types.RankFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, []uuid.UUID{first, second}, sim.calls)
	for _, r := range ranked {
		assert.Zero(t, r.SimilarityScore)
		assert.Zero(t, r.Explanation.SimilarityBreakdown.Similarity)
		assert.InDelta(t, 0.35+0.25, r.FinalScore, 1e-9)
	}
	assert.Equal(t, ranked[0].FinalScore, ranked[1].FinalScore)
	assert.Equal(t, first, ranked[0].CandidateID)
}

func TestRank_NoJobMeansNoSimilarity(t *testing.T) {
	sim := &fakeSimilarity{scores: map[uuid.UUID]float64{}}
	engine := NewEngine(sim, nil)

	ranked, err := engine.Rank(context.Background(),
		Target{RequiredSkills: []string{"python"}},
		[]types.CandidateSummary{{ID: uuid.New(), Skills: []string{"python"}}}, types.RankFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Empty(t, sim.calls)
	assert.InDelta(t, 0.35+0.25, ranked[0].FinalScore, 1e-9)
}

func TestRank_TruncatesAfterSorting(t *testing.T) {
	candidates := make([]types.CandidateSummary, 60)
	for i := range candidates {
		candidates[i] = types.CandidateSummary{
			ID:                   uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i)),
			TotalYearsExperience: float64(i),
		}
	}

	engine := NewEngine(nil, nil)
	ranked, err := engine.Rank(context.Background(), Target{MinYearsExperience: 100}, candidates, types.RankFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, ranked, DefaultLimit)
	assert.Equal(t, candidates[59].ID, ranked[0].CandidateID)

	top3, err := engine.Rank(context.Background(), Target{MinYearsExperience: 100}, candidates, types.RankFilters{}, 3)
	require.NoError(t, err)
	require.Len(t, top3, 3)
	assert.Equal(t, candidates[57].ID, top3[2].CandidateID)
}

func TestRank_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(nil, nil)
	_, err := engine.Rank(ctx, Target{}, []types.CandidateSummary{{ID: uuid.New()}}, types.RankFilters{}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRank_EmptyInput(t *testing.T) {
	engine := NewEngine(nil, nil)
	ranked, err := engine.Rank(context.Background(), Target{}, nil, types.RankFilters{}, 0)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestTargetFromJobAndStrategy(t *testing.T) {
	job := &types.JobDescription{ID: uuid.New(), RequiredSkills: []string{"python"}, OptionalSkills: []string{"docker"}, MinYearsExperience: 3}
	target := TargetFromJob(job)
	require.NotNil(t, target.JobID)
	assert.Equal(t, job.ID, *target.JobID)
	assert.Equal(t, []string{"python", "docker"}, target.skillSet())

	freeText := TargetFromStrategy(&types.SearchStrategy{RequiredSkills: []string{"Py", "python"}, MinExperience: 2})
	assert.Nil(t, freeText.JobID)
	assert.Equal(t, []string{"python"}, freeText.skillSet())

	assert.Equal(t, Target{}, TargetFromJob(nil))
	assert.Equal(t, Target{}, TargetFromStrategy(nil))
}

func TestRankFallback(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	strategy := &types.SearchStrategy{RequiredSkills: []string{"python", "aws"}, MinExperience: 3}

	strong := types.CandidateSummary{ID: uuid.New(), Skills: []string{"python"}, TotalYearsExperience: 5, CreatedAt: now}
	older := types.CandidateSummary{ID: uuid.New(), Skills: []string{"python"}, TotalYearsExperience: 5, CreatedAt: now.Add(-15 * 24 * time.Hour)}
	weak := types.CandidateSummary{ID: uuid.New(), Skills: []string{"excel"}, TotalYearsExperience: 0, CreatedAt: now.Add(-60 * 24 * time.Hour)}

	ranked := RankFallback([]types.CandidateSummary{weak, older, strong}, strategy, now, 5)
	require.Len(t, ranked, 2)

	// 0.5*0.5 + 0.3*1 + 0.2*1
	assert.Equal(t, strong.ID, ranked[0].CandidateID)
	assert.InDelta(t, 0.75, ranked[0].FinalScore, 1e-9)
	// 0.5*0.5 + 0.3*1 + 0.2*0.5
	assert.Equal(t, older.ID, ranked[1].CandidateID)
	assert.InDelta(t, 0.65, ranked[1].FinalScore, 1e-9)
	assert.Equal(t, []string{"aws"}, ranked[0].Explanation.MissingSkills)
	assert.Zero(t, ranked[0].SimilarityScore)

	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.FinalScore, FallbackThreshold)
	}
}

func TestRankFallback_ThresholdBoundary(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	strategy := &types.SearchStrategy{}

	// no required skills, baseline of one year met, stale record: exactly 0.3
	atThreshold := types.CandidateSummary{ID: uuid.New(), TotalYearsExperience: 1, CreatedAt: now.Add(-90 * 24 * time.Hour)}
	// no experience at all against the baseline
	below := types.CandidateSummary{ID: uuid.New(), TotalYearsExperience: 0, CreatedAt: now.Add(-90 * 24 * time.Hour)}

	ranked := RankFallback([]types.CandidateSummary{atThreshold, below}, strategy, now, 5)
	require.Len(t, ranked, 1)
	assert.Equal(t, atThreshold.ID, ranked[0].CandidateID)
}

func TestRankFallback_LimitAndNilStrategy(t *testing.T) {
	now := time.Now()
	candidates := make([]types.CandidateSummary, 8)
	for i := range candidates {
		candidates[i] = types.CandidateSummary{ID: uuid.New(), TotalYearsExperience: 2, CreatedAt: now}
	}

	ranked := RankFallback(candidates, nil, now, 5)
	assert.Len(t, ranked, 5)
}
