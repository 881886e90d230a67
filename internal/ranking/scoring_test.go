package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/jonathan/hiring-agent/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, similarityWeight+skillOverlapWeight+experienceWeight, 1e-9)
	assert.InDelta(t, 1.0, fallbackSkillWeight+fallbackExperienceWeight+fallbackRecencyWeight, 1e-9)
}

func TestComputeSkillOverlap(t *testing.T) {
	tests := []struct {
		name            string
		target          []string
		candidate       []string
		expectedScore   float64
		expectedMatched []string
		expectedMissing []string
	}{
		{"empty target", nil, []string{"python"}, 0, []string{}, []string{}},
		{"full match", []string{"python", "aws"}, []string{"AWS", "Python"}, 1, []string{"python", "aws"}, []string{}},
		{"partial match", []string{"python", "aws", "docker"}, []string{"python", "docker"}, 2.0 / 3.0, []string{"python", "docker"}, []string{"aws"}},
		{"variants normalized", []string{"kubernetes", "postgresql"}, []string{"k8s", "postgres"}, 1, []string{"kubernetes", "postgresql"}, []string{}},
		{"no candidate skills", []string{"python"}, nil, 0, []string{}, []string{"python"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, matched, missing := computeSkillOverlap(tt.target, tt.candidate)
			assert.InDelta(t, tt.expectedScore, score, 1e-9)
			assert.Equal(t, tt.expectedMatched, matched)
			assert.Equal(t, tt.expectedMissing, missing)
		})
	}
}

func TestComputeExperience(t *testing.T) {
	tests := []struct {
		name          string
		years         float64
		minYears      float64
		expectedScore float64
		expectedRatio float64
	}{
		{"no minimum", 0, 0, 1, 1},
		{"negative minimum", 2, -1, 1, 1},
		{"below minimum", 3, 5, 0.6, 0.6},
		{"above minimum is clamped", 10, 5, 1, 2},
		{"exact", 5, 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ratio := computeExperience(tt.years, tt.minYears)
			assert.InDelta(t, tt.expectedScore, score, 1e-9)
			assert.InDelta(t, tt.expectedRatio, ratio, 1e-9)
		})
	}
}

func TestComputeRecency(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1.0, computeRecency(now, now))
	assert.Equal(t, 1.0, computeRecency(now.Add(-23*time.Hour), now))
	assert.InDelta(t, 0.5, computeRecency(now.Add(-15*24*time.Hour), now), 1e-9)
	assert.Equal(t, 0.0, computeRecency(now.Add(-30*24*time.Hour), now))
	assert.Equal(t, 0.0, computeRecency(now.Add(-90*24*time.Hour), now))
	assert.Equal(t, 1.0, computeRecency(now.Add(48*time.Hour), now))
	assert.Equal(t, 0.0, computeRecency(time.Time{}, now))
}

func TestClampUnit(t *testing.T) {
	assert.Equal(t, 0.0, clampUnit(-0.2))
	assert.Equal(t, 0.0, clampUnit(math.NaN()))
	assert.Equal(t, 0.4, clampUnit(0.4))
	assert.Equal(t, 1.0, clampUnit(1.3))
}

func TestPassesFilters(t *testing.T) {
	candidate := &types.CandidateSummary{
		Location:             "San Francisco, CA",
		WorkAuthorization:    "US Citizen",
		TotalYearsExperience: 4,
	}

	tests := []struct {
		name     string
		filters  types.RankFilters
		expected bool
	}{
		{"no filters", types.RankFilters{}, true},
		{"location substring", types.RankFilters{Location: "francisco"}, true},
		{"location mismatch", types.RankFilters{Location: "Berlin"}, false},
		{"min years met", types.RankFilters{MinYearsExperience: 4}, true},
		{"min years not met", types.RankFilters{MinYearsExperience: 5}, false},
		{"work auth case-insensitive", types.RankFilters{WorkAuthorization: "us citizen"}, true},
		{"work auth must be exact", types.RankFilters{WorkAuthorization: "US"}, false},
		{"all filters", types.RankFilters{Location: "CA", MinYearsExperience: 3, WorkAuthorization: "US Citizen"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, passesFilters(candidate, tt.filters))
		})
	}
}
