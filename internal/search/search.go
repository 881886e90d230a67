// Package search selects the candidate pool for a search strategy.
package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/types"
)

// Default result sizes per mode.
const (
	DefaultSearchLimit = 50
	DefaultRecentLimit = 20
)

// Repository is the candidate storage the searcher reads from.
type Repository interface {
	NearestCandidates(ctx context.Context, jobID uuid.UUID, limit int) ([]types.CandidateSummary, error)
	SearchCandidatesByKeywords(ctx context.Context, keywords, skills []string, limit int) ([]types.CandidateSummary, error)
	RecentCandidates(ctx context.Context, limit int) ([]types.CandidateSummary, error)
}

// Result is the candidate pool plus the mode that produced it.
type Result struct {
	Mode       types.SearchMode
	Candidates []types.CandidateSummary
}

// Searcher picks a search mode from the strategy and queries the repository.
type Searcher struct {
	repo        Repository
	searchLimit int
	recentLimit int
	logger      *zap.Logger
}

// NewSearcher creates a searcher. Non-positive limits use the defaults.
func NewSearcher(repo Repository, searchLimit, recentLimit int, log *zap.Logger) *Searcher {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Searcher{repo: repo, searchLimit: searchLimit, recentLimit: recentLimit, logger: logger.OrNop(log)}
}

// ModeFor reports which mode Search will use for a strategy. A source job
// without a stored embedding is matched on its skills instead.
func ModeFor(strategy *types.SearchStrategy) types.SearchMode {
	switch {
	case strategy.HasSourceJob() && strategy.SourceJobEmbedded:
		return types.SearchModeVector
	case strategy.HasSourceJob():
		if len(strategy.RequiredSkills) == 0 && len(strategy.OptionalSkills) == 0 {
			return types.SearchModeRecent
		}
		return types.SearchModeKeyword
	case strategy == nil || (len(strategy.Keywords) == 0 && len(strategy.RequiredSkills) == 0):
		return types.SearchModeRecent
	default:
		return types.SearchModeKeyword
	}
}

// Search returns candidates for the strategy. An empty pool is not an error.
func (s *Searcher) Search(ctx context.Context, strategy *types.SearchStrategy) (*Result, error) {
	mode := ModeFor(strategy)

	var (
		candidates []types.CandidateSummary
		err        error
	)
	switch mode {
	case types.SearchModeVector:
		candidates, err = s.repo.NearestCandidates(ctx, *strategy.SourceJobID, s.searchLimit)
	case types.SearchModeKeyword:
		if strategy.HasSourceJob() {
			candidates, err = s.repo.SearchCandidatesByKeywords(ctx, nil, strategy.JobSkills(), s.searchLimit)
		} else {
			candidates, err = s.repo.SearchCandidatesByKeywords(ctx, strategy.Keywords, strategy.RequiredSkills, s.searchLimit)
		}
	default:
		candidates, err = s.repo.RecentCandidates(ctx, s.recentLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates (%s): %w", mode, err)
	}
	if candidates == nil {
		candidates = []types.CandidateSummary{}
	}

	s.logger.Debug("candidate search finished",
		zap.String("mode", string(mode)),
		zap.Int("count", len(candidates)))

	return &Result{Mode: mode, Candidates: candidates}, nil
}

// IDs returns the candidate ids in result order.
func (r *Result) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Candidates))
	for i, c := range r.Candidates {
		ids[i] = c.ID
	}
	return ids
}
