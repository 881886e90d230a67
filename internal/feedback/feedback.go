// Package feedback records recruiter feedback and derives observational
// learning signals from it.
package feedback

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/types"
)

// Signal thresholds
const (
	SuccessScoreThreshold   = 0.8
	RejectionScoreThreshold = 0.3
)

// Store persists feedback.
type Store interface {
	InsertFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error)
}

// Signals counts the patterns observed so far. They are reported, never
// applied to ranking weights.
type Signals struct {
	SuccessPatterns   int `json:"success_patterns"`
	RejectionPatterns int `json:"rejection_patterns"`
}

// Learner persists feedback and tracks learning signals.
type Learner struct {
	store  Store
	logger *zap.Logger

	mu      sync.Mutex
	signals Signals
}

// NewLearner creates a learner.
func NewLearner(store Store, log *zap.Logger) *Learner {
	return &Learner{store: store, logger: logger.OrNop(log)}
}

// Learn validates and stores feedback, then records any signal it carries.
// Feedback for candidates the repository does not know is stored as well.
func (l *Learner) Learn(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	if err := validate(fb); err != nil {
		return nil, err
	}

	stored, err := l.store.InsertFeedback(ctx, fb)
	if err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	switch classify(stored) {
	case signalSuccess:
		l.mu.Lock()
		l.signals.SuccessPatterns++
		l.mu.Unlock()
		l.logger.Info("success pattern observed",
			zap.String(logger.FieldCandidateID, stored.CandidateID.String()),
			zap.Float64("feedback_score", stored.FeedbackScore))
	case signalRejection:
		l.mu.Lock()
		l.signals.RejectionPatterns++
		l.mu.Unlock()
		l.logger.Info("rejection pattern observed",
			zap.String(logger.FieldCandidateID, stored.CandidateID.String()),
			zap.Float64("feedback_score", stored.FeedbackScore))
	}

	return stored, nil
}

// Signals returns a snapshot of the counters.
func (l *Learner) Signals() Signals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.signals
}

type signal int

const (
	signalNone signal = iota
	signalSuccess
	signalRejection
)

func classify(fb *types.Feedback) signal {
	switch {
	case fb.FeedbackType == types.FeedbackHired && fb.FeedbackScore > SuccessScoreThreshold:
		return signalSuccess
	case fb.FeedbackType == types.FeedbackRejected && fb.FeedbackScore < RejectionScoreThreshold:
		return signalRejection
	}
	return signalNone
}

func validate(fb *types.Feedback) error {
	if fb == nil {
		return &types.ValidationError{Message: "feedback is required"}
	}
	return types.AsValidationError(fb.Validate())
}
