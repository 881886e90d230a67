// Package agent is the service facade behind the HTTP API and CLI: goal
// creation, ranking, feedback, action history and agent status.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/dispatch"
	"github.com/jonathan/hiring-agent/internal/embedding"
	"github.com/jonathan/hiring-agent/internal/feedback"
	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/ranking"
	"github.com/jonathan/hiring-agent/internal/types"
)

// Defaults
const (
	DefaultRankPoolSize   = 200
	DefaultListLimit      = 100
	DefaultSimilarLimit   = 10
	MaxSimilarLimit       = 100
	recentActionsInterval = 24 * time.Hour
)

// Repository is the slice of the store the service reads and writes.
type Repository interface {
	CreateGoal(ctx context.Context, input *db.GoalInput) (*types.Goal, error)
	GetGoal(ctx context.Context, id uuid.UUID) (*types.Goal, error)
	ListGoals(ctx context.Context, status types.GoalStatus, limit int) ([]types.Goal, error)
	UpdateGoalStatus(ctx context.Context, id uuid.UUID, status types.GoalStatus) (bool, error)
	CountGoalsByStatus(ctx context.Context, status types.GoalStatus) (int, error)

	GetJobDescription(ctx context.Context, id uuid.UUID) (*types.JobDescription, error)
	NearestCandidates(ctx context.Context, jobID uuid.UUID, limit int) ([]types.CandidateSummary, error)
	NearestCandidatesToVector(ctx context.Context, vec []float32, limit int) ([]types.CandidateSummary, error)
	SearchCandidatesByKeywords(ctx context.Context, keywords, skills []string, limit int) ([]types.CandidateSummary, error)

	CountActionsSince(ctx context.Context, since time.Time) (int, error)
	CountContactedCandidates(ctx context.Context) (int, error)
	CountActionsByType(ctx context.Context, actionType types.ActionType) (int, error)
	LastActionTime(ctx context.Context) (*time.Time, error)
}

// RunQueue starts goal runs in the background and reports on them.
type RunQueue interface {
	Submit(goalID uuid.UUID) error
	Status(goalID uuid.UUID) (dispatch.TaskStatus, bool)
}

// Ranker scores candidates against a target.
type Ranker interface {
	Rank(ctx context.Context, target ranking.Target, candidates []types.CandidateSummary, filters types.RankFilters, limit int) ([]types.RankedCandidate, error)
}

// ActionLister reads a goal's action history.
type ActionLister interface {
	List(ctx context.Context, goalID uuid.UUID) ([]types.AgentAction, error)
}

// FeedbackLearner stores feedback and reports observed signals.
type FeedbackLearner interface {
	Learn(ctx context.Context, fb *types.Feedback) (*types.Feedback, error)
	Signals() feedback.Signals
}

// Dependencies wires the service to its collaborators. Embedder may be nil,
// in which case similar-candidate search reports the provider as unavailable.
type Dependencies struct {
	Repo     Repository
	Runs     RunQueue
	Ranker   Ranker
	Actions  ActionLister
	Feedback FeedbackLearner
	Embedder embedding.Embedder
}

// Options tunes the service.
type Options struct {
	// InstanceID identifies this agent process in status reports.
	InstanceID   string
	RankPoolSize int
	RankLimit    int
	Now          func() time.Time
}

// Service implements the agent operations.
type Service struct {
	deps   Dependencies
	opts   Options
	logger *zap.Logger
}

// Status is the agent activity summary. Every counter is read from the
// repository when requested.
type Status struct {
	InstanceID          string           `json:"agent_id"`
	Status              string           `json:"status"`
	ActiveGoals         int              `json:"active_goals"`
	RecentActions       int              `json:"recent_actions"`
	CandidatesContacted int              `json:"candidates_contacted"`
	MessagesSent        int              `json:"messages_sent"`
	LastActionTime      *time.Time       `json:"last_action_time"`
	Signals             feedback.Signals `json:"learning_signals"`
}

// NewService creates a service.
func NewService(deps Dependencies, opts Options, log *zap.Logger) *Service {
	if opts.InstanceID == "" {
		opts.InstanceID = uuid.NewString()
	}
	if opts.RankPoolSize <= 0 {
		opts.RankPoolSize = DefaultRankPoolSize
	}
	if opts.RankLimit <= 0 {
		opts.RankLimit = ranking.DefaultLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{deps: deps, opts: opts, logger: logger.OrNop(log)}
}

// InstanceID returns the identifier reported in status responses.
func (s *Service) InstanceID() string {
	return s.opts.InstanceID
}

// CreateGoal validates and stores a goal, then queues its run. It returns as
// soon as the run is queued.
func (s *Service) CreateGoal(ctx context.Context, req *types.CreateGoalRequest) (*types.CreateGoalResponse, error) {
	if req == nil {
		return nil, &types.ValidationError{Message: "request body is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, types.AsValidationError(err)
	}
	priority, err := types.ParsePriority(req.Priority)
	if err != nil {
		return nil, &types.ValidationError{Field: "priority", Message: err.Error()}
	}

	goal, err := s.deps.Repo.CreateGoal(ctx, &db.GoalInput{
		Title:           req.Title,
		Description:     req.Description,
		TargetPositions: req.TargetPositions,
		Deadline:        req.Deadline,
		Priority:        priority,
	})
	if err != nil {
		return nil, err
	}

	if err := s.deps.Runs.Submit(goal.ID); err != nil {
		s.logger.Error("goal persisted without run",
			zap.String(logger.FieldGoalID, goal.ID.String()),
			zap.String("status", string(goal.Status)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to start run for goal %s: %w", goal.ID, err)
	}

	s.logger.Info("goal created",
		zap.String(logger.FieldGoalID, goal.ID.String()),
		zap.String("priority", string(goal.Priority)))

	return &types.CreateGoalResponse{GoalID: goal.ID.String(), Status: goal.Status}, nil
}

// Rank ranks candidates against a stored job description. An unknown job
// yields a response with a nil job and no results.
func (s *Service) Rank(ctx context.Context, req *types.RankRequest) (*types.RankResponse, error) {
	if req == nil {
		return nil, &types.ValidationError{Message: "request body is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, types.AsValidationError(err)
	}
	jobID, err := parseID("job_id", req.JobID)
	if err != nil {
		return nil, err
	}

	job, err := s.deps.Repo.GetJobDescription(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return &types.RankResponse{Results: []types.RankedCandidate{}}, nil
	}

	var pool []types.CandidateSummary
	if job.HasEmbedding {
		pool, err = s.deps.Repo.NearestCandidates(ctx, job.ID, s.opts.RankPoolSize)
	} else {
		skills := make([]string, 0, len(job.RequiredSkills)+len(job.OptionalSkills))
		skills = append(skills, job.RequiredSkills...)
		skills = append(skills, job.OptionalSkills...)
		pool, err = s.deps.Repo.SearchCandidatesByKeywords(ctx, nil, skills, s.opts.RankPoolSize)
	}
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.RankLimit
	}

	results, err := s.deps.Ranker.Rank(ctx, ranking.TargetFromJob(job), pool, req.Filters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	s.logger.Debug("ranked candidates",
		zap.String(logger.FieldJobID, job.ID.String()),
		zap.Int("pool", len(pool)),
		zap.Int("results", len(results)))

	return &types.RankResponse{Job: job, Results: results}, nil
}

// SubmitFeedback stores a recruiter's feedback on a candidate.
func (s *Service) SubmitFeedback(ctx context.Context, req *types.FeedbackRequest) (*types.Feedback, error) {
	if req == nil {
		return nil, &types.ValidationError{Message: "request body is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, types.AsValidationError(err)
	}
	candidateID, err := parseID("candidate_id", req.CandidateID)
	if err != nil {
		return nil, err
	}

	return s.deps.Feedback.Learn(ctx, &types.Feedback{
		CandidateID:   candidateID,
		FeedbackType:  req.FeedbackType,
		FeedbackScore: req.FeedbackScore,
		Notes:         req.Notes,
	})
}

// GetActions returns a goal's actions, oldest first. Unknown goals have none.
func (s *Service) GetActions(ctx context.Context, goalID string) ([]types.AgentAction, error) {
	id, err := parseID("goal_id", goalID)
	if err != nil {
		return nil, err
	}
	return s.deps.Actions.List(ctx, id)
}

// ListGoals returns goals newest first, optionally filtered by status.
func (s *Service) ListGoals(ctx context.Context, status string, limit int) ([]types.Goal, error) {
	goalStatus := types.GoalStatus(status)
	if status != "" && !goalStatus.Valid() {
		return nil, &types.ValidationError{Field: "status", Message: fmt.Sprintf("unknown goal status %q", status)}
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	goals, err := s.deps.Repo.ListGoals(ctx, goalStatus, limit)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []types.Goal{}
	}
	return goals, nil
}

// GetGoal returns a goal, or nil when it does not exist.
func (s *Service) GetGoal(ctx context.Context, goalID string) (*types.Goal, error) {
	id, err := parseID("goal_id", goalID)
	if err != nil {
		return nil, err
	}
	return s.deps.Repo.GetGoal(ctx, id)
}

// UpdateGoalStatus changes a goal's status and returns the updated goal, or
// nil when the goal does not exist. Concurrent edits are last-write-wins.
func (s *Service) UpdateGoalStatus(ctx context.Context, goalID string, req *types.UpdateGoalStatusRequest) (*types.Goal, error) {
	id, err := parseID("goal_id", goalID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &types.ValidationError{Message: "request body is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, types.AsValidationError(err)
	}

	updated, err := s.deps.Repo.UpdateGoalStatus(ctx, id, types.GoalStatus(req.Status))
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, nil
	}

	s.logger.Info("goal status changed",
		zap.String(logger.FieldGoalID, id.String()),
		zap.String("status", req.Status))

	return s.deps.Repo.GetGoal(ctx, id)
}

// RunStatus reports the background run for a goal, or nil when this process
// has no run for it.
func (s *Service) RunStatus(goalID string) (*dispatch.TaskStatus, error) {
	id, err := parseID("goal_id", goalID)
	if err != nil {
		return nil, err
	}
	status, ok := s.deps.Runs.Status(id)
	if !ok {
		return nil, nil
	}
	return &status, nil
}

// Status summarises agent activity.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	active, err := s.deps.Repo.CountGoalsByStatus(ctx, types.GoalStatusActive)
	if err != nil {
		return nil, err
	}
	recent, err := s.deps.Repo.CountActionsSince(ctx, s.opts.Now().Add(-recentActionsInterval))
	if err != nil {
		return nil, err
	}
	contacted, err := s.deps.Repo.CountContactedCandidates(ctx)
	if err != nil {
		return nil, err
	}
	sent, err := s.deps.Repo.CountActionsByType(ctx, types.ActionSendOutreach)
	if err != nil {
		return nil, err
	}
	last, err := s.deps.Repo.LastActionTime(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		InstanceID:          s.opts.InstanceID,
		Status:              "active",
		ActiveGoals:         active,
		RecentActions:       recent,
		CandidatesContacted: contacted,
		MessagesSent:        sent,
		LastActionTime:      last,
	}
	if s.deps.Feedback != nil {
		status.Signals = s.deps.Feedback.Signals()
	}
	return status, nil
}

// SimilarCandidates embeds text and returns the nearest stored candidates.
func (s *Service) SimilarCandidates(ctx context.Context, text string, limit int) ([]types.CandidateSummary, error) {
	if text == "" {
		return nil, &types.ValidationError{Field: "text", Message: "is required"}
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		return nil, &types.ValidationError{Field: "limit", Message: fmt.Sprintf("must be at most %d", MaxSimilarLimit)}
	}
	if s.deps.Embedder == nil {
		return nil, embedding.ErrProviderUnavailable
	}

	vec, err := s.deps.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("similar candidate search",
		zap.String("text", logger.TruncateForLog(text, 80)),
		zap.Int("limit", limit))
	return s.deps.Repo.NearestCandidatesToVector(ctx, vec, limit)
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &types.ValidationError{Field: field, Message: "must be a valid UUID"}
	}
	return id, nil
}
