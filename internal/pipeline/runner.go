package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/parsing"
	"github.com/jonathan/hiring-agent/internal/ranking"
	"github.com/jonathan/hiring-agent/internal/search"
	"github.com/jonathan/hiring-agent/internal/types"
)

// Defaults for Options
const (
	DefaultOutreachLimit = 5
	DefaultFollowUpDelay = 72 * time.Hour
)

// GoalReader loads goals.
type GoalReader interface {
	GetGoal(ctx context.Context, id uuid.UUID) (*types.Goal, error)
}

// JobMatcher finds a stored job description for a goal. (nil, nil) means no match.
type JobMatcher interface {
	FindJobDescriptionForGoal(ctx context.Context, title, description string) (*types.JobDescription, error)
}

// CandidateSearcher selects the candidate pool for a strategy.
type CandidateSearcher interface {
	Search(ctx context.Context, strategy *types.SearchStrategy) (*search.Result, error)
}

// Ranker scores candidates with the full weighted score.
type Ranker interface {
	Rank(ctx context.Context, target ranking.Target, candidates []types.CandidateSummary, filters types.RankFilters, limit int) ([]types.RankedCandidate, error)
}

// ActionAppender records actions.
type ActionAppender interface {
	Append(ctx context.Context, goalID uuid.UUID, result types.ActionResult) (uuid.UUID, error)
}

// MessageWriter drafts outreach messages.
type MessageWriter interface {
	WriteOutreach(ctx context.Context, candidate types.RankedCandidate, goalTitle string) (string, error)
}

// Dependencies are the collaborators a Runner calls. Messages is optional;
// without it every message comes from OutreachMessage.
type Dependencies struct {
	Goals    GoalReader
	Jobs     JobMatcher
	Searcher CandidateSearcher
	Ranker   Ranker
	Actions  ActionAppender
	Messages MessageWriter
}

// Options tunes a Runner.
type Options struct {
	OutreachLimit int
	FollowUpDelay time.Duration
	// Now is the clock used for recency and follow-up scheduling.
	Now func() time.Time
}

// ProgressEvent is emitted each time a run reaches a new stage.
type ProgressEvent struct {
	GoalID  uuid.UUID `json:"goal_id"`
	Stage   Stage     `json:"stage"`
	Message string    `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Outcome summarises a finished run.
type Outcome struct {
	GoalID        uuid.UUID `json:"goal_id"`
	FinalStage    Stage     `json:"final_stage"`
	AbortedAt     Stage     `json:"aborted_at,omitempty"`
	Err           error     `json:"-"`
	Error         string    `json:"error,omitempty"`
	ActionsLogged int       `json:"actions_logged"`
	GoalFound     bool      `json:"goal_found"`
}

// runState carries typed stage results through a single run.
type runState struct {
	goalID        uuid.UUID
	stage         Stage
	goal          *types.Goal
	strategy      types.SearchStrategy
	pool          *search.Result
	rankPath      types.RankPath
	ranked        []types.RankedCandidate
	actionsLogged int
}

// Runner executes goal runs. It never reads or writes goal status.
type Runner struct {
	deps   Dependencies
	opts   Options
	logger *zap.Logger
}

// NewRunner creates a runner. Zero options fall back to the defaults.
func NewRunner(deps Dependencies, opts Options, log *zap.Logger) *Runner {
	if opts.OutreachLimit <= 0 {
		opts.OutreachLimit = DefaultOutreachLimit
	}
	if opts.FollowUpDelay <= 0 {
		opts.FollowUpDelay = DefaultFollowUpDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{deps: deps, opts: opts, logger: logger.OrNop(log)}
}

type stageFunc func(ctx context.Context, st *runState) error

// Run executes every stage for goalID in order. A failing stage aborts the
// rest; actions already logged are kept.
func (r *Runner) Run(ctx context.Context, goalID uuid.UUID, onProgress ProgressCallback) (outcome Outcome) {
	st := &runState{goalID: goalID, stage: StagePending}
	log := r.logger.With(zap.String(logger.FieldGoalID, goalID.String()))

	stages := []struct {
		target Stage
		run    stageFunc
	}{
		{StageLoaded, r.loadGoal},
		{StageAnalyzed, r.analyzeRequirements},
		{StageSearched, r.searchCandidates},
		{StageRanked, r.rankCandidates},
		{StageOutreached, r.sendOutreach},
		{StageScheduled, r.scheduleFollowUp},
	}

	current := StagePending
	defer func() {
		if p := recover(); p != nil {
			outcome = r.abort(log, st, current, fmt.Errorf("panic: %v", p))
		}
	}()

	for _, stage := range stages {
		current = stage.target
		if err := stage.run(ctx, st); err != nil {
			return r.abort(log, st, stage.target, err)
		}
		if st.goal == nil {
			log.Info("goal not found, nothing to do")
			return Outcome{GoalID: goalID, FinalStage: StageDone}
		}
		st.stage = stage.target
		log.Info("pipeline stage completed",
			zap.String(logger.FieldStage, string(st.stage)),
			zap.Int("actions_logged", st.actionsLogged))
		if onProgress != nil {
			onProgress(ProgressEvent{GoalID: goalID, Stage: st.stage, Message: describe(st)})
		}
	}

	st.stage = StageDone
	if onProgress != nil {
		onProgress(ProgressEvent{GoalID: goalID, Stage: StageDone, Message: "run complete"})
	}
	return Outcome{
		GoalID:        goalID,
		FinalStage:    StageDone,
		ActionsLogged: st.actionsLogged,
		GoalFound:     true,
	}
}

func (r *Runner) abort(log *zap.Logger, st *runState, at Stage, err error) Outcome {
	stageErr := &StageError{Stage: at, Cause: err}
	log.Error("pipeline stage failed, aborting run",
		zap.String(logger.FieldStage, string(at)),
		zap.Int("actions_logged", st.actionsLogged),
		zap.Error(err))
	return Outcome{
		GoalID:        st.goalID,
		FinalStage:    StageAborted,
		AbortedAt:     at,
		Err:           stageErr,
		Error:         stageErr.Error(),
		ActionsLogged: st.actionsLogged,
		GoalFound:     st.goal != nil,
	}
}

func (r *Runner) loadGoal(ctx context.Context, st *runState) error {
	goal, err := r.deps.Goals.GetGoal(ctx, st.goalID)
	if err != nil {
		return fmt.Errorf("failed to load goal: %w", err)
	}
	st.goal = goal
	return nil
}

func (r *Runner) analyzeRequirements(ctx context.Context, st *runState) error {
	jd, err := r.deps.Jobs.FindJobDescriptionForGoal(ctx, st.goal.Title, st.goal.Description)
	if err != nil {
		return fmt.Errorf("failed to match job description: %w", err)
	}

	if jd != nil {
		st.strategy = parsing.StrategyFromJob(jd)
	} else {
		st.strategy = parsing.StrategyFromText(st.goal.Description)
	}

	return r.logAction(ctx, st, types.AnalyzeRequirementsResult{Strategy: st.strategy})
}

func (r *Runner) searchCandidates(ctx context.Context, st *runState) error {
	pool, err := r.deps.Searcher.Search(ctx, &st.strategy)
	if err != nil {
		return err
	}
	st.pool = pool

	return r.logAction(ctx, st, types.SearchCandidatesResult{
		Mode:         pool.Mode,
		Count:        len(pool.Candidates),
		CandidateIDs: pool.IDs(),
	})
}

func (r *Runner) rankCandidates(ctx context.Context, st *runState) error {
	result := types.RankCandidatesResult{Considered: len(st.pool.Candidates)}

	if st.strategy.HasSourceJob() {
		ranked, err := r.deps.Ranker.Rank(ctx, ranking.TargetFromStrategy(&st.strategy), st.pool.Candidates, types.RankFilters{}, r.opts.OutreachLimit)
		if err != nil {
			return fmt.Errorf("failed to rank candidates: %w", err)
		}
		st.ranked = ranked
		st.rankPath = types.RankPathFull
		id := *st.strategy.SourceJobID
		result.JobID = &id
	} else {
		st.ranked = ranking.RankFallback(st.pool.Candidates, &st.strategy, r.opts.Now(), r.opts.OutreachLimit)
		st.rankPath = types.RankPathFallback
	}

	result.Path = st.rankPath
	result.Top = make([]types.RankedEntry, len(st.ranked))
	for i, c := range st.ranked {
		result.Top[i] = types.RankedEntry{CandidateID: c.CandidateID, Name: c.Name, FinalScore: c.FinalScore}
	}

	return r.logAction(ctx, st, result)
}

func (r *Runner) sendOutreach(ctx context.Context, st *runState) error {
	for _, candidate := range st.ranked {
		err := r.logAction(ctx, st, types.SendOutreachResult{
			CandidateID:    candidate.CandidateID,
			CandidateName:  candidate.Name,
			Email:          candidate.Email,
			Message:        r.draftMessage(ctx, st, candidate),
			DeliveryStatus: types.DeliveryStatusSent,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// draftMessage asks the message writer for a draft and falls back to the
// template when there is no writer or the draft fails.
func (r *Runner) draftMessage(ctx context.Context, st *runState, candidate types.RankedCandidate) string {
	if r.deps.Messages == nil {
		return OutreachMessage(candidate, st.goal.Title)
	}
	msg, err := r.deps.Messages.WriteOutreach(ctx, candidate, st.goal.Title)
	if err != nil {
		r.logger.Warn("outreach draft failed, using template",
			zap.String(logger.FieldGoalID, st.goalID.String()),
			zap.String(logger.FieldCandidateID, candidate.CandidateID.String()),
			zap.Error(err))
		return OutreachMessage(candidate, st.goal.Title)
	}
	return msg
}

func (r *Runner) scheduleFollowUp(ctx context.Context, st *runState) error {
	return r.logAction(ctx, st, types.ScheduleFollowUpResult{
		ScheduledTime: r.opts.Now().Add(r.opts.FollowUpDelay),
		Action:        types.FollowUpCheckResponses,
	})
}

func (r *Runner) logAction(ctx context.Context, st *runState, result types.ActionResult) error {
	if _, err := r.deps.Actions.Append(ctx, st.goalID, result); err != nil {
		return err
	}
	st.actionsLogged++
	return nil
}

func describe(st *runState) string {
	switch st.stage {
	case StageLoaded:
		return fmt.Sprintf("Loaded goal: %s", st.goal.Title)
	case StageAnalyzed:
		return fmt.Sprintf("Built %s strategy with %d required skills", st.strategy.Source, len(st.strategy.RequiredSkills))
	case StageSearched:
		return fmt.Sprintf("Found %d candidates (%s search)", len(st.pool.Candidates), st.pool.Mode)
	case StageRanked:
		return fmt.Sprintf("Ranked %d candidates (%s path)", len(st.ranked), st.rankPath)
	case StageOutreached:
		return fmt.Sprintf("Reached out to %d candidates", len(st.ranked))
	case StageScheduled:
		return "Scheduled follow-up"
	}
	return string(st.stage)
}
