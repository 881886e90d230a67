// Package pipeline runs the goal-execution stage machine: load the goal,
// analyze requirements, search, rank, reach out and schedule a follow-up.
package pipeline

import "fmt"

// Stage is a position in the goal-execution state machine.
type Stage string

// Stage constants, in execution order.
const (
	StagePending    Stage = "pending"
	StageLoaded     Stage = "loaded"
	StageAnalyzed   Stage = "analyzed"
	StageSearched   Stage = "searched"
	StageRanked     Stage = "ranked"
	StageOutreached Stage = "outreached"
	StageScheduled  Stage = "scheduled"
	StageDone       Stage = "done"
	StageAborted    Stage = "aborted"
)

var stageOrder = []Stage{
	StagePending,
	StageLoaded,
	StageAnalyzed,
	StageSearched,
	StageRanked,
	StageOutreached,
	StageScheduled,
	StageDone,
}

// Next returns the stage that follows s. Terminal stages return themselves.
func (s Stage) Next() Stage {
	for i, st := range stageOrder {
		if st == s && i+1 < len(stageOrder) {
			return stageOrder[i+1]
		}
	}
	return s
}

// Terminal reports whether the run has ended.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageAborted
}

// StageError records the stage a run was trying to reach when it failed.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
