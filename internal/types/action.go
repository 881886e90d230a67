package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActionType identifies what an agent action did. It is also the tag of the
// action's result payload.
type ActionType string

// ActionType constants
const (
	ActionAnalyzeRequirements ActionType = "analyze_requirements"
	ActionSearchCandidates    ActionType = "search_candidates"
	ActionRankCandidates      ActionType = "rank_candidates"
	ActionSendOutreach        ActionType = "send_outreach"
	ActionScheduleFollowUp    ActionType = "schedule_follow_up"
)

// ActionStatus constants. The pipeline only ever writes completed; pending
// and failed exist for external producers.
type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusFailed    ActionStatus = "failed"
)

// SearchMode records which candidate search path produced a result set.
type SearchMode string

// SearchMode constants
const (
	SearchModeVector  SearchMode = "vector"
	SearchModeKeyword SearchMode = "keyword"
	SearchModeRecent  SearchMode = "recent"
)

// RankPath records which scoring path ranked the candidates.
type RankPath string

// RankPath constants
const (
	RankPathFull     RankPath = "full"
	RankPathFallback RankPath = "fallback"
)

// DeliveryStatusSent marks an outreach message handed to the delivery collaborator.
const DeliveryStatusSent = "sent"

// FollowUpCheckResponses is the follow-up action scheduled after outreach.
const FollowUpCheckResponses = "check_responses_and_follow_up"

// ActionResult is the payload of an AgentAction. Implementations are the
// *Result types in this file; the set is closed.
type ActionResult interface {
	ActionType() ActionType
	actionResult()
}

// AnalyzeRequirementsResult is logged once the search strategy is built.
type AnalyzeRequirementsResult struct {
	Strategy SearchStrategy `json:"strategy"`
}

// SearchCandidatesResult is logged after candidate search.
type SearchCandidatesResult struct {
	Mode         SearchMode  `json:"mode"`
	Count        int         `json:"count"`
	CandidateIDs []uuid.UUID `json:"candidate_ids"`
}

// RankedEntry is a compact ranked candidate kept in the action log.
type RankedEntry struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	FinalScore  float64   `json:"final_score"`
}

// RankCandidatesResult is logged after ranking.
type RankCandidatesResult struct {
	Path       RankPath      `json:"path"`
	JobID      *uuid.UUID    `json:"job_id,omitempty"`
	Considered int           `json:"considered"`
	Top        []RankedEntry `json:"top"`
}

// SendOutreachResult is logged once per contacted candidate.
type SendOutreachResult struct {
	CandidateID    uuid.UUID `json:"candidate_id"`
	CandidateName  string    `json:"candidate_name"`
	Email          string    `json:"email,omitempty"`
	Message        string    `json:"message"`
	DeliveryStatus string    `json:"delivery_status"`
}

// ScheduleFollowUpResult is logged when a follow-up is scheduled.
type ScheduleFollowUpResult struct {
	ScheduledTime time.Time `json:"scheduled_time"`
	Action        string    `json:"action"`
}

func (AnalyzeRequirementsResult) ActionType() ActionType { return ActionAnalyzeRequirements }
func (SearchCandidatesResult) ActionType() ActionType    { return ActionSearchCandidates }
func (RankCandidatesResult) ActionType() ActionType      { return ActionRankCandidates }
func (SendOutreachResult) ActionType() ActionType        { return ActionSendOutreach }
func (ScheduleFollowUpResult) ActionType() ActionType    { return ActionScheduleFollowUp }

func (AnalyzeRequirementsResult) actionResult() {}
func (SearchCandidatesResult) actionResult()    {}
func (RankCandidatesResult) actionResult()      {}
func (SendOutreachResult) actionResult()        {}
func (ScheduleFollowUpResult) actionResult()    {}

// UnknownActionTypeError is returned when a stored action carries a tag this
// build does not know how to decode.
type UnknownActionTypeError struct {
	Type ActionType
}

func (e *UnknownActionTypeError) Error() string {
	return fmt.Sprintf("unknown action type: %q", e.Type)
}

// DecodeActionResult decodes a raw result payload according to its action type.
func DecodeActionResult(actionType ActionType, raw []byte) (ActionResult, error) {
	var (
		result ActionResult
		err    error
	)
	switch actionType {
	case ActionAnalyzeRequirements:
		var r AnalyzeRequirementsResult
		err = json.Unmarshal(raw, &r)
		result = r
	case ActionSearchCandidates:
		var r SearchCandidatesResult
		err = json.Unmarshal(raw, &r)
		result = r
	case ActionRankCandidates:
		var r RankCandidatesResult
		err = json.Unmarshal(raw, &r)
		result = r
	case ActionSendOutreach:
		var r SendOutreachResult
		err = json.Unmarshal(raw, &r)
		result = r
	case ActionScheduleFollowUp:
		var r ScheduleFollowUpResult
		err = json.Unmarshal(raw, &r)
		result = r
	default:
		return nil, &UnknownActionTypeError{Type: actionType}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", actionType, err)
	}
	return result, nil
}

// AgentAction is an append-only audit record of one pipeline step.
type AgentAction struct {
	ID        uuid.UUID    `json:"id"`
	GoalID    uuid.UUID    `json:"goal_id"`
	Type      ActionType   `json:"action_type"`
	Status    ActionStatus `json:"status"`
	Result    ActionResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

// UnmarshalJSON decodes the result payload using the action_type tag.
func (a *AgentAction) UnmarshalJSON(data []byte) error {
	type alias AgentAction
	aux := struct {
		*alias
		Result json.RawMessage `json:"result"`
	}{alias: (*alias)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Result) == 0 || string(aux.Result) == "null" {
		a.Result = nil
		return nil
	}

	result, err := DecodeActionResult(a.Type, aux.Result)
	if err != nil {
		return err
	}
	a.Result = result
	return nil
}
