package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/hiring-agent/internal/types"
)

// GoalsResponse lists goals.
type GoalsResponse struct {
	Goals []types.Goal `json:"goals"`
}

// ActionsResponse lists a goal's actions, oldest first.
type ActionsResponse struct {
	GoalID  string              `json:"goal_id"`
	Actions []types.AgentAction `json:"actions"`
}

// CandidatesResponse lists candidates.
type CandidatesResponse struct {
	Results []types.CandidateSummary `json:"results"`
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and trailing data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &types.ValidationError{Message: "request body is required"}
		}
		return &types.ValidationError{Message: "invalid request body: " + err.Error()}
	}
	if dec.More() {
		return &types.ValidationError{Message: "request body must contain a single JSON object"}
	}
	return nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &types.ValidationError{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req types.CreateGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	resp, err := s.service.CreateGoal(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, resp)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	goals, err := s.service.ListGoals(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, GoalsResponse{Goals: goals})
}

// handleGetGoal returns the goal, or null when it does not exist.
func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.service.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, goal)
}

func (s *Server) handleUpdateGoalStatus(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateGoalStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	goal, err := s.service.UpdateGoalStatus(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, goal)
}

func (s *Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")
	actions, err := s.service.GetActions(r.Context(), goalID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if actions == nil {
		actions = []types.AgentAction{}
	}
	s.jsonResponse(w, http.StatusOK, ActionsResponse{GoalID: goalID, Actions: actions})
}

// handleRunStatus returns the background run state, or null when this
// process has no run for the goal.
func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.RunStatus(r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req types.RankRequest
	if err := decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	resp, err := s.service.Rank(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req types.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	stored, err := s.service.SubmitFeedback(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, stored)
}

func (s *Server) handleAgentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Status(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}

func (s *Server) handleSimilarCandidates(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	results, err := s.service.SimilarCandidates(r.Context(), r.URL.Query().Get("text"), limit)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if results == nil {
		results = []types.CandidateSummary{}
	}
	s.jsonResponse(w, http.StatusOK, CandidatesResponse{Results: results})
}
