// Package types provides type definitions for structured data used throughout the hiring agent.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoalStatus is the lifecycle status of a hiring goal.
type GoalStatus string

// GoalStatus constants
const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused:
		return true
	}
	return false
}

// Priority of a hiring goal.
type Priority string

// Priority constants
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority parses a priority case-insensitively. Empty input yields medium.
func ParsePriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityMedium, nil
	}
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Goal is a hiring objective the agent works toward.
type Goal struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	TargetPositions int        `json:"target_positions"`
	Deadline        time.Time  `json:"deadline"`
	Priority        Priority   `json:"priority"`
	Status          GoalStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}
