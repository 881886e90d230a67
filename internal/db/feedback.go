package db

import (
	"context"
	"fmt"

	"github.com/jonathan/hiring-agent/internal/types"
)

// InsertFeedback stores a feedback record. The candidate id is not checked
// against the candidates table.
func (db *DB) InsertFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	stored := *fb
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidate_feedback (candidate_id, feedback_type, feedback_score, notes)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING id, created_at`,
		fb.CandidateID, fb.FeedbackType, fb.FeedbackScore, fb.Notes,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return &stored, nil
}
